package domain

import "time"

type Habit struct {
	ID              string
	UserID          string
	Name            string
	StreakCount     int
	LastCompletedAt *time.Time
	CreatedAt       time.Time
}

// DoneOn reports whether the date portion of the last completion, taken in
// loc, equals day.
func (h Habit) DoneOn(day string, loc *time.Location) bool {
	if h.LastCompletedAt == nil {
		return false
	}
	return h.LastCompletedAt.In(loc).Format(DateLayout) == day
}

// NextStreak is the streak after completing the habit on day. Completing on
// the day after the last completion extends the streak; any gap resets it.
func (h Habit) NextStreak(day string, loc *time.Location) int {
	if h.LastCompletedAt == nil {
		return 1
	}
	last := h.LastCompletedAt.In(loc).Format(DateLayout)
	if last == day {
		return h.StreakCount
	}
	d, err := time.ParseInLocation(DateLayout, day, loc)
	if err != nil {
		return 1
	}
	if d.AddDate(0, 0, -1).Format(DateLayout) == last {
		return h.StreakCount + 1
	}
	return 1
}
