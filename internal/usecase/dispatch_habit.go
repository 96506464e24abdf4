package usecase

import (
	"context"
	"fmt"

	"lifeos/internal/domain"
	"lifeos/internal/intent"
	"lifeos/internal/store"
)

func habitID(h domain.Habit) string   { return h.ID }
func habitName(h domain.Habit) string { return h.Name }

func (d *Dispatcher) addHabit(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.HabitPayload)
	if p.Name == "" || isBulk(p.Name) {
		return invalid(in.Action, "a habit needs a name"), nil
	}
	h := domain.Habit{Name: p.Name, CreatedAt: d.now()}
	if _, err := d.stores.Habits.Create(ctx, h); err != nil {
		return Outcome{}, fmt.Errorf("create habit: %w", err)
	}
	return applied(in.Action, h.Name), nil
}

func (d *Dispatcher) completeHabit(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.HabitPayload)
	habits, err := d.stores.Habits.List(ctx)
	if err != nil {
		return Outcome{}, listErr("habits", err)
	}
	today := d.today()

	if p.ID == "" && isBulk(p.Name) {
		pending := filter(habits, func(h domain.Habit) bool { return !h.DoneOn(today, d.loc) })
		if len(pending) == 0 {
			return Outcome{Action: in.Action, Status: StatusNoop, Target: p.Name, Detail: "every habit is already done today"}, nil
		}
		s := newSaga(in.Action)
		for _, h := range pending {
			if err := d.markHabit(ctx, h, today); err != nil {
				return Outcome{}, s.fail(ctx, err)
			}
			h := h
			s.done("habit "+h.ID+" completed", func(ctx context.Context) error {
				return d.stores.Habits.Update(ctx, h.ID, store.Patch{"streak_count": h.StreakCount, "last_completed_date": h.LastCompletedAt})
			})
		}
		return Outcome{Action: in.Action, Status: StatusApplied, Target: p.Name, Count: len(pending)}, nil
	}

	h, ok := resolveBySubstring(habits, p.ID, p.Name, habitID, habitName)
	if !ok {
		return noMatch(in.Action, p.Name), nil
	}
	if h.DoneOn(today, d.loc) {
		return Outcome{Action: in.Action, Status: StatusNoop, Target: h.Name, Detail: "already done today"}, nil
	}
	if err := d.markHabit(ctx, h, today); err != nil {
		return Outcome{}, err
	}
	return applied(in.Action, h.Name), nil
}

func (d *Dispatcher) markHabit(ctx context.Context, h domain.Habit, today string) error {
	patch := store.Patch{
		"streak_count":        h.NextStreak(today, d.loc),
		"last_completed_date": d.now(),
	}
	if err := d.stores.Habits.Update(ctx, h.ID, patch); err != nil {
		return fmt.Errorf("complete habit %s: %w", h.ID, err)
	}
	return nil
}

func (d *Dispatcher) deleteHabit(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.HabitPayload)
	habits, err := d.stores.Habits.List(ctx)
	if err != nil {
		return Outcome{}, listErr("habits", err)
	}

	if p.ID == "" && isBulk(p.Name) {
		if len(habits) == 0 {
			return noMatch(in.Action, p.Name), nil
		}
		s := newSaga(in.Action)
		for _, h := range habits {
			if err := d.stores.Habits.Delete(ctx, h.ID); err != nil {
				return Outcome{}, s.fail(ctx, fmt.Errorf("delete habit %s: %w", h.ID, err))
			}
			s.done("habit "+h.ID+" deleted", nil)
		}
		return Outcome{Action: in.Action, Status: StatusApplied, Target: p.Name, Count: len(habits)}, nil
	}

	h, ok := resolveBySubstring(habits, p.ID, p.Name, habitID, habitName)
	if !ok {
		return noMatch(in.Action, p.Name), nil
	}
	if err := d.stores.Habits.Delete(ctx, h.ID); err != nil {
		return Outcome{}, fmt.Errorf("delete habit %s: %w", h.ID, err)
	}
	return applied(in.Action, h.Name), nil
}
