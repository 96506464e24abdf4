package domain

import "time"

// DateLayout is the calendar-date format used for due dates and day keys.
const DateLayout = "2006-01-02"

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

const (
	ContextFinance = "finance"
	ContextHabit   = "habit"
)

// Task is a to-do item. A task with ContextType "finance" moves money when it
// is completed: FinanceType picks income or expense and ContextID points at
// the budget or savings goal it is linked to.
type Task struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	Status       TaskStatus
	Priority     Priority
	DueDate      string
	ExpectedCost float64
	ContextType  string
	FinanceType  FinanceType
	ContextID    string
	CompletedAt  *time.Time
	CreatedAt    time.Time
}

// Overdue reports whether the task is open and due strictly before today.
func (t Task) Overdue(today string) bool {
	return t.Status != TaskDone && t.DueDate != "" && t.DueDate < today
}

// DueOn reports whether the task is open and due on day.
func (t Task) DueOn(day string) bool {
	return t.Status != TaskDone && t.DueDate == day
}

// Pressing reports whether the task is open with high or urgent priority.
func (t Task) Pressing() bool {
	return t.Status != TaskDone && (t.Priority == PriorityHigh || t.Priority == PriorityUrgent)
}

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch Priority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
