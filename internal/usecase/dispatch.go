package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lifeos/internal/domain"
	"lifeos/internal/intent"
	"lifeos/internal/store"
)

type handlerFunc func(d *Dispatcher, ctx context.Context, in intent.Intent) (Outcome, error)

var dispatchTable map[intent.Action]handlerFunc

func init() {
	dispatchTable = map[intent.Action]handlerFunc{
		intent.AddTask:      (*Dispatcher).addTask,
		intent.UpdateTask:   (*Dispatcher).updateTask,
		intent.CompleteTask: (*Dispatcher).completeTask,
		intent.DeleteTask:   (*Dispatcher).deleteTask,

		intent.AddExpense:        (*Dispatcher).addTransaction,
		intent.AddIncome:         (*Dispatcher).addTransaction,
		intent.AddTransaction:    (*Dispatcher).addTransaction,
		intent.DeleteTransaction: (*Dispatcher).deleteTransaction,

		intent.AddBudget:    (*Dispatcher).addBudget,
		intent.UpdateBudget: (*Dispatcher).updateBudget,
		intent.DeleteBudget: (*Dispatcher).deleteBudget,

		intent.AddSavingsGoal:    (*Dispatcher).addBudget,
		intent.DepositSavings:    (*Dispatcher).depositSavings,
		intent.WithdrawSavings:   (*Dispatcher).withdrawSavings,
		intent.DeleteSavingsGoal: (*Dispatcher).deleteBudget,

		intent.AddNote:     (*Dispatcher).addNote,
		intent.UpdateNote:  (*Dispatcher).updateNote,
		intent.AppendNote:  (*Dispatcher).appendNote,
		intent.PinNote:     (*Dispatcher).pinNote,
		intent.ArchiveNote: (*Dispatcher).archiveNote,
		intent.DeleteNote:  (*Dispatcher).deleteNote,

		intent.AddHabit:      (*Dispatcher).addHabit,
		intent.CompleteHabit: (*Dispatcher).completeHabit,
		intent.DeleteHabit:   (*Dispatcher).deleteHabit,

		intent.AddInventory:    (*Dispatcher).addInventory,
		intent.UpdateInventory: (*Dispatcher).updateInventory,
		intent.SellInventory:   (*Dispatcher).sellInventory,
		intent.DeleteInventory: (*Dispatcher).deleteInventory,

		intent.AddStudySubject:    (*Dispatcher).addStudySubject,
		intent.AddStudyChapter:    (*Dispatcher).addStudyChapter,
		intent.AddStudyPart:       (*Dispatcher).addStudyPart,
		intent.UpdateStudyStatus:  (*Dispatcher).updateStudyStatus,
		intent.DeleteStudySubject: (*Dispatcher).deleteStudySubject,
	}
}

// Dispatcher applies intents to the domain stores of the user on the
// context.
type Dispatcher struct {
	stores store.Set
	loc    *time.Location
	now    func() time.Time
}

func NewDispatcher(stores store.Set, loc *time.Location) (*Dispatcher, error) {
	if err := stores.Validate(); err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{stores: stores, loc: loc, now: time.Now}, nil
}

// Execute runs one intent. Conversational actions and unknown actions never
// touch a store. A store failure is returned as *ActionExecutionError
// together with a failed outcome.
func (d *Dispatcher) Execute(ctx context.Context, in intent.Intent) (Outcome, error) {
	switch {
	case !in.Action.Known():
		return Outcome{Action: in.Action, Status: StatusUnrecognized}, nil
	case in.Action.Conversational():
		return Outcome{Action: in.Action, Status: StatusNoop}, nil
	case in.Action == intent.Navigate:
		p, _ := in.Payload.(intent.NavigatePayload)
		if p.Route == "" {
			return invalid(in.Action, "no route given"), nil
		}
		return Outcome{Action: in.Action, Status: StatusApplied, Route: p.Route}, nil
	}

	h, ok := dispatchTable[in.Action]
	if !ok {
		return Outcome{Action: in.Action, Status: StatusUnrecognized}, nil
	}
	out, err := h(d, ctx, in)
	if err != nil {
		var execErr *ActionExecutionError
		if !errors.As(err, &execErr) {
			execErr = &ActionExecutionError{Action: in.Action, Err: err}
		}
		slog.Error("failed to execute action",
			"action", in.Action,
			"needs_reconciliation", execErr.NeedsReconciliation,
			"left_in_place", execErr.LeftInPlace,
			"err", execErr.Err,
		)
		return failed(in.Action), execErr
	}
	return out, nil
}

// ExecuteAll runs intents in order and stops at the first failure. Earlier
// intents are not rolled back.
func (d *Dispatcher) ExecuteAll(ctx context.Context, intents []intent.Intent) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(intents))
	for _, in := range intents {
		out, err := d.Execute(ctx, in)
		outcomes = append(outcomes, out)
		if err != nil {
			return outcomes, err
		}
	}
	return outcomes, nil
}

func (d *Dispatcher) today() string {
	return d.now().In(d.loc).Format(domain.DateLayout)
}

// entryDate parses a DateLayout day in the dispatcher's zone, falling back
// to now.
func (d *Dispatcher) entryDate(day string) time.Time {
	if day == "" {
		return d.now()
	}
	t, err := time.ParseInLocation(domain.DateLayout, day, d.loc)
	if err != nil {
		return d.now()
	}
	return t
}

func listErr(kind string, err error) error {
	return fmt.Errorf("list %s: %w", kind, err)
}
