package usecase

import (
	"context"
	"log/slog"

	"lifeos/internal/intent"
)

type compensation struct {
	effect string
	undo   func(ctx context.Context) error
}

// saga records the effects of a multi-store action so they can be undone
// in reverse order when a later step fails.
type saga struct {
	action intent.Action
	steps  []compensation
}

func newSaga(a intent.Action) *saga {
	return &saga{action: a}
}

// done registers a completed effect and how to undo it. A nil undo marks an
// effect that cannot be reverted.
func (s *saga) done(effect string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{effect: effect, undo: undo})
}

// fail compensates every registered step and returns the resulting error.
func (s *saga) fail(ctx context.Context, err error) *ActionExecutionError {
	out := &ActionExecutionError{Action: s.action, Err: err}
	ctx = context.WithoutCancel(ctx)
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.undo == nil {
			out.LeftInPlace = append(out.LeftInPlace, step.effect)
			continue
		}
		if uerr := step.undo(ctx); uerr != nil {
			slog.Error("compensation failed", "action", s.action, "effect", step.effect, "err", uerr)
			out.LeftInPlace = append(out.LeftInPlace, step.effect)
		}
	}
	out.NeedsReconciliation = len(out.LeftInPlace) > 0
	return out
}
