package usecase

import (
	"fmt"
	"strings"

	"lifeos/internal/intent"
)

type ErrorCode string

const (
	ErrorInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrorUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrorTurnInProgress  ErrorCode = "TURN_IN_PROGRESS"
	ErrorActionFailed    ErrorCode = "ACTION_FAILED"
	ErrorInternal        ErrorCode = "INTERNAL_ERROR"
)

type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// ActionExecutionError reports a store failure while executing one intent.
// When NeedsReconciliation is set, undoing earlier steps also failed and
// LeftInPlace names the effects that were not rolled back.
type ActionExecutionError struct {
	Action              intent.Action
	Err                 error
	NeedsReconciliation bool
	LeftInPlace         []string
}

func (e *ActionExecutionError) Error() string {
	msg := fmt.Sprintf("usecase: execute %s: %v", e.Action, e.Err)
	if e.NeedsReconciliation {
		msg += fmt.Sprintf(" (needs reconciliation: %s)", strings.Join(e.LeftInPlace, ", "))
	}
	return msg
}

func (e *ActionExecutionError) Unwrap() error {
	return e.Err
}
