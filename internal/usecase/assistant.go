package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"lifeos/internal/auth"
	"lifeos/internal/domain"
	"lifeos/internal/intent"
	"lifeos/internal/session"
)

const (
	defaultMaxHistory    = 10
	defaultMaxMessageLen = 1000
)

type IntentParser interface {
	Parse(ctx context.Context, message string, history []domain.ChatMessage, snapshot string) []intent.Intent
}

type Snapshotter interface {
	Build(ctx context.Context, route string) string
}

type Executor interface {
	ExecuteAll(ctx context.Context, intents []intent.Intent) ([]Outcome, error)
}

// Assistant runs one conversational turn per call.
type Assistant struct {
	sessions      session.Storage
	snapshots     Snapshotter
	parser        IntentParser
	executor      Executor
	maxHistory    int
	maxMessageLen int

	turnsMu sync.Mutex
	turns   map[string]struct{}
}

type SendInput struct {
	DeviceID string
	Message  string
	Route    string
}

type SendOutput struct {
	Reply    string
	Outcomes []Outcome
	Navigate string
}

func NewAssistant(sessions session.Storage, snapshots Snapshotter, parser IntentParser, executor Executor, maxHistory, maxMessageLen int) (*Assistant, error) {
	if sessions == nil {
		return nil, errors.New("usecase: session storage must not be nil")
	}
	if snapshots == nil {
		return nil, errors.New("usecase: snapshot builder must not be nil")
	}
	if parser == nil {
		return nil, errors.New("usecase: intent parser must not be nil")
	}
	if executor == nil {
		return nil, errors.New("usecase: executor must not be nil")
	}
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	if maxMessageLen <= 0 {
		maxMessageLen = defaultMaxMessageLen
	}
	return &Assistant{
		sessions:      sessions,
		snapshots:     snapshots,
		parser:        parser,
		executor:      executor,
		maxHistory:    maxHistory,
		maxMessageLen: maxMessageLen,
		turns:         make(map[string]struct{}),
	}, nil
}

// Send appends the user message, asks the model what to do, applies the
// resulting intents and appends the merged reply. Only one turn per device
// runs at a time.
func (a *Assistant) Send(ctx context.Context, in SendInput) (SendOutput, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return SendOutput{}, newError(ErrorInvalidInput, "empty_message", nil)
	}
	if utf8.RuneCountInString(message) > a.maxMessageLen {
		return SendOutput{}, newError(ErrorInvalidInput, "message_too_long", nil)
	}
	key, err := a.sessionKey(ctx, in.DeviceID)
	if err != nil {
		return SendOutput{}, err
	}

	if !a.beginTurn(key) {
		return SendOutput{}, newError(ErrorTurnInProgress, "turn_in_progress", nil)
	}
	defer a.endTurn(key)

	sess, err := session.Open(ctx, a.sessions, key)
	if err != nil {
		return SendOutput{}, newError(ErrorInternal, "session_load_error", err)
	}
	history := sess.History(a.maxHistory)
	if err := sess.Append(ctx, domain.ChatMessage{Role: domain.RoleUser, Content: message}); err != nil {
		return SendOutput{}, newError(ErrorInternal, "session_write_error", err)
	}

	snapshot := a.snapshots.Build(ctx, in.Route)
	intents := a.parser.Parse(ctx, message, history, snapshot)
	outcomes, execErr := a.executor.ExecuteAll(ctx, intents)

	out := SendOutput{Reply: mergeReply(intents, outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Route != "" {
			out.Navigate = o.Route
		}
	}

	if err := sess.Append(ctx, domain.ChatMessage{Role: domain.RoleAssistant, Content: out.Reply}); err != nil {
		return SendOutput{}, newError(ErrorInternal, "session_write_error", err)
	}
	if execErr != nil {
		return out, newError(ErrorActionFailed, "action_failed", execErr)
	}
	return out, nil
}

// History returns every stored message for the device.
func (a *Assistant) History(ctx context.Context, deviceID string) ([]domain.ChatMessage, error) {
	key, err := a.sessionKey(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(ctx, a.sessions, key)
	if err != nil {
		return nil, newError(ErrorInternal, "session_load_error", err)
	}
	return sess.History(0), nil
}

// Clear drops the device's conversation.
func (a *Assistant) Clear(ctx context.Context, deviceID string) error {
	key, err := a.sessionKey(ctx, deviceID)
	if err != nil {
		return err
	}
	if !a.beginTurn(key) {
		return newError(ErrorTurnInProgress, "turn_in_progress", nil)
	}
	defer a.endTurn(key)

	// Deleting needs no decode, so a stored log that cannot be read can still
	// be cleared.
	if err := a.sessions.Delete(ctx, key); err != nil {
		return newError(ErrorInternal, "session_clear_error", err)
	}
	return nil
}

// sessionKey scopes a device's conversation to the authenticated user.
func (a *Assistant) sessionKey(ctx context.Context, deviceID string) (string, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return "", newError(ErrorUnauthenticated, "missing_user", err)
	}
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return "", newError(ErrorInvalidInput, "missing_device_id", nil)
	}
	if strings.ContainsAny(deviceID, "#/") {
		return "", newError(ErrorInvalidInput, "invalid_device_id", nil)
	}
	return userID + "/" + deviceID, nil
}

func (a *Assistant) beginTurn(key string) bool {
	a.turnsMu.Lock()
	defer a.turnsMu.Unlock()
	if _, busy := a.turns[key]; busy {
		return false
	}
	a.turns[key] = struct{}{}
	return true
}

func (a *Assistant) endTurn(key string) {
	a.turnsMu.Lock()
	delete(a.turns, key)
	a.turnsMu.Unlock()
}
