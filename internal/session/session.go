// Package session keeps the ordered chat log of one device and persists it
// after every change.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lifeos/internal/domain"
)

// Storage persists one opaque payload per device.
type Storage interface {
	Load(ctx context.Context, deviceID string) ([]byte, error)
	Save(ctx context.Context, deviceID string, payload []byte) error
	Delete(ctx context.Context, deviceID string) error
}

// Session is the append-only message log of a device.
type Session struct {
	deviceID string
	storage  Storage
	messages []domain.ChatMessage
}

// Open loads the stored log for deviceID. Unparsable stored data is
// discarded with a warning; storage failures are returned.
func Open(ctx context.Context, storage Storage, deviceID string) (*Session, error) {
	if storage == nil {
		return nil, errors.New("session: storage must not be nil")
	}
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, errors.New("session: device id must not be empty")
	}

	raw, err := storage.Load(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("session: load %s: %w", deviceID, err)
	}
	s := &Session{deviceID: deviceID, storage: storage}
	if len(raw) == 0 {
		return s, nil
	}

	msgs, err := decode(raw)
	if err != nil {
		slog.Warn("discarding unreadable chat history", "device", deviceID, "err", err)
		return s, nil
	}
	s.messages = msgs
	return s, nil
}

// Append adds msg to the log and persists the whole log.
func (s *Session) Append(ctx context.Context, msg domain.ChatMessage) error {
	if msg.Role != domain.RoleUser && msg.Role != domain.RoleAssistant {
		return fmt.Errorf("session: invalid role %q", msg.Role)
	}
	s.messages = append(s.messages, msg)

	payload, err := json.Marshal(s.messages)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := s.storage.Save(ctx, s.deviceID, payload); err != nil {
		return fmt.Errorf("session: save %s: %w", s.deviceID, err)
	}
	return nil
}

// Clear drops every message, in memory and in storage.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, s.deviceID); err != nil {
		return fmt.Errorf("session: clear %s: %w", s.deviceID, err)
	}
	s.messages = nil
	return nil
}

// History returns the most recent limit messages in order. A non-positive
// limit returns everything.
func (s *Session) History(limit int) []domain.ChatMessage {
	msgs := s.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

// Len is the number of stored messages.
func (s *Session) Len() int {
	return len(s.messages)
}

func decode(raw []byte) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, err
	}
	for i, m := range msgs {
		if m.Role != domain.RoleUser && m.Role != domain.RoleAssistant {
			return nil, fmt.Errorf("message %d has role %q", i, m.Role)
		}
	}
	return msgs, nil
}
