package session

import (
	"context"
	"sync"
)

// MemoryStorage is a process-local Storage used by the dev server when no
// state table is configured.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, deviceID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data[deviceID]...), nil
}

func (m *MemoryStorage) Save(_ context.Context, deviceID string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[deviceID] = append([]byte(nil), payload...)
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, deviceID)
	return nil
}
