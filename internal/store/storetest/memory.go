// Package storetest provides in-memory stores that record every mutation.
package storetest

import (
	"context"
	"fmt"
	"sync"

	"lifeos/internal/domain"
	"lifeos/internal/store"
)

// Update is one recorded Update call.
type Update struct {
	ID    string
	Patch store.Patch
}

// Memory is a store.Store backed by a slice. Created items get sequential ids
// "<prefix>-1", "<prefix>-2", ...; updates are recorded but not applied.
type Memory[T any] struct {
	mu     sync.Mutex
	prefix string
	id     func(T) string
	withID func(T, string) T

	Items   []T
	Created []T
	Updated []Update
	Deleted []string

	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
	// FailCreateAfter makes Create fail once this many creates succeeded.
	// Zero disables it.
	FailCreateAfter int

	ListCalls int
	seq       int
}

var _ store.Store[domain.Task] = (*Memory[domain.Task])(nil)

func (m *Memory[T]) List(_ context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]T, len(m.Items))
	copy(out, m.Items)
	return out, nil
}

func (m *Memory[T]) Create(_ context.Context, v T) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	if m.FailCreateAfter > 0 && len(m.Created) >= m.FailCreateAfter {
		return "", fmt.Errorf("storetest: %s create failed", m.prefix)
	}
	m.seq++
	id := fmt.Sprintf("%s-%d", m.prefix, m.seq)
	v = m.withID(v, id)
	m.Created = append(m.Created, v)
	m.Items = append(m.Items, v)
	return id, nil
}

func (m *Memory[T]) Update(_ context.Context, id string, patch store.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updated = append(m.Updated, Update{ID: id, Patch: patch})
	return nil
}

func (m *Memory[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, id)
	kept := m.Items[:0]
	for _, it := range m.Items {
		if m.id(it) != id {
			kept = append(kept, it)
		}
	}
	m.Items = kept
	return nil
}

// Mutations is the total number of create, update and delete calls.
func (m *Memory[T]) Mutations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created) + len(m.Updated) + len(m.Deleted)
}

// Fixture holds one Memory per domain.
type Fixture struct {
	Tasks     *Memory[domain.Task]
	Finance   *Memory[domain.FinanceEntry]
	Budgets   *Memory[domain.Budget]
	Notes     *Memory[domain.Note]
	Habits    *Memory[domain.Habit]
	Inventory *Memory[domain.InventoryItem]
	Subjects  *Memory[domain.StudySubject]
	Chapters  *Memory[domain.StudyChapter]
	Parts     *Memory[domain.StudyPart]
}

func newMemory[T any](prefix string, id func(T) string, withID func(T, string) T) *Memory[T] {
	return &Memory[T]{prefix: prefix, id: id, withID: withID}
}

// NewFixture returns empty in-memory stores for every domain.
func NewFixture() *Fixture {
	return &Fixture{
		Tasks: newMemory("task",
			func(v domain.Task) string { return v.ID },
			func(v domain.Task, id string) domain.Task { v.ID = id; return v }),
		Finance: newMemory("fin",
			func(v domain.FinanceEntry) string { return v.ID },
			func(v domain.FinanceEntry, id string) domain.FinanceEntry { v.ID = id; return v }),
		Budgets: newMemory("budget",
			func(v domain.Budget) string { return v.ID },
			func(v domain.Budget, id string) domain.Budget { v.ID = id; return v }),
		Notes: newMemory("note",
			func(v domain.Note) string { return v.ID },
			func(v domain.Note, id string) domain.Note { v.ID = id; return v }),
		Habits: newMemory("habit",
			func(v domain.Habit) string { return v.ID },
			func(v domain.Habit, id string) domain.Habit { v.ID = id; return v }),
		Inventory: newMemory("inv",
			func(v domain.InventoryItem) string { return v.ID },
			func(v domain.InventoryItem, id string) domain.InventoryItem { v.ID = id; return v }),
		Subjects: newMemory("subject",
			func(v domain.StudySubject) string { return v.ID },
			func(v domain.StudySubject, id string) domain.StudySubject { v.ID = id; return v }),
		Chapters: newMemory("chapter",
			func(v domain.StudyChapter) string { return v.ID },
			func(v domain.StudyChapter, id string) domain.StudyChapter { v.ID = id; return v }),
		Parts: newMemory("part",
			func(v domain.StudyPart) string { return v.ID },
			func(v domain.StudyPart, id string) domain.StudyPart { v.ID = id; return v }),
	}
}

// Set exposes the fixture as a store.Set.
func (f *Fixture) Set() store.Set {
	return store.Set{
		Tasks:     f.Tasks,
		Finance:   f.Finance,
		Budgets:   f.Budgets,
		Notes:     f.Notes,
		Habits:    f.Habits,
		Inventory: f.Inventory,
		Subjects:  f.Subjects,
		Chapters:  f.Chapters,
		Parts:     f.Parts,
	}
}

// Mutations sums mutation calls across every domain.
func (f *Fixture) Mutations() int {
	return f.Tasks.Mutations() + f.Finance.Mutations() + f.Budgets.Mutations() +
		f.Notes.Mutations() + f.Habits.Mutations() + f.Inventory.Mutations() +
		f.Subjects.Mutations() + f.Chapters.Mutations() + f.Parts.Mutations()
}
