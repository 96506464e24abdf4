// Package store defines the per-domain data-access contract and the cached
// read view shared by the assistant.
package store

import (
	"context"
	"errors"

	"lifeos/internal/domain"
)

// Patch is a partial update keyed by attribute name. A nil value removes the
// attribute.
type Patch map[string]any

// Store is the CRUD contract every domain table satisfies. All calls are
// scoped to the user carried on ctx.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, v T) (string, error)
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error
}

// Set groups one store per domain.
type Set struct {
	Tasks     Store[domain.Task]
	Finance   Store[domain.FinanceEntry]
	Budgets   Store[domain.Budget]
	Notes     Store[domain.Note]
	Habits    Store[domain.Habit]
	Inventory Store[domain.InventoryItem]
	Subjects  Store[domain.StudySubject]
	Chapters  Store[domain.StudyChapter]
	Parts     Store[domain.StudyPart]
}

// Validate reports the first missing store.
func (s Set) Validate() error {
	switch {
	case s.Tasks == nil:
		return errors.New("store: tasks store must not be nil")
	case s.Finance == nil:
		return errors.New("store: finance store must not be nil")
	case s.Budgets == nil:
		return errors.New("store: budgets store must not be nil")
	case s.Notes == nil:
		return errors.New("store: notes store must not be nil")
	case s.Habits == nil:
		return errors.New("store: habits store must not be nil")
	case s.Inventory == nil:
		return errors.New("store: inventory store must not be nil")
	case s.Subjects == nil:
		return errors.New("store: study subjects store must not be nil")
	case s.Chapters == nil:
		return errors.New("store: study chapters store must not be nil")
	case s.Parts == nil:
		return errors.New("store: study parts store must not be nil")
	}
	return nil
}

// Cached wraps every store of s in a Cached read view.
func (s Set) Cached() Set {
	return Set{
		Tasks:     NewCached(s.Tasks),
		Finance:   NewCached(s.Finance),
		Budgets:   NewCached(s.Budgets),
		Notes:     NewCached(s.Notes),
		Habits:    NewCached(s.Habits),
		Inventory: NewCached(s.Inventory),
		Subjects:  NewCached(s.Subjects),
		Chapters:  NewCached(s.Chapters),
		Parts:     NewCached(s.Parts),
	}
}

type invalidator interface {
	Invalidate(ctx context.Context)
}

// Invalidate drops the cached reads of the user on ctx for every store of s
// that caches. Stores without a cache are left alone.
func (s Set) Invalidate(ctx context.Context) {
	for _, st := range []any{s.Tasks, s.Finance, s.Budgets, s.Notes, s.Habits, s.Inventory, s.Subjects, s.Chapters, s.Parts} {
		if inv, ok := st.(invalidator); ok {
			inv.Invalidate(ctx)
		}
	}
}
