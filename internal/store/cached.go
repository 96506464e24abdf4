package store

import (
	"context"
	"sync"

	"lifeos/internal/auth"
)

// Cached keeps the last List result per user and drops it whenever that user
// mutates the underlying store, so the next read observes the write. A List
// that overlaps a mutation does not store its result.
type Cached[T any] struct {
	next Store[T]

	mu     sync.Mutex
	byUser map[string][]T
	gen    map[string]uint64
}

// NewCached wraps next with a per-user read cache.
func NewCached[T any](next Store[T]) *Cached[T] {
	return &Cached[T]{next: next, byUser: make(map[string][]T), gen: make(map[string]uint64)}
}

func (c *Cached[T]) List(ctx context.Context) ([]T, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	cached, ok := c.byUser[userID]
	gen := c.gen[userID]
	c.mu.Unlock()
	if ok {
		return clone(cached), nil
	}

	items, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.gen[userID] == gen {
		c.byUser[userID] = clone(items)
	}
	c.mu.Unlock()
	return items, nil
}

func (c *Cached[T]) Create(ctx context.Context, v T) (string, error) {
	defer c.invalidate(ctx)
	return c.next.Create(ctx, v)
}

func (c *Cached[T]) Update(ctx context.Context, id string, patch Patch) error {
	defer c.invalidate(ctx)
	return c.next.Update(ctx, id, patch)
}

func (c *Cached[T]) Delete(ctx context.Context, id string) error {
	defer c.invalidate(ctx)
	return c.next.Delete(ctx, id)
}

// Invalidate drops the cached list for the user on ctx.
func (c *Cached[T]) Invalidate(ctx context.Context) {
	c.invalidate(ctx)
}

func (c *Cached[T]) invalidate(ctx context.Context) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return
	}
	c.mu.Lock()
	delete(c.byUser, userID)
	c.gen[userID]++
	c.mu.Unlock()
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
