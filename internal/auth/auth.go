// Package auth carries the authenticated user on the request context.
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrNotAuthenticated is returned when no user is attached to the context.
var ErrNotAuthenticated = errors.New("auth: not authenticated")

type userKey struct{}

// WithUser returns a copy of ctx scoped to userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, strings.TrimSpace(userID))
}

// UserID returns the user attached to ctx or ErrNotAuthenticated.
func UserID(ctx context.Context) (string, error) {
	id, _ := ctx.Value(userKey{}).(string)
	if id == "" {
		return "", ErrNotAuthenticated
	}
	return id, nil
}
