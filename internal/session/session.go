// Package session carries the authenticated user's state through a request.
package session

import (
	"context"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/google/uuid"
)

// State is rebuilt from the token on every authenticated request and is
// only ever passed through the request context.
type State struct {
	UserID     uuid.UUID
	SessionID  string
	Profile    *domain.Profile
	HasProfile bool
	Onboarded  bool
}

type ctxKey struct{}

func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}

func FromContext(ctx context.Context) (*State, bool) {
	st, ok := ctx.Value(ctxKey{}).(*State)
	return st, ok && st != nil
}
