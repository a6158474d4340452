package repository

import (
	"context"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/google/uuid"
)

// MatchResult is the outcome of an atomic reciprocal-like check.
type MatchResult struct {
	Reciprocal   bool
	Created      bool
	Match        *domain.Match
	Conversation *domain.Conversation
}

type MatchRepository interface {
	// CreateIfReciprocal looks up a positive swipe from targetID to userID and,
	// when present, inserts the match and its conversation in one transaction.
	// Failures are reported as *domain.FlowError.
	CreateIfReciprocal(ctx context.Context, userID, targetID uuid.UUID) (*MatchResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error)
	GetByUsers(ctx context.Context, userA, userB uuid.UUID) (*domain.Match, error)
	ListActiveForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.MatchWithConversation, error)
	ListWithoutConversation(ctx context.Context, limit int) ([]*domain.Match, error)
}
