package repository

import (
	"context"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/google/uuid"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	UpdateAvatar(ctx context.Context, userID uuid.UUID, key string) error
	// SearchCandidates returns onboarded profiles other than userID that userID
	// has not swiped on yet.
	SearchCandidates(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Profile, error)
}
