package repository

import (
	"context"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/google/uuid"
)

type SwipeRepository interface {
	Create(ctx context.Context, swipe *domain.Swipe) error
	// FindPositive returns the latest like/super_like from swiperID to swipedID.
	FindPositive(ctx context.Context, swiperID, swipedID uuid.UUID) (*domain.Swipe, error)
	GetLikesReceived(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Swipe, error)
}
