package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type swipeRepository struct {
	db *sqlx.DB
}

func NewSwipeRepository(db *sqlx.DB) repository.SwipeRepository {
	return &swipeRepository{db: db}
}

func (r *swipeRepository) Create(ctx context.Context, swipe *domain.Swipe) error {
	query := `
		INSERT INTO swipes (swiper_id, swiped_id, action)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, swipe.SwiperID, swipe.SwipedID, swipe.Action).
		Scan(&swipe.ID, &swipe.CreatedAt)
}

func (r *swipeRepository) FindPositive(ctx context.Context, swiperID, swipedID uuid.UUID) (*domain.Swipe, error) {
	var swipe domain.Swipe
	query := `
		SELECT id, swiper_id, swiped_id, action, created_at
		FROM swipes
		WHERE swiper_id = $1 AND swiped_id = $2 AND action IN ('like', 'super_like')
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &swipe, query, swiperID, swipedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSwipeNotFound
		}
		return nil, err
	}
	return &swipe, nil
}

// GetLikesReceived lists the latest positive swipe of every user who liked
// userID and is still waiting for an answer.
func (r *swipeRepository) GetLikesReceived(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Swipe, error) {
	var swipes []*domain.Swipe
	query := `
		SELECT DISTINCT ON (s.swiper_id) s.id, s.swiper_id, s.swiped_id, s.action, s.created_at
		FROM swipes s
		WHERE s.swiped_id = $1
		  AND s.action IN ('like', 'super_like')
		  AND NOT EXISTS (
			SELECT 1 FROM swipes back
			WHERE back.swiper_id = $1 AND back.swiped_id = s.swiper_id
		  )
		ORDER BY s.swiper_id, s.created_at DESC
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &swipes, query, userID, limit, offset)
	return swipes, err
}
