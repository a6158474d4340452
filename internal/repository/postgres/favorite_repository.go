package postgres

import (
	"context"
	"errors"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const foreignKeyViolation = "23503"

type favoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) repository.FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add is idempotent.
func (r *favoriteRepository) Add(ctx context.Context, userID, projectID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, project_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, project_id) DO NOTHING
	`, userID, projectID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return domain.ErrProjectNotFound
	}
	return err
}

// Remove is idempotent.
func (r *favoriteRepository) Remove(ctx context.Context, userID, projectID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND project_id = $2`, userID, projectID)
	return err
}

func (r *favoriteRepository) ListProjects(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	var projects []*domain.Project
	query := `
		SELECT p.id, p.owner_id, p.title, p.description, p.tags, p.looking_for,
		       p.cover_key, p.is_open, p.created_at, p.updated_at
		FROM favorites f
		JOIN projects p ON p.id = f.project_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`
	err := r.db.SelectContext(ctx, &projects, query, userID)
	return projects, err
}
