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

type taskCommentRepository struct {
	db *sqlx.DB
}

func NewTaskCommentRepository(db *sqlx.DB) repository.TaskCommentRepository {
	return &taskCommentRepository{db: db}
}

func (r *taskCommentRepository) Create(ctx context.Context, comment *domain.TaskComment) error {
	query := `
		INSERT INTO task_comments (task_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, comment.TaskID, comment.AuthorID, comment.Body).
		Scan(&comment.ID, &comment.CreatedAt)
}

func (r *taskCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskComment, error) {
	var comment domain.TaskComment
	query := `SELECT id, task_id, author_id, body, created_at FROM task_comments WHERE id = $1`
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *taskCommentRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskComment, error) {
	var comments []*domain.TaskComment
	query := `
		SELECT id, task_id, author_id, body, created_at
		FROM task_comments
		WHERE task_id = $1
		ORDER BY created_at
	`
	err := r.db.SelectContext(ctx, &comments, query, taskID)
	return comments, err
}

func (r *taskCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_comments WHERE id = $1`, id)
	return affectedOr(res, err, domain.ErrCommentNotFound)
}
