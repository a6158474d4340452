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

const taskColumns = `
	id, project_id, title, description, status, position, assignee_id, due_date,
	created_by, created_at, updated_at
`

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (project_id, title, description, status, position, assignee_id, due_date, created_by)
		VALUES (
			$1, $2, $3, $4,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM tasks WHERE project_id = $1 AND status = $4),
			$5, $6, $7
		)
		RETURNING id, position, created_at, updated_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		task.ProjectID, task.Title, task.Description, task.Status,
		task.AssigneeID, task.DueDate, task.CreatedBy,
	).Scan(&task.ID, &task.Position, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return r.get(ctx, r.db, id, false)
}

func (r *taskRepository) get(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID, lock bool) (*domain.Task, error) {
	var task domain.Task
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	if err := sqlx.GetContext(ctx, q, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY status, position`
	err := r.db.SelectContext(ctx, &tasks, query, projectID)
	return tasks, err
}

// Update writes the editable fields. Status and position change only through Move.
func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, assignee_id = $3, due_date = $4,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING updated_at
	`, task.Title, task.Description, task.AssigneeID, task.DueDate, task.ID).Scan(&task.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrTaskNotFound
	}
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var task domain.Task
		err := tx.GetContext(ctx, &task,
			`DELETE FROM tasks WHERE id = $1 RETURNING project_id, status, position`, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrTaskNotFound
			}
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE tasks SET position = position - 1
			WHERE project_id = $1 AND status = $2 AND position > $3
		`, task.ProjectID, task.Status, task.Position)
		return err
	})
}

// Move clamps position to the target column, closes the gap left in the
// source column and opens one in the target column.
func (r *taskRepository) Move(ctx context.Context, id uuid.UUID, status domain.TaskStatus, position int) (*domain.Task, error) {
	var moved *domain.Task
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		task, err := r.get(ctx, tx, id, true)
		if err != nil {
			return err
		}

		var count int
		err = tx.GetContext(ctx, &count, `
			SELECT COUNT(*) FROM tasks
			WHERE project_id = $1 AND status = $2 AND id <> $3
		`, task.ProjectID, status, task.ID)
		if err != nil {
			return err
		}
		if position < 0 {
			position = 0
		}
		if position > count {
			position = count
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE tasks SET position = position - 1
			WHERE project_id = $1 AND status = $2 AND position > $3
		`, task.ProjectID, task.Status, task.Position)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE tasks SET position = position + 1
			WHERE project_id = $1 AND status = $2 AND position >= $3 AND id <> $4
		`, task.ProjectID, status, position, task.ID)
		if err != nil {
			return err
		}

		err = tx.QueryRowContext(ctx, `
			UPDATE tasks SET status = $1, position = $2, updated_at = CURRENT_TIMESTAMP
			WHERE id = $3
			RETURNING updated_at
		`, status, position, task.ID).Scan(&task.UpdatedAt)
		if err != nil {
			return err
		}

		task.Status = status
		task.Position = position
		moved = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}
