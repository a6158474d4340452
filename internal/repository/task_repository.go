package repository

import (
	"context"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/google/uuid"
)

type TaskRepository interface {
	// Create appends the task to the end of its status column.
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Move places the task at position within status and compacts both the
	// source and the target column.
	Move(ctx context.Context, id uuid.UUID, status domain.TaskStatus, position int) (*domain.Task, error)
}

type TaskCommentRepository interface {
	Create(ctx context.Context, comment *domain.TaskComment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskComment, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskComment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
