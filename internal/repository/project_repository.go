package repository

import (
	"context"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/google/uuid"
)

type ProjectRepository interface {
	// Create inserts the project and the owner's membership together.
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	ListForMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	ListOpen(ctx context.Context, excludeUserID uuid.UUID, limit int) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	UpdateCover(ctx context.Context, id uuid.UUID, key string) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, member *domain.ProjectMember) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
	GetMember(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error)
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
}

type FavoriteRepository interface {
	Add(ctx context.Context, userID, projectID uuid.UUID) error
	Remove(ctx context.Context, userID, projectID uuid.UUID) error
	ListProjects(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
}
