package favorite

import (
	"context"
	"fmt"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
)

type FavoriteUseCase struct {
	favoriteRepo repository.FavoriteRepository
	projectRepo  repository.ProjectRepository
}

func NewFavoriteUseCase(favoriteRepo repository.FavoriteRepository, projectRepo repository.ProjectRepository) *FavoriteUseCase {
	return &FavoriteUseCase{
		favoriteRepo: favoriteRepo,
		projectRepo:  projectRepo,
	}
}

// AddFavorite bookmarks a project. Adding twice is not an error.
func (uc *FavoriteUseCase) AddFavorite(ctx context.Context, userID, projectID uuid.UUID) error {
	if _, err := uc.projectRepo.GetByID(ctx, projectID); err != nil {
		return err
	}
	return uc.favoriteRepo.Add(ctx, userID, projectID)
}

func (uc *FavoriteUseCase) RemoveFavorite(ctx context.Context, userID, projectID uuid.UUID) error {
	return uc.favoriteRepo.Remove(ctx, userID, projectID)
}

func (uc *FavoriteUseCase) ListFavorites(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	projects, err := uc.favoriteRepo.ListProjects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	return projects, nil
}
