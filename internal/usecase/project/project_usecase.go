package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/storage"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProjectUseCase struct {
	projectRepo repository.ProjectRepository
	profileRepo repository.ProfileRepository
	files       storage.ObjectStore
	log         *zap.Logger
}

func NewProjectUseCase(
	projectRepo repository.ProjectRepository,
	profileRepo repository.ProfileRepository,
	files storage.ObjectStore,
	log *zap.Logger,
) *ProjectUseCase {
	return &ProjectUseCase{
		projectRepo: projectRepo,
		profileRepo: profileRepo,
		files:       files,
		log:         log,
	}
}

// CreateProjectRequest represents a new project
type CreateProjectRequest struct {
	Title       string   `json:"title" binding:"required,min=2,max=120"`
	Description *string  `json:"description" binding:"omitempty,max=4000"`
	Tags        []string `json:"tags" binding:"omitempty,max=20,dive,min=1,max=40"`
	LookingFor  []string `json:"looking_for" binding:"omitempty,max=20,dive,min=1,max=40"`
	IsOpen      *bool    `json:"is_open"`
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=2,max=120"`
	Description *string   `json:"description" binding:"omitempty,max=4000"`
	Tags        *[]string `json:"tags" binding:"omitempty,max=20"`
	LookingFor  *[]string `json:"looking_for" binding:"omitempty,max=20"`
	IsOpen      *bool     `json:"is_open"`
}

// AddMemberRequest names the user to add
type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// ProjectResponse is a project with its cover link and, for detail views,
// its members.
type ProjectResponse struct {
	*domain.Project
	CoverURL string                  `json:"cover_url,omitempty"`
	Members  []*domain.ProjectMember `json:"members,omitempty"`
}

// Create creates a project owned by ownerID
func (uc *ProjectUseCase) Create(ctx context.Context, ownerID uuid.UUID, req *CreateProjectRequest) (*ProjectResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}

	p := &domain.Project{
		OwnerID:     ownerID,
		Title:       title,
		Description: req.Description,
		Tags:        req.Tags,
		LookingFor:  req.LookingFor,
		IsOpen:      true,
	}
	if req.IsOpen != nil {
		p.IsOpen = *req.IsOpen
	}

	if err := uc.projectRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &ProjectResponse{Project: p}, nil
}

// Get returns a project with its members. Closed projects are visible to
// members only.
func (uc *ProjectUseCase) Get(ctx context.Context, userID, projectID uuid.UUID) (*ProjectResponse, error) {
	p, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	members, err := uc.projectRepo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if !p.IsOpen && !hasMember(members, userID) {
		return nil, domain.ErrNotProjectMember
	}

	resp := uc.withCover(ctx, p)
	resp.Members = members
	return resp, nil
}

// ListMine returns projects the user belongs to
func (uc *ProjectUseCase) ListMine(ctx context.Context, userID uuid.UUID) ([]*ProjectResponse, error) {
	projects, err := uc.projectRepo.ListForMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	out := make([]*ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, uc.withCover(ctx, p))
	}
	return out, nil
}

// Update applies a partial update. Owner only.
func (uc *ProjectUseCase) Update(ctx context.Context, userID, projectID uuid.UUID, req *UpdateProjectRequest) (*ProjectResponse, error) {
	p, err := uc.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidInput
		}
		p.Title = title
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}
	if req.LookingFor != nil {
		p.LookingFor = *req.LookingFor
	}
	if req.IsOpen != nil {
		p.IsOpen = *req.IsOpen
	}

	if err := uc.projectRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return uc.withCover(ctx, p), nil
}

// Delete removes the project with its tasks and members. Owner only.
func (uc *ProjectUseCase) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	p, err := uc.ownedProject(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if err := uc.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}

	if p.CoverKey != nil && uc.files != nil {
		if err := uc.files.Delete(ctx, *p.CoverKey); err != nil {
			uc.log.Warn("failed to delete project cover", zap.String("key", *p.CoverKey), zap.Error(err))
		}
	}
	return nil
}

// AddMember adds memberID to the project. Owner only.
func (uc *ProjectUseCase) AddMember(ctx context.Context, userID, projectID, memberID uuid.UUID) (*domain.ProjectMember, error) {
	if _, err := uc.ownedProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	if _, err := uc.profileRepo.GetByUserID(ctx, memberID); err != nil {
		return nil, err
	}

	member := &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    memberID,
		Role:      domain.MemberRoleMember,
	}
	if err := uc.projectRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember removes memberID from the project. The owner may remove
// anyone but themselves; members may only leave.
func (uc *ProjectUseCase) RemoveMember(ctx context.Context, userID, projectID, memberID uuid.UUID) error {
	p, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if memberID == p.OwnerID {
		return domain.ErrCannotRemoveOwner
	}
	if userID != p.OwnerID && userID != memberID {
		return domain.ErrNotProjectOwner
	}
	return uc.projectRepo.RemoveMember(ctx, projectID, memberID)
}

// UploadCover stores a new cover image. Owner only.
func (uc *ProjectUseCase) UploadCover(ctx context.Context, userID, projectID uuid.UUID, body io.Reader, size int64, contentType string) (*ProjectResponse, error) {
	if uc.files == nil {
		return nil, domain.ErrStorageUnavailable
	}
	p, err := uc.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	var oldKey string
	if p.CoverKey != nil {
		oldKey = *p.CoverKey
	}

	key, err := storage.ObjectKey("covers", projectID, contentType)
	if err != nil {
		return nil, err
	}
	if err := uc.files.Put(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store cover: %w", err)
	}
	if err := uc.projectRepo.UpdateCover(ctx, projectID, key); err != nil {
		return nil, fmt.Errorf("failed to save cover: %w", err)
	}

	if oldKey != "" && oldKey != key {
		if err := uc.files.Delete(ctx, oldKey); err != nil {
			uc.log.Warn("failed to delete old cover", zap.String("key", oldKey), zap.Error(err))
		}
	}

	p.CoverKey = &key
	return uc.withCover(ctx, p), nil
}

// IsMember reports whether userID belongs to the project.
func (uc *ProjectUseCase) IsMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	_, err := uc.projectRepo.GetMember(ctx, projectID, userID)
	if errors.Is(err, domain.ErrNotProjectMember) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (uc *ProjectUseCase) ownedProject(ctx context.Context, userID, projectID uuid.UUID) (*domain.Project, error) {
	p, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != userID {
		return nil, domain.ErrNotProjectOwner
	}
	return p, nil
}

func (uc *ProjectUseCase) withCover(ctx context.Context, p *domain.Project) *ProjectResponse {
	resp := &ProjectResponse{Project: p}
	if uc.files == nil || p.CoverKey == nil || *p.CoverKey == "" {
		return resp
	}
	url, err := uc.files.PresignGet(ctx, *p.CoverKey)
	if err != nil {
		uc.log.Warn("failed to presign cover", zap.String("key", *p.CoverKey), zap.Error(err))
		return resp
	}
	resp.CoverURL = url
	return resp
}

func hasMember(members []*domain.ProjectMember, userID uuid.UUID) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
