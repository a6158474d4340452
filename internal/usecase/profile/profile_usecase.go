package profile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/storage"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	files       storage.ObjectStore
	writer      gemini.Writer
	log         *zap.Logger
}

// files and writer may be nil: uploads are then refused and bios come from
// the built-in templates.
func NewProfileUseCase(
	profileRepo repository.ProfileRepository,
	files storage.ObjectStore,
	writer gemini.Writer,
	log *zap.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		files:       files,
		writer:      writer,
		log:         log,
	}
}

// CreateProfileRequest represents the onboarding form
type CreateProfileRequest struct {
	DisplayName string   `json:"display_name" binding:"required,min=2,max=100"`
	Headline    *string  `json:"headline" binding:"omitempty,max=140"`
	Bio         *string  `json:"bio" binding:"omitempty,max=1000"`
	Role        *string  `json:"role" binding:"omitempty,max=60"`
	Skills      []string `json:"skills" binding:"omitempty,max=20,dive,min=1,max=40"`
	Interests   []string `json:"interests" binding:"omitempty,max=20,dive,min=1,max=40"`
	LookingFor  []string `json:"looking_for" binding:"omitempty,max=20,dive,min=1,max=40"`
	Location    *string  `json:"location" binding:"omitempty,max=100"`
}

// UpdateProfileRequest represents profile update request
type UpdateProfileRequest struct {
	DisplayName *string   `json:"display_name" binding:"omitempty,min=2,max=100"`
	Headline    *string   `json:"headline" binding:"omitempty,max=140"`
	Bio         *string   `json:"bio" binding:"omitempty,max=1000"`
	Role        *string   `json:"role" binding:"omitempty,max=60"`
	Skills      *[]string `json:"skills" binding:"omitempty,max=20"`
	Interests   *[]string `json:"interests" binding:"omitempty,max=20"`
	LookingFor  *[]string `json:"looking_for" binding:"omitempty,max=20"`
	Location    *string   `json:"location" binding:"omitempty,max=100"`
}

// GenerateBioRequest overrides profile fields for bio suggestions
type GenerateBioRequest struct {
	Role       string   `json:"role"`
	Skills     []string `json:"skills"`
	Interests  []string `json:"interests"`
	LookingFor []string `json:"looking_for"`
}

// ProfileResponse is a profile with a short-lived avatar link
type ProfileResponse struct {
	*domain.Profile
	AvatarURL string `json:"avatar_url,omitempty"`
}

// GetMyProfile returns current user's profile
func (uc *ProfileUseCase) GetMyProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	return uc.GetProfileByUserID(ctx, userID)
}

// GetProfileByUserID returns any user's profile
func (uc *ProfileUseCase) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.withAvatar(ctx, profile), nil
}

// CreateProfile creates the profile and completes onboarding
func (uc *ProfileUseCase) CreateProfile(ctx context.Context, userID uuid.UUID, req *CreateProfileRequest) (*ProfileResponse, error) {
	_, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		return nil, domain.ErrProfileAlreadyExists
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to check profile: %w", err)
	}

	profile := &domain.Profile{
		UserID:               userID,
		DisplayName:          req.DisplayName,
		Headline:             req.Headline,
		Bio:                  req.Bio,
		Role:                 req.Role,
		Skills:               req.Skills,
		Interests:            req.Interests,
		LookingFor:           req.LookingFor,
		Location:             req.Location,
		IsOnboardingComplete: true,
	}

	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrProfileAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return &ProfileResponse{Profile: profile}, nil
}

// UpdateProfile applies the fields present in req
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*ProfileResponse, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Headline != nil {
		profile.Headline = req.Headline
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.Role != nil {
		profile.Role = req.Role
	}
	if req.Skills != nil {
		profile.Skills = *req.Skills
	}
	if req.Interests != nil {
		profile.Interests = *req.Interests
	}
	if req.LookingFor != nil {
		profile.LookingFor = *req.LookingFor
	}
	if req.Location != nil {
		profile.Location = req.Location
	}

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return uc.withAvatar(ctx, profile), nil
}

// UploadAvatar stores a new avatar image and drops the previous one
func (uc *ProfileUseCase) UploadAvatar(ctx context.Context, userID uuid.UUID, body io.Reader, size int64, contentType string) (*ProfileResponse, error) {
	if uc.files == nil {
		return nil, domain.ErrStorageUnavailable
	}

	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var oldKey string
	if profile.AvatarKey != nil {
		oldKey = *profile.AvatarKey
	}

	key, err := storage.ObjectKey("avatars", userID, contentType)
	if err != nil {
		return nil, err
	}
	if err := uc.files.Put(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}
	if err := uc.profileRepo.UpdateAvatar(ctx, userID, key); err != nil {
		return nil, fmt.Errorf("failed to save avatar: %w", err)
	}

	if oldKey != "" && oldKey != key {
		if err := uc.files.Delete(ctx, oldKey); err != nil {
			uc.log.Warn("failed to delete old avatar", zap.String("key", oldKey), zap.Error(err))
		}
	}

	profile.AvatarKey = &key
	return uc.withAvatar(ctx, profile), nil
}

// GenerateBio suggests bios from the profile, overridden by req
func (uc *ProfileUseCase) GenerateBio(ctx context.Context, userID uuid.UUID, req *GenerateBioRequest) ([]string, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	in := gemini.BioInput{}
	if profile != nil {
		in.DisplayName = profile.DisplayName
		in.Skills = profile.Skills
		in.Interests = profile.Interests
		in.LookingFor = profile.LookingFor
		if profile.Role != nil {
			in.Role = *profile.Role
		}
	}
	if req.Role != "" {
		in.Role = req.Role
	}
	if len(req.Skills) > 0 {
		in.Skills = req.Skills
	}
	if len(req.Interests) > 0 {
		in.Interests = req.Interests
	}
	if len(req.LookingFor) > 0 {
		in.LookingFor = req.LookingFor
	}

	if uc.writer != nil {
		bios, err := uc.writer.GenerateBio(ctx, in)
		if err == nil {
			return bios, nil
		}
		uc.log.Warn("bio generation failed, using templates", zap.Error(err))
	}
	return gemini.FallbackBios(in), nil
}

func (uc *ProfileUseCase) withAvatar(ctx context.Context, profile *domain.Profile) *ProfileResponse {
	resp := &ProfileResponse{Profile: profile}
	if uc.files == nil || profile.AvatarKey == nil || *profile.AvatarKey == "" {
		return resp
	}
	url, err := uc.files.PresignGet(ctx, *profile.AvatarKey)
	if err != nil {
		uc.log.Warn("failed to presign avatar", zap.String("key", *profile.AvatarKey), zap.Error(err))
		return resp
	}
	resp.AvatarURL = url
	return resp
}
