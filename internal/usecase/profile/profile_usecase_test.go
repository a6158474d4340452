package profile

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type profileRepoStub struct {
	repository.ProfileRepository
	profiles map[uuid.UUID]*domain.Profile
}

func newProfileRepo() *profileRepoStub {
	return &profileRepoStub{profiles: map[uuid.UUID]*domain.Profile{}}
}

func (r *profileRepoStub) Create(_ context.Context, p *domain.Profile) error {
	if _, ok := r.profiles[p.UserID]; ok {
		return domain.ErrProfileAlreadyExists
	}
	p.ID = uuid.New()
	r.profiles[p.UserID] = p
	return nil
}

func (r *profileRepoStub) GetByUserID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	if p, ok := r.profiles[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProfileNotFound
}

func (r *profileRepoStub) Update(_ context.Context, p *domain.Profile) error {
	r.profiles[p.UserID] = p
	return nil
}

func (r *profileRepoStub) UpdateAvatar(_ context.Context, id uuid.UUID, key string) error {
	p, ok := r.profiles[id]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.AvatarKey = &key
	return nil
}

type fileStoreStub struct {
	objects map[string]string
	deleted []string
}

func (s *fileStoreStub) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = string(b)
	return nil
}

func (s *fileStoreStub) PresignGet(_ context.Context, key string) (string, error) {
	return "https://files.test/" + key, nil
}

func (s *fileStoreStub) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

type writerStub struct {
	bios []string
	err  error
	got  gemini.BioInput
}

func (w *writerStub) GenerateBio(_ context.Context, in gemini.BioInput) ([]string, error) {
	w.got = in
	return w.bios, w.err
}

func (w *writerStub) GenerateIcebreakers(context.Context, gemini.Brief, gemini.Brief) ([]string, error) {
	return nil, errors.New("unused")
}

func strPtr(s string) *string { return &s }

func TestCreateProfileCompletesOnboarding(t *testing.T) {
	repo := newProfileRepo()
	uc := NewProfileUseCase(repo, nil, nil, zap.NewNop())
	userID := uuid.New()

	resp, err := uc.CreateProfile(context.Background(), userID, &CreateProfileRequest{
		DisplayName: "Ada",
		Skills:      []string{"go"},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsOnboardingComplete)
	assert.Equal(t, userID, resp.UserID)
	assert.Empty(t, resp.AvatarURL)

	_, err = uc.CreateProfile(context.Background(), userID, &CreateProfileRequest{DisplayName: "Ada"})
	assert.ErrorIs(t, err, domain.ErrProfileAlreadyExists)
}

func TestUpdateProfileOnlyTouchesGivenFields(t *testing.T) {
	repo := newProfileRepo()
	userID := uuid.New()
	repo.profiles[userID] = &domain.Profile{
		UserID:      userID,
		DisplayName: "Ada",
		Role:        strPtr("backend"),
		Skills:      pq.StringArray{"go"},
	}
	uc := NewProfileUseCase(repo, nil, nil, zap.NewNop())

	skills := []string{"go", "rust"}
	resp, err := uc.UpdateProfile(context.Background(), userID, &UpdateProfileRequest{
		Headline: strPtr("Systems person"),
		Skills:   &skills,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", resp.DisplayName)
	assert.Equal(t, "backend", *resp.Role)
	assert.Equal(t, "Systems person", *resp.Headline)
	assert.Equal(t, pq.StringArray{"go", "rust"}, resp.Skills)
}

func TestUpdateProfileMissing(t *testing.T) {
	uc := NewProfileUseCase(newProfileRepo(), nil, nil, zap.NewNop())

	_, err := uc.UpdateProfile(context.Background(), uuid.New(), &UpdateProfileRequest{})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestUploadAvatarReplacesPrevious(t *testing.T) {
	repo := newProfileRepo()
	files := &fileStoreStub{objects: map[string]string{"avatars/old.png": "x"}}
	userID := uuid.New()
	repo.profiles[userID] = &domain.Profile{UserID: userID, AvatarKey: strPtr("avatars/old.png")}
	uc := NewProfileUseCase(repo, files, nil, zap.NewNop())

	resp, err := uc.UploadAvatar(context.Background(), userID, strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)

	key := *repo.profiles[userID].AvatarKey
	assert.True(t, strings.HasPrefix(key, "avatars/"+userID.String()+"/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "png", files.objects[key])
	assert.Equal(t, []string{"avatars/old.png"}, files.deleted)
	assert.Equal(t, "https://files.test/"+key, resp.AvatarURL)
}

func TestUploadAvatarRejectsUnsupportedType(t *testing.T) {
	repo := newProfileRepo()
	userID := uuid.New()
	repo.profiles[userID] = &domain.Profile{UserID: userID}
	uc := NewProfileUseCase(repo, &fileStoreStub{objects: map[string]string{}}, nil, zap.NewNop())

	_, err := uc.UploadAvatar(context.Background(), userID, strings.NewReader("gif"), 3, "image/gif")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUploadAvatarWithoutStorage(t *testing.T) {
	uc := NewProfileUseCase(newProfileRepo(), nil, nil, zap.NewNop())

	_, err := uc.UploadAvatar(context.Background(), uuid.New(), strings.NewReader("x"), 1, "image/png")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestGenerateBioMergesOverrides(t *testing.T) {
	repo := newProfileRepo()
	userID := uuid.New()
	repo.profiles[userID] = &domain.Profile{
		UserID:      userID,
		DisplayName: "Ada",
		Role:        strPtr("backend"),
		Skills:      pq.StringArray{"go"},
	}
	w := &writerStub{bios: []string{"one", "two", "three"}}
	uc := NewProfileUseCase(repo, nil, w, zap.NewNop())

	bios, err := uc.GenerateBio(context.Background(), userID, &GenerateBioRequest{Interests: []string{"music"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, bios)
	assert.Equal(t, "Ada", w.got.DisplayName)
	assert.Equal(t, "backend", w.got.Role)
	assert.Equal(t, []string{"go"}, w.got.Skills)
	assert.Equal(t, []string{"music"}, w.got.Interests)
}

func TestGenerateBioFallsBackOnWriterError(t *testing.T) {
	w := &writerStub{err: errors.New("quota exceeded")}
	uc := NewProfileUseCase(newProfileRepo(), nil, w, zap.NewNop())

	bios, err := uc.GenerateBio(context.Background(), uuid.New(), &GenerateBioRequest{Role: "designer"})
	require.NoError(t, err)
	assert.Len(t, bios, 3)
}
