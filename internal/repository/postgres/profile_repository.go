package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const profileColumns = `
	id, user_id, display_name, headline, bio, role, skills, interests, looking_for,
	location, avatar_key, is_onboarding_complete, created_at, updated_at
`

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (
			user_id, display_name, headline, bio, role, skills, interests, looking_for,
			location, is_onboarding_complete
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.UserID, profile.DisplayName, profile.Headline, profile.Bio, profile.Role,
		nonNil(profile.Skills), nonNil(profile.Interests), nonNil(profile.LookingFor),
		profile.Location, profile.IsOnboardingComplete,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrProfileAlreadyExists
	}
	return err
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*domain.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []*domain.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ANY($1::uuid[])`
	err := r.db.SelectContext(ctx, &profiles, query, uuidArray(userIDs))
	return profiles, err
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $1, headline = $2, bio = $3, role = $4,
		    skills = $5, interests = $6, looking_for = $7, location = $8,
		    is_onboarding_complete = $9, updated_at = CURRENT_TIMESTAMP
		WHERE id = $10
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.DisplayName, profile.Headline, profile.Bio, profile.Role,
		nonNil(profile.Skills), nonNil(profile.Interests), nonNil(profile.LookingFor), profile.Location,
		profile.IsOnboardingComplete,
		profile.ID,
	).Scan(&profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	return err
}

func (r *profileRepository) UpdateAvatar(ctx context.Context, userID uuid.UUID, key string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET avatar_key = $1, updated_at = CURRENT_TIMESTAMP WHERE user_id = $2`, key, userID)
	return affectedOr(res, err, domain.ErrProfileNotFound)
}

func (r *profileRepository) SearchCandidates(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Profile, error) {
	var profiles []*domain.Profile
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		WHERE p.is_onboarding_complete = TRUE
		  AND p.user_id <> $1
		  AND NOT EXISTS (
			SELECT 1 FROM swipes s WHERE s.swiper_id = $1 AND s.swiped_id = p.user_id
		  )
		ORDER BY p.updated_at DESC
		LIMIT $2
	`
	err := r.db.SelectContext(ctx, &profiles, query, userID, limit)
	return profiles, err
}

func nonNil(a pq.StringArray) pq.StringArray {
	if a == nil {
		return pq.StringArray{}
	}
	return a
}
