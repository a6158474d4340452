package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Profile struct {
	ID                   uuid.UUID      `json:"id" db:"id"`
	UserID               uuid.UUID      `json:"user_id" db:"user_id"`
	DisplayName          string         `json:"display_name" db:"display_name"`
	Headline             *string        `json:"headline" db:"headline"`
	Bio                  *string        `json:"bio" db:"bio"`
	Role                 *string        `json:"role" db:"role"`
	Skills               pq.StringArray `json:"skills" db:"skills"`
	Interests            pq.StringArray `json:"interests" db:"interests"`
	LookingFor           pq.StringArray `json:"looking_for" db:"looking_for"`
	Location             *string        `json:"location" db:"location"`
	AvatarKey            *string        `json:"-" db:"avatar_key"`
	IsOnboardingComplete bool           `json:"is_onboarding_complete" db:"is_onboarding_complete"`
	CreatedAt            time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at" db:"updated_at"`
}
