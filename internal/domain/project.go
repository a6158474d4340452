package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Project struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	OwnerID     uuid.UUID      `json:"owner_id" db:"owner_id"`
	Title       string         `json:"title" db:"title"`
	Description *string        `json:"description" db:"description"`
	Tags        pq.StringArray `json:"tags" db:"tags"`
	LookingFor  pq.StringArray `json:"looking_for" db:"looking_for"`
	CoverKey    *string        `json:"-" db:"cover_key"`
	IsOpen      bool           `json:"is_open" db:"is_open"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

type ProjectMember struct {
	ProjectID uuid.UUID  `json:"project_id" db:"project_id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Role      MemberRole `json:"role" db:"role"`
	JoinedAt  time.Time  `json:"joined_at" db:"joined_at"`
}

type Favorite struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
