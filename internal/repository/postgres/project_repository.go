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

const projectColumns = `id, owner_id, title, description, tags, looking_for, cover_key, is_open, created_at, updated_at`

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) repository.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO projects (owner_id, title, description, tags, looking_for, is_open)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`,
			project.OwnerID, project.Title, project.Description,
			nonNil(project.Tags), nonNil(project.LookingFor), project.IsOpen,
		).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO project_members (project_id, user_id, role)
			VALUES ($1, $2, $3)
		`, project.ID, project.OwnerID, domain.MemberRoleOwner)
		return err
	})
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListForMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	var projects []*domain.Project
	query := `
		SELECT p.id, p.owner_id, p.title, p.description, p.tags, p.looking_for,
		       p.cover_key, p.is_open, p.created_at, p.updated_at
		FROM projects p
		JOIN project_members pm ON pm.project_id = p.id
		WHERE pm.user_id = $1
		ORDER BY p.updated_at DESC
	`
	err := r.db.SelectContext(ctx, &projects, query, userID)
	return projects, err
}

// ListOpen returns open projects userID is not a member of.
func (r *projectRepository) ListOpen(ctx context.Context, excludeUserID uuid.UUID, limit int) ([]*domain.Project, error) {
	var projects []*domain.Project
	query := `
		SELECT ` + projectColumns + `
		FROM projects p
		WHERE p.is_open = TRUE
		  AND NOT EXISTS (
			SELECT 1 FROM project_members pm WHERE pm.project_id = p.id AND pm.user_id = $1
		  )
		ORDER BY p.created_at DESC
		LIMIT $2
	`
	err := r.db.SelectContext(ctx, &projects, query, excludeUserID, limit)
	return projects, err
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE projects
		SET title = $1, description = $2, tags = $3, looking_for = $4, is_open = $5,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING updated_at
	`,
		project.Title, project.Description, nonNil(project.Tags), nonNil(project.LookingFor),
		project.IsOpen, project.ID,
	).Scan(&project.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProjectNotFound
	}
	return err
}

func (r *projectRepository) UpdateCover(ctx context.Context, id uuid.UUID, key string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET cover_key = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, key, id)
	return affectedOr(res, err, domain.ErrProjectNotFound)
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return affectedOr(res, err, domain.ErrProjectNotFound)
}

func (r *projectRepository) AddMember(ctx context.Context, member *domain.ProjectMember) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING joined_at
	`, member.ProjectID, member.UserID, member.Role).Scan(&member.JoinedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrAlreadyMember
	}
	return err
}

func (r *projectRepository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	return affectedOr(res, err, domain.ErrNotProjectMember)
}

func (r *projectRepository) GetMember(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	var member domain.ProjectMember
	query := `
		SELECT project_id, user_id, role, joined_at
		FROM project_members
		WHERE project_id = $1 AND user_id = $2
	`
	if err := r.db.GetContext(ctx, &member, query, projectID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotProjectMember
		}
		return nil, err
	}
	return &member, nil
}

func (r *projectRepository) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	var members []*domain.ProjectMember
	query := `
		SELECT project_id, user_id, role, joined_at
		FROM project_members
		WHERE project_id = $1
		ORDER BY joined_at
	`
	err := r.db.SelectContext(ctx, &members, query, projectID)
	return members, err
}
