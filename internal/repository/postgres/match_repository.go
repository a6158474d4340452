package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const matchColumns = `id, user1_id, user2_id, is_active, created_at`

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) CreateIfReciprocal(ctx context.Context, userID, targetID uuid.UUID) (*repository.MatchResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domain.NewFlowError(domain.StageMatchQuery, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result := &repository.MatchResult{}

	var one int
	err = tx.QueryRowContext(ctx, `
		SELECT 1 FROM swipes
		WHERE swiper_id = $1 AND swiped_id = $2 AND action IN ('like', 'super_like')
		LIMIT 1
	`, targetID, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result, nil
		}
		return nil, domain.NewFlowError(domain.StageMatchQuery, err)
	}
	result.Reciprocal = true

	match := &domain.Match{User1ID: userID, User2ID: targetID, IsActive: true}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO matches (user1_id, user2_id, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT ((LEAST(user1_id, user2_id)), (GREATEST(user1_id, user2_id))) DO NOTHING
		RETURNING id, created_at
	`, userID, targetID).Scan(&match.ID, &match.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// The pair is already matched.
		match, err = r.getByUsers(ctx, tx, userID, targetID)
		if err != nil {
			return nil, domain.NewFlowError(domain.StageMatchQuery, err)
		}
	case err != nil:
		return nil, domain.NewFlowError(domain.StageMatchInsert, err)
	default:
		result.Created = true
	}
	result.Match = match

	conversation := &domain.Conversation{MatchID: match.ID}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO conversations (match_id)
		VALUES ($1)
		ON CONFLICT (match_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`, match.ID).Scan(&conversation.ID, &conversation.CreatedAt, &conversation.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = tx.GetContext(ctx, conversation,
			`SELECT id, match_id, created_at, updated_at FROM conversations WHERE match_id = $1`, match.ID)
		if err != nil {
			return nil, domain.NewFlowError(domain.StageConversationInsert, err)
		}
	case err != nil:
		return nil, domain.NewFlowError(domain.StageConversationInsert, err)
	}
	result.Conversation = conversation

	if err := tx.Commit(); err != nil {
		return nil, domain.NewFlowError(domain.StageMatchInsert, err)
	}
	return result, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	err := r.db.GetContext(ctx, &match, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetByUsers(ctx context.Context, userA, userB uuid.UUID) (*domain.Match, error) {
	return r.getByUsers(ctx, r.db, userA, userB)
}

func (r *matchRepository) getByUsers(ctx context.Context, q sqlx.QueryerContext, userA, userB uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE LEAST(user1_id, user2_id) = LEAST($1::uuid, $2::uuid)
		  AND GREATEST(user1_id, user2_id) = GREATEST($1::uuid, $2::uuid)
	`
	err := sqlx.GetContext(ctx, q, &match, query, userA, userB)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) ListActiveForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.MatchWithConversation, error) {
	var matches []*domain.MatchWithConversation
	query := `
		SELECT m.id, m.user1_id, m.user2_id, m.is_active, m.created_at, c.id AS conversation_id
		FROM matches m
		LEFT JOIN conversations c ON c.match_id = m.id
		WHERE (m.user1_id = $1 OR m.user2_id = $1) AND m.is_active = TRUE
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &matches, query, userID, limit, offset)
	return matches, err
}

func (r *matchRepository) ListWithoutConversation(ctx context.Context, limit int) ([]*domain.Match, error) {
	var matches []*domain.Match
	query := `
		SELECT m.id, m.user1_id, m.user2_id, m.is_active, m.created_at
		FROM matches m
		WHERE NOT EXISTS (SELECT 1 FROM conversations c WHERE c.match_id = m.id)
		ORDER BY m.created_at
		LIMIT $1
	`
	err := r.db.SelectContext(ctx, &matches, query, limit)
	return matches, err
}
