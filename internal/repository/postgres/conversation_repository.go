package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type conversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) repository.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	query := `
		INSERT INTO conversations (match_id)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, conversation.MatchID).
		Scan(&conversation.ID, &conversation.CreatedAt, &conversation.UpdatedAt)
}

func (r *conversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	var conversation domain.Conversation
	query := `SELECT id, match_id, created_at, updated_at FROM conversations WHERE id = $1`
	if err := r.db.GetContext(ctx, &conversation, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.ConversationSummary, error) {
	var conversations []*domain.ConversationSummary
	query := `
		SELECT
			c.id, c.match_id, c.created_at, c.updated_at,
			CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END AS other_user_id,
			last.body AS last_message,
			last.created_at AS last_message_at,
			(
				SELECT COUNT(*) FROM messages u
				WHERE u.conversation_id = c.id AND u.sender_id <> $1 AND u.read_at IS NULL
			) AS unread_count
		FROM conversations c
		JOIN matches m ON m.id = c.match_id
		LEFT JOIN LATERAL (
			SELECT body, created_at FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC
			LIMIT 1
		) last ON TRUE
		WHERE (m.user1_id = $1 OR m.user2_id = $1) AND m.is_active = TRUE
		ORDER BY c.updated_at DESC
	`
	err := r.db.SelectContext(ctx, &conversations, query, userID)
	return conversations, err
}

func (r *conversationRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE conversations SET updated_at = $1 WHERE id = $2`, at, id)
	return affectedOr(res, err, domain.ErrConversationNotFound)
}
