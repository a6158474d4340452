package postgres

import (
	"context"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (conversation_id, sender_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, message.ConversationID, message.SenderID, message.Body).
		Scan(&message.ID, &message.CreatedAt)
}

const messageColumns = `id, conversation_id, sender_id, body, read_at, created_at`

// List returns up to limit messages older than before, newest first. The
// (created_at, id) keyset keeps messages with equal timestamps on one page
// boundary from being skipped.
func (r *messageRepository) List(ctx context.Context, conversationID uuid.UUID, limit int, before *domain.MessageCursor) ([]*domain.Message, error) {
	var messages []*domain.Message
	if before == nil {
		query := `SELECT ` + messageColumns + ` FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2`
		err := r.db.SelectContext(ctx, &messages, query, conversationID, limit)
		return messages, err
	}

	query := `SELECT ` + messageColumns + ` FROM messages
		WHERE conversation_id = $1 AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`
	err := r.db.SelectContext(ctx, &messages, query, conversationID, before.CreatedAt, before.ID, limit)
	return messages, err
}

func (r *messageRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages SET read_at = $1
		WHERE conversation_id = $2 AND sender_id <> $3 AND read_at IS NULL
	`, at, conversationID, readerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
