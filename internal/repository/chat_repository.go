package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *domain.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.ConversationSummary, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	// List pages newest first, strictly older than before when it is set.
	List(ctx context.Context, conversationID uuid.UUID, limit int, before *domain.MessageCursor) ([]*domain.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID, at time.Time) (int64, error)
}
