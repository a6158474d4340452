package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/realtime"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
	maxMessageRunes = 4000
)

type ChatUseCase struct {
	convRepo    repository.ConversationRepository
	msgRepo     repository.MessageRepository
	matchRepo   repository.MatchRepository
	profileRepo repository.ProfileRepository
	events      realtime.Publisher
	log         *zap.Logger
	now         func() time.Time
}

func NewChatUseCase(
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	matchRepo repository.MatchRepository,
	profileRepo repository.ProfileRepository,
	events realtime.Publisher,
	log *zap.Logger,
) *ChatUseCase {
	return &ChatUseCase{
		convRepo:    convRepo,
		msgRepo:     msgRepo,
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		events:      events,
		log:         log,
		now:         time.Now,
	}
}

// SendMessageRequest represents a new chat message
type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// ConversationView is a conversation summary with the other participant
type ConversationView struct {
	*domain.ConversationSummary
	OtherUser *domain.Profile `json:"other_user"`
}

// ListConversations returns the user's conversations, most recent first
func (uc *ChatUseCase) ListConversations(ctx context.Context, userID uuid.UUID) ([]*ConversationView, error) {
	summaries, err := uc.convRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	if len(summaries) == 0 {
		return []*ConversationView{}, nil
	}

	ids := make([]uuid.UUID, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.OtherUserID)
	}
	profiles, err := uc.profileRepo.GetByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	byUser := make(map[uuid.UUID]*domain.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}

	views := make([]*ConversationView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, &ConversationView{ConversationSummary: s, OtherUser: byUser[s.OtherUserID]})
	}
	return views, nil
}

// ListMessages returns a page of messages in chronological order. Older pages
// are fetched by passing the oldest message seen as before.
func (uc *ChatUseCase) ListMessages(ctx context.Context, userID, conversationID uuid.UUID, limit int, before *domain.MessageCursor) ([]*domain.Message, error) {
	if _, err := uc.Authorize(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	messages, err := uc.msgRepo.List(ctx, conversationID, limit, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	// repository pages newest first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	return messages, nil
}

// SendMessage stores a message and notifies the conversation
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID, conversationID uuid.UUID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > maxMessageRunes {
		return nil, domain.ErrInvalidInput
	}

	m, err := uc.Authorize(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Body:           body,
	}
	if err := uc.msgRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := uc.convRepo.Touch(ctx, conversationID, msg.CreatedAt); err != nil {
		uc.log.Warn("failed to touch conversation", zap.String("conversation_id", conversationID.String()), zap.Error(err))
	}

	data := map[string]any{
		"message_id":      msg.ID.String(),
		"conversation_id": conversationID.String(),
		"sender_id":       userID.String(),
		"body":            msg.Body,
		"created_at":      msg.CreatedAt,
	}
	uc.publish(ctx, realtime.ConversationTopic(conversationID), realtime.EventMessageCreated, data)
	if other, ok := m.GetOtherUserID(userID); ok {
		uc.publish(ctx, realtime.UserTopic(other), realtime.EventMessageCreated, data)
	}

	return msg, nil
}

// MarkRead marks the other participant's messages as read and returns how
// many changed.
func (uc *ChatUseCase) MarkRead(ctx context.Context, userID, conversationID uuid.UUID) (int64, error) {
	if _, err := uc.Authorize(ctx, userID, conversationID); err != nil {
		return 0, err
	}

	n, err := uc.msgRepo.MarkRead(ctx, conversationID, userID, uc.now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	if n > 0 {
		uc.publish(ctx, realtime.ConversationTopic(conversationID), realtime.EventMessagesRead, map[string]any{
			"conversation_id": conversationID.String(),
			"reader_id":       userID.String(),
			"count":           n,
		})
	}
	return n, nil
}

// Authorize returns the conversation's match when userID takes part in it.
func (uc *ChatUseCase) Authorize(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Match, error) {
	conv, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	m, err := uc.matchRepo.GetByID(ctx, conv.MatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if !m.HasUser(userID) {
		return nil, domain.ErrNotParticipant
	}
	return m, nil
}

func (uc *ChatUseCase) publish(ctx context.Context, topic, eventType string, data map[string]any) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, topic, realtime.Event{Type: eventType, Data: data}); err != nil {
		uc.log.Warn("failed to publish chat event", zap.String("topic", topic), zap.Error(err))
	}
}
