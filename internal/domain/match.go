package domain

import (
	"time"

	"github.com/google/uuid"
)

type Match struct {
	ID        uuid.UUID `json:"id" db:"id"`
	User1ID   uuid.UUID `json:"user1_id" db:"user1_id"`
	User2ID   uuid.UUID `json:"user2_id" db:"user2_id"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (m *Match) HasUser(userID uuid.UUID) bool {
	return m.User1ID == userID || m.User2ID == userID
}

func (m *Match) GetOtherUserID(userID uuid.UUID) (uuid.UUID, bool) {
	if m.User1ID == userID {
		return m.User2ID, true
	}
	if m.User2ID == userID {
		return m.User1ID, true
	}
	return uuid.Nil, false
}

type Conversation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	MatchID   uuid.UUID `json:"match_id" db:"match_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Message struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ConversationID uuid.UUID  `json:"conversation_id" db:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id" db:"sender_id"`
	Body           string     `json:"body" db:"body"`
	ReadAt         *time.Time `json:"read_at" db:"read_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// MessageCursor marks the oldest message a client has seen. Messages sharing
// a timestamp are ordered by id.
type MessageCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// MatchWithConversation is a match row joined with its conversation, if any.
type MatchWithConversation struct {
	Match
	ConversationID *uuid.UUID `json:"conversation_id" db:"conversation_id"`
}

// ConversationSummary is a conversation as seen by one participant.
type ConversationSummary struct {
	Conversation
	OtherUserID   uuid.UUID  `json:"other_user_id" db:"other_user_id"`
	LastMessage   *string    `json:"last_message" db:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at" db:"last_message_at"`
	UnreadCount   int        `json:"unread_count" db:"unread_count"`
}
