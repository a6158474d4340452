package realtime

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const (
	EventMatchCreated   = "match.created"
	EventMessageCreated = "message.created"
	EventMessagesRead   = "message.read"
	EventCommentCreated = "comment.created"
	EventTaskMoved      = "task.moved"
	EventSignedIn       = "auth.signed_in"
	EventSignedOut      = "auth.signed_out"
)

type Event struct {
	Type      string         `json:"type"`
	Topic     string         `json:"topic"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Publisher is the write side of the hub that use cases depend on.
type Publisher interface {
	Publish(ctx context.Context, topic string, evt Event) error
}

func UserTopic(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func ConversationTopic(id uuid.UUID) string {
	return fmt.Sprintf("conversation:%s", id)
}

func TaskTopic(id uuid.UUID) string {
	return fmt.Sprintf("task:%s", id)
}

func ProjectTopic(id uuid.UUID) string {
	return fmt.Sprintf("project:%s", id)
}
