package handler

import (
	"net/http"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/chat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatHandler struct {
	chatUseCase *chat.ChatUseCase
}

func NewChatHandler(chatUseCase *chat.ChatUseCase) *ChatHandler {
	return &ChatHandler{chatUseCase: chatUseCase}
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	conversations, err := h.chatUseCase.ListConversations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list conversations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// ListMessages handles GET /conversations/:id/messages?limit=&before=&before_id=
// where before is the RFC 3339 created_at and before_id the id of the oldest
// message already loaded. Without before_id every message at before is skipped.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	conversationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	before, ok := messageCursor(c)
	if !ok {
		return
	}

	messages, err := h.chatUseCase.ListMessages(c.Request.Context(), userID, conversationID, queryInt(c, "limit", 0), before)
	if err != nil {
		respondError(c, err, "failed to list messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	conversationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req chat.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	msg, err := h.chatUseCase.SendMessage(c.Request.Context(), userID, conversationID, req.Body)
	if err != nil {
		respondError(c, err, "failed to send message")
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	conversationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	n, err := h.chatUseCase.MarkRead(c.Request.Context(), userID, conversationID)
	if err != nil {
		respondError(c, err, "failed to mark messages read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func messageCursor(c *gin.Context) (*domain.MessageCursor, bool) {
	raw := c.Query("before")
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		badRequest(c, "invalid before")
		return nil, false
	}

	cursor := &domain.MessageCursor{CreatedAt: t}
	if rawID := c.Query("before_id"); rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			badRequest(c, "invalid before_id")
			return nil, false
		}
		cursor.ID = id
	}
	return cursor, true
}
