package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/realtime"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type ConversationAccess interface {
	Authorize(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Match, error)
}

type TaskAccess interface {
	CanAccess(ctx context.Context, userID, taskID uuid.UUID) (bool, error)
}

type ProjectAccess interface {
	IsMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
}

// RealtimeHandler streams hub events to a WebSocket. Clients always get
// their own user topic and may ask for conversations, tasks and projects
// they can access.
type RealtimeHandler struct {
	hub           *realtime.Hub
	auth          middleware.Authenticator
	conversations ConversationAccess
	tasks         TaskAccess
	projects      ProjectAccess
	upgrader      websocket.Upgrader
	log           *zap.Logger
}

func NewRealtimeHandler(
	hub *realtime.Hub,
	auth middleware.Authenticator,
	conversations ConversationAccess,
	tasks TaskAccess,
	projects ProjectAccess,
	allowedOrigins []string,
	log *zap.Logger,
) *RealtimeHandler {
	return &RealtimeHandler{
		hub:           hub,
		auth:          auth,
		conversations: conversations,
		tasks:         tasks,
		projects:      projects,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log,
	}
}

// Connect handles GET /realtime. Browsers cannot set headers on a WebSocket
// handshake, so the token may also come as ?token=.
// Extra topics: ?conversations=<id,...>&tasks=<id,...>&projects=<id,...>
func (h *RealtimeHandler) Connect(c *gin.Context) {
	token, ok := middleware.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing authorization token"})
		return
	}

	st, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "authentication failed")
		return
	}
	if !st.Onboarded {
		respondError(c, domain.ErrOnboardingRequired, "")
		return
	}

	topics, err := h.topics(c, st.UserID)
	if err != nil {
		respondError(c, err, "failed to resolve topics")
		return
	}

	// The hijacked connection outlives the request context.
	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()

	sub, err := h.hub.Subscribe(ctx, topics...)
	if err != nil {
		respondError(c, err, "failed to subscribe")
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.String("user_id", st.UserID.String()), zap.Error(err))
		return
	}
	defer conn.Close()

	h.log.Debug("websocket connected", zap.String("user_id", st.UserID.String()), zap.Strings("topics", topics))

	go h.readPump(conn, cancel)
	h.writePump(ctx, conn, sub, st.SessionID)

	h.log.Debug("websocket disconnected", zap.String("user_id", st.UserID.String()))
}

func (h *RealtimeHandler) topics(c *gin.Context, userID uuid.UUID) ([]string, error) {
	ctx := c.Request.Context()
	topics := []string{realtime.UserTopic(userID)}

	for _, id := range queryIDs(c, "conversations") {
		convID, err := uuid.Parse(id)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		if _, err := h.conversations.Authorize(ctx, userID, convID); err != nil {
			return nil, err
		}
		topics = append(topics, realtime.ConversationTopic(convID))
	}

	for _, id := range queryIDs(c, "tasks") {
		taskID, err := uuid.Parse(id)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		ok, err := h.tasks.CanAccess(ctx, userID, taskID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrNotProjectMember
		}
		topics = append(topics, realtime.TaskTopic(taskID))
	}

	for _, id := range queryIDs(c, "projects") {
		projectID, err := uuid.Parse(id)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		ok, err := h.projects.IsMember(ctx, userID, projectID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrNotProjectMember
		}
		topics = append(topics, realtime.ProjectTopic(projectID))
	}

	return topics, nil
}

// readPump only watches for the peer going away. Clients do not send
// anything meaningful.
func (h *RealtimeHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards events until the peer leaves or the session that opened
// the socket signs out.
func (h *RealtimeHandler) writePump(ctx context.Context, conn *websocket.Conn, sub *realtime.Subscription, sessionID string) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case evt, ok := <-sub.Events():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				h.log.Debug("websocket write failed", zap.Error(err))
				return
			}
			if endsSession(evt, sessionID) {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "signed out"))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func endsSession(evt realtime.Event, sessionID string) bool {
	if evt.Type != realtime.EventSignedOut || sessionID == "" {
		return false
	}
	id, _ := evt.Data["session_id"].(string)
	return id == sessionID
}

func queryIDs(c *gin.Context, name string) []string {
	var out []string
	for _, v := range c.QueryArray(name) {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
