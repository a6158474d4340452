package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}

var errorStatus = map[error]int{
	domain.ErrInvalidInput:       http.StatusBadRequest,
	domain.ErrCannotSwipeSelf:    http.StatusBadRequest,
	domain.ErrInvalidSwipeAction: http.StatusBadRequest,
	domain.ErrEmptyMessage:       http.StatusBadRequest,
	domain.ErrInvalidTaskStatus:  http.StatusBadRequest,

	domain.ErrInvalidCredentials: http.StatusUnauthorized,
	domain.ErrInvalidToken:       http.StatusUnauthorized,
	domain.ErrSessionNotFound:    http.StatusUnauthorized,
	domain.ErrSessionExpired:     http.StatusUnauthorized,

	domain.ErrOnboardingRequired: http.StatusForbidden,
	domain.ErrNotParticipant:     http.StatusForbidden,
	domain.ErrNotProjectMember:   http.StatusForbidden,
	domain.ErrNotProjectOwner:    http.StatusForbidden,
	domain.ErrNotCommentAuthor:   http.StatusForbidden,

	domain.ErrUserNotFound:         http.StatusNotFound,
	domain.ErrProfileNotFound:      http.StatusNotFound,
	domain.ErrSwipeNotFound:        http.StatusNotFound,
	domain.ErrMatchNotFound:        http.StatusNotFound,
	domain.ErrConversationNotFound: http.StatusNotFound,
	domain.ErrProjectNotFound:      http.StatusNotFound,
	domain.ErrTaskNotFound:         http.StatusNotFound,
	domain.ErrCommentNotFound:      http.StatusNotFound,

	domain.ErrUserAlreadyExists:    http.StatusConflict,
	domain.ErrProfileAlreadyExists: http.StatusConflict,
	domain.ErrAlreadyMember:        http.StatusConflict,
	domain.ErrCannotRemoveOwner:    http.StatusConflict,

	domain.ErrStorageUnavailable: http.StatusServiceUnavailable,
}

// respondError maps domain errors to their status. Anything unknown is a 500
// with a generic message; the cause is attached to the context for the
// request logger.
func respondError(c *gin.Context, err error, fallback string) {
	for target, status := range errorStatus {
		if errors.Is(err, target) {
			c.JSON(status, ErrorResponse{Error: target.Error()})
			return
		}
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// currentUser returns the authenticated user, answering 401 when absent.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	st, ok := session.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return uuid.Nil, false
	}
	return st.UserID, true
}

// uuidParam parses a path parameter, answering 400 when malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}
