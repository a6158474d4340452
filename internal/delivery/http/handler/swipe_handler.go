package handler

import (
	"errors"
	"net/http"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/swipe"
	"github.com/gin-gonic/gin"
)

type SwipeHandler struct {
	swipeUseCase *swipe.SwipeUseCase
}

func NewSwipeHandler(swipeUseCase *swipe.SwipeUseCase) *SwipeHandler {
	return &SwipeHandler{swipeUseCase: swipeUseCase}
}

// CreateSwipe handles POST /swipe
// @Summary Swipe on a user
// @Description Record like, pass or super_like. A reciprocal like creates a match and its conversation.
// @Tags swipe
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body swipe.SwipeRequest true "Swipe"
// @Success 200 {object} swipe.SwipeResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /swipe [post]
func (h *SwipeHandler) CreateSwipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req swipe.SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.swipeUseCase.RecordSwipe(c.Request.Context(), userID, req.SwipedUserID, req.Action)
	if err != nil {
		// The swipe is stored; only match detection failed. The client sees a
		// plain non-match and the failure goes to the log.
		var flowErr *domain.FlowError
		if result != nil && errors.As(err, &flowErr) && flowErr.Stage != domain.StageSwipeInsert {
			_ = c.Error(err)
			c.JSON(http.StatusOK, result)
			return
		}
		respondError(c, err, "failed to record swipe")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLikesReceived handles GET /swipe/likes-received?limit=&offset=
func (h *SwipeHandler) GetLikesReceived(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	likes, err := h.swipeUseCase.GetLikesReceived(c.Request.Context(), userID,
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err, "failed to get likes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// GetPairState handles GET /swipe/state/:user_id
func (h *SwipeHandler) GetPairState(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	otherID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	state, err := h.swipeUseCase.GetPairState(c.Request.Context(), userID, otherID)
	if err != nil {
		respondError(c, err, "failed to get pair state")
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}
