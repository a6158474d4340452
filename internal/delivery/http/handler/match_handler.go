package handler

import (
	"net/http"

	"github.com/gdugdh24/collabswipe-backend/internal/usecase/match"
	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchUseCase *match.MatchUseCase
}

func NewMatchHandler(matchUseCase *match.MatchUseCase) *MatchHandler {
	return &MatchHandler{matchUseCase: matchUseCase}
}

func (h *MatchHandler) ListMatches(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	matches, err := h.matchUseCase.ListMatches(c.Request.Context(), userID,
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err, "failed to list matches")
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (h *MatchHandler) Icebreakers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	matchID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	lines, err := h.matchUseCase.Icebreakers(c.Request.Context(), userID, matchID)
	if err != nil {
		respondError(c, err, "failed to suggest icebreakers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"icebreakers": lines})
}
