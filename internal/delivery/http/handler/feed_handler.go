package handler

import (
	"net/http"

	"github.com/gdugdh24/collabswipe-backend/internal/usecase/feed"
	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedUseCase *feed.FeedUseCase
}

func NewFeedHandler(feedUseCase *feed.FeedUseCase) *FeedHandler {
	return &FeedHandler{feedUseCase: feedUseCase}
}

// GetCandidates handles GET /feed/candidates?limit=
func (h *FeedHandler) GetCandidates(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	candidates, err := h.feedUseCase.GetCandidates(c.Request.Context(), userID, queryInt(c, "limit", 20))
	if err != nil {
		respondError(c, err, "failed to load candidates")
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// DiscoverProjects handles GET /feed/projects?limit=
func (h *FeedHandler) DiscoverProjects(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	projects, err := h.feedUseCase.DiscoverProjects(c.Request.Context(), userID, queryInt(c, "limit", 20))
	if err != nil {
		respondError(c, err, "failed to load projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}
