package handler

import (
	"net/http"

	"github.com/gdugdh24/collabswipe-backend/internal/usecase/favorite"
	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteUseCase *favorite.FavoriteUseCase
}

func NewFavoriteHandler(favoriteUseCase *favorite.FavoriteUseCase) *FavoriteHandler {
	return &FavoriteHandler{favoriteUseCase: favoriteUseCase}
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	projects, err := h.favoriteUseCase.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Add handles PUT /favorites/:project_id
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "project_id")
	if !ok {
		return
	}

	if err := h.favoriteUseCase.AddFavorite(c.Request.Context(), userID, projectID); err != nil {
		respondError(c, err, "failed to add favorite")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "project_id")
	if !ok {
		return
	}

	if err := h.favoriteUseCase.RemoveFavorite(c.Request.Context(), userID, projectID); err != nil {
		respondError(c, err, "failed to remove favorite")
		return
	}

	c.Status(http.StatusNoContent)
}
