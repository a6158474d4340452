package handler

import (
	"net/http"

	"github.com/gdugdh24/collabswipe-backend/internal/usecase/task"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskUseCase *task.TaskUseCase
}

func NewTaskHandler(taskUseCase *task.TaskUseCase) *TaskHandler {
	return &TaskHandler{taskUseCase: taskUseCase}
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req task.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	updated, err := h.taskUseCase.UpdateTask(c.Request.Context(), userID, taskID, &req)
	if err != nil {
		respondError(c, err, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskUseCase.DeleteTask(c.Request.Context(), userID, taskID); err != nil {
		respondError(c, err, "failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

// MoveTask handles POST /tasks/:id/move
func (h *TaskHandler) MoveTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req task.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	moved, err := h.taskUseCase.MoveTask(c.Request.Context(), userID, taskID, &req)
	if err != nil {
		respondError(c, err, "failed to move task")
		return
	}

	c.JSON(http.StatusOK, moved)
}

func (h *TaskHandler) ListComments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.taskUseCase.ListComments(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err, "failed to list comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req task.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	comment, err := h.taskUseCase.AddComment(c.Request.Context(), userID, taskID, req.Body)
	if err != nil {
		respondError(c, err, "failed to add comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// DeleteComment handles DELETE /comments/:id
func (h *TaskHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskUseCase.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		respondError(c, err, "failed to delete comment")
		return
	}

	c.Status(http.StatusNoContent)
}
