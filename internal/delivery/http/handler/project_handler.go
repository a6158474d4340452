package handler

import (
	"net/http"

	"github.com/gdugdh24/collabswipe-backend/internal/usecase/project"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/task"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectUseCase *project.ProjectUseCase
	taskUseCase    *task.TaskUseCase
}

func NewProjectHandler(projectUseCase *project.ProjectUseCase, taskUseCase *task.TaskUseCase) *ProjectHandler {
	return &ProjectHandler{
		projectUseCase: projectUseCase,
		taskUseCase:    taskUseCase,
	}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req project.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	resp, err := h.projectUseCase.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to create project")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListMine handles GET /projects
func (h *ProjectHandler) ListMine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	projects, err := h.projectUseCase.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.projectUseCase.Get(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, err, "failed to get project")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req project.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	resp, err := h.projectUseCase.Update(c.Request.Context(), userID, projectID, &req)
	if err != nil {
		respondError(c, err, "failed to update project")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectUseCase.Delete(c.Request.Context(), userID, projectID); err != nil {
		respondError(c, err, "failed to delete project")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req project.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	member, err := h.projectUseCase.AddMember(c.Request.Context(), userID, projectID, req.UserID)
	if err != nil {
		respondError(c, err, "failed to add member")
		return
	}

	c.JSON(http.StatusCreated, member)
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.projectUseCase.RemoveMember(c.Request.Context(), userID, projectID, memberID); err != nil {
		respondError(c, err, "failed to remove member")
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadCover handles POST /projects/:id/cover with a multipart "file" field
func (h *ProjectHandler) UploadCover(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	upload, ok := readUpload(c)
	if !ok {
		return
	}
	defer upload.body.Close()

	resp, err := h.projectUseCase.UploadCover(c.Request.Context(), userID, projectID, upload.body, upload.size, upload.contentType)
	if err != nil {
		respondError(c, err, "failed to upload cover")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetBoard handles GET /projects/:id/board
func (h *ProjectHandler) GetBoard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	board, err := h.taskUseCase.GetBoard(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, err, "failed to load board")
		return
	}

	c.JSON(http.StatusOK, board)
}

// CreateTask handles POST /projects/:id/tasks
func (h *ProjectHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req task.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	created, err := h.taskUseCase.CreateTask(c.Request.Context(), userID, projectID, &req)
	if err != nil {
		respondError(c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, created)
}
