package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/realtime"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskUseCase struct {
	taskRepo    repository.TaskRepository
	commentRepo repository.TaskCommentRepository
	projectRepo repository.ProjectRepository
	events      realtime.Publisher
	log         *zap.Logger
}

func NewTaskUseCase(
	taskRepo repository.TaskRepository,
	commentRepo repository.TaskCommentRepository,
	projectRepo repository.ProjectRepository,
	events realtime.Publisher,
	log *zap.Logger,
) *TaskUseCase {
	return &TaskUseCase{
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		projectRepo: projectRepo,
		events:      events,
		log:         log,
	}
}

// CreateTaskRequest represents a new card
type CreateTaskRequest struct {
	Title       string            `json:"title" binding:"required,min=1,max=200"`
	Description *string           `json:"description" binding:"omitempty,max=4000"`
	Status      domain.TaskStatus `json:"status"`
	AssigneeID  *uuid.UUID        `json:"assignee_id"`
	DueDate     *time.Time        `json:"due_date"`
}

// UpdateTaskRequest represents a partial card update
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=4000"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

// MoveTaskRequest places a card in a column
type MoveTaskRequest struct {
	Status   domain.TaskStatus `json:"status" binding:"required"`
	Position int               `json:"position" binding:"min=0"`
}

// CommentRequest represents a new task comment
type CommentRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

// Column is one status column of a board
type Column struct {
	Status domain.TaskStatus `json:"status"`
	Tasks  []*domain.Task    `json:"tasks"`
}

// Board is the Kanban state of a project
type Board struct {
	ProjectID uuid.UUID `json:"project_id"`
	Columns   []Column  `json:"columns"`
}

// CreateTask appends a task to the end of its column
func (uc *TaskUseCase) CreateTask(ctx context.Context, userID, projectID uuid.UUID, req *CreateTaskRequest) (*domain.Task, error) {
	if err := uc.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}
	status := req.Status
	if status == "" {
		status = domain.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidTaskStatus
	}
	if req.AssigneeID != nil {
		if err := uc.requireMember(ctx, projectID, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &domain.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: req.Description,
		Status:      status,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		CreatedBy:   userID,
	}
	if err := uc.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTask edits a card's content
func (uc *TaskUseCase) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *UpdateTaskRequest) (*domain.Task, error) {
	task, err := uc.memberTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidInput
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.AssigneeID != nil {
		if err := uc.requireMember(ctx, task.ProjectID, *req.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = req.AssigneeID
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := uc.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a card and closes the gap in its column
func (uc *TaskUseCase) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := uc.memberTask(ctx, userID, taskID); err != nil {
		return err
	}
	return uc.taskRepo.Delete(ctx, taskID)
}

// MoveTask moves a card to status at position. Positions past the end of the
// column append.
func (uc *TaskUseCase) MoveTask(ctx context.Context, userID, taskID uuid.UUID, req *MoveTaskRequest) (*domain.Task, error) {
	if !req.Status.Valid() {
		return nil, domain.ErrInvalidTaskStatus
	}
	if req.Position < 0 {
		return nil, domain.ErrInvalidInput
	}

	before, err := uc.memberTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	moved, err := uc.taskRepo.Move(ctx, taskID, req.Status, req.Position)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, realtime.ProjectTopic(moved.ProjectID), realtime.EventTaskMoved, map[string]any{
		"task_id":     moved.ID.String(),
		"project_id":  moved.ProjectID.String(),
		"from_status": string(before.Status),
		"to_status":   string(moved.Status),
		"position":    moved.Position,
		"moved_by":    userID.String(),
	})
	return moved, nil
}

// GetBoard returns every column in board order, cards sorted by position
func (uc *TaskUseCase) GetBoard(ctx context.Context, userID, projectID uuid.UUID) (*Board, error) {
	if err := uc.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	tasks, err := uc.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	byStatus := make(map[domain.TaskStatus][]*domain.Task, len(domain.BoardColumns))
	for _, t := range tasks {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	board := &Board{ProjectID: projectID, Columns: make([]Column, 0, len(domain.BoardColumns))}
	for _, status := range domain.BoardColumns {
		column := byStatus[status]
		if column == nil {
			column = []*domain.Task{}
		}
		sort.SliceStable(column, func(i, j int) bool { return column[i].Position < column[j].Position })
		board.Columns = append(board.Columns, Column{Status: status, Tasks: column})
	}
	return board, nil
}

// AddComment comments on a task and notifies its subscribers
func (uc *TaskUseCase) AddComment(ctx context.Context, userID, taskID uuid.UUID, body string) (*domain.TaskComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.memberTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	comment := &domain.TaskComment{TaskID: taskID, AuthorID: userID, Body: body}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	uc.publish(ctx, realtime.TaskTopic(taskID), realtime.EventCommentCreated, map[string]any{
		"comment_id": comment.ID.String(),
		"task_id":    taskID.String(),
		"author_id":  userID.String(),
		"body":       comment.Body,
		"created_at": comment.CreatedAt,
	})
	return comment, nil
}

func (uc *TaskUseCase) ListComments(ctx context.Context, userID, taskID uuid.UUID) ([]*domain.TaskComment, error) {
	if _, err := uc.memberTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	comments, err := uc.commentRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []*domain.TaskComment{}
	}
	return comments, nil
}

// DeleteComment removes a comment. Author only.
func (uc *TaskUseCase) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := uc.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return domain.ErrNotCommentAuthor
	}
	return uc.commentRepo.Delete(ctx, commentID)
}

// CanAccess reports whether userID may follow taskID.
func (uc *TaskUseCase) CanAccess(ctx context.Context, userID, taskID uuid.UUID) (bool, error) {
	_, err := uc.memberTask(ctx, userID, taskID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotProjectMember), errors.Is(err, domain.ErrTaskNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (uc *TaskUseCase) memberTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := uc.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := uc.requireMember(ctx, task.ProjectID, userID); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *TaskUseCase) requireMember(ctx context.Context, projectID, userID uuid.UUID) error {
	if _, err := uc.projectRepo.GetMember(ctx, projectID, userID); err != nil {
		return err
	}
	return nil
}

func (uc *TaskUseCase) publish(ctx context.Context, topic, eventType string, data map[string]any) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, topic, realtime.Event{Type: eventType, Data: data}); err != nil {
		uc.log.Warn("failed to publish task event", zap.String("topic", topic), zap.Error(err))
	}
}
