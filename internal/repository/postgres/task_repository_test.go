package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskRowColumns = []string{
	"id", "project_id", "title", "description", "status", "position", "assignee_id", "due_date",
	"created_by", "created_at", "updated_at",
}

func TestTaskMoveClampsAndResequences(t *testing.T) {
	db, mock := newMockDB(t)
	taskID, projectID, creator := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(taskID).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(taskID.String(), projectID.String(), "Ship", nil, "todo", 2, nil, nil, creator.String(), now, now))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(projectID, domain.TaskStatusDone, taskID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectExec("position = position - 1").
		WithArgs(projectID, domain.TaskStatusTodo, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("position = position \\+ 1").
		WithArgs(projectID, domain.TaskStatusDone, 4, taskID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("UPDATE tasks SET status").
		WithArgs(domain.TaskStatusDone, 4, taskID).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectCommit()

	task, err := NewTaskRepository(db).Move(context.Background(), taskID, domain.TaskStatusDone, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDone, task.Status)
	assert.Equal(t, 4, task.Position)
}

func TestTaskMoveMissingTask(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows(taskRowColumns))
	mock.ExpectRollback()

	_, err := NewTaskRepository(db).Move(context.Background(), uuid.New(), domain.TaskStatusReview, 0)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskCreateAppendsToColumn(t *testing.T) {
	db, mock := newMockDB(t)
	taskID := uuid.New()
	now := time.Now()
	mock.ExpectQuery("COALESCE\\(MAX\\(position\\) \\+ 1, 0\\)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "position", "created_at", "updated_at"}).
			AddRow(taskID.String(), 3, now, now))

	task := &domain.Task{ProjectID: uuid.New(), Title: "Draft", Status: domain.TaskStatusTodo, CreatedBy: uuid.New()}
	require.NoError(t, NewTaskRepository(db).Create(context.Background(), task))
	assert.Equal(t, 3, task.Position)
	assert.Equal(t, taskID, task.ID)
}
