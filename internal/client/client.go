package client

import (
	"context"

	"github.com/TWRT/kanbanize-sync/internal/models"
)

type TaskClient interface {
	CreateTask(ctx context.Context, boardId string, attrs models.TaskAttributes) (models.CreateResult, error)
	EditTask(ctx context.Context, boardId, taskId string, attrs models.TaskAttributes) (models.Result, error)
	MoveTask(ctx context.Context, boardId, taskId, column string, opts models.MoveOptions) (models.Result, error)
}

type TaskReader interface {
	ListTasks(ctx context.Context, boardId string) ([]models.Task, error)
	GetTask(ctx context.Context, boardId, taskId string) (models.Task, error)
}

type TaskRemover interface {
	DeleteTask(ctx context.Context, boardId, taskId string) (models.Result, error)
}

type BoardProvider interface {
	TaskClient
	TaskReader
	TaskRemover
}
