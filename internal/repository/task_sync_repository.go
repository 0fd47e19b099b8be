package repository

import (
	"database/sql"
	"fmt"
	"time"
)

type TaskAction string

const (
	TaskActionCreate TaskAction = "create"
	TaskActionEdit   TaskAction = "edit"
	TaskActionMove   TaskAction = "move"
)

type TaskSync struct {
	ID        int64
	RunID     string
	RowNumber int
	BoardID   string
	TaskID    string
	Action    TaskAction
	OK        bool
	Message   string
	CreatedAt time.Time
}

type TaskSyncRepository struct {
	db *sql.DB
}

func NewTaskSyncRepository(db *sql.DB) *TaskSyncRepository {
	return &TaskSyncRepository{db: db}
}

func (r *TaskSyncRepository) Create(entry *TaskSync) error {
	query := `
		INSERT INTO task_syncs (run_id, row_number, board_id, task_id, action, ok, message)
        VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		entry.RunID,
		entry.RowNumber,
		entry.BoardID,
		nullString(entry.TaskID),
		string(entry.Action),
		entry.OK,
		nullString(entry.Message),
	)
	if err != nil {
		return fmt.Errorf("Error trying to record task sync: %w", err)
	}

	entry.ID, err = result.LastInsertId()
	return err
}

func (r *TaskSyncRepository) GetByRunID(runID string) ([]TaskSync, error) {
	query := `
	SELECT id, run_id, row_number, board_id, task_id, action, ok, message, created_at
	FROM task_syncs WHERE run_id = ? ORDER BY id
	`
	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("Error trying to get task syncs: %w", err)
	}
	defer rows.Close()

	var entries []TaskSync
	for rows.Next() {
		var (
			e       TaskSync
			taskID  sql.NullString
			message sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.RowNumber, &e.BoardID, &taskID, &e.Action, &e.OK, &message, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.TaskID = taskID.String
		e.Message = message.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
