package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

type SyncRun struct {
	ID           string
	FilePath     string
	Status       RunStatus
	TotalRows    int
	CreatedTasks int
	EditedTasks  int
	MovedTasks   int
	Rewritten    bool
	ErrorMessage string
	StartedAt    time.Time
	CompletedAt  *time.Time
}

type SyncRunRepository struct {
	db *sql.DB
}

func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a running sync run for filePath and returns its id.
func (r *SyncRunRepository) Create(filePath string) (string, error) {
	id := uuid.NewString()
	query := `
	INSERT INTO sync_runs (id, file_path, status)
        VALUES (?, ?, ?)
	`

	if _, err := r.db.Exec(query, id, filePath, string(RunStatusRunning)); err != nil {
		return "", fmt.Errorf("Error trying to create the sync run: %w", err)
	}
	return id, nil
}

func (r *SyncRunRepository) Complete(run SyncRun) error {
	query := `
	UPDATE sync_runs
	SET status = ?, total_rows = ?, created_tasks = ?, edited_tasks = ?, moved_tasks = ?,
	    rewritten = ?, error_message = ?, completed_at = CURRENT_TIMESTAMP
	WHERE id = ?
	`
	_, err := r.db.Exec(query,
		string(run.Status),
		run.TotalRows,
		run.CreatedTasks,
		run.EditedTasks,
		run.MovedTasks,
		run.Rewritten,
		nullString(run.ErrorMessage),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("Error trying to complete sync run %s: %w", run.ID, err)
	}
	return nil
}

// GetRuns returns the most recent runs first. limit <= 0 returns all.
func (r *SyncRunRepository) GetRuns(limit int) ([]SyncRun, error) {
	query := `
	SELECT id, file_path, status, total_rows, created_tasks, edited_tasks, moved_tasks,
	       rewritten, error_message, started_at, completed_at
	FROM sync_runs
	ORDER BY started_at DESC, rowid DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("Error trying to get sync runs: %w", err)
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SyncRunRepository) GetRun(id string) (SyncRun, error) {
	query := `
	SELECT id, file_path, status, total_rows, created_tasks, edited_tasks, moved_tasks,
	       rewritten, error_message, started_at, completed_at
	FROM sync_runs WHERE id = ?
	`
	run, err := scanRun(r.db.QueryRow(query, id))
	if err != nil {
		return SyncRun{}, fmt.Errorf("Error trying to get sync run: %w", err)
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (SyncRun, error) {
	var (
		run      SyncRun
		errMsg   sql.NullString
		complete sql.NullTime
	)
	err := s.Scan(
		&run.ID,
		&run.FilePath,
		&run.Status,
		&run.TotalRows,
		&run.CreatedTasks,
		&run.EditedTasks,
		&run.MovedTasks,
		&run.Rewritten,
		&errMsg,
		&run.StartedAt,
		&complete,
	)
	if err != nil {
		return SyncRun{}, err
	}
	run.ErrorMessage = errMsg.String
	if complete.Valid {
		t := complete.Time
		run.CompletedAt = &t
	}
	return run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
