package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

func InitDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("Error trying to open DB: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("Error trying to connect: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	schema := `
    CREATE TABLE IF NOT EXISTS sync_runs (
        id TEXT PRIMARY KEY,
        file_path TEXT NOT NULL,
        status TEXT NOT NULL,
        total_rows INTEGER DEFAULT 0,
        created_tasks INTEGER DEFAULT 0,
        edited_tasks INTEGER DEFAULT 0,
        moved_tasks INTEGER DEFAULT 0,
        rewritten INTEGER DEFAULT 0,
        error_message TEXT,
        started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        completed_at DATETIME
    );

    CREATE TABLE IF NOT EXISTS task_syncs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL,
        row_number INTEGER NOT NULL,
        board_id TEXT NOT NULL,
        task_id TEXT,
        action TEXT NOT NULL,
        ok INTEGER NOT NULL,
        message TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (run_id) REFERENCES sync_runs(id)
    );
    `

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("Error trying to create tables: %w", err)
	}
	return nil
}
