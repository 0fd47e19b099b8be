package repository

import "database/sql"

// Ledger records sync runs and the remote actions taken during them.
type Ledger struct {
	Runs  *SyncRunRepository
	Tasks *TaskSyncRepository
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{
		Runs:  NewSyncRunRepository(db),
		Tasks: NewTaskSyncRepository(db),
	}
}

func (l *Ledger) StartRun(filePath string) (string, error) {
	return l.Runs.Create(filePath)
}

func (l *Ledger) RecordTask(entry TaskSync) error {
	return l.Tasks.Create(&entry)
}

func (l *Ledger) FinishRun(run SyncRun) error {
	return l.Runs.Complete(run)
}
