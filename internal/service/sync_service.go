package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/kanbanize-sync/internal/client"
	"github.com/TWRT/kanbanize-sync/internal/csvfile"
	"github.com/TWRT/kanbanize-sync/internal/repository"
)

var (
	ErrUnexpectedResponse = errors.New("unexpected error")
	ErrMissingBoard       = errors.New("missing board id: set a boardid column or a default board")
)

// Ledger keeps a history of sync runs. It is optional; failures to write to
// it are logged and never stop a sync.
type Ledger interface {
	StartRun(filePath string) (string, error)
	RecordTask(entry repository.TaskSync) error
	FinishRun(run repository.SyncRun) error
}

type Summary struct {
	Path      string
	Rows      int
	Created   int
	Edited    int
	Moved     int
	Rewritten bool
}

type SyncService struct {
	client         client.TaskClient
	ledger         Ledger
	log            logrus.FieldLogger
	defaultBoardID string
}

func NewSyncService(
	taskClient client.TaskClient,
	ledger Ledger,
	log logrus.FieldLogger,
	defaultBoardID string,
) *SyncService {
	return &SyncService{
		client:         taskClient,
		ledger:         ledger,
		log:            log,
		defaultBoardID: defaultBoardID,
	}
}

// SyncFiles syncs each file in order and stops at the first failure.
func (s *SyncService) SyncFiles(ctx context.Context, paths []string) ([]Summary, error) {
	summaries := make([]Summary, 0, len(paths))
	for _, path := range paths {
		summary, err := s.SyncFile(ctx, path)
		summaries = append(summaries, summary)
		if err != nil {
			return summaries, err
		}
	}
	return summaries, nil
}

// SyncFile creates a remote task for every row without a taskid and edits and
// moves every row that has one. The file is rewritten only when the whole
// file went through and at least one task was created.
func (s *SyncService) SyncFile(ctx context.Context, path string) (summary Summary, err error) {
	summary = Summary{Path: path}
	log := s.log.WithField("file", path)

	runID := s.startRun(log, path)
	defer func() {
		s.finishRun(log, runID, summary, err)
	}()

	table, err := csvfile.Read(path)
	if err != nil {
		return summary, err
	}
	summary.Rows = len(table.Rows)

	changed := false
	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		rowNumber := i + 1
		rt, err := parseRow(row, s.defaultBoardID)
		if err != nil {
			return summary, fmt.Errorf("%s row %d: %w", path, rowNumber, err)
		}

		rowLog := log.WithFields(logrus.Fields{"row": rowNumber, "boardid": rt.BoardID})
		st := rowState{runID: runID, rowNumber: rowNumber, log: rowLog, summary: &summary}

		if rt.TaskID == "" {
			if err := s.createRow(ctx, st, rt, row); err != nil {
				return summary, fmt.Errorf("%s row %d: %w", path, rowNumber, err)
			}
			changed = true
			continue
		}

		if err := s.updateRow(ctx, st, rt); err != nil {
			return summary, fmt.Errorf("%s row %d: %w", path, rowNumber, err)
		}
	}

	if changed {
		table.EnsureColumn(ColumnTaskID)
		log.Info("updating csv file")
		if err := csvfile.WriteFile(path, table); err != nil {
			return summary, fmt.Errorf("update csv file: %w", err)
		}
		summary.Rewritten = true
	}

	return summary, nil
}

type rowState struct {
	runID     string
	rowNumber int
	log       logrus.FieldLogger
	summary   *Summary
}

func (s *SyncService) createRow(ctx context.Context, st rowState, rt rowTask, row csvfile.Row) error {
	created, err := s.client.CreateTask(ctx, rt.BoardID, rt.Attrs)
	if err != nil {
		s.record(st, rt.BoardID, "", repository.TaskActionCreate, false, err.Error())
		return err
	}
	if !created.Created() {
		s.record(st, rt.BoardID, "", repository.TaskActionCreate, false, string(created.Raw))
		return fmt.Errorf("%w: %s", ErrUnexpectedResponse, created.Raw)
	}

	row[ColumnTaskID] = created.ID
	st.summary.Created++
	s.record(st, rt.BoardID, created.ID, repository.TaskActionCreate, true, "")
	log := st.log.WithField("taskid", created.ID)
	log.Infof("created new task id:%s", created.ID)

	if rt.Column == "" {
		return nil
	}

	moved, err := s.client.MoveTask(ctx, rt.BoardID, created.ID, rt.Column, rt.Move)
	if err != nil {
		s.record(st, rt.BoardID, created.ID, repository.TaskActionMove, false, err.Error())
		return err
	}
	s.record(st, rt.BoardID, created.ID, repository.TaskActionMove, moved.OK, moved.Reason)
	if !moved.OK {
		return fmt.Errorf("%w: move task %s to %q: %s", ErrUnexpectedResponse, created.ID, rt.Column, moved.Reason)
	}

	st.summary.Moved++
	log.WithField("column", rt.Column).Infof("moved task id:%s to column:%s", created.ID, rt.Column)
	return nil
}

// updateRow always issues both an edit and a move, even when the column did
// not change. Negative answers are only logged.
func (s *SyncService) updateRow(ctx context.Context, st rowState, rt rowTask) error {
	log := st.log.WithField("taskid", rt.TaskID)

	edited, err := s.client.EditTask(ctx, rt.BoardID, rt.TaskID, rt.Attrs)
	if err != nil {
		s.record(st, rt.BoardID, rt.TaskID, repository.TaskActionEdit, false, err.Error())
		return err
	}
	s.record(st, rt.BoardID, rt.TaskID, repository.TaskActionEdit, edited.OK, edited.Reason)
	if edited.OK {
		st.summary.Edited++
		log.Infof("task id:%s edited", rt.TaskID)
	} else {
		log.WithField("response", edited.Reason).Debug("edit not confirmed")
	}

	moved, err := s.client.MoveTask(ctx, rt.BoardID, rt.TaskID, rt.Column, rt.Move)
	if err != nil {
		s.record(st, rt.BoardID, rt.TaskID, repository.TaskActionMove, false, err.Error())
		return err
	}
	s.record(st, rt.BoardID, rt.TaskID, repository.TaskActionMove, moved.OK, moved.Reason)
	if moved.OK {
		st.summary.Moved++
		log.WithField("column", rt.Column).Infof("task id:%s moved to %s", rt.TaskID, rt.Column)
	} else {
		log.WithField("response", moved.Reason).Debug("move not confirmed")
	}
	return nil
}

func (s *SyncService) startRun(log logrus.FieldLogger, path string) string {
	if s.ledger == nil {
		return ""
	}
	runID, err := s.ledger.StartRun(path)
	if err != nil {
		log.WithError(err).Warn("ledger: could not start run")
		return ""
	}
	return runID
}

func (s *SyncService) record(st rowState, boardID, taskID string, action repository.TaskAction, ok bool, message string) {
	if s.ledger == nil || st.runID == "" {
		return
	}
	err := s.ledger.RecordTask(repository.TaskSync{
		RunID:     st.runID,
		RowNumber: st.rowNumber,
		BoardID:   boardID,
		TaskID:    taskID,
		Action:    action,
		OK:        ok,
		Message:   message,
	})
	if err != nil {
		st.log.WithError(err).Warn("ledger: could not record task")
	}
}

func (s *SyncService) finishRun(log logrus.FieldLogger, runID string, summary Summary, runErr error) {
	if s.ledger == nil || runID == "" {
		return
	}
	run := repository.SyncRun{
		ID:           runID,
		Status:       repository.RunStatusCompleted,
		TotalRows:    summary.Rows,
		CreatedTasks: summary.Created,
		EditedTasks:  summary.Edited,
		MovedTasks:   summary.Moved,
		Rewritten:    summary.Rewritten,
	}
	if runErr != nil {
		run.Status = repository.RunStatusFailed
		run.ErrorMessage = runErr.Error()
	}
	if err := s.ledger.FinishRun(run); err != nil {
		log.WithError(err).Warn("ledger: could not finish run")
	}
}
