package service

import (
	"fmt"
	"strconv"

	"github.com/TWRT/kanbanize-sync/internal/csvfile"
	"github.com/TWRT/kanbanize-sync/internal/models"
)

const (
	ColumnTaskID          = "taskid"
	ColumnBoardID         = "boardid"
	ColumnColumn          = "column"
	ColumnLane            = "lane"
	ColumnPosition        = "position"
	ColumnExceedingReason = "exceedingreason"
)

// reserved columns drive identity and placement and are never sent as task
// attributes.
var reserved = map[string]struct{}{
	ColumnTaskID:          {},
	ColumnBoardID:         {},
	ColumnColumn:          {},
	ColumnLane:            {},
	ColumnPosition:        {},
	ColumnExceedingReason: {},
}

var attributeColumns = map[string]func(*models.TaskAttributes, string){
	"title":       func(a *models.TaskAttributes, v string) { a.Title = v },
	"description": func(a *models.TaskAttributes, v string) { a.Description = v },
	"priority":    func(a *models.TaskAttributes, v string) { a.Priority = v },
	"assignee":    func(a *models.TaskAttributes, v string) { a.Assignee = v },
	"color":       func(a *models.TaskAttributes, v string) { a.Color = v },
	"size":        func(a *models.TaskAttributes, v string) { a.Size = v },
	"tags":        func(a *models.TaskAttributes, v string) { a.Tags = v },
	"deadline":    func(a *models.TaskAttributes, v string) { a.Deadline = v },
	"extlink":     func(a *models.TaskAttributes, v string) { a.ExtLink = v },
	"type":        func(a *models.TaskAttributes, v string) { a.Type = v },
	"template":    func(a *models.TaskAttributes, v string) { a.Template = v },
}

type rowTask struct {
	TaskID  string
	BoardID string
	Column  string
	Move    models.MoveOptions
	Attrs   models.TaskAttributes
}

func parseRow(row csvfile.Row, defaultBoardID string) (rowTask, error) {
	rt := rowTask{
		TaskID:  row.Get(ColumnTaskID),
		BoardID: row.Get(ColumnBoardID),
		Column:  row.Get(ColumnColumn),
		Move: models.MoveOptions{
			Lane:            row.Get(ColumnLane),
			ExceedingReason: row.Get(ColumnExceedingReason),
		},
	}

	if rt.BoardID == "" {
		rt.BoardID = defaultBoardID
	}
	if rt.BoardID == "" {
		return rowTask{}, ErrMissingBoard
	}

	if p := row.Get(ColumnPosition); p != "" {
		pos, err := strconv.Atoi(p)
		if err != nil {
			return rowTask{}, fmt.Errorf("%w: position %q is not a number", models.ErrInvalidAttribute, p)
		}
		rt.Move.Position = &pos
	}

	for key, value := range row {
		if _, skip := reserved[key]; skip {
			continue
		}
		if set, ok := attributeColumns[key]; ok {
			set(&rt.Attrs, value)
			continue
		}
		if rt.Attrs.Extra == nil {
			rt.Attrs.Extra = map[string]string{}
		}
		rt.Attrs.Extra[key] = value
	}

	if err := rt.Attrs.Validate(); err != nil {
		return rowTask{}, err
	}
	if err := rt.Move.Validate(); err != nil {
		return rowTask{}, err
	}
	return rt, nil
}
