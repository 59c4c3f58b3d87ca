package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/wbs"
	"github.com/google/uuid"
)

// Convert turns a validated document into persistence rows for projectID,
// parents before children. Call Validate first; Convert assumes the
// document is valid. baseOrder offsets the root tasks so an import can be
// appended after existing roots.
func Convert(doc *Document, projectID string, baseOrder int, now time.Time) []wbs.Row {
	var rows []wbs.Row
	for i := range doc.Tasks {
		rows = appendTask(rows, &doc.Tasks[i], projectID, "", baseOrder+i, 1, now)
	}
	return rows
}

func appendTask(rows []wbs.Row, in *TaskImport, projectID, parentID string, order, level int, now time.Time) []wbs.Row {
	status := domain.TaskPending
	if in.Status != "" {
		if s, err := domain.ParseTaskStatus(in.Status); err == nil {
			status = s
		}
	}
	t := &domain.Task{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Name:        strings.TrimSpace(in.Name),
		Level:       level,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Assignee:    in.Assignee,
		AssigneeID:  in.AssigneeID,
		Status:      status,
		Progress:    domain.IntFromPtrWithDefault(0, in.Progress),
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	rows = append(rows, wbs.Row{Task: t, ParentID: parentID, OrderIndex: order})
	for i := range in.Children {
		rows = appendTask(rows, &in.Children[i], projectID, t.ID, i, level+1, now)
	}
	return rows
}

// CountTasks returns the number of tasks in the document, nested ones included.
func CountTasks(doc *Document) int {
	var n int
	var count func([]TaskImport)
	count = func(ts []TaskImport) {
		for i := range ts {
			n++
			count(ts[i].Children)
		}
	}
	count(doc.Tasks)
	return n
}
