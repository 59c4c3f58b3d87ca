package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/db"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/wbs"
)

// taskColumns is the canonical SELECT column list for wbs_tasks.
const taskColumns = `id, project_id, parent_id, name, start_date, end_date,
		assignee, assignee_id, status, progress, description,
		order_index, revision, created_at, updated_at`

const taskFileColumns = `id, task_id, kind, name, size, mime_type, url, uploaded_at`

// SQLiteTaskRepo implements TaskRepo on wbs_tasks and task_files.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

// Create inserts the task row and its files. Children are not written.
func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task, parentID string, orderIndex int) error {
	query := `INSERT INTO wbs_tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableString(parentID),
		t.Name,
		t.StartDate,
		t.EndDate,
		t.Assignee,
		t.AssigneeID,
		string(t.Status),
		t.Progress,
		t.Description,
		orderIndex,
		t.Revision,
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", classify(err))
	}
	for _, kind := range []domain.FileKind{domain.FileAttachment, domain.FileDeliverable} {
		if err := r.insertFiles(ctx, t.ID, kind, t.Files(kind)); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (wbs.Row, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM wbs_tasks WHERE id = ?`, id)
	tr, err := scanTask(row)
	if err != nil {
		return wbs.Row{}, fmt.Errorf("task %s: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskFileColumns+` FROM task_files WHERE task_id = ? ORDER BY order_index, uploaded_at`, id)
	if err != nil {
		return wbs.Row{}, fmt.Errorf("loading task files: %w", classify(err))
	}
	defer rows.Close()
	if err := attachFiles(rows, map[string]*domain.Task{id: tr.Task}); err != nil {
		return wbs.Row{}, err
	}
	return tr, nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]wbs.Row, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM wbs_tasks WHERE project_id = ? ORDER BY order_index, created_at, id`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", classify(err))
	}
	var out []wbs.Row
	byID := make(map[string]*domain.Task)
	for rows.Next() {
		tr, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, tr)
		byID[tr.Task.ID] = tr.Task
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	fileRows, err := r.db.QueryContext(ctx, `SELECT f.id, f.task_id, f.kind, f.name, f.size, f.mime_type, f.url, f.uploaded_at
		FROM task_files f
		JOIN wbs_tasks t ON t.id = f.task_id
		WHERE t.project_id = ?
		ORDER BY f.task_id, f.order_index, f.uploaded_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading task files: %w", classify(err))
	}
	defer fileRows.Close()
	if err := attachFiles(fileRows, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE wbs_tasks SET name = ?, start_date = ?, end_date = ?,
		assignee = ?, assignee_id = ?, status = ?, progress = ?, description = ?,
		revision = ?, updated_at = ?
		WHERE id = ? AND revision < ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Name,
		t.StartDate,
		t.EndDate,
		t.Assignee,
		t.AssigneeID,
		string(t.Status),
		t.Progress,
		t.Description,
		t.Revision,
		formatTimestamp(t.UpdatedAt),
		t.ID,
		t.Revision,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating task: reading rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var stored int64
	err = r.db.QueryRowContext(ctx, `SELECT revision FROM wbs_tasks WHERE id = ?`, t.ID).Scan(&stored)
	if err != nil {
		return fmt.Errorf("task %s: %w", t.ID, classify(err))
	}
	return fmt.Errorf("task %s at revision %d, save carries %d: %w", t.ID, stored, t.Revision, ErrRevisionConflict)
}

func (r *SQLiteTaskRepo) Move(ctx context.Context, id, parentID string, orderIndex int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE wbs_tasks SET parent_id = ?, order_index = ?, updated_at = ? WHERE id = ?`,
		nullableString(parentID), orderIndex, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("moving task: %w", classify(err))
	}
	return requireAffected(res, "task "+id)
}

// NextOrderIndex returns the index that appends a task after the last
// sibling under parentID ("" for the project root).
func (r *SQLiteTaskRepo) NextOrderIndex(ctx context.Context, projectID, parentID string) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_index) + 1, 0) FROM wbs_tasks WHERE project_id = ? AND parent_id IS ?`,
		projectID, nullableString(parentID)).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("computing order index: %w", classify(err))
	}
	return next, nil
}

// ReplaceFiles rewrites the kind list of the task, keeping the given order.
func (r *SQLiteTaskRepo) ReplaceFiles(ctx context.Context, taskID string, kind domain.FileKind, files []domain.AttachmentFile) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown file kind %q", kind)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM task_files WHERE task_id = ? AND kind = ?`, taskID, string(kind)); err != nil {
		return fmt.Errorf("clearing task files: %w", classify(err))
	}
	return r.insertFiles(ctx, taskID, kind, files)
}

// Delete removes the task; its subtree and files cascade.
func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wbs_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", classify(err))
	}
	return requireAffected(res, "task "+id)
}

func (r *SQLiteTaskRepo) insertFiles(ctx context.Context, taskID string, kind domain.FileKind, files []domain.AttachmentFile) error {
	for i, f := range files {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO task_files (id, task_id, kind, name, size, mime_type, url, order_index, uploaded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, taskID, string(kind), f.Name, f.Size, f.Type, f.URL, i, formatTimestamp(f.UploadedAt))
		if err != nil {
			return fmt.Errorf("inserting %s %q: %w", kind, f.Name, classify(err))
		}
	}
	return nil
}

func scanTask(s scanner) (wbs.Row, error) {
	var t domain.Task
	var parentID sql.NullString
	var status, createdAt, updatedAt string
	var orderIndex int

	err := s.Scan(
		&t.ID, &t.ProjectID, &parentID, &t.Name, &t.StartDate, &t.EndDate,
		&t.Assignee, &t.AssigneeID, &status, &t.Progress, &t.Description,
		&orderIndex, &t.Revision, &createdAt, &updatedAt,
	)
	if err != nil {
		return wbs.Row{}, classify(err)
	}
	t.Status = domain.TaskStatus(status)
	if t.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return wbs.Row{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return wbs.Row{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return wbs.Row{Task: &t, ParentID: parentID.String, OrderIndex: orderIndex}, nil
}

// attachFiles appends each scanned file to its task in byID. Files of
// tasks missing from byID are skipped.
func attachFiles(rows *sql.Rows, byID map[string]*domain.Task) error {
	for rows.Next() {
		var f domain.AttachmentFile
		var taskID, kind, uploadedAt string
		if err := rows.Scan(&f.ID, &taskID, &kind, &f.Name, &f.Size, &f.Type, &f.URL, &uploadedAt); err != nil {
			return fmt.Errorf("scanning task file: %w", err)
		}
		var err error
		if f.UploadedAt, err = parseTimestamp(uploadedAt); err != nil {
			return fmt.Errorf("parsing uploaded_at: %w", err)
		}
		t, ok := byID[taskID]
		if !ok {
			continue
		}
		k := domain.FileKind(kind)
		t.SetFiles(k, append(t.Files(k), f))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating task files: %w", err)
	}
	return nil
}
