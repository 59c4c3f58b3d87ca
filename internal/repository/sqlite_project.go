package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/db"
	"github.com/alexanderramin/wbsdesk/internal/domain"
)

// projectColumns is the canonical SELECT column list for projects.
const projectColumns = `id, company_id, name, description, status,
		start_date, end_date, owner_id, created_at, updated_at`

// projectColumnsAliased is the same column list prefixed with "p." for join queries.
const projectColumnsAliased = `p.id, p.company_id, p.name, p.description, p.status,
		p.start_date, p.end_date, p.owner_id, p.created_at, p.updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		nullableString(p.CompanyID),
		p.Name,
		p.Description,
		string(p.Status),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		p.OwnerID,
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", classify(err))
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) ListVisible(ctx context.Context, userID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE owner_id = ?
		   OR company_id IN (SELECT group_id FROM group_members WHERE user_id = ? AND status = 'active')
		   OR id IN (SELECT project_id FROM cost_management_shares WHERE shared_with_id = ?)
		ORDER BY created_at, id`
	return r.list(ctx, "listing visible projects", query, userID, userID, userID)
}

func (r *SQLiteProjectRepo) ListByCompany(ctx context.Context, companyID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE company_id = ? ORDER BY created_at, id`
	return r.list(ctx, "listing company projects", query, companyID)
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET company_id = ?, name = ?, description = ?, status = ?,
		start_date = ?, end_date = ?, owner_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(p.CompanyID),
		p.Name,
		p.Description,
		string(p.Status),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		p.OwnerID,
		formatTimestamp(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", classify(err))
	}
	return requireAffected(res, "project "+p.ID)
}

// Delete removes the project. Tasks, favorites and shares cascade.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", classify(err))
	}
	return requireAffected(res, "project "+id)
}

func (r *SQLiteProjectRepo) list(ctx context.Context, op, query string, args ...any) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	defer rows.Close()
	return scanProjects(rows)
}

func scanProjects(rows *sql.Rows) ([]*domain.Project, error) {
	var out []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return out, nil
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var companyID, startDate, endDate sql.NullString
	var status, createdAt, updatedAt string

	err := s.Scan(
		&p.ID, &companyID, &p.Name, &p.Description, &status,
		&startDate, &endDate, &p.OwnerID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, classify(err)
	}

	p.CompanyID = companyID.String
	p.Status = domain.ProjectStatus(status)
	p.StartDate = parseNullableTime(startDate, dateLayout)
	p.EndDate = parseNullableTime(endDate, dateLayout)
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}
