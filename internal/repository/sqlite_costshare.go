package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/db"
	"github.com/alexanderramin/wbsdesk/internal/domain"
)

const costShareColumns = `id, project_id, owner_id, shared_with_id, permission_type, created_at, updated_at`

// SQLiteCostShareRepo implements CostShareRepo on cost_management_shares.
type SQLiteCostShareRepo struct {
	db db.DBTX
}

func NewSQLiteCostShareRepo(conn db.DBTX) *SQLiteCostShareRepo {
	return &SQLiteCostShareRepo{db: conn}
}

// Upsert keeps the original id and created_at of an existing share.
func (r *SQLiteCostShareRepo) Upsert(ctx context.Context, s *domain.CostShare) error {
	query := `INSERT INTO cost_management_shares (` + costShareColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, shared_with_id) DO UPDATE SET
			permission_type = excluded.permission_type,
			owner_id = excluded.owner_id,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ProjectID, s.OwnerID, s.SharedWithID, string(s.PermissionType),
		formatTimestamp(s.CreatedAt), formatTimestamp(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting cost share: %w", classify(err))
	}
	return nil
}

func (r *SQLiteCostShareRepo) Get(ctx context.Context, projectID, sharedWithID string) (*domain.CostShare, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+costShareColumns+` FROM cost_management_shares WHERE project_id = ? AND shared_with_id = ?`,
		projectID, sharedWithID)
	s, err := scanCostShare(row)
	if err != nil {
		return nil, fmt.Errorf("cost share for %s: %w", sharedWithID, err)
	}
	return s, nil
}

func (r *SQLiteCostShareRepo) Delete(ctx context.Context, projectID, sharedWithID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cost_management_shares WHERE project_id = ? AND shared_with_id = ?`,
		projectID, sharedWithID)
	if err != nil {
		return fmt.Errorf("deleting cost share: %w", classify(err))
	}
	return requireAffected(res, "cost share for "+sharedWithID)
}

func (r *SQLiteCostShareRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.CostShare, error) {
	return r.list(ctx, `SELECT `+costShareColumns+` FROM cost_management_shares
		WHERE project_id = ? ORDER BY created_at, shared_with_id`, projectID)
}

func (r *SQLiteCostShareRepo) ListSharedWith(ctx context.Context, userID string) ([]*domain.CostShare, error) {
	return r.list(ctx, `SELECT `+costShareColumns+` FROM cost_management_shares
		WHERE shared_with_id = ? ORDER BY created_at, project_id`, userID)
}

func (r *SQLiteCostShareRepo) list(ctx context.Context, query string, arg string) ([]*domain.CostShare, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing cost shares: %w", classify(err))
	}
	defer rows.Close()

	var out []*domain.CostShare
	for rows.Next() {
		s, err := scanCostShare(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cost shares: %w", err)
	}
	return out, nil
}

func scanCostShare(sc scanner) (*domain.CostShare, error) {
	var s domain.CostShare
	var perm, createdAt, updatedAt string
	if err := sc.Scan(&s.ID, &s.ProjectID, &s.OwnerID, &s.SharedWithID, &perm, &createdAt, &updatedAt); err != nil {
		return nil, classify(err)
	}
	s.PermissionType = domain.PermissionType(perm)
	var err error
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}
