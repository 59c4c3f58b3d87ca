package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/db"
	"github.com/alexanderramin/wbsdesk/internal/domain"
)

// companyColumns is the canonical SELECT column list for groups.
const companyColumns = `id, name, description, owner_id, created_at, updated_at`

// SQLiteCompanyRepo stores companies in the groups table.
type SQLiteCompanyRepo struct {
	db db.DBTX
}

func NewSQLiteCompanyRepo(conn db.DBTX) *SQLiteCompanyRepo {
	return &SQLiteCompanyRepo{db: conn}
}

func (r *SQLiteCompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO groups (`+companyColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.OwnerID,
		formatTimestamp(c.CreatedAt), formatTimestamp(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting company: %w", classify(err))
	}
	return nil
}

func (r *SQLiteCompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM groups WHERE id = ?`, id)
	c, err := scanCompany(row)
	if err != nil {
		return nil, fmt.Errorf("company %s: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteCompanyRepo) ListForUser(ctx context.Context, userID string) ([]*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM groups
		WHERE id IN (SELECT group_id FROM group_members WHERE user_id = ? AND status = 'active')
		ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", classify(err))
	}
	defer rows.Close()

	var out []*domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating companies: %w", err)
	}
	return out, nil
}

func (r *SQLiteCompanyRepo) Update(ctx context.Context, c *domain.Company) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE groups SET name = ?, description = ?, owner_id = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Description, c.OwnerID, formatTimestamp(c.UpdatedAt), c.ID)
	if err != nil {
		return fmt.Errorf("updating company: %w", classify(err))
	}
	return requireAffected(res, "company "+c.ID)
}

// Delete removes the company with its memberships. Its projects are kept
// and lose their company link.
func (r *SQLiteCompanyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting company: %w", classify(err))
	}
	return requireAffected(res, "company "+id)
}

func scanCompany(s scanner) (*domain.Company, error) {
	var c domain.Company
	var createdAt, updatedAt string
	if err := s.Scan(&c.ID, &c.Name, &c.Description, &c.OwnerID, &createdAt, &updatedAt); err != nil {
		return nil, classify(err)
	}
	var err error
	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}
