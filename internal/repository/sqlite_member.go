package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/db"
	"github.com/alexanderramin/wbsdesk/internal/domain"
)

const memberColumns = `group_id, user_id, role, status, joined_at`

// SQLiteMemberRepo implements MemberRepo on the group_members table.
type SQLiteMemberRepo struct {
	db db.DBTX
}

func NewSQLiteMemberRepo(conn db.DBTX) *SQLiteMemberRepo {
	return &SQLiteMemberRepo{db: conn}
}

func (r *SQLiteMemberRepo) Add(ctx context.Context, m *domain.GroupMember) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_members (`+memberColumns+`) VALUES (?, ?, ?, ?, ?)`,
		m.GroupID, m.UserID, string(m.Role), string(m.Status), formatTimestamp(m.JoinedAt))
	if err != nil {
		return fmt.Errorf("inserting group member: %w", classify(err))
	}
	return nil
}

func (r *SQLiteMemberRepo) Get(ctx context.Context, groupID, userID string) (*domain.GroupMember, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID)
	m, err := scanMember(row)
	if err != nil {
		return nil, fmt.Errorf("member %s of %s: %w", userID, groupID, err)
	}
	return m, nil
}

func (r *SQLiteMemberRepo) ListByGroup(ctx context.Context, groupID string) ([]*domain.GroupMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM group_members WHERE group_id = ?
		ORDER BY CASE role WHEN 'owner' THEN 0 WHEN 'admin' THEN 1 ELSE 2 END, joined_at, user_id`,
		groupID)
	if err != nil {
		return nil, fmt.Errorf("listing group members: %w", classify(err))
	}
	defer rows.Close()

	var out []*domain.GroupMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group members: %w", err)
	}
	return out, nil
}

func (r *SQLiteMemberRepo) Update(ctx context.Context, m *domain.GroupMember) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE group_members SET role = ?, status = ? WHERE group_id = ? AND user_id = ?`,
		string(m.Role), string(m.Status), m.GroupID, m.UserID)
	if err != nil {
		return fmt.Errorf("updating group member: %w", classify(err))
	}
	return requireAffected(res, "member "+m.UserID)
}

func (r *SQLiteMemberRepo) Remove(ctx context.Context, groupID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`, groupID, userID)
	if err != nil {
		return fmt.Errorf("removing group member: %w", classify(err))
	}
	return requireAffected(res, "member "+userID)
}

func (r *SQLiteMemberRepo) CountActiveOwners(ctx context.Context, groupID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM group_members WHERE group_id = ? AND role = 'owner' AND status = 'active'`,
		groupID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting owners: %w", classify(err))
	}
	return n, nil
}

func scanMember(s scanner) (*domain.GroupMember, error) {
	var m domain.GroupMember
	var role, status, joinedAt string
	if err := s.Scan(&m.GroupID, &m.UserID, &role, &status, &joinedAt); err != nil {
		return nil, classify(err)
	}
	m.Role = domain.MemberRole(role)
	m.Status = domain.MemberStatus(status)
	var err error
	if m.JoinedAt, err = parseTimestamp(joinedAt); err != nil {
		return nil, fmt.Errorf("parsing joined_at: %w", err)
	}
	return &m, nil
}
