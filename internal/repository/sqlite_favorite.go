package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/db"
	"github.com/alexanderramin/wbsdesk/internal/domain"
)

// SQLiteFavoriteRepo implements FavoriteRepo on project_favorites.
type SQLiteFavoriteRepo struct {
	db db.DBTX
}

func NewSQLiteFavoriteRepo(conn db.DBTX) *SQLiteFavoriteRepo {
	return &SQLiteFavoriteRepo{db: conn}
}

// Add is a no-op when the favorite already exists.
func (r *SQLiteFavoriteRepo) Add(ctx context.Context, f *domain.ProjectFavorite) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO project_favorites (user_id, project_id, created_at) VALUES (?, ?, ?)`,
		f.UserID, f.ProjectID, formatTimestamp(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("adding favorite: %w", classify(err))
	}
	return nil
}

func (r *SQLiteFavoriteRepo) Remove(ctx context.Context, userID, projectID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM project_favorites WHERE user_id = ? AND project_id = ?`, userID, projectID)
	if err != nil {
		return fmt.Errorf("removing favorite: %w", classify(err))
	}
	return nil
}

func (r *SQLiteFavoriteRepo) Exists(ctx context.Context, userID, projectID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM project_favorites WHERE user_id = ? AND project_id = ?`,
		userID, projectID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking favorite: %w", classify(err))
	}
	return n > 0, nil
}

// ListProjects returns the user's favorite projects, most recently
// favorited first.
func (r *SQLiteFavoriteRepo) ListProjects(ctx context.Context, userID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumnsAliased + `
		FROM project_favorites f
		JOIN projects p ON p.id = f.project_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC, p.name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", classify(err))
	}
	defer rows.Close()
	return scanProjects(rows)
}
