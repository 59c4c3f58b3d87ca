package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and are
// re-run on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillOrderIndex(db); err != nil {
		return fmt.Errorf("backfilling wbs_tasks order_index: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id           TEXT PRIMARY KEY,
		email        TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS groups (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		owner_id    TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS group_members (
		group_id  TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		user_id   TEXT NOT NULL,
		role      TEXT NOT NULL DEFAULT 'member'
		          CHECK(role IN ('owner','admin','member')),
		status    TEXT NOT NULL DEFAULT 'active'
		          CHECK(status IN ('active','inactive','pending','suspended')),
		joined_at TEXT NOT NULL,
		PRIMARY KEY (group_id, user_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		company_id  TEXT REFERENCES groups(id) ON DELETE SET NULL,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'planning'
		            CHECK(status IN ('planning','active','completed','on_hold')),
		start_date  TEXT,
		end_date    TEXT,
		owner_id    TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_company ON projects(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id)`,

	`CREATE TABLE IF NOT EXISTS project_favorites (
		user_id    TEXT NOT NULL,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		PRIMARY KEY (user_id, project_id)
	)`,

	`CREATE TABLE IF NOT EXISTS cost_management_shares (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		owner_id        TEXT NOT NULL,
		shared_with_id  TEXT NOT NULL,
		permission_type TEXT NOT NULL DEFAULT 'view'
		                CHECK(permission_type IN ('view','edit')),
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		UNIQUE (project_id, shared_with_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cost_shares_shared_with ON cost_management_shares(shared_with_id)`,

	`CREATE TABLE IF NOT EXISTS wbs_tasks (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id   TEXT REFERENCES wbs_tasks(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		start_date  TEXT NOT NULL DEFAULT '',
		end_date    TEXT NOT NULL DEFAULT '',
		assignee    TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'pending'
		            CHECK(status IN ('pending','in_progress','done','on_hold','cancelled')),
		progress    INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
		description TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_wbs_tasks_project ON wbs_tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wbs_tasks_parent ON wbs_tasks(parent_id)`,

	`CREATE TABLE IF NOT EXISTS task_files (
		id          TEXT PRIMARY KEY,
		task_id     TEXT NOT NULL REFERENCES wbs_tasks(id) ON DELETE CASCADE,
		kind        TEXT NOT NULL CHECK(kind IN ('attachment','deliverable')),
		name        TEXT NOT NULL,
		size        INTEGER NOT NULL DEFAULT 0,
		mime_type   TEXT NOT NULL DEFAULT '',
		url         TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL DEFAULT 0,
		uploaded_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_files_task ON task_files(task_id)`,

	`CREATE TABLE IF NOT EXISTS kv_store (
		scope      TEXT NOT NULL DEFAULT '',
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (scope, key)
	)`,

	// assignee_id links a task to a group member; revision guards saves.
	`ALTER TABLE wbs_tasks ADD COLUMN assignee_id TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE wbs_tasks ADD COLUMN revision INTEGER NOT NULL DEFAULT 0`,
}

// migrateBackfillOrderIndex renumbers sibling groups whose order_index
// values collide (rows written before ordering was tracked all carry 0).
// Siblings keep their creation order. Idempotent.
func migrateBackfillOrderIndex(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `
		SELECT project_id, COALESCE(parent_id, '')
		FROM wbs_tasks
		GROUP BY project_id, COALESCE(parent_id, '')
		HAVING COUNT(*) > COUNT(DISTINCT order_index)`)
	if err != nil {
		return fmt.Errorf("finding colliding siblings: %w", err)
	}
	type group struct{ projectID, parentID string }
	var groups []group
	for rows.Next() {
		var g group
		if err := rows.Scan(&g.projectID, &g.parentID); err != nil {
			rows.Close()
			return fmt.Errorf("scanning sibling group: %w", err)
		}
		groups = append(groups, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating sibling groups: %w", err)
	}

	for _, g := range groups {
		if err := renumberSiblings(ctx, db, g.projectID, g.parentID); err != nil {
			return fmt.Errorf("renumbering siblings in project %s: %w", g.projectID, err)
		}
	}
	return nil
}

func renumberSiblings(ctx context.Context, db *sql.DB, projectID, parentID string) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id FROM wbs_tasks
		WHERE project_id = ? AND COALESCE(parent_id, '') = ?
		ORDER BY order_index, created_at, id`, projectID, parentID)
	if err != nil {
		return fmt.Errorf("listing siblings: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()

	for i, id := range ids {
		if _, err := db.ExecContext(ctx, `UPDATE wbs_tasks SET order_index = ? WHERE id = ?`, i, id); err != nil {
			return fmt.Errorf("updating order_index: %w", err)
		}
	}
	return nil
}
