package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"profiles", "groups", "group_members", "projects", "project_favorites",
		"cost_management_shares", "wbs_tasks", "task_files", "kv_store",
	}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_group_members_user",
		"idx_projects_company",
		"idx_projects_owner",
		"idx_cost_shares_shared_with",
		"idx_wbs_tasks_project",
		"idx_wbs_tasks_parent",
		"idx_task_files_task",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_WBSTasksAddedColumns(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`PRAGMA table_info(wbs_tasks)`)
	require.NoError(t, err)
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notnull   int
			dflt      sql.NullString
			pk        int
		)
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk))
		cols[name] = true
	}
	require.NoError(t, rows.Err())
	assert.True(t, cols["assignee_id"])
	assert.True(t, cols["revision"])
}

func TestMigrate_ProgressCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, name, owner_id, created_at, updated_at)
		VALUES ('p1', 'P', 'u1', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO wbs_tasks (id, project_id, name, progress, created_at, updated_at)
		VALUES ('t1', 'p1', 'T', 101, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.Error(t, err)
}

func TestMigrate_BackfillOrderIndex(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, name, owner_id, created_at, updated_at)
		VALUES ('p1', 'P', 'u1', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	for _, row := range []struct{ id, created string }{
		{"b", "2025-01-02T00:00:00Z"},
		{"a", "2025-01-01T00:00:00Z"},
		{"c", "2025-01-03T00:00:00Z"},
	} {
		_, err := db.Exec(`INSERT INTO wbs_tasks (id, project_id, name, created_at, updated_at)
			VALUES (?, 'p1', ?, ?, ?)`, row.id, row.id, row.created, row.created)
		require.NoError(t, err)
	}

	require.NoError(t, migrateBackfillOrderIndex(db))

	rows, err := db.Query(`SELECT id FROM wbs_tasks ORDER BY order_index`)
	require.NoError(t, err)
	defer rows.Close()
	var got []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		got = append(got, id)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)

	// Second run has nothing to renumber.
	require.NoError(t, migrateBackfillOrderIndex(db))
}

func TestMigrate_CascadeDeletesSubtree(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO projects (id, name, owner_id, created_at, updated_at) VALUES ('p1', 'P', 'u1', 'x', 'x')`,
		`INSERT INTO wbs_tasks (id, project_id, name, created_at, updated_at) VALUES ('root', 'p1', 'R', 'x', 'x')`,
		`INSERT INTO wbs_tasks (id, project_id, parent_id, name, created_at, updated_at) VALUES ('child', 'p1', 'root', 'C', 'x', 'x')`,
		`INSERT INTO task_files (id, task_id, kind, name, uploaded_at) VALUES ('f1', 'child', 'attachment', 'a.pdf', 'x')`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}

	_, err := db.Exec(`DELETE FROM wbs_tasks WHERE id = 'root'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM wbs_tasks`).Scan(&n))
	assert.Equal(t, 0, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM task_files`).Scan(&n))
	assert.Equal(t, 0, n)
}
