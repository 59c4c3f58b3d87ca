package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/testutil"
	"github.com/alexanderramin/wbsdesk/internal/wbs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTaskRepo(t *testing.T) (*SQLiteTaskRepo, *domain.Project) {
	t.Helper()
	database := testutil.NewTestDB(t)
	p := testutil.NewTestProject("Bridge", "u-1")
	require.NoError(t, NewSQLiteProjectRepo(database).Create(context.Background(), p))
	return NewSQLiteTaskRepo(database), p
}

func TestTaskRepo_CreateAndGetByID(t *testing.T) {
	repo, p := setupTaskRepo(t)
	ctx := context.Background()

	task := testutil.NewTestTask(p.ID, "Foundation",
		testutil.WithDates("2025-03-01", "2025-03-20"),
		testutil.WithAssignee("m-7", "Park"),
		testutil.WithTaskStatus(domain.TaskInProgress),
		testutil.WithProgress(40),
		testutil.WithAttachment("survey.pdf"),
		testutil.WithAttachment("soil.xlsx"),
		testutil.WithDeliverable("report.docx"),
	)
	task.Description = "pour and cure"
	require.NoError(t, repo.Create(ctx, task, "", 0))

	row, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, row.ParentID)
	got := row.Task
	assert.Equal(t, "Foundation", got.Name)
	assert.Equal(t, "2025-03-01", got.StartDate)
	assert.Equal(t, "2025-03-20", got.EndDate)
	assert.Equal(t, "Park", got.Assignee)
	assert.Equal(t, "m-7", got.AssigneeID)
	assert.Equal(t, domain.TaskInProgress, got.Status)
	assert.Equal(t, 40, got.Progress)
	assert.Equal(t, "pour and cure", got.Description)
	assert.Equal(t, task.Attachments, got.Attachments)
	assert.Equal(t, task.Deliverables, got.Deliverables)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepo_ListByProjectBuildsForest(t *testing.T) {
	repo, p := setupTaskRepo(t)
	ctx := context.Background()

	t1 := testutil.NewTestTask(p.ID, "Design", testutil.WithTaskID("t1"))
	t2 := testutil.NewTestTask(p.ID, "Build", testutil.WithTaskID("t2"))
	t11 := testutil.NewTestTask(p.ID, "Survey", testutil.WithTaskID("t1-1"), testutil.WithAttachment("map.png"))
	t12 := testutil.NewTestTask(p.ID, "Drawings", testutil.WithTaskID("t1-2"))

	require.NoError(t, repo.Create(ctx, t2, "", 1))
	require.NoError(t, repo.Create(ctx, t1, "", 0))
	require.NoError(t, repo.Create(ctx, t12, "t1", 1))
	require.NoError(t, repo.Create(ctx, t11, "t1", 0))

	rows, err := repo.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	forest := wbs.BuildForest(rows)
	require.Len(t, forest, 2)
	assert.Equal(t, "t1", forest[0].ID)
	assert.Equal(t, "t2", forest[1].ID)
	require.Len(t, forest[0].Children, 2)
	assert.Equal(t, "t1-1", forest[0].Children[0].ID)
	assert.Equal(t, 2, forest[0].Children[0].Level)
	assert.Len(t, forest[0].Children[0].Attachments, 1)

	parent, ok := wbs.FindParentTask("t1-2", forest)
	require.True(t, ok)
	assert.Equal(t, "t1", parent.ID)
}

func TestTaskRepo_UpdateRevisionGuard(t *testing.T) {
	repo, p := setupTaskRepo(t)
	ctx := context.Background()

	task := testutil.NewTestTask(p.ID, "Design")
	require.NoError(t, repo.Create(ctx, task, "", 0))

	newer := task.Clone()
	newer.Name = "Detailed design"
	newer.Revision = 2
	require.NoError(t, repo.Update(ctx, newer))

	stale := task.Clone()
	stale.Name = "Stale name"
	stale.Revision = 1
	err := repo.Update(ctx, stale)
	require.ErrorIs(t, err, ErrRevisionConflict)

	same := task.Clone()
	same.Revision = 2
	require.ErrorIs(t, repo.Update(ctx, same), ErrRevisionConflict)

	row, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Detailed design", row.Task.Name)
	assert.Equal(t, int64(2), row.Task.Revision)

	ghost := testutil.NewTestTask(p.ID, "Ghost")
	ghost.Revision = 1
	assert.ErrorIs(t, repo.Update(ctx, ghost), ErrNotFound)
}

func TestTaskRepo_ReplaceFiles(t *testing.T) {
	repo, p := setupTaskRepo(t)
	ctx := context.Background()

	task := testutil.NewTestTask(p.ID, "Design",
		testutil.WithAttachment("a.pdf"),
		testutil.WithDeliverable("d.pdf"))
	require.NoError(t, repo.Create(ctx, task, "", 0))

	b := testutil.NewTestFile("b.pdf")
	c := testutil.NewTestFile("c.pdf")
	require.NoError(t, repo.ReplaceFiles(ctx, task.ID, domain.FileAttachment, []domain.AttachmentFile{c, b}))

	row, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, row.Task.Attachments, 2)
	assert.Equal(t, "c.pdf", row.Task.Attachments[0].Name)
	assert.Equal(t, "b.pdf", row.Task.Attachments[1].Name)
	require.Len(t, row.Task.Deliverables, 1, "deliverables untouched")

	require.NoError(t, repo.ReplaceFiles(ctx, task.ID, domain.FileDeliverable, nil))
	row, err = repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, row.Task.Deliverables)

	assert.Error(t, repo.ReplaceFiles(ctx, task.ID, "other", nil))
}

func TestTaskRepo_MoveAndOrderIndex(t *testing.T) {
	repo, p := setupTaskRepo(t)
	ctx := context.Background()

	next, err := repo.NextOrderIndex(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	a := testutil.NewTestTask(p.ID, "A", testutil.WithTaskID("a"))
	b := testutil.NewTestTask(p.ID, "B", testutil.WithTaskID("b"))
	require.NoError(t, repo.Create(ctx, a, "", 0))
	require.NoError(t, repo.Create(ctx, b, "", 1))

	next, err = repo.NextOrderIndex(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, next)
	next, err = repo.NextOrderIndex(ctx, p.ID, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	require.NoError(t, repo.Move(ctx, "b", "a", 0))
	row, err := repo.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "a", row.ParentID)

	require.NoError(t, repo.Move(ctx, "b", "", 5))
	row, err = repo.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, row.ParentID)
	assert.Equal(t, 5, row.OrderIndex)

	assert.ErrorIs(t, repo.Move(ctx, "missing", "", 0), ErrNotFound)
}

func TestTaskRepo_DeleteCascadesSubtree(t *testing.T) {
	repo, p := setupTaskRepo(t)
	ctx := context.Background()

	root := testutil.NewTestTask(p.ID, "Root", testutil.WithTaskID("r"))
	child := testutil.NewTestTask(p.ID, "Child", testutil.WithTaskID("c"), testutil.WithAttachment("x.pdf"))
	grandchild := testutil.NewTestTask(p.ID, "Grandchild", testutil.WithTaskID("g"))
	other := testutil.NewTestTask(p.ID, "Other", testutil.WithTaskID("o"))
	require.NoError(t, repo.Create(ctx, root, "", 0))
	require.NoError(t, repo.Create(ctx, child, "r", 0))
	require.NoError(t, repo.Create(ctx, grandchild, "c", 0))
	require.NoError(t, repo.Create(ctx, other, "", 1))

	require.NoError(t, repo.Delete(ctx, "r"))

	rows, err := repo.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "o", rows[0].Task.ID)

	assert.ErrorIs(t, repo.Delete(ctx, "r"), ErrNotFound)
}

func TestTaskRepo_RejectsOutOfRangeProgress(t *testing.T) {
	repo, p := setupTaskRepo(t)
	task := testutil.NewTestTask(p.ID, "Bad", testutil.WithProgress(150))
	assert.Error(t, repo.Create(context.Background(), task, "", 0))
}
