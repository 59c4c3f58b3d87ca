package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	database := testutil.NewTestDB(t)
	companies := NewSQLiteCompanyRepo(database)
	repo := NewSQLiteProjectRepo(database)
	ctx := context.Background()

	c := testutil.NewTestCompany("Alpha", "u-1")
	require.NoError(t, companies.Create(ctx, c))

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	p := testutil.NewTestProject("Bridge", "u-1",
		testutil.WithCompany(c.ID),
		testutil.WithProjectDates(start, end),
		testutil.WithProjectStatus(domain.ProjectPlanning))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.CompanyID)
	assert.Equal(t, domain.ProjectPlanning, got.Status)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2025-03-01", got.StartDate.Format(domain.DateLayout))
	require.NotNil(t, got.EndDate)
	assert.Equal(t, "2025-09-30", got.EndDate.Format(domain.DateLayout))
	assert.Equal(t, p.CreatedAt, got.CreatedAt)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_ListVisible(t *testing.T) {
	database := testutil.NewTestDB(t)
	companies := NewSQLiteCompanyRepo(database)
	members := NewSQLiteMemberRepo(database)
	shares := NewSQLiteCostShareRepo(database)
	repo := NewSQLiteProjectRepo(database)
	ctx := context.Background()

	c := testutil.NewTestCompany("Alpha", "boss")
	require.NoError(t, companies.Create(ctx, c))
	require.NoError(t, members.Add(ctx, testutil.NewTestMember(c.ID, "me", domain.RoleMember)))

	own := testutil.NewTestProject("Own", "me")
	viaCompany := testutil.NewTestProject("Company", "boss", testutil.WithCompany(c.ID))
	viaShare := testutil.NewTestProject("Shared", "other")
	hidden := testutil.NewTestProject("Hidden", "other")
	for _, p := range []*domain.Project{own, viaCompany, viaShare, hidden} {
		require.NoError(t, repo.Create(ctx, p))
	}
	require.NoError(t, shares.Upsert(ctx, &domain.CostShare{
		ID: "s1", ProjectID: viaShare.ID, OwnerID: "other", SharedWithID: "me",
		PermissionType: domain.PermissionView, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	got, err := repo.ListVisible(ctx, "me")
	require.NoError(t, err)
	var names []string
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Own", "Company", "Shared"}, names)

	byCompany, err := repo.ListByCompany(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, byCompany, 1)
	assert.Equal(t, "Company", byCompany[0].Name)
}

func TestProjectRepo_UpdateAndDeleteCascades(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(database)
	tasks := NewSQLiteTaskRepo(database)
	favs := NewSQLiteFavoriteRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Bridge", "u-1")
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, tasks.Create(ctx, testutil.NewTestTask(p.ID, "Design"), "", 0))
	require.NoError(t, favs.Add(ctx, &domain.ProjectFavorite{UserID: "u-1", ProjectID: p.ID, CreatedAt: time.Now()}))

	p.Name = "Bridge phase 2"
	p.Status = domain.ProjectOnHold
	require.NoError(t, repo.Update(ctx, p))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bridge phase 2", got.Name)
	assert.Equal(t, domain.ProjectOnHold, got.Status)

	require.NoError(t, repo.Delete(ctx, p.ID))
	rows, err := tasks.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
	fav, err := favs.Exists(ctx, "u-1", p.ID)
	require.NoError(t, err)
	assert.False(t, fav)

	assert.ErrorIs(t, repo.Update(ctx, p), ErrNotFound)
}

func TestProjectRepo_CompanyDeleteDetachesProjects(t *testing.T) {
	database := testutil.NewTestDB(t)
	companies := NewSQLiteCompanyRepo(database)
	repo := NewSQLiteProjectRepo(database)
	ctx := context.Background()

	c := testutil.NewTestCompany("Alpha", "u-1")
	require.NoError(t, companies.Create(ctx, c))
	p := testutil.NewTestProject("Bridge", "u-1", testutil.WithCompany(c.ID))
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, companies.Delete(ctx, c.ID))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CompanyID)
}

func TestFavoriteRepo_AddIsIdempotent(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(database)
	repo := NewSQLiteFavoriteRepo(database)
	ctx := context.Background()

	older := testutil.NewTestProject("Older", "u-1")
	newer := testutil.NewTestProject("Newer", "u-1")
	require.NoError(t, projects.Create(ctx, older))
	require.NoError(t, projects.Create(ctx, newer))

	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Add(ctx, &domain.ProjectFavorite{UserID: "u-1", ProjectID: older.ID, CreatedAt: t0}))
	require.NoError(t, repo.Add(ctx, &domain.ProjectFavorite{UserID: "u-1", ProjectID: newer.ID, CreatedAt: t0.Add(time.Hour)}))
	require.NoError(t, repo.Add(ctx, &domain.ProjectFavorite{UserID: "u-1", ProjectID: older.ID, CreatedAt: t0}))

	got, err := repo.ListProjects(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Newer", got[0].Name)

	require.NoError(t, repo.Remove(ctx, "u-1", newer.ID))
	ok, err := repo.Exists(ctx, "u-1", newer.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCostShareRepo_UpsertKeepsIdentity(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(database)
	repo := NewSQLiteCostShareRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Bridge", "owner")
	require.NoError(t, projects.Create(ctx, p))

	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := &domain.CostShare{ID: "s1", ProjectID: p.ID, OwnerID: "owner", SharedWithID: "u-2",
		PermissionType: domain.PermissionView, CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, repo.Upsert(ctx, first))

	second := &domain.CostShare{ID: "s2", ProjectID: p.ID, OwnerID: "owner", SharedWithID: "u-2",
		PermissionType: domain.PermissionEdit, CreatedAt: t0.Add(time.Hour), UpdatedAt: t0.Add(time.Hour)}
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.Get(ctx, p.ID, "u-2")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, domain.PermissionEdit, got.PermissionType)
	assert.Equal(t, t0, got.CreatedAt)
	assert.Equal(t, t0.Add(time.Hour), got.UpdatedAt)

	byProject, err := repo.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, byProject, 1)
	shared, err := repo.ListSharedWith(ctx, "u-2")
	require.NoError(t, err)
	assert.Len(t, shared, 1)

	require.NoError(t, repo.Delete(ctx, p.ID, "u-2"))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID, "u-2"), ErrNotFound)
}

func TestCostShareRepo_RejectsUnknownPermission(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(database)
	repo := NewSQLiteCostShareRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Bridge", "owner")
	require.NoError(t, projects.Create(ctx, p))
	err := repo.Upsert(ctx, &domain.CostShare{ID: "s1", ProjectID: p.ID, OwnerID: "owner",
		SharedWithID: "u-2", PermissionType: "admin", CreatedAt: time.Now(), UpdatedAt: time.Now()})
	assert.Error(t, err)
}
