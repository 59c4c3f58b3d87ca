package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepo_CreateGetList(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProfileRepo(database)
	ctx := context.Background()

	kim := testutil.NewTestProfile("kim")
	lee := testutil.NewTestProfile("lee")
	require.NoError(t, repo.Create(ctx, lee))
	require.NoError(t, repo.Create(ctx, kim))

	got, err := repo.GetByID(ctx, kim.ID)
	require.NoError(t, err)
	assert.Equal(t, *kim, *got)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "kim", all[0].DisplayName)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompanyRepo_CRUD(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteCompanyRepo(database)
	ctx := context.Background()

	c := testutil.NewTestCompany("Hanbit", "u-1")
	c.Description = "civil works"
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, *c, *got)

	c.Name = "Hanbit E&C"
	require.NoError(t, repo.Update(ctx, c))
	got, err = repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hanbit E&C", got.Name)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), ErrNotFound)
}

func TestCompanyRepo_ListForUser_ActiveMembershipOnly(t *testing.T) {
	database := testutil.NewTestDB(t)
	companies := NewSQLiteCompanyRepo(database)
	members := NewSQLiteMemberRepo(database)
	ctx := context.Background()

	a := testutil.NewTestCompany("Alpha", "u-1")
	b := testutil.NewTestCompany("Beta", "u-2")
	require.NoError(t, companies.Create(ctx, a))
	require.NoError(t, companies.Create(ctx, b))

	require.NoError(t, members.Add(ctx, testutil.NewTestMember(a.ID, "u-1", domain.RoleOwner)))
	pending := testutil.NewTestMember(b.ID, "u-1", domain.RoleMember)
	pending.Status = domain.MemberPending
	require.NoError(t, members.Add(ctx, pending))

	got, err := companies.ListForUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0].Name)

	none, err := companies.ListForUser(ctx, "stranger")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemberRepo_LifecycleAndOwnerCount(t *testing.T) {
	database := testutil.NewTestDB(t)
	companies := NewSQLiteCompanyRepo(database)
	repo := NewSQLiteMemberRepo(database)
	ctx := context.Background()

	c := testutil.NewTestCompany("Alpha", "u-1")
	require.NoError(t, companies.Create(ctx, c))

	require.NoError(t, repo.Add(ctx, testutil.NewTestMember(c.ID, "u-3", domain.RoleMember)))
	require.NoError(t, repo.Add(ctx, testutil.NewTestMember(c.ID, "u-1", domain.RoleOwner)))
	require.NoError(t, repo.Add(ctx, testutil.NewTestMember(c.ID, "u-2", domain.RoleAdmin)))

	list, err := repo.ListByGroup(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"u-1", "u-2", "u-3"}, []string{list[0].UserID, list[1].UserID, list[2].UserID})

	n, err := repo.CountActiveOwners(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	m, err := repo.Get(ctx, c.ID, "u-2")
	require.NoError(t, err)
	m.Role = domain.RoleOwner
	require.NoError(t, repo.Update(ctx, m))
	n, err = repo.CountActiveOwners(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.Remove(ctx, c.ID, "u-3"))
	_, err = repo.Get(ctx, c.ID, "u-3")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Remove(ctx, c.ID, "u-3"), ErrNotFound)
}

func TestMemberRepo_DuplicateRejected(t *testing.T) {
	database := testutil.NewTestDB(t)
	companies := NewSQLiteCompanyRepo(database)
	repo := NewSQLiteMemberRepo(database)
	ctx := context.Background()

	c := testutil.NewTestCompany("Alpha", "u-1")
	require.NoError(t, companies.Create(ctx, c))
	require.NoError(t, repo.Add(ctx, testutil.NewTestMember(c.ID, "u-1", domain.RoleOwner)))
	assert.Error(t, repo.Add(ctx, testutil.NewTestMember(c.ID, "u-1", domain.RoleMember)))
}

func TestClassify_MissingTable(t *testing.T) {
	database := testutil.NewTestDB(t)
	_, err := database.Exec(`DROP TABLE group_members`)
	require.NoError(t, err)

	_, err = NewSQLiteMemberRepo(database).ListByGroup(context.Background(), "g")
	assert.ErrorIs(t, err, ErrRelationMissing)
	assert.Contains(t, err.Error(), "group_members")
}
