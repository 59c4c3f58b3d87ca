package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectValidate_RequiresName(t *testing.T) {
	p := &Project{Name: "  "}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestProjectValidate_RejectsUnknownStatus(t *testing.T) {
	p := &Project{Name: "Site", Status: "paused"}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paused")
}

func TestProjectValidate_EndBeforeStart(t *testing.T) {
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	p := &Project{Name: "Site", StartDate: &start, EndDate: &end}
	require.Error(t, p.Validate())
}

func TestProjectValidate_OK(t *testing.T) {
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	p := &Project{Name: "Site", Status: ProjectActive, StartDate: &start, EndDate: &end}
	assert.NoError(t, p.Validate())
}

func TestDisplayID(t *testing.T) {
	p := &Project{ID: "550e8400-e29b-41d4-a716-446655440000"}
	assert.Equal(t, "550e8400", p.DisplayID())

	c := &Company{ID: "abc"}
	assert.Equal(t, "abc", c.DisplayID())
}

func TestCostShareAllows(t *testing.T) {
	view := &CostShare{PermissionType: PermissionView}
	edit := &CostShare{PermissionType: PermissionEdit}

	assert.True(t, view.Allows(PermissionView))
	assert.False(t, view.Allows(PermissionEdit))
	assert.True(t, edit.Allows(PermissionView))
	assert.True(t, edit.Allows(PermissionEdit))
}

func TestGroupMemberCanManage(t *testing.T) {
	cases := []struct {
		role   MemberRole
		status MemberStatus
		want   bool
	}{
		{RoleOwner, MemberActive, true},
		{RoleAdmin, MemberActive, true},
		{RoleMember, MemberActive, false},
		{RoleOwner, MemberSuspended, false},
		{RoleAdmin, MemberPending, false},
	}
	for _, tc := range cases {
		m := &GroupMember{Role: tc.role, Status: tc.status}
		assert.Equal(t, tc.want, m.CanManage(), "role=%s status=%s", tc.role, tc.status)
	}
}

func TestProfileName_Fallbacks(t *testing.T) {
	assert.Equal(t, "Kim", (&Profile{DisplayName: "Kim", Email: "kim@example.com"}).Name())
	assert.Equal(t, "kim@example.com", (&Profile{Email: "kim@example.com"}).Name())
	assert.Equal(t, "12345678", (&Profile{ID: "123456789abc"}).Name())
}
