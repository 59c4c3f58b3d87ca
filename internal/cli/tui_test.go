package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/teatest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTUIDriver(t *testing.T, app *App) (*teatest.Driver, *tuiModel) {
	t.Helper()
	m := newTUIModel(context.Background(), app)
	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()
	t.Cleanup(m.stop)
	return d, m
}

func activeViewID(t *testing.T, d *teatest.Driver) ViewID {
	t.Helper()
	m, ok := d.Model.(*tuiModel)
	require.True(t, ok)
	return m.activeView().ID()
}

func TestTUI_StartsOnProjectList(t *testing.T) {
	app := testApp(t)
	require.NoError(t, app.Projects.Create(context.Background(), &domain.Project{Name: "Bridge"}))

	d, _ := newTUIDriver(t, app)

	assert.Equal(t, ViewProjects, activeViewID(t, d))
	d.Contains("Projects")
	d.Contains("Bridge")
}

func TestTUI_EmptyProjectList(t *testing.T) {
	app := testApp(t)

	d, _ := newTUIDriver(t, app)
	d.Contains("No projects yet.")
}

func TestTUI_EnterSwitchesToProjectMode(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	p := &domain.Project{Name: "Bridge"}
	require.NoError(t, app.Projects.Create(ctx, p))
	design := seedTask(t, app, p.ID, "Design", "")
	seedTask(t, app, p.ID, "Survey", design.ID)

	d, m := newTUIDriver(t, app)
	d.Press("enter")

	assert.Equal(t, ViewTree, activeViewID(t, d))
	assert.Equal(t, domain.ModeCurrentProject, m.state.Sidebar.CurrentMode())
	d.Contains("Projects › Bridge")
	d.Contains("Design")
	d.Contains("└─ ")
	d.Contains("Survey")
	d.Contains("1/2 tasks")

	// The CLI sees the same selection.
	app.Sidebar.Sync(ctx)
	require.NotNil(t, app.Sidebar.SelectedProject())
	assert.Equal(t, p.ID, app.Sidebar.SelectedProject().ID)
}

func TestTUI_ResumesSelectedProject(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Bridge")
	seedTask(t, app, p.ID, "Design", "")

	d, _ := newTUIDriver(t, app)

	assert.Equal(t, ViewTree, activeViewID(t, d))
	d.Contains("Design")
}

func TestTUI_EscFromTreeLeavesProjectMode(t *testing.T) {
	app := testApp(t)
	seedProject(t, app, "Bridge")

	d, m := newTUIDriver(t, app)
	require.Equal(t, ViewTree, activeViewID(t, d))

	d.Press("esc")
	assert.Equal(t, ViewProjects, activeViewID(t, d))
	assert.Equal(t, domain.ModeAllProjects, m.state.Sidebar.CurrentMode())
	assert.Nil(t, m.state.Sidebar.SelectedProject())
}

func TestTUI_FavoriteToggle(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	p := &domain.Project{Name: "Bridge"}
	require.NoError(t, app.Projects.Create(ctx, p))

	d, _ := newTUIDriver(t, app)
	d.Press("f")
	d.Contains("Bridge added to favorites.")
	d.Contains("★")

	fav, err := app.Projects.IsFavorite(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	d.Press("f")
	d.Contains("Bridge removed from favorites.")
}

func TestTUI_EditProgressFromDetail(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	p := seedProject(t, app, "Bridge")
	task := seedTask(t, app, p.ID, "Design", "")

	d, _ := newTUIDriver(t, app)
	d.Press("enter")
	require.Equal(t, ViewDetail, activeViewID(t, d))
	d.Contains("Design")

	d.Press("g")
	d.Contains("Edit Progress:")
	d.Press("ctrl+u")
	d.Type("75")
	d.Press("enter")
	d.Contains("Progress saved (revision 1).")

	got, err := app.Tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, got.Progress)
	assert.EqualValues(t, 1, got.Revision)
}

func TestTUI_InvalidDraftKeepsEditing(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	p := seedProject(t, app, "Bridge")
	task := seedTask(t, app, p.ID, "Design", "")

	d, m := newTUIDriver(t, app)
	d.Press("enter")
	d.Press("g")
	d.Press("ctrl+u")
	d.Type("150")
	d.Press("enter")

	d.Contains("outside 0-100")
	assert.True(t, m.activeView().(*detailView).CapturesInput())

	// q is text while editing.
	d.Press("q")
	assert.False(t, d.Quitting)

	d.Press("esc")
	assert.False(t, m.activeView().(*detailView).CapturesInput())

	got, err := app.Tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Progress)
	assert.EqualValues(t, 0, got.Revision)
}

func TestTUI_DescriptionKeptVerbatim(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	p := seedProject(t, app, "Bridge")
	long := "  " + strings.Repeat("Survey the east bank. ", 40) + " "
	task := &domain.Task{ProjectID: p.ID, Name: "Design", Description: long}
	require.NoError(t, app.Tasks.Create(ctx, task, ""))
	require.Greater(t, len(long), 500)

	d, _ := newTUIDriver(t, app)
	d.Press("enter")
	d.Press("d")
	d.Contains("Edit Description:")
	d.Press("enter")
	d.Contains("Description saved (revision 1).")

	got, err := app.Tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, long, got.Description)
}

func TestTUI_StaleSaveIsReported(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	p := seedProject(t, app, "Bridge")
	task := seedTask(t, app, p.ID, "Design", "")

	d, _ := newTUIDriver(t, app)
	d.Press("enter")
	require.Equal(t, ViewDetail, activeViewID(t, d))

	// Another view saves first.
	loaded, err := app.Tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	loaded.Name = "Renamed elsewhere"
	require.NoError(t, app.Tasks.Save(ctx, loaded, 1))

	d.Press("g")
	d.Press("ctrl+u")
	d.Type("30")
	d.Press("enter")
	d.Contains("Not saved: a newer revision is already stored.")

	got, err := app.Tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed elsewhere", got.Name)
	assert.Equal(t, 0, got.Progress)

	d.Press("r")
	d.Press("g")
	d.Press("ctrl+u")
	d.Type("30")
	d.Press("enter")
	d.Contains("Progress saved (revision 2).")
}

func TestTUI_StopReleasesEventWait(t *testing.T) {
	app := testApp(t)
	m := newTUIModel(context.Background(), app)

	done := make(chan tea.Msg, 1)
	go func() { done <- m.waitForEvent() }()
	m.stop()

	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("event wait still blocked after stop")
	}
	m.stop()
}

func TestTUI_EditNameThenBackRefreshesTree(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Bridge")
	seedTask(t, app, p.ID, "Design", "")

	d, _ := newTUIDriver(t, app)
	d.Press("enter")
	d.Press("e")
	d.Press("ctrl+u")
	d.Type("Concept design")
	d.Press("enter")

	d.Press("esc")
	require.Equal(t, ViewTree, activeViewID(t, d))
	d.Contains("Concept design")
}

func TestTUI_ParentKeyOpensParent(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Bridge")
	design := seedTask(t, app, p.ID, "Design", "")
	seedTask(t, app, p.ID, "Survey", design.ID)

	d, m := newTUIDriver(t, app)
	d.Press("down")
	d.Press("enter")
	d.Contains("Survey")

	d.Press("p")
	detail := m.activeView().(*detailView)
	assert.Equal(t, design.ID, detail.taskID)
	assert.Len(t, m.viewStack, 3, "parent replaces the child view")

	d.Press("p")
	d.Contains("This is a root task.")
}

func TestTUI_FollowsSelectionFromOtherSession(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	p := &domain.Project{Name: "Bridge"}
	require.NoError(t, app.Projects.Create(ctx, p))
	seedTask(t, app, p.ID, "Design", "")

	d, m := newTUIDriver(t, app)
	require.Equal(t, ViewProjects, activeViewID(t, d))

	// `wbsdesk mode project` from another command shares the hub.
	require.NoError(t, app.Sidebar.SwitchToProjectMode(ctx, p))
	d.Await(time.Second)

	assert.Equal(t, ViewTree, activeViewID(t, d))
	require.NotNil(t, m.state.Sidebar.SelectedProject())
	d.Contains("Design")

	require.NoError(t, app.Sidebar.SwitchToAllProjectsMode(ctx))
	d.Await(time.Second)
	assert.Equal(t, ViewProjects, activeViewID(t, d))
}

func TestTUI_Quit(t *testing.T) {
	app := testApp(t)

	d, _ := newTUIDriver(t, app)
	d.Press("q")
	assert.True(t, d.Quitting)
	assert.Empty(t, d.View())
}
