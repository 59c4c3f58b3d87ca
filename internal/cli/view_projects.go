package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbsdesk/internal/cli/formatter"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type projectsLoadedMsg struct {
	projects  []*domain.Project
	favorites map[string]bool
	err       error
}

// projectsView lists the projects visible to the user. Selecting one
// switches the sidebar into current-project mode.
type projectsView struct {
	state     *SharedState
	projects  []*domain.Project
	favorites map[string]bool
	cursor    int
	loaded    bool
	err       error
}

func newProjectsView(state *SharedState) *projectsView {
	return &projectsView{state: state}
}

func (v *projectsView) ID() ViewID    { return ViewProjects }
func (v *projectsView) Title() string { return "Projects" }

func (v *projectsView) ShortHelp() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Enter, keys.Favorite, keys.AllProjects, keys.Quit}
}

func (v *projectsView) Init() tea.Cmd { return v.load }

func (v *projectsView) load() tea.Msg {
	ctx := v.state.context()
	projects, err := v.state.App.Projects.List(ctx)
	if err != nil {
		return projectsLoadedMsg{err: err}
	}
	favs, err := v.state.App.Projects.ListFavorites(ctx)
	if err != nil {
		return projectsLoadedMsg{err: err}
	}
	set := make(map[string]bool, len(favs))
	for _, p := range favs {
		set[p.ID] = true
	}
	return projectsLoadedMsg{projects: projects, favorites: set}
}

func (v *projectsView) selected() *domain.Project {
	if v.cursor < 0 || v.cursor >= len(v.projects) {
		return nil
	}
	return v.projects[v.cursor]
}

func (v *projectsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		v.loaded = true
		v.err = msg.err
		v.projects = msg.projects
		v.favorites = msg.favorites
		v.focusSelected()
		return v, nil

	case refreshViewMsg:
		return v, v.load

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, keys.Down):
			if v.cursor < len(v.projects)-1 {
				v.cursor++
			}
		case key.Matches(msg, keys.Enter):
			p := v.selected()
			if p == nil {
				return v, nil
			}
			if err := v.state.Sidebar.SwitchToProjectMode(v.state.context(), p); err != nil {
				return v, setStatus(err.Error())
			}
		case key.Matches(msg, keys.Favorite):
			return v, v.toggleFavorite()
		case key.Matches(msg, keys.AllProjects):
			if err := v.state.Sidebar.SwitchToAllProjectsMode(v.state.context()); err != nil {
				return v, setStatus(err.Error())
			}
			return v, setStatus("Showing all projects.")
		case key.Matches(msg, keys.Refresh):
			return v, v.load
		}
	}
	return v, nil
}

func (v *projectsView) toggleFavorite() tea.Cmd {
	p := v.selected()
	if p == nil {
		return nil
	}
	on, err := v.state.App.Projects.ToggleFavorite(v.state.context(), p.ID)
	if err != nil {
		return setStatus(err.Error())
	}
	if v.favorites == nil {
		v.favorites = map[string]bool{}
	}
	v.favorites[p.ID] = on
	if on {
		return setStatus(fmt.Sprintf("%s added to favorites.", p.Name))
	}
	return setStatus(fmt.Sprintf("%s removed from favorites.", p.Name))
}

// focusSelected moves the cursor onto the sidebar's project, if listed.
func (v *projectsView) focusSelected() {
	if sel := v.state.Sidebar.SelectedProject(); sel != nil {
		for i, p := range v.projects {
			if p.ID == sel.ID {
				v.cursor = i
				return
			}
		}
	}
	if v.cursor >= len(v.projects) {
		v.cursor = max(len(v.projects)-1, 0)
	}
}

func (v *projectsView) View() string {
	if v.err != nil {
		return formatter.StyleRed.Render("Error: " + v.err.Error())
	}
	if !v.loaded {
		return formatter.Dim("Loading projects...")
	}
	if len(v.projects) == 0 {
		return formatter.Dim("No projects yet. Create one with `wbsdesk project add`.")
	}

	var sel string
	if p := v.state.Sidebar.SelectedProject(); p != nil {
		sel = p.ID
	}
	var b strings.Builder
	for i, p := range v.projects {
		cursor := "  "
		if i == v.cursor {
			cursor = formatter.StyleBlue.Render("> ")
		}
		star := " "
		if v.favorites[p.ID] {
			star = formatter.StyleYellow.Render("★")
		}
		name := p.Name
		if p.ID == sel {
			name = formatter.StyleSelected.Render(name)
		}
		fmt.Fprintf(&b, "%s%s %s  %s  %s\n", cursor, star,
			formatter.Dim(p.DisplayID()), name, formatter.ProjectStatusPill(p.Status))
	}
	return strings.TrimRight(b.String(), "\n")
}
