package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbsdesk/internal/cli/formatter"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type forestLoadedMsg struct {
	projectID string
	forest    []*domain.Task
	err       error
}

// treeView shows the WBS of the sidebar's selected project.
type treeView struct {
	state     *SharedState
	projectID string
	name      string
	items     []formatter.TreeItem
	cursor    int
	offset    int
	loaded    bool
	err       error
}

func newTreeView(state *SharedState) *treeView {
	v := &treeView{state: state}
	if p := state.Sidebar.SelectedProject(); p != nil {
		v.projectID = p.ID
		v.name = p.Name
	}
	return v
}

func (v *treeView) ID() ViewID { return ViewTree }

func (v *treeView) Title() string {
	if v.name == "" {
		return "Tasks"
	}
	return v.name
}

func (v *treeView) ShortHelp() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Enter, keys.Refresh, keys.Back, keys.Quit}
}

func (v *treeView) Init() tea.Cmd { return v.load }

func (v *treeView) load() tea.Msg {
	forest, err := v.state.App.Tasks.LoadForest(v.state.context(), v.projectID)
	return forestLoadedMsg{projectID: v.projectID, forest: forest, err: err}
}

func (v *treeView) selected() *domain.Task {
	if v.cursor < 0 || v.cursor >= len(v.items) {
		return nil
	}
	return v.items[v.cursor].Task
}

func (v *treeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case forestLoadedMsg:
		if msg.projectID != v.projectID {
			return v, nil
		}
		v.loaded = true
		v.err = msg.err
		v.state.Forest = msg.forest
		v.items = formatter.TreeItems(msg.forest)
		if v.cursor >= len(v.items) {
			v.cursor = max(len(v.items)-1, 0)
		}
		return v, nil

	case refreshViewMsg:
		// The selection may have changed under us in another session.
		p := v.state.Sidebar.SelectedProject()
		if p == nil || v.state.Sidebar.CurrentMode() != domain.ModeCurrentProject {
			return v, popView
		}
		if p.ID != v.projectID {
			v.projectID, v.name, v.cursor, v.offset = p.ID, p.Name, 0, 0
		}
		return v, v.load

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, keys.Down):
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if t := v.selected(); t != nil {
				return v, pushView(newDetailView(v.state, t.ID))
			}
		case key.Matches(msg, keys.Refresh):
			return v, v.load
		case key.Matches(msg, keys.Back):
			if err := v.state.Sidebar.SwitchToAllProjectsMode(v.state.context()); err != nil {
				return v, setStatus(err.Error())
			}
			return v, popView
		}
	}
	return v, nil
}

// scroll keeps the cursor inside the visible window.
func (v *treeView) scroll(height int) {
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+height {
		v.offset = v.cursor - height + 1
	}
}

func (v *treeView) View() string {
	if v.err != nil {
		return formatter.StyleRed.Render("Error: " + v.err.Error())
	}
	if !v.loaded {
		return formatter.Dim("Loading tasks...")
	}
	if len(v.items) == 0 {
		return formatter.Dim("No tasks yet.")
	}

	height := v.state.ContentHeight() - 2
	if v.state.Height == 0 || height < 1 {
		height = len(v.items)
	}
	v.scroll(height)
	end := min(v.offset+height, len(v.items))

	var b strings.Builder
	for i := v.offset; i < end; i++ {
		it := v.items[i]
		cursor := "  "
		name := it.Task.Name
		if i == v.cursor {
			cursor = formatter.StyleBlue.Render("> ")
			name = formatter.StyleSelected.Render(name)
		}
		fmt.Fprintf(&b, "%s%s%s %s  %s\n", cursor, formatter.Dim(it.Prefix),
			formatter.TaskStatusStyle(it.Task.Status).Render(formatter.TaskStatusIcon(it.Task.Status)),
			name, formatter.RenderCompactBar(it.Task.Progress, 10))
	}
	fmt.Fprintf(&b, "\n%s", formatter.Dim(fmt.Sprintf("%d/%d tasks", v.cursor+1, len(v.items))))
	return b.String()
}
