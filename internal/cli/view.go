package cli

import (
	"context"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/session"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewProjects ViewID = iota
	ViewTree
	ViewDetail
)

// View is the interface that all TUI views implement.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment
}

// inputCapturer is implemented by views that take raw keystrokes, such
// as the detail view while a field is being edited. The root model then
// leaves q and esc to the view.
type inputCapturer interface {
	CapturesInput() bool
}

// SharedState is shared by all views of one TUI session.
type SharedState struct {
	App *App
	// Sidebar is owned by the TUI. It shares the App's store and hub, so
	// `wbsdesk mode` changes made elsewhere reach it through Sync.
	Sidebar *session.Sidebar

	// Forest is the last loaded tree of the selected project.
	Forest []*domain.Task

	Width  int
	Height int

	ctx        context.Context
	pendingNav string
}

func (s *SharedState) context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// takeNavigation returns and clears the destination requested by the
// sidebar.
func (s *SharedState) takeNavigation() string {
	dest := s.pendingNav
	s.pendingNav = ""
	return dest
}

// ContentHeight is the height left after the header (2 lines) and the
// help bar (2 lines).
func (s *SharedState) ContentHeight() int {
	if h := s.Height - 4; h > 0 {
		return h
	}
	return 1
}

type pushViewMsg struct{ view View }

type popViewMsg struct{}

type replaceViewMsg struct{ view View }

type refreshViewMsg struct{}

type sidebarEventMsg struct{ ev session.StorageEvent }

// statusMsg sets the one-line message under the content.
type statusMsg struct{ text string }

func pushView(v View) tea.Cmd    { return func() tea.Msg { return pushViewMsg{view: v} } }
func popView() tea.Msg           { return popViewMsg{} }
func replaceView(v View) tea.Cmd { return func() tea.Msg { return replaceViewMsg{view: v} } }
func setStatus(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// keys holds the bindings shared by the views.
var keys = struct {
	Up, Down, Enter, Back, Quit, Refresh   key.Binding
	Favorite, AllProjects, Parent          key.Binding
	EditName, EditStatus, EditProgress     key.Binding
	EditStart, EditEnd, EditAssignee, Desc key.Binding
}{
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Favorite:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
	AllProjects:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all projects")),
	Parent:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "parent")),
	EditName:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "name")),
	EditStatus:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
	EditProgress: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "progress")),
	EditStart:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "start")),
	EditEnd:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "end")),
	EditAssignee: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "assignee")),
	Desc:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "description")),
}
