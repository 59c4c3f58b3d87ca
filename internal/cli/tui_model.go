package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/wbsdesk/internal/cli/formatter"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/session"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// tuiModel is the root bubbletea Model. It owns a stack of views and
// routes sidebar navigation and storage events.
type tuiModel struct {
	state     *SharedState
	viewStack []View
	events    <-chan session.StorageEvent
	stop      func()
	status    string
	quitting  bool
}

func newTUIModel(ctx context.Context, app *App) *tuiModel {
	state := &SharedState{App: app, ctx: ctx}
	nav := session.NavigatorFunc(func(_ context.Context, dest string) { state.pendingNav = dest })
	state.Sidebar = session.New(ctx, app.SessionStore,
		session.WithHub(app.Hub),
		session.WithLogger(app.Logger),
		session.WithNavigator(nav),
	)
	events, stop := app.Hub.Subscribe(16)

	m := &tuiModel{state: state, events: events, stop: stop}
	m.viewStack = []View{newProjectsView(state)}
	if state.Sidebar.CurrentMode() == domain.ModeCurrentProject && state.Sidebar.SelectedProject() != nil {
		m.viewStack = append(m.viewStack, newTreeView(state))
	}
	return m
}

func (m *tuiModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *tuiModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m *tuiModel) waitForEvent() tea.Msg {
	ev, ok := <-m.events
	if !ok {
		return nil
	}
	return sidebarEventMsg{ev: ev}
}

func (m *tuiModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForEvent}
	if v := m.activeView(); v != nil {
		cmds = append(cmds, v.Init())
	}
	return tea.Batch(cmds...)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.status = ""
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case replaceViewMsg:
		m.status = ""
		m.setActiveView(msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		m.status = ""
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m.forward(refreshViewMsg{})

	case statusMsg:
		m.status = msg.text
		return m, nil

	case sidebarEventMsg:
		if msg.ev.Origin == m.state.Sidebar.Origin() {
			return m, m.waitForEvent
		}
		m.state.Sidebar.Sync(m.state.context())
		_, cmd := m.forward(refreshViewMsg{})
		if m.activeView().ID() == ViewProjects && m.state.Sidebar.CurrentMode() == domain.ModeCurrentProject &&
			m.state.Sidebar.SelectedProject() != nil {
			tree := newTreeView(m.state)
			m.viewStack = append(m.viewStack, tree)
			cmd = tea.Batch(cmd, tree.Init())
		}
		return m, tea.Batch(cmd, m.waitForEvent)

	}
	return m.forward(msg)
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	capturing := false
	if c, ok := m.activeView().(inputCapturer); ok {
		capturing = c.CapturesInput()
	}
	if !capturing && key.Matches(msg, keys.Quit) {
		return m.quit()
	}
	return m.forward(msg)
}

func (m *tuiModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.stop()
	return m, tea.Quit
}

// forward passes msg to the active view, then follows any navigation the
// sidebar requested while the view handled it.
func (m *tuiModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := m.activeView()
	if v == nil {
		return m, nil
	}
	updated, cmd := v.Update(msg)
	m.setActiveView(updated.(View))

	if dest := m.state.takeNavigation(); dest == session.DestinationProjectSummary {
		tree := newTreeView(m.state)
		m.viewStack = append(m.viewStack, tree)
		return m, tea.Batch(cmd, tree.Init())
	}
	return m, cmd
}

func (m *tuiModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	titles := make([]string, 0, len(m.viewStack))
	for _, v := range m.viewStack {
		titles = append(titles, v.Title())
	}
	b.WriteString(formatter.StyleHeader.Render("wbsdesk") + "  " + strings.Join(titles, formatter.Dim(" › ")))
	if c := m.state.Sidebar.SelectedCompany(); c != nil {
		b.WriteString("  " + formatter.StylePurple.Render("@"+c.Name))
	}
	b.WriteString("\n\n")

	if v := m.activeView(); v != nil {
		b.WriteString(v.View())
		if m.status != "" {
			b.WriteString("\n" + formatter.StyleYellow.Render(m.status))
		}
		b.WriteString("\n\n" + renderHelp(v.ShortHelp()))
	}
	return b.String()
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, formatter.Bold(h.Key)+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(parts, "  ")
}
