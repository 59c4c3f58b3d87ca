package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/wbsdesk/internal/cli/formatter"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/editor"
	"github.com/alexanderramin/wbsdesk/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type taskLoadedMsg struct {
	task   *domain.Task
	parent *domain.Task
	err    error
}

// detailView shows one task and edits its fields in place, one at a time.
type detailView struct {
	state  *SharedState
	taskID string
	parent *domain.Task
	ed     *editor.Editor
	input  textinput.Model
	errMsg string
	err    error
}

// fieldKeys maps each edit binding to the field it opens.
var fieldKeys = []struct {
	binding *key.Binding
	field   editor.Field
}{
	{&keys.EditName, editor.FieldName},
	{&keys.EditStatus, editor.FieldStatus},
	{&keys.EditProgress, editor.FieldProgress},
	{&keys.EditStart, editor.FieldStartDate},
	{&keys.EditEnd, editor.FieldEndDate},
	{&keys.EditAssignee, editor.FieldAssignee},
	{&keys.Desc, editor.FieldDescription},
}

func newDetailView(state *SharedState, taskID string) *detailView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	return &detailView{state: state, taskID: taskID, input: ti}
}

func (v *detailView) ID() ViewID { return ViewDetail }

func (v *detailView) Title() string {
	if v.ed != nil && v.ed.Task() != nil {
		return v.ed.Task().Name
	}
	return "Task"
}

func (v *detailView) ShortHelp() []key.Binding {
	if v.CapturesInput() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		keys.EditName, keys.EditStatus, keys.EditProgress, keys.EditStart, keys.EditEnd,
		keys.EditAssignee, keys.Desc, keys.Parent, keys.Refresh, keys.Back,
	}
}

// CapturesInput reports whether a field is being edited.
func (v *detailView) CapturesInput() bool {
	return v.ed != nil && v.ed.State() == editor.Editing
}

func (v *detailView) Init() tea.Cmd { return v.load }

func (v *detailView) load() tea.Msg {
	ctx := v.state.context()
	t, err := v.state.App.Tasks.Get(ctx, v.taskID)
	if err != nil {
		return taskLoadedMsg{err: err}
	}
	parent, _, err := v.state.App.Tasks.Parent(ctx, v.taskID)
	if err != nil {
		return taskLoadedMsg{err: err}
	}
	return taskLoadedMsg{task: t, parent: parent}
}

func (v *detailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskLoadedMsg:
		v.err = msg.err
		if msg.err != nil {
			return v, nil
		}
		v.parent = msg.parent
		if v.ed == nil {
			v.ed = editor.New(msg.task, v.state.App.Tasks.Save)
		} else {
			v.ed.Reset(msg.task)
		}
		v.input.Blur()
		v.errMsg = ""
		return v, nil

	case refreshViewMsg:
		if v.CapturesInput() {
			return v, nil
		}
		return v, v.load

	case tea.KeyMsg:
		if v.ed == nil {
			if key.Matches(msg, keys.Back) {
				return v, popView
			}
			return v, nil
		}
		if v.CapturesInput() {
			return v.updateEditing(msg)
		}
		return v.updateViewing(msg)
	}

	if v.CapturesInput() {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *detailView) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for _, fk := range fieldKeys {
		if key.Matches(msg, *fk.binding) {
			return v, v.begin(fk.field)
		}
	}
	switch {
	case key.Matches(msg, keys.Parent):
		if v.parent == nil {
			return v, setStatus("This is a root task.")
		}
		return v, replaceView(newDetailView(v.state, v.parent.ID))
	case key.Matches(msg, keys.Refresh):
		return v, v.load
	case key.Matches(msg, keys.Back):
		return v, popView
	}
	return v, nil
}

func (v *detailView) begin(f editor.Field) tea.Cmd {
	if err := v.ed.Begin(f); err != nil {
		return setStatus(err.Error())
	}
	v.errMsg = ""
	v.input.SetValue(v.ed.Draft())
	v.input.CursorEnd()
	return v.input.Focus()
}

func (v *detailView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.ed.Cancel()
		v.input.Blur()
		v.errMsg = ""
		return v, nil

	case tea.KeyEnter:
		field := v.ed.Field()
		if err := v.ed.SetDraft(draftValue(field, v.input.Value())); err != nil {
			return v, setStatus(err.Error())
		}
		err := v.ed.Save(v.state.context())
		if v.ed.State() == editor.Editing {
			// Rejected draft: keep the input open.
			v.errMsg = err.Error()
			return v, nil
		}
		v.input.Blur()
		v.errMsg = ""
		if err != nil {
			return v, setStatus(saveFailure(err))
		}
		return v, setStatus(fmt.Sprintf("%s saved (revision %d).", field.Label(), v.ed.Revision()))
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// draftValue trims typed input, except for descriptions which are stored
// as entered.
func draftValue(f editor.Field, typed string) string {
	if f == editor.FieldDescription {
		return typed
	}
	return strings.TrimSpace(typed)
}

func saveFailure(err error) string {
	if errors.Is(err, service.ErrStaleRevision) {
		return "Not saved: a newer revision is already stored. Press r to reload."
	}
	return "Save failed: " + err.Error()
}

func (v *detailView) View() string {
	if v.err != nil {
		return formatter.StyleRed.Render("Error: " + v.err.Error())
	}
	if v.ed == nil {
		return formatter.Dim("Loading task...")
	}

	var b strings.Builder
	b.WriteString(formatter.FormatTaskDetail(formatter.TaskDetailData{
		Task:   v.ed.Task(),
		Parent: v.parent,
		Now:    v.state.App.now(),
	}))
	if v.CapturesInput() {
		fmt.Fprintf(&b, "\n%s %s", formatter.StyleYellowBold.Render("Edit "+v.ed.Field().Label()+":"), v.input.View())
		if v.errMsg != "" {
			b.WriteString("\n" + formatter.StyleRed.Render(v.errMsg))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
