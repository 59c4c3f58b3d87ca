// Package teatest drives bubbletea models in tests without a tea.Program.
//
// Update is called directly and the returned Cmds are run one by one on
// the test goroutine's behalf. A Cmd that does not answer within
// cmdTimeout (cursor blinks, subscriptions waiting on a channel) is
// parked instead of blocking the test; Await collects the parked Cmds
// that have answered since and feeds their messages back in.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds the chain of Cmds started by a single message.
const MaxDrainDepth = 100

// cmdTimeout separates Cmds that finish immediately (SQLite reads,
// message factories) from Cmds that wait on a timer or a channel.
const cmdTimeout = 100 * time.Millisecond

// Driver is a synchronous harness for one tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg has been produced.
	Quitting bool

	parked []chan tea.Msg
}

// Option configures the Driver during construction.
type Option func(*Driver)

// WithSize sends a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// New creates a Driver for model. Call DrainInit to run model.Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

// Press sends a named key: "enter", "esc", "up", "down", "ctrl+c",
// "backspace", or a single character.
func (d *Driver) Press(name string) {
	d.T.Helper()
	switch name {
	case "enter":
		d.Send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		d.Send(tea.KeyMsg{Type: tea.KeyEsc})
	case "up":
		d.Send(tea.KeyMsg{Type: tea.KeyUp})
	case "down":
		d.Send(tea.KeyMsg{Type: tea.KeyDown})
	case "ctrl+c":
		d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	case "ctrl+u":
		d.Send(tea.KeyMsg{Type: tea.KeyCtrlU})
	case "backspace":
		d.Send(tea.KeyMsg{Type: tea.KeyBackspace})
	default:
		runes := []rune(name)
		if len(runes) != 1 {
			d.T.Fatalf("teatest: unknown key %q", name)
		}
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: runes})
	}
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Await waits up to timeout for parked Cmds and processes the messages
// of those that have answered. Blink messages are dropped.
func (d *Driver) Await(timeout time.Duration) {
	d.T.Helper()
	deadline := time.After(timeout)
	parked := d.parked
	d.parked = nil
	for i, ch := range parked {
		select {
		case msg := <-ch:
			d.deliver(msg, 0)
		case <-deadline:
			d.parked = append(d.parked, parked[i:]...)
			return
		}
	}
}

// View returns the rendered model.
func (d *Driver) View() string {
	return d.Model.View()
}

// Contains fails the test unless the current view contains want.
func (d *Driver) Contains(want string) {
	d.T.Helper()
	if v := d.View(); !strings.Contains(v, want) {
		d.T.Fatalf("view does not contain %q:\n%s", want, v)
	}
}

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}
	msg, ok := d.run(cmd)
	if !ok {
		return
	}
	d.deliver(msg, depth)
}

func (d *Driver) deliver(msg tea.Msg, depth int) {
	d.T.Helper()
	if msg == nil || isCursorBlink(msg) || d.Quitting {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			d.drainCmd(sub, depth+1)
		}
		return
	}

	// The program stops on QuitMsg without passing it to the model.
	if _, quit := msg.(tea.QuitMsg); quit {
		d.Quitting = true
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(next, depth+1)
}

// run executes cmd, parking it when it does not answer within cmdTimeout.
func (d *Driver) run(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		d.parked = append(d.parked, ch)
		return nil, false
	}
}

// isCursorBlink detects the unexported blink messages of bubbles/cursor.
func isCursorBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}
