// Package editor holds the field-level edit state of an open task detail view.
//
// An Editor is either viewing, or editing exactly one field. Field edits are
// staged as text drafts and only reach the task on Save; attachment changes
// are committed immediately. Every commit carries a revision one higher than
// the last accepted commit, which the persistence layer uses to drop
// out-of-order and stale saves.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
)

var (
	ErrNotEditing         = errors.New("no field is being edited")
	ErrAlreadyEditing     = errors.New("another field is already being edited")
	ErrNoTask             = errors.New("no task is open")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// State is the editor's mode.
type State int

const (
	Viewing State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// UpdateFunc receives a copy of the full task after every commit.
type UpdateFunc func(ctx context.Context, task *domain.Task, revision int64) error

type Editor struct {
	snapshot *domain.Task
	task     *domain.Task

	state      State
	field      Field
	draft      string
	assigneeID string

	revision int64
	onUpdate UpdateFunc
	now      func() time.Time
}

// Option configures an Editor.
type Option func(*Editor)

// WithClock overrides the clock used for attachment timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// New creates an editor for task. onUpdate may be nil.
func New(task *domain.Task, onUpdate UpdateFunc, opts ...Option) *Editor {
	e := &Editor{
		onUpdate: onUpdate,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset(task)
	return e
}

// Reset replaces the open task. Any in-flight edit is discarded.
func (e *Editor) Reset(task *domain.Task) {
	e.snapshot = task
	e.task = task.Clone()
	e.state = Viewing
	e.field = ""
	e.draft = ""
	e.assigneeID = ""
	e.revision = 0
	if task != nil {
		e.revision = task.Revision
	}
}

func (e *Editor) State() State  { return e.state }
func (e *Editor) Field() Field  { return e.field }
func (e *Editor) Draft() string { return e.draft }

// Revision is the revision of the last commit the update callback accepted.
func (e *Editor) Revision() int64 { return e.revision }

// Snapshot is the task most recently supplied through New or Reset.
func (e *Editor) Snapshot() *domain.Task { return e.snapshot }

// Task returns a copy of the committed task.
func (e *Editor) Task() *domain.Task { return e.task.Clone() }

// Value returns the committed value of f as text.
func (e *Editor) Value(f Field) string {
	if e.task == nil {
		return ""
	}
	return FieldValue(e.task, f)
}

// Begin moves from viewing to editing f, seeding the draft from the
// committed value.
func (e *Editor) Begin(f Field) error {
	if e.task == nil {
		return ErrNoTask
	}
	if e.state == Editing {
		return fmt.Errorf("editing %s: %w", e.field, ErrAlreadyEditing)
	}
	if _, err := ParseField(string(f)); err != nil {
		return err
	}
	e.state = Editing
	e.field = f
	e.draft = FieldValue(e.task, f)
	e.assigneeID = e.task.AssigneeID
	return nil
}

// SetDraft replaces the draft of the field being edited.
func (e *Editor) SetDraft(value string) error {
	if e.state != Editing {
		return ErrNotEditing
	}
	e.draft = value
	return nil
}

// SelectAssignee sets both the displayed name and the member id while the
// assignee field is being edited.
func (e *Editor) SelectAssignee(id, name string) error {
	if e.state != Editing {
		return ErrNotEditing
	}
	if e.field != FieldAssignee {
		return fmt.Errorf("selecting assignee while editing %s", e.field)
	}
	e.draft = name
	e.assigneeID = id
	return nil
}

// Save commits the draft of the field being edited and returns to viewing.
// An invalid draft keeps the editor in editing state. An error from the
// update callback is returned, but the commit stands.
func (e *Editor) Save(ctx context.Context) error {
	if e.state != Editing {
		return ErrNotEditing
	}
	next := e.task.Clone()
	if err := applyField(next, e.field, e.draft, e.assigneeID); err != nil {
		return fmt.Errorf("%s: %w", e.field.Label(), err)
	}
	field := e.field
	e.task = next
	e.state = Viewing
	e.field = ""
	e.draft = ""
	e.assigneeID = ""
	if err := e.commit(ctx); err != nil {
		return fmt.Errorf("saving %s: %w", field, err)
	}
	return nil
}

// Cancel discards the draft and returns to viewing. The field keeps the
// value it had before Begin.
func (e *Editor) Cancel() {
	e.state = Viewing
	e.field = ""
	e.draft = ""
	e.assigneeID = ""
}

// commit hands the task to the update callback at the next revision. The
// revision only advances when the callback accepts it, so after a rejected
// save every later commit from this editor is rejected too until Reset.
func (e *Editor) commit(ctx context.Context) error {
	next := e.revision + 1
	e.task.Revision = next
	e.task.UpdatedAt = e.now()
	if e.onUpdate != nil {
		if err := e.onUpdate(ctx, e.task.Clone(), next); err != nil {
			e.task.Revision = e.revision
			return err
		}
	}
	e.revision = next
	return nil
}
