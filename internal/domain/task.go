package domain

import "time"

// DateLayout is the ISO calendar date format used for task start/end dates.
const DateLayout = "2006-01-02"

// Task is a single node of a project's work breakdown structure.
// Children is the only containment relation; Level is informational.
type Task struct {
	ID          string
	ProjectID   string
	Name        string
	Level       int
	StartDate   string
	EndDate     string
	Assignee    string
	AssigneeID  string
	Status      TaskStatus
	Progress    int
	Description string

	Attachments  []AttachmentFile
	Deliverables []AttachmentFile
	Children     []*Task

	Revision  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AttachmentFile struct {
	ID         string
	Name       string
	Size       int64
	Type       string
	UploadedAt time.Time
	URL        string
}

// Files returns the list for kind. Unknown kinds return nil.
func (t *Task) Files(kind FileKind) []AttachmentFile {
	switch kind {
	case FileAttachment:
		return t.Attachments
	case FileDeliverable:
		return t.Deliverables
	}
	return nil
}

// SetFiles replaces the list for kind.
func (t *Task) SetFiles(kind FileKind, files []AttachmentFile) {
	switch kind {
	case FileAttachment:
		t.Attachments = files
	case FileDeliverable:
		t.Deliverables = files
	}
}

// Clone returns a deep copy of the task and its whole subtree.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Attachments = append([]AttachmentFile(nil), t.Attachments...)
	c.Deliverables = append([]AttachmentFile(nil), t.Deliverables...)
	if t.Children != nil {
		c.Children = make([]*Task, len(t.Children))
		for i, child := range t.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// IsTerminal reports whether no further work is expected on the task.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskDone || t.Status == TaskCancelled
}

func (t *Task) DisplayID() string {
	return shortID(t.ID)
}
