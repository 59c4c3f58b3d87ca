package testutil

import (
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/google/uuid"
)

// now is truncated to whole seconds so fixtures survive an RFC3339
// round trip through the database unchanged.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func NewTestProfile(displayName string) *domain.Profile {
	return &domain.Profile{
		ID:          uuid.New().String(),
		Email:       displayName + "@example.com",
		DisplayName: displayName,
		CreatedAt:   now(),
	}
}

func NewTestCompany(name, ownerID string) *domain.Company {
	ts := now()
	return &domain.Company{
		ID:        uuid.New().String(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func NewTestMember(groupID, userID string, role domain.MemberRole) *domain.GroupMember {
	return &domain.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		Status:   domain.MemberActive,
		JoinedAt: now(),
	}
}

// Project options
type ProjectOption func(*domain.Project)

func WithCompany(id string) ProjectOption {
	return func(p *domain.Project) {
		p.CompanyID = id
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithProjectDates(start, end time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = &start
		p.EndDate = &end
	}
}

func NewTestProject(name, ownerID string, opts ...ProjectOption) *domain.Project {
	ts := now()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.ProjectActive,
		OwnerID:   ownerID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithProgress(p int) TaskOption {
	return func(t *domain.Task) {
		t.Progress = p
	}
}

func WithDates(start, end string) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = start
		t.EndDate = end
	}
}

func WithAssignee(id, name string) TaskOption {
	return func(t *domain.Task) {
		t.AssigneeID = id
		t.Assignee = name
	}
}

func WithAttachment(name string) TaskOption {
	return func(t *domain.Task) {
		t.Attachments = append(t.Attachments, NewTestFile(name))
	}
}

func WithDeliverable(name string) TaskOption {
	return func(t *domain.Task) {
		t.Deliverables = append(t.Deliverables, NewTestFile(name))
	}
}

func WithChildren(children ...*domain.Task) TaskOption {
	return func(t *domain.Task) {
		t.Children = append(t.Children, children...)
	}
}

func NewTestTask(projectID, name string, opts ...TaskOption) *domain.Task {
	ts := now()
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Level:     1,
		Status:    domain.TaskPending,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestFile(name string) domain.AttachmentFile {
	return domain.AttachmentFile{
		ID:         uuid.New().String(),
		Name:       name,
		Size:       1024,
		Type:       "application/pdf",
		UploadedAt: now(),
	}
}
