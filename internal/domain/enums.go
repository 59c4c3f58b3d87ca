package domain

import (
	"fmt"
	"strings"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskOnHold     TaskStatus = "on_hold"
	TaskCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{TaskPending, TaskInProgress, TaskDone, TaskOnHold, TaskCancelled}

var taskStatusLabels = map[TaskStatus]string{
	TaskPending:    "대기",
	TaskInProgress: "진행중",
	TaskDone:       "완료",
	TaskOnHold:     "보류",
	TaskCancelled:  "취소",
}

// Label returns the Korean display label used by the task views.
func (s TaskStatus) Label() string {
	if l, ok := taskStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s TaskStatus) Valid() bool {
	_, ok := taskStatusLabels[s]
	return ok
}

// ParseTaskStatus accepts either the stored code ("in_progress") or the
// display label ("진행중"). Hyphens and case are normalized.
func ParseTaskStatus(v string) (TaskStatus, error) {
	v = strings.TrimSpace(v)
	norm := TaskStatus(strings.ReplaceAll(strings.ToLower(v), "-", "_"))
	if norm.Valid() {
		return norm, nil
	}
	for s, label := range taskStatusLabels {
		if label == v {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown task status %q (want one of pending|in_progress|done|on_hold|cancelled)", v)
}

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on_hold"
)

// ValidProjectStatuses is the canonical set of accepted project status strings.
var ValidProjectStatuses = map[string]bool{
	"planning": true, "active": true, "completed": true, "on_hold": true,
}

type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

// ValidMemberRoles is the canonical set of accepted member roles.
var ValidMemberRoles = map[string]bool{
	"owner": true, "admin": true, "member": true,
}

type MemberStatus string

const (
	MemberActive    MemberStatus = "active"
	MemberInactive  MemberStatus = "inactive"
	MemberPending   MemberStatus = "pending"
	MemberSuspended MemberStatus = "suspended"
)

// ValidMemberStatuses is the canonical set of accepted member statuses.
var ValidMemberStatuses = map[string]bool{
	"active": true, "inactive": true, "pending": true, "suspended": true,
}

type PermissionType string

const (
	PermissionView PermissionType = "view"
	PermissionEdit PermissionType = "edit"
)

// ValidPermissionTypes is the canonical set of accepted cost-share permissions.
var ValidPermissionTypes = map[string]bool{
	"view": true, "edit": true,
}

// SidebarMode is the navigation context of the sidebar.
type SidebarMode string

const (
	ModeAllProjects    SidebarMode = "all-projects"
	ModeCurrentProject SidebarMode = "current-project"
)

func (m SidebarMode) Valid() bool {
	return m == ModeAllProjects || m == ModeCurrentProject
}

// FileKind distinguishes working documents from final outputs.
type FileKind string

const (
	FileAttachment  FileKind = "attachment"
	FileDeliverable FileKind = "deliverable"
)

func (k FileKind) Valid() bool {
	return k == FileAttachment || k == FileDeliverable
}
