package domain

import (
	"fmt"
	"strings"
	"time"
)

type Project struct {
	ID          string        `json:"id"`
	CompanyID   string        `json:"companyId,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	StartDate   *time.Time    `json:"startDate,omitempty"`
	EndDate     *time.Time    `json:"endDate,omitempty"`
	OwnerID     string        `json:"ownerId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Validate checks the fields a project needs before it can be stored.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if p.Status != "" && !ValidProjectStatuses[string(p.Status)] {
		return fmt.Errorf("invalid project status %q", p.Status)
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return fmt.Errorf("project end date %s is before start date %s",
			p.EndDate.Format(DateLayout), p.StartDate.Format(DateLayout))
	}
	return nil
}

// DisplayID returns the first 8 characters of the ID.
func (p *Project) DisplayID() string {
	return shortID(p.ID)
}

type ProjectFavorite struct {
	UserID    string
	ProjectID string
	CreatedAt time.Time
}

type CostShare struct {
	ID             string
	ProjectID      string
	OwnerID        string
	SharedWithID   string
	PermissionType PermissionType
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Allows reports whether the share grants at least the wanted permission.
// Edit implies view.
func (c *CostShare) Allows(want PermissionType) bool {
	if want == PermissionView {
		return c.PermissionType == PermissionView || c.PermissionType == PermissionEdit
	}
	return c.PermissionType == want
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
