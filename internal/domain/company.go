package domain

import (
	"fmt"
	"strings"
	"time"
)

// Company is an organization ("group") that owns projects and has members.
type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("company name is required")
	}
	return nil
}

func (c *Company) DisplayID() string {
	return shortID(c.ID)
}

type GroupMember struct {
	GroupID  string
	UserID   string
	Role     MemberRole
	Status   MemberStatus
	JoinedAt time.Time
}

// CanManage reports whether the member may change other members.
func (m *GroupMember) CanManage() bool {
	return m.Status == MemberActive && (m.Role == RoleOwner || m.Role == RoleAdmin)
}

type Profile struct {
	ID          string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// Name returns the display name, falling back to the email.
func (p *Profile) Name() string {
	return CoalesceStr(p.DisplayName, p.Email, shortID(p.ID))
}
