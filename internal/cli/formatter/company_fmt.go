package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
)

func FormatCompanyList(companies []*domain.Company) string {
	headers := []string{"ID", "NAME", "DESCRIPTION"}
	rows := make([][]string, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, []string{TruncID(c.ID), Bold(c.Name), orDash(c.Description)})
	}
	return RenderBox("Companies", RenderTable(headers, rows))
}

// FormatMemberList renders members. names maps user ids to display
// names; unknown ids are shown as is.
func FormatMemberList(members []*domain.GroupMember, names map[string]string, now time.Time) string {
	headers := []string{"USER", "ROLE", "STATUS", "JOINED"}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		user := m.UserID
		if n, ok := names[m.UserID]; ok {
			user = n + " " + TruncID(m.UserID)
		}
		status := string(m.Status)
		if m.Status != domain.MemberActive {
			status = StyleDim.Render(status)
		}
		rows = append(rows, []string{user, RolePill(m.Role), status, HumanTimestamp(m.JoinedAt, now)})
	}
	return RenderTable(headers, rows)
}

// FormatCompanyDetail renders a company card with its members and projects.
func FormatCompanyDetail(c *domain.Company, members []*domain.GroupMember, names map[string]string, projects []*domain.Project, now time.Time) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(c.Name) + "\n")
	if c.Description != "" {
		b.WriteString(StyleFg.Render(c.Description) + "\n")
	}
	fmt.Fprintf(&b, "\n%s  %s\n", StyleDim.Render("ID"), c.ID)

	b.WriteString("\n" + Header("Members") + "\n")
	b.WriteString(FormatMemberList(members, names, now))

	b.WriteString("\n" + Header("Projects") + "\n")
	if len(projects) == 0 {
		b.WriteString(Dim("No projects."))
	}
	for _, p := range projects {
		fmt.Fprintf(&b, "%s %s  %s\n", TruncID(p.ID), p.Name, ProjectStatusPill(p.Status))
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

func FormatShareList(shares []*domain.CostShare, names map[string]string) string {
	headers := []string{"PROJECT", "SHARED WITH", "PERMISSION"}
	rows := make([][]string, 0, len(shares))
	for _, s := range shares {
		user := s.SharedWithID
		if n, ok := names[s.SharedWithID]; ok {
			user = n
		}
		perm := StyleBlue.Render(string(s.PermissionType))
		if s.PermissionType == domain.PermissionEdit {
			perm = StyleGreen.Render(string(s.PermissionType))
		}
		rows = append(rows, []string{TruncID(s.ProjectID), user, perm})
	}
	return RenderTable(headers, rows)
}

func FormatProfileList(profiles []*domain.Profile) string {
	headers := []string{"ID", "NAME", "EMAIL"}
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{p.ID, Bold(p.Name()), orDash(p.Email)})
	}
	return RenderTable(headers, rows)
}
