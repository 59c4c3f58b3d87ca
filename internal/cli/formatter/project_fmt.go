package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/wbs"
)

// FormatProjectList renders projects as a table in a box. Favorite
// projects are starred.
func FormatProjectList(projects []*domain.Project, favorites map[string]bool) string {
	headers := []string{"", "ID", "NAME", "STATUS", "DATES"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		star := " "
		if favorites[p.ID] {
			star = StyleYellow.Render("★")
		}
		rows = append(rows, []string{
			star,
			TruncID(p.ID),
			Bold(p.Name),
			ProjectStatusPill(p.Status),
			ProjectDates(p),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// ProjectDetailData holds what the project card shows. Company may be nil.
type ProjectDetailData struct {
	Project  *domain.Project
	Company  *domain.Company
	Forest   []*domain.Task
	Favorite bool
}

// FormatProjectDetail renders a project card with its root tasks.
func FormatProjectDetail(d ProjectDetailData) string {
	p := d.Project
	var b strings.Builder

	title := StyleBold.Render(p.Name)
	if d.Favorite {
		title += " " + StyleYellow.Render("★")
	}
	b.WriteString(title + "\n\n")
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("STATUS "), ProjectStatusPill(p.Status))
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("ID     "), p.ID)
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("DATES  "), ProjectDates(p))
	if d.Company != nil {
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("COMPANY"), d.Company.Name)
	}
	if p.Description != "" {
		b.WriteString("\n" + StyleFg.Render(p.Description) + "\n")
	}

	b.WriteString("\n" + Header("Work breakdown") + "\n")
	if len(d.Forest) == 0 {
		b.WriteString(Dim("No tasks yet."))
	} else {
		total, done := 0, 0
		wbs.Walk(d.Forest, func(t *domain.Task, _ int) bool {
			total++
			if t.Status == domain.TaskDone {
				done++
			}
			return true
		})
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("DONE"), RenderProgress(done*100/total, 20))
		b.WriteString(FormatTaskList(d.Forest))
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}
