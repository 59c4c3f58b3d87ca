package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/wbs"
)

// FormatTaskTree renders a project's WBS inside a titled box.
func FormatTaskTree(projectName string, forest []*domain.Task) string {
	if len(forest) == 0 {
		return RenderBox(projectName, Dim("No tasks yet."))
	}
	footer := Dim(fmt.Sprintf("%d tasks", wbs.Count(forest)))
	return RenderBox(projectName, RenderTree(forest)+"\n"+footer)
}

// FormatTaskList renders tasks as a table, one row per task, without
// their subtrees.
func FormatTaskList(tasks []*domain.Task) string {
	headers := []string{"ID", "NAME", "STATUS", "PROGRESS", "DATES", "ASSIGNEE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			TruncID(t.ID),
			Bold(t.Name),
			TaskStatusPill(t.Status),
			RenderProgress(t.Progress, 10),
			DateRange(t.StartDate, t.EndDate),
			orDash(t.Assignee),
		})
	}
	return RenderTable(headers, rows)
}

// TaskDetailData is everything the task card shows.
type TaskDetailData struct {
	Task   *domain.Task
	Parent *domain.Task
	Now    time.Time
}

// FormatTaskDetail renders one task with its fields, files and children.
func FormatTaskDetail(d TaskDetailData) string {
	t := d.Task
	var b strings.Builder

	b.WriteString(StyleBold.Render(t.Name) + "  " + TaskStatusPill(t.Status) + "\n\n")
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render(fmt.Sprintf("%-10s", label)), value)
	}
	field("ID", t.ID)
	field("LEVEL", fmt.Sprintf("%d", t.Level))
	if d.Parent != nil {
		field("PARENT", d.Parent.Name+" "+TruncID(d.Parent.ID))
	}
	field("PROGRESS", RenderProgress(t.Progress, 20))
	field("DATES", DateRange(t.StartDate, t.EndDate))
	field("ASSIGNEE", orDash(t.Assignee))
	field("REVISION", fmt.Sprintf("%d", t.Revision))
	field("UPDATED", HumanTimestamp(t.UpdatedAt, d.Now))
	if strings.TrimSpace(t.Description) != "" {
		b.WriteString("\n" + StyleFg.Render(t.Description) + "\n")
	}

	writeFiles(&b, "Attachments", t.Attachments)
	writeFiles(&b, "Deliverables", t.Deliverables)

	if len(t.Children) > 0 {
		b.WriteString("\n" + Header("Subtasks") + "\n")
		b.WriteString(RenderTree(t.Children))
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

func writeFiles(b *strings.Builder, title string, files []domain.AttachmentFile) {
	if len(files) == 0 {
		return
	}
	b.WriteString("\n" + Header(title) + "\n")
	for _, f := range files {
		line := fmt.Sprintf("%s %s  %s", TruncID(f.ID), f.Name, Dim(FormatSize(f.Size)))
		if f.URL == "" {
			line += "  " + StyleYellow.Render("(not uploaded)")
		}
		b.WriteString(line + "\n")
	}
}
