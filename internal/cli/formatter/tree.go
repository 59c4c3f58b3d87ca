package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one rendered line of a task tree.
type TreeItem struct {
	Task   *domain.Task
	Depth  int
	Prefix string // box-drawing connectors, empty for roots
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeSpace  = "   "
)

// TreeItems flattens a forest in pre-order and computes the connector
// prefix of every line.
func TreeItems(forest []*domain.Task) []TreeItem {
	var items []TreeItem
	var walk func(tasks []*domain.Task, depth int, guides string)
	walk = func(tasks []*domain.Task, depth int, guides string) {
		for i, t := range tasks {
			last := i == len(tasks)-1
			item := TreeItem{Task: t, Depth: depth}
			next := ""
			if depth > 0 {
				if last {
					item.Prefix = guides + treeCorner
					next = guides + treeSpace
				} else {
					item.Prefix = guides + treeBranch
					next = guides + treePipe
				}
			}
			items = append(items, item)
			walk(t.Children, depth+1, next)
		}
	}
	walk(forest, 0, "")
	return items
}

// RenderTree renders a task forest with box-drawing connectors. Each line
// shows the short id, the status icon and the name; progress badges are
// right-aligned.
func RenderTree(forest []*domain.Task) string {
	items := TreeItems(forest)
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	widest := 0
	for i, it := range items {
		contents[i] = it.Prefix + treeTitle(it.Task)
		if w := lipgloss.Width(contents[i]); w > widest {
			widest = w
		}
	}

	var b strings.Builder
	for i, it := range items {
		pad := widest - lipgloss.Width(contents[i])
		b.WriteString(contents[i])
		b.WriteString(strings.Repeat(" ", pad+2))
		b.WriteString(StyleBlue.Render(fmt.Sprintf("[ %3d%% ]", it.Task.Progress)))
		b.WriteString("\n")
	}
	return b.String()
}

func treeTitle(t *domain.Task) string {
	id := StyleDim.Render(t.DisplayID() + " ")
	switch t.Status {
	case domain.TaskDone:
		return id + StyleGreen.Render("✔ ") + Dim(t.Name)
	case domain.TaskInProgress:
		return id + StyleYellowBold.Render("▶ "+t.Name)
	case domain.TaskCancelled:
		return id + StyleRed.Render("✖ ") + Dim(t.Name)
	}
	return id + StyleFg.Render(t.Name)
}
