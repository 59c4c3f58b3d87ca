package wbs

import (
	"sort"

	"github.com/alexanderramin/wbsdesk/internal/domain"
)

// Row is a flat, persisted view of a task: its parent id and its position
// among its siblings.
type Row struct {
	Task       *domain.Task
	ParentID   string
	OrderIndex int
}

// BuildForest assembles rows into a forest. Siblings are ordered by
// OrderIndex (stable for ties). A row whose parent is unknown, or that
// is only reachable through a parent cycle, becomes a root. Level is
// recomputed from depth, starting at 1 for roots.
func BuildForest(rows []Row) []*domain.Task {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})

	byID := make(map[string]*domain.Task, len(sorted))
	for _, r := range sorted {
		r.Task.Children = nil
		if _, dup := byID[r.Task.ID]; !dup {
			byID[r.Task.ID] = r.Task
		}
	}

	parentOf := make(map[*domain.Task]*domain.Task, len(sorted))
	var roots []*domain.Task
	for _, r := range sorted {
		p, ok := byID[r.ParentID]
		if r.ParentID == "" || !ok || p == r.Task {
			roots = append(roots, r.Task)
			continue
		}
		p.Children = append(p.Children, r.Task)
		parentOf[r.Task] = p
	}

	visited := make(map[*domain.Task]bool, len(sorted))
	mark := func(forest []*domain.Task) {
		Walk(forest, func(t *domain.Task, _ int) bool {
			if visited[t] {
				return false
			}
			visited[t] = true
			return true
		})
	}
	mark(roots)

	// Rows caught in a parent cycle are unreachable from any root.
	for _, r := range sorted {
		if visited[r.Task] {
			continue
		}
		if p := parentOf[r.Task]; p != nil {
			p.Children = removeTask(p.Children, r.Task)
		}
		roots = append(roots, r.Task)
		mark([]*domain.Task{r.Task})
	}

	Walk(roots, func(t *domain.Task, depth int) bool {
		t.Level = depth + 1
		return true
	})
	return roots
}

// Flatten is the inverse of BuildForest: a pre-order list of rows with
// parent ids and sibling positions.
func Flatten(forest []*domain.Task) []Row {
	var rows []Row
	var visit func(tasks []*domain.Task, parentID string)
	visit = func(tasks []*domain.Task, parentID string) {
		for i, t := range tasks {
			if t == nil {
				continue
			}
			rows = append(rows, Row{Task: t, ParentID: parentID, OrderIndex: i})
			visit(t.Children, t.ID)
		}
	}
	visit(forest, "")
	return rows
}

func removeTask(tasks []*domain.Task, target *domain.Task) []*domain.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if t != target {
			out = append(out, t)
		}
	}
	return out
}
