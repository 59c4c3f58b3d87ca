// Package wbs answers structural queries over a forest of WBS tasks.
//
// All functions are read-only and treat an unknown id as "not found"
// rather than an error. When ids are duplicated, the first task met in
// pre-order (parent before children, siblings in stored order) wins.
package wbs

import "github.com/alexanderramin/wbsdesk/internal/domain"

// FindTaskByID returns the first task with the given id.
func FindTaskByID(forest []*domain.Task, id string) (*domain.Task, bool) {
	for _, t := range forest {
		if t == nil {
			continue
		}
		if t.ID == id {
			return t, true
		}
		if found, ok := FindTaskByID(t.Children, id); ok {
			return found, true
		}
	}
	return nil, false
}

// FindParentTask returns the task whose children contain id.
// Root-level tasks and unknown ids report false.
func FindParentTask(id string, forest []*domain.Task) (*domain.Task, bool) {
	for _, root := range forest {
		if p, ok := findParent(root, id); ok {
			return p, true
		}
	}
	return nil, false
}

// findParent checks all of parent's immediate children before descending,
// so each subtree is visited exactly once.
func findParent(parent *domain.Task, id string) (*domain.Task, bool) {
	if parent == nil {
		return nil, false
	}
	for _, c := range parent.Children {
		if c != nil && c.ID == id {
			return parent, true
		}
	}
	for _, c := range parent.Children {
		if p, ok := findParent(c, id); ok {
			return p, true
		}
	}
	return nil, false
}

// FindChildTasks returns the direct children of the task with the given id,
// in stored order. The result is empty, never nil, when the task is unknown
// or has no children.
func FindChildTasks(id string, forest []*domain.Task) []*domain.Task {
	t, ok := FindTaskByID(forest, id)
	if !ok || len(t.Children) == 0 {
		return []*domain.Task{}
	}
	out := make([]*domain.Task, len(t.Children))
	copy(out, t.Children)
	return out
}

// Walk visits every task in pre-order. Roots have depth 0.
// Returning false from fn skips that task's subtree.
func Walk(forest []*domain.Task, fn func(t *domain.Task, depth int) bool) {
	walk(forest, 0, fn)
}

func walk(tasks []*domain.Task, depth int, fn func(t *domain.Task, depth int) bool) {
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if fn(t, depth) {
			walk(t.Children, depth+1, fn)
		}
	}
}

// Ancestors returns the chain of parents of id, nearest first.
func Ancestors(id string, forest []*domain.Task) []*domain.Task {
	idx := NewIndex(forest)
	return idx.Ancestors(id)
}

// Count returns the number of tasks in the forest.
func Count(forest []*domain.Task) int {
	n := 0
	Walk(forest, func(*domain.Task, int) bool {
		n++
		return true
	})
	return n
}
