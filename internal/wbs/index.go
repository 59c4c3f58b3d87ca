package wbs

import "github.com/alexanderramin/wbsdesk/internal/domain"

// Index is an id lookup over a loaded forest, built once per load.
// Lookups return the same tasks FindTaskByID and FindParentTask would.
type Index struct {
	byID   map[string]*domain.Task
	parent map[string]*domain.Task
}

// NewIndex builds an index over forest. The forest must not be mutated
// structurally while the index is in use.
func NewIndex(forest []*domain.Task) *Index {
	idx := &Index{
		byID:   make(map[string]*domain.Task),
		parent: make(map[string]*domain.Task),
	}
	Walk(forest, func(t *domain.Task, _ int) bool {
		if _, seen := idx.byID[t.ID]; !seen {
			idx.byID[t.ID] = t
		}
		for _, c := range t.Children {
			if c == nil {
				continue
			}
			if _, seen := idx.parent[c.ID]; !seen {
				idx.parent[c.ID] = t
			}
		}
		return true
	})
	return idx
}

func (x *Index) Task(id string) (*domain.Task, bool) {
	t, ok := x.byID[id]
	return t, ok
}

func (x *Index) Parent(id string) (*domain.Task, bool) {
	p, ok := x.parent[id]
	return p, ok
}

func (x *Index) Children(id string) []*domain.Task {
	t, ok := x.byID[id]
	if !ok || len(t.Children) == 0 {
		return []*domain.Task{}
	}
	out := make([]*domain.Task, len(t.Children))
	copy(out, t.Children)
	return out
}

// Ancestors returns the parents of id, nearest first. A repeated id stops
// the chain so duplicated ids cannot loop forever.
func (x *Index) Ancestors(id string) []*domain.Task {
	var out []*domain.Task
	seen := map[string]bool{id: true}
	for {
		p, ok := x.parent[id]
		if !ok || seen[p.ID] {
			return out
		}
		out = append(out, p)
		seen[p.ID] = true
		id = p.ID
	}
}

// IsDescendant reports whether id lies in the subtree rooted at ancestorID.
func (x *Index) IsDescendant(id, ancestorID string) bool {
	for _, a := range x.Ancestors(id) {
		if a.ID == ancestorID {
			return true
		}
	}
	return false
}

func (x *Index) Len() int { return len(x.byID) }
