package wbs

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(id string, children ...*domain.Task) *domain.Task {
	return &domain.Task{ID: id, Name: "Task " + id, Children: children}
}

// exampleForest is 1 -> {1.1, 1.2 -> {1.2.1}}.
func exampleForest() []*domain.Task {
	return []*domain.Task{
		task("1",
			task("1.1"),
			task("1.2", task("1.2.1")),
		),
	}
}

func ids(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestExampleScenario(t *testing.T) {
	f := exampleForest()

	parent, ok := FindParentTask("1.2.1", f)
	require.True(t, ok)
	assert.Equal(t, "1.2", parent.ID)

	assert.Equal(t, []string{"1.1", "1.2"}, ids(FindChildTasks("1", f)))

	_, ok = FindTaskByID(f, "9")
	assert.False(t, ok)
}

func TestFindTaskByID_ReturnsSameObject(t *testing.T) {
	f := exampleForest()
	got, ok := FindTaskByID(f, "1.2.1")
	require.True(t, ok)
	assert.Same(t, f[0].Children[1].Children[0], got)
}

func TestFindTaskByID_DuplicateIDsPreOrderWins(t *testing.T) {
	deep := task("dup")
	shallow := task("dup")
	f := []*domain.Task{
		task("a", task("b", deep)),
		shallow,
	}
	got, ok := FindTaskByID(f, "dup")
	require.True(t, ok)
	assert.Same(t, deep, got, "parent-before-children pre-order reaches the nested task first")
}

func TestFindTaskByID_EmptyAndNil(t *testing.T) {
	_, ok := FindTaskByID(nil, "1")
	assert.False(t, ok)

	_, ok = FindTaskByID([]*domain.Task{nil, task("1")}, "1")
	assert.True(t, ok)
}

func TestFindParentTask_RootHasNoParent(t *testing.T) {
	f := append(exampleForest(), task("2", task("2.1")))
	for _, root := range f {
		_, ok := FindParentTask(root.ID, f)
		assert.False(t, ok, "root %s", root.ID)
	}
}

func TestFindParentTask_UnknownID(t *testing.T) {
	_, ok := FindParentTask("nope", exampleForest())
	assert.False(t, ok)
}

func TestFindParentTask_ChecksSiblingsBeforeDescending(t *testing.T) {
	// "x" is both a direct child of "r" (second position) and a grandchild
	// through the first child. The direct child scan wins.
	f := []*domain.Task{
		task("r",
			task("c1", task("x")),
			task("x"),
		),
	}
	p, ok := FindParentTask("x", f)
	require.True(t, ok)
	assert.Equal(t, "r", p.ID)
}

func TestFindChildTasks_NotFoundAndLeaf(t *testing.T) {
	f := exampleForest()

	missing := FindChildTasks("9", f)
	assert.NotNil(t, missing)
	assert.Empty(t, missing)

	leaf := FindChildTasks("1.1", f)
	assert.NotNil(t, leaf)
	assert.Empty(t, leaf)
}

func TestFindChildTasks_DoesNotAliasStorage(t *testing.T) {
	f := exampleForest()
	kids := FindChildTasks("1", f)
	kids[0] = task("zzz")
	assert.Equal(t, "1.1", f[0].Children[0].ID)
}

func TestWalk_PreOrderWithDepth(t *testing.T) {
	var visited []string
	Walk(exampleForest(), func(tk *domain.Task, depth int) bool {
		visited = append(visited, fmt.Sprintf("%s@%d", tk.ID, depth))
		return true
	})
	assert.Equal(t, []string{"1@0", "1.1@1", "1.2@1", "1.2.1@2"}, visited)
}

func TestWalk_SkipSubtree(t *testing.T) {
	var visited []string
	Walk(exampleForest(), func(tk *domain.Task, _ int) bool {
		visited = append(visited, tk.ID)
		return tk.ID != "1.2"
	})
	assert.Equal(t, []string{"1", "1.1", "1.2"}, visited)
}

func TestAncestorsAndCount(t *testing.T) {
	f := exampleForest()
	assert.Equal(t, []string{"1.2", "1"}, ids(Ancestors("1.2.1", f)))
	assert.Empty(t, Ancestors("1", f))
	assert.Equal(t, 4, Count(f))
}

// randomForest builds a forest with unique ids, returning it together with
// the expected parent of every non-root id.
func randomForest(rng *rand.Rand, n int) ([]*domain.Task, map[string]string) {
	var all []*domain.Task
	var roots []*domain.Task
	parents := make(map[string]string)
	for i := 0; i < n; i++ {
		tk := task(fmt.Sprintf("t%d", i))
		if len(all) == 0 || rng.Intn(5) == 0 {
			roots = append(roots, tk)
		} else {
			p := all[rng.Intn(len(all))]
			p.Children = append(p.Children, tk)
			parents[tk.ID] = p.ID
		}
		all = append(all, tk)
	}
	return roots, parents
}

func TestProperties_SearchParentChildSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		f, parents := randomForest(rng, rng.Intn(40)+1)
		idx := NewIndex(f)

		Walk(f, func(tk *domain.Task, _ int) bool {
			got, ok := FindTaskByID(f, tk.ID)
			require.True(t, ok)
			assert.Same(t, tk, got, "trial %d: search must return the stored task", trial)

			wantParent, hasParent := parents[tk.ID]
			p, ok := FindParentTask(tk.ID, f)
			assert.Equal(t, hasParent, ok, "trial %d: %s parent presence", trial, tk.ID)
			if hasParent {
				require.NotNil(t, p)
				assert.Equal(t, wantParent, p.ID)
				assert.Contains(t, ids(FindChildTasks(p.ID, f)), tk.ID)
			}

			ip, iok := idx.Parent(tk.ID)
			assert.Equal(t, ok, iok)
			if ok {
				assert.Same(t, p, ip, "index must agree with FindParentTask")
			}
			return true
		})

		_, ok := FindTaskByID(f, "absent")
		assert.False(t, ok)
	}
}
