package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/wbs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_PreservesHierarchyAndOrder(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := Convert(validDocument(), "p-1", 0, now)
	require.Len(t, rows, 4)

	assert.Equal(t, "Design", rows[0].Task.Name)
	assert.Empty(t, rows[0].ParentID)
	assert.Equal(t, 0, rows[0].OrderIndex)
	assert.Equal(t, domain.TaskInProgress, rows[0].Task.Status)
	assert.Equal(t, 30, rows[0].Task.Progress)

	assert.Equal(t, "Survey", rows[1].Task.Name)
	assert.Equal(t, rows[0].Task.ID, rows[1].ParentID)
	assert.Equal(t, domain.TaskDone, rows[1].Task.Status)
	assert.Equal(t, 2, rows[1].Task.Level)

	assert.Equal(t, "Drawings", rows[2].Task.Name)
	assert.Equal(t, 1, rows[2].OrderIndex)
	assert.Equal(t, domain.TaskPending, rows[2].Task.Status)
	assert.Equal(t, 0, rows[2].Task.Progress)

	assert.Equal(t, "Build", rows[3].Task.Name)
	assert.Equal(t, 1, rows[3].OrderIndex)

	for _, r := range rows {
		assert.Equal(t, "p-1", r.Task.ProjectID)
		assert.Equal(t, now, r.Task.CreatedAt)
		assert.NotEmpty(t, r.Task.ID)
	}

	forest := wbs.BuildForest(rows)
	require.Len(t, forest, 2)
	assert.Len(t, wbs.FindChildTasks(forest[0].ID, forest), 2)
}

func TestConvert_BaseOrderOffsetsRoots(t *testing.T) {
	rows := Convert(validDocument(), "p-1", 5, time.Now())
	assert.Equal(t, 5, rows[0].OrderIndex)
	assert.Equal(t, 0, rows[1].OrderIndex, "children keep their own numbering")
	assert.Equal(t, 6, rows[3].OrderIndex)
}

func TestCountTasks(t *testing.T) {
	assert.Equal(t, 4, CountTasks(validDocument()))
	assert.Equal(t, 0, CountTasks(&Document{}))
}

func TestParseDocument_YAMLAndJSONAgree(t *testing.T) {
	yamlDoc := `
project_id: p-1
tasks:
  - name: Design
    start_date: "2025-03-01"
    status: 진행중
    progress: 30
    children:
      - name: Survey
  - name: Build
`
	jsonDoc := `{"project_id":"p-1","tasks":[
		{"name":"Design","start_date":"2025-03-01","status":"진행중","progress":30,
		 "children":[{"name":"Survey"}]},
		{"name":"Build"}]}`

	fromYAML, err := ParseDocument([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)
	fromJSON, err := ParseDocument([]byte(jsonDoc), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, "p-1", fromYAML.ProjectID)
	assert.Empty(t, Validate(fromYAML))
}

func TestParseDocument_Errors(t *testing.T) {
	_, err := ParseDocument([]byte(`{"tasks": [`), FormatJSON)
	assert.Error(t, err)
	_, err = ParseDocument([]byte("tasks: [\n"), FormatYAML)
	assert.Error(t, err)
	_, err = ParseDocument([]byte(`{}`), Format("toml"))
	assert.Error(t, err)
}

func TestLoadDocument_PicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yml")
	require.NoError(t, os.WriteFile(path, []byte("tasks:\n  - name: Only\n"), 0o644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, "Only", doc.Tasks[0].Name)

	assert.Equal(t, FormatJSON, FormatFromPath("plan.json"))
	assert.Equal(t, FormatYAML, FormatFromPath("PLAN.YAML"))

	_, err = LoadDocument(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
