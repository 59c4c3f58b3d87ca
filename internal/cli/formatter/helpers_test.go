package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(day), "Tomorrow"},
		{"yesterday", now.Add(-day), "Yesterday"},
		{"3 days future", now.Add(3 * day), "In 3d"},
		{"3 weeks future", now.Add(21 * day), "In 3w"},
		{"3 months future", now.Add(90 * day), "In 3mo"},
		{"3 days past", now.Add(-3 * day), "3d ago"},
		{"2 weeks past", now.Add(-14 * day), "2w ago"},
		{"3 months past", now.Add(-90 * day), "3mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestamp(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Feb 1, 2026", HumanTimestamp(now.AddDate(0, 0, -6), now))
	assert.Equal(t, "--", HumanTimestamp(time.Time{}, now))
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "2025-03-01 → 2025-03-10", DateRange("2025-03-01", "2025-03-10"))
	assert.Equal(t, "2025-03-01 → --", DateRange("2025-03-01", ""))
	assert.Equal(t, "--", DateRange("", ""))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "2.0 KB", FormatSize(2048))
	assert.Equal(t, "1.5 MB", FormatSize(3*512*1024))
}

func TestTaskStatusPill_UsesKoreanLabel(t *testing.T) {
	assert.Contains(t, TaskStatusPill(domain.TaskInProgress), "진행중")
	assert.Contains(t, TaskStatusPill(domain.TaskDone), "완료")
}

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		pct    int
		filled int
		label  string
	}{
		{0, 0, "  0%"},
		{45, 4, " 45%"},
		{100, 10, "100%"},
		{150, 10, "100%"},
		{-5, 0, "  0%"},
	}
	for _, tt := range tests {
		out := RenderProgress(tt.pct, 10)
		assert.Equal(t, tt.filled, strings.Count(out, filledBlock), "pct %d", tt.pct)
		assert.Equal(t, 10-tt.filled, strings.Count(out, emptyBlock), "pct %d", tt.pct)
		assert.True(t, strings.HasSuffix(out, tt.label), "pct %d: %q", tt.pct, out)
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"ID", "NAME"}, [][]string{
		{"1", "Design"},
		{"22", "Build", "ignored"},
		{"333"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, "ID   NAME", lines[0])
	assert.Equal(t, "1    Design", lines[2])
	assert.Equal(t, "22   Build", lines[3])
	assert.NotContains(t, out, "ignored")

	assert.Empty(t, RenderTable(nil, nil))
}
