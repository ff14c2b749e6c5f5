package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/turkosaurus/runpager/internal/types"
	"github.com/turkosaurus/runpager/internal/ui/styles"
)

func TestCell(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abc…"},
		{"abcd", 4, "abcd"},
		{"", 3, "   "},
	}
	for _, tt := range tests {
		got := cell(tt.in, tt.width)
		assert.Equal(t, tt.want, got, "cell(%q, %d)", tt.in, tt.width)
		assert.LessOrEqual(t, lipgloss.Width(got), tt.width)
	}

	wide := cell("日本語テキスト", 6)
	assert.True(t, strings.HasPrefix(wide, "日本"))
	assert.Equal(t, 6, lipgloss.Width(wide))
}

func testRuns(n int) []types.WorkflowRun {
	runs := make([]types.WorkflowRun, n)
	for i := range runs {
		runs[i] = types.WorkflowRun{ID: int64(i + 1), Name: "ci", RunNumber: i + 1}
	}
	return runs
}

func TestRunListNavigation(t *testing.T) {
	r := NewRunList(styles.DefaultStyles())
	r.SetSize(100, 4) // three visible rows
	r.SetRuns(testRuns(10))

	assert.True(t, r.AtTop())
	r.MoveUp()
	assert.Equal(t, 0, r.Selected)

	r.PageDown()
	assert.Equal(t, 3, r.Selected)
	r.GoToBottom()
	assert.True(t, r.AtBottom())
	r.MoveDown()
	assert.Equal(t, 9, r.Selected)
	r.PageUp()
	assert.Equal(t, 6, r.Selected)
	assert.Equal(t, int64(7), r.SelectedRun().ID)

	r.SetRuns(testRuns(2))
	assert.Equal(t, 1, r.Selected, "selection is clamped")

	r.SetRuns(nil)
	assert.Equal(t, 0, r.Selected)
	assert.Nil(t, r.SelectedRun())
	assert.True(t, r.AtBottom())
	r.PageDown()
	assert.Equal(t, 0, r.Selected)
}

func TestRunListView(t *testing.T) {
	r := NewRunList(styles.DefaultStyles())
	r.now = func() time.Time { return time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC) }
	r.SetSize(120, 3)
	runs := testRuns(5)
	runs[0].DisplayTitle = "fix the flaky test"
	runs[0].CreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.SetRuns(runs)

	out := r.View()
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3, "header plus visible rows")
	assert.Contains(t, lines[0], "WORKFLOW")
	assert.Contains(t, lines[1], "fix the flaky test")
	assert.Contains(t, lines[1], "1h 0m")

	r.GoToBottom()
	lines = strings.Split(r.View(), "\n")
	assert.Contains(t, lines[len(lines)-1], "#5")
}
