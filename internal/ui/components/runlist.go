package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/turkosaurus/runpager/internal/gh"
	"github.com/turkosaurus/runpager/internal/types"
	"github.com/turkosaurus/runpager/internal/ui/styles"
)

// column widths; the title column takes what is left
const (
	colStatus   = 2
	colWorkflow = 20
	colBranch   = 18
	colEvent    = 12
	colNumber   = 7
	colAge      = 8
	colDuration = 9
	minTitle    = 10
)

// RunList is a component that displays a list of workflow runs
type RunList struct {
	Runs     []types.WorkflowRun
	Selected int
	Styles   styles.Styles
	Width    int
	Height   int

	now func() time.Time
}

// NewRunList creates a new run list component
func NewRunList(s styles.Styles) RunList {
	return RunList{
		Styles: s,
		now:    time.Now,
	}
}

// SetRuns sets the workflow runs, keeping the selection in range.
func (r *RunList) SetRuns(runs []types.WorkflowRun) {
	r.Runs = runs
	if r.Selected >= len(runs) {
		r.Selected = max(0, len(runs)-1)
	}
}

// SetSize sets the dimensions of the list
func (r *RunList) SetSize(width, height int) {
	r.Width = width
	r.Height = height
}

// MoveUp moves the selection up
func (r *RunList) MoveUp() {
	if r.Selected > 0 {
		r.Selected--
	}
}

// MoveDown moves the selection down
func (r *RunList) MoveDown() {
	if r.Selected < len(r.Runs)-1 {
		r.Selected++
	}
}

// PageUp moves the selection up by a page
func (r *RunList) PageUp() {
	r.Selected = max(0, r.Selected-r.visibleRows())
}

// PageDown moves the selection down by a page
func (r *RunList) PageDown() {
	r.Selected = max(0, min(len(r.Runs)-1, r.Selected+r.visibleRows()))
}

// GoToTop moves the selection to the top
func (r *RunList) GoToTop() {
	r.Selected = 0
}

// GoToBottom moves the selection to the bottom
func (r *RunList) GoToBottom() {
	if len(r.Runs) > 0 {
		r.Selected = len(r.Runs) - 1
	}
}

// AtTop reports whether the first run is selected.
func (r *RunList) AtTop() bool {
	return r.Selected == 0
}

// AtBottom reports whether the last run is selected, or there are none.
func (r *RunList) AtBottom() bool {
	return r.Selected >= len(r.Runs)-1
}

// SelectedRun returns the currently selected run
func (r *RunList) SelectedRun() *types.WorkflowRun {
	if r.Selected >= 0 && r.Selected < len(r.Runs) {
		return &r.Runs[r.Selected]
	}
	return nil
}

func (r *RunList) visibleRows() int {
	rows := r.Height - 1 // header
	if rows < 1 {
		rows = 10
	}
	return rows
}

// View renders the header and the window of rows around the selection.
func (r *RunList) View() string {
	titleW := r.titleWidth()
	rows := []string{r.renderHeader(titleW)}

	visible := r.visibleRows()
	start := 0
	if r.Selected >= visible {
		start = r.Selected - visible + 1
	}
	end := min(start+visible, len(r.Runs))

	for i := start; i < end; i++ {
		rows = append(rows, r.renderRow(r.Runs[i], i == r.Selected, titleW))
	}
	return strings.Join(rows, "\n")
}

func (r *RunList) titleWidth() int {
	fixed := colStatus + colWorkflow + colBranch + colEvent + colNumber + colAge + colDuration + 7
	return max(minTitle, r.Width-fixed)
}

func (r *RunList) renderHeader(titleW int) string {
	header := strings.Join([]string{
		cell("", colStatus),
		cell("WORKFLOW", colWorkflow),
		cell("TITLE", titleW),
		cell("BRANCH", colBranch),
		cell("EVENT", colEvent),
		cell("RUN", colNumber),
		cell("AGE", colAge),
		cell("DURATION", colDuration),
	}, " ")
	return r.Styles.Header.Render(header)
}

func (r *RunList) renderRow(run types.WorkflowRun, selected bool, titleW int) string {
	icon := styles.StatusIcon(run.Status, run.Conclusion)
	age := ""
	if !run.CreatedAt.IsZero() {
		age = gh.FormatDuration(max(0, int64(r.now().Sub(run.CreatedAt).Seconds())))
	}
	dur := ""
	if !run.RunStartedAt.IsZero() {
		dur = gh.FormatDuration(max(0, int64(run.Duration().Seconds())))
	}

	if selected {
		row := strings.Join([]string{
			cell(icon, colStatus),
			cell(run.Name, colWorkflow),
			cell(run.DisplayTitle, titleW),
			cell(run.HeadBranch, colBranch),
			cell(run.Event, colEvent),
			cell(fmt.Sprintf("#%d", run.RunNumber), colNumber),
			cell(age, colAge),
			cell(dur, colDuration),
		}, " ")
		return r.Styles.Selected.Render(row)
	}

	return strings.Join([]string{
		r.Styles.StatusStyle(run.Status, run.Conclusion).Render(cell(icon, colStatus)),
		cell(run.Name, colWorkflow),
		r.Styles.Normal.Render(cell(run.DisplayTitle, titleW)),
		r.Styles.Branch.Render(cell(run.HeadBranch, colBranch)),
		r.Styles.Dimmed.Render(cell(run.Event, colEvent)),
		cell(fmt.Sprintf("#%d", run.RunNumber), colNumber),
		r.Styles.Dimmed.Render(cell(age, colAge)),
		r.Styles.Duration.Render(cell(dur, colDuration)),
	}, " ")
}

// cell truncates s to width terminal cells and pads it to exactly width.
func cell(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
