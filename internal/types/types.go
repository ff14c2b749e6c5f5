package types

import "time"

// Run statuses reported by the Actions API.
const (
	RunStatusQueued     = "queued"
	RunStatusInProgress = "in_progress"
	RunStatusCompleted  = "completed"
)

// WorkflowRun represents a GitHub Actions workflow run
type WorkflowRun struct {
	ID           int64      `json:"id" cbor:"1,keyasint"`
	Name         string     `json:"name" cbor:"2,keyasint"`
	DisplayTitle string     `json:"display_title" cbor:"3,keyasint"`
	HeadBranch   string     `json:"head_branch" cbor:"4,keyasint"`
	HeadSHA      string     `json:"head_sha" cbor:"5,keyasint"`
	Status       string     `json:"status" cbor:"6,keyasint"`     // queued, in_progress, completed
	Conclusion   string     `json:"conclusion" cbor:"7,keyasint"` // success, failure, cancelled, skipped, etc.
	Event        string     `json:"event" cbor:"8,keyasint"`
	RunNumber    int        `json:"run_number" cbor:"9,keyasint"`
	HTMLURL      string     `json:"html_url" cbor:"10,keyasint"`
	CreatedAt    time.Time  `json:"created_at" cbor:"11,keyasint"`
	UpdatedAt    time.Time  `json:"updated_at" cbor:"12,keyasint"`
	RunStartedAt time.Time  `json:"run_started_at" cbor:"13,keyasint"`
	Repository   Repository `json:"repository" cbor:"14,keyasint"`
}

// Repository represents a GitHub repository
type Repository struct {
	Name     string `json:"name" cbor:"1,keyasint"`
	FullName string `json:"full_name" cbor:"2,keyasint"`
}

// WorkflowRunsResponse is the API response for listing workflow runs
type WorkflowRunsResponse struct {
	TotalCount   int           `json:"total_count"`
	WorkflowRuns []WorkflowRun `json:"workflow_runs"`
}

// RunPage is one page of workflow runs.
type RunPage struct {
	Runs       []WorkflowRun
	TotalCount int
}

// TotalPages converts the total run count into a page count for the given
// page size. It returns 0 when either is unknown.
func (p RunPage) TotalPages(perPage int) int {
	if perPage <= 0 || p.TotalCount <= 0 {
		return 0
	}
	return (p.TotalCount + perPage - 1) / perPage
}

// SortMode is the ordering applied to the run list.
type SortMode string

const (
	SortNone     SortMode = "none" // API order
	SortNewest   SortMode = "newest"
	SortOldest   SortMode = "oldest"
	SortWorkflow SortMode = "workflow"
)

// SortModes lists the modes in cycling order.
var SortModes = []SortMode{SortNone, SortNewest, SortOldest, SortWorkflow}

// Next returns the mode after m, wrapping around.
func (m SortMode) Next() SortMode {
	for i, mode := range SortModes {
		if mode == m {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortModes[0]
}

// GetStatus returns a display-friendly status string
func (r *WorkflowRun) GetStatus() string {
	if r.Status == RunStatusCompleted {
		return r.Conclusion
	}
	return r.Status
}

// Duration returns the duration of the workflow run
func (r *WorkflowRun) Duration() time.Duration {
	if r.Status == RunStatusCompleted {
		return r.UpdatedAt.Sub(r.RunStartedAt)
	}
	return time.Since(r.RunStartedAt)
}
