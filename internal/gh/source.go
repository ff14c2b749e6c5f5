package gh

import (
	"context"
	"log/slog"

	"github.com/turkosaurus/runpager/internal/listing"
	"github.com/turkosaurus/runpager/internal/types"
)

// RunSource pages through the workflow runs of one repository.
type RunSource struct {
	client Client
	repo   string
}

// NewRunSource returns a listing source for repo.
func NewRunSource(client Client, repo string) *RunSource {
	return &RunSource{client: client, repo: repo}
}

// Repo returns the repository this source reads.
func (s *RunSource) Repo() string { return s.repo }

// Fetch implements listing.Source.
func (s *RunSource) Fetch(ctx context.Context, req listing.PageRequest) (listing.Batch[types.WorkflowRun], error) {
	page, err := s.client.ListWorkflowRuns(ctx, s.repo, req.Page, req.PageSize)
	if err != nil {
		return listing.Batch[types.WorkflowRun]{}, err
	}
	slog.Debug("fetched workflow runs",
		"repo", s.repo,
		"page", req.Page,
		"count", len(page.Runs),
		"total", page.TotalCount,
	)
	return listing.Batch[types.WorkflowRun]{
		Items:     page.Runs,
		TotalPage: page.TotalPages(req.PageSize),
	}, nil
}
