package gh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/turkosaurus/runpager/internal/types"
)

// Client is the subset of the GitHub API the pager needs.
type Client interface {
	ListWorkflowRuns(ctx context.Context, repo string, page, perPage int) (types.RunPage, error)
	OpenInBrowser(url string) error
}

// cliClient wraps the gh CLI for API calls
type cliClient struct{}

// NewClient creates a new GitHub API client backed by the gh CLI.
func NewClient() Client {
	return cliClient{}
}

// ListWorkflowRuns fetches one page of workflow runs for a repository.
// Pages are 1-based; a page past the end comes back empty.
func (c cliClient) ListWorkflowRuns(ctx context.Context, repo string, page, perPage int) (types.RunPage, error) {
	endpoint := runsEndpoint(repo, page, perPage)
	output, err := c.apiCall(ctx, "GET", endpoint)
	if err != nil {
		return types.RunPage{}, err
	}
	return parseRunPage(output)
}

// OpenInBrowser opens a URL in the default browser
func (c cliClient) OpenInBrowser(url string) error {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	return exec.Command(opener, url).Start()
}

func runsEndpoint(repo string, page, perPage int) string {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		return fmt.Sprintf("repos/%s/actions/runs?page=%d", repo, page)
	}
	return fmt.Sprintf("repos/%s/actions/runs?per_page=%d&page=%d", repo, perPage, page)
}

func parseRunPage(data []byte) (types.RunPage, error) {
	var response types.WorkflowRunsResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return types.RunPage{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return types.RunPage{Runs: response.WorkflowRuns, TotalCount: response.TotalCount}, nil
}

// apiCall makes an API call using the gh CLI
func (c cliClient) apiCall(ctx context.Context, method, endpoint string, extraArgs ...string) ([]byte, error) {
	args := append([]string{"api", "-X", method, endpoint}, extraArgs...)
	cmd := exec.CommandContext(ctx, "gh", args...)
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("gh api %s: %w", endpoint, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("gh api error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("failed to execute gh: %w", err)
	}
	return output, nil
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d int64) string {
	seconds := d
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	seconds = seconds % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// SplitRepo splits a repo string into owner and name
func SplitRepo(repo string) (owner, name string) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 {
		return "", repo
	}
	return parts[0], parts[1]
}
