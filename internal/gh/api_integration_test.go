//go:build integration

package gh

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/turkosaurus/runpager/internal/config"
)

func TestMain(m *testing.M) {
	if err := exec.Command("gh", "auth", "status").Run(); err != nil {
		fmt.Println("skipping integration tests: gh not available or not authenticated")
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func testRepo(t *testing.T) string {
	t.Helper()
	if r := os.Getenv("RUNPAGER_TEST_REPO"); r != "" {
		return r
	}
	cfg, err := config.Load()
	if err != nil || len(cfg.Repos) == 0 {
		t.Skip("no repo configured: set RUNPAGER_TEST_REPO or configure ~/.config/runpager/config.yml")
	}
	return cfg.Repos[0]
}

func TestCLIClientListWorkflowRuns(t *testing.T) {
	repo := testRepo(t)
	client := NewClient()

	page, err := client.ListWorkflowRuns(context.Background(), repo, 1, 5)
	if err != nil {
		t.Fatalf("ListWorkflowRuns(%q, 1, 5) error: %v", repo, err)
	}
	if len(page.Runs) > 5 {
		t.Errorf("got %d runs, want at most 5", len(page.Runs))
	}
	if len(page.Runs) > 0 {
		if page.Runs[0].ID <= 0 {
			t.Errorf("runs[0].ID = %d, want > 0", page.Runs[0].ID)
		}
		if page.Runs[0].Status == "" {
			t.Errorf("runs[0].Status is empty")
		}
	}
}

func TestCLIClientPagePastEnd(t *testing.T) {
	repo := testRepo(t)
	client := NewClient()

	first, err := client.ListWorkflowRuns(context.Background(), repo, 1, 5)
	if err != nil {
		t.Fatalf("ListWorkflowRuns(%q, 1, 5) error: %v", repo, err)
	}
	past := first.TotalPages(5) + 1
	page, err := client.ListWorkflowRuns(context.Background(), repo, past, 5)
	if err != nil {
		t.Fatalf("ListWorkflowRuns(%q, %d, 5) error: %v", repo, past, err)
	}
	if len(page.Runs) != 0 {
		t.Errorf("page %d returned %d runs, want none", past, len(page.Runs))
	}
}

func TestCLIClientCancelled(t *testing.T) {
	repo := testRepo(t)
	client := NewClient()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.ListWorkflowRuns(ctx, repo, 1, 5); !errors.Is(err, context.Canceled) {
		t.Errorf("ListWorkflowRuns with cancelled context error = %v, want context.Canceled", err)
	}
}
