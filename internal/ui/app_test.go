package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turkosaurus/runpager/internal/config"
	"github.com/turkosaurus/runpager/internal/store"
	"github.com/turkosaurus/runpager/internal/types"
)

type fakeClient struct {
	runs     map[string][]types.WorkflowRun
	fail     error
	requests []string
	opened   []string
}

func (f *fakeClient) ListWorkflowRuns(_ context.Context, repo string, page, perPage int) (types.RunPage, error) {
	f.requests = append(f.requests, fmt.Sprintf("%s#%d", repo, page))
	if f.fail != nil {
		return types.RunPage{}, f.fail
	}
	all := f.runs[repo]
	start := (page - 1) * perPage
	if start >= len(all) {
		return types.RunPage{TotalCount: len(all)}, nil
	}
	end := min(start+perPage, len(all))
	return types.RunPage{Runs: all[start:end], TotalCount: len(all)}, nil
}

func (f *fakeClient) OpenInBrowser(url string) error {
	f.opened = append(f.opened, url)
	return nil
}

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func makeRuns(repo string, n int) []types.WorkflowRun {
	runs := make([]types.WorkflowRun, n)
	for i := range runs {
		runs[i] = types.WorkflowRun{
			ID:         int64(i + 1),
			Name:       fmt.Sprintf("wf-%d", i+1),
			Status:     types.RunStatusCompleted,
			Conclusion: "success",
			RunNumber:  i + 1,
			HTMLURL:    fmt.Sprintf("https://github.com/%s/actions/runs/%d", repo, i+1),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			Repository: types.Repository{FullName: repo},
		}
	}
	return runs
}

func newTestApp(t *testing.T, client *fakeClient, cache *store.Cache, repos ...string) App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Repos = repos
	cfg.PageSize = 2
	a := NewApp(cfg, client, cache)
	a.msgTimeout = time.Millisecond
	return a
}

// collect executes cmd and flattens batches. Timers are dropped so the
// status line keeps its message.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case spinner.TickMsg, clearMsgMsg:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

// run feeds the results of cmd back into the app until nothing is left.
func run(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	for _, msg := range collect(cmd) {
		m, next := a.Update(msg)
		a = m.(App)
		a = run(t, a, next)
	}
	return a
}

func update(a App, msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppInitLoadsFirstPage(t *testing.T) {
	client := &fakeClient{runs: map[string][]types.WorkflowRun{"o/r": makeRuns("o/r", 5)}}
	a := newTestApp(t, client, nil, "o/r")

	a = run(t, a, a.Init())

	assert.Equal(t, ScreenContent, a.view.Screen)
	assert.Len(t, a.list.Runs, 2)
	assert.Equal(t, 1, a.ctrl.CurrentPage())
	assert.Equal(t, 3, a.ctrl.TotalPage())
	assert.False(t, a.view.Refreshing)
	assert.Equal(t, []string{"o/r#1"}, client.requests)
}

func TestAppScrollLoadsNextPage(t *testing.T) {
	client := &fakeClient{runs: map[string][]types.WorkflowRun{"o/r": makeRuns("o/r", 5)}}
	a := newTestApp(t, client, nil, "o/r")
	a = run(t, a, a.Init())

	var cmd tea.Cmd
	a, cmd = update(a, tea.KeyMsg{Type: tea.KeyDown})
	assert.Nil(t, cmd, "moving inside the list does not load")
	assert.Equal(t, 1, a.list.Selected)

	a, cmd = update(a, tea.KeyMsg{Type: tea.KeyDown})
	require.NotNil(t, cmd)
	assert.True(t, a.view.LoadingMore)
	a = run(t, a, cmd)

	assert.Len(t, a.list.Runs, 4)
	assert.Equal(t, 2, a.ctrl.CurrentPage())
	assert.Equal(t, 2, a.view.LastBatch)
	assert.False(t, a.view.LoadingMore)
	assert.Equal(t, "2 items loaded", a.message)

	a, _ = update(a, keyRunes("G"))
	a, cmd = update(a, tea.KeyMsg{Type: tea.KeyDown})
	a = run(t, a, cmd)

	assert.Len(t, a.list.Runs, 5)
	assert.True(t, a.ctrl.IsLastPage())
	assert.Equal(t, "no more pages", a.message)

	a, _ = update(a, keyRunes("G"))
	_, cmd = update(a, tea.KeyMsg{Type: tea.KeyDown})
	assert.Nil(t, cmd, "no fetch past the last page")
	assert.Equal(t, []string{"o/r#1", "o/r#2", "o/r#3"}, client.requests)
}

func TestAppLoadMoreKey(t *testing.T) {
	client := &fakeClient{runs: map[string][]types.WorkflowRun{"o/r": makeRuns("o/r", 3)}}
	a := newTestApp(t, client, nil, "o/r")
	a = run(t, a, a.Init())

	a, cmd := update(a, keyRunes("L"))
	a = run(t, a, cmd)
	assert.Len(t, a.list.Runs, 3)

	a.message = ""
	a, _ = update(a, keyRunes("L"))
	assert.Equal(t, "no more pages", a.message)
	assert.Equal(t, []string{"o/r#1", "o/r#2"}, client.requests, "no fetch past the last page")
}

func TestAppErrorScreenRetry(t *testing.T) {
	client := &fakeClient{
		runs: map[string][]types.WorkflowRun{"o/r": makeRuns("o/r", 2)},
		fail: errors.New("network down"),
	}
	a := newTestApp(t, client, nil, "o/r")
	a = run(t, a, a.Init())
	assert.Equal(t, ScreenError, a.view.Screen)
	assert.Contains(t, a.View(), "could not load workflow runs")

	client.fail = nil
	a, cmd := update(a, keyRunes("r"))
	require.NotNil(t, cmd)
	a = run(t, a, cmd)
	assert.Equal(t, ScreenContent, a.view.Screen)
	assert.Len(t, a.list.Runs, 2)
}

func TestAppRetryKeyOnlyOnErrorScreen(t *testing.T) {
	client := &fakeClient{runs: map[string][]types.WorkflowRun{"o/r": makeRuns("o/r", 2)}}
	a := newTestApp(t, client, nil, "o/r")
	a = run(t, a, a.Init())

	_, cmd := update(a, keyRunes("r"))
	assert.Nil(t, cmd)
	assert.Len(t, client.requests, 1)
}

func TestAppCachedRuns(t *testing.T) {
	cache, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	cached := makeRuns("o/r", 2)
	require.NoError(t, cache.Put("o/r", cached))

	client := &fakeClient{fail: errors.New("offline")}
	a := newTestApp(t, client, cache, "o/r")

	t.Run("startup", func(t *testing.T) {
		a = run(t, a, a.Init())
		a, _ = update(a, tea.WindowSizeMsg{Width: 120, Height: 30})

		assert.Empty(t, client.requests, "cached content is shown without fetching")
		assert.Equal(t, ScreenContent, a.view.Screen)
		assert.Len(t, a.list.Runs, 2)
		assert.Contains(t, a.message, "cached runs from")
		assert.Equal(t, 2, a.ctrl.TotalPage())
	})

	t.Run("refresh failure falls back", func(t *testing.T) {
		a, cmd := update(a, keyRunes("R"))
		assert.Equal(t, ScreenLoading, a.view.Screen)
		a = run(t, a, cmd)

		assert.Equal(t, ScreenContent, a.view.Screen)
		assert.Len(t, a.list.Runs, 2)
		assert.Contains(t, a.message, "offline")
		assert.Equal(t, []string{"o/r#1"}, client.requests)
	})
}

func TestAppRefreshUpdatesCache(t *testing.T) {
	cache, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	client := &fakeClient{runs: map[string][]types.WorkflowRun{"o/r": makeRuns("o/r", 3)}}
	a := newTestApp(t, client, cache, "o/r")
	a = run(t, a, a.Init())
	require.Len(t, a.list.Runs, 2)

	var got []types.WorkflowRun
	_, err = cache.Get("o/r", &got)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAppCancelLoad(t *testing.T) {
	client := &fakeClient{runs: map[string][]types.WorkflowRun{"o/r": makeRuns("o/r", 5)}}
	a := newTestApp(t, client, nil, "o/r")
	a = run(t, a, a.Init())

	a, load := update(a, keyRunes("L"))
	require.NotNil(t, load)
	assert.True(t, a.ctrl.IsLoading())
	assert.True(t, a.view.LoadingMore)

	a, _ = update(a, keyRunes("x"))
	assert.False(t, a.ctrl.IsLoading())
	assert.False(t, a.view.LoadingMore)
	assert.Equal(t, "cancelled", a.message)
	assert.Equal(t, 1, a.ctrl.CurrentPage())

	a = run(t, a, load)
	assert.Len(t, a.list.Runs, 2, "late page is dropped")
	assert.Equal(t, ScreenContent, a.view.Screen)
}

func TestAppSortCycles(t *testing.T) {
	client := &fakeClient{runs: map[string][]types.WorkflowRun{"o/r": makeRuns("o/r", 2)}}
	a := newTestApp(t, client, nil, "o/r")
	a = run(t, a, a.Init())
	require.Equal(t, int64(1), a.list.Runs[0].ID)

	a, _ = update(a, keyRunes("s"))
	assert.Equal(t, types.SortNewest, a.sort)
	assert.Equal(t, "sort: newest", a.message)
	assert.Equal(t, int64(2), a.list.Runs[0].ID)

	a, _ = update(a, keyRunes("s"))
	assert.Equal(t, types.SortOldest, a.sort)
	assert.Equal(t, int64(1), a.list.Runs[0].ID)
}

func TestAppNextRepo(t *testing.T) {
	client := &fakeClient{runs: map[string][]types.WorkflowRun{
		"o/a": makeRuns("o/a", 2),
		"o/b": makeRuns("o/b", 1),
	}}
	a := newTestApp(t, client, nil, "o/a", "o/b")
	a = run(t, a, a.Init())

	a, cmd := update(a, tea.KeyMsg{Type: tea.KeyTab})
	a = run(t, a, cmd)

	assert.Equal(t, "o/b", a.currentRepo())
	require.Len(t, a.list.Runs, 1)
	assert.Equal(t, "o/b", a.list.Runs[0].Repository.FullName)
	assert.Equal(t, []string{"o/a#1", "o/b#1"}, client.requests)
}

func TestAppJumpToRepo(t *testing.T) {
	client := &fakeClient{runs: map[string][]types.WorkflowRun{
		"o/a": makeRuns("o/a", 1),
		"x/y": makeRuns("x/y", 2),
	}}
	a := newTestApp(t, client, nil, "o/a")
	a = run(t, a, a.Init())

	t.Run("valid", func(t *testing.T) {
		a, _ := update(a, keyRunes("/"))
		require.True(t, a.jumping)
		a, _ = update(a, keyRunes("x/y"))
		a, cmd := update(a, tea.KeyMsg{Type: tea.KeyEnter})
		assert.False(t, a.jumping)
		a = run(t, a, cmd)

		assert.Equal(t, "x/y", a.currentRepo())
		assert.Equal(t, []string{"o/a", "x/y"}, a.repos)
		assert.Len(t, a.list.Runs, 2)
	})

	t.Run("invalid", func(t *testing.T) {
		b := newTestApp(t, client, nil, "o/a")
		b, _ = update(b, keyRunes("/"))
		b, _ = update(b, keyRunes("nope"))
		b, cmd := update(b, tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, collect(cmd))
		assert.Equal(t, `not a repository: "nope"`, b.message)
		assert.Equal(t, []string{"o/a"}, b.repos)
	})

	t.Run("escape", func(t *testing.T) {
		b := newTestApp(t, client, nil, "o/a")
		b, _ = update(b, keyRunes("/"))
		b, _ = update(b, tea.KeyMsg{Type: tea.KeyEsc})
		assert.False(t, b.jumping)
	})
}

func TestAppOpenInBrowser(t *testing.T) {
	client := &fakeClient{runs: map[string][]types.WorkflowRun{"o/r": makeRuns("o/r", 2)}}
	a := newTestApp(t, client, nil, "o/r")
	a = run(t, a, a.Init())

	a, _ = update(a, tea.KeyMsg{Type: tea.KeyDown})
	a, cmd := update(a, keyRunes("o"))
	run(t, a, cmd)
	assert.Equal(t, []string{"https://github.com/o/r/actions/runs/2"}, client.opened)
}

func TestAppQuitDestroysController(t *testing.T) {
	client := &fakeClient{runs: map[string][]types.WorkflowRun{"o/r": makeRuns("o/r", 2)}}
	a := newTestApp(t, client, nil, "o/r")
	a = run(t, a, a.Init())

	a, cmd := update(a, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, a.ctrl.OnRefreshTrigger())
	assert.Equal(t, 0, a.ctrl.Len())
}

func TestComparatorFor(t *testing.T) {
	older := types.WorkflowRun{Name: "Zeta", CreatedAt: base}
	newer := types.WorkflowRun{Name: "alpha", CreatedAt: base.Add(time.Hour)}

	tests := []struct {
		mode types.SortMode
		want int // sign of cmp(older, newer)
	}{
		{types.SortNewest, 1},
		{types.SortOldest, -1},
		{types.SortWorkflow, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := comparatorFor(tt.mode)(older, newer)
			assert.Equal(t, tt.want, sign(got))
		})
	}
	assert.Nil(t, comparatorFor(types.SortNone))
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
