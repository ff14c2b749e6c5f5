package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/turkosaurus/runpager/internal/config"
	"github.com/turkosaurus/runpager/internal/gh"
	"github.com/turkosaurus/runpager/internal/listing"
	"github.com/turkosaurus/runpager/internal/store"
	"github.com/turkosaurus/runpager/internal/types"
	"github.com/turkosaurus/runpager/internal/ui/components"
	"github.com/turkosaurus/runpager/internal/ui/keys"
	"github.com/turkosaurus/runpager/internal/ui/styles"
)

// override at build time
//
//	go build -ldflags "-X 'github.com/turkosaurus/runpager/internal/ui.Version=1.2.3'"
var Version string = "dev"

// App is the top-level tea.Model. It hosts one listing.Controller and
// renders what the controller tells its ViewState.
type App struct {
	cfg    *config.Config
	client gh.Client
	cache  *store.Cache // nil runs without the offline cache
	styles styles.Styles
	keys   keys.KeyMap

	ctrl   *listing.Controller[types.WorkflowRun]
	view   *ViewState
	cached *store.CachingSource[types.WorkflowRun]

	repos   []string
	repoIdx int
	sort    types.SortMode

	list    components.RunList
	spinner spinner.Model
	input   textinput.Model
	jumping bool

	width, height int
	message       string
	msgSeq        int
	msgTimeout    time.Duration
}

// NewApp builds the run browser for cfg.Repos. cache may be nil.
func NewApp(cfg *config.Config, client gh.Client, cache *store.Cache) App {
	s := styles.DefaultStyles()

	complete := cfg.Messages.Complete
	if complete == "" {
		complete = listing.DefaultTexts().Complete
	}
	view := NewViewState(complete)
	ctrl := listing.New[types.WorkflowRun](view, listing.Options{
		PageSize:      cfg.PageSize,
		LoadEnabled:   cfg.LoadOnScroll,
		ReverseScroll: cfg.ReverseScroll,
		Texts: listing.Texts{
			Retry:    cfg.Messages.Retry,
			Last:     cfg.Messages.Last,
			Complete: complete,
		},
	})

	in := textinput.New()
	in.Prompt = "repo: "
	in.Placeholder = "owner/name"
	in.CharLimit = 100

	a := App{
		cfg:        cfg,
		client:     client,
		cache:      cache,
		styles:     s,
		keys:       keys.DefaultKeyMap(),
		ctrl:       ctrl,
		view:       view,
		repos:      slices.Clone(cfg.Repos),
		sort:       cfg.Sort,
		list:       components.NewRunList(s),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner)),
		input:      in,
		msgTimeout: time.Duration(cfg.MsgTimeout) * time.Second,
	}
	if len(a.repos) > 0 {
		a.attach(a.repos[0])
	}
	return a
}

// Init shows the cached first page when there is one and fetches page 1
// otherwise.
func (a App) Init() tea.Cmd {
	if a.showCached("cached runs") {
		return a.spinner.Tick
	}
	return tea.Batch(a.spinner.Tick, a.ctrl.OnRefreshTrigger())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if a.ctrl.Update(msg) {
		if a.view.Screen == ScreenError {
			a.showCached("offline, showing runs")
		}
	} else {
		switch msg := msg.(type) {
		case tea.WindowSizeMsg:
			a.width = msg.Width
			a.height = msg.Height
			a.list.SetSize(msg.Width, a.bodyHeight())

		case tea.KeyMsg:
			var cmd tea.Cmd
			if a.jumping {
				a, cmd = a.handleJumpKeys(msg)
			} else {
				a, cmd = a.handleKeys(msg)
			}
			cmds = append(cmds, cmd)

		case spinner.TickMsg:
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)

		case openResultMsg:
			if msg.err != nil {
				a.view.ShowToast("error: " + msg.err.Error())
			}

		case clearMsgMsg:
			if msg.seq == a.msgSeq {
				a.message = ""
			}

		default:
			if a.jumping {
				var cmd tea.Cmd
				a.input, cmd = a.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	a.list.SetRuns(a.ctrl.Items())
	if text := a.view.TakeMessage(); text != "" {
		a.message = text
		a.msgSeq++
		cmds = append(cmds, clearMsg(a.msgTimeout, a.msgSeq))
	}
	return a, tea.Batch(cmds...)
}

func (a App) handleKeys(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.ctrl.Destroy()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Retry) && a.view.Screen == ScreenError:
		return a, a.ctrl.OnRefreshTrigger()

	case key.Matches(msg, a.keys.Up):
		if a.list.AtTop() && a.scrollLoads(true) {
			return a, a.ctrl.OnLoadTrigger()
		}
		a.list.MoveUp()

	case key.Matches(msg, a.keys.Down):
		if a.list.AtBottom() && a.scrollLoads(false) {
			return a, a.ctrl.OnLoadTrigger()
		}
		a.list.MoveDown()

	case key.Matches(msg, a.keys.PageUp):
		a.list.PageUp()

	case key.Matches(msg, a.keys.PageDown):
		a.list.PageDown()

	case key.Matches(msg, a.keys.Top):
		a.list.GoToTop()

	case key.Matches(msg, a.keys.Bottom):
		a.list.GoToBottom()

	case key.Matches(msg, a.keys.Refresh):
		return a, a.ctrl.OnRefreshTrigger()

	case key.Matches(msg, a.keys.LoadMore):
		return a, a.ctrl.OnLoadTrigger()

	case key.Matches(msg, a.keys.Cancel):
		if a.ctrl.IsLoading() {
			a.ctrl.Cancel()
			a.view.ShowToast("cancelled")
		}

	case key.Matches(msg, a.keys.Sort):
		a.sort = a.sort.Next()
		a.ctrl.SetComparator(comparatorFor(a.sort))
		a.view.ShowToast("sort: " + string(a.sort))

	case key.Matches(msg, a.keys.NextRepo):
		if len(a.repos) > 1 {
			return a, a.switchRepo((a.repoIdx + 1) % len(a.repos))
		}

	case key.Matches(msg, a.keys.Jump):
		a.jumping = true
		a.input.SetValue("")
		return a, a.input.Focus()

	case key.Matches(msg, a.keys.Open):
		if run := a.list.SelectedRun(); run != nil && run.HTMLURL != "" {
			return a, openInBrowser(a.client, run.HTMLURL)
		}
	}
	return a, nil
}

func (a App) handleJumpKeys(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.jumping = false
		a.input.Blur()
		return a, nil
	case tea.KeyEnter:
		a.jumping = false
		a.input.Blur()
		repo := strings.TrimSpace(a.input.Value())
		if owner, name := gh.SplitRepo(repo); owner == "" || name == "" {
			a.view.ShowToast(fmt.Sprintf("not a repository: %q", repo))
			return a, nil
		}
		idx := slices.Index(a.repos, repo)
		if idx < 0 {
			a.repos = append(a.repos, repo)
			idx = len(a.repos) - 1
		}
		return a, a.switchRepo(idx)
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// scrollLoads reports whether scrolling past the given end of the list
// should fetch the next page.
func (a App) scrollLoads(top bool) bool {
	return a.ctrl.LoadEnabled() &&
		a.ctrl.ReverseScroll() == top &&
		!a.ctrl.IsEmpty() &&
		!a.ctrl.IsLoading() &&
		!a.ctrl.IsLastPage()
}

func (a *App) switchRepo(idx int) tea.Cmd {
	a.repoIdx = idx
	a.attach(a.repos[idx])
	a.list.GoToTop()
	return a.ctrl.OnRefreshTrigger()
}

// attach points the controller at repo, through the cache when there is one.
func (a *App) attach(repo string) {
	var src listing.Source[types.WorkflowRun] = gh.NewRunSource(a.client, repo)
	a.cached = nil
	if a.cache != nil {
		a.cached = store.NewCachingSource(src, a.cache, repo)
		src = a.cached
	}
	a.ctrl.Attach(src, comparatorFor(a.sort))
	slog.Info("attached repository", "repo", repo, "sort", a.sort)
}

// showCached replaces the list with the cached first page of the current
// repo. It reports false when nothing is cached.
func (a App) showCached(label string) bool {
	if a.cached == nil {
		return false
	}
	runs, savedAt, err := a.cached.Cached()
	if err != nil {
		if !errors.Is(err, store.ErrNotCached) {
			slog.Warn("read cached runs", "repo", a.currentRepo(), "error", err)
		}
		return false
	}
	if len(runs) == 0 {
		return false
	}
	a.ctrl.Clear()
	a.ctrl.From(runs, false)
	// a cached first page says nothing about how many follow
	a.ctrl.SetTotalPage(a.ctrl.CurrentPage() + 1)
	a.view.ShowToast(fmt.Sprintf("%s from %s, %s to refresh",
		label, savedAt.Local().Format("Jan 2 15:04"), a.keys.Refresh.Help().Key))
	return true
}

func (a App) currentRepo() string {
	if a.repoIdx < len(a.repos) {
		return a.repos[a.repoIdx]
	}
	return ""
}

func comparatorFor(mode types.SortMode) listing.Comparator[types.WorkflowRun] {
	var byCreated listing.Comparator[types.WorkflowRun] = func(x, y types.WorkflowRun) int {
		return x.CreatedAt.Compare(y.CreatedAt)
	}
	switch mode {
	case types.SortNewest:
		return listing.Reverse(byCreated)
	case types.SortOldest:
		return byCreated
	case types.SortWorkflow:
		return listing.CompareBy(func(r types.WorkflowRun) string { return strings.ToLower(r.Name) })
	default:
		return nil
	}
}

func (a App) View() string {
	w := a.width
	if w == 0 {
		w = 80
	}
	body := lipgloss.NewStyle().
		Width(w).
		Height(a.bodyHeight()).
		MaxHeight(a.bodyHeight()).
		Render(a.renderBody())

	return lipgloss.JoinVertical(lipgloss.Left,
		renderTitle(a, w),
		body,
		a.renderStatus(w),
		a.renderHelpBar(w),
	)
}

// bodyHeight leaves room for the title, status and help lines.
func (a App) bodyHeight() int {
	h := a.height
	if h == 0 {
		h = 24
	}
	return max(1, h-3)
}

func (a App) renderBody() string {
	switch a.view.Screen {
	case ScreenIdle, ScreenLoading:
		return a.spinner.View() + " " + a.styles.Dimmed.Render("loading workflow runs...")
	case ScreenEmpty:
		return a.styles.Dimmed.Render("no workflow runs found")
	case ScreenError:
		return a.styles.Error.Render("could not load workflow runs") + "\n" +
			a.styles.Dimmed.Render("press "+a.keys.Retry.Help().Key+" to try again")
	default:
		return a.list.View()
	}
}

func (a App) renderStatus(width int) string {
	if a.jumping {
		return a.input.View()
	}

	var parts []string
	if !a.ctrl.IsEmpty() {
		parts = append(parts, fmt.Sprintf("page %d/%d", a.ctrl.CurrentPage(), a.ctrl.TotalPage()))
		parts = append(parts, fmt.Sprintf("%d runs", a.ctrl.Len()))
		if a.view.LastBatch > 0 {
			parts = append(parts, fmt.Sprintf("+%d", a.view.LastBatch))
		}
	}
	switch {
	case a.view.Refreshing && a.view.Screen == ScreenContent:
		parts = append(parts, a.spinner.View()+" refreshing")
	case a.view.LoadingMore:
		parts = append(parts, a.spinner.View()+fmt.Sprintf(" loading page %d", a.ctrl.CurrentPage()))
	}
	left := a.styles.Dimmed.Render(strings.Join(parts, "  "))
	right := a.styles.Toast.Render(a.message)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (a App) renderHelpBar(width int) string {
	if a.jumping {
		return strings.Join([]string{
			a.styles.HelpKey.Render("enter") + " " + a.styles.HelpDesc.Render("go"),
			bindingHelp(a.styles, a.keys.Back),
		}, "  ")
	}

	var items []string
	if a.view.Screen == ScreenError {
		items = append(items, bindingHelp(a.styles, a.keys.Retry))
	}
	items = append(items,
		bindingHelp(a.styles, a.keys.Refresh),
		bindingHelp(a.styles, a.keys.LoadMore),
	)
	if a.ctrl.IsLoading() {
		items = append(items, bindingHelp(a.styles, a.keys.Cancel))
	}
	items = append(items, bindingHelp(a.styles, a.keys.Sort))
	if len(a.repos) > 1 {
		items = append(items, bindingHelp(a.styles, a.keys.NextRepo))
	}
	items = append(items,
		bindingHelp(a.styles, a.keys.Jump),
		bindingHelp(a.styles, a.keys.Open),
	)

	left := strings.Join(items, "  ")
	right := bindingHelp(a.styles, a.keys.Quit)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

// bindingHelp renders a single key binding as a "key  desc" help item.
func bindingHelp(s styles.Styles, b key.Binding) string {
	return s.HelpKey.Render(b.Help().Key) + " " + s.HelpDesc.Render(b.Help().Desc)
}

func renderTitle(a App, width int) string {
	title := a.styles.Title.Render(fmt.Sprintf("runpager (%s)", Version))
	repo := a.styles.Repo.Render(a.currentRepo())
	if len(a.repos) > 1 {
		repo += a.styles.Dimmed.Render(fmt.Sprintf(" [%d/%d]", a.repoIdx+1, len(a.repos)))
	}
	left := title + "  " + repo

	right := a.styles.FilterActive.Render("sort: " + string(a.sort))
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
