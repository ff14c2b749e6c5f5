// Package listing drives paginated data from a Source into an in-memory
// list and tells a Sink what to display while it does so.
//
// A Controller is not safe for concurrent use. Every method, including
// Update, must run on one loop: a bubbletea program's Update, or a Loop.
// Fetches run off that loop as tea.Cmds and come back as messages.
package listing

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// Action is what a Controller is currently doing.
type Action int

const (
	ActionNone    Action = iota
	ActionRefresh        // restarting from page 1
	ActionLoad           // fetching the next page
)

func (a Action) String() string {
	switch a {
	case ActionRefresh:
		return "refresh"
	case ActionLoad:
		return "load"
	default:
		return "none"
	}
}

// Options configures a Controller.
type Options struct {
	PageSize      int
	ReverseInsert bool // append each fetched batch back to front
	LoadEnabled   bool // scrolling to the end may trigger a load-more
	ReverseScroll bool // the load-more end is the top instead of the bottom
	Texts         Texts
}

// pageLoadedMsg carries a finished fetch back onto the loop.
type pageLoadedMsg[T any] struct {
	id    uint64
	gen   uint64
	req   PageRequest
	batch Batch[T]
	err   error
}

var controllerSeq atomic.Uint64

// Controller coordinates pagination, fetching, sorting and display state
// for one list.
type Controller[T any] struct {
	id     uint64
	source Source[T]
	order  Comparator[T]
	sink   Sink
	texts  Texts

	pageSize      int
	reverseInsert bool
	loadEnabled   bool
	reverseScroll bool

	items  []T
	page   Pagination
	action Action

	// in-flight fetch bookkeeping
	gen       uint64
	inFlight  bool
	requested int
	advanced  bool // the in-flight load-more moved the cursor forward
	stop      context.CancelFunc

	destroyed bool
}

// New returns an empty controller reporting to sink. A source must be
// attached before any fetch can start.
func New[T any](sink Sink, opts Options) *Controller[T] {
	if sink == nil {
		sink = nopSink{}
	}
	return &Controller[T]{
		id:            controllerSeq.Add(1),
		sink:          sink,
		texts:         withDefaults(opts.Texts),
		pageSize:      opts.PageSize,
		reverseInsert: opts.ReverseInsert,
		loadEnabled:   opts.LoadEnabled,
		reverseScroll: opts.ReverseScroll,
		page:          NewPagination(),
	}
}

func withDefaults(t Texts) Texts {
	def := DefaultTexts()
	if t.Retry == "" {
		t.Retry = def.Retry
	}
	if t.Last == "" {
		t.Last = def.Last
	}
	if t.Complete == "" {
		t.Complete = def.Complete
	}
	return t
}

// Attach sets the item source and the optional ordering. Any fetch still
// running against the previous source is cancelled.
func (c *Controller[T]) Attach(src Source[T], order Comparator[T]) {
	if c.destroyed {
		return
	}
	if c.inFlight {
		c.Cancel()
	}
	c.source = src
	c.SetComparator(order)
}

// SetComparator replaces the ordering and re-sorts the current items.
// A nil comparator keeps insertion order from now on.
func (c *Controller[T]) SetComparator(order Comparator[T]) {
	if c.destroyed {
		return
	}
	c.order = order
	c.sort()
}

// OnRefreshTrigger restarts the list from page 1. It returns nil when a
// fetch is already in flight.
func (c *Controller[T]) OnRefreshTrigger() tea.Cmd {
	if !c.canStart() {
		return nil
	}
	c.items = nil
	c.page.Rewind()
	c.action = ActionRefresh
	c.setRefreshIndicator(true)
	return c.request(PageRequest{Page: 1, PageSize: c.pageSize})
}

// OnLoadTrigger fetches the page after the current one. It returns nil when
// a fetch is already in flight or the last page has been reached.
func (c *Controller[T]) OnLoadTrigger() tea.Cmd {
	if !c.canStart() {
		return nil
	}
	if c.page.IsLast() && len(c.items) > 0 {
		slog.Debug("load past last page", "controller", c.id, "page", c.page.Current)
		c.sink.ShowToast(c.texts.Last)
		return nil
	}
	c.action = ActionLoad
	before := c.page.Current
	c.page.Next()
	cmd := c.request(PageRequest{Page: c.page.Current, PageSize: c.pageSize})
	c.advanced = c.page.Current != before
	return cmd
}

// FromRequest fetches an explicit page without starting a refresh or
// load-more. The result is applied like any other page.
func (c *Controller[T]) FromRequest(req PageRequest) tea.Cmd {
	if !c.canStart() {
		return nil
	}
	if req.PageSize == 0 {
		req.PageSize = c.pageSize
	}
	return c.request(req)
}

// From appends items that are already at hand, optionally back to front,
// and settles as if they had been fetched. It is ignored while a fetch is
// in flight.
func (c *Controller[T]) From(items []T, reverse bool) {
	if c.destroyed || items == nil {
		return
	}
	if c.inFlight {
		slog.Debug("populate rejected, fetch in flight", "controller", c.id)
		return
	}
	c.preAction()
	c.append(items, reverse)
	c.page.LastBatch = len(items)
	c.sort()
	c.settle(c.page.Current)
}

// Update applies a finished fetch. It reports whether msg belonged to this
// controller; stale results of cancelled fetches are consumed and dropped.
func (c *Controller[T]) Update(msg tea.Msg) bool {
	m, ok := msg.(pageLoadedMsg[T])
	if !ok || m.id != c.id {
		return false
	}
	if c.destroyed || !c.inFlight || m.gen != c.gen {
		slog.Debug("dropping stale page", "controller", c.id, "page", m.req.Page, "gen", m.gen)
		return true
	}
	c.release()
	if m.err != nil {
		slog.Warn("fetch page", "controller", c.id, "page", m.req.Page, "error", m.err)
		c.fail()
		return true
	}
	c.receive(m.batch)
	return true
}

// Cancel abandons the in-flight fetch, if any, and stops both indicators.
// A cancelled load-more gives back the page it advanced to.
func (c *Controller[T]) Cancel() {
	if c.destroyed {
		return
	}
	wasLoading := c.inFlight
	c.abort()
	if c.action != ActionNone {
		if c.advanced {
			c.page.Previous()
		}
		c.action = ActionNone
		c.advanced = false
		c.setRefreshIndicator(false)
		c.completeLoad(-1)
	}
	if !wasLoading {
		return
	}
	slog.Debug("cancelled", "controller", c.id, "page", c.page.Current)
	// leave the loading screen behind
	if len(c.items) == 0 {
		c.sink.ShowEmpty()
	} else {
		c.sink.ShowContent()
	}
}

// Clear cancels any fetch, drops all items and rewinds to page 1. The total
// page count is kept.
func (c *Controller[T]) Clear() {
	if c.destroyed {
		return
	}
	c.Cancel()
	c.items = nil
	c.page.Rewind()
}

// Destroy clears the controller and detaches it from its sink and source.
// Every later call is a no-op.
func (c *Controller[T]) Destroy() {
	if c.destroyed {
		return
	}
	c.Cancel()
	c.Clear()
	c.sink = nopSink{}
	c.source = nil
	c.destroyed = true
}

// SetLoadEnabled controls whether reaching the end of the list should
// trigger a load-more. The host consults LoadEnabled.
func (c *Controller[T]) SetLoadEnabled(enabled bool) { c.loadEnabled = enabled }

// SetReverseScroll flips the load-more end from the bottom to the top.
func (c *Controller[T]) SetReverseScroll(reverse bool) { c.reverseScroll = reverse }

// SetTotalPage overrides the known page count.
func (c *Controller[T]) SetTotalPage(total int) {
	if total < 1 {
		total = 1
	}
	c.page.Total = total
}

// NextPage and PreviousPage move the cursor by hand, without fetching.
func (c *Controller[T]) NextPage()     { c.page.Next() }
func (c *Controller[T]) PreviousPage() { c.page.Previous() }

func (c *Controller[T]) LoadEnabled() bool   { return c.loadEnabled }
func (c *Controller[T]) ReverseScroll() bool { return c.reverseScroll }
func (c *Controller[T]) Action() Action      { return c.action }
func (c *Controller[T]) IsLoading() bool     { return c.inFlight }
func (c *Controller[T]) Pagination() Pagination {
	return c.page
}
func (c *Controller[T]) CurrentPage() int   { return c.page.Current }
func (c *Controller[T]) TotalPage() int     { return c.page.Total }
func (c *Controller[T]) LastBatchSize() int { return c.page.LastBatch }
func (c *Controller[T]) IsFirstPage() bool  { return c.page.IsFirst() }
func (c *Controller[T]) IsLastPage() bool   { return c.page.IsLast() }
func (c *Controller[T]) Len() int           { return len(c.items) }
func (c *Controller[T]) IsEmpty() bool      { return len(c.items) == 0 }

// Items returns a copy of the current list.
func (c *Controller[T]) Items() []T {
	return slices.Clone(c.items)
}

func (c *Controller[T]) canStart() bool {
	switch {
	case c.destroyed:
		return false
	case c.source == nil:
		slog.Debug("trigger ignored, no source", "controller", c.id)
		return false
	case c.inFlight:
		slog.Debug("trigger ignored, fetch in flight", "controller", c.id, "action", c.action)
		return false
	}
	return true
}

// preAction puts the sink into its "working" state.
func (c *Controller[T]) preAction() {
	if len(c.items) == 0 {
		c.sink.ShowLoading()
	} else if c.action == ActionLoad {
		c.setLoadIndicator(true, -1)
	}
}

func (c *Controller[T]) request(req PageRequest) tea.Cmd {
	c.preAction()
	ctx, stop := context.WithCancel(context.Background())
	c.gen++
	c.inFlight = true
	c.requested = req.Page
	c.advanced = false
	c.stop = stop

	id, gen, src := c.id, c.gen, c.source
	slog.Debug("fetch page", "controller", id, "page", req.Page, "size", req.PageSize, "action", c.action)
	return func() tea.Msg {
		batch, err := src.Fetch(ctx, req)
		if err == nil && ctx.Err() != nil {
			err = fmt.Errorf("fetch page %d: %w", req.Page, ctx.Err())
		}
		return pageLoadedMsg[T]{id: id, gen: gen, req: req, batch: batch, err: err}
	}
}

// release ends the current fetch after its result arrived.
func (c *Controller[T]) release() {
	c.inFlight = false
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}

// abort ends the current fetch early; its result will be dropped.
func (c *Controller[T]) abort() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	if c.inFlight {
		c.gen++
		c.inFlight = false
	}
}

func (c *Controller[T]) receive(batch Batch[T]) {
	if len(batch.Items) == 0 {
		c.page.markExhausted()
		slog.Debug("empty page, list exhausted", "controller", c.id, "total", c.page.Total)
	} else {
		c.append(batch.Items, c.reverseInsert)
		c.page.accept(len(batch.Items), batch.TotalPage)
	}
	c.sort()
	c.settle(c.requested)
}

func (c *Controller[T]) fail() {
	action := c.action
	c.action = ActionNone
	c.stopIndicators(action, -1)
	if c.advanced {
		c.page.Previous()
	}
	c.advanced = false
	if len(c.items) == 0 {
		c.sink.ShowError()
		return
	}
	c.sink.ShowContent()
	c.sink.ShowToast(c.texts.Retry)
}

// settle finishes a successful fetch or population of the given page.
func (c *Controller[T]) settle(page int) {
	action := c.action
	c.action = ActionNone
	c.advanced = false

	reported := -1
	if page > 1 && c.page.LastBatch > 0 {
		reported = c.page.LastBatch
	}
	c.stopIndicators(action, reported)

	if len(c.items) == 0 {
		c.sink.ShowEmpty()
		return
	}
	c.sink.ShowContent()
	if page > 1 && c.page.IsLast() {
		c.sink.ShowToast(c.texts.Last)
	}
}

func (c *Controller[T]) stopIndicators(action Action, loaded int) {
	switch action {
	case ActionRefresh:
		c.setRefreshIndicator(false)
	case ActionLoad:
		c.completeLoad(loaded)
	}
}

// completeLoad stops the load indicator. Without a trigger widget a
// positive batch size is reported as a toast instead.
func (c *Controller[T]) completeLoad(loaded int) {
	if ind, ok := c.sink.(Indicators); ok {
		ind.SetLoadIndicator(false, loaded)
		return
	}
	if loaded > 0 {
		c.sink.ShowToast(fmt.Sprintf(c.texts.Complete, loaded))
	}
}

func (c *Controller[T]) setRefreshIndicator(active bool) {
	if ind, ok := c.sink.(Indicators); ok {
		ind.SetRefreshIndicator(active)
	}
}

func (c *Controller[T]) setLoadIndicator(active bool, loaded int) {
	if ind, ok := c.sink.(Indicators); ok {
		ind.SetLoadIndicator(active, loaded)
	}
}

func (c *Controller[T]) append(items []T, reverse bool) {
	if !reverse {
		c.items = append(c.items, items...)
		return
	}
	for i := len(items) - 1; i >= 0; i-- {
		c.items = append(c.items, items[i])
	}
}

func (c *Controller[T]) sort() {
	if c.order == nil || len(c.items) < 2 {
		return
	}
	slices.SortStableFunc(c.items, c.order)
}
