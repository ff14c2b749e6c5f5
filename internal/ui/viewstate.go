package ui

import (
	"fmt"

	"github.com/turkosaurus/runpager/internal/listing"
)

// Screen is what the run list area currently shows.
type Screen int

const (
	ScreenIdle    Screen = iota // nothing requested yet
	ScreenLoading               // first page on its way, nothing to show
	ScreenEmpty                 // the source has no runs
	ScreenError                 // the fetch failed and nothing is on screen
	ScreenContent
)

func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenEmpty:
		return "empty"
	case ScreenError:
		return "error"
	case ScreenContent:
		return "content"
	default:
		return "idle"
	}
}

// ViewState records the directives a listing.Controller sends to the App.
// It also stands in for the refresh / load-more trigger widget.
type ViewState struct {
	Screen      Screen
	Refreshing  bool
	LoadingMore bool
	// size of the last batch appended by a load-more, -1 if none yet
	LastBatch int
	// fmt pattern announcing a finished load-more, empty to stay quiet
	Complete string

	PendingMessage string // App reads and clears after each Update
}

var (
	_ listing.Sink       = (*ViewState)(nil)
	_ listing.Indicators = (*ViewState)(nil)
)

// NewViewState returns a view state that has not been shown anything.
func NewViewState(complete string) *ViewState {
	return &ViewState{LastBatch: -1, Complete: complete}
}

func (v *ViewState) ShowLoading() { v.Screen = ScreenLoading }
func (v *ViewState) ShowEmpty()   { v.Screen = ScreenEmpty }
func (v *ViewState) ShowError()   { v.Screen = ScreenError }
func (v *ViewState) ShowContent() { v.Screen = ScreenContent }

// ShowToast queues a transient message. A later toast replaces an unread one.
func (v *ViewState) ShowToast(message string) {
	v.PendingMessage = message
}

func (v *ViewState) SetRefreshIndicator(active bool) {
	v.Refreshing = active
}

func (v *ViewState) SetLoadIndicator(active bool, lastBatchSize int) {
	v.LoadingMore = active
	if active || lastBatchSize < 0 {
		return
	}
	v.LastBatch = lastBatchSize
	if lastBatchSize > 0 && v.Complete != "" {
		v.PendingMessage = fmt.Sprintf(v.Complete, lastBatchSize)
	}
}

// Busy reports whether either indicator is running.
func (v *ViewState) Busy() bool {
	return v.Refreshing || v.LoadingMore
}

// TakeMessage returns the pending toast and clears it.
func (v *ViewState) TakeMessage() string {
	msg := v.PendingMessage
	v.PendingMessage = ""
	return msg
}
