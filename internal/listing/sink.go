package listing

// Sink renders the display directives emitted by a Controller. All methods
// are called on the controller's loop.
type Sink interface {
	ShowLoading()
	ShowEmpty()
	ShowError()
	ShowContent()
	ShowToast(message string)
}

// Indicators is implemented by sinks that have a refresh / load-more
// trigger widget attached. SetLoadIndicator receives the size of the batch
// that just loaded, or -1 when there is nothing to report.
type Indicators interface {
	SetRefreshIndicator(active bool)
	SetLoadIndicator(active bool, lastBatchSize int)
}

// Texts holds the transient messages a Controller emits.
type Texts struct {
	Retry    string // a fetch failed while content is on screen
	Last     string // the last page has been reached
	Complete string // fmt pattern taking the number of items loaded
}

// DefaultTexts returns the built-in messages.
func DefaultTexts() Texts {
	return Texts{
		Retry:    "load failed, try again",
		Last:     "no more pages",
		Complete: "%d items loaded",
	}
}

// nopSink swallows every directive. A destroyed controller points at it.
type nopSink struct{}

func (nopSink) ShowLoading()     {}
func (nopSink) ShowEmpty()       {}
func (nopSink) ShowError()       {}
func (nopSink) ShowContent()     {}
func (nopSink) ShowToast(string) {}
