package ui

type (
	openResultMsg struct {
		url string
		err error
	}
	// clearMsgMsg clears the status line unless a newer message replaced it.
	clearMsgMsg struct {
		seq int
	}
)
