package ui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/turkosaurus/runpager/internal/gh"
)

func openInBrowser(client gh.Client, url string) tea.Cmd {
	return func() tea.Msg {
		err := client.OpenInBrowser(url)
		if err != nil {
			slog.Error("open in browser", "url", url, "error", err)
		}
		return openResultMsg{url: url, err: err}
	}
}

func clearMsg(after time.Duration, seq int) tea.Cmd {
	if after <= 0 {
		after = 3 * time.Second
	}
	return tea.Tick(after, func(t time.Time) tea.Msg {
		return clearMsgMsg{seq: seq}
	})
}
