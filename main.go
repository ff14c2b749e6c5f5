package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/turkosaurus/runpager/internal/config"
	"github.com/turkosaurus/runpager/internal/gh"
	"github.com/turkosaurus/runpager/internal/store"
	"github.com/turkosaurus/runpager/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if len(cfg.Repos) == 0 {
		fmt.Fprintln(os.Stderr, "No repositories configured.")
		fmt.Fprintln(os.Stderr, "Run this command in a git repository with a GitHub remote,")
		fmt.Fprintf(os.Stderr, "or create a config file at %s/config.yml:\n", config.Dir())
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "repos:")
		fmt.Fprintln(os.Stderr, "  - owner/repo")
		fmt.Fprintln(os.Stderr, "page_size: 20")
		os.Exit(1)
	}

	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		fmt.Fprintln(os.Stderr, "fatal: stdout is not a terminal")
		os.Exit(1)
	}

	logger, err := newFileLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: cannot initialize logger: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	cache, err := store.Open(cfg.CachePath)
	if err != nil {
		slog.Warn("open run cache; continuing without it",
			"path", cfg.CachePath,
			"error", err,
		)
		cache = nil
	}

	p := tea.NewProgram(ui.NewApp(cfg, gh.NewClient(), cache), tea.WithAltScreen())
	_, err = p.Run()

	if cache != nil {
		if cerr := cache.Close(); cerr != nil {
			slog.Error("close run cache", "error", cerr)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: run: %v\n", err)
		os.Exit(1)
	}
}
