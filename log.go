package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/turkosaurus/runpager/internal/config"
)

func newFileLogger() (*slog.Logger, error) {
	logFile := os.Getenv("RUNPAGER_LOG_FILE")
	if logFile == "" {
		dir := config.Dir()
		if dir == "" {
			return nil, errors.New("determine home directory")
		}
		logFile = filepath.Join(dir, config.AppName+".log")
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	logger.Debug("initialized text file logger",
		"path", logFile,
		"level", level.String(),
	)
	// TODO: rotate once the file passes a size limit; it only grows today
	return logger, nil
}
