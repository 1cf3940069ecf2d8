// Package main is the entry point for the clipfeed server.
//
// The main package stays minimal — its job is to:
// 1. Set up logging
// 2. Load configuration
// 3. Start the application
//
// All actual logic lives in the imported internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/clipfeed/internal/config"
	"github.com/sakif/clipfeed/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Make sure the data directory exists before sqlite tries to create
	// the database file inside it.
	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("creating data directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
