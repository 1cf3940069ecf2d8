// Package config loads the server configuration from the environment.
// A local .env file is honoured when present, which keeps development
// setups out of the shell profile.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Port          int    // HTTP listen port
	DBPath        string // sqlite database file (the "profile")
	CaptureSource string // optional path standing in for the capture device
}

const (
	defaultPort   = 8080
	defaultDBPath = "data/clipfeed.db"
)

// Load reads the configuration. Precedence: environment variable, then
// .env file, then default.
func Load() (Config, error) {
	// Missing .env is fine — env vars and defaults cover everything.
	_ = godotenv.Load()

	cfg := Config{
		Port:          defaultPort,
		DBPath:        defaultDBPath,
		CaptureSource: os.Getenv("CLIPFEED_CAPTURE_SOURCE"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}
	if dbPath := os.Getenv("CLIPFEED_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	return cfg, nil
}
