package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-tachyon/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring config files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // TACHYON_CONFIG: config file name or path
	Source     string // TACHYON_SOURCE: source root
	Output     string // TACHYON_OUTPUT: publish root

	// Tier 2 - Build
	Database string // TACHYON_DATABASE: change-detection store
	Workers  int    // TACHYON_WORKERS: parallel workers
	Style    string // TACHYON_STYLE: CSS style name or path

	// Tier 3 - Serving, upload and logs
	ServeAddr      string // TACHYON_SERVE_ADDR: preview server address
	UploadPassword string // TACHYON_UPLOAD_PASSWORD: FTP password
	LogLevel       string // TACHYON_LOG_LEVEL: zerolog level name
	LogFormat      string // TACHYON_LOG_FORMAT: console or json
}

// knownEnvVars lists valid TACHYON_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"TACHYON_CONFIG": true,
	"TACHYON_SOURCE": true,
	"TACHYON_OUTPUT": true,
	// Tier 2 - Build
	"TACHYON_DATABASE": true,
	"TACHYON_WORKERS":  true,
	"TACHYON_STYLE":    true,
	// Tier 3 - Serving, upload and logs
	"TACHYON_SERVE_ADDR":      true,
	"TACHYON_UPLOAD_PASSWORD": true,
	"TACHYON_LOG_LEVEL":       true,
	"TACHYON_LOG_FORMAT":      true,
	// Read by doctor
	"TACHYON_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("TACHYON_CONFIG"),
		Source:         os.Getenv("TACHYON_SOURCE"),
		Output:         os.Getenv("TACHYON_OUTPUT"),
		Database:       os.Getenv("TACHYON_DATABASE"),
		Style:          os.Getenv("TACHYON_STYLE"),
		ServeAddr:      os.Getenv("TACHYON_SERVE_ADDR"),
		UploadPassword: os.Getenv("TACHYON_UPLOAD_PASSWORD"),
		LogLevel:       os.Getenv("TACHYON_LOG_LEVEL"),
		LogFormat:      os.Getenv("TACHYON_LOG_FORMAT"),
	}

	// Parse int for workers
	if workers := os.Getenv("TACHYON_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes warnings for unrecognized TACHYON_* variables.
// Helps catch typos like TACHYON_SOURSE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "TACHYON_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the loaded config.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Source != "" {
		cfg.Site.Source = env.Source
	}
	if env.Output != "" {
		cfg.Site.Output = env.Output
	}
	if env.Database != "" {
		cfg.Site.Database = env.Database
	}
	if env.Workers > 0 {
		cfg.Render.Workers = env.Workers
	}
	if env.Style != "" {
		cfg.Assets.Style = env.Style
	}
	if env.ServeAddr != "" {
		cfg.Serve.Addr = env.ServeAddr
	}
	if env.UploadPassword != "" {
		cfg.Upload.Password = env.UploadPassword
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
}
