package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-tachyon/internal/codec"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxSiteNameLength   = 100
	MaxPathLength       = 4096
	MaxIndentLength     = 16
	MaxIconPathLength   = 512
	MaxNameFileLength   = 64
	MaxTimestampLength  = 64
	MaxAssetNameLength  = 64
	MaxURLLength        = 2048
	MaxHostLength       = 253 // RFC 1035
	MaxCredentialLength = 256
	MaxIgnoreEntries    = 100
	MaxIgnoreLength     = 64
	MaxIndentLevel      = 32
	MaxWorkers          = 64
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config holds all configuration for a site build.
type Config struct {
	Site   SiteConfig   `yaml:"site" toml:"site"`
	Render RenderConfig `yaml:"render" toml:"render"`
	Images ImagesConfig `yaml:"images" toml:"images"`
	Assets AssetsConfig `yaml:"assets" toml:"assets"`
	Ignore []string     `yaml:"ignore" toml:"ignore"` // File suffixes skipped by the crawler
	Upload UploadConfig `yaml:"upload" toml:"upload"`
	Serve  ServeConfig  `yaml:"serve" toml:"serve"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

// SiteConfig locates the site on disk.
type SiteConfig struct {
	Name     string `yaml:"name" toml:"name"`         // Prefix of every page title (empty = none)
	Source   string `yaml:"source" toml:"source"`     // Source root
	Output   string `yaml:"output" toml:"output"`     // Publish root
	Database string `yaml:"database" toml:"database"` // SQLite change-detection store
}

// RenderConfig tunes the markup compiler and listings.
type RenderConfig struct {
	Indent          string `yaml:"indent" toml:"indent"`                   // Indentation unit
	IndentLevel     int    `yaml:"indentLevel" toml:"indentLevel"`         // Starting level of document bodies
	IconPath        string `yaml:"iconPath" toml:"iconPath"`               // URL prefix for <icon name>
	NameFile        string `yaml:"nameFile" toml:"nameFile"`               // Per-directory display-name file
	TimestampFormat string `yaml:"timestampFormat" toml:"timestampFormat"` // dateutil tokens or preset
	Workers         int    `yaml:"workers" toml:"workers"`                 // 0 = auto
}

// ImagesConfig controls image processing.
type ImagesConfig struct {
	MaxLength int `yaml:"maxLength" toml:"maxLength"` // Longer side in pixels (0 = copy as is)
	Quality   int `yaml:"quality" toml:"quality"`     // JPEG quality 1-100
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath    string `yaml:"basePath" toml:"basePath"`       // Empty = use embedded assets
	TemplateSet string `yaml:"templateSet" toml:"templateSet"` // Page template set name
	Style       string `yaml:"style" toml:"style"`             // CSS inlined into every page
	Stylesheet  string `yaml:"stylesheet" toml:"stylesheet"`   // External stylesheet href
}

// UploadConfig defines FTP mirroring options.
type UploadConfig struct {
	Enabled          bool   `yaml:"enabled" toml:"enabled"`
	Address          string `yaml:"address" toml:"address"`
	Port             int    `yaml:"port" toml:"port"`
	Username         string `yaml:"username" toml:"username"`
	Password         string `yaml:"password" toml:"password"`
	WorkingDirectory string `yaml:"workingDirectory" toml:"workingDirectory"`
	Timeout          int    `yaml:"timeout" toml:"timeout"` // Seconds
}

// ServeConfig defines the preview server.
type ServeConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// LogConfig defines logger output.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // zerolog level name
	Format string `yaml:"format" toml:"format"` // "console" or "json"
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"site.name", c.Site.Name, MaxSiteNameLength},
		{"site.source", c.Site.Source, MaxPathLength},
		{"site.output", c.Site.Output, MaxPathLength},
		{"site.database", c.Site.Database, MaxPathLength},
		{"render.indent", c.Render.Indent, MaxIndentLength},
		{"render.iconPath", c.Render.IconPath, MaxIconPathLength},
		{"render.nameFile", c.Render.NameFile, MaxNameFileLength},
		{"render.timestampFormat", c.Render.TimestampFormat, MaxTimestampLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.templateSet", c.Assets.TemplateSet, MaxPathLength}, // name or directory
		{"assets.style", c.Assets.Style, MaxPathLength},             // name or CSS file
		{"assets.stylesheet", c.Assets.Stylesheet, MaxURLLength},
		{"upload.address", c.Upload.Address, MaxHostLength},
		{"upload.username", c.Upload.Username, MaxCredentialLength},
		{"upload.password", c.Upload.Password, MaxCredentialLength},
		{"upload.workingDirectory", c.Upload.WorkingDirectory, MaxPathLength},
		{"serve.addr", c.Serve.Addr, MaxHostLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Render.Indent != "" && strings.TrimLeft(c.Render.Indent, " \t") != "" {
		return fmt.Errorf("%w: render.indent must contain only spaces or tabs, got %q", ErrInvalidValue, c.Render.Indent)
	}
	if c.Render.IndentLevel < 0 || c.Render.IndentLevel > MaxIndentLevel {
		return fmt.Errorf("%w: render.indentLevel must be between 0 and %d, got %d", ErrInvalidValue, MaxIndentLevel, c.Render.IndentLevel)
	}
	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Render.Workers)
	}
	if strings.ContainsAny(c.Render.NameFile, `/\`) {
		return fmt.Errorf("%w: render.nameFile must be a file name, got %q", ErrInvalidValue, c.Render.NameFile)
	}

	if c.Images.MaxLength < 0 {
		return fmt.Errorf("%w: images.maxLength must not be negative, got %d", ErrInvalidValue, c.Images.MaxLength)
	}
	if c.Images.Quality != 0 && (c.Images.Quality < 1 || c.Images.Quality > 100) {
		return fmt.Errorf("%w: images.quality must be between 1 and 100, got %d", ErrInvalidValue, c.Images.Quality)
	}

	if len(c.Ignore) > MaxIgnoreEntries {
		return fmt.Errorf("%w: ignore (%d entries, max %d)", ErrFieldTooLong, len(c.Ignore), MaxIgnoreEntries)
	}
	for i, suffix := range c.Ignore {
		if err := validateFieldLength(fmt.Sprintf("ignore[%d]", i), suffix, MaxIgnoreLength); err != nil {
			return err
		}
	}

	if c.Upload.Enabled && c.Upload.Address == "" {
		return fmt.Errorf("%w: upload.address: required when upload is enabled", ErrInvalidValue)
	}
	if c.Upload.Port < 0 || c.Upload.Port > 65535 {
		return fmt.Errorf("%w: upload.port must be between 0 and 65535, got %d", ErrInvalidValue, c.Upload.Port)
	}
	if c.Upload.Timeout < 0 {
		return fmt.Errorf("%w: upload.timeout must not be negative, got %d", ErrInvalidValue, c.Upload.Timeout)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("%w: log.format must be console or json, got %q", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Source:   "./src",
			Output:   "./out",
			Database: "./tachyon.db",
		},
		Render: RenderConfig{
			Indent:          " ",
			IndentLevel:     2,
			IconPath:        "/res/icon/",
			NameFile:        "_name",
			TimestampFormat: "YYYY/MM/DD",
		},
		Images: ImagesConfig{Quality: 80},
		Assets: AssetsConfig{
			TemplateSet: "default",
			Style:       "default",
		},
		Upload: UploadConfig{
			Port:             21,
			WorkingDirectory: "/",
			Timeout:          30,
		},
		Serve: ServeConfig{Addr: "127.0.0.1:8080"},
		Log:   LogConfig{Level: "info", Format: LogFormatConsole},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their defaults.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	format, err := codec.FormatOf(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := codec.UnmarshalStrict(format, data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || filepath.Ext(s) != ""
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in codec.Extensions order.
// Tries locations in order: current directory, ~/.config/tachyon/
func resolveConfigPath(name string) (string, error) {
	triedPaths := make([]string, 0, len(codec.Extensions)*2) // 2 locations

	for _, ext := range codec.Extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range codec.Extensions {
			userPath := filepath.Join(userConfigDir, "tachyon", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
