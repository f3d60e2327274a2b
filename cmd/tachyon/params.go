package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	tachyon "github.com/alnah/go-tachyon"
	"github.com/alnah/go-tachyon/internal/config"
	"github.com/alnah/go-tachyon/internal/fileutil"
	"github.com/alnah/go-tachyon/internal/hints"
	"github.com/alnah/go-tachyon/internal/logging"
)

// Sentinel errors for CLI param building.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrReadSource  = errors.New("failed to read source file")
	ErrReadStyle   = errors.New("failed to read CSS file")
	ErrWriteOutput = errors.New("failed to write output")
)

// defaultConfigName is looked up in the working directory and
// ~/.config/tachyon/ when neither --config nor TACHYON_CONFIG is set.
const defaultConfigName = "tachyon"

// loadConfig resolves the configuration of a command.
// Priority: CLI flags > env vars > config file > defaults.
// A missing default config file is not an error.
func loadConfig(common commonFlags, env *Environment) (*config.Config, error) {
	if env.Config != nil {
		cfg := *env.Config
		return &cfg, nil
	}

	envCfg := loadEnvConfig()

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(configSearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else if loaded, err := config.LoadConfig(defaultConfigName); err == nil {
		cfg = loaded
	} else if !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// configSearchPaths lists where a config name is looked up, for hints.
func configSearchPaths(name string) []string {
	if fileutil.IsFilePath(name) {
		return nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "tachyon", name+".yaml")}
}

// mergeSiteFlags merges CLI flags into config. CLI values override config values.
func mergeSiteFlags(site siteFlags, a assetFlags, cfg *config.Config) {
	if site.source != "" {
		cfg.Site.Source = site.source
	}
	if site.output != "" {
		cfg.Site.Output = site.output
	}
	if site.database != "" {
		cfg.Site.Database = site.database
	}
	if site.workers > 0 {
		cfg.Render.Workers = site.workers
	}
	if a.style != "" {
		cfg.Assets.Style = a.style
	}
	if a.template != "" {
		cfg.Assets.TemplateSet = a.template
	}
	if a.assetPath != "" {
		cfg.Assets.BasePath = a.assetPath
	}
	if a.noStyle {
		cfg.Assets.Style = "none"
	}
}

// validateWorkers checks that n is within the pool bounds. 0 means auto.
func validateWorkers(n int) error {
	if n < 0 || n > tachyon.MaxPoolSize {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrUsage, tachyon.MaxPoolSize, n)
	}
	return nil
}

// newLogger builds the command logger from config and the verbosity flags.
// --verbose forces debug and --quiet forces warn.
func newLogger(w io.Writer, cfg *config.Config, common commonFlags) (zerolog.Logger, error) {
	level := cfg.Log.Level
	switch {
	case common.verbose:
		level = "debug"
	case common.quiet:
		level = "warn"
	}
	logger, err := logging.New(w, level, cfg.Log.Format, os.Getenv("NO_COLOR") != "")
	if err != nil {
		return logger, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return logger, nil
}

// buildSiteOptions converts config into tachyon.SiteOptions.
func buildSiteOptions(cfg *config.Config, rebuild, noUpload bool, logger *zerolog.Logger) (tachyon.SiteOptions, error) {
	opts := tachyon.SiteOptions{
		Name:            cfg.Site.Name,
		Source:          cfg.Site.Source,
		Output:          cfg.Site.Output,
		Database:        cfg.Site.Database,
		Ignore:          cfg.Ignore,
		NameFile:        cfg.Render.NameFile,
		Rebuild:         rebuild,
		TimestampFormat: cfg.Render.TimestampFormat,
		Indent:          cfg.Render.Indent,
		IndentLevel:     cfg.Render.IndentLevel,
		IconPath:        cfg.Render.IconPath,
		Workers:         cfg.Render.Workers,
		Images: tachyon.ImageOptions{
			MaxLength: cfg.Images.MaxLength,
			Quality:   cfg.Images.Quality,
		},
		Stylesheet: cfg.Assets.Stylesheet,
		Logger:     logger,
	}

	loader, err := tachyon.NewAssetLoader(cfg.Assets.BasePath)
	if err != nil {
		return opts, err
	}

	style, loader, err := resolveStyle(cfg.Assets.Style, loader)
	if err != nil {
		return opts, err
	}
	opts.Style = style
	opts.AssetLoader = loader

	ts, err := resolveTemplateSet(cfg.Assets.TemplateSet, loader)
	if err != nil {
		return opts, err
	}
	opts.TemplateSet = ts

	if cfg.Upload.Enabled && !noUpload {
		opts.Upload = &tachyon.UploadOptions{
			Address:          cfg.Upload.Address,
			Port:             cfg.Upload.Port,
			Username:         cfg.Upload.Username,
			Password:         cfg.Upload.Password,
			WorkingDirectory: cfg.Upload.WorkingDirectory,
			Timeout:          time.Duration(cfg.Upload.Timeout) * time.Second,
		}
	}
	return opts, nil
}

// resolveStyle maps a style setting to a loader style name.
// A file path is read directly and served under its own name.
func resolveStyle(style string, loader tachyon.AssetLoader) (string, tachyon.AssetLoader, error) {
	if style == "" || style == "none" || !fileutil.IsFilePath(style) {
		return style, loader, nil
	}
	content, err := os.ReadFile(style) // #nosec G304 -- user-provided path
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrReadStyle, err)
	}
	return style, &fileStyleLoader{AssetLoader: loader, name: style, css: string(content)}, nil
}

// fileStyleLoader serves one CSS file next to the wrapped loader's assets.
type fileStyleLoader struct {
	tachyon.AssetLoader
	name string
	css  string
}

func (l *fileStyleLoader) LoadStyle(name string) (string, error) {
	if name == l.name {
		return l.css, nil
	}
	return l.AssetLoader.LoadStyle(name)
}

// resolveTemplateSet loads a template set by name, or from a directory
// holding document.html and index.html.
func resolveTemplateSet(name string, loader tachyon.AssetLoader) (*tachyon.TemplateSet, error) {
	if name == "" {
		name = tachyon.DefaultTemplateSet
	}
	if !fileutil.IsFilePath(name) {
		return loader.LoadTemplateSet(name)
	}

	read := func(file string) (string, error) {
		data, err := os.ReadFile(filepath.Join(name, file)) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %v", tachyon.ErrIncompleteTemplateSet, err)
		}
		return string(data), nil
	}
	document, err := read("document.html")
	if err != nil {
		return nil, err
	}
	index, err := read("index.html")
	if err != nil {
		return nil, err
	}
	return tachyon.NewTemplateSet(name, document, index), nil
}

// openSite loads config, merges flags and builds the site.
func openSite(common commonFlags, site siteFlags, a assetFlags, noUpload bool, env *Environment) (*tachyon.Site, *config.Config, zerolog.Logger, error) {
	if err := validateWorkers(site.workers); err != nil {
		return nil, nil, zerolog.Nop(), err
	}

	cfg, err := loadConfig(common, env)
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	mergeSiteFlags(site, a, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, zerolog.Nop(), err
	}

	logger, err := newLogger(env.Stderr, cfg, common)
	if err != nil {
		return nil, nil, logger, err
	}

	opts, err := buildSiteOptions(cfg, site.rebuild, noUpload, &logger)
	if err != nil {
		return nil, nil, logger, withStyleHint(err)
	}

	s, err := tachyon.NewSite(opts)
	if err != nil {
		return nil, nil, logger, withStyleHint(err)
	}
	return s, cfg, logger, nil
}

// builtinStyles lists the style names accepted without a custom asset path.
var builtinStyles = []string{tachyon.DefaultStyle, "none"}

// withStyleHint appends the built-in style names to style errors.
func withStyleHint(err error) error {
	if errors.Is(err, tachyon.ErrStyleNotFound) {
		return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(builtinStyles))
	}
	return err
}

// flagError wraps pflag parse errors so they map to ExitUsage.
func flagError(err error) error {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
