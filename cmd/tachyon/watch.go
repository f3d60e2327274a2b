package main

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	tachyon "github.com/alnah/go-tachyon"
)

// defaultDebounce is how long the source tree must stay quiet before a
// rebuild starts. Editors often write a file in several steps.
const defaultDebounce = 300 * time.Millisecond

// runWatch executes the watch command: build once, then rebuild whenever
// the source tree changes.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseWatchFlags(args)
	if err != nil {
		return flagError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: watch takes no arguments, got %q", ErrUsage, positional[0])
	}
	if flags.debounce <= 0 {
		return fmt.Errorf("%w: --debounce must be positive", ErrUsage)
	}

	site, cfg, logger, err := openSite(flags.common, flags.site, flags.assets, false, env)
	if err != nil {
		return err
	}

	build := func(ctx context.Context) error {
		report, err := site.Build(ctx)
		if err != nil {
			return withBuildHint(err, cfg)
		}
		if err := reportBuild(report, flags.common.quiet, flags.common.verbose, env); err != nil {
			logger.Warn().Err(err).Msg("build finished with failures")
		}
		return nil
	}
	if err := build(ctx); err != nil {
		return err
	}

	w, err := newSiteWatcher(site, flags.debounce, logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s (Ctrl+C to stop)\n", site.Source())
	}
	return w.Run(ctx, build)
}

// siteWatcher turns bursts of file system events under a source root
// into single rebuilds.
type siteWatcher struct {
	site     *tachyon.Site
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   zerolog.Logger
	output   string // absolute output root, never watched
}

func newSiteWatcher(site *tachyon.Site, debounce time.Duration, logger zerolog.Logger) (*siteWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	output, err := filepath.Abs(site.Output())
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}

	w := &siteWatcher{
		site:     site,
		watcher:  watcher,
		debounce: debounce,
		logger:   logger,
		output:   output,
	}
	if err := w.addTree(site.Source()); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches root and every directory below it, skipping hidden
// and ignored directories and the output root.
func (w *siteWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && !w.watchable(p) {
			return filepath.SkipDir
		}
		w.logger.Debug().Str("dir", p).Msg("watching")
		return w.watcher.Add(p)
	})
}

// watchable reports whether a directory should be watched.
func (w *siteWatcher) watchable(dir string) bool {
	if w.site.Ignored(dir) {
		return false
	}
	abs, err := filepath.Abs(dir)
	return err != nil || abs != w.output
}

// relevant reports whether an event should trigger a rebuild.
func (w *siteWatcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	if w.site.Ignored(event.Name) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err == nil && (abs == w.output || isWithin(w.output, abs)) {
		return false
	}
	return true
}

// Run calls build after each quiet period following relevant events,
// until ctx is cancelled.
func (w *siteWatcher) Run(ctx context.Context, build func(context.Context) error) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change")
			if event.Has(fsnotify.Create) && w.watchable(event.Name) {
				// New directories are watched as they appear; errors mean
				// the path is a file or vanished already.
				if err := w.addTree(event.Name); err != nil {
					w.logger.Debug().Err(err).Str("path", event.Name).Msg("not watched")
				}
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true
		case <-timer.C:
			pending = false
			if err := build(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error().Err(err).Msg("rebuild failed")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// Close stops watching.
func (w *siteWatcher) Close() error {
	return w.watcher.Close()
}

// isWithin reports whether p lies below dir.
func isWithin(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil || rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
