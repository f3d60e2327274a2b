package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tachyon "github.com/alnah/go-tachyon"
	"github.com/alnah/go-tachyon/internal/config"
	"github.com/alnah/go-tachyon/internal/hints"
)

// runBuild executes the build command.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args)
	if err != nil {
		return flagError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: build takes no arguments, got %q", ErrUsage, positional[0])
	}

	site, cfg, _, err := openSite(flags.common, flags.site, flags.assets, flags.noUpload, env)
	if err != nil {
		return err
	}

	report, err := site.Build(ctx)
	if err != nil {
		return withBuildHint(err, cfg)
	}
	return reportBuild(report, flags.common.quiet, flags.common.verbose, env)
}

// reportBuild prints a build report and returns its failures.
func reportBuild(report *tachyon.BuildReport, quiet, verbose bool, env *Environment) error {
	printReport(report, quiet, verbose, env)

	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d page(s) failed: %w", failed, report.Err())
	}
	if report.UploadErr != nil {
		return withUploadHint(report.UploadErr)
	}
	return nil
}

// printReport outputs build results using the provided writers.
func printReport(report *tachyon.BuildReport, quiet, verbose bool, env *Environment) {
	for _, results := range [][]tachyon.PageResult{report.Documents, report.Indexes} {
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Path, r.Err)
				continue
			}
			if quiet {
				continue
			}
			if verbose {
				fmt.Fprintf(env.Stdout, "%s %s -> %s (%v)\n", r.Change, r.Path, r.Output, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "Published %s\n", r.Output)
			}
		}
	}

	if quiet {
		return
	}
	if report.Published() == 0 && report.Failed() == 0 {
		fmt.Fprintln(env.Stdout, "Nothing to publish")
		return
	}
	fmt.Fprintf(env.Stdout, "\n%d published, %d failed", report.Published(), report.Failed())
	if report.Uploaded > 0 {
		fmt.Fprintf(env.Stdout, ", %d uploaded", report.Uploaded)
	}
	fmt.Fprintf(env.Stdout, " in %v\n", report.Duration.Round(time.Millisecond))
}

// withBuildHint appends hints to errors that stop a build.
func withBuildHint(err error, cfg *config.Config) error {
	switch {
	case errors.Is(err, tachyon.ErrSourceRoot):
		return fmt.Errorf("%w%s", err, hints.ForSourceRoot(cfg.Site.Source))
	case errors.Is(err, tachyon.ErrStore):
		return fmt.Errorf("%w%s", err, hints.ForDatabase(cfg.Site.Database))
	}
	return err
}

// withUploadHint appends hints for rejected logins and unreachable servers.
func withUploadHint(err error) error {
	switch {
	case errors.Is(err, tachyon.ErrUploadLogin):
		return fmt.Errorf("%w%s", err, hints.ForUploadAuth())
	case errors.Is(err, tachyon.ErrUploadConnect):
		return fmt.Errorf("%w%s", err, hints.ForUploadTimeout())
	}
	return err
}
