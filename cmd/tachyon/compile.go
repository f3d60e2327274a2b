package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	tachyon "github.com/alnah/go-tachyon"
	"github.com/alnah/go-tachyon/internal/config"
	"github.com/alnah/go-tachyon/internal/dateutil"
	"github.com/alnah/go-tachyon/internal/fileutil"
	"github.com/alnah/go-tachyon/internal/sitefs"
)

// filePermissions is the mode of files written by compile.
const filePermissions = 0o644

// runCompile executes the compile command: one document to an HTML fragment.
func runCompile(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCompileFlags(args)
	if err != nil {
		return flagError(err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: compile takes exactly one file", ErrUsage)
	}
	file := positional[0]

	cfg, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	mergeCompileFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := os.ReadFile(file) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadSource, err)
	}

	logical, names := resolveLogicalPath(file, flags.path, cfg)
	opts := []tachyon.Option{
		tachyon.WithIndent(cfg.Render.Indent),
		tachyon.WithIndentLevel(cfg.Render.IndentLevel),
		tachyon.WithIconPath(cfg.Render.IconPath),
	}
	if names != nil {
		opts = append(opts, tachyon.WithNames(names))
	}
	compiler, err := tachyon.NewCompiler(opts...)
	if err != nil {
		return err
	}

	result, err := compiler.Compile(ctx, tachyon.Input{
		Text:   string(data),
		Path:   logical,
		Format: tachyon.FormatOf(file),
	})
	if err != nil {
		return fmt.Errorf("compiling %s: %w", file, err)
	}

	body := result.Body + "\n"
	if flags.output == "" {
		_, err = fmt.Fprint(env.Stdout, body)
		return err
	}
	if dir := filepath.Dir(flags.output); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	// #nosec G306 -- HTML fragments are meant to be readable
	if err := os.WriteFile(flags.output, []byte(body), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}

// mergeCompileFlags merges compile flags into config. CLI values override config values.
func mergeCompileFlags(flags *compileFlags, cfg *config.Config) {
	if flags.indent != "" {
		cfg.Render.Indent = flags.indent
	}
	if flags.indentLevel != indentLevelUnset {
		cfg.Render.IndentLevel = flags.indentLevel
	}
	if flags.iconPath != "" {
		cfg.Render.IconPath = flags.iconPath
	}
}

// resolveLogicalPath returns the site path of file and, when file lies
// under the configured source root, a lookup resolving breadcrumb titles.
// An explicit --path wins.
func resolveLogicalPath(file, explicit string, cfg *config.Config) (string, tachyon.NameLookup) {
	var names tachyon.NameLookup
	logical := "/" + filepath.Base(file)

	if rel, ok := withinRoot(cfg.Site.Source, file); ok {
		logical = "/" + filepath.ToSlash(rel)
		timestamp, err := dateutil.NewFormatter(cfg.Render.TimestampFormat)
		if err == nil {
			crawler := sitefs.NewCrawler(cfg.Site.Source, cfg.Ignore, cfg.Render.NameFile)
			names = sitefs.NewLookup(crawler, cfg.Site.Output, timestamp)
		}
	}
	if explicit != "" {
		logical = path.Clean("/" + explicit)
	}
	return logical, names
}

// withinRoot returns file relative to root when file lies under root.
func withinRoot(root, file string) (string, bool) {
	if root == "" || !fileutil.DirExists(root) {
		return "", false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absFile, err := filepath.Abs(file)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absFile)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return rel, true
}
