package main

import (
	"os"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// siteFlags holds flags locating a site and tuning its build.
type siteFlags struct {
	source   string
	output   string
	database string
	workers  int
	rebuild  bool
}

// assetFlags holds asset-related flags (CSS, templates, custom asset path).
type assetFlags struct {
	style     string // Name or path for CSS
	template  string // Template set name or directory path
	assetPath string // Override asset directory
	noStyle   bool   // Disable inline CSS
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common   commonFlags
	site     siteFlags
	assets   assetFlags
	noUpload bool
}

// compileFlags holds all flags for the compile command.
type compileFlags struct {
	common      commonFlags
	output      string
	path        string
	indent      string
	indentLevel int
	iconPath    string
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common commonFlags
	site   siteFlags
	assets assetFlags
	addr   string
}

// watchFlags holds all flags for the watch command.
type watchFlags struct {
	common   commonFlags
	site     siteFlags
	assets   assetFlags
	debounce time.Duration
}

// doctorFlags holds all flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// indentLevelUnset detects if --indent-level was explicitly set.
// 0 is a valid level, so an out-of-range sentinel is used.
const indentLevelUnset = -1

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log every page")
}

// addSiteFlags adds site location flags to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVarP(&f.source, "source", "s", "", "source root")
	fs.StringVarP(&f.output, "output", "o", "", "output root")
	fs.StringVar(&f.database, "database", "", "change-detection database (\":memory:\" = none)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.rebuild, "rebuild", false, "republish every page")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.template, "template", "", "template set name or directory path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable inline CSS")
}

func registerBuildFlags(fs *flag.FlagSet, f *buildFlags) {
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	addAssetFlags(fs, &f.assets)
	fs.BoolVar(&f.noUpload, "no-upload", false, "skip FTP mirroring")
}

func registerCompileFlags(fs *flag.FlagSet, f *compileFlags) {
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.StringVar(&f.path, "path", "", "logical path used for breadcrumbs (default: /<file>)")
	fs.StringVar(&f.indent, "indent", "", "indentation unit")
	fs.IntVar(&f.indentLevel, "indent-level", indentLevelUnset, "starting indentation level")
	fs.StringVar(&f.iconPath, "icon-path", "", "URL prefix for icons")
}

func registerServeFlags(fs *flag.FlagSet, f *serveFlags) {
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	addAssetFlags(fs, &f.assets)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (host:port)")
}

func registerWatchFlags(fs *flag.FlagSet, f *watchFlags) {
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	addAssetFlags(fs, &f.assets)
	fs.DurationVar(&f.debounce, "debounce", defaultDebounce, "quiet period before rebuilding")
}

func registerDoctorFlags(fs *flag.FlagSet, f *doctorFlags) {
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.json, "json", false, "output JSON")
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string) (*buildFlags, []string, error) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	f := &buildFlags{}
	registerBuildFlags(fs, f)
	fs.Usage = func() { printBuildUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCompileFlags parses compile command flags and returns positional args.
func parseCompileFlags(args []string) (*compileFlags, []string, error) {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	f := &compileFlags{}
	registerCompileFlags(fs, f)
	fs.Usage = func() { printCompileUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string) (*serveFlags, []string, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}
	registerServeFlags(fs, f)
	fs.Usage = func() { printServeUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string) (*watchFlags, []string, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	f := &watchFlags{}
	registerWatchFlags(fs, f)
	fs.Usage = func() { printWatchUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
