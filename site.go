package tachyon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-tachyon/internal/dateutil"
	"github.com/alnah/go-tachyon/internal/fileutil"
	"github.com/alnah/go-tachyon/internal/imaging"
	"github.com/alnah/go-tachyon/internal/logging"
	"github.com/alnah/go-tachyon/internal/pipeline"
	"github.com/alnah/go-tachyon/internal/publish"
	"github.com/alnah/go-tachyon/internal/sitefs"
	"github.com/alnah/go-tachyon/internal/store"
	"github.com/alnah/go-tachyon/internal/upload"
)

// Site defaults.
const (
	DefaultNameFile = "_name"
	DefaultSiteKey  = "default"
	indexFile       = "index.html"
	memoryDatabase  = ":memory:"
)

// ErrPageNotFound indicates RenderPage found no source for a path.
var ErrPageNotFound = errors.New("page not found")

// ImageOptions control JPEG publishing. A zero MaxLength copies images
// unchanged.
type ImageOptions struct {
	MaxLength int
	Quality   int
}

// UploadOptions describe the FTP server published files are mirrored to.
type UploadOptions struct {
	Address          string
	Port             int
	Username         string
	Password         string
	WorkingDirectory string
	Timeout          time.Duration
}

// SiteOptions configure a Site. Source and Output are required.
type SiteOptions struct {
	Name     string   // site name, prefixes page titles and keys the store
	Source   string   // source root
	Output   string   // output root
	Database string   // SQLite file; empty keeps records in memory (full builds)
	Ignore   []string // ignored file name suffixes
	NameFile string   // per-directory title file, default "_name"
	Rebuild  bool     // forget stored records before building

	// Rendering.
	TimestampFormat string // dateutil tokens or preset, default "YYYY/MM/DD"
	Indent          string
	IndentLevel     int
	IconPath        string
	Workers         int // 0 selects ResolvePoolSize(0)

	Images ImageOptions

	// Assets. AssetLoader wins over AssetPath; TemplateSet wins over the
	// loader's default set.
	AssetPath   string
	AssetLoader AssetLoader
	TemplateSet *TemplateSet
	Style       string // style name, default "default"; "none" disables inline CSS
	Stylesheet  string // href linked from every page

	Upload *UploadOptions // nil disables uploading
	Logger *zerolog.Logger
}

// Change classifies a published path.
type Change int

const (
	Unchanged Change = iota
	Added
	Modified
	Regenerated // directory index
)

func (c Change) String() string {
	switch c {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Regenerated:
		return "regenerated"
	default:
		return "unchanged"
	}
}

// PageResult holds the outcome of publishing one path.
type PageResult struct {
	Path     string // logical source path, or directory for indexes
	Output   string // logical output path
	Change   Change
	Err      error
	Duration time.Duration
}

// BuildReport summarizes a build.
type BuildReport struct {
	ID        string
	Documents []PageResult // documents and resources, sorted by path
	Indexes   []PageResult // regenerated directory indexes, sorted by path
	Uploaded  int
	UploadErr error
	Duration  time.Duration
}

// Published returns the number of paths written successfully.
func (r *BuildReport) Published() int {
	n := 0
	for _, res := range r.all() {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of paths that failed.
func (r *BuildReport) Failed() int {
	return len(r.Documents) + len(r.Indexes) - r.Published()
}

// Err joins every page and upload failure, nil when the build was clean.
func (r *BuildReport) Err() error {
	var errs []error
	for _, res := range r.all() {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Path, res.Err))
		}
	}
	if r.UploadErr != nil {
		errs = append(errs, r.UploadErr)
	}
	return errors.Join(errs...)
}

func (r *BuildReport) all() []PageResult {
	return append(append([]PageResult(nil), r.Documents...), r.Indexes...)
}

// uploader mirrors logical output paths to a remote host.
type uploader interface {
	Upload(ctx context.Context, logical string) error
	Close() error
}

// Site builds a static site from a source tree.
type Site struct {
	opts      SiteOptions
	crawler   *sitefs.Crawler
	lookup    *sitefs.Lookup
	compiler  *Compiler
	publisher *publish.Publisher
	images    *imaging.Processor
	timestamp *dateutil.Formatter
	logger    zerolog.Logger
	workers   int
	dial      func(ctx context.Context) (uploader, error)
	now       func() time.Time
}

// NewSite validates opts, loads the page assets and prepares a Site.
func NewSite(opts SiteOptions) (*Site, error) {
	if opts.Source == "" || opts.Output == "" {
		return nil, fmt.Errorf("%w: source and output are required", ErrInvalidOption)
	}
	if opts.NameFile == "" {
		opts.NameFile = DefaultNameFile
	}
	if strings.ContainsAny(opts.NameFile, `/\`) {
		return nil, fmt.Errorf("%w: name file %q contains a separator", ErrInvalidOption, opts.NameFile)
	}
	if opts.Indent == "" {
		opts.Indent = DefaultIndent
	}
	if opts.IconPath == "" {
		opts.IconPath = DefaultIconPath
	}
	if opts.Database == "" {
		opts.Database = memoryDatabase
	}

	timestamp, err := dateutil.NewFormatter(opts.TimestampFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}

	crawler := sitefs.NewCrawler(opts.Source, opts.Ignore, opts.NameFile)
	lookup := sitefs.NewLookup(crawler, opts.Output, timestamp)

	compiler, err := NewCompiler(
		WithIndent(opts.Indent),
		WithIndentLevel(opts.IndentLevel),
		WithIconPath(opts.IconPath),
		WithNames(lookup),
		WithListing(lookup),
	)
	if err != nil {
		return nil, err
	}

	publisher, err := newPublisher(opts)
	if err != nil {
		return nil, err
	}

	logger := logging.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	s := &Site{
		opts:      opts,
		crawler:   crawler,
		lookup:    lookup,
		compiler:  compiler,
		publisher: publisher,
		images:    &imaging.Processor{MaxLength: opts.Images.MaxLength, Quality: opts.Images.Quality},
		timestamp: timestamp,
		logger:    logger.With().Str("site", opts.siteKey()).Logger(),
		workers:   ResolvePoolSize(opts.Workers),
		now:       time.Now,
	}
	if opts.Upload != nil {
		cfg := upload.Config{
			Address:          opts.Upload.Address,
			Port:             opts.Upload.Port,
			Username:         opts.Upload.Username,
			Password:         opts.Upload.Password,
			WorkingDirectory: opts.Upload.WorkingDirectory,
			Timeout:          opts.Upload.Timeout,
		}
		s.dial = func(ctx context.Context) (uploader, error) {
			return upload.Dial(ctx, cfg, opts.Output)
		}
	}
	return s, nil
}

func (o SiteOptions) siteKey() string {
	if o.Name != "" {
		return o.Name
	}
	return DefaultSiteKey
}

// newPublisher resolves the template set and style of opts.
func newPublisher(opts SiteOptions) (*publish.Publisher, error) {
	loader := opts.AssetLoader
	if loader == nil {
		var err error
		loader, err = NewAssetLoader(opts.AssetPath)
		if err != nil {
			return nil, err
		}
	}

	ts := opts.TemplateSet
	if ts == nil {
		var err error
		ts, err = loader.LoadTemplateSet(DefaultTemplateSet)
		if err != nil {
			return nil, fmt.Errorf("loading default template set: %w", err)
		}
	}

	var css string
	switch opts.Style {
	case "none":
	case "":
		var err error
		if css, err = loader.LoadStyle(DefaultStyle); err != nil {
			return nil, fmt.Errorf("loading default style: %w", err)
		}
	default:
		var err error
		if css, err = loader.LoadStyle(opts.Style); err != nil {
			return nil, err
		}
	}

	p, err := publish.New(internalTemplateSet(ts), publish.Options{
		SiteName:   opts.Name,
		CSS:        css,
		Stylesheet: opts.Stylesheet,
	})
	if err != nil {
		return nil, wrapError(ErrTemplateRender, err)
	}
	return p, nil
}

// pending is a crawled file that needs publishing.
type pending struct {
	item       sitefs.Item
	change     Change
	registered time.Time
}

// Build publishes every new or modified source file, regenerates the
// indexes of the folders containing them and uploads the results.
// Failed pages are reported in the BuildReport and retried on the next
// build; the returned error covers failures that stop the build.
func (s *Site) Build(ctx context.Context) (*BuildReport, error) {
	start := s.now()

	st, err := store.Open(ctx, s.opts.Database, s.opts.siteKey())
	if err != nil {
		return nil, wrapError(ErrStore, err)
	}
	defer func() { _ = st.Close() }()

	if s.opts.Rebuild {
		if err := st.Forget(ctx); err != nil {
			return nil, wrapError(ErrStore, err)
		}
	}

	id, err := st.BeginBuild(ctx)
	if err != nil {
		return nil, wrapError(ErrStore, err)
	}
	report := &BuildReport{ID: id}
	logger := s.logger.With().Str("build", id).Logger()

	items, err := s.crawler.Crawl(ctx)
	if err != nil {
		if errors.Is(err, sitefs.ErrSourceRoot) {
			return nil, wrapError(ErrSourceRoot, err)
		}
		return nil, err
	}

	work, err := s.detect(ctx, st, items)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("items", len(items)).Int("changed", len(work)).Msg("crawled source")

	publisher := s.publisher.WithBuildID(id)

	report.Documents = make([]PageResult, len(work))
	runPool(ctx, s.workers, len(work), func(ctx context.Context, idx int) {
		res := s.publishItem(ctx, publisher, work[idx])
		if res.Err == nil {
			if _, _, err := st.Record(ctx, work[idx].item.Path, work[idx].item.ModTime); err != nil {
				res.Err = wrapError(ErrStore, err)
			}
		}
		logResult(logger, res)
		report.Documents[idx] = res
	}, func(idx int, err error) {
		report.Documents[idx] = PageResult{Path: work[idx].item.Path, Change: work[idx].change, Err: err}
	})

	dirs := s.affectedDirs(report.Documents, items)
	report.Indexes = make([]PageResult, len(dirs))
	runPool(ctx, s.workers, len(dirs), func(ctx context.Context, idx int) {
		res := s.publishIndex(ctx, publisher, dirs[idx])
		logResult(logger, res)
		report.Indexes[idx] = res
	}, func(idx int, err error) {
		report.Indexes[idx] = PageResult{Path: dirs[idx], Change: Regenerated, Err: err}
	})

	if s.dial != nil {
		report.Uploaded, report.UploadErr = s.upload(ctx, report.all())
		if report.UploadErr != nil {
			logger.Error().Err(report.UploadErr).Int("uploaded", report.Uploaded).Msg("upload failed")
		}
	}

	if err := st.FinishBuild(ctx, id, report.Published(), report.Failed()); err != nil {
		return report, wrapError(ErrStore, err)
	}
	report.Duration = s.now().Sub(start)
	logger.Info().
		Int("published", report.Published()).
		Int("failed", report.Failed()).
		Dur("duration", report.Duration).
		Msg("build finished")
	return report, ctx.Err()
}

// detect returns the crawled files that are new or modified since their
// stored record.
func (s *Site) detect(ctx context.Context, st *store.Store, items []sitefs.Item) ([]pending, error) {
	var work []pending
	for _, item := range items {
		if item.IsDir {
			continue
		}
		doc, ok, err := st.Lookup(ctx, item.Path)
		if err != nil {
			return nil, wrapError(ErrStore, err)
		}
		switch {
		case !ok:
			work = append(work, pending{item: item, change: Added, registered: item.ModTime})
		case item.ModTime.After(doc.Modified):
			work = append(work, pending{item: item, change: Modified, registered: doc.Made})
		}
	}
	return work, nil
}

func (s *Site) publishItem(ctx context.Context, publisher *publish.Publisher, p pending) PageResult {
	start := s.now()
	res := PageResult{Path: p.item.Path, Change: p.change}

	src := sitefs.HostPath(s.opts.Source, p.item.Path)
	if IsDocument(p.item.Path) {
		res.Output = documentOutput(p.item.Path)
		res.Err = s.publishDocument(ctx, publisher, src, res.Output, p)
	} else {
		res.Output = imaging.OutputName(p.item.Path)
		res.Err = s.images.Process(sitefs.HostPath(s.opts.Output, res.Output), src)
	}
	res.Duration = s.now().Sub(start)
	return res
}

func (s *Site) publishDocument(ctx context.Context, publisher *publish.Publisher, src, output string, p pending) error {
	page, err := s.documentPage(ctx, src, p)
	if err != nil {
		return err
	}
	_, err = publisher.Write(ctx, sitefs.HostPath(s.opts.Output, output), page)
	if err != nil && errors.Is(err, publish.ErrTemplateRender) {
		return wrapError(ErrTemplateRender, err)
	}
	return err
}

func (s *Site) documentPage(ctx context.Context, src string, p pending) (publish.Page, error) {
	data, err := os.ReadFile(src) // #nosec G304 -- src comes from the crawled source root
	if err != nil {
		return publish.Page{}, fmt.Errorf("reading %s: %w", src, err)
	}

	result := &Result{Title: pipeline.UntitledDocument}
	// Empty files publish as blank pages so they are recorded and not
	// retried on every build.
	if strings.TrimSpace(string(data)) != "" {
		result, err = s.compiler.Compile(ctx, Input{
			Text:   string(data),
			Path:   p.item.Path,
			Format: FormatOf(p.item.Path),
		})
		if err != nil {
			return publish.Page{}, err
		}
	}

	return publish.Page{
		Kind:       publish.Document,
		Title:      result.Title,
		Body:       result.Body,
		Registered: s.timestamp.Format(p.registered),
		Modified:   s.timestamp.Format(p.item.ModTime),
		Path:       p.item.Path,
	}, nil
}

// affectedDirs returns the folders whose index must be regenerated: the
// ancestors of every published path, plus folders without an index yet.
func (s *Site) affectedDirs(published []PageResult, items []sitefs.Item) []string {
	set := map[string]bool{}
	for _, res := range published {
		if res.Err != nil {
			continue
		}
		for _, dir := range sitefs.Ancestors(res.Path) {
			set[dir] = true
		}
	}

	dirs := []string{"/"}
	for _, item := range items {
		if item.IsDir {
			dirs = append(dirs, item.Path)
		}
	}
	for _, dir := range dirs {
		if !fileutil.FileExists(sitefs.HostPath(s.opts.Output, indexOutput(dir))) {
			set[dir] = true
		}
	}

	out := make([]string, 0, len(set))
	for dir := range set {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}

func (s *Site) publishIndex(ctx context.Context, publisher *publish.Publisher, dir string) PageResult {
	start := s.now()
	res := PageResult{Path: dir, Output: indexOutput(dir), Change: Regenerated}

	page, err := s.indexPage(ctx, dir)
	if err == nil {
		_, err = publisher.Write(ctx, sitefs.HostPath(s.opts.Output, res.Output), page)
	}
	res.Err = err
	res.Duration = s.now().Sub(start)
	return res
}

func (s *Site) indexPage(ctx context.Context, dir string) (publish.Page, error) {
	result, err := s.compiler.Compile(ctx, Input{Path: dir, Directory: true})
	if err != nil {
		return publish.Page{}, err
	}
	now := s.timestamp.Format(s.now())
	return publish.Page{
		Kind:       publish.Index,
		Title:      result.Title,
		Body:       result.Body,
		Registered: now,
		Modified:   now,
		Path:       dir,
	}, nil
}

// upload mirrors every successfully written output.
func (s *Site) upload(ctx context.Context, results []PageResult) (int, error) {
	var outputs []string
	for _, res := range results {
		if res.Err == nil && res.Output != "" {
			outputs = append(outputs, res.Output)
		}
	}
	if len(outputs) == 0 {
		return 0, nil
	}

	up, err := s.dial(ctx)
	switch {
	case errors.Is(err, upload.ErrLogin):
		return 0, wrapError(ErrUploadLogin, err)
	case errors.Is(err, upload.ErrConnect):
		return 0, wrapError(ErrUploadConnect, err)
	case err != nil:
		return 0, wrapError(ErrUpload, err)
	}
	defer func() { _ = up.Close() }()

	uploaded := 0
	var errs []error
	for _, output := range outputs {
		if err := up.Upload(ctx, output); err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		uploaded++
	}
	if len(errs) > 0 {
		return uploaded, wrapError(ErrUpload, errors.Join(errs...))
	}
	return uploaded, nil
}

// RenderPage renders the page published at a logical output path without
// writing it: "/a/b.html" is compiled from "/a/b.txt" or "/a/b.md", and a
// directory or its index.html from a listing. Other paths return
// ErrPageNotFound.
func (s *Site) RenderPage(ctx context.Context, logical string) ([]byte, error) {
	logical = path.Clean("/" + logical)
	if path.Base(logical) == indexFile {
		logical = path.Dir(logical)
	}

	host := sitefs.HostPath(s.opts.Source, logical)
	if fileutil.DirExists(host) {
		page, err := s.indexPage(ctx, logical)
		if err != nil {
			return nil, err
		}
		return s.publisher.Render(ctx, page)
	}

	if path.Ext(logical) != ".html" {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, logical)
	}
	stem := strings.TrimSuffix(logical, ".html")
	for _, ext := range []string{".txt", ".md"} {
		src := sitefs.HostPath(s.opts.Source, stem+ext)
		info, err := os.Stat(src)
		if err != nil || info.IsDir() {
			continue
		}
		item := sitefs.Item{Path: stem + ext, ModTime: info.ModTime(), Size: info.Size()}
		page, err := s.documentPage(ctx, src, pending{item: item, registered: info.ModTime()})
		if err != nil {
			return nil, err
		}
		return s.publisher.Render(ctx, page)
	}
	return nil, fmt.Errorf("%w: %s", ErrPageNotFound, logical)
}

// Source returns the source root.
func (s *Site) Source() string {
	return s.opts.Source
}

// Output returns the output root.
func (s *Site) Output() string {
	return s.opts.Output
}

// Ignored reports whether a host file path is skipped by builds.
func (s *Site) Ignored(hostPath string) bool {
	name := filepath.Base(hostPath)
	return strings.HasPrefix(name, ".") || s.crawler.Ignored(name)
}

func documentOutput(logical string) string {
	return strings.TrimSuffix(logical, path.Ext(logical)) + ".html"
}

func indexOutput(dir string) string {
	return path.Join(dir, indexFile)
}

func logResult(logger zerolog.Logger, res PageResult) {
	if res.Err != nil {
		logger.Error().Err(res.Err).Str("path", res.Path).Msg("publish failed")
		return
	}
	logger.Info().
		Str("path", res.Path).
		Str("output", res.Output).
		Stringer("change", res.Change).
		Dur("duration", res.Duration).
		Msg("published")
}
