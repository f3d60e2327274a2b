package tachyon

import (
	"fmt"
	"path"
	"strings"

	"github.com/alnah/go-tachyon/internal/markup"
)

// Default compile settings.
const (
	DefaultIndent      = markup.DefaultIndentUnit
	DefaultIndentLevel = 0
	DefaultIconPath    = markup.DefaultIconPath
)

// MaxIndentLevel bounds the starting indentation level.
const MaxIndentLevel = 32

// Format selects the source syntax of a document.
type Format int

const (
	// FormatTachyon is the line-oriented tachyon markup.
	FormatTachyon Format = iota
	// FormatMarkdown is CommonMark with GFM extensions.
	FormatMarkdown
)

// FormatOf returns the format of a source file from its extension.
func FormatOf(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatTachyon
	}
}

// IsDocument reports whether a source file name is compiled into a page.
func IsDocument(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}

// Input is one document to compile.
type Input struct {
	Text      string // source text (required unless Directory)
	Path      string // logical path such as "/notes/a.txt"; empty disables breadcrumbs
	Directory bool   // compile a synthesized index of Path instead of Text
	Format    Format
}

// Result is a compiled HTML fragment.
type Result struct {
	Lines []string // fragment lines, indentation included
	Body  string   // Lines joined with "\n"
	Title string   // text of the first <h1>, or "Untitled Document"
}

// NameLookup resolves display titles of logical paths.
type NameLookup = markup.NameLookup

// NameLookupFunc adapts a function to NameLookup.
type NameLookupFunc = markup.NameLookupFunc

// DirectoryListing lists logical directories for index pages.
type DirectoryListing = markup.DirectoryListing

// Entry is one row of a directory listing.
type Entry = markup.Entry

// Option configures a Compiler.
type Option func(*compilerConfig)

// compilerConfig holds the settings collected from options.
type compilerConfig struct {
	indent      string
	indentLevel int
	iconPath    string
	names       NameLookup
	listing     DirectoryListing
}

// WithIndent sets the indentation unit written once per nesting level.
// It must be non-empty and contain only spaces or tabs.
func WithIndent(unit string) Option {
	return func(c *compilerConfig) {
		c.indent = unit
	}
}

// WithIndentLevel sets the nesting level of the outermost fragment lines.
func WithIndentLevel(level int) Option {
	return func(c *compilerConfig) {
		c.indentLevel = level
	}
}

// WithIconPath sets the URL prefix of <icon name> images.
func WithIconPath(prefix string) Option {
	return func(c *compilerConfig) {
		c.iconPath = prefix
	}
}

// WithNames sets the lookup used for breadcrumb and index titles.
func WithNames(names NameLookup) Option {
	return func(c *compilerConfig) {
		c.names = names
	}
}

// WithListing sets the directory listing used to compile directory inputs.
func WithListing(listing DirectoryListing) Option {
	return func(c *compilerConfig) {
		c.listing = listing
	}
}

func (c *compilerConfig) validate() error {
	if c.indent == "" || strings.Trim(c.indent, " \t") != "" {
		return fmt.Errorf("%w: indent must be spaces or tabs, got %q", ErrInvalidIndent, c.indent)
	}
	if c.indentLevel < 0 || c.indentLevel > MaxIndentLevel {
		return fmt.Errorf("%w: level must be between 0 and %d, got %d", ErrInvalidIndent, MaxIndentLevel, c.indentLevel)
	}
	return nil
}
