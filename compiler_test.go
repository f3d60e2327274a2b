package tachyon

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// NewCompiler
// ---------------------------------------------------------------------------

func TestNewCompiler_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "defaults"},
		{name: "tab indent", opts: []Option{WithIndent("\t")}},
		{name: "mixed whitespace indent", opts: []Option{WithIndent(" \t")}},
		{name: "empty indent", opts: []Option{WithIndent("")}, wantErr: ErrInvalidIndent},
		{name: "letters in indent", opts: []Option{WithIndent("--")}, wantErr: ErrInvalidIndent},
		{name: "negative level", opts: []Option{WithIndentLevel(-1)}, wantErr: ErrInvalidIndent},
		{name: "level over maximum", opts: []Option{WithIndentLevel(MaxIndentLevel + 1)}, wantErr: ErrInvalidIndent},
		{name: "level at maximum", opts: []Option{WithIndentLevel(MaxIndentLevel)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewCompiler(tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewCompiler() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCompiler() unexpected error: %v", err)
			}
			if c == nil {
				t.Fatal("NewCompiler() returned nil")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Compile - tachyon markup
// ---------------------------------------------------------------------------

func mustCompiler(t *testing.T, opts ...Option) *Compiler {
	t.Helper()
	c, err := NewCompiler(opts...)
	if err != nil {
		t.Fatalf("NewCompiler() error: %v", err)
	}
	return c
}

func TestCompile_Tachyon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      []Option
		text      string
		wantLines []string
		wantTitle string
	}{
		{
			name:      "heading and paragraph",
			text:      "# Hello\n\nWorld",
			wantLines: []string{`<h1 id="AutoToC_001">Hello</h1>`, "<p>World</p>"},
			wantTitle: "Hello",
		},
		{
			name:      "indent level shifts every line",
			opts:      []Option{WithIndentLevel(2)},
			text:      "# Hi\ntext",
			wantLines: []string{`  <h1 id="AutoToC_001">Hi</h1>`, "  <p>text</p>"},
			wantTitle: "Hi",
		},
		{
			name:      "tab indent unit",
			opts:      []Option{WithIndent("\t")},
			text:      "- a\n- b",
			wantLines: []string{"<ul>", "\t<li>a</li>", "\t<li>b</li>", "</ul>"},
			wantTitle: "Untitled Document",
		},
		{
			name:      "CRLF and byte order mark are normalized",
			text:      "\uFEFF# T\r\nbody\r\n",
			wantLines: []string{`<h1 id="AutoToC_001">T</h1>`, "<p>body</p>"},
			wantTitle: "T",
		},
		{
			name:      "custom icon path",
			opts:      []Option{WithIconPath("/icons/")},
			text:      "<icon star> ok",
			wantLines: []string{`<p><img src="/icons/star.png" /> ok</p>`},
			wantTitle: "Untitled Document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := mustCompiler(t, tt.opts...).Compile(context.Background(), Input{Text: tt.text})
			if err != nil {
				t.Fatalf("Compile() error: %v", err)
			}
			if diff := cmp.Diff(tt.wantLines, res.Lines); diff != "" {
				t.Errorf("Lines mismatch (-want +got):\n%s", diff)
			}
			if res.Body != strings.Join(res.Lines, "\n") {
				t.Errorf("Body = %q, want lines joined with newline", res.Body)
			}
			if res.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", res.Title, tt.wantTitle)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "empty text", input: Input{Text: ""}, wantErr: ErrEmptyDocument},
		{name: "whitespace only", input: Input{Text: " \n\t\n"}, wantErr: ErrEmptyDocument},
		{name: "unterminated table row", input: Input{Text: "|a|b"}, wantErr: ErrParse},
		{name: "directory without listing", input: Input{Path: "/x", Directory: true}, wantErr: ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := mustCompiler(t).Compile(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompile_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mustCompiler(t).Compile(ctx, Input{Text: "# a"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Compile() error = %v, want context.Canceled", err)
	}
}

func TestCompile_BreadcrumbUsesNames(t *testing.T) {
	t.Parallel()

	names := NameLookupFunc(func(p string) (string, bool) {
		switch p {
		case "/":
			return "Home", true
		case "/notes":
			return "Notes", true
		}
		return "", false
	})

	res, err := mustCompiler(t, WithNames(names)).Compile(context.Background(), Input{
		Text: "# Day one\ntext",
		Path: "/notes/day.txt",
	})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var crumbs []string
	doc.Find("ol.breadcrumbs li").Each(func(_ int, s *goquery.Selection) {
		crumbs = append(crumbs, s.Text())
	})
	if diff := cmp.Diff([]string{"Home", "Notes", "Day one"}, crumbs); diff != "" {
		t.Errorf("breadcrumbs mismatch (-want +got):\n%s", diff)
	}
	if href, _ := doc.Find("ol.breadcrumbs li a").Eq(1).Attr("href"); href != "/notes/" {
		t.Errorf("folder crumb href = %q, want %q", href, "/notes/")
	}
}

type fakeListing map[string][]Entry

func (f fakeListing) List(p string) ([]Entry, error) {
	entries, ok := f[p]
	if !ok {
		return nil, errors.New("no such directory")
	}
	return entries, nil
}

func TestCompile_DirectoryIndex(t *testing.T) {
	t.Parallel()

	listing := fakeListing{
		"/docs": {
			{Name: "img", IsDir: true, Modified: "2024/01/02", Size: "-"},
			{Name: "a.txt", Modified: "2024/01/03", Size: "1.5KB"},
			{Name: "b.md", Modified: "2024/01/04", Size: "0.2KB"},
		},
	}

	res, err := mustCompiler(t, WithListing(listing)).Compile(context.Background(), Input{
		Path:      "/docs",
		Directory: true,
	})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if res.Title != "Index of /docs/" {
		t.Errorf("Title = %q, want %q", res.Title, "Index of /docs/")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var hrefs []string
	doc.Find("table td a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	if diff := cmp.Diff([]string{"./img", "./a.html", "./b.html"}, hrefs); diff != "" {
		t.Errorf("index links mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Find("table th").Length(); got != 3 {
		t.Errorf("header cells = %d, want 3", got)
	}
}

func TestCompile_DirectoryListingError(t *testing.T) {
	t.Parallel()

	_, err := mustCompiler(t, WithListing(fakeListing{})).Compile(context.Background(), Input{
		Path:      "/missing",
		Directory: true,
	})
	if err == nil {
		t.Fatal("Compile() error = nil, want listing error")
	}
}

// ---------------------------------------------------------------------------
// Compile - Markdown
// ---------------------------------------------------------------------------

func TestCompile_Markdown(t *testing.T) {
	t.Parallel()

	res, err := mustCompiler(t).Compile(context.Background(), Input{
		Text:   "# Guide\n\nSee [next](next.md) and ==this==.\n",
		Format: FormatMarkdown,
	})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if res.Title != "Guide" {
		t.Errorf("Title = %q, want %q", res.Title, "Guide")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if href, _ := doc.Find("a").Attr("href"); href != "next.html" {
		t.Errorf("link href = %q, want %q", href, "next.html")
	}
	if got := doc.Find("mark").Text(); got != "this" {
		t.Errorf("mark text = %q, want %q", got, "this")
	}
}

// ---------------------------------------------------------------------------
// Formats
// ---------------------------------------------------------------------------

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want Format
		doc  bool
	}{
		{"a.txt", FormatTachyon, true},
		{"a.md", FormatMarkdown, true},
		{"A.MARKDOWN", FormatMarkdown, true},
		{"photo.jpg", FormatTachyon, false},
		{"README", FormatTachyon, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatOf(tt.name); got != tt.want {
				t.Errorf("FormatOf(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got := IsDocument(tt.name); got != tt.doc {
				t.Errorf("IsDocument(%q) = %v, want %v", tt.name, got, tt.doc)
			}
		})
	}
}
