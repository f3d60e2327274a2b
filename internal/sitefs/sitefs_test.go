package sitefs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-tachyon/internal/dateutil"
	"github.com/alnah/go-tachyon/internal/markup"
	"github.com/alnah/go-tachyon/internal/sitefs"
)

var fixedTime = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

// writeTree creates files under root and pins their modification time.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.Chtimes(p, fixedTime, fixedTime); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
}

func newSite(t *testing.T) (src, out string) {
	t.Helper()
	src = t.TempDir()
	out = t.TempDir()
	writeTree(t, src, map[string]string{
		"index.txt":          "# Home\n\ntext",
		"notes/_name":        "Field Notes\nignored second line",
		"notes/a.txt":        "\n## First note\nbody",
		"notes/b.txt":        "no heading at all",
		"notes/photo.jpg":    "jpg",
		"notes/_banner.png":  "png",
		"notes/draft.txt~":   "backup",
		"notes/.hidden":      "x",
		"notes/deep/c.txt":   "# C",
		"notes/empty/_name":  "   ",
		"plain/readme.md":    "# Markdown",
		".git/config":        "x",
	})
	for _, dir := range []string{"notes/deep", "notes/empty", "notes", "plain"} {
		if err := os.Chtimes(filepath.Join(src, dir), fixedTime, fixedTime); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	return src, out
}

// ---------------------------------------------------------------------------
// TestCrawl - Source tree walking
// ---------------------------------------------------------------------------

func TestCrawl(t *testing.T) {
	t.Parallel()

	src, _ := newSite(t)
	c := sitefs.NewCrawler(src, []string{"~"}, "_name")

	items, err := c.Crawl(context.Background())
	if err != nil {
		t.Fatalf("Crawl() error: %v", err)
	}

	var got []string
	for _, it := range items {
		p := it.Path
		if it.IsDir {
			p += "/"
		}
		got = append(got, p)
	}
	want := []string{
		"/index.txt",
		"/notes/",
		"/notes/_banner.png",
		"/notes/a.txt",
		"/notes/b.txt",
		"/notes/deep/",
		"/notes/deep/c.txt",
		"/notes/empty/",
		"/notes/photo.jpg",
		"/plain/",
		"/plain/readme.md",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Crawl() mismatch (-want +got):\n%s", diff)
	}
}

func TestCrawl_MissingRoot(t *testing.T) {
	t.Parallel()

	c := sitefs.NewCrawler(filepath.Join(t.TempDir(), "missing"), nil, "_name")
	if _, err := c.Crawl(context.Background()); !errors.Is(err, sitefs.ErrSourceRoot) {
		t.Errorf("Crawl() error = %v, want ErrSourceRoot", err)
	}
}

func TestCrawl_Cancelled(t *testing.T) {
	t.Parallel()

	src, _ := newSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sitefs.NewCrawler(src, nil, "_name").Crawl(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Crawl() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestAncestors - Folder chains for index regeneration
// ---------------------------------------------------------------------------

func TestAncestors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want []string
	}{
		{"/index.txt", []string{"/"}},
		{"/a/b/c.txt", []string{"/a/b", "/a", "/"}},
		{"a/b.txt", []string{"/a", "/"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, sitefs.Ancestors(tt.path)); diff != "" {
			t.Errorf("Ancestors(%q) mismatch (-want +got):\n%s", tt.path, diff)
		}
	}
}

// ---------------------------------------------------------------------------
// TestLookupTitle - Names of folders and documents
// ---------------------------------------------------------------------------

func TestLookupTitle(t *testing.T) {
	t.Parallel()

	src, out := newSite(t)
	ts, err := dateutil.NewFormatter("")
	if err != nil {
		t.Fatal(err)
	}
	l := sitefs.NewLookup(sitefs.NewCrawler(src, []string{"~"}, "_name"), out, ts)

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/notes", "Field Notes", true},
		{"/notes/a.txt", "First note", true},
		{"/index.txt", "Home", true},
		{"/notes/b.txt", "", false},
		{"/notes/deep", "", false},
		{"/notes/empty", "", false},
		{"/notes/photo.jpg", "", false},
		{"/plain/readme.md", "Markdown", true},
		{"/missing", "", false},
		{"/", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, ok := l.Title(tt.path)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Title(%q) = (%q, %v), want (%q, %v)", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLookupList - Directory listings
// ---------------------------------------------------------------------------

func TestLookupList(t *testing.T) {
	t.Parallel()

	src, out := newSite(t)
	writeTree(t, out, map[string]string{
		"notes/a.html":    string(make([]byte, 1536)),
		"notes/photo.jpg": string(make([]byte, 2048)),
	})
	ts, err := dateutil.NewFormatter("")
	if err != nil {
		t.Fatal(err)
	}
	l := sitefs.NewLookup(sitefs.NewCrawler(src, []string{"~"}, "_name"), out, ts.In(time.UTC))

	got, err := l.List("/notes")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	want := []markup.Entry{
		{Name: "deep", IsDir: true, Modified: "2024/05/01", Size: "-"},
		{Name: "empty", IsDir: true, Modified: "2024/05/01", Size: "-"},
		{Name: "a.txt", Modified: "2024/05/01", Size: "1.5KB"},
		{Name: "b.txt", Modified: "2024/05/01", Size: "-"},
		{Name: "photo.jpg", Modified: "2024/05/01", Size: "2.0KB"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	if _, err := l.List("/missing"); err == nil {
		t.Error("List(/missing) succeeded, want error")
	}
}

func TestFormatSize(t *testing.T) {
	t.Parallel()

	tests := map[int64]string{
		0:    "0.0KB",
		1024: "1.0KB",
		1536: "1.5KB",
		1000: "0.977KB",
		1:    "0.001KB",
	}
	for n, want := range tests {
		if got := sitefs.FormatSize(n); got != want {
			t.Errorf("FormatSize(%d) = %q, want %q", n, got, want)
		}
	}
}
