package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-tachyon/internal/assets"
)

func defaultPublisher(t *testing.T, opts Options) *Publisher {
	t.Helper()
	ts, err := assets.NewEmbeddedLoader().LoadTemplateSet(assets.DefaultTemplateSetName)
	if err != nil {
		t.Fatalf("loading templates: %v", err)
	}
	p, err := New(ts, opts)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return p
}

func parse(t *testing.T, page []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		t.Fatalf("parsing page: %v", err)
	}
	return doc
}

func TestRender_Document(t *testing.T) {
	t.Parallel()

	p := defaultPublisher(t, Options{SiteName: "Notes", CSS: "body{margin:0}", Stylesheet: "/res/site.css"})
	out, err := p.Render(context.Background(), Page{
		Kind:       Document,
		Title:      "A & B",
		Body:       `<h1 id="AutoToC_001">A &amp; B</h1>`,
		Registered: "2024/01/01",
		Modified:   "2024/02/01",
		Path:       "/a.txt",
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	doc := parse(t, out)
	if got := doc.Find("title").Text(); got != "Notes - A & B" {
		t.Errorf("title = %q, want %q", got, "Notes - A & B")
	}
	if got := doc.Find("main h1#AutoToC_001").Text(); got != "A & B" {
		t.Errorf("body h1 = %q, body not inserted verbatim", got)
	}
	if got := doc.Find("head style").Text(); got != "body{margin:0}" {
		t.Errorf("inlined css = %q", got)
	}
	if href, _ := doc.Find(`head link[rel="stylesheet"]`).Attr("href"); href != "/res/site.css" {
		t.Errorf("stylesheet href = %q", href)
	}
	if !strings.Contains(doc.Find("footer").Text(), "2024/02/01") {
		t.Error("modified time missing from footer")
	}
}

func TestRender_IndexWithoutSiteName(t *testing.T) {
	t.Parallel()

	p := defaultPublisher(t, Options{})
	out, err := p.Render(context.Background(), Page{Kind: Index, Body: "<table></table>", Path: "/notes"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	doc := parse(t, out)
	if got := doc.Find("title").Text(); got != "Untitled Document" {
		t.Errorf("title = %q, want Untitled Document", got)
	}
	if doc.Find("body.index main table").Length() != 1 {
		t.Error("index template not used")
	}
	if doc.Find("head style").Length() != 0 {
		t.Error("empty css injected a style block")
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, Options{}); !errors.Is(err, ErrTemplateRender) {
		t.Errorf("New(nil) error = %v, want ErrTemplateRender", err)
	}
	ts := &assets.TemplateSet{Name: "broken", Document: "{{.Title", Index: "ok"}
	if _, err := New(ts, Options{}); !errors.Is(err, ErrTemplateRender) {
		t.Errorf("New(broken) error = %v, want ErrTemplateRender", err)
	}
}

func TestRender_ExecutionError(t *testing.T) {
	t.Parallel()

	ts := &assets.TemplateSet{Name: "t", Document: "{{.Missing}}", Index: ""}
	p, err := New(ts, Options{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := p.Render(context.Background(), Page{}); !errors.Is(err, ErrTemplateRender) {
		t.Errorf("Render() error = %v, want ErrTemplateRender", err)
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	p := defaultPublisher(t, Options{}).WithBuildID("build-1")
	dst := filepath.Join(t.TempDir(), "notes", "index.html")
	n, err := p.Write(context.Background(), dst, Page{Kind: Index, Title: "Index of /notes/"})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if n != len(data) {
		t.Errorf("Write() = %d bytes, file has %d", n, len(data))
	}
	if !strings.Contains(string(data), "Index of /notes/") {
		t.Error("output missing title")
	}
}
