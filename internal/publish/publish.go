// Package publish wraps compiled fragments in the site's page templates and
// writes them to the output tree.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/alnah/go-tachyon/internal/assets"
	"github.com/alnah/go-tachyon/internal/fileutil"
	"github.com/alnah/go-tachyon/internal/pipeline"
)

// ErrTemplateRender indicates a page template failed to execute.
var ErrTemplateRender = errors.New("page template rendering failed")

// Kind selects the page template.
type Kind int

const (
	Document Kind = iota
	Index
)

// Page is one page to render.
type Page struct {
	Kind       Kind
	Title      string
	Body       string // compiled HTML fragment, inserted verbatim
	Registered string
	Modified   string
	Path       string // logical source path
}

// Options configure a Publisher.
type Options struct {
	SiteName   string // prefixes every title as "{SiteName} - "
	CSS        string // inlined into every page head
	Stylesheet string // linked from every page head
	BuildID    string
}

// Publisher renders pages from a template set.
type Publisher struct {
	document *template.Template
	index    *template.Template
	opts     Options
	head     pipeline.HeadInjector
}

// New parses the templates of ts.
func New(ts *assets.TemplateSet, opts Options) (*Publisher, error) {
	if ts == nil {
		return nil, fmt.Errorf("%w: nil template set", ErrTemplateRender)
	}
	document, err := template.New("document").Parse(ts.Document)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing document template of %s: %v", ErrTemplateRender, ts.Name, err)
	}
	index, err := template.New("index").Parse(ts.Index)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing index template of %s: %v", ErrTemplateRender, ts.Name, err)
	}
	return &Publisher{
		document: document,
		index:    index,
		opts:     opts,
		head:     &pipeline.HeadInjection{},
	}, nil
}

// WithBuildID returns a copy of p stamping pages with id.
func (p *Publisher) WithBuildID(id string) *Publisher {
	c := *p
	c.opts.BuildID = id
	return &c
}

// Render returns the full HTML page.
func (p *Publisher) Render(ctx context.Context, page Page) ([]byte, error) {
	tmpl := p.document
	if page.Kind == Index {
		tmpl = p.index
	}

	title := page.Title
	if title == "" {
		title = pipeline.UntitledDocument
	}

	data := assets.PageData{
		Title:      title,
		SiteName:   p.opts.SiteName,
		Body:       template.HTML(page.Body), // #nosec G203 -- compiled markup is trusted output
		Registered: page.Registered,
		Modified:   page.Modified,
		Path:       page.Path,
		BuildID:    p.opts.BuildID,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateRender, page.Path, err)
	}

	html := p.head.InjectCSS(ctx, buf.String(), p.opts.CSS)
	html = p.head.InjectStylesheet(ctx, html, p.opts.Stylesheet)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(html), nil
}

// Write renders page and writes it atomically to dst.
func (p *Publisher) Write(ctx context.Context, dst string, page Page) (int, error) {
	out, err := p.Render(ctx, page)
	if err != nil {
		return 0, err
	}
	if err := fileutil.WriteFileAtomic(dst, out); err != nil {
		return 0, fmt.Errorf("writing %s: %w", dst, err)
	}
	return len(out), nil
}
