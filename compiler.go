package tachyon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-tachyon/internal/markup"
	"github.com/alnah/go-tachyon/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.SourcePreprocessor = (*pipeline.TextPreprocessor)(nil)
	_ pipeline.SourcePreprocessor = (*pipeline.MarkdownPreprocessor)(nil)
	_ pipeline.HTMLConverter      = (*pipeline.GoldmarkConverter)(nil)
)

// Compiler turns documents into HTML fragments. It holds no per-document
// state and is safe for concurrent use.
type Compiler struct {
	cfg           compilerConfig
	text          pipeline.SourcePreprocessor
	markdown      pipeline.SourcePreprocessor
	htmlConverter pipeline.HTMLConverter
}

// NewCompiler creates a Compiler. Without options it indents with one
// space from level 0, links icons under DefaultIconPath and resolves no
// titles.
func NewCompiler(opts ...Option) (*Compiler, error) {
	cfg := compilerConfig{
		indent:      DefaultIndent,
		indentLevel: DefaultIndentLevel,
		iconPath:    DefaultIconPath,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Compiler{
		cfg:           cfg,
		text:          &pipeline.TextPreprocessor{},
		markdown:      &pipeline.MarkdownPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
	}, nil
}

// Compile compiles one document. Directory inputs need a listing set with
// WithListing. Recovers from internal panics to prevent crashes from
// propagating to callers.
func (c *Compiler) Compile(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !input.Directory && strings.TrimSpace(input.Text) == "" {
		return nil, ErrEmptyDocument
	}

	var lines []string
	if input.Format == FormatMarkdown && !input.Directory {
		lines, err = c.compileMarkdown(ctx, input.Text)
	} else {
		lines, err = c.compileTachyon(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	body := strings.Join(lines, "\n")
	return &Result{
		Lines: lines,
		Body:  body,
		Title: pipeline.ExtractTitle(body),
	}, nil
}

func (c *Compiler) compileTachyon(ctx context.Context, input Input) ([]string, error) {
	text := c.text.Preprocess(ctx, input.Text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, err := markup.Compile(
		markup.Source{Text: text, Path: input.Path, Directory: input.Directory},
		markup.Settings{
			IndentUnit:  c.cfg.indent,
			IndentLevel: c.cfg.indentLevel,
			IconPath:    c.cfg.iconPath,
		},
		markup.Collaborators{Names: c.cfg.names, Listing: c.cfg.listing},
	)
	if err != nil {
		if errors.Is(err, markup.ErrMalformedRow) || errors.Is(err, markup.ErrNoListing) {
			return nil, wrapError(ErrParse, err)
		}
		return nil, fmt.Errorf("compiling %s: %w", displayPath(input.Path), err)
	}
	return lines, nil
}

func (c *Compiler) compileMarkdown(ctx context.Context, text string) ([]string, error) {
	text = c.markdown.Preprocess(ctx, text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fragment, err := c.htmlConverter.ToHTML(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}
	fragment, err = pipeline.RewriteSourceLinks(fragment)
	if err != nil {
		return nil, fmt.Errorf("rewriting source links: %w", err)
	}
	return strings.Split(strings.TrimRight(fragment, "\n"), "\n"), nil
}

func displayPath(p string) string {
	if p == "" {
		return "document"
	}
	return p
}
