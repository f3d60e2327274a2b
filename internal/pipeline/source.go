package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters so they
// pass through Goldmark unchanged. ConvertMarkPlaceholders turns them into
// <mark> tags after conversion.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

const byteOrderMark = "\uFEFF"

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)
)

// SourcePreprocessor prepares raw page text for a compiler.
type SourcePreprocessor interface {
	Preprocess(ctx context.Context, content string) string
}

// TextPreprocessor normalizes tachyon sources. Line structure is
// significant to the compiler, so blank lines are kept as they are.
type TextPreprocessor struct{}

// Preprocess strips a leading byte order mark and converts line endings
// to "\n".
func (p *TextPreprocessor) Preprocess(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = strings.TrimPrefix(content, byteOrderMark)
	return normalizeLineEndings(content)
}

// MarkdownPreprocessor prepares .md sources for Goldmark.
type MarkdownPreprocessor struct{}

// Preprocess normalizes line endings, rewrites ==text== to highlight
// placeholders and compresses runs of blank lines.
func (p *MarkdownPreprocessor) Preprocess(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = strings.TrimPrefix(content, byteOrderMark)
	content = normalizeLineEndings(content)
	content = highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// ConvertMarkPlaceholders converts highlight placeholders to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
