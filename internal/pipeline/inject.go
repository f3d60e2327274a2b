package pipeline

import (
	"context"
	"html"
	"strings"
)

// HeadInjector adds styling to rendered pages.
type HeadInjector interface {
	InjectCSS(ctx context.Context, page, css string) string
	InjectStylesheet(ctx context.Context, page, href string) string
}

// HeadInjection inserts blocks at the end of a page's <head>.
type HeadInjection struct{}

// InjectCSS inserts css as a <style> block. Empty css leaves the page as is.
func (h *HeadInjection) InjectCSS(ctx context.Context, page, css string) string {
	if css == "" || ctx.Err() != nil {
		return page
	}
	return injectHead(page, "<style>"+sanitizeCSS(css)+"</style>")
}

// InjectStylesheet inserts a <link rel="stylesheet"> pointing at href.
func (h *HeadInjection) InjectStylesheet(ctx context.Context, page, href string) string {
	if href == "" || ctx.Err() != nil {
		return page
	}
	return injectHead(page, `<link rel="stylesheet" href="`+html.EscapeString(href)+`" />`)
}

// injectHead places block before </head>, else right after the <body> tag,
// else in front of the page.
func injectHead(page, block string) string {
	lower := strings.ToLower(page)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return page[:idx] + block + page[idx:]
	}

	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.Index(page[idx:], ">"); end != -1 {
			at := idx + end + 1
			return page[:at] + block + page[at:]
		}
	}

	return block + page
}

// sanitizeCSS escapes "</" so the content cannot close its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
