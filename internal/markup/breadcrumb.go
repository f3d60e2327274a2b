package markup

import "strings"

// breadcrumb writes the ancestor trail of c.path. firstLine is the first
// line of the document text, empty for synthesized indexes.
func breadcrumb(c *Context, names NameLookup, firstLine string) {
	segments := splitPath(c.path)

	c.OutputLine(`<ol class="breadcrumbs">`)
	c.Indent()
	if len(segments) > 0 {
		c.OutputLine(`<li><a href="/">` + titleOr(names, "/", "/") + `</a></li>`)
	}
	for i := 1; i < len(segments); i++ {
		dir := "/" + strings.Join(segments[:i], "/")
		c.OutputLine(`<li><a href="` + dir + `/">` + titleOr(names, dir, segments[i-1]) + `</a></li>`)
	}
	c.OutputLine(`<li><em>` + currentTitle(c.path, segments, names, firstLine) + `</em></li>`)
	c.Dedent()
	c.OutputLine("</ol>")
}

func currentTitle(path string, segments []string, names NameLookup, firstLine string) string {
	if t := strings.TrimSpace(strings.TrimLeft(firstLine, "#")); t != "" {
		return t
	}
	fallback := "/"
	if len(segments) > 0 {
		fallback = segments[len(segments)-1]
	}
	return titleOr(names, cleanPath(path), fallback)
}

func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// cleanPath returns p rooted at "/" without a trailing slash.
func cleanPath(p string) string {
	return "/" + strings.Join(splitPath(p), "/")
}
