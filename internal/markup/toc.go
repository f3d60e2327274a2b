package markup

import "strings"

// renderTOC compiles table of contents entries in a nested pass with its own
// context and queue. The returned lines hold no leading empty line.
func renderTOC(entries []string, s Settings) ([]string, error) {
	c := newContext(s, NewQueue(entries), "")
	c.OutputLine(`<div class="ToC">`)
	c.Indent()
	c.OutputLine("<h2>Table of Contents</h2>")
	if err := dispatch(c, documentBlocks, nil); err != nil {
		return nil, err
	}
	c.Dedent()
	c.OutputLine("</div>")
	return c.out[1:], nil
}

// spliceTOC inserts toc before the first line opening a level-2 heading,
// or at the end when there is none.
func spliceTOC(lines, toc []string) []string {
	at := len(lines)
	for i, l := range lines {
		if strings.Contains(l, "<h2") {
			at = i
			break
		}
	}
	out := make([]string, 0, len(lines)+len(toc))
	out = append(out, lines[:at]...)
	out = append(out, toc...)
	return append(out, lines[at:]...)
}
