package markup

import "strings"

// isQuoteClose reports whether line closes a quoted body.
func isQuoteClose(line string) bool {
	return strings.TrimSpace(line) == ">"
}

// blockquote renders a quoted body up to its close marker. A body without
// a close marker runs to the end of the queue.
func blockquote(c *Context) error {
	if !c.activeBlank() {
		c.OutputLine("")
	}
	line, _ := c.src.PopFront()
	source := strings.TrimSpace(quoteOpenPattern.FindStringSubmatch(line)[1])
	isLink := strings.HasPrefix(source, "http")

	c.OutputLine(`<figure class="blockquote">`)
	c.Indent()
	if isLink {
		c.OutputLine(`<blockquote cite="` + source + `">`)
	} else {
		c.OutputLine("<blockquote>")
	}
	c.Indent()
	if err := dispatch(c, quoteBlocks, isQuoteClose); err != nil {
		return err
	}
	c.Dedent()
	c.OutputLine("</blockquote>")

	c.OutputLine("<figcaption>")
	c.Indent()
	if isLink {
		c.OutputLine(`<a href="` + source + `">` + source + `</a>`)
	} else {
		c.OutputLine(source)
	}
	c.Dedent()
	c.OutputLine("</figcaption>")
	c.Dedent()
	c.OutputLine("</figure>")

	c.src.PopFront()
	return nil
}
