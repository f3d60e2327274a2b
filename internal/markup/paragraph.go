package markup

import "strings"

func paragraph(c *Context) error {
	line, _ := c.src.PopFront()
	c.OutputLine("<p>")
	renderInline(c, strings.TrimSpace(line), paragraphInlines)
	c.Output("</p>")
	return nil
}
