package markup

import (
	"fmt"
	"strings"
)

const (
	headingIDPrefix = "AutoToC_"
	headingCounter  = "AutoToC"
)

func heading(c *Context) error {
	line, _ := c.src.PopFront()
	m := headingPattern.FindStringSubmatch(line)
	level := len(m[1])
	text := strings.TrimSpace(m[2])
	id := fmt.Sprintf("%s%03d", headingIDPrefix, c.Counter(headingCounter))

	c.OutputLine(fmt.Sprintf(`<h%d id="%s">`, level, id))
	renderInline(c, text, headingInlines)
	c.Output(fmt.Sprintf("</h%d>", level))

	if level > 1 {
		c.toc = append(c.toc, fmt.Sprintf("%s - <%s → #%s>", c.tocIndent(level), plainText(text), id))
	}
	return nil
}
