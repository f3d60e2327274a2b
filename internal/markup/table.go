package markup

import (
	"fmt"
	"strings"
)

func table(c *Context) error {
	c.OutputLine("<table>")
	c.Indent()
	for {
		line, ok := c.src.Front()
		if !ok || !tableRowPattern.MatchString(line) {
			break
		}
		cells, err := splitRow(line)
		if err != nil {
			return err
		}
		c.src.PopFront()

		c.OutputLine("<tr>")
		c.Indent()
		c.OutputLine("")
		for _, cell := range cells {
			tag := "td"
			if isHeaderCell(cell) {
				tag = "th"
				cell = strings.Trim(cell, "*")
			}
			c.Output("<" + tag + ">")
			renderInline(c, cell, tableInlines)
			c.Output("</" + tag + ">")
		}
		c.Dedent()
		c.OutputLine("</tr>")
	}
	c.Dedent()
	c.OutputLine("</table>")
	return nil
}

// splitRow returns the trimmed cells between the boundary pipes of a row.
func splitRow(line string) ([]string, error) {
	row := strings.TrimSpace(line)
	if len(row) < 2 || !strings.HasSuffix(row, "|") {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRow, line)
	}
	parts := strings.Split(row, "|")
	cells := parts[1 : len(parts)-1]
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells, nil
}

func isHeaderCell(cell string) bool {
	return len(cell) >= 2 && strings.HasPrefix(cell, "*") && strings.HasSuffix(cell, "*")
}
