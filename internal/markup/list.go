package markup

import "strings"

// list renders list items starting at the front line. An item followed by
// a deeper item owns a nested list inside its <li>, and the item after that
// nested list joins this list whatever its indent. Otherwise the list goes
// on only while the next item has the indent of the current one.
func list(c *Context) error {
	first, _ := c.src.Front()
	tag := "ol"
	if listPattern.FindStringSubmatch(first)[2] == "-" {
		tag = "ul"
	}

	c.OutputLine("<" + tag + ">")
	c.Indent()
	for {
		line, ok := c.src.Front()
		if !ok {
			break
		}
		item := listPattern.FindStringSubmatch(line)
		if item == nil {
			break
		}
		c.src.PopFront()
		depth := len(item[1])

		c.OutputLine("<li>")
		renderInline(c, strings.TrimSpace(item[3]), listInlines)

		next, ok := c.src.Front()
		if ok && itemWidth(next) > depth {
			c.Indent()
			if err := list(c); err != nil {
				return err
			}
			c.Dedent()
			c.OutputLine("</li>")
			continue
		}
		c.Output("</li>")
		if !ok || itemWidth(next) != depth {
			break
		}
	}
	c.Dedent()
	c.OutputLine("</" + tag + ">")
	return nil
}

// itemWidth returns the indent width of a list item, or -1 when line is not
// a list item.
func itemWidth(line string) int {
	m := listPattern.FindStringSubmatch(line)
	if m == nil {
		return -1
	}
	return len(m[1])
}
