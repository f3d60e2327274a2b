package markup

import "strings"

func image(c *Context) error {
	if !c.activeBlank() {
		c.OutputLine("")
	}
	line, _ := c.src.PopFront()
	m := imagePattern.FindStringSubmatch(line)
	src, caption := strings.TrimSpace(m[1]), m[3]

	c.OutputLine(`<figure class="image">`)
	c.Indent()
	c.OutputLine(`<img src="` + src + `" />`)
	if caption != "" {
		c.OutputLine("<figcaption>")
		c.Indent()
		c.OutputLine(caption)
		c.Dedent()
		c.OutputLine("</figcaption>")
	}
	c.Dedent()
	c.OutputLine("</figure>")
	return nil
}
