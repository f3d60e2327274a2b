package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// UntitledDocument is the title of a page without a level-1 heading.
const UntitledDocument = "Untitled Document"

// ExtractTitle returns the trimmed text of the first <h1> of an HTML
// fragment, or UntitledDocument.
func ExtractTitle(fragment string) string {
	doc, _, err := parseHTML(fragment)
	if err != nil {
		return UntitledDocument
	}
	h1 := findElement(doc, "h1")
	if h1 == nil {
		return UntitledDocument
	}
	title := strings.Join(strings.Fields(textContent(h1)), " ")
	if title == "" {
		return UntitledDocument
	}
	return title
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
