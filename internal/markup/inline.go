package markup

import (
	"regexp"
	"strconv"
	"strings"
)

// inlineKind enumerates the inline constructs.
type inlineKind int

const (
	inlineAnchor inlineKind = iota
	inlineIcon
	inlineAnnotation
)

var (
	anchorPattern     = regexp.MustCompile(`<(#[a-zA-Z0-9_]+)? ?([^→<>]*) *→ *([^→<>]+)>`)
	iconPattern       = regexp.MustCompile(`<icon +([^>]+)>`)
	annotationPattern = regexp.MustCompile(`\(\*:([^)]+)\)`)
)

// Inline tables per block. Order breaks ties between matches starting at
// the same offset.
var (
	paragraphInlines = []inlineKind{inlineAnchor, inlineIcon, inlineAnnotation}
	listInlines      = []inlineKind{inlineAnchor, inlineIcon}
	tableInlines     = []inlineKind{inlineAnchor, inlineIcon}
	headingInlines   = []inlineKind{inlineAnchor}
)

func (k inlineKind) pattern() *regexp.Regexp {
	switch k {
	case inlineAnchor:
		return anchorPattern
	case inlineIcon:
		return iconPattern
	default:
		return annotationPattern
	}
}

// renderInline writes text to the active output line, rewriting the
// leftmost construct of kinds and repeating on the remainder. Text outside
// any construct is written as is.
func renderInline(c *Context, text string, kinds []inlineKind) {
	for text != "" {
		kind, loc := leftmost(text, kinds)
		if loc == nil {
			c.Output(text)
			return
		}
		c.Output(text[:loc[0]])
		renderSpan(c, kind, text[loc[0]:loc[1]])
		text = text[loc[1]:]
	}
}

func leftmost(text string, kinds []inlineKind) (inlineKind, []int) {
	var (
		best    inlineKind
		bestLoc []int
	)
	for _, k := range kinds {
		loc := k.pattern().FindStringIndex(text)
		if loc != nil && (bestLoc == nil || loc[0] < bestLoc[0]) {
			best, bestLoc = k, loc
		}
	}
	return best, bestLoc
}

func renderSpan(c *Context, k inlineKind, span string) {
	switch k {
	case inlineAnchor:
		anchor(c, span)
	case inlineIcon:
		icon(c, span)
	case inlineAnnotation:
		annotation(c, span)
	}
}

func anchor(c *Context, span string) {
	id, text, url := parseAnchor(span)
	c.Output(`<a href="` + url + `"`)
	if strings.HasPrefix(url, "http") {
		c.Output(` class="external"`)
	}
	if id != "" {
		c.Output(` id="` + id + `"`)
	}
	c.Output(">" + text + "</a>")
}

// parseAnchor splits an anchor span into its id (without the leading #),
// display text and url. Empty display text falls back to the url.
func parseAnchor(span string) (id, text, url string) {
	m := anchorPattern.FindStringSubmatch(span)
	id = strings.TrimPrefix(m[1], "#")
	text = strings.TrimSpace(m[2])
	url = strings.TrimSpace(m[3])
	if text == "" {
		text = url
	}
	return id, text, url
}

func icon(c *Context, span string) {
	name := strings.TrimSpace(iconPattern.FindStringSubmatch(span)[1])
	c.Output(`<img src="` + c.settings.IconPath + name + `.png" />`)
}

const (
	notesHeading = "## notes"
	markIDPrefix = "mark_"
	noteIDPrefix = "list_"
)

// annotation writes a numbered marker and queues its note as a list item
// behind a notes heading queued on the first annotation of the pass.
func annotation(c *Context, span string) {
	note := annotationPattern.FindStringSubmatch(span)[1]
	if c.annotations == 0 {
		c.src.PushBack(notesHeading)
	}
	c.annotations++
	n := strconv.Itoa(c.annotations)

	c.Output(`<a class="annotation" id="` + markIDPrefix + n + `" href="#` + noteIDPrefix + n + `">※` + n + `</a>`)
	c.src.PushBack("- <#" + noteIDPrefix + n + " ※" + n + " → #" + markIDPrefix + n + "> " + note)
}

var plainReplacer = strings.NewReplacer("<", "", ">", "", "→", "")

// plainText reduces heading text to something safe inside an anchor's
// display text: anchors become their display text and icons disappear.
func plainText(text string) string {
	text = anchorPattern.ReplaceAllStringFunc(text, func(span string) string {
		_, display, _ := parseAnchor(span)
		return display
	})
	text = iconPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(plainReplacer.Replace(text))
}
