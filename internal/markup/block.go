package markup

import (
	"regexp"
	"strings"
)

// blockKind enumerates the block-level constructs.
type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockList
	blockImage
	blockQuote
	blockTable
)

var (
	headingPattern   = regexp.MustCompile(`^(#{1,6}) *(.*)$`)
	listPattern      = regexp.MustCompile(`^( *)(-|[0-9]+\.|\+) *(.*)$`)
	imagePattern     = regexp.MustCompile(`^img:([^(]*)(\((.*)\))?$`)
	quoteOpenPattern = regexp.MustCompile(`^<from:(.*)$`)
	tableRowPattern  = regexp.MustCompile(`^ *\|`)
)

// Precedence tables. The first kind whose pattern matches the front line
// wins; a line matching none of them is a paragraph.
var (
	documentBlocks = []blockKind{blockHeading, blockList, blockImage, blockQuote, blockTable}
	quoteBlocks    = []blockKind{blockList, blockImage}
)

func (k blockKind) matches(line string) bool {
	switch k {
	case blockHeading:
		return headingPattern.MatchString(line)
	case blockList:
		return listPattern.MatchString(line)
	case blockImage:
		return imagePattern.MatchString(line)
	case blockQuote:
		return quoteOpenPattern.MatchString(line)
	case blockTable:
		return tableRowPattern.MatchString(line)
	default:
		return false
	}
}

// classify returns the first kind in table matching line.
func classify(line string, table []blockKind) blockKind {
	for _, k := range table {
		if k.matches(line) {
			return k
		}
	}
	return blockParagraph
}

func runBlock(c *Context, k blockKind) error {
	switch k {
	case blockHeading:
		return heading(c)
	case blockList:
		return list(c)
	case blockImage:
		return image(c)
	case blockQuote:
		return blockquote(c)
	case blockTable:
		return table(c)
	default:
		return paragraph(c)
	}
}

// dispatch consumes the queue block by block until it is empty or stop
// reports true for the front line. Blank lines between blocks are dropped.
func dispatch(c *Context, table []blockKind, stop func(string) bool) error {
	for {
		line, ok := c.src.Front()
		if !ok {
			return nil
		}
		if isBlank(line) {
			c.src.PopFront()
			continue
		}
		if stop != nil && stop(line) {
			return nil
		}
		if err := runBlock(c, classify(line, table)); err != nil {
			return err
		}
	}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
