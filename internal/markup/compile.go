package markup

import (
	"fmt"
	"strings"
)

// Source is one document handed to Compile.
type Source struct {
	Text      string // raw text, "\n" separated
	Path      string // logical path, "" disables the breadcrumb trail
	Directory bool   // synthesize an index of Path instead of reading Text
}

// Collaborators provides the lookups used by breadcrumbs and indexes. Both
// may be nil; a nil Listing makes directory sources fail.
type Collaborators struct {
	Names   NameLookup
	Listing DirectoryListing
}

// Compile runs breadcrumb, block dispatch and table of contents passes over
// src and returns the fragment lines. A contract violation inside a node is
// returned as an error instead of unwinding the caller.
func Compile(src Source, s Settings, col Collaborators) (lines []string, err error) {
	if col.Names == nil {
		col.Names = noNames{}
	}

	text := src.Text
	if src.Directory {
		if col.Listing == nil {
			return nil, ErrNoListing
		}
		entries, err := col.Listing.List(cleanPath(src.Path))
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", src.Path, err)
		}
		text = strings.Join(IndexSource(src.Path, entries, col.Names), "\n")
	}

	defer func() {
		if r := recover(); r != nil {
			lines, err = nil, fmt.Errorf("compile %q: %v", src.Path, r)
		}
	}()

	source := strings.Split(text, "\n")
	c := newContext(s, NewQueue(source), src.Path)
	if src.Path != "" {
		firstLine := ""
		if !src.Directory {
			firstLine = source[0]
		}
		breadcrumb(c, col.Names, firstLine)
	}
	if err := dispatch(c, documentBlocks, nil); err != nil {
		return nil, err
	}

	out := c.out
	if len(c.toc) > 1 {
		toc, err := renderTOC(c.toc, s)
		if err != nil {
			return nil, err
		}
		out = spliceTOC(out, toc)
	}
	return out[1:], nil
}
