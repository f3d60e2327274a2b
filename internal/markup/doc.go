// Package markup implements the tachyon compiler: a line-oriented markup
// language compiled into indented HTML fragments.
//
// # Grammar
//
// The grammar has two levels. The block level consumes whole lines from the
// front of a Queue and dispatches on the first matching rule of a fixed
// precedence table:
//
//	# heading            1-6 markers, level = marker count
//	- item / 1. item     lists, nested by leading spaces
//	img:path(caption)    figure with optional caption
//	<from:source ... >   quoted body, closed by a lone ">"
//	|*head*|cell|        table rows
//	anything else        paragraph
//
// The inline level rewrites spans inside a block's text:
//
//	<#id text → url>     anchor (id and text optional)
//	<icon name>          icon image
//	(*:note)             annotation marker with a deferred note
//
// # Self-referential output
//
// Two constructs generate markup that is compiled again. Annotations append
// a "## notes" heading and one list item per note to the end of the Queue
// being consumed, so the notes are rendered by the same pass. Headings below
// level 1 append entries to a table of contents buffer which is compiled by a
// nested pass and spliced in front of the first level-2 heading.
package markup
