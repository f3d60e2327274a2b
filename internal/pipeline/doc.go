// Package pipeline implements the stages around the tachyon compiler.
//
// The stages are:
//   - Source preprocessing (line endings, byte order mark, ==highlight== syntax)
//   - Markdown to HTML fragments via Goldmark, for .md pages
//   - Title extraction from compiled fragments
//   - Source link rewriting (.txt and .md targets to their .html pages)
//   - CSS injection into rendered pages
//
// Compilation of the tachyon markup itself lives in internal/markup; this
// package only touches text before and HTML after it.
package pipeline
