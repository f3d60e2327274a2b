// Package tachyon compiles tachyon markup, a line-oriented plain-text
// format, into HTML fragments and builds static sites from trees of such
// documents.
//
// # Quick Start
//
// Compile one document:
//
//	c, err := tachyon.NewCompiler()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := c.Compile(ctx, tachyon.Input{
//	    Text: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Body)
//
// Result.Lines holds the fragment line by line, Result.Body the same lines
// joined with "\n", and Result.Title the text of the first level-1 heading.
//
// # Markup
//
// Each source line is classified by its first characters:
//
//	# Heading            headings h1-h6, numbered ids AutoToC_001...
//	- item / 1. item     unordered and ordered lists, nested by indentation
//	img:path(caption)    figure with optional caption
//	<from:source ... >   block quotation closed by a line holding ">"
//	|*head*|cell|        table rows, starred cells are headers
//	anything else        paragraph
//
// Inside text, <label → url> is a link, <icon name> an icon image and
// (*:text) an annotation collected into a trailing "notes" section.
//
// When Input.Path is set, a breadcrumb trail is emitted first. When a
// document has more than one h2-h6 heading, a table of contents is placed
// before the first h2. Titles for breadcrumbs and directory indexes come
// from the NameLookup given with WithNames.
//
// # Sites
//
// Site walks a source tree, republishes documents whose modification time
// changed since the last build (tracked in SQLite), regenerates the indexes
// of affected folders, downsizes JPEG images and optionally mirrors the
// result over FTP:
//
//	site, err := tachyon.NewSite(tachyon.SiteOptions{
//	    Source: "./src",
//	    Output: "./out",
//	    Database: "./tachyon.db",
//	})
//	report, err := site.Build(ctx)
//
// Documents are published concurrently; see ResolvePoolSize.
//
// # Custom Assets
//
// Override built-in page templates and styles using AssetLoader:
//
//	loader, err := tachyon.NewAssetLoader("/path/to/assets")
//	site, err := tachyon.NewSite(tachyon.SiteOptions{AssetLoader: loader, ...})
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	└── templates/
//	    └── custom/
//	        ├── document.html
//	        └── index.html
package tachyon
