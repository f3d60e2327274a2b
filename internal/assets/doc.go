// Package assets provides the page templates and CSS styles used to
// publish compiled pages.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in style and template set
//	    ├── FilesystemLoader  - custom assets from a directory on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}/
//	        ├── document.html    # page compiled from a source file
//	        └── index.html       # synthesized directory index
//
// Templates are html/template sources executed with a PageData value.
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
