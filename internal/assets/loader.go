package assets

// Built-in asset names.
const (
	DefaultStyleName       = "default"
	DefaultTemplateSetName = "default"
)

// Template file names inside a template set directory.
const (
	documentTemplateFile = "document.html"
	indexTemplateFile    = "index.html"
)

// AssetLoader loads CSS styles and page template sets by name.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads the document and index templates of a set.
	LoadTemplateSet(name string) (*TemplateSet, error)
}

// TemplateSet holds the page templates of one site theme.
type TemplateSet struct {
	Name     string // identifier (name or directory path)
	Document string // template for compiled source pages
	Index    string // template for directory indexes
}

// PageData is the value templates are executed with. Body is the compiled
// fragment and is inserted without escaping.
type PageData struct {
	Title      string
	SiteName   string
	Body       any
	Registered string
	Modified   string
	Path       string
	BuildID    string
}
