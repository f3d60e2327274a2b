package markup

// NameLookup resolves a human title for a logical path. Directories are
// looked up by their path without a trailing slash, "/" being the root.
type NameLookup interface {
	Title(path string) (string, bool)
}

// Entry is one item of a directory listing. Modified and Size are already
// formatted for display.
type Entry struct {
	Name     string
	IsDir    bool
	Modified string
	Size     string
}

// DirectoryListing lists the entries of a logical directory in display
// order.
type DirectoryListing interface {
	List(path string) ([]Entry, error)
}

// NameLookupFunc adapts a function to NameLookup.
type NameLookupFunc func(path string) (string, bool)

// Title calls f(path).
func (f NameLookupFunc) Title(path string) (string, bool) {
	return f(path)
}

type noNames struct{}

func (noNames) Title(string) (string, bool) { return "", false }

func titleOr(names NameLookup, path, fallback string) string {
	if t, ok := names.Title(path); ok && t != "" {
		return t
	}
	return fallback
}
