package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
)

//go:embed styles/*.css
var styles embed.FS

//go:embed templates
var templates embed.FS

// EmbeddedLoader loads the assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads an embedded CSS style.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// LoadTemplateSet loads an embedded template set.
func (e *EmbeddedLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	return readTemplateSet(templates, "templates/"+name, name)
}

// readTemplateSet reads document.html and index.html from dir in fsys.
func readTemplateSet(fsys fs.FS, dir, name string) (*TemplateSet, error) {
	document, docErr := fs.ReadFile(fsys, dir+"/"+documentTemplateFile)
	index, idxErr := fs.ReadFile(fsys, dir+"/"+indexTemplateFile)

	if isNotExist(docErr) && isNotExist(idxErr) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}
	for _, err := range []error{docErr, idxErr} {
		if err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
	}
	if docErr != nil {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, documentTemplateFile)
	}
	if idxErr != nil {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, indexTemplateFile)
	}

	return &TemplateSet{Name: name, Document: string(document), Index: string(index)}, nil
}

func isNotExist(err error) bool {
	return err != nil && errors.Is(err, fs.ErrNotExist)
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
