package tachyon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewTemplateSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tsName   string
		document string
		index    string
	}{
		{
			name:     "basic template set",
			tsName:   "test",
			document: "<main>{{.Body}}</main>",
			index:    "<main class=\"index\">{{.Body}}</main>",
		},
		{
			name: "empty strings",
		},
		{
			name:     "with template variables",
			tsName:   "templated",
			document: "<title>{{.SiteName}} - {{.Title}}</title>",
			index:    "<p>{{.Modified}}</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := NewTemplateSet(tt.tsName, tt.document, tt.index)

			if ts.Name != tt.tsName {
				t.Errorf("Name = %q, want %q", ts.Name, tt.tsName)
			}
			if ts.Document != tt.document {
				t.Errorf("Document = %q, want %q", ts.Document, tt.document)
			}
			if ts.Index != tt.index {
				t.Errorf("Index = %q, want %q", ts.Index, tt.index)
			}
		})
	}
}

func TestNewAssetLoader_EmptyPath(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader(\"\") error = %v", err)
	}

	css, err := loader.LoadStyle(DefaultStyle)
	if err != nil {
		t.Errorf("LoadStyle(%q) error = %v", DefaultStyle, err)
	}
	if css == "" {
		t.Error("LoadStyle returned empty CSS for default style")
	}

	ts, err := loader.LoadTemplateSet(DefaultTemplateSet)
	if err != nil {
		t.Fatalf("LoadTemplateSet(%q) error = %v", DefaultTemplateSet, err)
	}
	if ts.Document == "" {
		t.Error("TemplateSet.Document is empty")
	}
	if ts.Index == "" {
		t.Error("TemplateSet.Index is empty")
	}
}

func TestNewAssetLoader_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := NewAssetLoader("/nonexistent/path/to/assets")
	if !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("NewAssetLoader() error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestNewAssetLoader_CustomStyleOverride(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	stylesDir := filepath.Join(tmpDir, "styles")
	if err := os.MkdirAll(stylesDir, 0o755); err != nil {
		t.Fatalf("failed to create styles dir: %v", err)
	}

	customCSS := "/* custom override */ body { color: red; }"
	if err := os.WriteFile(filepath.Join(stylesDir, "default.css"), []byte(customCSS), 0o644); err != nil {
		t.Fatalf("failed to write custom CSS: %v", err)
	}

	loader, err := NewAssetLoader(tmpDir)
	if err != nil {
		t.Fatalf("NewAssetLoader(%q) error = %v", tmpDir, err)
	}

	css, err := loader.LoadStyle(DefaultStyle)
	if err != nil {
		t.Errorf("LoadStyle error = %v", err)
	}
	if css != customCSS {
		t.Errorf("LoadStyle = %q, want custom CSS %q", css, customCSS)
	}
}

func TestAssetLoader_NotFound(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader error = %v", err)
	}

	if _, err := loader.LoadStyle("nonexistent-style"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
	}
	if _, err := loader.LoadTemplateSet("nonexistent-templates"); !errors.Is(err, ErrTemplateSetNotFound) {
		t.Errorf("LoadTemplateSet() error = %v, want ErrTemplateSetNotFound", err)
	}
	if _, err := loader.LoadStyle("../escape"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(invalid name) error = %v, want ErrStyleNotFound", err)
	}
}
