package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alnah/go-tachyon/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

// testSite is a temporary site with its own config, so commands never read
// a tachyon.yaml from the working directory.
type testSite struct {
	src, out string
	cfg      *config.Config
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	env      *Environment
}

func newTestSite(t *testing.T, files map[string]string) *testSite {
	t.Helper()
	dir := t.TempDir()
	ts := &testSite{
		src:    filepath.Join(dir, "src"),
		out:    filepath.Join(dir, "out"),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	if err := os.MkdirAll(ts.src, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	writeTree(t, ts.src, files)

	ts.cfg = config.DefaultConfig()
	ts.cfg.Site.Name = "Notes"
	ts.cfg.Site.Source = ts.src
	ts.cfg.Site.Output = ts.out
	ts.cfg.Site.Database = filepath.Join(dir, "site.db")
	ts.cfg.Render.IndentLevel = 0
	ts.cfg.Ignore = []string{"~"}
	ts.cfg.Log.Level = "error"

	ts.env = &Environment{
		Now:    time.Now,
		Stdout: ts.stdout,
		Stderr: ts.stderr,
		Config: ts.cfg,
	}
	return ts
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var basicTree = map[string]string{
	"about.txt":          "# About\n\nHello.",
	"journal/_name":      "Journal\n",
	"journal/day1.txt":   "# Day one\n\n- walked\n- wrote",
	"journal/guide.md":   "# Guide\n\nSee [day](day1.txt).\n",
	"journal/notes.txt~": "backup",
	"res/logo.png":       "png",
}
