package sitefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrSourceRoot indicates the source root is missing or not a directory.
var ErrSourceRoot = errors.New("source root is not a directory")

// Item is a crawled file or directory.
type Item struct {
	Path    string // logical path, e.g. "/notes/a.txt"
	IsDir   bool
	ModTime time.Time
	Size    int64
}

// Crawler walks a source root.
type Crawler struct {
	root     string
	ignore   []string
	nameFile string
}

// NewCrawler creates a Crawler over root. Files whose name ends with one of
// the ignore suffixes, and per-directory name files, are skipped.
func NewCrawler(root string, ignore []string, nameFile string) *Crawler {
	return &Crawler{root: root, ignore: ignore, nameFile: nameFile}
}

// Root returns the source root directory.
func (c *Crawler) Root() string {
	return c.root
}

// Crawl returns every item below the root, sorted by logical path. The root
// itself is not included. Hidden entries (leading ".") are skipped.
func (c *Crawler) Crawl(ctx context.Context) ([]Item, error) {
	info, err := os.Stat(c.root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSourceRoot, c.root)
	}

	var items []Item
	err = filepath.WalkDir(c.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == c.root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && (d.Name() == c.nameFile || c.Ignored(d.Name())) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(c.root, p)
		if err != nil {
			return err
		}
		items = append(items, Item{
			Path:    "/" + filepath.ToSlash(rel),
			IsDir:   d.IsDir(),
			ModTime: fi.ModTime(),
			Size:    fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("crawling %s: %w", c.root, err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items, nil
}

// Ignored reports whether a file name ends with an ignored suffix.
func (c *Crawler) Ignored(name string) bool {
	for _, suffix := range c.ignore {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Ancestors returns the logical directories containing p, from the nearest
// up to and including "/".
func Ancestors(p string) []string {
	var dirs []string
	for dir := path.Dir(path.Clean("/" + p)); ; dir = path.Dir(dir) {
		dirs = append(dirs, dir)
		if dir == "/" {
			return dirs
		}
	}
}

// HostPath joins a logical path onto a host directory.
func HostPath(root, logical string) string {
	return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(logical, "/")))
}
