package sitefs

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-tachyon/internal/dateutil"
	"github.com/alnah/go-tachyon/internal/markup"
)

var headingPattern = regexp.MustCompile(`^#{1,6} *(.*)$`)

// Compile-time interface implementation checks.
var (
	_ markup.NameLookup       = (*Lookup)(nil)
	_ markup.DirectoryListing = (*Lookup)(nil)
)

// Lookup answers title and listing queries against a source root, reading
// artefact sizes from the output root.
type Lookup struct {
	src       string
	out       string
	nameFile  string
	timestamp *dateutil.Formatter
	ignored   func(string) bool
}

// NewLookup creates a Lookup. crawler supplies the source root and the
// ignore rules so listings show only what the crawler publishes.
func NewLookup(crawler *Crawler, out string, timestamp *dateutil.Formatter) *Lookup {
	return &Lookup{
		src:       crawler.root,
		out:       out,
		nameFile:  crawler.nameFile,
		timestamp: timestamp,
		ignored:   crawler.Ignored,
	}
}

// Title returns the display title of a logical path. Directories are named
// by the first line of their name file, .txt and .md documents by their first
// heading. Anything else has no title.
func (l *Lookup) Title(p string) (string, bool) {
	host := HostPath(l.src, p)
	info, err := os.Stat(host)
	if err != nil {
		return "", false
	}

	if info.IsDir() {
		line, ok := firstLine(HostPath(host, l.nameFile), func(string) bool { return true })
		line = strings.TrimSpace(line)
		return line, ok && line != ""
	}

	if ext := path.Ext(p); ext != ".txt" && ext != ".md" {
		return "", false
	}
	line, ok := firstLine(host, headingPattern.MatchString)
	if !ok {
		return "", false
	}
	title := strings.TrimSpace(headingPattern.FindStringSubmatch(line)[1])
	return title, title != ""
}

// List returns the entries of a logical directory: folders first, then
// files, each sorted by name. Name files, hidden entries, ignored files and
// "_" resources are omitted.
func (l *Lookup) List(p string) ([]markup.Entry, error) {
	host := HostPath(l.src, p)
	dirEntries, err := os.ReadDir(host)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", host, err)
	}

	var folders, files []markup.Entry
	for _, d := range dirEntries {
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		info, err := d.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		modified := l.timestamp.Format(info.ModTime())

		if d.IsDir() {
			folders = append(folders, markup.Entry{Name: name, IsDir: true, Modified: modified, Size: "-"})
			continue
		}
		if name == l.nameFile || strings.HasPrefix(name, "_") || l.ignored(name) {
			continue
		}
		files = append(files, markup.Entry{
			Name:     name,
			Modified: modified,
			Size:     l.artefactSize(p, name),
		})
	}

	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return append(folders, files...), nil
}

// artefactSize reports the size of the published file for a source name,
// "-" when it has not been published.
func (l *Lookup) artefactSize(dir, name string) string {
	published := name
	if ext := path.Ext(name); ext == ".txt" || ext == ".md" {
		published = strings.TrimSuffix(name, ext) + ".html"
	}
	info, err := os.Stat(HostPath(HostPath(l.out, dir), published))
	if err != nil {
		return "-"
	}
	return FormatSize(info.Size())
}

// FormatSize renders a byte count in kilobytes rounded to three decimals,
// keeping at least one decimal: 1536 -> "1.5KB", 2048 -> "2.0KB".
func FormatSize(n int64) string {
	kb := math.Round(float64(n)/1024*1000) / 1000
	s := strconv.FormatFloat(kb, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "KB"
}

// firstLine returns the first line of a file accepted by match.
func firstLine(path string, match func(string) bool) (string, bool) {
	f, err := os.Open(path) // #nosec G304 -- path is below the source root
	if err != nil {
		return "", false
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimPrefix(scanner.Text(), "\uFEFF")
		if match(line) {
			return line, true
		}
	}
	return "", false
}
