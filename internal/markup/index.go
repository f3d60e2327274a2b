package markup

import (
	"path"
	"strings"
)

// IndexSource synthesizes the markup of a directory index: a heading and a
// table with one row per entry. Titles come from names when available.
func IndexSource(dir string, entries []Entry, names NameLookup) []string {
	if names == nil {
		names = noNames{}
	}
	dir = cleanPath(dir)
	shown := dir
	if shown == "/" {
		shown = ""
	}
	lines := []string{
		"# Index of " + shown + "/",
		"|*Name (or title)*|*Last modified*|*Size*|",
	}
	for _, e := range entries {
		p := path.Join(dir, e.Name)
		if e.IsDir {
			lines = append(lines, "|<icon folder> <"+titleOr(names, p, e.Name)+" → ./"+e.Name+">|"+e.Modified+"|-|")
			continue
		}
		url := e.Name
		for _, src := range []string{".txt", ".md"} {
			if strings.HasSuffix(url, src) {
				url = strings.TrimSuffix(url, src) + ".html"
				break
			}
		}
		ext := strings.TrimPrefix(path.Ext(url), ".")
		if ext == "" {
			ext = "file"
		}
		lines = append(lines, "|<icon "+ext+"> <"+titleOr(names, p, url)+" → ./"+url+">|"+e.Modified+"|"+e.Size+"|")
	}
	return lines
}
