package markup

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

func compileText(t *testing.T, text string) []string {
	t.Helper()
	lines, err := Compile(Source{Text: text}, DefaultSettings(), Collaborators{})
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", text, err)
	}
	return lines
}

func parseFragment(t *testing.T, lines []string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	return doc
}

func TestCompile_Blocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single heading",
			text: "# Title",
			want: []string{`<h1 id="AutoToC_001">Title</h1>`},
		},
		{
			name: "nested list",
			text: "- a\n  - b\n- c",
			want: []string{
				"<ul>",
				" <li>a",
				"  <ul>",
				"   <li>b</li>",
				"  </ul>",
				" </li>",
				" <li>c</li>",
				"</ul>",
			},
		},
		{
			name: "ordered list",
			text: "1. one\n2. two",
			want: []string{"<ol>", " <li>one</li>", " <li>two</li>", "</ol>"},
		},
		{
			name: "table",
			text: "|*H1*|*H2*|\n|x|y|",
			want: []string{
				"<table>",
				" <tr>",
				"  <th>H1</th><th>H2</th>",
				" </tr>",
				" <tr>",
				"  <td>x</td><td>y</td>",
				" </tr>",
				"</table>",
			},
		},
		{
			name: "anchor with id",
			text: "<#ref go here → http://example.com>",
			want: []string{`<p><a href="http://example.com" class="external" id="ref">go here</a></p>`},
		},
		{
			name: "paragraphs skip blank lines",
			text: "one\n\n   \n  two  ",
			want: []string{"<p>one</p>", "<p>two</p>"},
		},
		{
			name: "image after paragraph",
			text: "text\nimg:a.png(a caption)",
			want: []string{
				"<p>text</p>",
				"",
				`<figure class="image">`,
				` <img src="a.png" />`,
				" <figcaption>",
				"  a caption",
				" </figcaption>",
				"</figure>",
			},
		},
		{
			name: "image without caption",
			text: "img:/res/b.jpg",
			want: []string{`<figure class="image">`, ` <img src="/res/b.jpg" />`, "</figure>"},
		},
		{
			name: "blockquote with link source",
			text: "<from:http://x.org\n- q\nbody\n# not a heading\n>\nafter",
			want: []string{
				`<figure class="blockquote">`,
				` <blockquote cite="http://x.org">`,
				"  <ul>",
				"   <li>q</li>",
				"  </ul>",
				"  <p>body</p>",
				"  <p># not a heading</p>",
				" </blockquote>",
				" <figcaption>",
				`  <a href="http://x.org">http://x.org</a>`,
				" </figcaption>",
				"</figure>",
				"<p>after</p>",
			},
		},
		{
			name: "unterminated blockquote runs to end",
			text: "<from: someone\nsaid this",
			want: []string{
				`<figure class="blockquote">`,
				" <blockquote>",
				"  <p>said this</p>",
				" </blockquote>",
				" <figcaption>",
				"  someone",
				" </figcaption>",
				"</figure>",
			},
		},
		{
			name: "annotation",
			text: "x(*:note)",
			want: []string{
				`<p>x<a class="annotation" id="mark_1" href="#list_1">※1</a></p>`,
				`<h2 id="AutoToC_001">notes</h2>`,
				"<ul>",
				` <li><a href="#mark_1" id="list_1">※1</a> note</li>`,
				"</ul>",
			},
		},
		{
			name: "icon",
			text: "see <icon star> here",
			want: []string{`<p>see <img src="/res/icon/star.png" /> here</p>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, compileText(t, tt.text)); diff != "" {
				t.Errorf("Compile(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestCompile_TOC(t *testing.T) {
	t.Parallel()

	got := compileText(t, "intro\n## A\n### B")
	want := []string{
		"<p>intro</p>",
		`<div class="ToC">`,
		" <h2>Table of Contents</h2>",
		" <ul>",
		`  <li><a href="#AutoToC_001">A</a>`,
		"   <ul>",
		`    <li><a href="#AutoToC_002">B</a></li>`,
		"   </ul>",
		"  </li>",
		" </ul>",
		"</div>",
		`<h2 id="AutoToC_001">A</h2>`,
		`<h3 id="AutoToC_002">B</h3>`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TOC mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_TOCEmittedOnlyForSeveralHeadings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		entries int
	}{
		{"no subheadings", "# Only", 0},
		{"one subheading", "# T\n## A", 0},
		{"two subheadings", "# T\n## A\n## B", 2},
		{"headings with links", "## <x → http://x>\n#### <icon a> B\n## C", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := parseFragment(t, compileText(t, tt.text))
			toc := doc.Find("div.ToC")
			if tt.entries == 0 {
				if toc.Length() != 0 {
					t.Errorf("TOC emitted for %q", tt.text)
				}
				return
			}
			if got := toc.Find("li a").Length(); got != tt.entries {
				t.Errorf("TOC entries = %d, want %d", got, tt.entries)
			}
			// headings keep document order in the TOC
			var hrefs []string
			toc.Find("li a").Each(func(_ int, s *goquery.Selection) {
				hrefs = append(hrefs, s.AttrOr("href", ""))
			})
			var ids []string
			doc.Find("h2[id], h3[id], h4[id], h5[id], h6[id]").Each(func(_ int, s *goquery.Selection) {
				ids = append(ids, "#"+s.AttrOr("id", ""))
			})
			if diff := cmp.Diff(ids, hrefs); diff != "" {
				t.Errorf("TOC order mismatch (-headings +toc):\n%s", diff)
			}
		})
	}
}

func TestCompile_TOCAppendedWithoutLevelTwo(t *testing.T) {
	t.Parallel()

	got := compileText(t, "### A\n### B")
	if got[len(got)-1] != "</div>" {
		t.Errorf("last line = %q, want TOC appended at the end", got[len(got)-1])
	}
	if !strings.HasPrefix(got[0], `<h3 id="AutoToC_001">`) {
		t.Errorf("first line = %q, want the first heading", got[0])
	}
}

func TestCompile_HeadingIDsUnique(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, compileText(t, "# a\n### b\n## c\n###### d\n# e"))
	var ids []string
	doc.Find(`[id^="AutoToC_"]`).Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("id", ""))
	})
	want := []string{"AutoToC_001", "AutoToC_002", "AutoToC_003", "AutoToC_004", "AutoToC_005"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("heading ids mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_Annotations(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, compileText(t, "a(*:one) b(*:two)\nc(*:three)"))

	if got := doc.Find("h2").Length(); got != 1 {
		t.Errorf("notes headings = %d, want 1", got)
	}
	marks := doc.Find("a.annotation")
	if marks.Length() != 3 {
		t.Fatalf("markers = %d, want 3", marks.Length())
	}
	notes := []string{"one", "two", "three"}
	for i, note := range notes {
		n := i + 1
		mark := marks.Eq(i)
		if id, href := mark.AttrOr("id", ""), mark.AttrOr("href", ""); id != "mark_"+itoa(n) || href != "#list_"+itoa(n) {
			t.Errorf("marker %d: id=%q href=%q", n, id, href)
		}
		back := doc.Find("li a#list_" + itoa(n))
		if back.AttrOr("href", "") != "#mark_"+itoa(n) {
			t.Errorf("note %d back reference = %q", n, back.AttrOr("href", ""))
		}
		if li := strings.TrimSpace(back.Parent().Text()); li != "※"+itoa(n)+" "+note {
			t.Errorf("note %d text = %q", n, li)
		}
	}
}

func itoa(n int) string {
	return string(rune('0' + n))
}

func TestCompile_ListSiblingsAfterDeepNesting(t *testing.T) {
	t.Parallel()

	// c follows a nested list, so it joins a's list; d is shallower than c
	// and starts a new list.
	doc := parseFragment(t, compileText(t, "- a\n    - b\n  - c\n- d"))
	lists := doc.Find("body > ul")
	if lists.Length() != 2 {
		t.Fatalf("top-level lists = %d, want 2", lists.Length())
	}
	var first []string
	lists.First().ChildrenFiltered("li").Each(func(_ int, s *goquery.Selection) {
		first = append(first, strings.TrimSpace(s.Contents().First().Text()))
	})
	if diff := cmp.Diff([]string{"a", "c"}, first); diff != "" {
		t.Errorf("first list items mismatch (-want +got):\n%s", diff)
	}
	if got := lists.First().Find("li > ul > li").Text(); got != "b" {
		t.Errorf("nested item = %q, want %q", got, "b")
	}
	if got := lists.Last().Find("li").Text(); got != "d" {
		t.Errorf("second list = %q, want %q", got, "d")
	}
}

func TestCompile_Breadcrumb(t *testing.T) {
	t.Parallel()

	names := NameLookupFunc(func(p string) (string, bool) {
		switch p {
		case "/":
			return "Home", true
		case "/a":
			return "Alpha", true
		}
		return "", false
	})

	got, err := Compile(Source{Text: "# Doc\nhello", Path: "/a/b/doc.txt"}, DefaultSettings(), Collaborators{Names: names})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	want := []string{
		`<ol class="breadcrumbs">`,
		` <li><a href="/">Home</a></li>`,
		` <li><a href="/a/">Alpha</a></li>`,
		` <li><a href="/a/b/">b</a></li>`,
		` <li><em>Doc</em></li>`,
		"</ol>",
		`<h1 id="AutoToC_001">Doc</h1>`,
		"<p>hello</p>",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("breadcrumb mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_BreadcrumbFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  Source
		want string
	}{
		{"lookup for untitled text", Source{Text: "\nbody", Path: "/x/page.txt"}, "Page title"},
		{"last segment", Source{Text: "\nbody", Path: "/x/other.txt"}, "other.txt"},
	}

	names := NameLookupFunc(func(p string) (string, bool) {
		return "Page title", p == "/x/page.txt"
	})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lines, err := Compile(tt.src, DefaultSettings(), Collaborators{Names: names})
			if err != nil {
				t.Fatalf("Compile() error: %v", err)
			}
			doc := parseFragment(t, lines)
			if got := doc.Find("ol.breadcrumbs em").Text(); got != tt.want {
				t.Errorf("current crumb = %q, want %q", got, tt.want)
			}
			if got := doc.Find("ol.breadcrumbs a").First().Text(); got != "/" {
				t.Errorf("root crumb = %q, want %q", got, "/")
			}
		})
	}
}

func TestCompile_MalformedRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"unbalanced row after a valid one", "|a|b|\n|c|d"},
		// Any line opening with a pipe is a table row, prose included.
		{"prose starting with a pipe", "intro\n| stray pipe at start of prose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Compile(Source{Text: tt.text}, DefaultSettings(), Collaborators{})
			if !errors.Is(err, ErrMalformedRow) {
				t.Errorf("Compile(%q) error = %v, want %v", tt.text, err, ErrMalformedRow)
			}
		})
	}
}

func TestCompile_SettingsIndent(t *testing.T) {
	t.Parallel()

	s := Settings{IndentUnit: "\t", IndentLevel: 2, IconPath: "/i/"}
	got, err := Compile(Source{Text: "- <icon x>"}, s, Collaborators{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	want := []string{"\t\t<ul>", "\t\t\t<li><img src=\"/i/x.png\" /></li>", "\t\t</ul>"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
