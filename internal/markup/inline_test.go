package markup

import "testing"

func renderWith(text string, kinds []inlineKind) (string, *Context) {
	c := newContext(DefaultSettings(), NewQueue(nil), "")
	renderInline(c, text, kinds)
	return c.out[0], c
}

func TestRenderInline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		kinds []inlineKind
		want  string
	}{
		{
			name:  "literal",
			text:  "plain <text>",
			kinds: paragraphInlines,
			want:  "plain <text>",
		},
		{
			name:  "anchor without text uses url",
			text:  "<→ /a/b.html>",
			kinds: paragraphInlines,
			want:  `<a href="/a/b.html">/a/b.html</a>`,
		},
		{
			name:  "leftmost wins over table order",
			text:  "<icon a> and <x → y>",
			kinds: paragraphInlines,
			want:  `<img src="/res/icon/a.png" /> and <a href="y">x</a>`,
		},
		{
			name:  "heading ignores icons",
			text:  "<icon a> <x → https://y>",
			kinds: headingInlines,
			want:  `<icon a> <a href="https://y" class="external">x</a>`,
		},
		{
			name:  "list ignores annotations",
			text:  "a (*:b)",
			kinds: listInlines,
			want:  "a (*:b)",
		},
		{
			name:  "anchor text is not parsed again",
			text:  "<#top icon → #top>",
			kinds: paragraphInlines,
			want:  `<a href="#top" id="top">icon</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got, _ := renderWith(tt.text, tt.kinds); got != tt.want {
				t.Errorf("renderInline(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnnotation_QueuesNotesOnce(t *testing.T) {
	t.Parallel()

	_, c := renderWith("(*:a)(*:b)", paragraphInlines)
	var queued []string
	for !c.src.Empty() {
		line, _ := c.src.PopFront()
		queued = append(queued, line)
	}
	want := []string{
		"## notes",
		"- <#list_1 ※1 → #mark_1> a",
		"- <#list_2 ※2 → #mark_2> b",
	}
	if len(queued) != len(want) {
		t.Fatalf("queued %q, want %q", queued, want)
	}
	for i := range want {
		if queued[i] != want[i] {
			t.Errorf("queued[%d] = %q, want %q", i, queued[i], want[i])
		}
	}
	if c.annotations != 2 {
		t.Errorf("annotations = %d, want 2", c.annotations)
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Intro", "Intro"},
		{"<see → http://x> more", "see more"},
		{"<icon star> Star", "Star"},
		{"a > b < c → d", "a  b  c  d"},
	}
	for _, tt := range tests {
		if got := plainText(tt.in); got != tt.want {
			t.Errorf("plainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
