package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContext_Output(t *testing.T) {
	t.Parallel()

	c := newContext(Settings{IndentUnit: "  ", IndentLevel: 1}, NewQueue(nil), "")
	c.Output("a")
	c.OutputLine("<p>")
	c.Output("b</p>")
	c.Indent()
	c.OutputLine("c")
	c.Dedent()
	c.OutputLine("")

	want := []string{"a", "  <p>b</p>", "    c", "  "}
	if diff := cmp.Diff(want, c.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
	if !c.activeBlank() {
		t.Error("activeBlank() = false for an indentation-only line")
	}
}

func TestContext_Counter(t *testing.T) {
	t.Parallel()

	c := newContext(DefaultSettings(), NewQueue(nil), "")
	for want := 1; want <= 3; want++ {
		if got := c.Counter("h"); got != want {
			t.Errorf("Counter(h) = %d, want %d", got, want)
		}
	}
	if got := c.Counter("other"); got != 1 {
		t.Errorf("Counter(other) = %d, want 1", got)
	}
}

func TestContext_DedentBelowZeroPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("Dedent() at level 0 did not panic")
		}
	}()
	newContext(DefaultSettings(), NewQueue(nil), "").Dedent()
}

func TestContext_TOCIndent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		unit  string
		level int
		want  string
	}{
		{"single space", " ", 2, "  "},
		{"two spaces", "  ", 3, "      "},
		{"tab falls back", "\t", 2, "  "},
		{"empty falls back", "", 3, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newContext(Settings{IndentUnit: tt.unit}, NewQueue(nil), "")
			if got := c.tocIndent(tt.level); got != tt.want {
				t.Errorf("tocIndent(%d) = %q, want %q", tt.level, got, tt.want)
			}
		})
	}
}
