package markup

import "strings"

// Default rendering settings.
const (
	DefaultIndentUnit = " "
	DefaultIconPath   = "/res/icon/"
)

// Settings are the immutable parameters of a compile pass. They are copied
// into every Context, including nested passes.
type Settings struct {
	IndentUnit  string // prefix repeated once per indent level
	IndentLevel int    // level of the outermost emitted lines
	IconPath    string // directory prefix for <icon name> images
}

// DefaultSettings returns the settings used when none are given.
func DefaultSettings() Settings {
	return Settings{
		IndentUnit:  DefaultIndentUnit,
		IndentLevel: 0,
		IconPath:    DefaultIconPath,
	}
}

// Context owns the mutable state of one compile pass: the output lines,
// the current indent level, named counters, table of contents entries and
// the annotation count. It is created per pass and never shared.
type Context struct {
	settings    Settings
	src         *Queue
	path        string
	out         []string
	level       int
	counters    map[string]int
	toc         []string
	annotations int
}

func newContext(s Settings, src *Queue, path string) *Context {
	return &Context{
		settings: s,
		src:      src,
		path:     path,
		out:      []string{""},
		level:    s.IndentLevel,
		counters: make(map[string]int),
	}
}

// Output appends text to the active output line.
func (c *Context) Output(text string) {
	c.out[len(c.out)-1] += text
}

// OutputLine starts a new active line at the current indent level and
// appends text to it.
func (c *Context) OutputLine(text string) {
	c.out = append(c.out, strings.Repeat(c.settings.IndentUnit, c.level))
	c.Output(text)
}

// Indent increases the indent level of subsequent lines.
func (c *Context) Indent() {
	c.level++
}

// Dedent decreases the indent level. Going below zero means a node did not
// balance its Indent calls and panics.
func (c *Context) Dedent() {
	if c.level == 0 {
		panic("markup: dedent below zero")
	}
	c.level--
}

// Counter increments and returns the counter called name. The first call
// for a name returns 1.
func (c *Context) Counter(name string) int {
	c.counters[name]++
	return c.counters[name]
}

// Level returns the current indent level.
func (c *Context) Level() int {
	return c.level
}

// Lines returns a copy of the output lines, including the initial empty line.
func (c *Context) Lines() []string {
	lines := make([]string, len(c.out))
	copy(lines, c.out)
	return lines
}

// activeBlank reports whether the active output line holds only indentation.
func (c *Context) activeBlank() bool {
	return strings.TrimSpace(c.out[len(c.out)-1]) == ""
}

// tocIndent returns the prefix of a table of contents entry for a heading
// level. The list grammar counts spaces only, so a unit containing anything
// else falls back to a single space.
func (c *Context) tocIndent(level int) string {
	unit := c.settings.IndentUnit
	if unit == "" || strings.Trim(unit, " ") != "" {
		unit = " "
	}
	return strings.Repeat(unit, level)
}
