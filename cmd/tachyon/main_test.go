package main

// Notes:
// - isCommand: we test command name matching.
// - runMain: we test exit codes and routing for every command. Actual
//   builds are covered in build_test.go.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestVersion - Version variable
// ---------------------------------------------------------------------------

func TestVersion(t *testing.T) {
	t.Parallel()

	if Version == "" {
		t.Error("Version should not be empty")
	}

	var stdout, stderr bytes.Buffer
	code := runMain([]string{"tachyon", "version"}, &Environment{Stdout: &stdout, Stderr: &stderr})
	if code != ExitSuccess {
		t.Fatalf("runMain(version) = %d, want %d", code, ExitSuccess)
	}
	if got, want := stdout.String(), "tachyon "+Version+"\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestIsCommand - Command name detection
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"build", true},
		{"compile", true},
		{"serve", true},
		{"watch", true},
		{"doctor", true},
		{"version", true},
		{"help", true},
		{"completion", true},
		{"foo", false},
		{"", false},
		{"about.txt", false},
		{"Build", false}, // case sensitive
		{"VERSION", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := isCommand(tt.input)
			if got != tt.want {
				t.Errorf("isCommand(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Main entry point exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "no args shows usage and exits with ExitUsage",
			args:         []string{"tachyon"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Usage: tachyon"},
		},
		{
			name:         "help command exits 0",
			args:         []string{"tachyon", "help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: tachyon", "Commands:"},
		},
		{
			name:         "--help is an alias of help",
			args:         []string{"tachyon", "--help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Commands:"},
		},
		{
			name:         "help build shows build help",
			args:         []string{"tachyon", "help", "build"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: tachyon build"},
		},
		{
			name:         "unknown command exits with ExitUsage",
			args:         []string{"tachyon", "unknown"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: unknown"},
		},
		{
			name:         "unknown flag exits with ExitUsage",
			args:         []string{"tachyon", "build", "--no-such-flag"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"no-such-flag"},
		},
		{
			name:         "build rejects positional arguments",
			args:         []string{"tachyon", "build", "extra"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"build takes no arguments"},
		},
		{
			name:         "compile without file exits with ExitUsage",
			args:         []string{"tachyon", "compile"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"exactly one file"},
		},
		{
			name:         "compile missing file exits with ExitIO",
			args:         []string{"tachyon", "compile", "/nonexistent/page.txt"},
			wantCode:     ExitIO,
			wantInStderr: []string{"failed to read source file"},
		},
		{
			name:         "too many workers exits with ExitUsage",
			args:         []string{"tachyon", "build", "--workers", "99"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"workers must be between"},
		},
		{
			name:         "completion without shell prints usage",
			args:         []string{"tachyon", "completion"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: tachyon completion"},
		},
		{
			name:         "completion for unknown shell exits with ExitUsage",
			args:         []string{"tachyon", "completion", "tcsh"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unsupported shell"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestSite(t, nil)
			code := runMain(tt.args, ts.env)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, ts.stderr.String())
			}
			for _, want := range tt.wantInStdout {
				if !strings.Contains(ts.stdout.String(), want) {
					t.Errorf("stdout should contain %q, got:\n%s", want, ts.stdout.String())
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(ts.stderr.String(), want) {
					t.Errorf("stderr should contain %q, got:\n%s", want, ts.stderr.String())
				}
			}
		})
	}
}
