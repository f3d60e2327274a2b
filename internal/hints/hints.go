// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"net"
	"os"
	"strings"

	"github.com/alnah/go-tachyon/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForServeAddr returns hints for preview server bind errors.
// Inside a container a loopback address is unreachable from the host.
func ForServeAddr(addr string) string {
	var hints []string

	host, _, err := net.SplitHostPort(addr)
	loopback := err == nil && (host == "localhost" || net.ParseIP(host).IsLoopback())
	if loopback && IsInContainer() {
		hints = append(hints, "use --addr 0.0.0.0:PORT inside containers")
	}
	if os.Getenv("TACHYON_SERVE_ADDR") == "" {
		hints = append(hints, "set TACHYON_SERVE_ADDR or --addr to pick a free port")
	}

	return formatHints(hints)
}

// ForUploadTimeout returns a hint about slow FTP servers.
func ForUploadTimeout() string {
	return format("raise upload.timeout or check that the FTP server is reachable")
}

// ForUploadAuth returns a hint for FTP login failures.
func ForUploadAuth() string {
	return format("check upload.username and upload.password, or set TACHYON_UPLOAD_PASSWORD")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/tachyon/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/tachyon") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForSourceRoot returns hints when the source root is missing.
func ForSourceRoot(path string) string {
	return format("create " + path + " or point site.source (--source) at your pages")
}

// ForDatabase returns hints for change-detection store errors.
func ForDatabase(path string) string {
	return format("check that the directory of " + path + " is writable; use --rebuild to republish everything")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
