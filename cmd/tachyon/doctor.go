package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"runtime"

	flag "github.com/spf13/pflag"

	tachyon "github.com/alnah/go-tachyon"
	"github.com/alnah/go-tachyon/internal/config"
	"github.com/alnah/go-tachyon/internal/fileutil"
	"github.com/alnah/go-tachyon/internal/store"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string   `json:"status"` // "ready", "warnings", "errors"
	Config   string   `json:"config"` // "defaults" or the loaded source
	Site     siteInfo `json:"site"`
	Env      envInfo  `json:"environment"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// siteInfo holds site check results.
type siteInfo struct {
	Source         string `json:"source"`
	SourceFound    bool   `json:"source_found"`
	Output         string `json:"output"`
	OutputWritable bool   `json:"output_writable"`
	Database       string `json:"database"`
	DatabaseOK     bool   `json:"database_ok"`
	Upload         bool   `json:"upload"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var flags doctorFlags
	registerDoctorFlags(fs, &flags)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, "error:", err)
		return ExitUsage
	}

	result := runDoctor(context.Background(), flags.common, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, common commonFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Config: "defaults",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	cfg, err := loadConfig(common, env)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		cfg = config.DefaultConfig()
	} else if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
	if name := configName(common); name != "" {
		result.Config = name
	}

	checkSite(ctx, result, cfg)
	checkEnvironment(result, cfg)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// configName returns the config named by flag or environment.
func configName(common commonFlags) string {
	if common.config != "" {
		return common.config
	}
	return os.Getenv("TACHYON_CONFIG")
}

// checkSite verifies the source root, output root and database.
func checkSite(ctx context.Context, result *doctorResult, cfg *config.Config) {
	site := &result.Site
	site.Source = cfg.Site.Source
	site.Output = cfg.Site.Output
	site.Database = cfg.Site.Database
	site.Upload = cfg.Upload.Enabled

	if fileutil.DirExists(cfg.Site.Source) {
		site.SourceFound = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Source root not found: %s", cfg.Site.Source))
	}

	if err := checkWritable(cfg.Site.Output); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output root not writable: %s (%v)", cfg.Site.Output, err))
	} else {
		site.OutputWritable = true
	}

	if cfg.Site.Database == "" || cfg.Site.Database == ":memory:" {
		site.DatabaseOK = true
		result.Warnings = append(result.Warnings,
			"No database configured: every build republishes the whole site")
	} else if st, err := store.Open(ctx, cfg.Site.Database, siteKey(cfg)); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Database unusable: %v", err))
	} else {
		_ = st.Close()
		site.DatabaseOK = true
	}

	if cfg.Upload.Enabled && cfg.Upload.Password == "" {
		result.Warnings = append(result.Warnings,
			"Upload enabled without password. Set upload.password or TACHYON_UPLOAD_PASSWORD")
	}
}

// checkWritable creates dir if needed and writes a probe file into it.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".tachyon-doctor-test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		return err
	}
	return os.Remove(probe)
}

// siteKey mirrors the store key used by the site builder.
func siteKey(cfg *config.Config) string {
	if cfg.Site.Name != "" {
		return cfg.Site.Name
	}
	return tachyon.DefaultSiteKey
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, cfg *config.Config) {
	// Detect container (multi-signal approach)
	result.Env.Container, result.Env.ContainerHint = isContainer()

	// Detect CI environments
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	// A loopback preview server is unreachable from outside a container.
	if result.Env.Container {
		host, _, err := net.SplitHostPort(cfg.Serve.Addr)
		if err == nil && (host == "localhost" || net.ParseIP(host).IsLoopback()) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Container detected but serve.addr is %s. Use 0.0.0.0:PORT", cfg.Serve.Addr))
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("TACHYON_CONTAINER") == "1" {
		return true, "TACHYON_CONTAINER=1"
	}
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "tachyon doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	fmt.Fprintf(w, "  [OK] Using %s\n", r.Config)
	fmt.Fprintln(w)

	// Site section
	fmt.Fprintln(w, "Site")
	if r.Site.SourceFound {
		fmt.Fprintf(w, "  [OK] Source: %s\n", r.Site.Source)
	} else {
		fmt.Fprintf(w, "  [ERROR] Source: %s not found\n", r.Site.Source)
	}
	if r.Site.OutputWritable {
		fmt.Fprintf(w, "  [OK] Output: %s (writable)\n", r.Site.Output)
	} else {
		fmt.Fprintf(w, "  [ERROR] Output: %s not writable\n", r.Site.Output)
	}
	if r.Site.DatabaseOK {
		fmt.Fprintf(w, "  [OK] Database: %s\n", r.Site.Database)
	} else {
		fmt.Fprintf(w, "  [ERROR] Database: %s unusable\n", r.Site.Database)
	}
	if r.Site.Upload {
		fmt.Fprintln(w, "  [OK] Upload: enabled")
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to build")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
