package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tachyon <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build       Publish new and modified pages")
	fmt.Fprintln(w, "  compile     Compile one document to an HTML fragment")
	fmt.Fprintln(w, "  serve       Preview the site over HTTP")
	fmt.Fprintln(w, "  watch       Rebuild whenever the source changes")
	fmt.Fprintln(w, "  doctor      Check the site and environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'tachyon help <command>' for details on a specific command.")
}

// printSiteFlags prints the flags shared by build, serve and watch.
func printSiteFlags(w io.Writer) {
	fmt.Fprintln(w, "Site:")
	fmt.Fprintln(w, "  -s, --source <dir>        Source root")
	fmt.Fprintln(w, "  -o, --output <dir>        Output root")
	fmt.Fprintln(w, "      --database <path>     Change-detection database (\":memory:\" = none)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --rebuild             Republish every page")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>   CSS style name or file path")
	fmt.Fprintln(w, "      --template <name|dir> Template set name or directory")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --no-style            Disable inline CSS")
	fmt.Fprintln(w)
}

// printOutputControl prints the flags shared by every command.
func printOutputControl(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Log every page")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tachyon build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Publish new and modified pages, regenerate the indexes of their")
	fmt.Fprintln(w, "folders and mirror the results over FTP when upload is enabled.")
	fmt.Fprintln(w)
	printSiteFlags(w)
	fmt.Fprintln(w, "Upload:")
	fmt.Fprintln(w, "      --no-upload           Skip FTP mirroring")
	fmt.Fprintln(w)
	printOutputControl(w)
}

// printCompileUsage prints usage for the compile command.
func printCompileUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tachyon compile <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile one .txt or .md document to an HTML fragment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  file    Document to compile")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compiler:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "      --path <path>         Logical path for breadcrumbs (default: /<file>)")
	fmt.Fprintln(w, "      --indent <s>          Indentation unit (spaces or tabs)")
	fmt.Fprintln(w, "      --indent-level <n>    Starting indentation level")
	fmt.Fprintln(w, "      --icon-path <url>     URL prefix for <icon name>")
	fmt.Fprintln(w)
	printOutputControl(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tachyon serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Preview the site over HTTP. Pages are compiled on every request;")
	fmt.Fprintln(w, "nothing is written to the output root.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default: serve.addr)")
	fmt.Fprintln(w)
	printSiteFlags(w)
	printOutputControl(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tachyon watch [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build once, then rebuild whenever the source tree changes.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watch:")
	fmt.Fprintln(w, "      --debounce <d>        Quiet period before rebuilding (default: 300ms)")
	fmt.Fprintln(w)
	printSiteFlags(w)
	printOutputControl(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tachyon doctor [--json] [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the configuration, site directories, database and environment.")
	fmt.Fprintln(w, "Exits 1 when a check fails.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "compile":
		printCompileUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: tachyon version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: tachyon help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
