package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// commandNames returns the names of cmds, space separated.
func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return exts
}

// takesValue reports whether a flag consumes the next word.
func takesValue(f flagDef) bool {
	return f.Type != flagBool
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer) error {
	cmds := getCommands()
	b := bufio.NewWriter(w)

	fmt.Fprintln(b, "# bash completion for tachyon")
	fmt.Fprintln(b, "_tachyon_completions() {")
	fmt.Fprintln(b, "    local cur prev cmd")
	fmt.Fprintln(b, "    COMPREPLY=()")
	fmt.Fprintln(b, `    cur="${COMP_WORDS[COMP_CWORD]}"`)
	fmt.Fprintln(b, `    prev="${COMP_WORDS[COMP_CWORD-1]}"`)
	fmt.Fprintln(b)
	fmt.Fprintln(b, "    if [[ ${COMP_CWORD} -eq 1 ]]; then")
	fmt.Fprintf(b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", commandNames(cmds))
	fmt.Fprintln(b, "        return 0")
	fmt.Fprintln(b, "    fi")
	fmt.Fprintln(b, `    cmd="${COMP_WORDS[1]}"`)
	fmt.Fprintln(b)

	// Flag values, keyed by the previous word.
	fmt.Fprintln(b, `    case "$prev" in`)
	seen := map[string]bool{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen[f.Long] || !takesValue(f) {
				continue
			}
			seen[f.Long] = true
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern += "|-" + f.Short
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(b, "        %s) COMPREPLY=( $(compgen -W %q -- \"$cur\") ); return 0 ;;\n", pattern, strings.Join(f.Values, " "))
			case flagFile:
				fmt.Fprintf(b, "        %s) COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"$cur\") ); return 0 ;;\n", pattern, strings.Join(globExtensions(f.FileGlob), "|"))
			case flagDir:
				fmt.Fprintf(b, "        %s) COMPREPLY=( $(compgen -d -- \"$cur\") ); return 0 ;;\n", pattern)
			default:
				fmt.Fprintf(b, "        %s) return 0 ;;\n", pattern)
			}
		}
	}
	fmt.Fprintln(b, "    esac")
	fmt.Fprintln(b)

	// Flags and arguments per command.
	fmt.Fprintln(b, `    case "$cmd" in`)
	for _, c := range cmds {
		var words []string
		for _, f := range c.Flags {
			words = append(words, "--"+f.Long)
		}
		words = append(words, c.Args...)
		if len(words) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(b, "        %s)\n", c.Name)
		if c.TakesFiles {
			fmt.Fprintln(b, `            if [[ "$cur" != -* ]]; then`)
			fmt.Fprintf(b, "                COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"$cur\") )\n", strings.Join(globExtensions(c.FilePattern), "|"))
			fmt.Fprintln(b, "                return 0")
			fmt.Fprintln(b, "            fi")
		}
		fmt.Fprintf(b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(words, " "))
		fmt.Fprintln(b, "            ;;")
	}
	fmt.Fprintln(b, "    esac")
	fmt.Fprintln(b, "}")
	fmt.Fprintln(b, "complete -F _tachyon_completions tachyon")

	return b.Flush()
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshEscape escapes text for use inside a single-quoted _arguments spec.
func zshEscape(s string) string {
	r := strings.NewReplacer(`'`, `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	b := bufio.NewWriter(w)

	fmt.Fprintln(b, "#compdef tachyon")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "_tachyon() {")
	fmt.Fprintln(b, "    local -a commands")
	fmt.Fprintln(b, "    commands=(")
	for _, c := range cmds {
		fmt.Fprintf(b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	fmt.Fprintln(b, "    )")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "    if (( CURRENT == 2 )); then")
	fmt.Fprintln(b, "        _describe 'command' commands")
	fmt.Fprintln(b, "        return")
	fmt.Fprintln(b, "    fi")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "    shift words")
	fmt.Fprintln(b, "    (( CURRENT-- ))")
	fmt.Fprintln(b, `    case "$words[1]" in`)
	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(b, "        %s)\n", c.Name)
		fmt.Fprintln(b, "            _arguments \\")
		for _, f := range c.Flags {
			fmt.Fprintf(b, "                %s \\\n", zshFlagSpec(f))
		}
		switch {
		case c.TakesFiles:
			fmt.Fprintf(b, "                '1:file:_files -g \"%s\"'\n", zshGlob(c.FilePattern))
		case len(c.Args) > 0:
			fmt.Fprintf(b, "                '1:argument:(%s)'\n", strings.Join(c.Args, " "))
		default:
			fmt.Fprintln(b, "                '*::'")
		}
		fmt.Fprintln(b, "            ;;")
	}
	fmt.Fprintln(b, "    esac")
	fmt.Fprintln(b, "}")
	fmt.Fprintln(b)
	fmt.Fprintln(b, `_tachyon "$@"`)

	return b.Flush()
}

// zshGlob turns "*.txt,*.md" into "*.(txt|md)".
func zshGlob(glob string) string {
	return "*.(" + strings.Join(globExtensions(glob), "|") + ")"
}

func zshFlagSpec(f flagDef) string {
	name := "'--" + f.Long
	if f.Short != "" {
		name = "'(-" + f.Short + " --" + f.Long + ")'{-" + f.Short + ",--" + f.Long + "}'"
	}
	spec := name + "[" + zshEscape(f.Desc) + "]"

	switch f.Type {
	case flagBool:
	case flagEnum:
		spec += ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		spec += ":" + f.Long + `:_files -g "` + zshGlob(f.FileGlob) + `"`
	case flagDir:
		spec += ":" + f.Long + ":_files -/"
	default:
		spec += ":" + f.Long + ": "
	}
	return spec + "'"
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

// fishEscape escapes text for a single-quoted fish string.
func fishEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	b := bufio.NewWriter(w)

	fmt.Fprintln(b, "# fish completion for tachyon")
	fmt.Fprintln(b, "function __fish_tachyon_needs_command")
	fmt.Fprintln(b, "    set -l cmd (commandline -opc)")
	fmt.Fprintln(b, "    test (count $cmd) -eq 1")
	fmt.Fprintln(b, "end")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "function __fish_tachyon_using_command")
	fmt.Fprintln(b, "    set -l cmd (commandline -opc)")
	fmt.Fprintln(b, "    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]")
	fmt.Fprintln(b, "end")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "complete -c tachyon -f")
	for _, c := range cmds {
		fmt.Fprintf(b, "complete -c tachyon -n __fish_tachyon_needs_command -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_tachyon_using_command %s'", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c tachyon -n %s", cond)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long + " -d '" + fishEscape(f.Desc) + "'"
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -x"
			}
			fmt.Fprintln(b, line)
		}
		if c.TakesFiles {
			fmt.Fprintf(b, "complete -c tachyon -n %s -F\n", cond)
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(b, "complete -c tachyon -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
	}

	return b.Flush()
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

// psEscape escapes text for a single-quoted PowerShell string.
func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	b := bufio.NewWriter(w)

	fmt.Fprintln(b, "# PowerShell completion for tachyon")
	fmt.Fprintln(b, "Register-ArgumentCompleter -Native -CommandName tachyon -ScriptBlock {")
	fmt.Fprintln(b, "    param($wordToComplete, $commandAst, $cursorPosition)")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "    $commands = [ordered]@{")
	for _, c := range cmds {
		fmt.Fprintf(b, "        '%s' = '%s'\n", c.Name, psEscape(c.Desc))
	}
	fmt.Fprintln(b, "    }")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "    $words = @{")
	for _, c := range cmds {
		var words []string
		for _, f := range c.Flags {
			words = append(words, "'--"+f.Long+"'")
		}
		for _, a := range c.Args {
			words = append(words, "'"+a+"'")
		}
		fmt.Fprintf(b, "        '%s' = @(%s)\n", c.Name, strings.Join(words, ", "))
	}
	fmt.Fprintln(b, "    }")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "    $elements = $commandAst.CommandElements")
	fmt.Fprintln(b, "    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete -ne '')) {")
	fmt.Fprintln(b, "        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {")
	fmt.Fprintln(b, "            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)")
	fmt.Fprintln(b, "        }")
	fmt.Fprintln(b, "        return")
	fmt.Fprintln(b, "    }")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "    $command = $elements[1].ToString()")
	fmt.Fprintln(b, "    if ($words.ContainsKey($command)) {")
	fmt.Fprintln(b, "        $words[$command] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {")
	fmt.Fprintln(b, "            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)")
	fmt.Fprintln(b, "        }")
	fmt.Fprintln(b, "    }")
	fmt.Fprintln(b, "}")

	return b.Flush()
}
