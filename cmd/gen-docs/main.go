package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stigoleg/keep-moving/internal/cli"
)

// This small tool generates shell completions and a man page from the
// keepmoving command tree, so both stay in step with the real flags.

const appName = "keepmoving"

func main() {
	root := cli.NewRootCommand("dev")

	if err := writeCompletions(root); err != nil {
		fmt.Fprintln(os.Stderr, "gen-docs:", err)
		os.Exit(1)
	}
	if err := writeMan(root); err != nil {
		fmt.Fprintln(os.Stderr, "gen-docs:", err)
		os.Exit(1)
	}
}

func writeCompletions(root *cobra.Command) error {
	base := filepath.Join("docs", "completions")
	if err := os.MkdirAll(base, 0o755); err != nil {
		return err
	}

	if err := root.GenBashCompletionFileV2(filepath.Join(base, appName+".bash"), true); err != nil {
		return fmt.Errorf("bash completion: %w", err)
	}
	if err := root.GenZshCompletionFile(filepath.Join(base, "_"+appName)); err != nil {
		return fmt.Errorf("zsh completion: %w", err)
	}
	if err := root.GenFishCompletionFile(filepath.Join(base, appName+".fish"), true); err != nil {
		return fmt.Errorf("fish completion: %w", err)
	}
	return nil
}

func roffEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "-", `\-`)
}

func flagNames(f *pflag.Flag) string {
	names := "--" + f.Name
	if f.Shorthand != "" {
		names = "-" + f.Shorthand + ", " + names
	}
	if f.Value.Type() != "bool" {
		names += " <" + f.Value.Type() + ">"
	}
	return roffEscape(names)
}

func writeFlags(b *strings.Builder, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		b.WriteString(".TP\n\\fB" + flagNames(f) + "\\fR\n" + roffEscape(f.Usage) + "\n")
	})
}

func writeMan(root *cobra.Command) error {
	if err := os.MkdirAll("man", 0o755); err != nil {
		return err
	}
	root.InitDefaultHelpFlag()
	root.InitDefaultVersionFlag()

	var b strings.Builder
	b.WriteString(".TH \"" + strings.ToUpper(appName) + "\" \"1\" \"\" \"keep-moving\" \"User Commands\"\n")
	b.WriteString(".SH NAME\n" + appName + " \\- " + roffEscape(root.Short) + "\n")
	b.WriteString(".SH SYNOPSIS\n.B " + appName + "\n[options]\n.br\n.B " + appName + "\n<command> [options]\n")
	b.WriteString(".SH DESCRIPTION\n" + roffEscape(root.Long) + "\n")

	b.WriteString(".SH OPTIONS\n")
	writeFlags(&b, root.PersistentFlags())
	writeFlags(&b, root.LocalNonPersistentFlags())

	b.WriteString(".SH COMMANDS\n")
	for _, c := range root.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		b.WriteString(".TP\n\\fB" + c.Name() + "\\fR\n" + roffEscape(c.Short) + "\n")
		for _, sub := range c.Commands() {
			if sub.IsAvailableCommand() {
				b.WriteString(".TP\n\\fB" + c.Name() + " " + roffEscape(sub.Use) + "\\fR\n" + roffEscape(sub.Short) + "\n")
			}
		}
	}

	b.WriteString(".SH EXAMPLES\n")
	b.WriteString(".TP\n\\fB" + appName + "\\fR\nMove the cursor until interrupted with Ctrl+C.\n")
	b.WriteString(".TP\n\\fB" + appName + " \\-d 2h30m\\fR\nStop after 2 hours 30 minutes.\n")
	b.WriteString(".TP\n\\fB" + appName + " \\-u 22:00 \\-\\-tui\\fR\nRun until 10:00 PM with the terminal dashboard.\n")
	b.WriteString(".TP\n\\fB" + appName + " \\-\\-dry\\-run \\-\\-seed 42\\fR\nReplay a reproducible run on a virtual screen.\n")
	b.WriteString(".SH ENVIRONMENT\nEvery configuration key can be set as KEEPMOVING_<SECTION>_<KEY>, e.g. KEEPMOVING_TIMING_WAIT_MAX=120.\n")
	b.WriteString(".SH FILES\n" + roffEscape(appName) + ".yaml in the working directory or the user configuration directory.\n")
	b.WriteString(".SH SEE ALSO\nProject homepage: https://github.com/stigoleg/keep-moving\n")
	return os.WriteFile(filepath.Join("man", appName+".1"), []byte(b.String()), 0o644)
}
