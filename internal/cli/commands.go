package cli

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stigoleg/keep-moving/internal/config"
	"github.com/stigoleg/keep-moving/internal/platform"
	"github.com/stigoleg/keep-moving/internal/ui"
	"github.com/stigoleg/keep-moving/internal/util"
)

// skipConfig replaces the root pre-run for commands that work without a
// valid configuration.
func skipConfig(*cobra.Command, []string) error { return nil }

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			if used := a.v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", used)
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:               "init [path]",
		Short:             "Write a starter configuration file",
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFileName
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteStarter(path, force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Current.Active.Render("Wrote "+path))
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}

func (a *app) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check whether the cursor can be controlled on this system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			caps := a.capability()

			lines := []string{
				row("Platform", fmt.Sprintf("%s (%s/%s)", platform.Name(), runtime.GOOS, runtime.GOARCH)),
				row("Config", configFileLabel(a.v.ConfigFileUsed())),
			}
			if helper := platform.HelperCommand(); helper != "" {
				path, ok := util.LookCommand(helper)
				if !ok {
					path = "not found in PATH"
				}
				lines = append(lines, row("Helper", helper+": "+path))
			}
			if !caps.CanMove {
				lines = append(lines, row("Cursor", ui.Current.Error.Render("unavailable")))
				fmt.Fprintln(out, ui.Current.Panel.Render(strings.Join(lines, "\n")))
				fmt.Fprintln(out, caps.ErrorMessage)
				if caps.Instructions != "" {
					fmt.Fprintln(out, caps.Instructions)
				}
				return &platform.Error{Op: platform.OpCapability, Err: errors.New(caps.ErrorMessage)}
			}

			lines = append(lines, row("Cursor", ui.Current.Active.Render("ok")))
			if cursor, err := a.newCursor(); err == nil {
				if w, h, err := cursor.ScreenSize(); err == nil {
					lines = append(lines, row("Screen", fmt.Sprintf("%dx%d", w, h)))
				}
				if p, err := cursor.Position(); err == nil {
					lines = append(lines, row("Position", p.String()))
				}
			}
			fmt.Fprintln(out, ui.Current.Panel.Render(strings.Join(lines, "\n")))
			return nil
		},
	}
}

func configFileLabel(path string) string {
	if path == "" {
		return "defaults (no " + config.DefaultFileName + " found)"
	}
	return path
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print the version",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "keepmoving %s (%s/%s, %s)\n",
				a.version, runtime.GOOS, runtime.GOARCH, runtime.Version())
			return nil
		},
	}
}
