// Package cli wires configuration, logging, the platform cursor and the
// movement loop behind the keepmoving command line.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stigoleg/keep-moving/internal/config"
	"github.com/stigoleg/keep-moving/internal/motion"
	"github.com/stigoleg/keep-moving/internal/observability"
	"github.com/stigoleg/keep-moving/internal/platform"
)

// flagKeys binds value flags to configuration keys.
var flagKeys = map[string]string{
	"duration":   "run.duration",
	"until":      "run.until",
	"tui":        "run.tui",
	"dry-run":    "run.dry_run",
	"seed":       "run.seed",
	"verbose":    "logging.verbose",
	"margin":     "screen.margin",
	"jitter":     "jitter.intensity",
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"log-file":   "logging.file",
}

// negatedKeys lists switches that turn a boolean key off when given.
var negatedKeys = map[string]string{
	"no-linear":    "movement.enable_linear",
	"no-bezier":    "movement.enable_bezier",
	"no-safe-zone": "screen.safe_zone",
	"no-jitter":    "jitter.enabled",
	"no-small":     "small_movements.enabled",
	"quiet":        "logging.verbose",
}

type app struct {
	version string
	cfgFile string

	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger

	// capability and newCursor are swapped in tests.
	capability func() platform.Capability
	newCursor  func() (platform.Cursor, error)
}

func newApp(version string) *app {
	return &app{
		version:    version,
		capability: platform.CheckCapability,
		newCursor:  platform.New,
	}
}

// NewRootCommand builds the keepmoving command tree.
func NewRootCommand(version string) *cobra.Command {
	return newApp(version).rootCommand()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "keepmoving",
		Short: "Moves the mouse cursor along human-like paths to keep the session active",
		Long: `keepmoving periodically moves the mouse cursor to random points inside a
safe area of the screen, following straight or curved paths with jitter and
randomized pacing. It runs until interrupted, or for a fixed time with
--duration or --until.`,
		Version:           a.version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.loadConfig,
		RunE:              a.run,
	}
	root.SetVersionTemplate("keepmoving {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return flagError(err)
	})

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./"+config.DefaultFileName+")")
	addRunFlags(root.PersistentFlags())

	root.AddCommand(
		a.configCommand(),
		a.doctorCommand(),
		a.versionCommand(),
	)
	return root
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.StringP("duration", "d", "", "stop after this long, e.g. 90 (minutes), 45m or 2h30m")
	fs.StringP("until", "u", "", "stop at this clock time, e.g. 22:30 or 10:30PM")
	fs.Bool("tui", false, "show the terminal dashboard")
	fs.Bool("dry-run", false, "move a virtual cursor instead of the real one")
	fs.Int64("seed", 0, "random seed for a reproducible run (0 uses the clock)")
	fs.Bool("verbose", false, "log lifecycle messages and the configuration summary, overriding logging.verbose: false in the config file")
	fs.BoolP("quiet", "q", false, "only log movements and errors")
	fs.Bool("no-linear", false, "disable straight-line movements")
	fs.Bool("no-bezier", false, "disable curved movements")
	fs.IntSlice("margin", nil, "screen margin in pixels: all, horizontal,vertical or left,top,right,bottom")
	fs.Bool("no-safe-zone", false, "allow the whole screen instead of the safe area")
	fs.Bool("no-jitter", false, "disable per-step jitter")
	fs.Int("jitter", 0, "jitter intensity in pixels")
	fs.Bool("no-small", false, "disable small movements near the cursor")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-format", "", "console log format (console or json)")
	fs.String("log-file", "", "also write JSON logs to this rotating file")
}

// bindFlags layers the command-line flags over v.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	for name, key := range negatedKeys {
		if f := fs.Lookup(name); f != nil && f.Changed && f.Value.String() == "true" {
			v.Set(key, false)
		}
	}
	// An explicit intensity implies jitter unless it was switched off.
	if f := fs.Lookup("jitter"); f != nil && f.Changed && !fs.Changed("no-jitter") {
		v.Set("jitter.enabled", true)
	}
	return nil
}

func configSearchDirs() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "keepmoving")}
}

// loadConfig runs before every command that needs a configuration.
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(a.cfgFile, configSearchDirs()...)
	if err != nil {
		return &motion.ConfigError{Field: "config", Reason: err.Error()}
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return &motion.ConfigError{Field: "flags", Reason: err.Error()}
	}

	cfg, err := config.Load(v)
	if err != nil {
		var cfgErr *motion.ConfigError
		if !errors.As(err, &cfgErr) {
			err = &motion.ConfigError{Field: "config", Reason: err.Error()}
		}
		return err
	}
	a.v, a.cfg = v, cfg

	a.initLogging(cmd.ErrOrStderr())
	a.logger.Debug("configuration loaded",
		zap.String("file", v.ConfigFileUsed()),
		zap.String("version", a.version),
	)
	return nil
}

// initLogging sets up zap. The dashboard owns the terminal, so in TUI mode
// logs only go to the file.
func (a *app) initLogging(stderr io.Writer) {
	logCfg := a.cfg.Logging
	var console zapcore.WriteSyncer
	if a.cfg.Run.TUI {
		if logCfg.File == "" {
			logCfg.File = filepath.Join(os.TempDir(), "keepmoving.log")
		}
	} else {
		console = zapcore.Lock(zapcore.AddSync(stderr))
	}
	observability.Initialize(logCfg, console)
	a.logger = observability.GetLogger().With(zap.String("session", uuid.NewString()))
}

// Execute runs the command line and returns the process exit status.
func Execute(ctx context.Context, version string, args []string, stdout, stderr io.Writer) int {
	return newApp(version).execute(ctx, args, stdout, stderr)
}

func (a *app) execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		RenderError(stderr, err)
	}
	return ExitCode(err)
}
