// Package config holds the run configuration: defaults, loading through
// viper and validation.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/stigoleg/keep-moving/internal/motion"
	"github.com/stigoleg/keep-moving/internal/util"
)

// EnvPrefix is prepended to every environment override, e.g.
// KEEPMOVING_TIMING_WAIT_MIN.
const EnvPrefix = "KEEPMOVING"

// Config is the full run configuration. It is immutable once the run starts.
type Config struct {
	Movement       MovementConfig       `mapstructure:"movement" yaml:"movement"`
	Timing         TimingConfig         `mapstructure:"timing" yaml:"timing"`
	Linear         LinearConfig         `mapstructure:"linear" yaml:"linear"`
	Bezier         BezierConfig         `mapstructure:"bezier" yaml:"bezier"`
	Screen         ScreenConfig         `mapstructure:"screen" yaml:"screen"`
	Jitter         JitterConfig         `mapstructure:"jitter" yaml:"jitter"`
	SmallMovements SmallMovementsConfig `mapstructure:"small_movements" yaml:"small_movements"`
	Logging        LoggingConfig        `mapstructure:"logging" yaml:"logging"`
	Run            RunConfig            `mapstructure:"run" yaml:"run"`
}

// MovementConfig selects trajectory styles.
type MovementConfig struct {
	EnableLinear           bool `mapstructure:"enable_linear" yaml:"enable_linear"`
	EnableBezier           bool `mapstructure:"enable_bezier" yaml:"enable_bezier"`
	RandomizeTypes         bool `mapstructure:"randomize_types" yaml:"randomize_types"`
	MaxConsecutiveSameType int  `mapstructure:"max_consecutive_same_type" yaml:"max_consecutive_same_type"`
}

// TimingConfig paces the loop.
type TimingConfig struct {
	// Wait is the pause between movements in whole seconds.
	Wait motion.IntRange `mapstructure:"wait" yaml:"wait"`
	// MovementDuration is the length of a curved movement in seconds.
	MovementDuration motion.FloatRange `mapstructure:"movement_duration" yaml:"movement_duration"`
}

// LinearConfig shapes straight-line movements.
type LinearConfig struct {
	Steps        motion.IntRange   `mapstructure:"steps" yaml:"steps"`
	StepInterval motion.FloatRange `mapstructure:"step_interval" yaml:"step_interval"`
}

// BezierConfig shapes curved movements.
type BezierConfig struct {
	StepInterval motion.FloatRange `mapstructure:"step_interval" yaml:"step_interval"`
	Curvature    motion.FloatRange `mapstructure:"curvature" yaml:"curvature"`
}

// ScreenConfig derives the safe rectangle.
type ScreenConfig struct {
	Margin   []int `mapstructure:"margin" yaml:"margin,flow"`
	SafeZone bool  `mapstructure:"safe_zone" yaml:"safe_zone"`
}

type JitterConfig struct {
	Enabled   bool `mapstructure:"enabled" yaml:"enabled"`
	Intensity int  `mapstructure:"intensity" yaml:"intensity"`
}

// SmallMovementsConfig controls short hops near the current position.
type SmallMovementsConfig struct {
	Enabled bool            `mapstructure:"enabled" yaml:"enabled"`
	Chance  float64         `mapstructure:"chance" yaml:"chance"`
	Range   motion.IntRange `mapstructure:"range" yaml:"range"`
	// MaxAttempts caps rejection sampling before falling back to the
	// farthest corner of the search window.
	MaxAttempts int `mapstructure:"max_attempts" yaml:"max_attempts"`
}

// LoggingConfig configures zap and the rotating log file.
type LoggingConfig struct {
	Verbose         bool   `mapstructure:"verbose" yaml:"verbose"`
	MovementDetails bool   `mapstructure:"movement_details" yaml:"movement_details"`
	Level           string `mapstructure:"level" yaml:"level"`
	Format          string `mapstructure:"format" yaml:"format"`
	File            string `mapstructure:"file" yaml:"file"`
	MaxSize         int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups      int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge          int    `mapstructure:"max_age" yaml:"max_age"`
	Compress        bool   `mapstructure:"compress" yaml:"compress"`
}

// RunConfig holds per-invocation switches, usually set from flags.
type RunConfig struct {
	// Duration accepts minutes ("90") or a Go duration ("1h30m").
	Duration string `mapstructure:"duration" yaml:"duration"`
	// Until is a wall-clock stop time ("22:30", "10:30PM").
	Until  string `mapstructure:"until" yaml:"until"`
	DryRun bool   `mapstructure:"dry_run" yaml:"dry_run"`
	TUI    bool   `mapstructure:"tui" yaml:"tui"`
	// Seed makes a run reproducible; 0 seeds from the clock.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	// -- Movement --
	v.SetDefault("movement.enable_linear", true)
	v.SetDefault("movement.enable_bezier", true)
	v.SetDefault("movement.randomize_types", true)
	v.SetDefault("movement.max_consecutive_same_type", 3)

	// -- Timing --
	v.SetDefault("timing.wait.min", 10)
	v.SetDefault("timing.wait.max", 60)
	v.SetDefault("timing.movement_duration.min", 1.0)
	v.SetDefault("timing.movement_duration.max", 3.0)

	// -- Linear --
	v.SetDefault("linear.steps.min", 30)
	v.SetDefault("linear.steps.max", 80)
	v.SetDefault("linear.step_interval.min", 0.005)
	v.SetDefault("linear.step_interval.max", 0.02)

	// -- Bezier --
	v.SetDefault("bezier.step_interval.min", 0.01)
	v.SetDefault("bezier.step_interval.max", 0.03)
	v.SetDefault("bezier.curvature.min", 0.2)
	v.SetDefault("bezier.curvature.max", 0.4)

	// -- Screen --
	v.SetDefault("screen.margin", []int{50})
	v.SetDefault("screen.safe_zone", true)

	// -- Jitter --
	v.SetDefault("jitter.enabled", true)
	v.SetDefault("jitter.intensity", 1)

	// -- Small movements --
	v.SetDefault("small_movements.enabled", true)
	v.SetDefault("small_movements.chance", 0.2)
	v.SetDefault("small_movements.range.min", 50)
	v.SetDefault("small_movements.range.max", 200)
	v.SetDefault("small_movements.max_attempts", motion.DefaultNearbyAttempts)

	// -- Logging --
	v.SetDefault("logging.verbose", true)
	v.SetDefault("logging.movement_details", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// -- Run --
	v.SetDefault("run.duration", "")
	v.SetDefault("run.until", "")
	v.SetDefault("run.dry_run", false)
	v.SetDefault("run.tui", false)
	v.SetDefault("run.seed", 0)
}

// NewViper returns a viper instance with defaults, environment overrides and
// the optional config file loaded. An empty path searches for keepmoving.yaml
// in the working directory and the user config directory; a missing file is
// not an error in that case.
func NewViper(path string, searchDirs ...string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("keepmoving")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		for _, dir := range searchDirs {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load unmarshals v and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func invalid(field, format string, args ...any) error {
	return &motion.ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func checkIntRange(field string, r motion.IntRange, min int) error {
	if r.Min < min {
		return invalid(field, "min must be at least %d, got %d", min, r.Min)
	}
	if !r.Valid() {
		return invalid(field, "min %d is greater than max %d", r.Min, r.Max)
	}
	return nil
}

func checkFloatRange(field string, r motion.FloatRange, positive bool) error {
	if positive && r.Min <= 0 {
		return invalid(field, "min must be positive, got %g", r.Min)
	}
	if r.Min < 0 {
		return invalid(field, "min must not be negative, got %g", r.Min)
	}
	if !r.Valid() {
		return invalid(field, "min %g is greater than max %g", r.Min, r.Max)
	}
	return nil
}

// Validate rejects contradictory or unusable settings. The returned error is
// a *motion.ConfigError.
func (c *Config) Validate() error {
	if !c.Movement.EnableLinear && !c.Movement.EnableBezier {
		return invalid("movement", "at least one of enable_linear and enable_bezier must be true")
	}
	if c.Movement.MaxConsecutiveSameType < 1 {
		return invalid("movement.max_consecutive_same_type", "must be at least 1, got %d", c.Movement.MaxConsecutiveSameType)
	}

	if err := checkIntRange("timing.wait", c.Timing.Wait, 0); err != nil {
		return err
	}
	if err := checkFloatRange("timing.movement_duration", c.Timing.MovementDuration, true); err != nil {
		return err
	}

	if err := checkIntRange("linear.steps", c.Linear.Steps, 1); err != nil {
		return err
	}
	if err := checkFloatRange("linear.step_interval", c.Linear.StepInterval, false); err != nil {
		return err
	}

	if err := checkFloatRange("bezier.step_interval", c.Bezier.StepInterval, true); err != nil {
		return err
	}
	if err := checkFloatRange("bezier.curvature", c.Bezier.Curvature, false); err != nil {
		return err
	}
	if c.Movement.EnableBezier {
		// The shortest movement at the slowest pace must still have a step.
		steps := math.Floor(c.Timing.MovementDuration.Min / c.Bezier.StepInterval.Max)
		if steps < 1 {
			return invalid("bezier.step_interval",
				"max %gs is longer than the shortest movement (%gs); curved movements would have no steps",
				c.Bezier.StepInterval.Max, c.Timing.MovementDuration.Min)
		}
	}

	// Margins are only read when the safe zone is on.
	if c.Screen.SafeZone {
		if _, err := motion.ExpandMargins(c.Screen.Margin); err != nil {
			return err
		}
	}

	if c.Jitter.Intensity < 0 {
		return invalid("jitter.intensity", "must not be negative, got %d", c.Jitter.Intensity)
	}

	if c.SmallMovements.Chance < 0 || c.SmallMovements.Chance > 1 {
		return invalid("small_movements.chance", "must be within [0, 1], got %g", c.SmallMovements.Chance)
	}
	if c.SmallMovements.Enabled {
		if err := checkIntRange("small_movements.range", c.SmallMovements.Range, 0); err != nil {
			return err
		}
		if c.SmallMovements.Range.Max < 1 {
			return invalid("small_movements.range", "max must be at least 1, got %d", c.SmallMovements.Range.Max)
		}
	}
	if c.SmallMovements.MaxAttempts < 1 {
		return invalid("small_movements.max_attempts", "must be at least 1, got %d", c.SmallMovements.MaxAttempts)
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level", "%v", err)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return invalid("logging.format", "must be console or json, got %q", c.Logging.Format)
	}

	if c.Run.Duration != "" && c.Run.Until != "" {
		return invalid("run", "duration and until cannot be used together")
	}
	if c.Run.Duration != "" {
		if _, err := util.ParseDuration(c.Run.Duration); err != nil {
			return invalid("run.duration", "%v", err)
		}
	}
	if c.Run.Until != "" {
		if _, err := util.ParseClock(c.Run.Until, timeNow()); err != nil {
			return invalid("run.until", "%v", err)
		}
	}
	return nil
}

// GeneratorParams maps the trajectory settings onto the motion generator.
func (c *Config) GeneratorParams() motion.Params {
	return motion.Params{
		Linear: motion.LinearParams{
			Steps:        c.Linear.Steps,
			StepInterval: c.Linear.StepInterval,
		},
		Curved: motion.CurvedParams{
			Duration:     c.Timing.MovementDuration,
			StepInterval: c.Bezier.StepInterval,
			Curvature:    c.Bezier.Curvature,
		},
		Jitter: motion.JitterParams{
			Enabled:   c.Jitter.Enabled,
			Intensity: c.Jitter.Intensity,
		},
	}
}

// SelectorConfig maps the movement policy onto the motion selector.
func (c *Config) SelectorConfig() motion.SelectorConfig {
	return motion.SelectorConfig{
		EnableLinear:   c.Movement.EnableLinear,
		EnableCurved:   c.Movement.EnableBezier,
		Randomize:      c.Movement.RandomizeTypes,
		MaxConsecutive: c.Movement.MaxConsecutiveSameType,
	}
}

// Margins returns the margin spec as motion expects it.
func (c *Config) Margins() motion.MarginSpec {
	return motion.MarginSpec(c.Screen.Margin)
}

var timeNow = time.Now
