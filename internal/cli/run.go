package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stigoleg/keep-moving/internal/config"
	"github.com/stigoleg/keep-moving/internal/keepalive"
	"github.com/stigoleg/keep-moving/internal/motion"
	"github.com/stigoleg/keep-moving/internal/observability"
	"github.com/stigoleg/keep-moving/internal/platform"
	"github.com/stigoleg/keep-moving/internal/ui"
	"github.com/stigoleg/keep-moving/internal/util"
)

const (
	cleanupTimeout = 5 * time.Second
	eventBuffer    = 64
)

var timeNow = time.Now

// runDuration returns the length of a timed run, or zero to run until
// interrupted.
func runDuration(run config.RunConfig, now time.Time) (time.Duration, error) {
	switch {
	case run.Duration != "":
		d, err := util.ParseDuration(run.Duration)
		if err != nil {
			return 0, &motion.ConfigError{Field: "run.duration", Reason: err.Error()}
		}
		return d, nil
	case run.Until != "":
		d, err := util.UntilClock(run.Until, now)
		if err != nil {
			return 0, &motion.ConfigError{Field: "run.until", Reason: err.Error()}
		}
		return d, nil
	}
	return 0, nil
}

// openCursor returns the cursor to drive and the name shown to the user.
func (a *app) openCursor() (platform.Cursor, string, error) {
	if a.cfg.Run.DryRun {
		return platform.NewVirtual(platform.VirtualWidth, platform.VirtualHeight), "dry run", nil
	}

	caps := a.capability()
	if !caps.CanMove {
		msg := caps.ErrorMessage
		if caps.Instructions != "" {
			msg += "\n\n" + caps.Instructions
		}
		return nil, "", &platform.Error{Op: platform.OpCapability, Err: errors.New(msg)}
	}

	cursor, err := a.newCursor()
	if err != nil {
		return nil, "", err
	}
	return cursor, platform.Name(), nil
}

func (a *app) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := a.cfg

	cleanup := keepalive.NewCleanupManager(cleanupTimeout)
	cleanup.RegisterFunc("logger", func() error {
		observability.Sync()
		return nil
	})
	defer func() {
		for _, cerr := range cleanup.Execute() {
			a.logger.Warn("cleanup failed", zap.Error(cerr))
		}
	}()

	d, err := runDuration(cfg.Run, timeNow())
	if err != nil {
		return err
	}

	cursor, name, err := a.openCursor()
	if err != nil {
		return err
	}

	seed := cfg.Run.Seed
	if seed == 0 {
		seed = timeNow().UnixNano()
	}

	opts := []keepalive.Option{
		keepalive.WithRand(motion.NewRand(seed)),
		keepalive.WithLogger(a.logger),
	}
	var events chan keepalive.Event
	if cfg.Run.TUI {
		events = make(chan keepalive.Event, eventBuffer)
		opts = append(opts, keepalive.WithObserver(keepalive.ChannelObserver(events)))
	}

	runner, err := keepalive.NewRunner(cursor, cfg, opts...)
	if err != nil {
		return err
	}
	keeper := keepalive.NewKeeper(runner)
	cleanup.RegisterFunc("keeper", keeper.Stop)

	a.logger.Info("starting",
		zap.String("platform", name),
		zap.Int64("seed", seed),
		zap.Duration("duration", d),
		zap.Bool("dry_run", cfg.Run.DryRun),
	)

	if cfg.Run.TUI {
		return a.runTUI(ctx, cmd, keeper, events, name, d)
	}

	out := cmd.OutOrStdout()
	printBanner(out, bannerInfo{
		Platform: name,
		Runner:   runner,
		Duration: d,
		Config:   cfg,
		Verbose:  cfg.Logging.Verbose,
	})

	if d > 0 {
		err = keeper.StartTimed(ctx, d)
	} else {
		err = keeper.StartIndefinite(ctx)
	}
	if err != nil {
		return err
	}

	<-keeper.Done()
	if err := keeper.Err(); err != nil {
		return err
	}

	if ctx.Err() != nil {
		fmt.Fprintln(out, ui.Current.Inactive.Render(fmt.Sprintf("Stopped after %d movements.", runner.Movements())))
	} else {
		fmt.Fprintln(out, ui.Current.Active.Render(fmt.Sprintf("Timed run complete after %d movements.", runner.Movements())))
	}
	return nil
}

// runTUI runs the dashboard until the user quits, the run ends on its own or
// ctx is cancelled by a signal.
func (a *app) runTUI(ctx context.Context, cmd *cobra.Command, keeper *keepalive.Keeper, events <-chan keepalive.Event, name string, d time.Duration) error {
	model := ui.New(ctx, keeper, events, ui.Options{
		Duration:       d,
		AutoStart:      true,
		Platform:       name,
		QuitOnComplete: d > 0,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	var final tea.Model
	programDone := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(programDone)
		m, err := p.Run()
		final = m
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			p.Quit()
		case <-programDone:
		}
		return nil
	})

	err := g.Wait()
	if stopErr := keeper.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	if err != nil {
		return err
	}
	if m, ok := final.(ui.Model); ok && m.Err != nil {
		return m.Err
	}
	a.logger.Info("dashboard closed")
	return nil
}
