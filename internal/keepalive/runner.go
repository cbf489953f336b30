package keepalive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stigoleg/keep-moving/internal/config"
	"github.com/stigoleg/keep-moving/internal/motion"
	"github.com/stigoleg/keep-moving/internal/observability"
	"github.com/stigoleg/keep-moving/internal/platform"
)

// SleepFunc blocks for d or until ctx is done, returning ctx.Err() then.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Option configures a Runner.
type Option func(*Runner)

// WithRand sets the random source shared by sampling, trajectories and
// selection.
func WithRand(rnd motion.Rand) Option {
	return func(r *Runner) { r.rnd = rnd }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithObserver adds an observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observers = append(r.observers, o) }
}

// WithSleep replaces the timed waits, for tests.
func WithSleep(fn SleepFunc) Option {
	return func(r *Runner) { r.sleep = fn }
}

// WithClock replaces time.Now in events.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// Runner owns the movement loop and all state carried between movements:
// the selector counters and the last known screen geometry. It is not safe
// to call Run or Step from more than one goroutine.
type Runner struct {
	cursor    platform.Cursor
	cfg       *config.Config
	rnd       motion.Rand
	logger    *zap.Logger
	observers []Observer
	sleep     SleepFunc
	now       func() time.Time

	sampler   *motion.Sampler
	generator *motion.Generator
	selector  *motion.Selector

	mu     sync.Mutex
	width  int
	height int
	area   motion.Rect

	movements atomic.Int64
	failures  atomic.Int64
}

// NewRunner validates cfg, reads the screen and derives the movement area.
// Configuration and bounds problems are reported here, before any movement.
func NewRunner(cursor platform.Cursor, cfg *config.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		cursor: cursor,
		cfg:    cfg,
		sleep:  Sleep,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rnd == nil {
		r.rnd = motion.NewRand(cfg.Run.Seed)
	}

	selector, err := motion.NewSelector(r.rnd, cfg.SelectorConfig())
	if err != nil {
		return nil, err
	}
	r.selector = selector
	r.sampler = motion.NewSampler(r.rnd, cfg.SmallMovements.MaxAttempts)
	r.generator = motion.NewGenerator(r.rnd, cfg.GeneratorParams())

	if !selector.CapEnforceable() {
		r.logger.Info("only one movement type enabled; max_consecutive_same_type is not enforced",
			zap.Int("max_consecutive_same_type", cfg.Movement.MaxConsecutiveSameType))
	}

	if _, err := r.refreshScreen(); err != nil {
		return nil, err
	}
	return r, nil
}

// Screen returns the last screen size and movement area.
func (r *Runner) Screen() (width, height int, area motion.Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height, r.area
}

// Movements returns how many movements have started.
func (r *Runner) Movements() int64 {
	return r.movements.Load()
}

// Failures returns how many platform calls have failed, including ones that
// succeeded on retry.
func (r *Runner) Failures() int64 {
	return r.failures.Load()
}

// Counters returns the selector's run lengths.
func (r *Runner) Counters() motion.Counters {
	return r.selector.Counters()
}

// Run moves the cursor until ctx is done, which is a clean stop and returns
// nil. Any other error ends the loop and is returned.
func (r *Runner) Run(ctx context.Context) error {
	w, h, area := r.Screen()
	r.emit(Event{Kind: EventStarted, Width: w, Height: h, Area: area})
	r.logger.Log(r.lifecycle(), "runner started",
		zap.Int("width", w), zap.Int("height", h), zap.Stringer("area", area))

	for {
		err := r.Step(ctx)
		if err == nil {
			continue
		}
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			r.emit(Event{Kind: EventStopped, Movement: int(r.Movements())})
			r.logger.Log(r.lifecycle(), "runner stopped", zap.Int64("movements", r.Movements()))
			return nil
		}
		r.emit(Event{Kind: EventStopped, Movement: int(r.Movements()), Err: err})
		r.logger.Error("runner failed", zap.Error(err))
		return err
	}
}

// Step performs one movement followed by one wait.
func (r *Runner) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	area, err := r.refreshScreen()
	if err != nil {
		return err
	}

	plan, err := r.plan(area)
	if err != nil {
		return err
	}

	n := int(r.movements.Add(1))
	r.emit(Event{Kind: EventMovementStarted, Movement: n, Plan: plan, Counters: r.selector.Counters()})
	if r.cfg.Logging.MovementDetails {
		r.logger.Info(fmt.Sprintf("Movement %d (%s): from %s to %s", n, plan.Size(), plan.Start, plan.Target),
			zap.Stringer("style", plan.Style), zap.Int("steps", len(plan.Steps)))
	}

	if err := r.execute(ctx, plan); err != nil {
		return err
	}

	r.emit(Event{Kind: EventMovementCompleted, Movement: n, Plan: plan, Counters: r.selector.Counters()})
	if r.cfg.Logging.MovementDetails {
		r.logger.Info(fmt.Sprintf("Completed %s movement", plan.Style), zap.Int("movement", n))
	}

	wait := time.Duration(motion.IntIn(r.rnd, r.cfg.Timing.Wait)) * time.Second
	r.emit(Event{Kind: EventWaiting, Movement: n, Wait: wait})
	r.logger.Log(r.lifecycle(), fmt.Sprintf("Waiting %d seconds before next movement", int(wait/time.Second)))
	return r.sleep(ctx, wait)
}

// plan reads the live cursor position and builds the next movement.
func (r *Runner) plan(area motion.Rect) (motion.MovementPlan, error) {
	var current motion.Point
	err := r.call(platform.OpPosition, func() error {
		var err error
		current, err = r.cursor.Position()
		return err
	})
	if err != nil {
		return motion.MovementPlan{}, err
	}

	small := r.cfg.SmallMovements.Enabled && r.rnd.Float64() < r.cfg.SmallMovements.Chance

	var target motion.Point
	if small {
		w, h, _ := r.Screen()
		rng := r.cfg.SmallMovements.Range
		target, err = r.sampler.NearbyPoint(current, float64(rng.Min), rng.Max, w, h)
	} else {
		target, err = r.sampler.UniformPoint(area)
	}
	if err != nil {
		return motion.MovementPlan{}, err
	}

	// Counters are updated here, before the movement runs.
	style, err := r.selector.Next()
	if err != nil {
		return motion.MovementPlan{}, err
	}

	plan, err := r.generator.Plan(style, current, target)
	if err != nil {
		return motion.MovementPlan{}, err
	}
	plan.Small = small
	return plan, nil
}

// execute writes every step in order. Stopping between steps leaves the
// cursor on the last written point.
func (r *Runner) execute(ctx context.Context, plan motion.MovementPlan) error {
	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := step.Point
		if err := r.call(platform.OpSetPosition, func() error { return r.cursor.SetPosition(p) }); err != nil {
			return err
		}
		if err := r.sleep(ctx, step.Delay); err != nil {
			return err
		}
	}
	return nil
}

// refreshScreen re-reads the screen size and re-derives the area when it
// changed.
func (r *Runner) refreshScreen() (motion.Rect, error) {
	var w, h int
	err := r.call(platform.OpScreenSize, func() error {
		var err error
		w, h, err = r.cursor.ScreenSize()
		return err
	})
	if err != nil {
		return motion.Rect{}, err
	}

	r.mu.Lock()
	if w == r.width && h == r.height {
		area := r.area
		r.mu.Unlock()
		return area, nil
	}
	r.mu.Unlock()

	area, err := motion.SafeRect(w, h, r.cfg.Margins(), r.cfg.Screen.SafeZone)
	if err != nil {
		return motion.Rect{}, err
	}

	r.mu.Lock()
	initial := r.width == 0 && r.height == 0
	r.width, r.height, r.area = w, h, area
	r.mu.Unlock()

	if !initial {
		r.emit(Event{Kind: EventScreenChanged, Width: w, Height: h, Area: area})
		r.logger.Info("screen size changed", zap.Int("width", w), zap.Int("height", h), zap.Stringer("area", area))
	}
	return area, nil
}

// call runs fn, and on failure reconnects when the cursor supports it and
// tries exactly once more.
func (r *Runner) call(op string, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	r.failures.Add(1)
	err = platform.Wrap(op, err)
	r.emit(Event{Kind: EventRetry, Err: err})
	r.logger.Warn("platform call failed, retrying once", zap.String("op", op), zap.Error(err))

	if rc, ok := r.cursor.(platform.Reconnector); ok {
		if rerr := rc.Reconnect(); rerr != nil {
			r.logger.Warn("reconnect failed", zap.Error(rerr))
		}
	}

	if err := fn(); err != nil {
		r.failures.Add(1)
		return platform.Wrap(op, err)
	}
	return nil
}

func (r *Runner) emit(e Event) {
	if len(r.observers) == 0 {
		return
	}
	e.Time = r.now()
	for _, o := range r.observers {
		o.Observe(e)
	}
}

func (r *Runner) lifecycle() zapcore.Level {
	return observability.Lifecycle(r.cfg.Logging)
}
