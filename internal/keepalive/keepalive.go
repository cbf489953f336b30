// Package keepalive runs the movement loop and manages its lifecycle.
package keepalive

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stigoleg/keep-moving/internal/observability"
)

// ErrAlreadyRunning is returned when a Keeper is started twice.
var ErrAlreadyRunning = errors.New("keeper already running")

// Health represents the runtime health of cursor control.
type Health int

const (
	HealthUnknown Health = iota
	HealthOK
	// HealthDegraded means some platform calls failed but recovered on retry.
	HealthDegraded
	HealthFailed
)

func (h Health) String() string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthDegraded:
		return "degraded"
	case HealthFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Keeper runs a Runner in the background, indefinitely or for a fixed time.
type Keeper struct {
	runner *Runner
	logger *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
	endTime time.Time
}

// NewKeeper wraps runner.
func NewKeeper(runner *Runner) *Keeper {
	return &Keeper{
		runner: runner,
		logger: observability.GetLogger(),
		done:   closedChan(),
	}
}

func closedChan() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}

// IsRunning returns whether the loop is active.
func (k *Keeper) IsRunning() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.running
}

// StartIndefinite runs the loop until Stop or until ctx is done.
func (k *Keeper) StartIndefinite(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.running {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	k.startLocked(runCtx, cancel)
	k.endTime = time.Time{}

	k.logger.Info("keeper: started (indefinite)")
	return nil
}

// StartTimed runs the loop for d. Reaching the deadline is a clean stop.
func (k *Keeper) StartTimed(ctx context.Context, d time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.running {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithTimeout(ctx, d)
	k.startLocked(runCtx, cancel)
	k.endTime = time.Now().Add(d)

	k.logger.Info("keeper: started", zap.Duration("timed", d))
	return nil
}

func (k *Keeper) startLocked(ctx context.Context, cancel context.CancelFunc) {
	done := make(chan struct{})
	k.running = true
	k.cancel = cancel
	k.done = done
	k.err = nil

	go func() {
		err := k.runner.Run(ctx)
		cancel()

		k.mu.Lock()
		k.err = err
		k.running = false
		k.mu.Unlock()
		close(done)
	}()
}

// Done is closed when the current run ends, whatever the reason.
func (k *Keeper) Done() <-chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.done
}

// Err returns the error that ended the last run, or nil for a clean stop.
func (k *Keeper) Err() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.err
}

// Stop stops the loop, waiting up to five seconds.
func (k *Keeper) Stop() error {
	return k.StopWithTimeout(0)
}

// StopWithTimeout cancels the loop and waits for it to exit.
func (k *Keeper) StopWithTimeout(timeout time.Duration) error {
	k.mu.Lock()
	if !k.running {
		k.mu.Unlock()
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cancel, done := k.cancel, k.done
	k.mu.Unlock()

	cancel()

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-done:
		k.logger.Info("keeper: stopped", zap.Int64("movements", k.runner.Movements()))
		return k.Err()
	case <-t.C:
		k.logger.Warn("keeper: stop timeout exceeded", zap.Duration("timeout", timeout))
		return context.DeadlineExceeded
	}
}

// TimeRemaining returns the time left in timed mode, zero otherwise.
func (k *Keeper) TimeRemaining() time.Duration {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.running || k.endTime.IsZero() {
		return 0
	}
	return max(time.Until(k.endTime), 0)
}

// Health reports how cursor control has been doing.
func (k *Keeper) Health() Health {
	if k.Err() != nil {
		return HealthFailed
	}
	if k.runner.Failures() > 0 {
		return HealthDegraded
	}
	if k.runner.Movements() > 0 {
		return HealthOK
	}
	return HealthUnknown
}
