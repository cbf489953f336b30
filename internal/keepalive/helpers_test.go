package keepalive

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stigoleg/keep-moving/internal/config"
	"github.com/stigoleg/keep-moving/internal/motion"
	"github.com/stigoleg/keep-moving/internal/platform"
)

// testConfig returns defaults with jitter and small movements off, so every
// movement ends exactly on its target.
func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Jitter.Enabled = false
	cfg.SmallMovements.Enabled = false
	cfg.Logging.MovementDetails = false
	return cfg
}

// noSleep returns immediately unless ctx is done.
func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// shortSleep keeps background loops from spinning.
func shortSleep(ctx context.Context, _ time.Duration) error {
	return Sleep(ctx, time.Millisecond)
}

// recorder collects events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) ofKind(kind EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func newTestRunner(t *testing.T, cursor platform.Cursor, cfg *config.Config, opts ...Option) (*Runner, *recorder) {
	t.Helper()
	rec := &recorder{}
	base := []Option{
		WithRand(rand.New(rand.NewSource(42))),
		WithSleep(noSleep),
		WithObserver(rec),
	}
	r, err := NewRunner(cursor, cfg, append(base, opts...)...)
	require.NoError(t, err)
	return r, rec
}

var errDisplay = errors.New("display unavailable")

// flakyCursor fails a chosen operation a number of times before delegating.
type flakyCursor struct {
	*platform.Virtual

	mu         sync.Mutex
	failOp     string
	failures   int
	reconnects int
}

func (f *flakyCursor) fail(op string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOp == op && f.failures > 0 {
		f.failures--
		return true
	}
	return false
}

func (f *flakyCursor) Position() (motion.Point, error) {
	if f.fail(platform.OpPosition) {
		return motion.Point{}, errDisplay
	}
	return f.Virtual.Position()
}

func (f *flakyCursor) SetPosition(p motion.Point) error {
	if f.fail(platform.OpSetPosition) {
		return errDisplay
	}
	return f.Virtual.SetPosition(p)
}

func (f *flakyCursor) ScreenSize() (int, int, error) {
	if f.fail(platform.OpScreenSize) {
		return 0, 0, errDisplay
	}
	return f.Virtual.ScreenSize()
}

func (f *flakyCursor) Reconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconnects++
	return nil
}
