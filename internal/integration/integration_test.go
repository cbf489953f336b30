package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/stigoleg/keep-moving/internal/config"
	"github.com/stigoleg/keep-moving/internal/keepalive"
	"github.com/stigoleg/keep-moving/internal/motion"
	"github.com/stigoleg/keep-moving/internal/platform"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Logging.MovementDetails = false
	cfg.Logging.Verbose = false
	return cfg
}

func fastSleep(ctx context.Context, _ time.Duration) error {
	return keepalive.Sleep(ctx, time.Millisecond)
}

// trailFor replays n movements with the given seed and returns every point
// written to the cursor.
func trailFor(t *testing.T, seed int64, n int) []motion.Point {
	t.Helper()
	v := platform.NewVirtual(1920, 1080)
	v.KeepTrail(100000)

	r, err := keepalive.NewRunner(v, quietConfig(),
		keepalive.WithRand(motion.NewRand(seed)),
		keepalive.WithSleep(func(ctx context.Context, _ time.Duration) error { return ctx.Err() }),
	)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		require.NoError(t, r.Step(context.Background()))
	}
	return v.Trail()
}

func TestSeededRunsAreReproducible(t *testing.T) {
	a := trailFor(t, 99, 20)
	b := trailFor(t, 99, 20)
	require.NotEmpty(t, a)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different trails (-first +second):\n%s", diff)
	}

	c := trailFor(t, 100, 20)
	assert.NotEmpty(t, cmp.Diff(a, c), "different seeds should diverge")
}

func TestKeeperTimedRunOnVirtualScreen(t *testing.T) {
	v := platform.NewVirtual(1920, 1080)
	events := make(chan keepalive.Event, 4096)

	r, err := keepalive.NewRunner(v, quietConfig(),
		keepalive.WithRand(motion.NewRand(7)),
		keepalive.WithSleep(fastSleep),
		keepalive.WithObserver(keepalive.ChannelObserver(events)),
	)
	require.NoError(t, err)

	k := keepalive.NewKeeper(r)
	require.NoError(t, k.StartTimed(context.Background(), 300*time.Millisecond))
	assert.True(t, k.IsRunning())
	assert.Positive(t, k.TimeRemaining())

	select {
	case <-k.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timed run did not finish")
	}

	assert.NoError(t, k.Err(), "reaching the deadline is a clean stop")
	assert.False(t, k.IsRunning())
	assert.Positive(t, r.Movements())
	assert.Positive(t, v.Writes())
	assert.Equal(t, keepalive.HealthOK, k.Health())

	_, _, area := r.Screen()
	var stopped bool
	for len(events) > 0 {
		e := <-events
		switch e.Kind {
		case keepalive.EventMovementStarted:
			assert.True(t, area.Contains(e.Plan.Target), "target %s outside %s", e.Plan.Target, area)
		case keepalive.EventStopped:
			stopped = true
			assert.NoError(t, e.Err)
		}
	}
	assert.True(t, stopped)
}

func TestConcurrentStopsAreIdempotent(t *testing.T) {
	r, err := keepalive.NewRunner(platform.NewVirtual(1920, 1080), quietConfig(),
		keepalive.WithRand(motion.NewRand(3)),
		keepalive.WithSleep(fastSleep),
	)
	require.NoError(t, err)

	k := keepalive.NewKeeper(r)
	require.NoError(t, k.StartIndefinite(context.Background()))
	assert.ErrorIs(t, k.StartIndefinite(context.Background()), keepalive.ErrAlreadyRunning)

	done := make(chan error, 5)
	for i := 0; i < 5; i++ {
		go func() { done <- k.Stop() }()
	}
	for i := 0; i < 5; i++ {
		select {
		case err := <-done:
			assert.NoError(t, err, "concurrent stop %d", i)
		case <-time.After(5 * time.Second):
			t.Fatal("stop did not complete")
		}
	}
	assert.False(t, k.IsRunning())
}

func TestCleanupStopsKeeperBeforeLoggerSync(t *testing.T) {
	r, err := keepalive.NewRunner(platform.NewVirtual(1920, 1080), quietConfig(),
		keepalive.WithRand(motion.NewRand(5)),
		keepalive.WithSleep(fastSleep),
	)
	require.NoError(t, err)
	k := keepalive.NewKeeper(r)
	require.NoError(t, k.StartIndefinite(context.Background()))

	var order []string
	cm := keepalive.NewCleanupManager(2 * time.Second)
	cm.RegisterFunc("logger", func() error {
		order = append(order, "logger")
		assert.False(t, k.IsRunning(), "keeper must be stopped before the logger is flushed")
		return nil
	})
	cm.RegisterFunc("keeper", func() error {
		order = append(order, "keeper")
		return k.Stop()
	})

	assert.Empty(t, cm.Execute())
	assert.Equal(t, []string{"keeper", "logger"}, order)
}
