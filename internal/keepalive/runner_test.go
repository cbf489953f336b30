package keepalive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/keep-moving/internal/motion"
	"github.com/stigoleg/keep-moving/internal/platform"
)

func TestRunnerMovementsEndOnTargetInsideArea(t *testing.T) {
	v := platform.NewVirtual(1920, 1080)
	r, rec := newTestRunner(t, v, testConfig())

	_, _, area := r.Screen()
	assert.Equal(t, motion.Rect{MinX: 50, MinY: 50, MaxX: 1870, MaxY: 1030}, area)

	ctx := context.Background()
	for i := 0; i < 50; i++ {
		require.NoError(t, r.Step(ctx))

		started := rec.ofKind(EventMovementStarted)
		require.Len(t, started, i+1)
		plan := started[i].Plan

		assert.True(t, area.Contains(plan.Target), "target %s outside %s", plan.Target, area)
		pos, _ := v.Position()
		assert.Equal(t, plan.Target, pos, "movement %d did not end on its target", i+1)
	}
	assert.Equal(t, int64(50), r.Movements())
	assert.Len(t, rec.ofKind(EventMovementCompleted), 50)
}

func TestRunnerReadsLivePositionEachMovement(t *testing.T) {
	v := platform.NewVirtual(1920, 1080)
	r, rec := newTestRunner(t, v, testConfig())
	ctx := context.Background()

	require.NoError(t, r.Step(ctx))

	// The user grabs the mouse between movements.
	moved := motion.Point{X: 123, Y: 456}
	v.Move(moved)

	require.NoError(t, r.Step(ctx))
	started := rec.ofKind(EventMovementStarted)
	require.Len(t, started, 2)
	assert.Equal(t, moved, started[1].Plan.Start)
}

func TestRunnerSmallMovementFromSecondaryMonitor(t *testing.T) {
	v := platform.NewVirtual(1920, 1080)
	cfg := testConfig()
	cfg.SmallMovements.Enabled = true
	cfg.SmallMovements.Chance = 1
	r, rec := newTestRunner(t, v, cfg)
	ctx := context.Background()

	// The pointer sits on a monitor to the right of the primary one.
	v.Move(motion.Point{X: 2500, Y: 500})
	require.NoError(t, r.Step(ctx))

	// And on one to its left.
	v.Move(motion.Point{X: -800, Y: 200})
	require.NoError(t, r.Step(ctx))

	started := rec.ofKind(EventMovementStarted)
	require.Len(t, started, 2)
	screen := motion.Rect{MinX: 0, MinY: 0, MaxX: 1920, MaxY: 1080}
	for _, e := range started {
		assert.True(t, e.Plan.Small)
		assert.True(t, screen.Contains(e.Plan.Target), "target %s off screen", e.Plan.Target)
	}
	assert.Equal(t, motion.Point{X: 2500, Y: 500}, started[0].Plan.Start)
}

func TestRunnerWaitsWholeSecondsInRange(t *testing.T) {
	var waits []time.Duration
	cfg := testConfig()
	sleep := func(ctx context.Context, d time.Duration) error {
		if d >= time.Second {
			waits = append(waits, d)
		}
		return nil
	}
	r, rec := newTestRunner(t, platform.NewVirtual(1920, 1080), cfg, WithSleep(sleep))

	for i := 0; i < 100; i++ {
		require.NoError(t, r.Step(context.Background()))
	}

	waiting := rec.ofKind(EventWaiting)
	require.Len(t, waiting, 100)
	require.Len(t, waits, 100)
	for i, e := range waiting {
		assert.Equal(t, e.Wait, waits[i])
		assert.Zero(t, e.Wait%time.Second)
		assert.GreaterOrEqual(t, e.Wait, 10*time.Second)
		assert.LessOrEqual(t, e.Wait, 60*time.Second)
	}
}

func TestRunnerNeverExceedsConsecutiveCap(t *testing.T) {
	r, rec := newTestRunner(t, platform.NewVirtual(1920, 1080), testConfig())

	for i := 0; i < 300; i++ {
		require.NoError(t, r.Step(context.Background()))
	}

	run, last := 0, motion.Style(-1)
	for _, e := range rec.ofKind(EventMovementStarted) {
		if e.Plan.Style == last {
			run++
		} else {
			run, last = 1, e.Plan.Style
		}
		require.LessOrEqual(t, run, 3)
		assert.Equal(t, run, e.Counters.Get(e.Plan.Style), "counters are recorded before execution")
	}
}

func TestRunnerSmallMovements(t *testing.T) {
	cfg := testConfig()
	cfg.SmallMovements.Enabled = true
	cfg.SmallMovements.Chance = 1

	r, rec := newTestRunner(t, platform.NewVirtual(1920, 1080), cfg)
	for i := 0; i < 100; i++ {
		require.NoError(t, r.Step(context.Background()))
	}

	for _, e := range rec.ofKind(EventMovementStarted) {
		require.True(t, e.Plan.Small)
		d := e.Plan.Start.Distance(e.Plan.Target)
		assert.GreaterOrEqual(t, d, 50.0)
		assert.LessOrEqual(t, d, 200*1.4143)
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	sleep := func(ctx context.Context, d time.Duration) error {
		calls++
		if calls == 25 {
			cancel()
		}
		return ctx.Err()
	}
	v := platform.NewVirtual(1920, 1080)
	r, rec := newTestRunner(t, v, testConfig(), WithSleep(sleep))

	require.NoError(t, r.Run(ctx))

	stopped := rec.ofKind(EventStopped)
	require.Len(t, stopped, 1)
	assert.NoError(t, stopped[0].Err)
	assert.Len(t, rec.ofKind(EventStarted), 1)

	// Ending mid-movement leaves the cursor on the last written point.
	assert.Equal(t, 25, v.Writes()+len(rec.ofKind(EventWaiting)))
}

func TestRunnerRetriesOnceAfterReconnect(t *testing.T) {
	f := &flakyCursor{Virtual: platform.NewVirtual(1920, 1080)}
	r, rec := newTestRunner(t, f, testConfig())

	f.failOp, f.failures = platform.OpPosition, 1
	require.NoError(t, r.Step(context.Background()))

	assert.Equal(t, 1, f.reconnects)
	assert.Equal(t, int64(1), r.Failures())
	require.Len(t, rec.ofKind(EventRetry), 1)
}

func TestRunnerRepeatedFailureIsFatal(t *testing.T) {
	for _, op := range []string{platform.OpPosition, platform.OpSetPosition, platform.OpScreenSize} {
		t.Run(op, func(t *testing.T) {
			f := &flakyCursor{Virtual: platform.NewVirtual(1920, 1080)}
			r, rec := newTestRunner(t, f, testConfig())

			f.failOp, f.failures = op, 2
			err := r.Run(context.Background())
			require.Error(t, err)

			var pe *platform.Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, op, pe.Op)
			assert.ErrorIs(t, err, errDisplay)
			assert.Equal(t, 1, f.reconnects)

			stopped := rec.ofKind(EventStopped)
			require.Len(t, stopped, 1)
			assert.Error(t, stopped[0].Err)
		})
	}
}

func TestRunnerFollowsScreenResize(t *testing.T) {
	v := platform.NewVirtual(1920, 1080)
	r, rec := newTestRunner(t, v, testConfig())
	ctx := context.Background()

	require.NoError(t, r.Step(ctx))
	assert.Empty(t, rec.ofKind(EventScreenChanged))

	v.Resize(1280, 720)
	require.NoError(t, r.Step(ctx))

	changed := rec.ofKind(EventScreenChanged)
	require.Len(t, changed, 1)
	want := motion.Rect{MinX: 50, MinY: 50, MaxX: 1230, MaxY: 670}
	assert.Equal(t, want, changed[0].Area)

	started := rec.ofKind(EventMovementStarted)
	assert.True(t, want.Contains(started[1].Plan.Target))

	v.Resize(90, 90)
	err := r.Step(ctx)
	var be *motion.BoundsError
	assert.ErrorAs(t, err, &be)
}

func TestNewRunnerRejectsBadSetup(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		cfg := testConfig()
		cfg.Movement.EnableLinear = false
		cfg.Movement.EnableBezier = false

		_, err := NewRunner(platform.NewVirtual(1920, 1080), cfg)
		var ce *motion.ConfigError
		assert.ErrorAs(t, err, &ce)
	})

	t.Run("bounds", func(t *testing.T) {
		cfg := testConfig()
		cfg.Screen.Margin = []int{900}

		_, err := NewRunner(platform.NewVirtual(800, 600), cfg)
		var be *motion.BoundsError
		assert.ErrorAs(t, err, &be)
	})

	t.Run("platform", func(t *testing.T) {
		f := &flakyCursor{Virtual: platform.NewVirtual(800, 600), failOp: platform.OpScreenSize, failures: 2}
		_, err := NewRunner(f, testConfig())
		var pe *platform.Error
		assert.ErrorAs(t, err, &pe)
	})
}

func TestRunnerSingleStyleIgnoresCap(t *testing.T) {
	cfg := testConfig()
	cfg.Movement.EnableLinear = false

	r, rec := newTestRunner(t, platform.NewVirtual(1920, 1080), cfg)
	for i := 0; i < 10; i++ {
		require.NoError(t, r.Step(context.Background()))
	}
	for _, e := range rec.ofKind(EventMovementStarted) {
		assert.Equal(t, motion.Curved, e.Plan.Style)
	}
	assert.Equal(t, 10, r.Counters().Curved)
}

func TestSleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Hour)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
}
