package motion

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testParams() Params {
	return Params{
		Linear: LinearParams{
			Steps:        IntRange{Min: 30, Max: 80},
			StepInterval: FloatRange{Min: 0.005, Max: 0.02},
		},
		Curved: CurvedParams{
			Duration:     FloatRange{Min: 1.0, Max: 3.0},
			StepInterval: FloatRange{Min: 0.01, Max: 0.03},
			Curvature:    FloatRange{Min: 0.2, Max: 0.4},
		},
	}
}

func TestLinearEndsOnTarget(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(42)), testParams())
	start := Point{X: 100, Y: 900}

	for i := 0; i < 200; i++ {
		target := Point{X: 37 + i*7, Y: 1000 - i*3}
		steps, interval := gen.Linear(start, target)

		if len(steps) < 30 || len(steps) > 80 {
			t.Fatalf("Linear() emitted %d steps, want within [30, 80]", len(steps))
		}
		if last := steps[len(steps)-1].Point; last != target {
			t.Fatalf("Linear() last point = %v, want %v", last, target)
		}
		for _, s := range steps {
			if s.Delay != interval {
				t.Fatalf("Linear() delay %v differs from interval %v", s.Delay, interval)
			}
		}
		if interval < 5*time.Millisecond || interval > 20*time.Millisecond {
			t.Fatalf("Linear() interval %v out of range", interval)
		}
	}
}

func TestLinearStepCountMatchesDraw(t *testing.T) {
	params := testParams()
	params.Linear.Steps = IntRange{Min: 4, Max: 4}
	gen := NewGenerator(rand.New(rand.NewSource(1)), params)

	steps, _ := gen.Linear(Point{X: 0, Y: 0}, Point{X: 10, Y: -7})

	var got []Point
	for _, s := range steps {
		got = append(got, s.Point)
	}
	// 10*i/4 and -7*i/4 truncated toward zero.
	want := []Point{{X: 2, Y: -1}, {X: 5, Y: -3}, {X: 7, Y: -5}, {X: 10, Y: -7}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Linear() points mismatch (-want +got):\n%s", diff)
	}
}

func TestLinearJitterBounded(t *testing.T) {
	params := testParams()
	params.Linear.Steps = IntRange{Min: 50, Max: 50}
	params.Jitter = JitterParams{Enabled: true, Intensity: 2}

	jittery := NewGenerator(rand.New(rand.NewSource(8)), params)

	start, target := Point{X: 0, Y: 0}, Point{X: 500, Y: 250}
	steps, _ := jittery.Linear(start, target)
	if len(steps) != 50 {
		t.Fatalf("Linear() emitted %d steps, want 50", len(steps))
	}

	moved := false
	for i, s := range steps {
		frac := float64(i+1) / 50
		ideal := Point{X: int(500 * frac), Y: int(250 * frac)}
		dx, dy := s.Point.X-ideal.X, s.Point.Y-ideal.Y
		if dx < -2 || dx > 2 || dy < -2 || dy > 2 {
			t.Fatalf("step %d = %v strays more than 2px from %v", i, s.Point, ideal)
		}
		if dx != 0 || dy != 0 {
			moved = true
		}
	}
	if !moved {
		t.Error("jitter enabled but no step was perturbed")
	}
}

func TestCurvedEndpointsWithoutCurvature(t *testing.T) {
	params := testParams()
	params.Curved.Curvature = FloatRange{Min: 0, Max: 0}
	gen := NewGenerator(rand.New(rand.NewSource(42)), params)

	start, target := Point{X: 120, Y: 80}, Point{X: 1500, Y: 930}
	steps, _ := gen.Curved(start, target)

	if first := steps[0].Point; first != start {
		t.Errorf("Curved() P(0) = %v, want %v", first, start)
	}
	if last := steps[len(steps)-1].Point; last != target {
		t.Errorf("Curved() P(1) = %v, want %v", last, target)
	}

	// Curvature 0 keeps every point on the segment's bounding box.
	box := Rect{MinX: start.X, MinY: start.Y, MaxX: target.X, MaxY: target.Y}
	for i, s := range steps {
		if !box.Contains(s.Point) {
			t.Fatalf("step %d = %v leaves the straight line's box", i, s.Point)
		}
	}
}

func TestCurvedEndpointsWithCurvature(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(11)), testParams())
	start, target := Point{X: 300, Y: 300}, Point{X: 900, Y: 700}

	for i := 0; i < 50; i++ {
		steps, _ := gen.Curved(start, target)
		if steps[0].Point != start {
			t.Fatalf("Curved() first point = %v, want %v", steps[0].Point, start)
		}
		if steps[len(steps)-1].Point != target {
			t.Fatalf("Curved() last point = %v, want %v", steps[len(steps)-1].Point, target)
		}
	}
}

func TestCurvedStepCountAndDelays(t *testing.T) {
	params := testParams()
	params.Curved.Duration = FloatRange{Min: 1.0, Max: 1.0}
	params.Curved.StepInterval = FloatRange{Min: 0.02, Max: 0.02}
	gen := NewGenerator(rand.New(rand.NewSource(3)), params)

	steps, interval := gen.Curved(Point{X: 0, Y: 0}, Point{X: 100, Y: 100})
	if interval != 20*time.Millisecond {
		t.Fatalf("Curved() interval = %v, want 20ms", interval)
	}
	wantPoints := CurvedStepCount(time.Second, 20*time.Millisecond) + 1
	if len(steps) != wantPoints {
		t.Errorf("Curved() emitted %d points, want %d", len(steps), wantPoints)
	}
	for i, s := range steps {
		if s.Delay < 15*time.Millisecond || s.Delay > 25*time.Millisecond {
			t.Fatalf("step %d delay %v outside 20ms +/- 5ms", i, s.Delay)
		}
	}
}

func TestCurvedDelayFloor(t *testing.T) {
	params := testParams()
	params.Curved.Duration = FloatRange{Min: 0.01, Max: 0.01}
	params.Curved.StepInterval = FloatRange{Min: 0.001, Max: 0.001}
	gen := NewGenerator(rand.New(rand.NewSource(4)), params)

	steps, _ := gen.Curved(Point{X: 0, Y: 0}, Point{X: 40, Y: 0})
	for i, s := range steps {
		if s.Delay < time.Millisecond {
			t.Fatalf("step %d delay %v below 1ms floor", i, s.Delay)
		}
	}
}

func TestCurvedStepCount(t *testing.T) {
	tests := []struct {
		duration time.Duration
		interval time.Duration
		want     int
	}{
		{time.Second, 10 * time.Millisecond, 100},
		{time.Second, 30 * time.Millisecond, 33},
		{5 * time.Millisecond, 30 * time.Millisecond, 1},
		{time.Second, 0, 1},
	}
	for _, tt := range tests {
		if got := CurvedStepCount(tt.duration, tt.interval); got != tt.want {
			t.Errorf("CurvedStepCount(%v, %v) = %d, want %d", tt.duration, tt.interval, got, tt.want)
		}
	}
}

func TestCurveAt(t *testing.T) {
	c := Curve{
		P0: [2]float64{0, 0},
		P1: [2]float64{0, 100},
		P2: [2]float64{100, 100},
		P3: [2]float64{100, 0},
	}
	x, y := c.At(0.5)
	if x != 50 || y != 75 {
		t.Errorf("Curve.At(0.5) = (%v, %v), want (50, 75)", x, y)
	}
}

func TestPlanDeterministic(t *testing.T) {
	start, target := Point{X: 10, Y: 20}, Point{X: 640, Y: 480}

	for _, style := range []Style{Linear, Curved} {
		a := NewGenerator(rand.New(rand.NewSource(12345)), testParams())
		b := NewGenerator(rand.New(rand.NewSource(12345)), testParams())

		pa, err := a.Plan(style, start, target)
		if err != nil {
			t.Fatalf("Plan(%v) unexpected error: %v", style, err)
		}
		pb, _ := b.Plan(style, start, target)

		if diff := cmp.Diff(pa, pb); diff != "" {
			t.Errorf("Plan(%v) not deterministic (-a +b):\n%s", style, diff)
		}
		if pa.Style != style || pa.Start != start || pa.Target != target {
			t.Errorf("Plan(%v) header = %+v", style, pa)
		}
		if pa.Duration() <= 0 {
			t.Errorf("Plan(%v) duration = %v, want > 0", style, pa.Duration())
		}
	}
}

func TestPlanUnknownStyle(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)), testParams())
	if _, err := gen.Plan(Style(9), Point{}, Point{X: 1, Y: 1}); err == nil {
		t.Error("Plan() with unknown style expected error")
	}
}
