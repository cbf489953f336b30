package motion

import (
	"fmt"
	"time"
)

const (
	// curvedDelayJitter perturbs every curved step delay in both directions.
	curvedDelayJitter = 5 * time.Millisecond

	// minStepDelay keeps the cursor moving forward when jitter eats the interval.
	minStepDelay = time.Millisecond

	// Control points sit at these fractions of the straight line.
	ctrl1Fraction = 0.3
	ctrl2Fraction = 0.7
)

// LinearParams shape straight-line movements.
type LinearParams struct {
	Steps        IntRange   // step count
	StepInterval FloatRange // seconds between steps
}

// CurvedParams shape cubic Bezier movements.
type CurvedParams struct {
	Duration     FloatRange // seconds per movement
	StepInterval FloatRange // seconds between steps
	Curvature    FloatRange // control point offset as a fraction of distance
}

// JitterParams add per-step pixel tremor.
type JitterParams struct {
	Enabled   bool
	Intensity int
}

// Params configures a Generator.
type Params struct {
	Linear LinearParams
	Curved CurvedParams
	Jitter JitterParams
}

// Generator turns a (start, target) pair into a timed sequence of steps.
// Sequences are finite and built fresh for every movement.
type Generator struct {
	rnd    Rand
	params Params
}

// NewGenerator creates a generator with a random source.
func NewGenerator(rnd Rand, params Params) *Generator {
	return &Generator{rnd: rnd, params: params}
}

// Plan builds the movement for style. start must be the live cursor position.
func (g *Generator) Plan(style Style, start, target Point) (MovementPlan, error) {
	var (
		steps    []Step
		interval time.Duration
	)

	switch style {
	case Linear:
		steps, interval = g.Linear(start, target)
	case Curved:
		steps, interval = g.Curved(start, target)
	default:
		return MovementPlan{}, fmt.Errorf("motion: unknown style %d", style)
	}

	return MovementPlan{
		Start:    start,
		Target:   target,
		Style:    style,
		Steps:    steps,
		Interval: interval,
	}, nil
}

// jitter returns an offset in [-J, J] on both axes, or zero when disabled.
func (g *Generator) jitter() (int, int) {
	j := g.params.Jitter
	if !j.Enabled || j.Intensity <= 0 {
		return 0, 0
	}
	return uniformInt(g.rnd, -j.Intensity, j.Intensity), uniformInt(g.rnd, -j.Intensity, j.Intensity)
}
