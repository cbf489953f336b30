package motion

import (
	"math"
	"time"
)

// Curve is a cubic Bezier curve in pixel space.
type Curve struct {
	P0, P1, P2, P3 [2]float64
}

// At evaluates the curve at t in [0, 1].
func (c Curve) At(t float64) (float64, float64) {
	omt := 1 - t
	a := omt * omt * omt
	b := 3 * omt * omt * t
	cc := 3 * omt * t * t
	d := t * t * t
	x := a*c.P0[0] + b*c.P1[0] + cc*c.P2[0] + d*c.P3[0]
	y := a*c.P0[1] + b*c.P1[1] + cc*c.P2[1] + d*c.P3[1]
	return x, y
}

// NewCurve places the two control points at 30% and 70% of the line from
// start to target, each pushed by an independent offset in
// [-offset, offset] on both axes.
func (g *Generator) NewCurve(start, target Point, offset float64) Curve {
	sx, sy := float64(start.X), float64(start.Y)
	dx := float64(target.X - start.X)
	dy := float64(target.Y - start.Y)

	perturb := func() float64 {
		if offset <= 0 {
			return 0
		}
		return uniformFloat(g.rnd, -offset, offset)
	}

	return Curve{
		P0: [2]float64{sx, sy},
		P1: [2]float64{sx + dx*ctrl1Fraction + perturb(), sy + dy*ctrl1Fraction + perturb()},
		P2: [2]float64{sx + dx*ctrl2Fraction + perturb(), sy + dy*ctrl2Fraction + perturb()},
		P3: [2]float64{float64(target.X), float64(target.Y)},
	}
}

// CurvedStepCount is floor(duration / interval), clamped to at least one step.
func CurvedStepCount(duration, interval time.Duration) int {
	if interval <= 0 {
		return 1
	}
	n := int(duration / interval)
	if n < 1 {
		return 1
	}
	return n
}

// Curved follows a cubic Bezier from start to target. It emits steps+1
// points, t = 0 included, and each delay is the base interval +/- 5ms,
// never below 1ms.
func (g *Generator) Curved(start, target Point) ([]Step, time.Duration) {
	p := g.params.Curved
	duration := seconds(FloatIn(g.rnd, p.Duration))
	interval := seconds(FloatIn(g.rnd, p.StepInterval))
	curvature := FloatIn(g.rnd, p.Curvature)

	curve := g.NewCurve(start, target, start.Distance(target)*curvature)
	n := CurvedStepCount(duration, interval)

	steps := make([]Step, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		x, y := curve.At(t)
		pt := Point{X: int(x), Y: int(y)}
		jx, jy := g.jitter()
		pt.X += jx
		pt.Y += jy
		steps = append(steps, Step{Point: pt, Delay: g.curvedDelay(interval)})
	}
	return steps, interval
}

func (g *Generator) curvedDelay(interval time.Duration) time.Duration {
	j := uniformFloat(g.rnd, -float64(curvedDelayJitter), float64(curvedDelayJitter))
	d := interval + time.Duration(math.Round(j))
	if d < minStepDelay {
		return minStepDelay
	}
	return d
}
