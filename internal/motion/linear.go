package motion

import "time"

// Linear walks the straight line from start to target in N equal steps,
// N drawn from the configured range. Every step waits the same interval.
// Start itself is not emitted; with jitter off the last point is target.
func (g *Generator) Linear(start, target Point) ([]Step, time.Duration) {
	p := g.params.Linear
	interval := seconds(FloatIn(g.rnd, p.StepInterval))
	n := IntIn(g.rnd, p.Steps)
	if n < 1 {
		n = 1
	}

	dx := float64(target.X - start.X)
	dy := float64(target.Y - start.Y)

	steps := make([]Step, 0, n)
	for i := 1; i <= n; i++ {
		frac := float64(i) / float64(n)
		pt := Point{
			X: int(float64(start.X) + dx*frac),
			Y: int(float64(start.Y) + dy*frac),
		}
		jx, jy := g.jitter()
		pt.X += jx
		pt.Y += jy
		steps = append(steps, Step{Point: pt, Delay: interval})
	}
	return steps, interval
}
