package motion

// DefaultNearbyAttempts caps the rejection loop in NearbyPoint.
const DefaultNearbyAttempts = 1000

// Sampler draws movement targets.
type Sampler struct {
	rnd         Rand
	maxAttempts int
}

// NewSampler creates a sampler. maxAttempts <= 0 selects DefaultNearbyAttempts.
func NewSampler(rnd Rand, maxAttempts int) *Sampler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultNearbyAttempts
	}
	return &Sampler{rnd: rnd, maxAttempts: maxAttempts}
}

// UniformPoint draws x and y independently and uniformly from r, edges included.
func (s *Sampler) UniformPoint(r Rect) (Point, error) {
	if err := r.Validate(); err != nil {
		return Point{}, err
	}
	return Point{
		X: uniformInt(s.rnd, r.MinX, r.MaxX),
		Y: uniformInt(s.rnd, r.MinY, r.MaxY),
	}, nil
}

// NearbyWindow is the square search window of half-width maxRadius around
// current, clamped to the screen. A cursor off the reported screen, such as
// one on a secondary monitor, is first pulled onto its nearest edge.
func NearbyWindow(current Point, maxRadius, screenW, screenH int) Rect {
	current = ClampToScreen(current, screenW, screenH)
	return Rect{
		MinX: max(0, current.X-maxRadius),
		MinY: max(0, current.Y-maxRadius),
		MaxX: min(screenW, current.X+maxRadius),
		MaxY: min(screenH, current.Y+maxRadius),
	}
}

// NearbyPoint samples the window around current until a point at least
// minDistance away turns up. After maxAttempts misses it returns the window
// corner farthest from current, which is the best the window can offer.
func (s *Sampler) NearbyPoint(current Point, minDistance float64, maxRadius, screenW, screenH int) (Point, error) {
	current = ClampToScreen(current, screenW, screenH)
	window := NearbyWindow(current, maxRadius, screenW, screenH)
	if err := window.Validate(); err != nil {
		return Point{}, err
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		p, err := s.UniformPoint(window)
		if err != nil {
			return Point{}, err
		}
		if current.Distance(p) >= minDistance {
			return p, nil
		}
	}

	return farthestCorner(window, current), nil
}

// ClampToScreen pulls p into [0,w]x[0,h].
func ClampToScreen(p Point, w, h int) Point {
	return Point{X: min(max(p.X, 0), w), Y: min(max(p.Y, 0), h)}
}

func farthestCorner(r Rect, from Point) Point {
	corners := [4]Point{
		{X: r.MinX, Y: r.MinY},
		{X: r.MaxX, Y: r.MinY},
		{X: r.MinX, Y: r.MaxY},
		{X: r.MaxX, Y: r.MaxY},
	}
	best := corners[0]
	bestDist := from.Distance(best)
	for _, c := range corners[1:] {
		if d := from.Distance(c); d > bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
