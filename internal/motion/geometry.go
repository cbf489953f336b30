// Package motion generates the cursor movements used to simulate presence:
// safe screen boundaries, target sampling, straight and curved trajectories,
// and the policy that picks between movement styles.
package motion

import (
	"fmt"
	"math"
	"time"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	dx := float64(q.X - p.X)
	dy := float64(q.Y - p.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an inclusive pixel rectangle. A valid Rect has MinX < MaxX and MinY < MaxY.
type Rect struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// NewRect builds a Rect and fails with a BoundsError when it is empty on either axis.
func NewRect(minX, minY, maxX, maxY int) (Rect, error) {
	r := Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	if err := r.Validate(); err != nil {
		return Rect{}, err
	}
	return r, nil
}

// Validate checks the min < max invariant on both axes.
func (r Rect) Validate() error {
	if r.MinX >= r.MaxX {
		return &BoundsError{Rect: r, Reason: "min_x must be less than max_x"}
	}
	if r.MinY >= r.MaxY {
		return &BoundsError{Rect: r, Reason: "min_y must be less than max_y"}
	}
	return nil
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d, %d) to (%d, %d)", r.MinX, r.MinY, r.MaxX, r.MaxY)
}

// Style is a trajectory shape.
type Style int

const (
	Linear Style = iota
	Curved
)

func (s Style) String() string {
	switch s {
	case Linear:
		return "linear"
	case Curved:
		return "bezier"
	default:
		return "unknown"
	}
}

// Other returns the opposite style.
func (s Style) Other() Style {
	if s == Linear {
		return Curved
	}
	return Linear
}

// Step is one cursor write followed by a pause.
type Step struct {
	Point Point
	Delay time.Duration
}

// MovementPlan is a single movement, built right before it is executed.
type MovementPlan struct {
	Start    Point
	Target   Point
	Style    Style
	Steps    []Step
	Interval time.Duration
	Small    bool
}

// Duration returns the sum of all step delays.
func (p MovementPlan) Duration() time.Duration {
	var total time.Duration
	for _, s := range p.Steps {
		total += s.Delay
	}
	return total
}

// Size returns "small" or "normal".
func (p MovementPlan) Size() string {
	if p.Small {
		return "small"
	}
	return "normal"
}
