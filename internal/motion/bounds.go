package motion

import "fmt"

// MarginSpec holds 1, 2 or 4 non-negative margins:
// (all), (horizontal, vertical) or (left, top, right, bottom).
type MarginSpec []int

// Margins are the expanded per-side margins.
type Margins struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// ExpandMargins applies the 1/2/4 value rule.
func ExpandMargins(spec MarginSpec) (Margins, error) {
	for i, v := range spec {
		if v < 0 {
			return Margins{}, &ConfigError{
				Field:  "screen.margin",
				Reason: fmt.Sprintf("value %d at index %d is negative", v, i),
			}
		}
	}

	switch len(spec) {
	case 1:
		return Margins{Left: spec[0], Top: spec[0], Right: spec[0], Bottom: spec[0]}, nil
	case 2:
		return Margins{Left: spec[0], Top: spec[1], Right: spec[0], Bottom: spec[1]}, nil
	case 4:
		return Margins{Left: spec[0], Top: spec[1], Right: spec[2], Bottom: spec[3]}, nil
	default:
		return Margins{}, &ConfigError{
			Field:  "screen.margin",
			Reason: fmt.Sprintf("must have 1, 2, or 4 values, got %d", len(spec)),
		}
	}
}

// SafeRect derives the rectangle targets are drawn from. With safeZone off
// the whole screen is used. It has no side effects.
func SafeRect(width, height int, spec MarginSpec, safeZone bool) (Rect, error) {
	if width <= 0 || height <= 0 {
		return Rect{}, &BoundsError{
			Rect:   Rect{MaxX: width, MaxY: height},
			Reason: "screen dimensions must be positive",
		}
	}
	if !safeZone {
		return Rect{MinX: 0, MinY: 0, MaxX: width, MaxY: height}, nil
	}

	m, err := ExpandMargins(spec)
	if err != nil {
		return Rect{}, err
	}

	r := Rect{
		MinX: m.Left,
		MinY: m.Top,
		MaxX: width - m.Right,
		MaxY: height - m.Bottom,
	}
	if r.MinX >= r.MaxX || r.MinY >= r.MaxY {
		return Rect{}, &BoundsError{Rect: r, Reason: "screen margins are too large for the screen dimensions"}
	}
	return r, nil
}
