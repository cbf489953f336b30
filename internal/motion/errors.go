package motion

import "fmt"

// ConfigError reports an invalid or contradictory configuration value.
// It is fatal at startup and never retried.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// BoundsError reports a rectangle that is geometrically infeasible,
// typically because the margins do not fit on the screen.
type BoundsError struct {
	Rect   Rect
	Reason string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("bounds: %s (min=(%d,%d) max=(%d,%d))",
		e.Reason, e.Rect.MinX, e.Rect.MinY, e.Rect.MaxX, e.Rect.MaxY)
}
