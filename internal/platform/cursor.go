// Package platform binds cursor control to the host operating system.
package platform

import (
	"runtime"

	"github.com/stigoleg/keep-moving/internal/motion"
)

// Cursor is the per-platform I/O shim: read the pointer, move it, and read
// the screen size. Implementations are selected at startup by New.
type Cursor interface {
	Position() (motion.Point, error)
	SetPosition(p motion.Point) error
	ScreenSize() (width, height int, err error)
}

// Reconnector is implemented by cursors whose backing connection can drop,
// such as an X11 display. The runner calls Reconnect once before retrying a
// failed call.
type Reconnector interface {
	Reconnect() error
}

// Capability represents the result of checking if cursor control will work
type Capability struct {
	// CanMove indicates whether the cursor can be read and moved on this system
	CanMove bool

	// ErrorMessage is a user-friendly error message if it can't
	ErrorMessage string

	// Instructions provides step-by-step instructions to fix the issue
	Instructions string
}

// Name returns a display name for the running platform.
func Name() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS"
	case "windows":
		return "Windows"
	case "linux":
		return "Linux"
	default:
		return runtime.GOOS
	}
}

// CheckCapability checks if the platform can drive the cursor.
// This should be called before the first movement to provide early feedback.
// Each platform (darwin, windows, linux) implements checkCapability.
func CheckCapability() Capability {
	return checkCapability()
}

// HelperCommand names the external tool the platform cursor depends on, or
// "" when it needs none.
func HelperCommand() string {
	return helperCommand
}

// New creates the cursor for the running platform.
func New() (Cursor, error) {
	return newCursor()
}
