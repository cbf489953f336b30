//go:build linux

package platform

import (
	"errors"

	"github.com/stigoleg/keep-moving/internal/motion"
	"github.com/stigoleg/keep-moving/internal/platform/linux"
)

// linuxCursor adapts the xdotool backend to Cursor.
type linuxCursor struct {
	x *linux.Xdotool
}

const helperCommand = "xdotool"

func newCursor() (Cursor, error) {
	caps := linux.DetectCapabilities()
	if !caps.CanMove() {
		msg := linux.FormatDependencyMessages(linux.CheckMissingDependencies(caps, linux.DetectDistribution()), caps)
		return nil, &Error{Op: OpPosition, Err: errors.New(msg)}
	}
	return &linuxCursor{x: linux.NewXdotool(nil)}, nil
}

func checkCapability() Capability {
	caps := linux.DetectCapabilities()
	if caps.CanMove() {
		return Capability{CanMove: true}
	}

	capability := Capability{
		Instructions: linux.FormatDependencyMessages(linux.CheckMissingDependencies(caps, linux.DetectDistribution()), caps),
	}
	switch {
	case caps.DisplayServer == linux.DisplayServerWayland:
		capability.ErrorMessage = "Wayland sessions do not allow absolute pointer control"
	case !caps.DisplaySet:
		capability.ErrorMessage = "no X11 display (DISPLAY is not set)"
	default:
		capability.ErrorMessage = "xdotool is not installed"
	}
	return capability
}

func (c *linuxCursor) Position() (motion.Point, error) {
	x, y, err := c.x.Location()
	if err != nil {
		return motion.Point{}, Wrap(OpPosition, err)
	}
	return motion.Point{X: x, Y: y}, nil
}

func (c *linuxCursor) SetPosition(p motion.Point) error {
	return Wrap(OpSetPosition, c.x.MoveTo(p.X, p.Y))
}

func (c *linuxCursor) ScreenSize() (int, int, error) {
	w, h, err := c.x.DisplaySize()
	if err != nil {
		return 0, 0, Wrap(OpScreenSize, err)
	}
	return w, h, nil
}

func (c *linuxCursor) Reconnect() error {
	return Wrap(OpReconnect, c.x.Reconnect())
}
