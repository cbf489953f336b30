//go:build linux

package linux

import (
	"fmt"
	"strconv"
	"strings"
)

// Runner executes a command and returns its combined output.
type Runner func(name string, args ...string) (string, error)

// Xdotool reads and moves the X11 pointer by shelling out to xdotool.
type Xdotool struct {
	run Runner
}

// NewXdotool creates an xdotool-backed pointer. A nil runner executes the
// real binary.
func NewXdotool(run Runner) *Xdotool {
	if run == nil {
		run = runCommand
	}
	return &Xdotool{run: run}
}

// Location returns the absolute pointer position.
func (x *Xdotool) Location() (int, int, error) {
	out, err := x.run("xdotool", "getmouselocation", "--shell")
	if err != nil {
		return 0, 0, fmt.Errorf("xdotool getmouselocation: %v (output: %q)", err, out)
	}
	return ParseMouseLocation(out)
}

// MoveTo places the pointer at absolute coordinates.
func (x *Xdotool) MoveTo(px, py int) error {
	// "--" keeps negative coordinates from being read as flags.
	out, err := x.run("xdotool", "mousemove", "--", strconv.Itoa(px), strconv.Itoa(py))
	if err != nil {
		return fmt.Errorf("xdotool mousemove: %v (output: %q)", err, out)
	}
	return nil
}

// DisplaySize returns the primary display geometry.
func (x *Xdotool) DisplaySize() (int, int, error) {
	out, err := x.run("xdotool", "getdisplaygeometry")
	if err != nil {
		return 0, 0, fmt.Errorf("xdotool getdisplaygeometry: %v (output: %q)", err, out)
	}
	return ParseDisplayGeometry(out)
}

// Reconnect checks the display is reachable again after a failure.
func (x *Xdotool) Reconnect() error {
	caps := DetectCapabilities()
	switch {
	case caps.DisplayServer == DisplayServerWayland:
		return fmt.Errorf("wayland session: xdotool cannot control the pointer")
	case !caps.DisplaySet:
		return fmt.Errorf("DISPLAY is not set")
	case !caps.XdotoolAvailable:
		return fmt.Errorf("xdotool not found in PATH")
	}
	_, _, err := x.DisplaySize()
	return err
}

// ParseMouseLocation parses `xdotool getmouselocation --shell` output.
func ParseMouseLocation(out string) (int, int, error) {
	var x, y int
	var gotX, gotY bool
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "X":
			v, err := strconv.Atoi(value)
			if err != nil {
				return 0, 0, fmt.Errorf("parse X %q: %v", value, err)
			}
			x, gotX = v, true
		case "Y":
			v, err := strconv.Atoi(value)
			if err != nil {
				return 0, 0, fmt.Errorf("parse Y %q: %v", value, err)
			}
			y, gotY = v, true
		}
	}
	if !gotX || !gotY {
		return 0, 0, fmt.Errorf("unexpected getmouselocation output %q", out)
	}
	return x, y, nil
}

// ParseDisplayGeometry parses `xdotool getdisplaygeometry` output ("W H").
func ParseDisplayGeometry(out string) (int, int, error) {
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected getdisplaygeometry output %q", out)
	}
	w, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse width %q: %v", fields[0], err)
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse height %q: %v", fields[1], err)
	}
	return w, h, nil
}
