//go:build windows

package platform

import (
	"fmt"
	"sync"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/stigoleg/keep-moving/internal/motion"
)

var (
	// lxn/win does not export SetProcessDPIAware.
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procSetProcessDPIAware = user32.NewProc("SetProcessDPIAware")

	dpiOnce sync.Once
)

// windowsCursor reads and writes the pointer through user32.
type windowsCursor struct{}

// setDPIAware makes GetSystemMetrics and SetCursorPos agree on physical
// pixels on scaled displays.
func setDPIAware() {
	dpiOnce.Do(func() {
		if err := procSetProcessDPIAware.Find(); err != nil {
			return
		}
		_, _, _ = procSetProcessDPIAware.Call()
	})
}

// helperCommand is empty: Win32 is called directly.
const helperCommand = ""

func newCursor() (Cursor, error) {
	setDPIAware()
	return &windowsCursor{}, nil
}

// checkCapability needs an interactive desktop: a service session has no
// cursor to read.
func checkCapability() Capability {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return Capability{
			ErrorMessage: fmt.Sprintf("cannot read the cursor position: %v", windows.GetLastError()),
			Instructions: "Run keepmoving from an interactive desktop session.",
		}
	}
	return Capability{CanMove: true}
}

func (c *windowsCursor) Position() (motion.Point, error) {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return motion.Point{}, &Error{Op: OpPosition, Err: windows.GetLastError()}
	}
	return motion.Point{X: int(pt.X), Y: int(pt.Y)}, nil
}

func (c *windowsCursor) SetPosition(p motion.Point) error {
	if !win.SetCursorPos(int32(p.X), int32(p.Y)) {
		return &Error{Op: OpSetPosition, Err: windows.GetLastError()}
	}
	return nil
}

func (c *windowsCursor) ScreenSize() (int, int, error) {
	w := win.GetSystemMetrics(win.SM_CXSCREEN)
	h := win.GetSystemMetrics(win.SM_CYSCREEN)
	if w <= 0 || h <= 0 {
		return 0, 0, &Error{Op: OpScreenSize, Err: fmt.Errorf("GetSystemMetrics returned %dx%d", w, h)}
	}
	return int(w), int(h), nil
}
