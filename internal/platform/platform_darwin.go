//go:build darwin

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/stigoleg/keep-moving/internal/motion"
	"github.com/stigoleg/keep-moving/internal/observability"
	"github.com/stigoleg/keep-moving/internal/util"
)

const (
	permissionWarnEvery = 60 * time.Second

	// scriptExecutionTimeout limits how long we wait for osascript to complete.
	// This protects against hangs if Accessibility is misconfigured or the
	// scripting environment is not responding.
	scriptExecutionTimeout = 3 * time.Second
)

const locationScript = `
ObjC.import('CoreGraphics');
var p = $.CGEventGetLocation($.CGEventCreate(null));
Math.round(p.x) + " " + Math.round(p.y);
`

const screenScript = `
ObjC.import('CoreGraphics');
var b = $.CGDisplayBounds($.CGMainDisplayID());
Math.round(b.size.width) + " " + Math.round(b.size.height);
`

// Posting a real mouse-moved event lets applications observe the movement.
const moveScriptFormat = `
ObjC.import('CoreGraphics');
var ev = $.CGEventCreateMouseEvent(null, $.kCGEventMouseMoved, {x: %d, y: %d}, $.kCGMouseButtonLeft);
$.CGEventPost($.kCGHIDEventTap, ev);
`

// darwinCursor drives the pointer through CoreGraphics via osascript.
type darwinCursor struct {
	// last time we warned about Accessibility, unix nanos
	lastPermWarnNS int64
}

// helperCommand is the external tool the cursor shells out to.
const helperCommand = "osascript"

func newCursor() (Cursor, error) {
	if !util.HasCommand("osascript") {
		return nil, &Error{Op: OpPosition, Err: fmt.Errorf("osascript not found in PATH")}
	}
	return &darwinCursor{}, nil
}

func checkCapability() Capability {
	if !util.HasCommand("osascript") {
		return Capability{
			ErrorMessage: "osascript is not available",
			Instructions: "osascript ships with macOS; make sure /usr/bin is on your PATH.",
		}
	}
	return Capability{CanMove: true}
}

func runJXAScript(script string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), scriptExecutionTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "osascript", "-l", "JavaScript", "-e", script)
	out, err := cmd.CombinedOutput()

	if ctx.Err() == context.DeadlineExceeded {
		return out, fmt.Errorf("osascript timed out after %s", scriptExecutionTimeout)
	}
	if err != nil {
		return out, fmt.Errorf("osascript failed: %v (output: %q)", err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// parsePair reads two integers separated by whitespace.
func parsePair(out []byte) (int, int, error) {
	fields := strings.Fields(string(out))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected osascript output %q", strings.TrimSpace(string(out)))
	}
	a, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (c *darwinCursor) Position() (motion.Point, error) {
	out, err := runJXAScript(locationScript)
	if err != nil {
		return motion.Point{}, Wrap(OpPosition, err)
	}
	x, y, err := parsePair(out)
	if err != nil {
		return motion.Point{}, Wrap(OpPosition, err)
	}
	return motion.Point{X: x, Y: y}, nil
}

func (c *darwinCursor) SetPosition(p motion.Point) error {
	if _, err := runJXAScript(fmt.Sprintf(moveScriptFormat, p.X, p.Y)); err != nil {
		c.warnAccessibilityOnce(err)
		return Wrap(OpSetPosition, err)
	}
	return nil
}

func (c *darwinCursor) ScreenSize() (int, int, error) {
	out, err := runJXAScript(screenScript)
	if err != nil {
		return 0, 0, Wrap(OpScreenSize, err)
	}
	w, h, err := parsePair(out)
	if err != nil {
		return 0, 0, Wrap(OpScreenSize, err)
	}
	return w, h, nil
}

func (c *darwinCursor) warnAccessibilityOnce(err error) {
	nowNS := time.Now().UnixNano()
	last := atomic.LoadInt64(&c.lastPermWarnNS)
	if last != 0 && time.Duration(nowNS-last) < permissionWarnEvery {
		return
	}
	atomic.StoreInt64(&c.lastPermWarnNS, nowNS)

	observability.GetLogger().Warn(
		"darwin: cursor move blocked or failed. Enable Accessibility for the process doing the move. If you run from Terminal, enable Terminal in System Settings, Privacy and Security, Accessibility.",
		zap.Error(err),
	)
}
