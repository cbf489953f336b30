//go:build linux

package linux

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// commandTimeout bounds a single xdotool call so a wedged X server cannot
// stall the loop.
const commandTimeout = 3 * time.Second

// runCommand executes name and returns its trimmed combined output.
func runCommand(name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		err = ctx.Err()
	}
	return strings.TrimSpace(buf.String()), err
}
