//go:build windows

package integration

import (
	"os"
	"syscall"
)

// Windows cannot deliver SIGINT to a child process from os.Process.Signal.
const canSignal = false

func stopSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
	}
}
