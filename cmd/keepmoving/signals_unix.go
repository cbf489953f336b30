//go:build !windows

package main

import (
	"os"
	"syscall"
)

// getSignalsForPlatform lists the signals that stop the loop cleanly.
func getSignalsForPlatform() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGHUP,
	}
}
