//go:build !windows

package integration

import (
	"os"
	"syscall"
)

const canSignal = true

func stopSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
}
