package util

import "os/exec"

// LookCommand resolves name on PATH.
func LookCommand(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}

// HasCommand reports whether name resolves on PATH.
func HasCommand(name string) bool {
	_, ok := LookCommand(name)
	return ok
}
