package platform

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned on platforms without a cursor backend.
var ErrUnsupported = errors.New("unsupported platform")

// Operation names used in Error.Op.
const (
	OpPosition    = "get_cursor_position"
	OpSetPosition = "set_cursor_position"
	OpScreenSize  = "get_screen_size"
	OpReconnect   = "reconnect"
	OpCapability  = "check_capability"
)

// Error is a failed shim call.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("platform: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches op to err unless it already carries one. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Op: op, Err: err}
}
