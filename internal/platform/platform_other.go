//go:build !darwin && !windows && !linux

package platform

const helperCommand = ""

func newCursor() (Cursor, error) {
	return nil, &Error{Op: OpPosition, Err: ErrUnsupported}
}

func checkCapability() Capability {
	return Capability{
		ErrorMessage: "cursor control is not supported on " + Name(),
		Instructions: "Use --dry-run to exercise the movement engine on a virtual screen.",
	}
}
