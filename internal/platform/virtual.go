package platform

import (
	"fmt"
	"sync"

	"github.com/stigoleg/keep-moving/internal/motion"
)

// Default virtual screen used by dry runs.
const (
	VirtualWidth  = 1920
	VirtualHeight = 1080
)

// Virtual is an in-memory cursor on a virtual screen. It never touches the
// real pointer; writes are clamped to the screen like a real display would.
type Virtual struct {
	mu     sync.Mutex
	width  int
	height int
	pos    motion.Point
	writes int
	trail  []motion.Point
	keep   int
}

// NewVirtual creates a virtual screen with the cursor in its center.
func NewVirtual(width, height int) *Virtual {
	return &Virtual{
		width:  width,
		height: height,
		pos:    motion.Point{X: width / 2, Y: height / 2},
	}
}

// KeepTrail records up to n written points for inspection.
func (v *Virtual) KeepTrail(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keep = n
}

// Position implements Cursor.
func (v *Virtual) Position() (motion.Point, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pos, nil
}

// SetPosition implements Cursor.
func (v *Virtual) SetPosition(p motion.Point) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	p.X = max(0, min(p.X, v.width-1))
	p.Y = max(0, min(p.Y, v.height-1))
	v.pos = p
	v.writes++
	if len(v.trail) < v.keep {
		v.trail = append(v.trail, p)
	}
	return nil
}

// ScreenSize implements Cursor.
func (v *Virtual) ScreenSize() (int, int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.width <= 0 || v.height <= 0 {
		return 0, 0, &Error{Op: OpScreenSize, Err: fmt.Errorf("invalid virtual screen %dx%d", v.width, v.height)}
	}
	return v.width, v.height, nil
}

// Resize changes the virtual screen, keeping the cursor on it.
func (v *Virtual) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width, v.height = width, height
	v.pos.X = max(0, min(v.pos.X, width-1))
	v.pos.Y = max(0, min(v.pos.Y, height-1))
}

// Move places the cursor without counting a write, like a user would.
func (v *Virtual) Move(p motion.Point) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pos = p
}

// Writes returns how many SetPosition calls were made.
func (v *Virtual) Writes() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.writes
}

// Trail returns the recorded points.
func (v *Virtual) Trail() []motion.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]motion.Point, len(v.trail))
	copy(out, v.trail)
	return out
}
