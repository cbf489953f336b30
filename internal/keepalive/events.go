package keepalive

import (
	"time"

	"github.com/stigoleg/keep-moving/internal/motion"
)

// EventKind identifies what happened in the loop.
type EventKind int

const (
	EventStarted EventKind = iota
	EventScreenChanged
	EventMovementStarted
	EventMovementCompleted
	EventWaiting
	EventRetry
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventScreenChanged:
		return "screen_changed"
	case EventMovementStarted:
		return "movement_started"
	case EventMovementCompleted:
		return "movement_completed"
	case EventWaiting:
		return "waiting"
	case EventRetry:
		return "retry"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is a snapshot of the loop sent to observers. Plan.Steps is shared
// with the runner and must not be modified.
type Event struct {
	Kind     EventKind
	Time     time.Time
	Movement int
	Plan     motion.MovementPlan
	Wait     time.Duration
	Width    int
	Height   int
	Area     motion.Rect
	Counters motion.Counters
	Err      error
}

// Observer receives loop events. Observe is called synchronously from the
// runner goroutine and must not block.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// ChannelObserver forwards events to a channel, dropping them when it is full.
type ChannelObserver chan Event

func (c ChannelObserver) Observe(e Event) {
	select {
	case c <- e:
	default:
	}
}
