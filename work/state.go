package work

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition is returned when a Descriptor is moved to a state
// that cannot follow its current one.
var ErrIllegalTransition = errors.New("work: illegal state transition")

// State is the lifecycle position of a Descriptor.
type State int

const (
	Pending State = iota
	Dispatched
	Resolved
	Failed
	Skipped
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Dispatched:
		return "dispatched"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Resolved || s == Failed || s == Skipped
}

var transitions = map[State][]State{
	Pending:    {Dispatched, Resolved, Failed, Skipped},
	Dispatched: {Resolved, Failed, Skipped},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func illegal(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}
