package keymap

import "github.com/dshills/modalkeys/internal/input/key"

// Status is the outcome of feeding one keystroke to a State.
type Status uint8

const (
	// Aborted means no binding matched. Pending count and prefix are discarded.
	Aborted Status = iota

	// Pending means the keystroke was accepted and more keys are needed.
	Pending

	// Matched means a value was resolved.
	Matched
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Aborted:
		return "aborted"
	case Pending:
		return "pending"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// Hint describes what a pending state is waiting for. Modes use it to adjust
// the caret while a sequence is incomplete.
type Hint uint8

const (
	// HintNone is an ordinary prefix.
	HintNone Hint = iota

	// HintAwaitChar means the next keystroke is taken as a literal character.
	HintAwaitChar
)

// Transition is the result of State.Press.
type Transition[T any] struct {
	Status Status

	// Value is set when Status is Matched.
	Value T

	// Next is set when Status is Pending.
	Next State[T]

	// Hint is set when Status is Pending.
	Hint Hint
}

// State is one step of an incremental key-sequence resolver.
// Implementations must be immutable: Press never modifies the receiver.
type State[T any] interface {
	Press(e key.Event) Transition[T]
}

// Match returns a Matched transition.
func Match[T any](v T) Transition[T] {
	return Transition[T]{Status: Matched, Value: v}
}

// Wait returns a Pending transition to next.
func Wait[T any](next State[T], hint Hint) Transition[T] {
	return Transition[T]{Status: Pending, Next: next, Hint: hint}
}

// Abort returns an Aborted transition.
func Abort[T any]() Transition[T] {
	return Transition[T]{}
}

// Feed presses each key of seq in turn, starting at s. It stops at the first
// transition that is not Pending, or after the last key.
// The second result is the number of keys consumed.
func Feed[T any](s State[T], seq key.Sequence) (Transition[T], int) {
	t := Wait(s, HintNone)
	for i, e := range seq {
		t = t.Next.Press(e)
		if t.Status != Pending {
			return t, i + 1
		}
	}
	return t, len(seq)
}
