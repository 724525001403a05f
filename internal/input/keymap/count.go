package keymap

import "github.com/dshills/modalkeys/internal/input/key"

// MaxCount caps accumulated counts so typing many digits cannot overflow.
const MaxCount = 999_999_999

// AppendDigit extends a decimal count by one digit, saturating at MaxCount.
func AppendDigit(count, digit int) int {
	if count > (MaxCount-digit)/10 {
		return MaxCount
	}
	return count*10 + digit
}

// CountConsuming wraps inner so that a decimal count typed before the first
// non-digit keystroke is collected and applied to the value inner resolves.
//
// A non-zero digit starts the count and any digit extends it; both answer
// Pending without consulting inner. A bare leading "0" is passed to inner
// untouched, so it can be bound as a motion. Digits typed after the first
// non-digit belong to inner.
func CountConsuming[T any](inner State[T], apply func(v T, count int) T) State[T] {
	return countState[T]{inner: inner, apply: apply}
}

type countState[T any] struct {
	inner State[T]
	apply func(T, int) T
	count int
}

func (s countState[T]) Press(e key.Event) Transition[T] {
	if d, ok := e.Digit(); ok && (s.count > 0 || d != 0) {
		next := s
		next.count = AppendDigit(s.count, d)
		return Wait[T](next, HintNone)
	}
	t := s.inner.Press(e)
	if s.count == 0 {
		return t
	}
	return withCount(t, s.count, s.apply)
}

// Count returns the digits collected so far, or 0.
func (s countState[T]) Count() int {
	return s.count
}

func withCount[T any](t Transition[T], count int, apply func(T, int) T) Transition[T] {
	switch t.Status {
	case Matched:
		return Match(apply(t.Value, count))
	case Pending:
		return Wait[T](countedState[T]{inner: t.Next, count: count, apply: apply, hint: t.Hint}, t.Hint)
	default:
		return t
	}
}

// countedState carries a collected count across the rest of a sequence.
type countedState[T any] struct {
	inner State[T]
	apply func(T, int) T
	count int
	hint  Hint
}

func (s countedState[T]) Press(e key.Event) Transition[T] {
	return withCount(s.inner.Press(e), s.count, s.apply)
}

func (s countedState[T]) Count() int {
	return s.count
}

func (s countedState[T]) Hint() Hint {
	return s.hint
}
