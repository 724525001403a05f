package keymap

import (
	"errors"
	"fmt"

	"github.com/dshills/modalkeys/internal/input/key"
)

// ErrBindingConflict is returned when two tries cannot be merged.
var ErrBindingConflict = errors.New("binding conflict")

// ConflictError reports the key path at which a merge failed.
type ConflictError struct {
	Keys   key.Sequence
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s at %q: %s", ErrBindingConflict, e.Keys.String(), e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrBindingConflict
}

// child is what a single keystroke leads to: a value or a further state.
type child[T any] struct {
	leaf  bool
	value T
	next  State[T]
}

// Node is an immutable trie node. Each keystroke maps to either a leaf value
// or a child state, never both. Keys without an explicit child may be handed
// to an optional converter that derives a value from the keystroke itself.
type Node[T any] struct {
	children map[key.Event]child[T]
	convert  func(key.Event) (T, bool)
	hint     Hint
}

// Press implements State.
func (n *Node[T]) Press(e key.Event) Transition[T] {
	if n == nil {
		return Abort[T]()
	}
	if c, ok := n.children[e]; ok {
		if c.leaf {
			return Match(c.value)
		}
		return Wait(c.next, hintOf(c.next))
	}
	if n.convert != nil {
		if v, ok := n.convert(e); ok {
			return Match(v)
		}
	}
	return Abort[T]()
}

// Len returns the number of explicitly bound keystrokes at this level.
func (n *Node[T]) Len() int {
	if n == nil {
		return 0
	}
	return len(n.children)
}

// WithHint returns a copy of n that reports hint when entered.
func (n *Node[T]) WithHint(hint Hint) *Node[T] {
	cp := n.clone()
	cp.hint = hint
	return cp
}

func hintOf[T any](s State[T]) Hint {
	if n, ok := s.(*Node[T]); ok && n != nil {
		return n.hint
	}
	if h, ok := s.(interface{ Hint() Hint }); ok {
		return h.Hint()
	}
	return HintNone
}

func (n *Node[T]) clone() *Node[T] {
	cp := &Node[T]{children: make(map[key.Event]child[T])}
	if n == nil {
		return cp
	}
	for k, c := range n.children {
		cp.children[k] = c
	}
	cp.convert = n.convert
	cp.hint = n.hint
	return cp
}

// Entry is a single binding used to build a Node.
type Entry[T any] struct {
	keys    key.Sequence
	value   T
	next    State[T]
	convert func(key.Event) (T, bool)
}

// Bind binds the key sequence keys (Vim notation, e.g. "gg" or "<C-r>")
// to the value v. Intermediate keys become prefixes.
func Bind[T any](keys string, v T) Entry[T] {
	return Entry[T]{keys: key.MustParseSequence(keys), value: v}
}

// BindKey binds a single keystroke to v.
func BindKey[T any](e key.Event, v T) Entry[T] {
	return Entry[T]{keys: key.Sequence{e}, value: v}
}

// Prefix makes keys lead to the state next.
func Prefix[T any](keys string, next State[T]) Entry[T] {
	return Entry[T]{keys: key.MustParseSequence(keys), next: next}
}

// Convert derives a value from any keystroke not otherwise bound at this
// level. fn reports false to reject a keystroke.
func Convert[T any](fn func(key.Event) (T, bool)) Entry[T] {
	return Entry[T]{convert: fn}
}

func (en Entry[T]) node() *Node[T] {
	if len(en.keys) == 0 {
		return &Node[T]{children: map[key.Event]child[T]{}, convert: en.convert}
	}
	last := len(en.keys) - 1
	var c child[T]
	if en.next != nil {
		c = child[T]{next: en.next}
	} else {
		c = child[T]{leaf: true, value: en.value}
	}
	n := &Node[T]{children: map[key.Event]child[T]{en.keys[last]: c}}
	for i := last - 1; i >= 0; i-- {
		n = &Node[T]{children: map[key.Event]child[T]{en.keys[i]: {next: n}}}
	}
	return n
}

// New builds a node from entries, merging them with Union semantics.
func New[T any](entries ...Entry[T]) (*Node[T], error) {
	nodes := make([]*Node[T], len(entries))
	for i, en := range entries {
		nodes[i] = en.node()
	}
	return Union(nodes...)
}

// MustNew is like New but panics on conflict.
// Use only for built-in binding tables.
func MustNew[T any](entries ...Entry[T]) *Node[T] {
	n, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return n
}

// Union merges nodes. Two prefixes on the same keystroke merge recursively.
// A keystroke bound to a leaf in one node and to anything in another is a
// conflict, as is a converter defined in more than one node.
func Union[T any](nodes ...*Node[T]) (*Node[T], error) {
	result := &Node[T]{children: map[key.Event]child[T]{}}
	for _, n := range nodes {
		merged, err := union(result, n, nil)
		if err != nil {
			return nil, err
		}
		result = merged
	}
	return result, nil
}

// MustUnion is like Union but panics on conflict.
func MustUnion[T any](nodes ...*Node[T]) *Node[T] {
	n, err := Union(nodes...)
	if err != nil {
		panic(err)
	}
	return n
}

func union[T any](a, b *Node[T], path key.Sequence) (*Node[T], error) {
	out := a.clone()
	if b == nil {
		return out, nil
	}
	if b.convert != nil {
		if out.convert != nil {
			return nil, &ConflictError{Keys: path, Reason: "two converters"}
		}
		out.convert = b.convert
	}
	if out.hint == HintNone {
		out.hint = b.hint
	}
	for k, cb := range b.children {
		ca, ok := out.children[k]
		if !ok {
			out.children[k] = cb
			continue
		}
		at := append(path[:len(path):len(path)], k)
		if ca.leaf || cb.leaf {
			return nil, &ConflictError{Keys: at, Reason: "key bound twice"}
		}
		na, okA := ca.next.(*Node[T])
		nb, okB := cb.next.(*Node[T])
		if !okA || !okB {
			return nil, &ConflictError{Keys: at, Reason: "cannot merge opaque states"}
		}
		merged, err := union(na, nb, at)
		if err != nil {
			return nil, err
		}
		out.children[k] = child[T]{next: merged}
	}
	return out, nil
}

// Override returns base with overlay layered on top. Where both bind the same
// keystroke the overlay wins, except that two prefix nodes are overridden
// recursively so unrelated bindings under a shared prefix survive.
func Override[T any](base, overlay *Node[T]) *Node[T] {
	out := base.clone()
	if overlay == nil {
		return out
	}
	if overlay.convert != nil {
		out.convert = overlay.convert
	}
	if overlay.hint != HintNone {
		out.hint = overlay.hint
	}
	for k, co := range overlay.children {
		cb, ok := out.children[k]
		if ok && !cb.leaf && !co.leaf {
			nb, okB := cb.next.(*Node[T])
			no, okO := co.next.(*Node[T])
			if okB && okO {
				out.children[k] = child[T]{next: Override(nb, no)}
				continue
			}
		}
		out.children[k] = co
	}
	return out
}

// Map returns a copy of n with every resolved value passed through f.
// Child nodes are mapped recursively; other child states are wrapped.
func Map[T, U any](n *Node[T], f func(T) U) *Node[U] {
	out := &Node[U]{children: make(map[key.Event]child[U], n.Len())}
	if n == nil {
		return out
	}
	out.hint = n.hint
	for k, c := range n.children {
		if c.leaf {
			out.children[k] = child[U]{leaf: true, value: f(c.value)}
			continue
		}
		if nn, ok := c.next.(*Node[T]); ok {
			out.children[k] = child[U]{next: Map(nn, f)}
		} else {
			out.children[k] = child[U]{next: MapState(c.next, f)}
		}
	}
	if conv := n.convert; conv != nil {
		out.convert = func(e key.Event) (U, bool) {
			v, ok := conv(e)
			if !ok {
				var zero U
				return zero, false
			}
			return f(v), true
		}
	}
	return out
}

// MapState wraps s so that every resolved value is passed through f.
func MapState[T, U any](s State[T], f func(T) U) State[U] {
	return mappedState[T, U]{inner: s, f: f}
}

type mappedState[T, U any] struct {
	inner State[T]
	f     func(T) U
}

func (m mappedState[T, U]) Press(e key.Event) Transition[U] {
	return mapTransition(m.inner.Press(e), m.f)
}

func (m mappedState[T, U]) Hint() Hint {
	return hintOf(m.inner)
}

func mapTransition[T, U any](t Transition[T], f func(T) U) Transition[U] {
	switch t.Status {
	case Matched:
		return Match(f(t.Value))
	case Pending:
		return Wait(MapState(t.Next, f), t.Hint)
	default:
		return Abort[U]()
	}
}
