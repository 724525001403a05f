// Package keymap resolves key sequences incrementally through immutable tries.
//
// A State consumes one keystroke at a time and answers with a Transition:
//
//   - Matched: the sequence is complete and produced a value
//   - Pending: more keys are needed; Next continues from here
//   - Aborted: no binding; the caller resets to its root state
//
// Tries are built from entries and combined with two explicit operations.
// Union merges independently defined tries, recursing into shared prefixes,
// and fails with ErrBindingConflict when one key would be both a leaf and a
// prefix, or a leaf twice. Override layers one trie over another and lets
// the overlay win; it is used where a mode deliberately replaces a binding.
//
// CountConsuming wraps any state so that a leading decimal count is
// collected and applied to whatever the wrapped state produces:
//
//	normal := keymap.CountConsuming(tree, func(c Command, n int) Command {
//	    return c.WithCount(n)
//	})
//
// Resolution keeps no hidden state: the only memory between keystrokes is
// the Next state carried by a Pending transition.
package keymap
