// Package mode provides the modal editing states of the interpreter.
//
// Each mode owns a binding tree and feeds it one key at a time:
//   - Normal mode: motions, operators and commands
//   - Insert and Replace modes: text input, recorded as repeatable sessions
//   - Visual and Visual Line modes: selection, with operators acting on it
//   - Command and Search modes: an editable line handed to the host
//
// # Architecture
//
// The Mode interface is the contract for all modes. The Manager keeps
// exactly one of them active and coordinates transitions.
//
// # Mode Lifecycle
//
// When switching modes:
//  1. Current mode's Exit() is called
//  2. New mode's Enter() is called
//  3. Mode change callbacks are notified
//  4. The hint's OnEnter command, if any, runs in the new mode
//
// Exit and Enter receive a Context whose NextMode and PreviousMode name the
// other side of the transition, so visual modes can hand their selection
// to one another.
package mode
