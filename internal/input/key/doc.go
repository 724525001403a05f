// Package key provides the keystroke model for the interpreter.
//
// An Event is a single key press: a character or special key plus the
// modifiers held with it. Events are comparable values, so resolver tries can
// key their children directly on them.
//
// # Key Specifications
//
// Bindings and tests are written in Vim notation:
//
//   - Characters: "a", "A", "0", "$"
//   - Special keys: "<Esc>", "<CR>", "<BS>", "<Left>", "<Space>"
//   - With modifiers: "<C-r>", "<C-S-Left>", "<A-x>"
//
// Parse reads a single keystroke, ParseSequence reads a run of them such as
// "d2w" or "<C-r>x". FromTcell converts terminal events delivered by tcell.
package key
