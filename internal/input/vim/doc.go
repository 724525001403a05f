// Package vim implements the command algebra of the modal interpreter.
//
// The building blocks compose in layers:
//
//   - Motion: a cursor movement with a border policy (exclusive, inclusive
//     or linewise), e.g. w, e, $, j, f<x>
//   - TextObject: a region of text, either a lifted motion or a pair of
//     motions (iw, aw), or whole lines for a doubled operator key (dd)
//   - Operator: a transformation of a region (delete, change, yank, case,
//     named host edits such as indent)
//   - Command: a fully resolved unit of work with a count and an optional
//     repetition used by dot-repeat
//
// Counts compose multiplicatively: "2d3w" deletes six words. A count of 0
// always means "not given".
//
// Commands never talk to the host directly except through Context, which
// the interpreter implements on top of an editor.Host. The default key
// bindings that assemble these pieces into Vim's normal, visual and insert
// grammars live in bindings.go.
package vim
