// Package editor defines the capabilities the interpreter needs from the
// text-editing host, and helpers for reasoning about lines and characters.
//
// Hosts implement Host: a Content (the text), a Cursor (caret and selection),
// Operations (opaque named commands such as "indent" or "undo") and a
// CaretHinter. Offsets are byte offsets into the content.
//
// Buffer is a complete in-memory Host, used by the terminal demo and tests.
package editor
