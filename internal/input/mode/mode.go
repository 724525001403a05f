package mode

import (
	"github.com/dshills/modalkeys/internal/input/editor"
	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/input/keymap"
	"github.com/dshills/modalkeys/internal/input/vim"
)

// Mode defines the interface for editor modes.
// Each mode resolves key events into commands and decides what caret is
// displayed.
type Mode interface {
	// Name returns the unique mode identifier (e.g., "normal", "insert").
	Name() string

	// DisplayName returns a human-readable name for the status line.
	DisplayName() string

	// CursorStyle returns the cursor style for this mode.
	CursorStyle() CursorStyle

	// Enter is called when entering this mode.
	// The context provides information about the transition.
	Enter(ctx *Context) error

	// Exit is called when leaving this mode. It clears pending state.
	Exit(ctx *Context) error

	// HandleKey feeds one key event to the mode.
	HandleKey(ctx *Context, event key.Event) Result
}

// Settler is implemented by modes that adjust the caret after every
// executed command.
type Settler interface {
	Settle(ctx *Context) error
}

// Context provides information during mode transitions and key handling.
type Context struct {
	vim.Context

	// PreviousMode is the mode being transitioned from (for Enter).
	PreviousMode string

	// NextMode is the mode being transitioned to (for Exit).
	NextMode string

	// Hint is the hint passed with the mode change (for Enter and Exit).
	Hint vim.ModeHint
}

// NewContext creates a new mode context around the command context.
func NewContext(vc vim.Context) *Context {
	return &Context{Context: vc}
}

// Status is the outcome of a single key event.
type Status uint8

const (
	// Pending means the key started or continued a sequence.
	Pending Status = iota

	// Aborted means the sequence cannot be completed and was discarded.
	Aborted

	// Matched means a command was resolved and should be executed.
	Matched

	// Consumed means the mode handled the key itself.
	Consumed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Aborted:
		return "aborted"
	case Matched:
		return "matched"
	case Consumed:
		return "consumed"
	default:
		return "unknown"
	}
}

// Result is returned by Mode.HandleKey.
type Result struct {
	Status Status

	// Command is set when Status is Matched.
	Command vim.Command

	// Hint is set when Status is Pending.
	Hint keymap.Hint
}

// CursorStyle defines the visual appearance of the cursor.
type CursorStyle uint8

const (
	// CursorBlock is a full-cell block cursor (normal mode).
	CursorBlock CursorStyle = iota

	// CursorBar is a thin vertical bar cursor (insert mode).
	CursorBar

	// CursorUnderline is an underline cursor.
	CursorUnderline
)

// String returns a human-readable cursor style name.
func (c CursorStyle) String() string {
	switch c {
	case CursorBlock:
		return "block"
	case CursorBar:
		return "bar"
	case CursorUnderline:
		return "underline"
	default:
		return "unknown"
	}
}

// Caret returns the host caret for the style.
func (c CursorStyle) Caret() editor.Caret {
	switch c {
	case CursorBar:
		return editor.CaretBar
	case CursorUnderline:
		return editor.CaretUnderline
	default:
		return editor.CaretBlock
	}
}

// Standard mode names.
const (
	ModeNormal     = vim.ModeNormal
	ModeInsert     = vim.ModeInsert
	ModeVisual     = vim.ModeVisual
	ModeVisualLine = vim.ModeVisualLine
	ModeReplace    = vim.ModeReplace
	ModeCommand    = vim.ModeCommand
	ModeSearch     = vim.ModeSearch
)

// IsVisual returns true for the visual mode names.
func IsVisual(name string) bool {
	return name == ModeVisual || name == ModeVisualLine
}

// resolver walks a binding tree one key at a time.
type resolver struct {
	root    keymap.State[vim.Command]
	pending keymap.State[vim.Command]
}

func (r *resolver) press(event key.Event) Result {
	s := r.pending
	if s == nil {
		s = r.root
	}
	t := s.Press(event)
	switch t.Status {
	case keymap.Pending:
		r.pending = t.Next
		return Result{Status: Pending, Hint: t.Hint}
	case keymap.Matched:
		r.pending = nil
		return Result{Status: Matched, Command: t.Value}
	default:
		r.pending = nil
		return Result{Status: Aborted}
	}
}

func (r *resolver) reset() {
	r.pending = nil
}

// caretFor shows an underline caret while the next key will be taken as a
// literal character, and the mode's own caret otherwise.
func caretFor(ctx *Context, res Result, style CursorStyle) {
	if res.Status == Pending && res.Hint == keymap.HintAwaitChar {
		ctx.Editor().SetCaret(editor.CaretUnderline)
		return
	}
	ctx.Editor().SetCaret(style.Caret())
}

// pullBack moves the caret off the end of a non-empty line.
func pullBack(ctx *Context) error {
	h := ctx.Editor()
	t, err := editor.Snapshot(h)
	if err != nil {
		return err
	}
	pos := h.Position()
	line := t.LineAt(pos)
	if !line.IsEmpty() && pos >= line.End {
		h.SetPosition(t.LastChar(line), ctx.Column().EOL)
	}
	return nil
}
