package vim

import "github.com/dshills/modalkeys/internal/input/editor"

// Mode names understood by Context.ChangeMode.
const (
	ModeNormal     = "normal"
	ModeInsert     = "insert"
	ModeVisual     = "visual"
	ModeVisualLine = "visual-line"
	ModeReplace    = "replace"
	ModeCommand    = "command"
	ModeSearch     = "search"
)

// Options are the user settings that change command semantics.
type Options struct {
	// StupidCW makes "cw" change to the end of the word, like "ce".
	StupidCW bool

	// StupidY makes "Y" yank whole lines, like "yy".
	StupidY bool
}

// DefaultOptions returns Vim's defaults.
func DefaultOptions() Options {
	return Options{StupidCW: true, StupidY: true}
}

// Column is the preferred caret column kept across vertical motions.
type Column struct {
	Col   int
	EOL   bool
	Valid bool
}

// ModeHint carries extra information for a mode change.
type ModeHint struct {
	// OnEnter runs once the new mode is active.
	OnEnter Command

	// Count is the count of the command that opened the mode. Insert and
	// replace sessions repeat their typed text Count times unless
	// EntryTakesCount is set.
	Count int

	// Entry is replayed, followed by the typed text, when an insert or
	// replace session is repeated. A nil Entry makes the session
	// unrepeatable.
	Entry Command

	// EntryTakesCount gives the session count to Entry rather than to the
	// typed text, as for "3cw".
	EntryTakesCount bool

	// RepeatEntry runs Entry again before every repeated copy of the text,
	// as for "3o".
	RepeatEntry bool

	// Backward selects a backward search.
	Backward bool
}

// Context is what commands execute against. The interpreter implements it.
type Context interface {
	// Editor returns the host.
	Editor() editor.Host

	// Registers returns the register store.
	Registers() *RegisterStore

	// Options returns the current settings.
	Options() Options

	// Register returns the register selected with '"x' for the current
	// command, or 0 for the unnamed register.
	Register() rune

	// SelectRegister selects a register for the next command.
	SelectRegister(name rune)

	// Column returns the preferred caret column.
	Column() Column

	// SetColumn sets the preferred caret column.
	SetColumn(col Column)

	// ChangeMode switches the active mode.
	ChangeMode(name string, hint ModeHint) error

	// RepeatLastChange replays the dot buffer. count 0 keeps the recorded count.
	RepeatLastChange(count int) error

	// RecordChange records cmd in the dot buffer if it is repeatable.
	RecordChange(cmd Command, count int)
}

// snapshot reads the host content.
func snapshot(ctx Context) (editor.Text, error) {
	return editor.Snapshot(ctx.Editor())
}
