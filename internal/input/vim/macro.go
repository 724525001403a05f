package vim

import "errors"

// ErrMacrosUnsupported is returned by the macro commands when the context
// cannot record or play key sequences.
var ErrMacrosUnsupported = errors.New("macros are not supported")

// MacroContext is implemented by contexts that can record and replay the
// keys the user types.
type MacroContext interface {
	// StartRecording starts recording keys into register. An upper-case
	// register appends to the lower-case one.
	StartRecording(register rune) error

	// PlayMacro feeds the keys stored in register count times. Register
	// '@' plays the last played register.
	PlayMacro(register rune, count int) error
}

func macros(ctx Context) (MacroContext, error) {
	m, ok := ctx.(MacroContext)
	if !ok {
		return nil, ErrMacrosUnsupported
	}
	return m, nil
}

// RecordMacro starts recording into a register ("qa"). The recording is
// stopped by the interpreter when "q" is pressed again.
type RecordMacro struct {
	Name rune
}

// Execute implements Command.
func (c RecordMacro) Execute(ctx Context) error {
	m, err := macros(ctx)
	if err != nil {
		return err
	}
	return m.StartRecording(c.Name)
}

// WithCount implements Command.
func (c RecordMacro) WithCount(int) Command { return c }

// Count implements Command.
func (RecordMacro) Count() int { return 0 }

// Repetition implements Command.
func (RecordMacro) Repetition() Command { return nil }

// PlayMacro replays a recorded register Count times ("3@a").
type PlayMacro struct {
	Name  rune
	count int
}

// Execute implements Command.
func (c PlayMacro) Execute(ctx Context) error {
	m, err := macros(ctx)
	if err != nil {
		return err
	}
	return m.PlayMacro(c.Name, atLeastOne(c.count))
}

// WithCount implements Command.
func (c PlayMacro) WithCount(count int) Command {
	c.count = count
	return c
}

// Count implements Command.
func (c PlayMacro) Count() int { return c.count }

// Repetition implements Command. The commands run by the macro record
// themselves.
func (PlayMacro) Repetition() Command { return nil }
