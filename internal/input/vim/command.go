package vim

import (
	"strings"

	"github.com/dshills/modalkeys/internal/input/editor"
)

// Command is a fully resolved unit of work.
type Command interface {
	// Execute runs the command.
	Execute(ctx Context) error

	// WithCount returns a copy with the given count. Commands that ignore
	// counts return themselves.
	WithCount(count int) Command

	// Count returns the effective count, 0 when not given.
	Count() int

	// Repetition returns the command that dot-repeat replays, or nil when
	// the command is not repeatable.
	Repetition() Command
}

// placeCaret moves the caret to p, keeping it on a character when the line
// has any.
func placeCaret(h editor.Host, t editor.Text, p int, stickToEOL bool) {
	line := t.LineAt(p)
	if p >= line.End && !line.IsEmpty() {
		p = t.LastChar(line)
	}
	h.SetPosition(p, stickToEOL)
}

// MotionCommand moves the caret with a motion.
type MotionCommand struct {
	Motion Motion

	// PastEnd allows the caret to rest after the last character of a line,
	// as in insert mode.
	PastEnd bool

	count int
}

// Execute implements Command.
func (c MotionCommand) Execute(ctx Context) error {
	t, err := snapshot(ctx)
	if err != nil {
		return err
	}
	h := ctx.Editor()
	to, err := c.Motion.Destination(ctx, t, h.Position(), c.count)
	if err != nil {
		return err
	}
	col := ctx.Column()
	switch {
	case c.Motion.StickToEOL:
		col = Column{EOL: true, Valid: true}
	case !c.Motion.Vertical:
		col = Column{Col: t.Column(to), Valid: true}
	}
	ctx.SetColumn(col)
	if c.PastEnd {
		h.SetPosition(to, col.EOL)
		return nil
	}
	placeCaret(h, t, to, col.EOL)
	return nil
}

// WithCount implements Command.
func (c MotionCommand) WithCount(count int) Command {
	c.count = count
	return c
}

// Count implements Command.
func (c MotionCommand) Count() int { return c.count }

// Repetition implements Command. Motions are not changes.
func (MotionCommand) Repetition() Command { return nil }

// VisualMotionCommand moves the head of the visual selection.
type VisualMotionCommand struct {
	Motion Motion
	count  int
}

// Execute implements Command.
func (c VisualMotionCommand) Execute(ctx Context) error {
	h := ctx.Editor()
	if err := (MotionCommand{Motion: c.Motion, count: c.count}).Execute(ctx); err != nil {
		return err
	}
	sel := h.Selection()
	if !sel.Active {
		sel = editor.Selection{Anchor: h.Position(), Active: true}
	}
	sel.Head = h.Position()
	h.SetSelection(sel)
	return nil
}

// WithCount implements Command.
func (c VisualMotionCommand) WithCount(count int) Command {
	c.count = count
	return c
}

// Count implements Command.
func (c VisualMotionCommand) Count() int { return c.count }

// Repetition implements Command.
func (VisualMotionCommand) Repetition() Command { return nil }

// OperatorCommand applies an operator to a text object. Its count
// multiplies the count of the text object.
type OperatorCommand struct {
	Operator Operator
	Object   TextObject

	// Leave is the mode to switch to afterwards when the operator itself
	// does not switch modes. Visual mode sets it to normal.
	Leave string

	count int
}

// NewOperatorCommand returns op applied to obj.
func NewOperatorCommand(op Operator, obj TextObject) OperatorCommand {
	return OperatorCommand{Operator: op, Object: obj}
}

// Execute implements Command.
func (c OperatorCommand) Execute(ctx Context) error {
	obj := c.Object.WithCount(c.Count())
	r, err := obj.Region(ctx)
	if err != nil {
		return err
	}
	if err := c.Operator.Apply(ctx, r); err != nil {
		return err
	}
	switch next := c.Operator.NextMode(); {
	case next != "":
		return ctx.ChangeMode(next, ModeHint{
			Entry:           c.Repetition(),
			Count:           c.Count(),
			EntryTakesCount: true,
		})
	case c.Leave != "":
		return ctx.ChangeMode(c.Leave, ModeHint{})
	}
	return nil
}

// WithCount implements Command.
func (c OperatorCommand) WithCount(count int) Command {
	c.count = count
	return c
}

// Count implements Command. It is the product of the operator count and
// the text object count.
func (c OperatorCommand) Count() int {
	return composeCounts(c.count, c.Object.Count())
}

// Repetition implements Command. The repetition carries no count of its
// own; the dot buffer records the composed count instead.
func (c OperatorCommand) Repetition() Command {
	op := c.Operator.Repetition()
	if op == nil {
		return nil
	}
	if _, ok := c.Object.(SelectionTextObject); ok {
		return nil
	}
	return OperatorCommand{Operator: op, Object: c.Object.WithCount(0)}
}

// Seq runs commands in order, stopping at the first failure. Its count goes
// to the first command.
type Seq []Command

// Execute implements Command.
func (s Seq) Execute(ctx Context) error {
	for _, c := range s {
		if err := c.Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

// WithCount implements Command.
func (s Seq) WithCount(count int) Command {
	if len(s) == 0 {
		return s
	}
	out := make(Seq, len(s))
	copy(out, s)
	out[0] = out[0].WithCount(count)
	return out
}

// Count implements Command.
func (s Seq) Count() int {
	if len(s) == 0 {
		return 0
	}
	return s[0].Count()
}

// Repetition implements Command. It is the sequence of the repetitions of
// the parts that have one, or nil when none has.
func (s Seq) Repetition() Command {
	var out Seq
	for _, c := range s {
		if r := c.Repetition(); r != nil {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// DontRepeat hides the repetition of c.
func DontRepeat(c Command) Command {
	return dontRepeat{c}
}

type dontRepeat struct {
	Command
}

func (d dontRepeat) WithCount(count int) Command {
	return dontRepeat{d.Command.WithCount(count)}
}

func (dontRepeat) Repetition() Command { return nil }

// ChangeModeCommand switches modes, optionally running Prep first, as "a"
// moves right before entering insert mode.
type ChangeModeCommand struct {
	Mode string
	Prep Command
	Hint ModeHint

	// Session makes the insert or replace session that follows repeatable,
	// with Prep replayed before the typed text.
	Session bool

	count int
}

// Execute implements Command.
func (c ChangeModeCommand) Execute(ctx Context) error {
	if c.Prep != nil {
		if err := c.Prep.Execute(ctx); err != nil {
			return err
		}
	}
	hint := c.Hint
	hint.Count = c.count
	if c.Session {
		hint.Entry = c.Prep
		if hint.Entry == nil {
			hint.Entry = Seq{}
		}
	}
	return ctx.ChangeMode(c.Mode, hint)
}

// WithCount implements Command.
func (c ChangeModeCommand) WithCount(count int) Command {
	c.count = count
	return c
}

// Count implements Command.
func (c ChangeModeCommand) Count() int { return c.count }

// Repetition implements Command. Sessions are recorded when they end.
func (ChangeModeCommand) Repetition() Command { return nil }

// NamedCommand runs a named host operation Count times.
type NamedCommand struct {
	Operation string

	// Repeatable makes the command replayable with dot-repeat.
	Repeatable bool

	// Times maps the count to the number of executions. Nil means
	// max(count, 1).
	Times func(count int) int

	count int
}

// Execute implements Command.
func (c NamedCommand) Execute(ctx Context) error {
	n := atLeastOne(c.count)
	if c.Times != nil {
		n = c.Times(c.count)
	}
	for i := 0; i < n; i++ {
		if err := ctx.Editor().Execute(c.Operation); err != nil {
			return err
		}
	}
	return nil
}

// WithCount implements Command.
func (c NamedCommand) WithCount(count int) Command {
	c.count = count
	return c
}

// Count implements Command.
func (c NamedCommand) Count() int { return c.count }

// Repetition implements Command.
func (c NamedCommand) Repetition() Command {
	if !c.Repeatable {
		return nil
	}
	return c.WithCount(0)
}

// InsertText types text at the caret. With Overwrite set, characters under
// the caret are replaced up to the end of the line.
type InsertText struct {
	Text      string
	Overwrite bool
}

// Execute implements Command.
func (c InsertText) Execute(ctx Context) error {
	if c.Text == "" {
		return nil
	}
	h := ctx.Editor()
	pos := h.Position()
	end := pos
	if c.Overwrite {
		t, err := snapshot(ctx)
		if err != nil {
			return err
		}
		line := t.LineAt(pos)
		typed := editor.Text(c.Text)
		for p := 0; p < len(typed) && end < line.End; p = typed.NextGrapheme(p) {
			if typed[p] == '\n' {
				break
			}
			end = t.NextGrapheme(end)
		}
	}
	if err := h.Replace(pos, end, c.Text); err != nil {
		return err
	}
	h.SetPosition(pos+len(c.Text), false)
	return nil
}

// WithCount implements Command.
func (c InsertText) WithCount(int) Command { return c }

// Count implements Command.
func (InsertText) Count() int { return 0 }

// Repetition implements Command. Typed text is recorded with its session.
func (InsertText) Repetition() Command { return nil }

// DeleteBackward deletes the character before the caret, joining lines at
// the start of a line.
type DeleteBackward struct{}

// Execute implements Command.
func (DeleteBackward) Execute(ctx Context) error {
	h := ctx.Editor()
	pos := h.Position()
	if pos == 0 {
		return nil
	}
	t, err := snapshot(ctx)
	if err != nil {
		return err
	}
	prev := t.PrevGrapheme(pos)
	if err := h.Replace(prev, pos, ""); err != nil {
		return err
	}
	h.SetPosition(prev, false)
	return nil
}

// WithCount implements Command.
func (c DeleteBackward) WithCount(int) Command { return c }

// Count implements Command.
func (DeleteBackward) Count() int { return 0 }

// Repetition implements Command.
func (DeleteBackward) Repetition() Command { return nil }

// InsertSession replays an insert or replace session: the command that
// opened it followed by the text typed during it.
type InsertSession struct {
	Entry           Command
	Text            string
	Overwrite       bool
	EntryTakesCount bool
	RepeatEntry     bool
	count           int
}

// NewInsertSession builds the repeatable record of a session opened with hint.
func NewInsertSession(hint ModeHint, text string, overwrite bool) InsertSession {
	return InsertSession{
		Entry:           hint.Entry,
		Text:            text,
		Overwrite:       overwrite,
		EntryTakesCount: hint.EntryTakesCount,
		RepeatEntry:     hint.RepeatEntry,
		count:           hint.Count,
	}
}

// Execute implements Command.
func (s InsertSession) Execute(ctx Context) error {
	copies := atLeastOne(s.count)
	if s.Entry != nil {
		entry := s.Entry
		if s.EntryTakesCount {
			entry = entry.WithCount(s.count)
			copies = 1
		}
		if err := entry.Execute(ctx); err != nil {
			return err
		}
	}
	if err := s.typeCopies(ctx, 0, copies); err != nil {
		return err
	}
	return LeaveInsertCaret(ctx)
}

// TypeCopies types the session text for copies [from, to), re-running the
// entry command between copies when RepeatEntry is set.
func (s InsertSession) TypeCopies(ctx Context, from, to int) error {
	return s.typeCopies(ctx, from, to)
}

func (s InsertSession) typeCopies(ctx Context, from, to int) error {
	for i := from; i < to; i++ {
		if i > 0 && s.RepeatEntry && s.Entry != nil {
			if err := s.Entry.Execute(ctx); err != nil {
				return err
			}
		}
		if err := (InsertText{Text: s.Text, Overwrite: s.Overwrite}).Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

// WithCount implements Command.
func (s InsertSession) WithCount(count int) Command {
	s.count = count
	return s
}

// Count implements Command.
func (s InsertSession) Count() int { return s.count }

// Repetition implements Command.
func (s InsertSession) Repetition() Command { return s.WithCount(0) }

// LeaveInsertCaret moves the caret one character left, as leaving insert
// mode does, unless it is at the start of a line.
func LeaveInsertCaret(ctx Context) error {
	t, err := snapshot(ctx)
	if err != nil {
		return err
	}
	h := ctx.Editor()
	pos := h.Position()
	if pos > t.LineAt(pos).Start {
		h.SetPosition(t.PrevGrapheme(pos), false)
	}
	return nil
}

// Paste puts register content after (or before) the caret, Count times.
type Paste struct {
	Before bool
	count  int
}

// Execute implements Command.
func (c Paste) Execute(ctx Context) error {
	reg, err := ctx.Registers().Get(ctx.Register())
	if err != nil {
		return err
	}
	if reg.Text == "" && !reg.Linewise {
		return ErrEmptyRegister
	}
	t, err := snapshot(ctx)
	if err != nil {
		return err
	}
	h := ctx.Editor()
	pos := h.Position()
	n := atLeastOne(c.count)

	if reg.Linewise {
		line := t.LineAt(pos)
		var at int
		var text string
		if c.Before {
			at = line.Start
			text = strings.Repeat(reg.Text+"\n", n)
		} else {
			at = line.End
			text = strings.Repeat("\n"+reg.Text, n)
		}
		if err := h.Replace(at, at, text); err != nil {
			return err
		}
		after, err := snapshot(ctx)
		if err != nil {
			return err
		}
		first := at
		if !c.Before {
			first = at + 1
		}
		h.SetPosition(firstNonBlankOrLast(after, after.LineAt(first)), false)
		return nil
	}

	at := pos
	if !c.Before && !t.LineAt(pos).IsEmpty() {
		at = t.NextGrapheme(pos)
	}
	text := strings.Repeat(reg.Text, n)
	if err := h.Replace(at, at, text); err != nil {
		return err
	}
	after, err := snapshot(ctx)
	if err != nil {
		return err
	}
	h.SetPosition(after.PrevGrapheme(at+len(text)), false)
	return nil
}

// WithCount implements Command.
func (c Paste) WithCount(count int) Command {
	c.count = count
	return c
}

// Count implements Command.
func (c Paste) Count() int { return c.count }

// Repetition implements Command.
func (c Paste) Repetition() Command { return c.WithCount(0) }

// ReplaceChar replaces Count characters with Char, as "r<x>" does. It fails
// when the line has fewer characters left.
type ReplaceChar struct {
	Char  rune
	count int
}

// Execute implements Command.
func (c ReplaceChar) Execute(ctx Context) error {
	t, err := snapshot(ctx)
	if err != nil {
		return err
	}
	h := ctx.Editor()
	pos := h.Position()
	line := t.LineAt(pos)
	end := pos
	n := atLeastOne(c.count)
	for i := 0; i < n; i++ {
		if end >= line.End {
			return ErrOutOfBounds
		}
		end = t.NextGrapheme(end)
	}
	text := strings.Repeat(string(c.Char), n)
	if err := h.Replace(pos, end, text); err != nil {
		return err
	}
	h.SetPosition(pos+len(text)-len(string(c.Char)), false)
	return nil
}

// WithCount implements Command.
func (c ReplaceChar) WithCount(count int) Command {
	c.count = count
	return c
}

// Count implements Command.
func (c ReplaceChar) Count() int { return c.count }

// Repetition implements Command.
func (c ReplaceChar) Repetition() Command { return c.WithCount(0) }

// SwapCaseChars toggles the case of Count characters and moves past them,
// as "~" does.
type SwapCaseChars struct {
	count int
}

// Execute implements Command.
func (c SwapCaseChars) Execute(ctx Context) error {
	t, err := snapshot(ctx)
	if err != nil {
		return err
	}
	h := ctx.Editor()
	pos := h.Position()
	end, _ := moveRight(ctx, t, pos, c.count)
	if end == pos {
		return nil
	}
	if err := h.Replace(pos, end, convertCase(t.Slice(editor.Span{Start: pos, End: end}), CaseSwap)); err != nil {
		return err
	}
	after, err := snapshot(ctx)
	if err != nil {
		return err
	}
	placeCaret(h, after, end, false)
	return nil
}

// WithCount implements Command.
func (c SwapCaseChars) WithCount(count int) Command {
	c.count = count
	return c
}

// Count implements Command.
func (c SwapCaseChars) Count() int { return c.count }

// Repetition implements Command.
func (c SwapCaseChars) Repetition() Command { return c.WithCount(0) }

// OpenLine inserts an empty line below (or above) the caret line, with the
// same indentation, and moves the caret onto it.
type OpenLine struct {
	Above bool
}

// Execute implements Command.
func (c OpenLine) Execute(ctx Context) error {
	t, err := snapshot(ctx)
	if err != nil {
		return err
	}
	h := ctx.Editor()
	line := t.LineAt(h.Position())
	indent := t.Slice(editor.Span{Start: line.Start, End: t.FirstNonBlank(line)})
	if c.Above {
		if err := h.Replace(line.Start, line.Start, indent+"\n"); err != nil {
			return err
		}
		h.SetPosition(line.Start+len(indent), false)
		return nil
	}
	if err := h.Replace(line.End, line.End, "\n"+indent); err != nil {
		return err
	}
	h.SetPosition(line.End+1+len(indent), false)
	return nil
}

// WithCount implements Command.
func (c OpenLine) WithCount(int) Command { return c }

// Count implements Command.
func (OpenLine) Count() int { return 0 }

// Repetition implements Command.
func (c OpenLine) Repetition() Command { return c }

// DotCommand repeats the last change.
type DotCommand struct {
	count int
}

// Execute implements Command.
func (c DotCommand) Execute(ctx Context) error {
	return ctx.RepeatLastChange(c.count)
}

// WithCount implements Command.
func (c DotCommand) WithCount(count int) Command {
	c.count = count
	return c
}

// Count implements Command.
func (c DotCommand) Count() int { return c.count }

// Repetition implements Command. Repeating never records itself.
func (DotCommand) Repetition() Command { return nil }

// SelectRegister selects the register for the next command.
type SelectRegister struct {
	Name rune
}

// Execute implements Command.
func (c SelectRegister) Execute(ctx Context) error {
	if !IsValidRegister(c.Name) {
		return ErrInvalidRegister
	}
	ctx.SelectRegister(c.Name)
	return nil
}

// WithCount implements Command.
func (c SelectRegister) WithCount(int) Command { return c }

// Count implements Command.
func (SelectRegister) Count() int { return 0 }

// Repetition implements Command.
func (SelectRegister) Repetition() Command { return nil }

// SwapSelectionEnds exchanges the anchor and head of the visual selection.
type SwapSelectionEnds struct{}

// Execute implements Command.
func (SwapSelectionEnds) Execute(ctx Context) error {
	h := ctx.Editor()
	sel := h.Selection()
	if !sel.Active {
		return nil
	}
	sel.Anchor, sel.Head = sel.Head, sel.Anchor
	h.SetSelection(sel)
	h.SetPosition(sel.Head, false)
	return nil
}

// WithCount implements Command.
func (c SwapSelectionEnds) WithCount(int) Command { return c }

// Count implements Command.
func (SwapSelectionEnds) Count() int { return 0 }

// Repetition implements Command.
func (SwapSelectionEnds) Repetition() Command { return nil }
