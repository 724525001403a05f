package mode

import (
	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/input/keymap"
	"github.com/dshills/modalkeys/internal/input/vim"
)

// InsertMode implements Vim's insert mode, and replace mode when
// overwrite is set. It remembers the text typed during the session so the
// whole session can be repeated with ".".
type InsertMode struct {
	resolver

	overwrite bool

	// hint is the hint the session was opened with.
	hint vim.ModeHint

	// typed is the text typed since the session started or the caret was
	// last moved.
	typed []rune
}

// NewInsertMode creates a new insert mode instance.
func NewInsertMode(root keymap.State[vim.Command]) *InsertMode {
	return &InsertMode{resolver: resolver{root: root}}
}

// NewReplaceMode creates a new replace mode instance. Typed characters
// overwrite the characters under the caret.
func NewReplaceMode(root keymap.State[vim.Command]) *InsertMode {
	return &InsertMode{resolver: resolver{root: root}, overwrite: true}
}

// Name returns the mode identifier.
func (m *InsertMode) Name() string {
	if m.overwrite {
		return ModeReplace
	}
	return ModeInsert
}

// DisplayName returns the human-readable mode name.
func (m *InsertMode) DisplayName() string {
	if m.overwrite {
		return "REPLACE"
	}
	return "INSERT"
}

// CursorStyle returns the cursor style for insert mode.
func (m *InsertMode) CursorStyle() CursorStyle {
	if m.overwrite {
		return CursorUnderline
	}
	return CursorBar
}

// Enter starts a new session.
func (m *InsertMode) Enter(ctx *Context) error {
	m.reset()
	m.hint = ctx.Hint
	m.typed = m.typed[:0]
	ctx.Editor().SetCaret(m.CursorStyle().Caret())
	return nil
}

// Exit ends the session: the typed text is repeated for the session count,
// the caret moves back one character, and the session is recorded for ".".
func (m *InsertMode) Exit(ctx *Context) error {
	m.reset()
	hint, text := m.hint, string(m.typed)
	m.hint, m.typed = vim.ModeHint{}, m.typed[:0]

	session := vim.NewInsertSession(hint, text, m.overwrite)
	if !hint.EntryTakesCount && hint.Count > 1 {
		if err := session.TypeCopies(ctx, 1, hint.Count); err != nil {
			return err
		}
	}
	if err := vim.LeaveInsertCaret(ctx); err != nil {
		return err
	}
	ctx.Registers().SetReadOnly('.', text)
	if hint.Entry != nil {
		ctx.RecordChange(session, session.Count())
	}
	return nil
}

// HandleKey implements Mode.
func (m *InsertMode) HandleKey(ctx *Context, event key.Event) Result {
	res := m.press(event)
	if res.Status != Matched {
		return res
	}
	if m.overwrite && event.Key == key.KeyBackspace {
		// Backspace in replace mode only steps back over typed text.
		m.capture(vim.DeleteBackward{})
		return res
	}
	m.capture(res.Command)
	return res
}

// capture keeps the typed text in step with the commands of the session.
// Moving the caret starts a new session at the new position.
func (m *InsertMode) capture(cmd vim.Command) {
	switch c := cmd.(type) {
	case vim.InsertText:
		m.typed = append(m.typed, []rune(c.Text)...)
	case vim.DeleteBackward:
		if n := len(m.typed); n > 0 {
			m.typed = m.typed[:n-1]
		}
	case vim.MotionCommand:
		m.typed = m.typed[:0]
		if m.hint.Entry != nil {
			m.hint = vim.ModeHint{Entry: vim.Seq{}}
		}
	}
}
