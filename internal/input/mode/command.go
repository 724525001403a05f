package mode

import (
	"strings"

	"github.com/dshills/modalkeys/internal/input/editor"
	"github.com/dshills/modalkeys/internal/input/fuzzy"
	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/input/vim"
)

// Operation name prefixes used when a command line is submitted. The
// typed text follows the prefix.
const (
	OpEx             = "ex:"
	OpSearchForward  = "search.forward:"
	OpSearchBackward = "search.backward:"
)

// LineMode implements the command-line modes: ":" for ex commands and
// "/" or "?" for searches. It edits a one-line buffer with its own history
// and hands the result to the host when Enter is pressed. In the ":" line,
// Tab completes ex commands the host implements.
type LineMode struct {
	name string

	// backward is set for "?" searches.
	backward bool

	// buffer holds the line being typed.
	buffer []rune

	// cursorPos is the cursor position within the buffer.
	cursorPos int

	// history holds previously submitted lines.
	history []string

	// historyIndex is the current position in history (-1 = current input).
	historyIndex int

	// savedBuffer holds the buffer while walking the history.
	savedBuffer []rune

	matcher     *fuzzy.Matcher
	completions []string
	completeIdx int
}

// NewCommandMode creates the ":" command-line mode.
func NewCommandMode() *LineMode {
	return newLineMode(ModeCommand)
}

// NewSearchMode creates the "/" and "?" search mode.
func NewSearchMode() *LineMode {
	return newLineMode(ModeSearch)
}

func newLineMode(name string) *LineMode {
	return &LineMode{
		name:         name,
		buffer:       make([]rune, 0, 64),
		history:      make([]string, 0, 100),
		historyIndex: -1,
		matcher:      fuzzy.NewMatcher(fuzzy.DefaultOptions()),
	}
}

// Name returns the mode identifier.
func (m *LineMode) Name() string {
	return m.name
}

// DisplayName returns the human-readable mode name.
func (m *LineMode) DisplayName() string {
	if m.name == ModeSearch {
		return "SEARCH"
	}
	return "COMMAND"
}

// CursorStyle returns the cursor style for the command line.
func (m *LineMode) CursorStyle() CursorStyle {
	return CursorBar
}

// Enter starts an empty line.
func (m *LineMode) Enter(ctx *Context) error {
	m.backward = ctx.Hint.Backward
	m.Clear()
	m.historyIndex = -1
	m.savedBuffer = nil
	m.completions = nil
	ctx.Editor().SetCaret(CursorBar.Caret())
	return nil
}

// Exit is called when leaving the command line.
func (m *LineMode) Exit(ctx *Context) error {
	return nil
}

// Prompt returns the prompt character shown before the line.
func (m *LineMode) Prompt() rune {
	switch {
	case m.name == ModeCommand:
		return ':'
	case m.backward:
		return '?'
	default:
		return '/'
	}
}

// HandleKey edits the line. Enter submits it, Escape abandons it, and
// Backspace on an empty line leaves the mode.
func (m *LineMode) HandleKey(ctx *Context, event key.Event) Result {
	leave := vim.ChangeModeCommand{Mode: ModeNormal}

	if event.IsEscape() {
		return Result{Status: Matched, Command: leave}
	}
	if event.IsModified() {
		return Result{Status: Aborted}
	}
	if event.Key != key.KeyTab {
		m.completions = nil
	}

	switch event.Key {
	case key.KeyEnter:
		line := m.Buffer()
		m.AddToHistory(line)
		return Result{Status: Matched, Command: m.submit(line)}
	case key.KeyBackspace:
		if len(m.buffer) == 0 {
			return Result{Status: Matched, Command: leave}
		}
		m.Backspace()
	case key.KeyDelete:
		m.Delete()
	case key.KeyLeft:
		m.MoveLeft()
	case key.KeyRight:
		m.MoveRight()
	case key.KeyHome:
		m.MoveToStart()
	case key.KeyEnd:
		m.MoveToEnd()
	case key.KeyUp:
		m.HistoryPrev()
	case key.KeyDown:
		m.HistoryNext()
	case key.KeyTab:
		if m.name == ModeCommand {
			m.complete(ctx)
		}
	default:
		if !event.IsPrintable() {
			return Result{Status: Aborted}
		}
		m.insertRune(event.Rune)
	}
	return Result{Status: Consumed}
}

// complete replaces the line with the best ex command matching it. Further
// presses cycle through the remaining matches.
func (m *LineMode) complete(ctx *Context) {
	if m.completions != nil {
		m.completeIdx = (m.completeIdx + 1) % len(m.completions)
		m.SetBuffer(m.completions[m.completeIdx])
		return
	}

	lister, ok := ctx.Editor().(editor.OperationLister)
	if !ok {
		return
	}
	var names []string
	for _, op := range lister.Operations() {
		if name, ok := strings.CutPrefix(op, OpEx); ok && name != "" {
			names = append(names, name)
		}
	}
	for _, r := range m.matcher.Match(m.Buffer(), names, 0) {
		m.completions = append(m.completions, r.Text)
	}
	if len(m.completions) == 0 {
		return
	}
	m.completeIdx = 0
	m.SetBuffer(m.completions[0])
}

func (m *LineMode) submit(line string) submitLine {
	s := submitLine{Text: line, Register: ':', Operation: OpEx}
	if m.name == ModeSearch {
		s.Register, s.Operation = '/', OpSearchForward
		if m.backward {
			s.Operation = OpSearchBackward
		}
	}
	return s
}

// insertRune inserts a character at the cursor position.
func (m *LineMode) insertRune(r rune) {
	if m.cursorPos >= len(m.buffer) {
		m.buffer = append(m.buffer, r)
	} else {
		m.buffer = append(m.buffer[:m.cursorPos+1], m.buffer[m.cursorPos:]...)
		m.buffer[m.cursorPos] = r
	}
	m.cursorPos++
}

// Buffer returns the line typed so far.
func (m *LineMode) Buffer() string {
	return string(m.buffer)
}

// SetBuffer replaces the line and moves the cursor to its end.
func (m *LineMode) SetBuffer(s string) {
	m.buffer = []rune(s)
	m.cursorPos = len(m.buffer)
}

// CursorPos returns the cursor position in the line.
func (m *LineMode) CursorPos() int {
	return m.cursorPos
}

// Clear empties the line.
func (m *LineMode) Clear() {
	m.buffer = m.buffer[:0]
	m.cursorPos = 0
}

// Backspace deletes the character before the cursor.
func (m *LineMode) Backspace() bool {
	if m.cursorPos == 0 {
		return false
	}
	m.buffer = append(m.buffer[:m.cursorPos-1], m.buffer[m.cursorPos:]...)
	m.cursorPos--
	return true
}

// Delete deletes the character at the cursor.
func (m *LineMode) Delete() bool {
	if m.cursorPos >= len(m.buffer) {
		return false
	}
	m.buffer = append(m.buffer[:m.cursorPos], m.buffer[m.cursorPos+1:]...)
	return true
}

// MoveLeft moves the cursor left.
func (m *LineMode) MoveLeft() bool {
	if m.cursorPos == 0 {
		return false
	}
	m.cursorPos--
	return true
}

// MoveRight moves the cursor right.
func (m *LineMode) MoveRight() bool {
	if m.cursorPos >= len(m.buffer) {
		return false
	}
	m.cursorPos++
	return true
}

// MoveToStart moves the cursor to the start.
func (m *LineMode) MoveToStart() {
	m.cursorPos = 0
}

// MoveToEnd moves the cursor to the end.
func (m *LineMode) MoveToEnd() {
	m.cursorPos = len(m.buffer)
}

// AddToHistory appends a submitted line, skipping empty lines and
// repeats of the newest entry.
func (m *LineMode) AddToHistory(line string) {
	if line == "" {
		return
	}
	if len(m.history) > 0 && m.history[len(m.history)-1] == line {
		return
	}
	m.history = append(m.history, line)
}

// HistoryPrev moves to the previous history entry.
func (m *LineMode) HistoryPrev() bool {
	if len(m.history) == 0 {
		return false
	}

	switch {
	case m.historyIndex == -1:
		m.savedBuffer = append([]rune(nil), m.buffer...)
		m.historyIndex = len(m.history) - 1
	case m.historyIndex > 0:
		m.historyIndex--
	default:
		return false
	}

	m.SetBuffer(m.history[m.historyIndex])
	return true
}

// HistoryNext moves to the next history entry, and back to the line being
// typed past the newest one.
func (m *LineMode) HistoryNext() bool {
	if m.historyIndex == -1 {
		return false
	}

	m.historyIndex++
	if m.historyIndex < len(m.history) {
		m.SetBuffer(m.history[m.historyIndex])
		return true
	}
	m.historyIndex = -1
	m.buffer = m.savedBuffer
	m.cursorPos = len(m.buffer)
	m.savedBuffer = nil
	return true
}

// submitLine returns to normal mode and runs the typed line as a host
// operation. The line is kept in a read-only register.
type submitLine struct {
	Text      string
	Register  rune
	Operation string
}

func (c submitLine) Execute(ctx vim.Context) error {
	if c.Text != "" {
		ctx.Registers().SetReadOnly(c.Register, c.Text)
	}
	if err := ctx.ChangeMode(ModeNormal, vim.ModeHint{}); err != nil {
		return err
	}
	if c.Text == "" {
		return nil
	}
	return ctx.Editor().Execute(c.Operation + c.Text)
}

func (c submitLine) WithCount(int) vim.Command { return c }

func (submitLine) Count() int { return 0 }

func (submitLine) Repetition() vim.Command { return nil }
