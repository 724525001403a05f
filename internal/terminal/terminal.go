// Package terminal draws the buffer and status line of the interpreter on
// a tcell screen and turns terminal input into key events.
package terminal

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/modalkeys/internal/input"
	"github.com/dshills/modalkeys/internal/input/editor"
)

// View is everything drawn in one frame.
type View struct {
	// Text is the buffer content.
	Text string

	// Cursor is the caret's byte offset in Text.
	Cursor int

	// Caret is the caret shape.
	Caret editor.Caret

	// Selection is highlighted when active.
	Selection editor.Selection

	// Status describes the handler.
	Status input.Status

	// Prompt is the command-line prompt, or 0 when no command line is open.
	Prompt rune

	// Line is the command-line text and LineCursor the rune index of its
	// cursor.
	Line       string
	LineCursor int

	// Message is shown on the status line when no command line is open.
	Message string
}

// Terminal draws views on a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// New creates a terminal on the controlling tty.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewWithScreen creates a terminal drawing on screen.
func NewWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init initializes the screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size returns the screen size in cells.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Sync redraws the whole screen, after a resize for instance.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Sync()
}

// PollEvent waits for the next terminal event. It returns nil once the
// screen is shut down.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Interrupt wakes PollEvent with an interrupt event carrying data.
func (t *Terminal) Interrupt(data any) {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(data)) // the queue may be full
}

// Draw renders v and shows it.
func (t *Terminal) Draw(v View) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	width, height := t.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}

	cx, cy := t.drawText(v, width, height-1)
	if v.Prompt != 0 {
		cx, cy = t.drawCommandLine(v, width, height-1)
	} else {
		t.drawStatus(v, width, height-1)
	}

	t.screen.SetCursorStyle(cursorStyle(v.Caret))
	t.screen.ShowCursor(cx, cy)
	t.screen.Show()
}

// drawText draws the lines of the buffer in rows [0, rows) scrolled so the
// cursor line is visible, and returns the cursor cell.
func (t *Terminal) drawText(v View, width, rows int) (int, int) {
	text := editor.Text(v.Text)
	var sel editor.Span
	if v.Selection.Active {
		sel = v.Selection.Span(text)
	}

	top := 0
	if cursorLine := strings.Count(v.Text[:min(v.Cursor, len(v.Text))], "\n"); cursorLine >= rows {
		top = cursorLine - rows + 1
	}

	cx, cy := 0, 0
	for n := top; n < top+rows; n++ {
		line, ok := text.LineByNumber(n)
		if !ok {
			break
		}
		y := n - top
		x := 0
		off := line.Start
		gr := uniseg.NewGraphemes(v.Text[line.Start:line.End])
		for gr.Next() {
			if off == v.Cursor {
				cx, cy = x, y
			}
			runes := gr.Runes()
			w := max(gr.Width(), 1)
			if x+w <= width {
				style := tcell.StyleDefault
				if off >= sel.Start && off < sel.End {
					style = style.Reverse(true)
				}
				if runes[0] == '\t' {
					runes = []rune{' '}
				}
				t.screen.SetContent(x, y, runes[0], runes[1:], style)
			}
			x += w
			off += len(gr.Str())
		}
		if v.Cursor == line.End {
			cx, cy = min(x, width-1), y
		}
	}
	return cx, cy
}

func (t *Terminal) drawStatus(v View, width, y int) {
	left := v.Message
	if left == "" {
		left = fmt.Sprintf("-- %s --", v.Status.DisplayName)
		if v.Status.Recording != 0 {
			left += fmt.Sprintf(" recording @%c", v.Status.Recording)
		}
	}
	t.putString(0, y, width, left, tcell.StyleDefault.Bold(true))

	if pending := v.Status.PendingKeys; pending != "" {
		x := width - uniseg.StringWidth(pending) - 1
		if x > uniseg.StringWidth(left) {
			t.putString(x, y, width, pending, tcell.StyleDefault)
		}
	}
}

// drawCommandLine draws the prompt and line, and returns the cursor cell.
func (t *Terminal) drawCommandLine(v View, width, y int) (int, int) {
	t.putString(0, y, width, string(v.Prompt)+v.Line, tcell.StyleDefault)
	runes := []rune(v.Line)
	pos := min(max(v.LineCursor, 0), len(runes))
	return min(1+uniseg.StringWidth(string(runes[:pos])), width-1), y
}

func (t *Terminal) putString(x, y, width int, s string, style tcell.Style) {
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w := max(gr.Width(), 1)
		if x+w > width {
			return
		}
		runes := gr.Runes()
		t.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
}

func cursorStyle(c editor.Caret) tcell.CursorStyle {
	switch c {
	case editor.CaretBar:
		return tcell.CursorStyleSteadyBar
	case editor.CaretUnderline:
		return tcell.CursorStyleSteadyUnderline
	default:
		return tcell.CursorStyleSteadyBlock
	}
}
