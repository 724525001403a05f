package terminal

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/modalkeys/internal/input"
	"github.com/dshills/modalkeys/internal/input/editor"
)

func newSimTerminal(t *testing.T, width, height int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(term.Shutdown)
	screen.SetSize(width, height)
	return term, screen
}

// row returns the runes of row y with trailing blanks trimmed.
func row(screen tcell.SimulationScreen, y int) string {
	width, _ := screen.Size()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestDrawTextAndStatus(t *testing.T) {
	term, screen := newSimTerminal(t, 20, 4)

	term.Draw(View{
		Text:   "one\ntwo",
		Cursor: 5,
		Status: input.Status{DisplayName: "NORMAL", PendingKeys: "d2"},
	})

	if got := row(screen, 0); got != "one" {
		t.Errorf("row 0 = %q, want %q", got, "one")
	}
	if got := row(screen, 1); got != "two" {
		t.Errorf("row 1 = %q, want %q", got, "two")
	}
	if got := row(screen, 3); !strings.HasPrefix(got, "-- NORMAL --") || !strings.HasSuffix(got, "d2") {
		t.Errorf("status = %q, want mode and pending keys", got)
	}
	x, y, visible := screen.GetCursor()
	if x != 1 || y != 1 || !visible {
		t.Errorf("cursor = (%d, %d, %t), want (1, 1, true)", x, y, visible)
	}
}

func TestDrawScrolls(t *testing.T) {
	term, screen := newSimTerminal(t, 10, 3)

	text := "a\nb\nc\nd"
	term.Draw(View{Text: text, Cursor: strings.LastIndex(text, "d")})

	if got := row(screen, 0); got != "c" {
		t.Errorf("row 0 = %q, want %q", got, "c")
	}
	if got := row(screen, 1); got != "d" {
		t.Errorf("row 1 = %q, want %q", got, "d")
	}
}

func TestDrawSelection(t *testing.T) {
	term, screen := newSimTerminal(t, 10, 2)

	term.Draw(View{
		Text:      "abcd",
		Cursor:    2,
		Selection: editor.Selection{Anchor: 1, Head: 2, Active: true},
	})

	for x, want := range []bool{false, true, true, false} {
		_, _, style, _ := screen.GetContent(x, 0)
		_, _, attrs := style.Decompose()
		if got := attrs&tcell.AttrReverse != 0; got != want {
			t.Errorf("cell %d reversed = %t, want %t", x, got, want)
		}
	}
}

func TestDrawCommandLine(t *testing.T) {
	term, screen := newSimTerminal(t, 20, 3)

	term.Draw(View{Text: "abc", Prompt: ':', Line: "wq", LineCursor: 1})

	if got := row(screen, 2); got != ":wq" {
		t.Errorf("command line = %q, want %q", got, ":wq")
	}
	x, y, _ := screen.GetCursor()
	if x != 2 || y != 2 {
		t.Errorf("cursor = (%d, %d), want (2, 2)", x, y)
	}
}

func TestDrawRecordingAndMessage(t *testing.T) {
	term, screen := newSimTerminal(t, 40, 2)

	term.Draw(View{Status: input.Status{DisplayName: "INSERT", Recording: 'q'}})
	if got := row(screen, 1); got != "-- INSERT -- recording @q" {
		t.Errorf("status = %q", got)
	}

	term.Draw(View{Message: "written", Status: input.Status{DisplayName: "NORMAL"}})
	if got := row(screen, 1); got != "written" {
		t.Errorf("status = %q, want %q", got, "written")
	}
}

func TestCursorStyle(t *testing.T) {
	tests := []struct {
		caret editor.Caret
		want  tcell.CursorStyle
	}{
		{editor.CaretBlock, tcell.CursorStyleSteadyBlock},
		{editor.CaretBar, tcell.CursorStyleSteadyBar},
		{editor.CaretUnderline, tcell.CursorStyleSteadyUnderline},
	}
	for _, tt := range tests {
		if got := cursorStyle(tt.caret); got != tt.want {
			t.Errorf("cursorStyle(%v) = %v, want %v", tt.caret, got, tt.want)
		}
	}
}
