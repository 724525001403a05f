package vim

import (
	"errors"
	"testing"

	"github.com/dshills/modalkeys/internal/input/editor"
)

func TestMotions(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  int
		keys string
		want int
	}{
		{"w", "one two three", 0, "w", 4},
		{"2w", "one two three", 0, "2w", 8},
		{"w punctuation", "foo.bar", 0, "w", 3},
		{"W skips punctuation", "foo.bar baz", 0, "W", 8},
		{"w across lines", "one\ntwo", 0, "w", 4},
		{"w stops on empty line", "one\n\ntwo", 0, "w", 4},
		{"e", "one two", 0, "e", 2},
		{"e from end of word", "one two", 2, "e", 6},
		{"b", "one two three", 8, "b", 4},
		{"2b", "one two three", 8, "2b", 0},
		{"ge", "one two", 5, "ge", 2},
		{"0", "one two", 5, "0", 0},
		{"^", "  foo", 4, "^", 2},
		{"$", "hello world", 0, "$", 10},
		{"2$", "ab\ncd", 0, "2$", 4},
		{"l stops at last char", "ab", 1, "l", 1},
		{"h stops at line start", "ab\ncd", 3, "h", 3},
		{"3l", "abcdef", 0, "3l", 3},
		{"3l then jj keeps column", "abcd\nxy\nabcd", 0, "3ljj", 11},
		{"G", "a\nb\n  c", 0, "G", 6},
		{"gg", "a\nb\nc", 4, "gg", 0},
		{"2G", "a\nb\nc", 0, "2G", 2},
		{"fo", "hello world", 0, "fo", 4},
		{"2fo", "hello world", 0, "2fo", 7},
		{"to", "hello world", 0, "to", 3},
		{"Fo", "hello world", 10, "Fo", 7},
		{"To", "hello world", 10, "To", 8},
		{"}", "a\nb\n\nc", 0, "}", 4},
		{"{", "a\n\nb\nc", 5, "{", 2},
		{"arrow keys", "ab\ncd", 0, "<Right><Down>", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(tt.text, tt.pos)
			c.press(t, tt.keys)
			if got := c.buf.Position(); got != tt.want {
				t.Errorf("%q from %d on %q = %d, want %d", tt.keys, tt.pos, tt.text, got, tt.want)
			}
		})
	}
}

func TestMotionErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  int
		keys string
		want error
	}{
		{"f without match", "hello", 0, "fz", ErrNotFound},
		{"F at line start", "hello", 0, "Fh", ErrNotFound},
		{"k on first line", "ab\ncd", 0, "k", ErrOutOfBounds},
		{"j on last line", "ab\ncd", 3, "j", ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(tt.text, tt.pos)
			err := c.tryPress(tt.keys)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if got := c.buf.Position(); got != tt.pos {
				t.Errorf("position moved to %d on failure", got)
			}
		})
	}
}

func TestDollarSticksToLineEnd(t *testing.T) {
	c := newTestContext("short\nmuch longer line\nxy", 0)
	c.press(t, "$j")
	if got := c.buf.Position(); got != 21 {
		t.Errorf("$j = %d, want 21", got)
	}
	c.press(t, "j")
	if got := c.buf.Position(); got != 24 {
		t.Errorf("$jj = %d, want 24", got)
	}
	if !c.col.EOL {
		t.Error("column should stick to the line end")
	}
}

func TestMotionRegion(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		from, to int
		border   Border
		want     Region
	}{
		{
			name: "exclusive",
			text: "abcdef", from: 1, to: 4, border: Exclusive,
			want: Region{Span: editor.Span{Start: 1, End: 4}},
		},
		{
			name: "exclusive backwards",
			text: "abcdef", from: 4, to: 1, border: Exclusive,
			want: Region{Span: editor.Span{Start: 1, End: 4}},
		},
		{
			name: "inclusive",
			text: "abcdef", from: 1, to: 4, border: Inclusive,
			want: Region{Span: editor.Span{Start: 1, End: 5}},
		},
		{
			name: "linewise",
			text: "ab\ncd\nef", from: 1, to: 4, border: Linewise,
			want: Region{Span: editor.Span{Start: 0, End: 5}, Linewise: true},
		},
		{
			name: "exclusive at next line start from mid line",
			text: "ab\ncd", from: 1, to: 3, border: Exclusive,
			want: Region{Span: editor.Span{Start: 1, End: 2}},
		},
		{
			name: "exclusive at next line start from first non-blank",
			text: "  ab\ncd", from: 2, to: 5, border: Exclusive,
			want: Region{Span: editor.Span{Start: 0, End: 4}, Linewise: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := motionRegion(editor.Text(tt.text), tt.from, tt.to, tt.border)
			if got != tt.want {
				t.Errorf("motionRegion = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBorderString(t *testing.T) {
	tests := []struct {
		border Border
		want   string
	}{
		{Exclusive, "exclusive"},
		{Inclusive, "inclusive"},
		{Linewise, "linewise"},
		{Border(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.border.String(); got != tt.want {
			t.Errorf("Border(%d).String() = %q, want %q", tt.border, got, tt.want)
		}
	}
}
