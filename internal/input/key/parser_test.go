package key

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Event
	}{
		{"a", Rune('a')},
		{"A", Rune('A')},
		{"0", Rune('0')},
		{"<", Rune('<')},
		{"<lt>", Rune('<')},
		{"<Space>", Rune(' ')},
		{"<C-r>", Ctrl('r')},
		{"<C-R>", Ctrl('r')},
		{"<c-]>", Ctrl(']')},
		{"<C-->", Ctrl('-')},
		{"<Esc>", Special(KeyEscape, ModNone)},
		{"<CR>", Special(KeyEnter, ModNone)},
		{"<BS>", Special(KeyBackspace, ModNone)},
		{"<S-Left>", Special(KeyLeft, ModShift)},
		{"<C-S-F5>", Special(KeyF5, ModCtrl|ModShift)},
		{"<A-x>", NewEvent(KeyRune, 'x', ModAlt)},
		{"Ctrl+S", Ctrl('s')},
		{"Alt+F4", Special(KeyF4, ModAlt)},
		{"Enter", Special(KeyEnter, ModNone)},
		{"escape", Special(KeyEscape, ModNone)},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"", ErrEmptySpec},
		{"   ", ErrEmptySpec},
		{"<>", ErrInvalidSpec},
		{"<Q-x>", ErrInvalidSpec},
		{"<Nope>", ErrInvalidSpec},
		{"Hyper+x", ErrInvalidSpec},
		{"bogus", ErrInvalidSpec},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.spec); !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.spec, err, tt.want)
		}
	}
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		in   string
		want Sequence
	}{
		{"", nil},
		{"gg", Sequence{Rune('g'), Rune('g')}},
		{"d2w", Sequence{Rune('d'), Rune('2'), Rune('w')}},
		{"<C-r>x", Sequence{Ctrl('r'), Rune('x')}},
		{"ci<lt>", Sequence{Rune('c'), Rune('i'), Rune('<')}},
		{"a<b", Sequence{Rune('a'), Rune('<'), Rune('b')}},
		{"3ié<Esc>", Sequence{Rune('3'), Rune('i'), Rune('é'), Special(KeyEscape, ModNone)}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSequence(tt.in)
			if err != nil {
				t.Fatalf("ParseSequence(%q) error = %v", tt.in, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSequence(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %#v, want %#v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSequenceString(t *testing.T) {
	seq := MustParseSequence("d<C-r><Esc> ")
	if got := seq.String(); got != "d<C-r><Esc><Space>" {
		t.Errorf("String() = %q", got)
	}
}
