package key

import "testing"

func TestNewEventNormalisesShift(t *testing.T) {
	tests := []struct {
		name string
		in   Event
		want Event
	}{
		{"lowercase", NewEvent(KeyRune, 'a', ModNone), Event{Key: KeyRune, Rune: 'a'}},
		{"uppercase drops shift", NewEvent(KeyRune, 'A', ModShift), Event{Key: KeyRune, Rune: 'A'}},
		{"ctrl lowers letter", NewEvent(KeyRune, 'R', ModCtrl|ModShift), Event{Key: KeyRune, Rune: 'r', Modifiers: ModCtrl}},
		{"special keeps shift", NewEvent(KeyLeft, 'x', ModShift), Event{Key: KeyLeft, Modifiers: ModShift}},
		{"zero rune", NewEvent(KeyRune, 0, ModCtrl), Event{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.in != tt.want {
				t.Errorf("got %#v, want %#v", tt.in, tt.want)
			}
		})
	}
}

func TestEventComparable(t *testing.T) {
	m := map[Event]string{Rune('x'): "x", Ctrl('r'): "redo"}
	if m[NewEvent(KeyRune, 'R', ModCtrl)] != "redo" {
		t.Error("Ctrl-R should hit the <C-r> entry")
	}
	if _, ok := m[Rune('X')]; ok {
		t.Error("X and x must be distinct keys")
	}
}

func TestEventDigit(t *testing.T) {
	tests := []struct {
		event Event
		want  int
		ok    bool
	}{
		{Rune('0'), 0, true},
		{Rune('7'), 7, true},
		{Rune('a'), 0, false},
		{Ctrl('1'), 0, false},
		{Special(KeyEnter, ModNone), 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.event.Digit()
		if got != tt.want || ok != tt.ok {
			t.Errorf("%v.Digit() = %d, %v; want %d, %v", tt.event, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEventPredicates(t *testing.T) {
	if !Special(KeyEscape, ModNone).IsEscape() {
		t.Error("Esc should be escape")
	}
	if !Ctrl('[').IsEscape() {
		t.Error("<C-[> should be escape")
	}
	if Rune('[').IsEscape() {
		t.Error("[ is not escape")
	}
	if !Rune(' ').IsPrintable() {
		t.Error("space is printable")
	}
	if Ctrl('a').IsPrintable() {
		t.Error("<C-a> is not printable")
	}
	if !Rune('d').Is('d') || Ctrl('d').Is('d') {
		t.Error("Is must only match the unmodified character")
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Rune('a'), "a"},
		{Rune('A'), "A"},
		{Rune(' '), "<Space>"},
		{Rune('<'), "<lt>"},
		{Ctrl('r'), "<C-r>"},
		{Special(KeyEscape, ModNone), "<Esc>"},
		{Special(KeyEnter, ModNone), "<CR>"},
		{Special(KeyLeft, ModShift), "<S-Left>"},
		{NewEvent(KeyRune, 'x', ModAlt), "<A-x>"},
		{Event{}, "<None>"},
	}
	for _, tt := range tests {
		if got := tt.event.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
