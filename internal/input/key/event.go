package key

import (
	"fmt"
	"unicode"
)

// Event is a single keystroke: a key plus the modifiers held with it.
//
// Events are plain comparable values and can be used as map keys. Construct
// them with Rune, Special or Ctrl so that the Shift modifier is normalised:
// for characters the case of the rune already says whether Shift was held.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// Rune returns the event for typing character r with no modifiers.
func Rune(r rune) Event {
	return NewEvent(KeyRune, r, ModNone)
}

// Special returns the event for a special key.
func Special(k Key, mods Modifier) Event {
	return NewEvent(k, 0, mods)
}

// Ctrl returns the event for Ctrl held with character r.
func Ctrl(r rune) Event {
	return NewEvent(KeyRune, r, ModCtrl)
}

// NewEvent builds a normalised event.
func NewEvent(k Key, r rune, mods Modifier) Event {
	if k != KeyRune {
		return Event{Key: k, Modifiers: mods}
	}
	if r == 0 {
		return Event{}
	}
	mods = mods.Without(ModShift)
	if mods.Has(ModCtrl) {
		// <C-R> and <C-r> are the same keystroke.
		r = unicode.ToLower(r)
	}
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// IsZero returns true for the zero event.
func (e Event) IsZero() bool {
	return e == Event{}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsModified returns true if Ctrl, Alt or Meta is held.
func (e Event) IsModified() bool {
	return e.Modifiers.Without(ModShift) != ModNone
}

// IsPrintable returns true if the event types a printable character.
func (e Event) IsPrintable() bool {
	return e.IsRune() && !e.IsModified() && unicode.IsPrint(e.Rune)
}

// Digit returns the decimal value of an unmodified digit key.
func (e Event) Digit() (int, bool) {
	if e.IsRune() && !e.IsModified() && e.Rune >= '0' && e.Rune <= '9' {
		return int(e.Rune - '0'), true
	}
	return 0, false
}

// Is reports whether e is the unmodified character r.
func (e Event) Is(r rune) bool {
	return e.Key == KeyRune && e.Rune == r && e.Modifiers == ModNone
}

// IsEscape returns true if this is the Escape key or its Vim alias <C-[>.
func (e Event) IsEscape() bool {
	return (e.Key == KeyEscape && e.Modifiers == ModNone) ||
		(e.Key == KeyRune && e.Rune == '[' && e.Modifiers == ModCtrl)
}

// String returns the Vim notation of the event.
// Examples: "a", "A", "<Space>", "<C-r>", "<Esc>", "<S-Left>".
func (e Event) String() string {
	switch {
	case e.IsZero():
		return "<None>"
	case e.Key == KeyRune && !e.IsModified():
		switch e.Rune {
		case ' ':
			return "<Space>"
		case '<':
			return "<lt>"
		}
		return string(e.Rune)
	case e.Key == KeyRune:
		name := string(e.Rune)
		if e.Rune == ' ' {
			name = "Space"
		}
		return "<" + e.Modifiers.String() + name + ">"
	default:
		return "<" + e.Modifiers.String() + e.Key.String() + ">"
	}
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("key.Event{Key: %s, Rune: %q, Modifiers: %q}",
		e.Key, e.Rune, e.Modifiers.String())
}
