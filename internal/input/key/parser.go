package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a single keystroke specification.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Vim notation: "<C-s>", "<A-f>", "<S-Left>", "<CR>", "<Esc>", "<lt>"
//   - Modifier+key: "Ctrl+S", "Alt+F4"
//   - Bare key names: "Enter", "Escape", "Space"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return Rune(r), nil
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseKeyWithModifiers(spec, ModNone)
}

// parseVimStyle parses the inside of "<...>", e.g. "C-s" or "S-Left".
func parseVimStyle(inner string) (Event, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Event{}, ErrInvalidSpec
	}

	// "<C-->" binds Ctrl with the minus key.
	var mods Modifier
	for len(inner) > 2 && inner[1] == '-' {
		mod := ModifierFromName(inner[:1])
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, inner[:1])
		}
		mods = mods.With(mod)
		inner = inner[2:]
	}
	return parseKeyWithModifiers(inner, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Event, error) {
	parts := strings.Split(spec, "+")
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKeyWithModifiers(parts[len(parts)-1], mods)
}

func parseKeyWithModifiers(keyPart string, mods Modifier) (Event, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}

	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		return NewEvent(KeyRune, r, mods), nil
	}

	lower := strings.ToLower(keyPart)
	if r, ok := runeNameMap[lower]; ok {
		return NewEvent(KeyRune, r, mods), nil
	}
	if k := KeyFromName(lower); k != KeyNone {
		return Special(k, mods), nil
	}
	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// Sequence is a run of keystrokes, such as "d2w" or "<C-r>".
type Sequence []Event

// String returns the sequence in Vim notation.
func (s Sequence) String() string {
	var sb strings.Builder
	for _, e := range s {
		sb.WriteString(e.String())
	}
	return sb.String()
}

// ParseSequence parses a continuous Vim-style key sequence.
// Each character is one keystroke and "<...>" groups name a single key.
// A "<" with no closing ">" is taken literally.
// Examples: "gg", "d2w", "<C-r>", "ci<lt>", "3ifoo<Esc>".
func ParseSequence(s string) (Sequence, error) {
	var seq Sequence
	for len(s) > 0 {
		if s[0] == '<' {
			if end := strings.IndexByte(s, '>'); end > 1 {
				e, err := Parse(s[:end+1])
				if err == nil {
					seq = append(seq, e)
					s = s[end+1:]
					continue
				}
				if !errors.Is(err, ErrInvalidSpec) {
					return nil, err
				}
				// Fall through: "<" followed by text that is not a key name.
				if strings.ContainsAny(s[1:end], " <") {
					seq = append(seq, Rune('<'))
					s = s[1:]
					continue
				}
				return nil, err
			}
		}
		r, size := utf8.DecodeRuneInString(s)
		seq = append(seq, Rune(r))
		s = s[size:]
	}
	return seq, nil
}

// MustParseSequence parses a sequence and panics on error.
// Use only for known-valid sequences in initialization code.
func MustParseSequence(s string) Sequence {
	seq, err := ParseSequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return seq
}
