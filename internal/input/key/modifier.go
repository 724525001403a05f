package key

import "strings"

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key. It is never set on character
	// events: the case of the rune already carries it.
	ModShift Modifier = 1 << (iota - 1)

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS).
	ModMeta
)

// Has returns true if m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a copy of m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a copy of m with mod removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// String returns the Vim prefix form, e.g. "C-A-".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var sb strings.Builder
	if m.Has(ModCtrl) {
		sb.WriteString("C-")
	}
	if m.Has(ModAlt) {
		sb.WriteString("A-")
	}
	if m.Has(ModShift) {
		sb.WriteString("S-")
	}
	if m.Has(ModMeta) {
		sb.WriteString("D-")
	}
	return sb.String()
}

var modifierNameMap = map[string]Modifier{
	"c":       ModCtrl,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"a":       ModAlt,
	"alt":     ModAlt,
	"m":       ModAlt, // Vim: <M-x> is Alt
	"opt":     ModAlt,
	"option":  ModAlt,
	"s":       ModShift,
	"shift":   ModShift,
	"d":       ModMeta,
	"cmd":     ModMeta,
	"meta":    ModMeta,
	"super":   ModMeta,
}

// ModifierFromName returns the modifier for a name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	return modifierNameMap[strings.ToLower(strings.TrimSpace(name))]
}
