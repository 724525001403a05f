package macro

import "unicode"

// IsValidRegister returns true if r can hold a macro: a lower-case letter
// or a digit.
func IsValidRegister(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// IsAppendRegister returns true if r is an uppercase letter (A-Z).
// Recording into it appends to the corresponding lowercase register.
func IsAppendRegister(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// NormalizeRegister converts a register to its canonical form.
// Uppercase letters are converted to lowercase. Invalid registers return 0.
func NormalizeRegister(r rune) rune {
	if IsAppendRegister(r) {
		return unicode.ToLower(r)
	}
	if IsValidRegister(r) {
		return r
	}
	return 0
}
