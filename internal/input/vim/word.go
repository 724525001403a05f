package vim

import (
	"unicode"

	"github.com/dshills/modalkeys/internal/input/editor"
)

type charClass uint8

const (
	classBlank charClass = iota
	classPunct
	classWord
)

// classAt classifies the character at off. Big words treat every non-blank
// character alike. The end of the text counts as blank.
func classAt(t editor.Text, off int, big bool) charClass {
	r, size := t.RuneAt(off)
	if size == 0 || unicode.IsSpace(r) {
		return classBlank
	}
	if big || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		return classWord
	}
	return classPunct
}

// isEmptyLineAt reports whether off is the newline of an empty line.
func isEmptyLineAt(t editor.Text, off int) bool {
	return off < len(t) && t[off] == '\n' && (off == 0 || t[off-1] == '\n')
}

// nextWordStart returns the start of the word after the one at p.
// An empty line counts as a word.
func nextWordStart(t editor.Text, p int, big bool) int {
	n := len(t)
	if p >= n {
		return n
	}
	if c := classAt(t, p, big); c != classBlank {
		for p < n && classAt(t, p, big) == c {
			p = t.NextGrapheme(p)
		}
	}
	for p < n && classAt(t, p, big) == classBlank {
		if t[p] == '\n' {
			p++
			if isEmptyLineAt(t, p) {
				return p
			}
			continue
		}
		p = t.NextGrapheme(p)
	}
	return p
}

// nextWordEnd returns the last character of the word ending after p.
func nextWordEnd(t editor.Text, p int, big bool) int {
	n := len(t)
	p = t.NextGrapheme(p)
	for p < n && classAt(t, p, big) == classBlank {
		p = t.NextGrapheme(p)
	}
	if p >= n {
		return t.PrevGrapheme(n)
	}
	c := classAt(t, p, big)
	for {
		q := t.NextGrapheme(p)
		if q >= n || classAt(t, q, big) != c {
			return p
		}
		p = q
	}
}

// prevWordStart returns the start of the word before p.
func prevWordStart(t editor.Text, p int, big bool) int {
	if p <= 0 {
		return 0
	}
	p = t.PrevGrapheme(p)
	for p > 0 && classAt(t, p, big) == classBlank {
		if isEmptyLineAt(t, p) {
			return p
		}
		p = t.PrevGrapheme(p)
	}
	c := classAt(t, p, big)
	for p > 0 {
		q := t.PrevGrapheme(p)
		if classAt(t, q, big) != c {
			break
		}
		p = q
	}
	return p
}

// prevWordEnd returns the last character of the word before the one at p.
func prevWordEnd(t editor.Text, p int, big bool) int {
	if c := classAt(t, p, big); c != classBlank {
		for p > 0 && classAt(t, p, big) == c {
			p = t.PrevGrapheme(p)
		}
		if classAt(t, p, big) == c {
			return 0
		}
	}
	for p > 0 && classAt(t, p, big) == classBlank {
		if isEmptyLineAt(t, p) {
			return p
		}
		p = t.PrevGrapheme(p)
	}
	return p
}

// runStart returns the first character of the run of same-class characters
// containing p, without crossing line boundaries.
func runStart(t editor.Text, p int, big bool) int {
	line := t.LineAt(p)
	c := classAt(t, p, big)
	for p > line.Start {
		q := t.PrevGrapheme(p)
		if classAt(t, q, big) != c {
			break
		}
		p = q
	}
	return p
}

// runEnd returns the last character of the run containing p, without
// crossing line boundaries.
func runEnd(t editor.Text, p int, big bool) int {
	line := t.LineAt(p)
	c := classAt(t, p, big)
	for {
		q := t.NextGrapheme(p)
		if q >= line.End || classAt(t, q, big) != c {
			return p
		}
		p = q
	}
}
