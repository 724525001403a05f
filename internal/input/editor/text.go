package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Text is an immutable snapshot of document content with line and grapheme
// helpers. Lines are separated by '\n'; offsets are byte offsets.
type Text string

// Snapshot reads the whole content of c.
func Snapshot(c Content) (Text, error) {
	s, err := c.Text(0, c.Len())
	return Text(s), err
}

// Line describes one line of text. End is the offset of the terminating
// newline, or the end of the text for the last line.
type Line struct {
	Number     int
	Start, End int
}

// Len returns the line length in bytes, excluding the newline.
func (l Line) Len() int {
	return l.End - l.Start
}

// IsEmpty returns true for a line with no characters.
func (l Line) IsEmpty() bool {
	return l.End == l.Start
}

func (t Text) clamp(off int) int {
	if off < 0 {
		return 0
	}
	if off > len(t) {
		return len(t)
	}
	return off
}

// LineAt returns the line containing off. A newline belongs to the line
// it terminates.
func (t Text) LineAt(off int) Line {
	off = t.clamp(off)
	start := strings.LastIndexByte(string(t[:off]), '\n') + 1
	end := len(t)
	if i := strings.IndexByte(string(t[off:]), '\n'); i >= 0 {
		end = off + i
	}
	return Line{
		Number: strings.Count(string(t[:start]), "\n"),
		Start:  start,
		End:    end,
	}
}

// LineByNumber returns the zero-based line n.
func (t Text) LineByNumber(n int) (Line, bool) {
	if n < 0 {
		return Line{}, false
	}
	start := 0
	for i := 0; i < n; i++ {
		j := strings.IndexByte(string(t[start:]), '\n')
		if j < 0 {
			return Line{}, false
		}
		start += j + 1
	}
	end := len(t)
	if j := strings.IndexByte(string(t[start:]), '\n'); j >= 0 {
		end = start + j
	}
	return Line{Number: n, Start: start, End: end}, true
}

// LineCount returns the number of lines. Empty text has one empty line.
func (t Text) LineCount() int {
	return strings.Count(string(t), "\n") + 1
}

// Slice returns the text of s.
func (t Text) Slice(s Span) string {
	s = s.Normalize()
	return string(t[t.clamp(s.Start):t.clamp(s.End)])
}

// RuneAt decodes the rune at off. It returns utf8.RuneError and 0 at the end.
func (t Text) RuneAt(off int) (rune, int) {
	if off < 0 || off >= len(t) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(string(t[off:]))
}

// NextGrapheme returns the offset just past the grapheme cluster at off.
func (t Text) NextGrapheme(off int) int {
	off = t.clamp(off)
	if off == len(t) {
		return off
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(string(t[off:]), -1)
	if cluster == "" {
		return off + 1
	}
	return off + len(cluster)
}

// PrevGrapheme returns the offset of the grapheme cluster ending at off.
func (t Text) PrevGrapheme(off int) int {
	off = t.clamp(off)
	if off == 0 {
		return 0
	}
	p := t.LineAt(off - 1).Start
	last := p
	for p < off {
		last = p
		p = t.NextGrapheme(p)
	}
	return last
}

// LastChar returns the offset of the last character of l, or l.Start for an
// empty line.
func (t Text) LastChar(l Line) int {
	if l.IsEmpty() {
		return l.Start
	}
	return t.PrevGrapheme(l.End)
}

// FirstNonBlank returns the offset of the first character of l that is not
// a space or tab, or l.End when the line is blank.
func (t Text) FirstNonBlank(l Line) int {
	for p := l.Start; p < l.End; p++ {
		if t[p] != ' ' && t[p] != '\t' {
			return p
		}
	}
	return l.End
}

// Column returns the number of grapheme clusters between the start of the
// line containing off and off.
func (t Text) Column(off int) int {
	off = t.clamp(off)
	col := 0
	for p := t.LineAt(off).Start; p < off; p = t.NextGrapheme(p) {
		col++
	}
	return col
}

// OffsetAtColumn returns the offset col graphemes into l, clamped to the
// line's last character. With past set, the line end itself is allowed.
func (t Text) OffsetAtColumn(l Line, col int, past bool) int {
	p := l.Start
	for i := 0; i < col && p < l.End; i++ {
		p = t.NextGrapheme(p)
	}
	if p >= l.End && !past {
		return t.LastChar(l)
	}
	return p
}
