package vim

import (
	"fmt"

	"github.com/dshills/modalkeys/internal/input/editor"
)

// Border says how an operator treats the end of a motion.
type Border uint8

const (
	// Exclusive motions stop before the target character.
	Exclusive Border = iota

	// Inclusive motions include the target character.
	Inclusive

	// Linewise motions operate on whole lines.
	Linewise
)

// String returns the border name.
func (b Border) String() string {
	switch b {
	case Exclusive:
		return "exclusive"
	case Inclusive:
		return "inclusive"
	case Linewise:
		return "linewise"
	default:
		return "unknown"
	}
}

// DestFunc computes a motion target. count is 0 when no count was given.
type DestFunc func(ctx Context, t editor.Text, from, count int) (int, error)

// Motion is a cursor movement usable on its own or as an operator operand.
type Motion struct {
	// Name identifies the motion, e.g. "word.next".
	Name string

	// Border is the operator border policy.
	Border Border

	// Vertical motions keep the preferred column.
	Vertical bool

	// StickToEOL motions make later vertical motions stay at line ends.
	StickToEOL bool

	dest   DestFunc
	opDest DestFunc
}

// NewMotion creates a motion.
func NewMotion(name string, border Border, dest DestFunc) Motion {
	return Motion{Name: name, Border: border, dest: dest}
}

// Destination returns the target of the motion from offset from.
func (m Motion) Destination(ctx Context, t editor.Text, from, count int) (int, error) {
	if m.dest == nil {
		return from, fmt.Errorf("%w: %s has no destination", ErrOutOfBounds, m.Name)
	}
	return m.dest(ctx, t, from, count)
}

// OperatorDestination returns the target of the motion when it is the
// operand of an operator. Most motions behave the same in both roles.
func (m Motion) OperatorDestination(ctx Context, t editor.Text, from, count int) (int, error) {
	if m.opDest != nil {
		return m.opDest(ctx, t, from, count)
	}
	return m.Destination(ctx, t, from, count)
}

func (m Motion) withOperatorDest(fn DestFunc) Motion {
	m.opDest = fn
	return m
}

func (m Motion) vertical() Motion {
	m.Vertical = true
	return m
}

func (m Motion) stickToEOL() Motion {
	m.StickToEOL = true
	return m
}

// Standard motions.
var (
	MoveLeft  = NewMotion("left", Exclusive, moveLeft)
	MoveRight = NewMotion("right", Exclusive, moveRight)
	MoveUp    = NewMotion("up", Linewise, moveLines(-1)).vertical()
	MoveDown  = NewMotion("down", Linewise, moveLines(1)).vertical()

	WordNext    = NewMotion("word.next", Exclusive, repeatWord(nextWordStart, false)).withOperatorDest(wordNextForOperator(false))
	BigWordNext = NewMotion("bigword.next", Exclusive, repeatWord(nextWordStart, true)).withOperatorDest(wordNextForOperator(true))
	WordPrev    = NewMotion("word.prev", Exclusive, repeatWord(prevWordStart, false))
	BigWordPrev = NewMotion("bigword.prev", Exclusive, repeatWord(prevWordStart, true))
	WordEnd     = NewMotion("word.end", Inclusive, repeatWord(nextWordEnd, false))
	BigWordEnd  = NewMotion("bigword.end", Inclusive, repeatWord(nextWordEnd, true))
	WordEndPrev = NewMotion("word.end.prev", Inclusive, repeatWord(prevWordEnd, false))

	LineStart     = NewMotion("line.start", Exclusive, lineStart)
	LineFirstChar = NewMotion("line.firstNonBlank", Exclusive, firstNonBlank)
	LineEnd       = NewMotion("line.end", Inclusive, lineEnd).stickToEOL()

	// LineEndPast targets the position after the last character, where
	// "A" starts inserting.
	LineEndPast = NewMotion("line.end.past", Exclusive, func(_ Context, t editor.Text, from, _ int) (int, error) {
		return t.LineAt(from).End, nil
	})

	DocumentStart = NewMotion("document.start", Linewise, gotoLine(false))
	DocumentEnd   = NewMotion("document.end", Linewise, gotoLine(true))

	ParagraphNext = NewMotion("paragraph.next", Exclusive, paragraph(true))
	ParagraphPrev = NewMotion("paragraph.prev", Exclusive, paragraph(false))

	// wordEndForChange is "cw" with stupid_cw: it stays on the last
	// character of the current word instead of jumping to the next one.
	wordEndForChange    = NewMotion("word.end.change", Inclusive, changeWordEnd(false))
	bigWordEndForChange = NewMotion("bigword.end.change", Inclusive, changeWordEnd(true))

	// wordObjectStart and the *End motions form the iw and aw text objects.
	wordObjectStart = NewMotion("word.object.start", Inclusive, func(_ Context, t editor.Text, from, _ int) (int, error) {
		return runStart(t, from, false), nil
	})
	innerWordEnd = NewMotion("word.inner.end", Inclusive, wordObjectEnd(false))
	aWordEnd     = NewMotion("word.around.end", Inclusive, wordObjectEnd(true))
)

func moveLeft(_ Context, t editor.Text, from, count int) (int, error) {
	line := t.LineAt(from)
	p := from
	for i := 0; i < atLeastOne(count) && p > line.Start; i++ {
		p = t.PrevGrapheme(p)
	}
	return p, nil
}

func moveRight(_ Context, t editor.Text, from, count int) (int, error) {
	line := t.LineAt(from)
	p := from
	for i := 0; i < atLeastOne(count) && p < line.End; i++ {
		p = t.NextGrapheme(p)
	}
	return p, nil
}

func moveLines(dir int) DestFunc {
	return func(ctx Context, t editor.Text, from, count int) (int, error) {
		cur := t.LineAt(from)
		n := cur.Number + dir*atLeastOne(count)
		if n < 0 {
			n = 0
		}
		if last := t.LineCount() - 1; n > last {
			n = last
		}
		if n == cur.Number {
			return from, ErrOutOfBounds
		}
		target, _ := t.LineByNumber(n)
		col := ctx.Column()
		switch {
		case col.EOL:
			return t.LastChar(target), nil
		case col.Valid:
			return t.OffsetAtColumn(target, col.Col, false), nil
		default:
			return t.OffsetAtColumn(target, t.Column(from), false), nil
		}
	}
}

func repeatWord(step func(editor.Text, int, bool) int, big bool) DestFunc {
	return func(_ Context, t editor.Text, from, count int) (int, error) {
		p := from
		for i := 0; i < atLeastOne(count); i++ {
			p = step(t, p, big)
		}
		return p, nil
	}
}

// wordNextForOperator stops "dw" at the end of the line when the last word
// moved over ends the line, instead of at the first word of the next line.
func wordNextForOperator(big bool) DestFunc {
	return func(_ Context, t editor.Text, from, count int) (int, error) {
		p := from
		for i := 0; i < atLeastOne(count); i++ {
			q := nextWordStart(t, p, big)
			if i == atLeastOne(count)-1 {
				line := t.LineAt(p)
				if !line.IsEmpty() && q > line.End && t.LineAt(q).Number > line.Number {
					q = line.End
				}
			}
			p = q
		}
		return p, nil
	}
}

func changeWordEnd(big bool) DestFunc {
	return func(ctx Context, t editor.Text, from, count int) (int, error) {
		if classAt(t, from, big) == classBlank {
			// Blanks are changed like "dw" would delete them. The motion is
			// inclusive, so stop on the last blank.
			q, err := wordNextForOperator(big)(ctx, t, from, count)
			if err != nil || q <= from {
				return q, err
			}
			return t.PrevGrapheme(q), nil
		}
		p := runEnd(t, from, big)
		for i := 1; i < atLeastOne(count); i++ {
			p = nextWordEnd(t, p, big)
		}
		return p, nil
	}
}

func wordObjectEnd(around bool) DestFunc {
	return func(_ Context, t editor.Text, from, count int) (int, error) {
		p := from
		for i := 0; i < atLeastOne(count); i++ {
			if i > 0 {
				next := t.NextGrapheme(p)
				if next >= t.LineAt(p).End {
					break
				}
				p = next
			}
			startedBlank := classAt(t, p, false) == classBlank
			p = runEnd(t, p, false)
			if !around {
				continue
			}
			// "aw" takes the word and the blanks after it, or the blanks
			// and the word after them.
			next := t.NextGrapheme(p)
			if next < t.LineAt(p).End && (startedBlank || classAt(t, next, false) == classBlank) {
				p = runEnd(t, next, false)
			}
		}
		return p, nil
	}
}

func lineStart(_ Context, t editor.Text, from, _ int) (int, error) {
	return t.LineAt(from).Start, nil
}

func firstNonBlank(_ Context, t editor.Text, from, _ int) (int, error) {
	return firstNonBlankOrLast(t, t.LineAt(from)), nil
}

func lineEnd(_ Context, t editor.Text, from, count int) (int, error) {
	line := t.LineAt(from)
	if count > 1 {
		target, ok := t.LineByNumber(line.Number + count - 1)
		if !ok {
			return from, ErrOutOfBounds
		}
		line = target
	}
	return t.LastChar(line), nil
}

func gotoLine(defaultLast bool) DestFunc {
	return func(_ Context, t editor.Text, _, count int) (int, error) {
		n := 0
		switch {
		case count > 0:
			n = count - 1
		case defaultLast:
			n = t.LineCount() - 1
		}
		if last := t.LineCount() - 1; n > last {
			n = last
		}
		line, _ := t.LineByNumber(n)
		return firstNonBlankOrLast(t, line), nil
	}
}

func paragraph(forward bool) DestFunc {
	return func(_ Context, t editor.Text, from, count int) (int, error) {
		line := t.LineAt(from)
		n := line.Number
		last := t.LineCount() - 1
		for i := 0; i < atLeastOne(count); i++ {
			// Skip blank lines, then stop at the next blank line.
			step := 1
			if !forward {
				step = -1
			}
			for n+step >= 0 && n+step <= last && isBlankLine(t, n+step) {
				n += step
			}
			for n+step >= 0 && n+step <= last && !isBlankLine(t, n+step) {
				n += step
			}
			n += step
			if n < 0 {
				return 0, nil
			}
			if n > last {
				return len(t), nil
			}
		}
		target, _ := t.LineByNumber(n)
		return target.Start, nil
	}
}

func isBlankLine(t editor.Text, n int) bool {
	line, ok := t.LineByNumber(n)
	return ok && line.IsEmpty()
}

// findKind selects the f, F, t and T flavours of a character search.
type findKind uint8

const (
	findForward findKind = iota
	findBackward
	tillForward
	tillBackward
)

// FindChar returns the motion for f<r> (and F, t, T via kind).
func FindChar(kind rune, r rune) Motion {
	var k findKind
	border := Inclusive
	switch kind {
	case 'F':
		k, border = findBackward, Exclusive
	case 't':
		k = tillForward
	case 'T':
		k, border = tillBackward, Exclusive
	default:
		k = findForward
	}
	return NewMotion(fmt.Sprintf("find.%c.%c", kind, r), border, func(_ Context, t editor.Text, from, count int) (int, error) {
		return findInLine(t, from, atLeastOne(count), k, r)
	})
}

func findInLine(t editor.Text, from, count int, k findKind, r rune) (int, error) {
	line := t.LineAt(from)
	forward := k == findForward || k == tillForward
	p := from
	for found := 0; found < count; {
		if forward {
			p = t.NextGrapheme(p)
			if p >= line.End {
				return from, ErrNotFound
			}
		} else {
			if p <= line.Start {
				return from, ErrNotFound
			}
			p = t.PrevGrapheme(p)
		}
		if c, _ := t.RuneAt(p); c == r {
			found++
		}
	}
	switch k {
	case tillForward:
		p = t.PrevGrapheme(p)
	case tillBackward:
		p = t.NextGrapheme(p)
	}
	return p, nil
}
