package vim

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/modalkeys/internal/input/editor"
)

// Operator transforms a region of text.
type Operator interface {
	// Name identifies the operator, e.g. "delete".
	Name() string

	// Apply performs the operation on r.
	Apply(ctx Context, r Region) error

	// Repetition returns the operator replayed by dot-repeat, or nil when
	// the operator is not repeatable.
	Repetition() Operator

	// NextMode returns the mode to enter after applying, or "" to stay.
	NextMode() string
}

// Delete removes the region, storing it in a register.
type Delete struct{}

// Change removes the region and enters insert mode. Linewise regions keep
// an empty line to type into.
type Change struct {
	stay bool
}

// Yank copies the region into a register.
type Yank struct{}

// NamedOperator selects the region and runs a named host operation on it,
// e.g. "indent" or "toggle.comment".
type NamedOperator struct {
	Operation string
}

// CaseOperator changes the letter case of the region.
type CaseOperator struct {
	Mode CaseMode
}

// CaseMode selects the case conversion.
type CaseMode uint8

const (
	CaseLower CaseMode = iota
	CaseUpper
	CaseSwap
)

// Standard operators.
var (
	OpDelete        Operator = Delete{}
	OpChange        Operator = Change{}
	OpYank          Operator = Yank{}
	OpIndent        Operator = NamedOperator{Operation: "indent"}
	OpShiftRight    Operator = NamedOperator{Operation: "shift.right"}
	OpShiftLeft     Operator = NamedOperator{Operation: "shift.left"}
	OpToggleComment Operator = NamedOperator{Operation: "toggle.comment"}
	OpLowerCase     Operator = CaseOperator{Mode: CaseLower}
	OpUpperCase     Operator = CaseOperator{Mode: CaseUpper}
	OpSwapCase      Operator = CaseOperator{Mode: CaseSwap}
)

// regionText returns the register content for r.
func regionText(t editor.Text, r Region) Register {
	return Register{Text: t.Slice(r.Span), Linewise: r.Linewise}
}

// firstNonBlankOrLast is the first non-blank of line, or its last
// character when the line is blank.
func firstNonBlankOrLast(t editor.Text, line editor.Line) int {
	if p := t.FirstNonBlank(line); p < line.End {
		return p
	}
	return t.LastChar(line)
}

// deletionSpan extends a linewise region over one newline so that whole
// lines disappear.
func deletionSpan(t editor.Text, r Region) editor.Span {
	s := r.Span
	if !r.Linewise {
		return s
	}
	switch {
	case s.End < len(t):
		s.End++
	case s.Start > 0:
		s.Start--
	}
	return s
}

func (Delete) Name() string { return "delete" }

func (d Delete) Repetition() Operator { return d }

func (Delete) NextMode() string { return "" }

// Apply implements Operator. An empty characterwise region, as "x" on an
// empty line, fails with ErrOutOfBounds and leaves the registers alone.
func (Delete) Apply(ctx Context, r Region) error {
	if !r.Linewise && r.IsEmpty() {
		return fmt.Errorf("%w: nothing to delete", ErrOutOfBounds)
	}
	t, err := snapshot(ctx)
	if err != nil {
		return err
	}
	reg := regionText(t, r)
	multiline := strings.Contains(reg.Text, "\n")
	if err := ctx.Registers().Delete(ctx.Register(), reg, multiline); err != nil {
		return err
	}
	span := deletionSpan(t, r)
	h := ctx.Editor()
	if err := h.Replace(span.Start, span.End, ""); err != nil {
		return err
	}
	after, err := snapshot(ctx)
	if err != nil {
		return err
	}
	if r.Linewise {
		h.SetPosition(firstNonBlankOrLast(after, after.LineAt(span.Start)), false)
		return nil
	}
	placeCaret(h, after, r.Start, false)
	return nil
}

func (Change) Name() string { return "change" }

func (c Change) Repetition() Operator { return Change{stay: true} }

func (c Change) NextMode() string {
	if c.stay {
		return ""
	}
	return ModeInsert
}

// Apply implements Operator.
func (Change) Apply(ctx Context, r Region) error {
	t, err := snapshot(ctx)
	if err != nil {
		return err
	}
	reg := regionText(t, r)
	if r.Linewise || !r.IsEmpty() {
		if err := ctx.Registers().Delete(ctx.Register(), reg, strings.Contains(reg.Text, "\n")); err != nil {
			return err
		}
	}
	span := r.Span
	h := ctx.Editor()
	if r.Linewise {
		// Keep the indentation of the first line.
		span.Start = t.FirstNonBlank(t.LineAt(span.Start))
		if span.Start > span.End {
			span.Start = span.End
		}
	}
	if err := h.Replace(span.Start, span.End, ""); err != nil {
		return err
	}
	h.SetPosition(span.Start, false)
	return nil
}

func (Yank) Name() string { return "yank" }

func (Yank) Repetition() Operator { return nil }

func (Yank) NextMode() string { return "" }

// Apply implements Operator.
func (Yank) Apply(ctx Context, r Region) error {
	t, err := snapshot(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Registers().Yank(ctx.Register(), regionText(t, r)); err != nil {
		return err
	}
	h := ctx.Editor()
	pos := h.Position()
	switch {
	case r.Linewise && r.Start < t.LineAt(pos).Start:
		// "yk" leaves the cursor on the first yanked line.
		h.SetPosition(t.OffsetAtColumn(t.LineAt(r.Start), t.Column(pos), false), false)
	case !r.Linewise && r.Start < pos:
		h.SetPosition(r.Start, false)
	}
	return nil
}

func (o NamedOperator) Name() string { return o.Operation }

func (o NamedOperator) Repetition() Operator { return o }

func (NamedOperator) NextMode() string { return "" }

// Apply implements Operator.
func (o NamedOperator) Apply(ctx Context, r Region) error {
	t, err := snapshot(ctx)
	if err != nil {
		return err
	}
	h := ctx.Editor()
	head := r.End
	if !r.Linewise && head > r.Start {
		head = t.PrevGrapheme(head)
	}
	h.SetSelection(editor.Selection{Anchor: r.Start, Head: head, Linewise: r.Linewise, Active: true})
	err = h.Execute(o.Operation)
	h.SetSelection(editor.Selection{})
	if err != nil {
		return err
	}
	after, err := snapshot(ctx)
	if err != nil {
		return err
	}
	if r.Linewise {
		h.SetPosition(firstNonBlankOrLast(after, after.LineAt(r.Start)), false)
	} else {
		h.SetPosition(r.Start, false)
	}
	return nil
}

func (o CaseOperator) Name() string {
	switch o.Mode {
	case CaseLower:
		return "lowercase"
	case CaseUpper:
		return "uppercase"
	default:
		return "swapcase"
	}
}

func (o CaseOperator) Repetition() Operator { return o }

func (CaseOperator) NextMode() string { return "" }

// Apply implements Operator.
func (o CaseOperator) Apply(ctx Context, r Region) error {
	t, err := snapshot(ctx)
	if err != nil {
		return err
	}
	h := ctx.Editor()
	if err := h.Replace(r.Start, r.End, convertCase(t.Slice(r.Span), o.Mode)); err != nil {
		return err
	}
	h.SetPosition(r.Start, false)
	return nil
}

func convertCase(s string, mode CaseMode) string {
	switch mode {
	case CaseLower:
		return strings.ToLower(s)
	case CaseUpper:
		return strings.ToUpper(s)
	}
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		}
		return r
	}, s)
}
