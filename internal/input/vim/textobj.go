package vim

import "github.com/dshills/modalkeys/internal/input/editor"

// Region is the text an operator acts on. Linewise regions span from the
// start of their first line to the end of their last line, excluding the
// final newline.
type Region struct {
	editor.Span
	Linewise bool
}

// TextObject computes the region an operator acts on.
type TextObject interface {
	// Region computes the region from the current cursor position.
	Region(ctx Context) (Region, error)

	// WithCount returns a copy with the given count.
	WithCount(count int) TextObject

	// Count returns the count, 0 when not given.
	Count() int
}

// MotionTextObject lifts a motion into a text object covering the text
// between the cursor and the motion target.
type MotionTextObject struct {
	Motion Motion
	count  int
}

// NewMotionTextObject lifts m.
func NewMotionTextObject(m Motion) MotionTextObject {
	return MotionTextObject{Motion: m}
}

// Region implements TextObject.
func (o MotionTextObject) Region(ctx Context) (Region, error) {
	t, err := snapshot(ctx)
	if err != nil {
		return Region{}, err
	}
	from := ctx.Editor().Position()
	to, err := o.Motion.OperatorDestination(ctx, t, from, o.count)
	if err != nil {
		return Region{}, err
	}
	return motionRegion(t, from, to, o.Motion.Border), nil
}

// WithCount implements TextObject.
func (o MotionTextObject) WithCount(count int) TextObject {
	o.count = count
	return o
}

// Count implements TextObject.
func (o MotionTextObject) Count() int {
	return o.count
}

// motionRegion applies a border policy to the range between from and to.
//
// Exclusive motions that end at the start of a later line are adjusted
// (":help exclusive"): the end moves back to the end of the previous line,
// and when the start is at or before the first non-blank of its line the
// region becomes linewise.
func motionRegion(t editor.Text, from, to int, border Border) Region {
	start, end := from, to
	if end < start {
		start, end = end, start
	}
	switch border {
	case Linewise:
		return Region{Span: editor.Span{Start: t.LineAt(start).Start, End: t.LineAt(end).End}, Linewise: true}
	case Inclusive:
		if end < t.LineAt(end).End {
			end = t.NextGrapheme(end)
		}
		return Region{Span: editor.Span{Start: start, End: end}}
	}

	first, last := t.LineAt(start), t.LineAt(end)
	if end > start && last.Number > first.Number && end == last.Start {
		prev := t.LineAt(end - 1)
		if start <= t.FirstNonBlank(first) {
			return Region{Span: editor.Span{Start: first.Start, End: prev.End}, Linewise: true}
		}
		return Region{Span: editor.Span{Start: start, End: prev.End}}
	}
	return Region{Span: editor.Span{Start: start, End: end}}
}

// MotionPairTextObject covers the text from the target of Left to the
// target of Right, both taken from the cursor. iw and aw are built this way.
type MotionPairTextObject struct {
	Left, Right Motion
	count       int
}

// Region implements TextObject.
func (o MotionPairTextObject) Region(ctx Context) (Region, error) {
	t, err := snapshot(ctx)
	if err != nil {
		return Region{}, err
	}
	from := ctx.Editor().Position()
	start, err := o.Left.OperatorDestination(ctx, t, from, 1)
	if err != nil {
		return Region{}, err
	}
	end, err := o.Right.OperatorDestination(ctx, t, from, o.count)
	if err != nil {
		return Region{}, err
	}
	if end < start {
		end = start
	}
	return motionRegion(t, start, end, o.Right.Border), nil
}

// WithCount implements TextObject.
func (o MotionPairTextObject) WithCount(count int) TextObject {
	o.count = count
	return o
}

// Count implements TextObject.
func (o MotionPairTextObject) Count() int {
	return o.count
}

// LineTextObject covers count whole lines starting at the cursor line. It is
// the operand of doubled operator keys such as dd and yy.
type LineTextObject struct {
	count int
}

// Region implements TextObject.
func (o LineTextObject) Region(ctx Context) (Region, error) {
	t, err := snapshot(ctx)
	if err != nil {
		return Region{}, err
	}
	first := t.LineAt(ctx.Editor().Position())
	n := first.Number + atLeastOne(o.count) - 1
	if last := t.LineCount() - 1; n > last {
		n = last
	}
	lastLine, _ := t.LineByNumber(n)
	return Region{Span: editor.Span{Start: first.Start, End: lastLine.End}, Linewise: true}, nil
}

// WithCount implements TextObject.
func (o LineTextObject) WithCount(count int) TextObject {
	o.count = count
	return o
}

// Count implements TextObject.
func (o LineTextObject) Count() int {
	return o.count
}

// SelectionTextObject covers the active visual selection. Counts are ignored.
type SelectionTextObject struct{}

// Region implements TextObject.
func (SelectionTextObject) Region(ctx Context) (Region, error) {
	t, err := snapshot(ctx)
	if err != nil {
		return Region{}, err
	}
	sel := ctx.Editor().Selection()
	return Region{Span: sel.Span(t), Linewise: sel.Linewise}, nil
}

// WithCount implements TextObject.
func (o SelectionTextObject) WithCount(int) TextObject {
	return o
}

// Count implements TextObject.
func (SelectionTextObject) Count() int {
	return 0
}

// OptionDependentTextObject picks one of two text objects from the current
// options each time it is used.
type OptionDependentTextObject struct {
	Option     func(Options) bool
	Set, Unset TextObject
}

func (o OptionDependentTextObject) pick(opts Options) TextObject {
	if o.Option(opts) {
		return o.Set
	}
	return o.Unset
}

// Region implements TextObject.
func (o OptionDependentTextObject) Region(ctx Context) (Region, error) {
	return o.pick(ctx.Options()).Region(ctx)
}

// WithCount implements TextObject.
func (o OptionDependentTextObject) WithCount(count int) TextObject {
	o.Set = o.Set.WithCount(count)
	o.Unset = o.Unset.WithCount(count)
	return o
}

// Count implements TextObject.
func (o OptionDependentTextObject) Count() int {
	return o.Set.Count()
}
