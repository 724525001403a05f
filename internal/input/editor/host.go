package editor

import "errors"

var (
	// ErrOutOfRange is returned for offsets outside the content.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrUnknownOperation is returned by hosts that do not implement a
	// named operation.
	ErrUnknownOperation = errors.New("unknown operation")
)

// Content is read and write access to the document text.
type Content interface {
	// Len returns the length of the content in bytes.
	Len() int

	// Text returns the bytes in [start, end).
	Text(start, end int) (string, error)

	// Replace replaces [start, end) with text. Only called while executing
	// a resolved command.
	Replace(start, end int, text string) error
}

// Cursor is the caret and selection of the host view.
type Cursor interface {
	// Position returns the caret offset.
	Position() int

	// SetPosition moves the caret. stickToEOL asks vertical movement to keep
	// the caret at line ends, as after "$".
	SetPosition(offset int, stickToEOL bool)

	// Selection returns the active selection, if any.
	Selection() Selection

	// SetSelection replaces the selection. A zero Selection clears it.
	SetSelection(sel Selection)
}

// Operations executes opaque, host-specific named commands.
type Operations interface {
	Execute(name string) error
}

// OperationLister is implemented by hosts that can name the operations
// they implement. The command line uses it to complete ex commands.
type OperationLister interface {
	Operations() []string
}

// Caret is the caret shape shown to the user.
type Caret uint8

const (
	// CaretBlock covers the character under the cursor.
	CaretBlock Caret = iota

	// CaretBar is a thin bar between characters.
	CaretBar

	// CaretUnderline underlines the character under the cursor.
	CaretUnderline
)

// String returns the caret name.
func (c Caret) String() string {
	switch c {
	case CaretBlock:
		return "block"
	case CaretBar:
		return "bar"
	case CaretUnderline:
		return "underline"
	default:
		return "unknown"
	}
}

// CaretHinter receives cosmetic caret shape changes.
type CaretHinter interface {
	SetCaret(c Caret)
}

// Host is everything the interpreter uses from the editor.
type Host interface {
	Content
	Cursor
	Operations
	CaretHinter
}

// Span is a half-open byte range [Start, End).
type Span struct {
	Start, End int
}

// Len returns the length of the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span covers nothing.
func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Normalize returns the span with Start <= End.
func (s Span) Normalize() Span {
	if s.End < s.Start {
		return Span{Start: s.End, End: s.Start}
	}
	return s
}

// Selection is a visual selection. Anchor stays put while Head follows the
// caret. Character selections include the character under Head.
type Selection struct {
	Anchor, Head int
	Linewise     bool
	Active       bool
}

// Span returns the byte range covered by the selection within t.
// Linewise selections cover whole lines, without the final newline.
func (s Selection) Span(t Text) Span {
	if !s.Active {
		return Span{Start: s.Head, End: s.Head}
	}
	start, end := s.Anchor, s.Head
	if end < start {
		start, end = end, start
	}
	if s.Linewise {
		return Span{Start: t.LineAt(start).Start, End: t.LineAt(end).End}
	}
	return Span{Start: start, End: t.NextGrapheme(end)}
}
