package editor

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// OperationFunc implements a named operation on a Buffer.
type OperationFunc func(b *Buffer) error

// Buffer is an in-memory Host. It keeps a snapshot history for the "undo"
// and "redo" operations, implements "join.lines" itself, and records every
// named operation it is asked to execute.
type Buffer struct {
	mu        sync.Mutex
	text      string
	cursor    int
	stickEOL  bool
	selection Selection
	caret     Caret

	undo []bufferState
	redo []bufferState

	ops      map[string]OperationFunc
	executed []string
	strict   bool
}

type bufferState struct {
	text   string
	cursor int
}

// NewBuffer creates a buffer holding text with the cursor at offset 0.
func NewBuffer(text string) *Buffer {
	b := &Buffer{text: text, ops: make(map[string]OperationFunc)}
	b.ops["undo"] = (*Buffer).undoOp
	b.ops["redo"] = (*Buffer).redoOp
	b.ops["join.lines"] = (*Buffer).joinLines
	return b
}

// SetStrict makes Execute fail with ErrUnknownOperation for operations that
// have no handler, instead of only recording them.
func (b *Buffer) SetStrict(strict bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.strict = strict
}

// Handle registers fn as the implementation of the named operation.
func (b *Buffer) Handle(name string, fn OperationFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops[name] = fn
}

// String returns the buffer text.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Len implements Content.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.text)
}

// Text implements Content.
func (b *Buffer) Text(start, end int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if start < 0 || end > len(b.text) || start > end {
		return "", fmt.Errorf("%w: [%d, %d) of %d", ErrOutOfRange, start, end, len(b.text))
	}
	return b.text[start:end], nil
}

// Replace implements Content. The cursor is shifted to stay on the same
// character when the edit happens before it.
func (b *Buffer) Replace(start, end int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if start < 0 || end > len(b.text) || start > end {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrOutOfRange, start, end, len(b.text))
	}
	b.undo = append(b.undo, bufferState{text: b.text, cursor: b.cursor})
	b.redo = nil
	b.text = b.text[:start] + text + b.text[end:]
	switch {
	case b.cursor >= end:
		b.cursor += len(text) - (end - start)
	case b.cursor > start:
		b.cursor = start
	}
	return nil
}

// Position implements Cursor.
func (b *Buffer) Position() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// SetPosition implements Cursor.
func (b *Buffer) SetPosition(offset int, stickToEOL bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.text) {
		offset = len(b.text)
	}
	b.cursor = offset
	b.stickEOL = stickToEOL
}

// StickToEOL reports whether the last cursor move asked to stick to line ends.
func (b *Buffer) StickToEOL() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stickEOL
}

// Selection implements Cursor.
func (b *Buffer) Selection() Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selection
}

// SetSelection implements Cursor.
func (b *Buffer) SetSelection(sel Selection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = sel
}

// SetCaret implements CaretHinter.
func (b *Buffer) SetCaret(c Caret) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.caret = c
}

// Caret returns the current caret shape.
func (b *Buffer) Caret() Caret {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.caret
}

// Execute implements Operations.
func (b *Buffer) Execute(name string) error {
	b.mu.Lock()
	b.executed = append(b.executed, name)
	fn, ok := b.ops[name]
	strict := b.strict
	b.mu.Unlock()

	if !ok {
		if strict {
			return fmt.Errorf("%w: %s", ErrUnknownOperation, name)
		}
		return nil
	}
	return fn(b)
}

// Operations implements OperationLister. Names are sorted.
func (b *Buffer) Operations() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.ops))
	for name := range b.ops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Executed returns the names of all operations executed so far.
func (b *Buffer) Executed() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.executed))
	copy(out, b.executed)
	return out
}

func (b *Buffer) undoOp() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.undo) == 0 {
		return nil
	}
	last := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.redo = append(b.redo, bufferState{text: b.text, cursor: b.cursor})
	b.text, b.cursor = last.text, last.cursor
	return nil
}

func (b *Buffer) redoOp() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.redo) == 0 {
		return nil
	}
	last := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.undo = append(b.undo, bufferState{text: b.text, cursor: b.cursor})
	b.text, b.cursor = last.text, last.cursor
	return nil
}

// joinLines joins the cursor line with the next one, separated by a single
// space, or the lines covered by an active selection.
func (b *Buffer) joinLines() error {
	b.mu.Lock()
	t := Text(b.text)
	first := t.LineAt(b.cursor)
	last := first
	if b.selection.Active {
		span := b.selection.Span(t)
		first, last = t.LineAt(span.Start), t.LineAt(span.End)
	}
	b.mu.Unlock()

	joins := last.Number - first.Number
	if joins < 1 {
		joins = 1
	}
	for i := 0; i < joins; i++ {
		t = Text(b.String())
		l := t.LineAt(b.Position())
		if l.End >= len(t) {
			return nil
		}
		next := t.LineAt(l.End + 1)
		rest := strings.TrimLeft(t.Slice(Span{Start: next.Start, End: next.End}), " \t")
		sep := " "
		if l.IsEmpty() || rest == "" || strings.HasSuffix(t.Slice(Span{Start: l.Start, End: l.End}), " ") {
			sep = ""
		}
		if err := b.Replace(l.End, next.End, sep+rest); err != nil {
			return err
		}
		b.SetPosition(l.End, false)
	}
	return nil
}
