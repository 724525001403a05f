package editor

import (
	"errors"
	"slices"
	"testing"
)

func TestBufferReplaceShiftsCursor(t *testing.T) {
	tests := []struct {
		name       string
		cursor     int
		start, end int
		text       string
		wantText   string
		wantCursor int
	}{
		{"edit after cursor", 1, 3, 4, "X", "abcXe", 1},
		{"edit before cursor", 4, 0, 2, "", "cde", 2},
		{"cursor inside edit", 2, 1, 4, "Z", "aZe", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer("abcde")
			b.SetPosition(tt.cursor, false)
			if err := b.Replace(tt.start, tt.end, tt.text); err != nil {
				t.Fatalf("Replace error = %v", err)
			}
			if b.String() != tt.wantText || b.Position() != tt.wantCursor {
				t.Errorf("got %q@%d, want %q@%d", b.String(), b.Position(), tt.wantText, tt.wantCursor)
			}
		})
	}
}

func TestBufferOutOfRange(t *testing.T) {
	b := NewBuffer("abc")
	if _, err := b.Text(2, 9); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Text error = %v", err)
	}
	if err := b.Replace(-1, 1, ""); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Replace error = %v", err)
	}
}

func TestBufferUndoRedo(t *testing.T) {
	b := NewBuffer("abc")
	_ = b.Replace(0, 1, "")
	_ = b.Replace(0, 0, "X")
	if b.String() != "Xbc" {
		t.Fatalf("text = %q", b.String())
	}
	_ = b.Execute("undo")
	_ = b.Execute("undo")
	if b.String() != "abc" {
		t.Errorf("after undo = %q, want abc", b.String())
	}
	_ = b.Execute("redo")
	if b.String() != "bc" {
		t.Errorf("after redo = %q, want bc", b.String())
	}
}

func TestBufferJoinLines(t *testing.T) {
	b := NewBuffer("foo\n   bar\nbaz")
	if err := b.Execute("join.lines"); err != nil {
		t.Fatalf("join.lines error = %v", err)
	}
	if b.String() != "foo bar\nbaz" {
		t.Errorf("text = %q", b.String())
	}
	if b.Position() != 3 {
		t.Errorf("cursor = %d, want 3", b.Position())
	}
}

func TestBufferExecuteRecordsAndStrict(t *testing.T) {
	b := NewBuffer("")
	if err := b.Execute("indent"); err != nil {
		t.Errorf("non-strict Execute error = %v", err)
	}
	b.SetStrict(true)
	if err := b.Execute("indent"); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("strict Execute error = %v", err)
	}
	called := false
	b.Handle("indent", func(*Buffer) error { called = true; return nil })
	_ = b.Execute("indent")
	if !called {
		t.Error("registered handler not called")
	}
	if got := b.Executed(); len(got) != 3 {
		t.Errorf("Executed() = %v", got)
	}
}

func TestBufferOperations(t *testing.T) {
	b := NewBuffer("")
	b.Handle("ex:w", func(*Buffer) error { return nil })

	got := b.Operations()
	want := []string{"ex:w", "join.lines", "redo", "undo"}
	if !slices.Equal(got, want) {
		t.Errorf("Operations() = %q, want %q", got, want)
	}

	var _ OperationLister = b
}
