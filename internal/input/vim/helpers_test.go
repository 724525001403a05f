package vim

import (
	"testing"

	"github.com/dshills/modalkeys/internal/input/editor"
	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/input/keymap"
)

// testContext is a Context over an in-memory buffer. Mode changes are only
// remembered.
type testContext struct {
	buf  *editor.Buffer
	regs *RegisterStore
	opts Options
	reg  rune
	col  Column
	mode string
	hint ModeHint
	dot  *DotBuffer
}

func newTestContext(text string, pos int) *testContext {
	buf := editor.NewBuffer(text)
	buf.SetPosition(pos, false)
	return &testContext{
		buf:  buf,
		regs: NewRegisterStore(),
		opts: DefaultOptions(),
		mode: ModeNormal,
		dot:  NewDotBuffer(),
	}
}

func (c *testContext) Editor() editor.Host             { return c.buf }
func (c *testContext) Registers() *RegisterStore       { return c.regs }
func (c *testContext) Options() Options                { return c.opts }
func (c *testContext) Register() rune                  { return c.reg }
func (c *testContext) SelectRegister(name rune)        { c.reg = name }
func (c *testContext) Column() Column                  { return c.col }
func (c *testContext) SetColumn(col Column)            { c.col = col }
func (c *testContext) RecordChange(cmd Command, n int) { c.dot.Record(cmd, n) }

func (c *testContext) ChangeMode(name string, hint ModeHint) error {
	c.mode, c.hint = name, hint
	if hint.OnEnter != nil {
		return hint.OnEnter.Execute(c)
	}
	return nil
}

func (c *testContext) RepeatLastChange(count int) error {
	return c.dot.Replay(c, count)
}

// press resolves keys against the normal-mode tree and runs every command
// it produces the way the interpreter does.
func (c *testContext) press(t *testing.T, keys string) {
	t.Helper()
	if err := c.tryPress(keys); err != nil {
		t.Fatalf("press %q: %v", keys, err)
	}
}

func (c *testContext) tryPress(keys string) error {
	root := Counted(NormalBindings())
	seq := key.MustParseSequence(keys)
	for len(seq) > 0 {
		tr, n := keymap.Feed(root, seq)
		if tr.Status != keymap.Matched {
			return &unresolvedError{keys: keys, status: tr.Status}
		}
		seq = seq[n:]
		cmd := tr.Value
		if err := cmd.Execute(c); err != nil {
			return err
		}
		c.dot.Record(cmd, cmd.Count())
		if _, ok := cmd.(SelectRegister); !ok {
			c.reg = 0
		}
	}
	return nil
}

// typeAndLeave types text in the insert session opened by the last command
// and leaves it with Escape.
func (c *testContext) typeAndLeave(t *testing.T, text string) {
	t.Helper()
	if c.mode != ModeInsert {
		t.Fatalf("mode = %q, want %q", c.mode, ModeInsert)
	}
	if err := (InsertText{Text: text}).Execute(c); err != nil {
		t.Fatalf("type %q: %v", text, err)
	}
	s := NewInsertSession(c.hint, text, false)
	if !s.EntryTakesCount {
		if err := s.TypeCopies(c, 1, atLeastOne(s.Count())); err != nil {
			t.Fatalf("copies: %v", err)
		}
	}
	if err := LeaveInsertCaret(c); err != nil {
		t.Fatal(err)
	}
	if s.Entry != nil {
		c.dot.Record(s, s.Count())
	}
	c.mode, c.hint = ModeNormal, ModeHint{}
}

type unresolvedError struct {
	keys   string
	status keymap.Status
}

func (e *unresolvedError) Error() string {
	return e.keys + " " + e.status.String()
}

func (c *testContext) check(t *testing.T, wantText string, wantPos int) {
	t.Helper()
	if got := c.buf.String(); got != wantText {
		t.Errorf("text = %q, want %q", got, wantText)
	}
	if got := c.buf.Position(); got != wantPos {
		t.Errorf("position = %d, want %d", got, wantPos)
	}
}
