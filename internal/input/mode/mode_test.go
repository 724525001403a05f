package mode

import (
	"testing"

	"github.com/dshills/modalkeys/internal/input/editor"
	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/input/keymap"
	"github.com/dshills/modalkeys/internal/input/vim"
)

// harness drives a Manager with the standard modes over an in-memory
// buffer, executing matched commands and recording them for dot-repeat.
type harness struct {
	buf       *editor.Buffer
	regs      *vim.RegisterStore
	col       vim.Column
	reg       rune
	dot       *vim.DotBuffer
	mgr       *Manager
	command   *LineMode
	search    *LineMode
	replaying bool
}

func newHarness(t *testing.T, text string, pos int) *harness {
	t.Helper()
	h := &harness{
		buf:  editor.NewBuffer(text),
		regs: vim.NewRegisterStore(),
		dot:  vim.NewDotBuffer(),
		mgr:  NewManager(),
	}
	h.command = NewCommandMode()
	h.search = NewSearchMode()
	h.buf.SetPosition(pos, false)
	h.mgr.Register(NewNormalMode(vim.Counted(vim.NormalBindings())))
	h.mgr.Register(NewInsertMode(vim.InsertBindings(false)))
	h.mgr.Register(NewReplaceMode(vim.InsertBindings(true)))
	h.mgr.Register(NewVisualMode(vim.Counted(vim.VisualBindings(false))))
	h.mgr.Register(NewVisualLineMode(vim.Counted(vim.VisualBindings(true))))
	h.mgr.Register(h.command)
	h.mgr.Register(h.search)
	if err := h.mgr.SetInitialMode(h, ModeNormal); err != nil {
		t.Fatalf("SetInitialMode() error = %v", err)
	}
	return h
}

func (h *harness) Editor() editor.Host           { return h.buf }
func (h *harness) Registers() *vim.RegisterStore { return h.regs }
func (h *harness) Options() vim.Options          { return vim.DefaultOptions() }
func (h *harness) Register() rune                { return h.reg }
func (h *harness) SelectRegister(name rune)      { h.reg = name }
func (h *harness) Column() vim.Column            { return h.col }
func (h *harness) SetColumn(col vim.Column)      { h.col = col }

func (h *harness) ChangeMode(name string, hint vim.ModeHint) error {
	return h.mgr.Switch(h, name, hint)
}

func (h *harness) RepeatLastChange(count int) error {
	h.replaying = true
	defer func() { h.replaying = false }()
	return h.dot.Replay(h, count)
}

func (h *harness) RecordChange(cmd vim.Command, count int) {
	if !h.replaying {
		h.dot.Record(cmd, count)
	}
}

// feed sends every key of keys and returns the result of the last one.
func (h *harness) feed(t *testing.T, keys string) Result {
	t.Helper()
	var res Result
	for _, ev := range key.MustParseSequence(keys) {
		var err error
		res, err = h.mgr.HandleKey(h, ev)
		if err != nil {
			t.Fatalf("HandleKey(%s) error = %v", ev, err)
		}
		if res.Status != Matched {
			continue
		}
		cmd := res.Command
		if err := cmd.Execute(h); err != nil {
			t.Fatalf("execute %T for %s: %v", cmd, ev, err)
		}
		h.RecordChange(cmd, cmd.Count())
		if _, ok := cmd.(vim.SelectRegister); !ok {
			h.reg = 0
		}
		if err := h.mgr.Settle(h); err != nil {
			t.Fatalf("Settle() error = %v", err)
		}
	}
	return res
}

func (h *harness) expect(t *testing.T, text string, pos int, mode string) {
	t.Helper()
	if got := h.buf.String(); got != text {
		t.Errorf("text = %q, want %q", got, text)
	}
	if got := h.buf.Position(); got != pos {
		t.Errorf("position = %d, want %d", got, pos)
	}
	if got := h.mgr.CurrentName(); got != mode {
		t.Errorf("mode = %q, want %q", got, mode)
	}
}

func TestNormalModeResolves(t *testing.T) {
	h := newHarness(t, "one two three", 0)

	if res := h.feed(t, "2"); res.Status != Pending {
		t.Errorf("status after count = %v, want pending", res.Status)
	}
	if res := h.feed(t, "w"); res.Status != Matched {
		t.Errorf("status after motion = %v, want matched", res.Status)
	}
	h.expect(t, "one two three", 8, ModeNormal)

	if res := h.feed(t, "d"); res.Status != Pending {
		t.Errorf("status after operator = %v, want pending", res.Status)
	}
	if res := h.feed(t, "Q"); res.Status != Aborted {
		t.Errorf("status after bad operand = %v, want aborted", res.Status)
	}
	if mode := h.mgr.Current().(*NormalMode); mode.pending != nil {
		t.Error("sequence still pending after abort")
	}
}

func TestNormalModeCaret(t *testing.T) {
	h := newHarness(t, "abc", 0)

	h.feed(t, "f")
	if got := h.buf.Caret(); got != editor.CaretUnderline {
		t.Errorf("caret while awaiting char = %v, want underline", got)
	}
	h.feed(t, "c")
	if got := h.buf.Caret(); got != editor.CaretBlock {
		t.Errorf("caret after find = %v, want block", got)
	}
	h.expect(t, "abc", 2, ModeNormal)

	h.feed(t, "r")
	if got := h.buf.Caret(); got != editor.CaretUnderline {
		t.Errorf("caret while awaiting replacement = %v, want underline", got)
	}
	h.feed(t, "<Esc>")
	if got := h.buf.Caret(); got != editor.CaretBlock {
		t.Errorf("caret after abort = %v, want block", got)
	}
}

func TestInsertSession(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  int
		keys string
		want string
		cpos int
	}{
		{"insert", "ac", 1, "ib<Esc>", "abc", 1},
		{"append at end", "ab", 1, "ac<Esc>", "abc", 2},
		{"counted insert", "", 0, "3ix<Esc>", "xxx", 2},
		{"backspace", "", 0, "iabc<BS><BS>x<Esc>", "ax", 1},
		{"open line", "a", 0, "ob<Esc>", "a\nb", 2},
		{"counted open line", "a", 0, "2ob<Esc>", "a\nb\nb", 4},
		{"change word", "one two", 0, "cwxy<Esc>", "xy two", 1},
		{"replace", "abcd", 0, "Rxy<Esc>", "xycd", 1},
		{"replace past end", "ab", 1, "Rxyz<Esc>", "axyz", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.text, tt.pos)
			h.feed(t, tt.keys)
			h.expect(t, tt.want, tt.cpos, ModeNormal)
		})
	}
}

func TestInsertSessionRepeat(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  int
		keys string
		want string
	}{
		{"insert", "", 0, "iab<Esc>.", "aabb"},
		{"change word", "one two", 0, "cwx<Esc>w.", "x x"},
		{"open line", "a", 0, "ob<Esc>.", "a\nb\nb"},
		{"counted repeat", "", 0, "ix<Esc>3.", "xxxx"},
		{"replace", "abcdef", 0, "Rxy<Esc>l.", "xyxyef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.text, tt.pos)
			h.feed(t, tt.keys)
			if got := h.buf.String(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInsertSessionMovedCaret(t *testing.T) {
	h := newHarness(t, "ab", 0)
	h.feed(t, "ix<Right>y<Esc>")
	if got := h.buf.String(); got != "xayb" {
		t.Fatalf("text = %q, want %q", got, "xayb")
	}

	// Only the text typed after the caret moved is repeated.
	h.feed(t, "0.")
	if got := h.buf.String(); got != "yxayb" {
		t.Errorf("text after repeat = %q, want %q", got, "yxayb")
	}
}

func TestInsertModeTyped(t *testing.T) {
	h := newHarness(t, "", 0)
	h.feed(t, "iab<BS>c")

	ins, ok := h.mgr.Current().(*InsertMode)
	if !ok {
		t.Fatalf("current mode = %T, want *InsertMode", h.mgr.Current())
	}
	if got := string(ins.typed); got != "ac" {
		t.Errorf("typed = %q, want %q", got, "ac")
	}
	if got := h.buf.Caret(); got != editor.CaretBar {
		t.Errorf("caret = %v, want bar", got)
	}

	h.feed(t, "<Esc>")
	reg, err := h.regs.Get('.')
	if err != nil {
		t.Fatalf("Get('.') error = %v", err)
	}
	if reg.Text != "ac" {
		t.Errorf("'.' register = %q, want %q", reg.Text, "ac")
	}
}

func TestVisualMode(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  int
		keys string
		want string
		cpos int
	}{
		{"delete selection", "abcdef", 1, "vld", "adef", 1},
		{"delete lines", "a\nb\nc", 2, "Vd", "a\nc", 2},
		{"switch kind", "ab\ncd\nef", 0, "vjVd", "ef", 0},
		{"swap ends", "abcdef", 2, "vlohd", "aef", 1},
		{"upper case", "abc", 0, "vlU", "ABc", 0},
		{"escape", "abc", 0, "vl<Esc>", "abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.text, tt.pos)
			h.feed(t, tt.keys)
			h.expect(t, tt.want, tt.cpos, ModeNormal)
			if h.buf.Selection().Active {
				t.Error("selection still active after leaving visual mode")
			}
		})
	}
}

func TestVisualModeKeepsSelection(t *testing.T) {
	h := newHarness(t, "abc\ndef", 1)
	h.feed(t, "vl")

	sel := h.buf.Selection()
	if !sel.Active || sel.Anchor != 1 || sel.Head != 2 || sel.Linewise {
		t.Fatalf("selection = %+v, want active 1..2", sel)
	}

	h.feed(t, "V")
	sel = h.buf.Selection()
	if !sel.Active || sel.Anchor != 1 || !sel.Linewise {
		t.Errorf("selection after V = %+v, want linewise anchored at 1", sel)
	}
	if got := h.mgr.CurrentName(); got != ModeVisualLine {
		t.Errorf("mode = %q, want %q", got, ModeVisualLine)
	}
}

func TestCommandLine(t *testing.T) {
	h := newHarness(t, "abc", 0)
	h.buf.SetStrict(true)
	var ran []string
	h.buf.Handle("ex:w", func(*editor.Buffer) error {
		ran = append(ran, "w")
		return nil
	})

	h.feed(t, ":")
	if got := h.mgr.CurrentName(); got != ModeCommand {
		t.Fatalf("mode = %q, want %q", got, ModeCommand)
	}
	if res := h.feed(t, "x"); res.Status != Consumed {
		t.Errorf("status = %v, want consumed", res.Status)
	}
	h.feed(t, "<BS>w<CR>")

	h.expect(t, "abc", 0, ModeNormal)
	if len(ran) != 1 {
		t.Errorf("ex:w ran %d times, want 1", len(ran))
	}
	reg, _ := h.regs.Get(':')
	if reg.Text != "w" {
		t.Errorf("':' register = %q, want %q", reg.Text, "w")
	}
}

func TestCommandLineCompletion(t *testing.T) {
	h := newHarness(t, "abc", 0)
	var ran []string
	for _, name := range []string{"w", "wq", "write", "quit"} {
		h.buf.Handle(OpEx+name, func(*editor.Buffer) error {
			ran = append(ran, name)
			return nil
		})
	}
	line := h.command

	h.feed(t, ":w<Tab>")
	for _, want := range []string{"w", "wq", "write", "w"} {
		if got := line.Buffer(); got != want {
			t.Errorf("line = %q, want %q", got, want)
		}
		h.feed(t, "<Tab>")
	}
	h.feed(t, "<CR>")
	if len(ran) != 1 || ran[0] != "wq" {
		t.Errorf("ran = %q, want [wq]", ran)
	}

	h.feed(t, ":qt<Tab>")
	if got := line.Buffer(); got != "quit" {
		t.Errorf("line = %q, want %q", got, "quit")
	}
	h.feed(t, "<BS>")
	if got := line.Buffer(); got != "qui" {
		t.Errorf("line after edit = %q, want %q", got, "qui")
	}
	h.feed(t, "<Tab>")
	if got := line.Buffer(); got != "quit" {
		t.Errorf("line = %q, want %q", got, "quit")
	}
	h.feed(t, "<Esc>")

	h.feed(t, "/w<Tab>")
	if got := h.search.Buffer(); got != "w" {
		t.Errorf("search line = %q, want %q", got, "w")
	}
}

func TestSearchLine(t *testing.T) {
	tests := []struct {
		keys string
		want string
	}{
		{"/foo<CR>", OpSearchForward + "foo"},
		{"?foo<CR>", OpSearchBackward + "foo"},
	}

	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			h := newHarness(t, "abc", 0)
			h.feed(t, tt.keys)
			executed := h.buf.Executed()
			if len(executed) != 1 || executed[0] != tt.want {
				t.Errorf("executed = %q, want [%q]", executed, tt.want)
			}
			if got := h.mgr.CurrentName(); got != ModeNormal {
				t.Errorf("mode = %q, want %q", got, ModeNormal)
			}
		})
	}
}

func TestLineModeLeave(t *testing.T) {
	tests := []string{":<Esc>", ":<BS>", ":ab<C-[>", "/<Esc>"}

	for _, keys := range tests {
		t.Run(keys, func(t *testing.T) {
			h := newHarness(t, "abc", 0)
			h.feed(t, keys)
			if got := h.mgr.CurrentName(); got != ModeNormal {
				t.Errorf("mode = %q, want %q", got, ModeNormal)
			}
			if executed := h.buf.Executed(); len(executed) != 0 {
				t.Errorf("executed = %q, want none", executed)
			}
		})
	}
}

func TestLineModeEditing(t *testing.T) {
	m := NewCommandMode()
	ctx := NewContext(nil)
	press := func(keys string) {
		for _, ev := range key.MustParseSequence(keys) {
			m.HandleKey(ctx, ev)
		}
	}

	press("acd<Left><Left>b")
	if got := m.Buffer(); got != "abcd" {
		t.Errorf("Buffer() = %q, want %q", got, "abcd")
	}
	press("<Home><Del><End>e")
	if got := m.Buffer(); got != "bcde" {
		t.Errorf("Buffer() = %q, want %q", got, "bcde")
	}
	if got := m.CursorPos(); got != 4 {
		t.Errorf("CursorPos() = %d, want 4", got)
	}
	if got := m.Prompt(); got != ':' {
		t.Errorf("Prompt() = %q, want ':'", got)
	}
	if res := m.HandleKey(ctx, key.Ctrl('x')); res.Status != Aborted {
		t.Errorf("status for <C-x> = %v, want aborted", res.Status)
	}
}

func TestLineModeHistory(t *testing.T) {
	m := NewCommandMode()
	m.AddToHistory("first")
	m.AddToHistory("second")
	m.AddToHistory("second")
	m.AddToHistory("")

	if got := len(m.history); got != 2 {
		t.Fatalf("history has %d lines, want 2", got)
	}

	m.SetBuffer("draft")
	steps := []struct {
		prev bool
		ok   bool
		want string
	}{
		{true, true, "second"},
		{true, true, "first"},
		{true, false, "first"},
		{false, true, "second"},
		{false, true, "draft"},
		{false, false, "draft"},
	}
	for i, s := range steps {
		var ok bool
		if s.prev {
			ok = m.HistoryPrev()
		} else {
			ok = m.HistoryNext()
		}
		if ok != s.ok {
			t.Errorf("step %d: ok = %v, want %v", i, ok, s.ok)
		}
		if got := m.Buffer(); got != s.want {
			t.Errorf("step %d: Buffer() = %q, want %q", i, got, s.want)
		}
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Pending, "pending"},
		{Aborted, "aborted"},
		{Matched, "matched"},
		{Consumed, "consumed"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestCursorStyle(t *testing.T) {
	tests := []struct {
		style CursorStyle
		name  string
		caret editor.Caret
	}{
		{CursorBlock, "block", editor.CaretBlock},
		{CursorBar, "bar", editor.CaretBar},
		{CursorUnderline, "underline", editor.CaretUnderline},
	}

	for _, tt := range tests {
		if got := tt.style.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.style.Caret(); got != tt.caret {
			t.Errorf("%s.Caret() = %v, want %v", tt.name, got, tt.caret)
		}
	}
}

func TestResolverPending(t *testing.T) {
	r := resolver{root: keymap.MustNew(keymap.Bind[vim.Command]("gg", vim.DotCommand{}))}

	if res := r.press(key.Rune('g')); res.Status != Pending {
		t.Fatalf("status = %v, want pending", res.Status)
	}
	if r.pending == nil {
		t.Error("no pending state mid-sequence")
	}
	r.reset()
	if r.pending != nil {
		t.Error("pending state survived reset")
	}
	if res := r.press(key.Rune('x')); res.Status != Aborted {
		t.Errorf("status = %v, want aborted", res.Status)
	}
}
