package vim

import (
	"fmt"

	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/input/keymap"
)

// Motions returns the motion bindings shared by normal mode, visual mode
// and operator-pending state.
func Motions() *keymap.Node[Motion] {
	b := keymap.Bind[Motion]
	return keymap.MustNew(
		b("h", MoveLeft), b("<Left>", MoveLeft), b("<BS>", MoveLeft),
		b("l", MoveRight), b("<Right>", MoveRight), b("<Space>", MoveRight),
		b("j", MoveDown), b("<Down>", MoveDown), b("<C-n>", MoveDown),
		b("k", MoveUp), b("<Up>", MoveUp), b("<C-p>", MoveUp),
		b("w", WordNext), b("W", BigWordNext),
		b("b", WordPrev), b("B", BigWordPrev),
		b("e", WordEnd), b("E", BigWordEnd),
		b("ge", WordEndPrev),
		b("0", LineStart), b("<Home>", LineStart),
		b("^", LineFirstChar),
		b("$", LineEnd), b("<End>", LineEnd),
		b("gg", DocumentStart), b("G", DocumentEnd),
		b("}", ParagraphNext), b("{", ParagraphPrev),
		keymap.Prefix("f", findChar('f')),
		keymap.Prefix("F", findChar('F')),
		keymap.Prefix("t", findChar('t')),
		keymap.Prefix("T", findChar('T')),
	)
}

func findChar(kind rune) *keymap.Node[Motion] {
	return keymap.MustNew(keymap.Convert(func(e key.Event) (Motion, bool) {
		if !e.IsPrintable() {
			return Motion{}, false
		}
		return FindChar(kind, e.Rune), true
	})).WithHint(keymap.HintAwaitChar)
}

// TextObjects returns the text objects that are not plain motions.
func TextObjects() *keymap.Node[TextObject] {
	return keymap.MustNew(
		keymap.Bind[TextObject]("iw", MotionPairTextObject{Left: wordObjectStart, Right: innerWordEnd}),
		keymap.Bind[TextObject]("aw", MotionPairTextObject{Left: wordObjectStart, Right: aWordEnd}),
	)
}

// operandBindings returns every operand an operator accepts: the text
// objects, all motions, and self for the linewise shortcut ("dd").
func operandBindings(self key.Event) *keymap.Node[TextObject] {
	lifted := keymap.Map(Motions(), func(m Motion) TextObject { return NewMotionTextObject(m) })
	return keymap.MustUnion(TextObjects(), lifted, keymap.MustNew(keymap.BindKey[TextObject](self, LineTextObject{})))
}

// OperatorPending returns the state entered after an operator key. The count
// typed inside it multiplies the count typed before the operator.
func OperatorPending(op Operator, operands *keymap.Node[TextObject]) keymap.State[Command] {
	counted := keymap.CountConsuming[TextObject](operands, func(o TextObject, n int) TextObject {
		return o.WithCount(composeCounts(o.Count(), n))
	})
	return keymap.MapState(counted, func(o TextObject) Command {
		return NewOperatorCommand(op, o)
	})
}

// Counted wraps a command tree so that a leading count is applied to the
// resolved command.
func Counted(tree keymap.State[Command]) keymap.State[Command] {
	return keymap.CountConsuming(tree, func(c Command, n int) Command {
		return c.WithCount(n)
	})
}

func stupidCW(o Options) bool { return o.StupidCW }

func stupidY(o Options) bool { return o.StupidY }

func operatorKey(keys string, op Operator, operands *keymap.Node[TextObject]) keymap.Entry[Command] {
	return keymap.Prefix(keys, OperatorPending(op, operands))
}

func lastKey(keys string) key.Event {
	seq := key.MustParseSequence(keys)
	return seq[len(seq)-1]
}

func operator(keys string, op Operator) keymap.Entry[Command] {
	return operatorKey(keys, op, operandBindings(lastKey(keys)))
}

func named(op string) NamedCommand {
	return NamedCommand{Operation: op}
}

// NormalBindings returns the normal-mode command tree, without the count
// wrapper.
func NormalBindings() *keymap.Node[Command] {
	b := keymap.Bind[Command]
	motions := keymap.Map(Motions(), func(m Motion) Command { return MotionCommand{Motion: m} })

	changeOperands := keymap.Override(operandBindings(key.Rune('c')), keymap.MustNew(
		keymap.Bind[TextObject]("w", OptionDependentTextObject{
			Option: stupidCW,
			Set:    NewMotionTextObject(wordEndForChange),
			Unset:  NewMotionTextObject(WordNext),
		}),
		keymap.Bind[TextObject]("W", OptionDependentTextObject{
			Option: stupidCW,
			Set:    NewMotionTextObject(bigWordEndForChange),
			Unset:  NewMotionTextObject(BigWordNext),
		}),
	))

	toEOL := NewMotionTextObject(LineEnd)
	insertAt := func(prep Command, hint ModeHint) ChangeModeCommand {
		return ChangeModeCommand{Mode: ModeInsert, Prep: prep, Hint: hint, Session: true}
	}
	past := func(m Motion) Command { return MotionCommand{Motion: m, PastEnd: true} }

	commands := keymap.MustNew(
		operator("d", OpDelete),
		operatorKey("c", OpChange, changeOperands),
		operator("y", OpYank),
		operator("=", OpIndent),
		operator(">", OpShiftRight),
		operator("<", OpShiftLeft),
		operator("gc", OpToggleComment),
		operator("gu", OpLowerCase),
		operator("gU", OpUpperCase),
		operator("g~", OpSwapCase),

		b("D", NewOperatorCommand(OpDelete, toEOL)),
		b("C", NewOperatorCommand(OpChange, toEOL)),
		b("Y", NewOperatorCommand(OpYank, OptionDependentTextObject{
			Option: stupidY,
			Set:    LineTextObject{},
			Unset:  toEOL,
		})),
		b("x", NewOperatorCommand(OpDelete, NewMotionTextObject(MoveRight))),
		b("<Del>", NewOperatorCommand(OpDelete, NewMotionTextObject(MoveRight))),
		b("X", NewOperatorCommand(OpDelete, NewMotionTextObject(MoveLeft))),
		b("s", NewOperatorCommand(OpChange, NewMotionTextObject(MoveRight))),
		b("S", NewOperatorCommand(OpChange, LineTextObject{})),
		b("~", SwapCaseChars{}),
		b("J", NamedCommand{Operation: "join.lines", Repeatable: true, Times: joinTimes}),
		b("p", Paste{}),
		b("P", Paste{Before: true}),
		b(".", DotCommand{}),
		b("u", named("undo")),
		b("<C-r>", named("redo")),

		b("i", insertAt(nil, ModeHint{})),
		b("a", insertAt(past(MoveRight), ModeHint{})),
		b("I", insertAt(past(LineFirstChar), ModeHint{})),
		b("A", insertAt(past(LineEndPast), ModeHint{})),
		b("o", insertAt(OpenLine{}, ModeHint{RepeatEntry: true})),
		b("O", insertAt(OpenLine{Above: true}, ModeHint{RepeatEntry: true})),
		b("R", ChangeModeCommand{Mode: ModeReplace, Session: true}),
		b("v", ChangeModeCommand{Mode: ModeVisual}),
		b("V", ChangeModeCommand{Mode: ModeVisualLine}),
		b(":", ChangeModeCommand{Mode: ModeCommand}),
		b("/", ChangeModeCommand{Mode: ModeSearch}),
		b("?", ChangeModeCommand{Mode: ModeSearch, Hint: ModeHint{Backward: true}}),

		keymap.Prefix("r", keymap.MustNew(keymap.Convert(func(e key.Event) (Command, bool) {
			switch {
			case e.IsPrintable():
				return ReplaceChar{Char: e.Rune}, true
			case e.Key == key.KeyTab && !e.IsModified():
				return ReplaceChar{Char: '\t'}, true
			}
			return nil, false
		})).WithHint(keymap.HintAwaitChar)),
		keymap.Prefix(`"`, keymap.MustNew(keymap.Convert(func(e key.Event) (Command, bool) {
			if !e.IsPrintable() || !IsValidRegister(e.Rune) {
				return nil, false
			}
			return SelectRegister{Name: e.Rune}, true
		})).WithHint(keymap.HintAwaitChar)),

		keymap.Prefix("q", keymap.MustNew(keymap.Convert(func(e key.Event) (Command, bool) {
			if !e.IsPrintable() || !isMacroRegister(e.Rune) {
				return nil, false
			}
			return RecordMacro{Name: e.Rune}, true
		})).WithHint(keymap.HintAwaitChar)),
		keymap.Prefix("@", keymap.MustNew(keymap.Convert(func(e key.Event) (Command, bool) {
			if !e.IsPrintable() || (e.Rune != '@' && !isMacroRegister(e.Rune)) {
				return nil, false
			}
			return PlayMacro{Name: e.Rune}, true
		})).WithHint(keymap.HintAwaitChar)),

		b("zo", DontRepeat(named("folding.expand"))),
		b("zR", DontRepeat(named("folding.expand_all"))),
		b("zc", DontRepeat(named("folding.collapse"))),
		b("zM", DontRepeat(named("folding.collapse_all"))),
		b("gr", named("refactor.menu")),
		b("gR", named("rename.element")),
		b("gt", named("editor.next")),
		b("gT", named("editor.previous")),
		b("<C-b>", named("goto.pageUp")),
		b("<C-f>", named("goto.pageDown")),
		b("<C-y>", named("scroll.lineUp")),
		b("<C-e>", named("scroll.lineDown")),
		b("<C-]>", named("open.declaration")),
		b("<C-i>", named("history.forward")),
		b("<C-o>", named("history.backward")),
	)
	return keymap.MustUnion(motions, commands)
}

func isMacroRegister(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// joinTimes makes "J" and "2J" join two lines and "3J" three.
func joinTimes(count int) int {
	if count <= 2 {
		return 1
	}
	return count - 1
}

// VisualBindings returns the command tree of visual mode, or of visual-line
// mode when linewise is set.
func VisualBindings(linewise bool) *keymap.Node[Command] {
	b := keymap.Bind[Command]
	motions := keymap.Map(Motions(), func(m Motion) Command { return VisualMotionCommand{Motion: m} })

	onSelection := func(op Operator) Command {
		return OperatorCommand{Operator: op, Object: SelectionTextObject{}, Leave: ModeNormal}
	}
	toggle := func(target string) Command {
		if target == ModeVisual && !linewise || target == ModeVisualLine && linewise {
			return ChangeModeCommand{Mode: ModeNormal}
		}
		return ChangeModeCommand{Mode: target}
	}
	leave := ChangeModeCommand{Mode: ModeNormal}

	commands := keymap.MustNew(
		b("d", onSelection(OpDelete)),
		b("x", onSelection(OpDelete)),
		b("<Del>", onSelection(OpDelete)),
		b("c", onSelection(OpChange)),
		b("s", onSelection(OpChange)),
		b("y", onSelection(OpYank)),
		b("=", onSelection(OpIndent)),
		b(">", onSelection(OpShiftRight)),
		b("<", onSelection(OpShiftLeft)),
		b("gc", onSelection(OpToggleComment)),
		b("~", onSelection(OpSwapCase)),
		b("u", onSelection(OpLowerCase)),
		b("U", onSelection(OpUpperCase)),
		b("J", DontRepeat(Seq{NamedCommand{Operation: "join.lines", Times: func(int) int { return 1 }}, leave})),
		b("o", SwapSelectionEnds{}),
		b("v", toggle(ModeVisual)),
		b("V", toggle(ModeVisualLine)),
		b("<Esc>", leave),
		b("<C-[>", leave),
		keymap.Prefix(`"`, keymap.MustNew(keymap.Convert(func(e key.Event) (Command, bool) {
			if !e.IsPrintable() || !IsValidRegister(e.Rune) {
				return nil, false
			}
			return SelectRegister{Name: e.Rune}, true
		})).WithHint(keymap.HintAwaitChar)),
	)
	return keymap.MustUnion(motions, commands)
}

// InsertBindings returns the insert-mode tree, or the replace-mode tree
// when overwrite is set. Printable keys type themselves.
func InsertBindings(overwrite bool) *keymap.Node[Command] {
	b := keymap.Bind[Command]
	past := func(m Motion) Command { return MotionCommand{Motion: m, PastEnd: true} }
	leave := ChangeModeCommand{Mode: ModeNormal}

	var backspace Command = DeleteBackward{}
	if overwrite {
		backspace = past(MoveLeft)
	}
	return keymap.MustNew(
		b("<Esc>", leave),
		b("<C-[>", leave),
		b("<BS>", backspace),
		b("<CR>", InsertText{Text: "\n", Overwrite: overwrite}),
		b("<Tab>", InsertText{Text: "\t", Overwrite: overwrite}),
		b("<Left>", past(MoveLeft)),
		b("<Right>", past(MoveRight)),
		b("<Up>", past(MoveUp)),
		b("<Down>", past(MoveDown)),
		b("<Home>", past(LineStart)),
		b("<End>", past(LineEndPast)),
		keymap.Convert(func(e key.Event) (Command, bool) {
			if !e.IsPrintable() {
				return nil, false
			}
			return InsertText{Text: string(e.Rune), Overwrite: overwrite}, true
		}),
	)
}

// Remap resolves the key sequence to against root and returns the commands
// it produces, in order. It backs non-recursive user mappings.
func Remap(root keymap.State[Command], to string) (Command, error) {
	seq, err := key.ParseSequence(to)
	if err != nil {
		return nil, err
	}
	var out Seq
	for len(seq) > 0 {
		t, n := keymap.Feed(root, seq)
		if t.Status != keymap.Matched {
			return nil, fmt.Errorf("%w: %q stops at %s", ErrUnresolvedMapping, to, t.Status)
		}
		out = append(out, t.Value)
		seq = seq[n:]
	}
	switch len(out) {
	case 0:
		return nil, fmt.Errorf("%w: empty target", ErrUnresolvedMapping)
	case 1:
		return out[0], nil
	}
	return out, nil
}
