package mode

import (
	"github.com/dshills/modalkeys/internal/input/editor"
	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/input/keymap"
	"github.com/dshills/modalkeys/internal/input/vim"
)

// VisualMode implements Vim's visual modes. Motions extend the selection
// and operators act on it.
type VisualMode struct {
	resolver

	// linewise selects whole lines (visual-line mode).
	linewise bool
}

// NewVisualMode creates a new visual mode instance for character selection.
func NewVisualMode(root keymap.State[vim.Command]) *VisualMode {
	return &VisualMode{resolver: resolver{root: root}}
}

// NewVisualLineMode creates a new visual mode instance for line selection.
func NewVisualLineMode(root keymap.State[vim.Command]) *VisualMode {
	return &VisualMode{resolver: resolver{root: root}, linewise: true}
}

// Name returns the mode identifier.
func (m *VisualMode) Name() string {
	if m.linewise {
		return ModeVisualLine
	}
	return ModeVisual
}

// DisplayName returns the human-readable mode name.
func (m *VisualMode) DisplayName() string {
	if m.linewise {
		return "VISUAL LINE"
	}
	return "VISUAL"
}

// CursorStyle returns the cursor style for visual mode.
func (m *VisualMode) CursorStyle() CursorStyle {
	return CursorBlock
}

// Enter starts a selection at the caret. Coming from the other visual
// mode, the selection is kept and only its kind changes.
func (m *VisualMode) Enter(ctx *Context) error {
	m.reset()
	h := ctx.Editor()
	sel := h.Selection()
	if !IsVisual(ctx.PreviousMode) || !sel.Active {
		pos := h.Position()
		sel = editor.Selection{Anchor: pos, Head: pos, Active: true}
	}
	sel.Linewise = m.linewise
	h.SetSelection(sel)
	h.SetCaret(CursorBlock.Caret())
	return nil
}

// Exit clears the selection unless switching to the other visual mode.
func (m *VisualMode) Exit(ctx *Context) error {
	m.reset()
	if !IsVisual(ctx.NextMode) {
		ctx.Editor().SetSelection(editor.Selection{})
	}
	return nil
}

// HandleKey implements Mode.
func (m *VisualMode) HandleKey(ctx *Context, event key.Event) Result {
	res := m.press(event)
	caretFor(ctx, res, CursorBlock)
	return res
}

// Settle implements Settler.
func (m *VisualMode) Settle(ctx *Context) error {
	return pullBack(ctx)
}
