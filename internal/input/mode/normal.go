package mode

import (
	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/input/keymap"
	"github.com/dshills/modalkeys/internal/input/vim"
)

// NormalMode implements Vim's normal mode.
// In normal mode, keys are interpreted as commands rather than text input.
type NormalMode struct {
	resolver
}

// NewNormalMode creates a normal mode resolving keys against root.
func NewNormalMode(root keymap.State[vim.Command]) *NormalMode {
	return &NormalMode{resolver: resolver{root: root}}
}

// Name returns the mode identifier.
func (m *NormalMode) Name() string {
	return ModeNormal
}

// DisplayName returns the human-readable mode name.
func (m *NormalMode) DisplayName() string {
	return "NORMAL"
}

// CursorStyle returns the cursor style for normal mode.
func (m *NormalMode) CursorStyle() CursorStyle {
	return CursorBlock
}

// Enter resets pending state and pulls the caret back onto the last
// character when it rests past the end of the line.
func (m *NormalMode) Enter(ctx *Context) error {
	m.reset()
	return m.Settle(ctx)
}

// Exit is called when leaving normal mode.
func (m *NormalMode) Exit(ctx *Context) error {
	m.reset()
	return nil
}

// HandleKey implements Mode.
func (m *NormalMode) HandleKey(ctx *Context, event key.Event) Result {
	res := m.press(event)
	caretFor(ctx, res, CursorBlock)
	return res
}

// Settle implements Settler.
func (m *NormalMode) Settle(ctx *Context) error {
	ctx.Editor().SetCaret(CursorBlock.Caret())
	return pullBack(ctx)
}
