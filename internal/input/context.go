package input

import (
	"github.com/dshills/modalkeys/internal/input/editor"
	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/input/vim"
)

// execContext is what commands run against. It is only used while the
// handler lock is held.
type execContext struct {
	h *Handler

	// register is the register selected with '"x' for the next command.
	register rune

	// column is the preferred caret column for vertical motions.
	column vim.Column

	// replaying is set while the dot buffer replays a change, so the
	// replayed commands do not record themselves.
	replaying bool
}

func (c *execContext) Editor() editor.Host           { return c.h.host }
func (c *execContext) Registers() *vim.RegisterStore { return c.h.registers }
func (c *execContext) Options() vim.Options          { return c.h.options }
func (c *execContext) Register() rune                { return c.register }
func (c *execContext) SelectRegister(name rune)      { c.register = name }
func (c *execContext) Column() vim.Column            { return c.column }
func (c *execContext) SetColumn(col vim.Column)      { c.column = col }

// ChangeMode switches the active mode.
func (c *execContext) ChangeMode(name string, hint vim.ModeHint) error {
	return c.h.modes.Switch(c, name, hint)
}

// RepeatLastChange replays the dot buffer.
func (c *execContext) RepeatLastChange(count int) error {
	if c.replaying {
		return nil
	}
	c.replaying = true
	defer func() { c.replaying = false }()
	return c.h.dot.Replay(c, count)
}

// RecordChange records cmd for dot-repeat unless a replay is running.
func (c *execContext) RecordChange(cmd vim.Command, count int) {
	if !c.replaying {
		c.h.dot.Record(cmd, count)
	}
}

// StartRecording starts a macro recording.
func (c *execContext) StartRecording(register rune) error {
	if err := c.h.recorder.StartRecording(register); err != nil {
		return err
	}
	c.h.logger.Debug("recording macro into %q", register)
	return nil
}

// PlayMacro feeds a recorded macro through the handler, stopping at the
// first key that fails.
func (c *execContext) PlayMacro(register rune, count int) error {
	return c.h.player.Play(register, count, func(event key.Event) error {
		c.h.metrics.recordMacroKey()
		if out := c.h.handleKey(event); out.Status == Failed {
			return out.Err
		}
		return nil
	})
}
