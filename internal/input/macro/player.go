package macro

import (
	"fmt"
	"sync/atomic"

	"github.com/dshills/modalkeys/internal/input/key"
)

// EventHandler processes one replayed key event. A non-nil error stops
// playback.
type EventHandler func(event key.Event) error

// Player replays recorded macros through an EventHandler.
type Player struct {
	recorder *Recorder
	playing  atomic.Bool
}

// NewPlayer creates a new macro player that uses the given recorder for macro storage.
func NewPlayer(recorder *Recorder) *Player {
	return &Player{
		recorder: recorder,
	}
}

// Play replays a macro count times (minimum 1). Register '@' replays the
// last played register. Playback is synchronous and stops at the first
// error returned by handler. A macro cannot start another one while it
// plays.
func (p *Player) Play(register rune, count int, handler EventHandler) error {
	if register == '@' {
		register = p.recorder.LastPlayed()
		if register == 0 {
			return ErrNothingPlayed
		}
	}
	name := NormalizeRegister(register)
	if name == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, register)
	}

	events := p.recorder.Get(name)
	if len(events) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyRegister, name)
	}

	if !p.playing.CompareAndSwap(false, true) {
		return ErrAlreadyPlaying
	}
	defer p.playing.Store(false)

	p.recorder.SetLastPlayed(name)
	for range max(count, 1) {
		for _, event := range events {
			if err := handler(event); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsPlaying returns true if a macro is currently being played.
func (p *Player) IsPlaying() bool {
	return p.playing.Load()
}
