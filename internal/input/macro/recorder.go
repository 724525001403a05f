package macro

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/modalkeys/internal/input/key"
)

var (
	// ErrInvalidRegister is returned for registers that cannot hold a macro.
	ErrInvalidRegister = errors.New("invalid macro register")

	// ErrAlreadyRecording is returned when recording starts twice.
	ErrAlreadyRecording = errors.New("already recording")

	// ErrEmptyRegister is returned when playing a register with no keys.
	ErrEmptyRegister = errors.New("macro register is empty")

	// ErrAlreadyPlaying is returned when a macro plays another macro.
	ErrAlreadyPlaying = errors.New("already playing a macro")

	// ErrNothingPlayed is returned by "@@" before any macro was played.
	ErrNothingPlayed = errors.New("no macro has been played")
)

// Recorder records key sequences into registers.
type Recorder struct {
	mu         sync.Mutex
	recording  bool
	register   rune
	appending  bool
	events     key.Sequence
	registers  map[rune]key.Sequence
	lastPlayed rune
}

// NewRecorder creates a new macro recorder with empty registers.
func NewRecorder() *Recorder {
	return &Recorder{
		registers: make(map[rune]key.Sequence),
	}
}

// StartRecording begins recording to the specified register. An uppercase
// register appends to its lowercase counterpart when recording stops.
func (r *Recorder) StartRecording(register rune) error {
	name := NormalizeRegister(register)
	if name == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, register)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return fmt.Errorf("%w into %q", ErrAlreadyRecording, r.register)
	}

	r.recording = true
	r.register = name
	r.appending = IsAppendRegister(register)
	r.events = nil
	return nil
}

// StopRecording ends the current recording and saves it to the register.
// It returns the register, or 0 when nothing was being recorded.
func (r *Recorder) StopRecording() rune {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return 0
	}

	r.recording = false
	saved := append(key.Sequence(nil), r.events...)
	if r.appending {
		saved = append(r.registers[r.register], saved...)
	}
	if len(saved) > 0 {
		r.registers[r.register] = saved
	} else {
		delete(r.registers, r.register)
	}
	r.events = nil
	return r.register
}

// IsRecording returns true if currently recording.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// CurrentRegister returns the register being recorded to, or 0 if not recording.
func (r *Recorder) CurrentRegister() rune {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return r.register
	}
	return 0
}

// Record adds a key event to the current recording.
// Does nothing if not recording.
func (r *Recorder) Record(event key.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		r.events = append(r.events, event)
	}
}

// Get returns a copy of the macro stored in a register.
func (r *Recorder) Get(register rune) key.Sequence {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(key.Sequence(nil), r.registers[NormalizeRegister(register)]...)
}

// Set stores a macro in a register, replacing any existing content.
func (r *Recorder) Set(register rune, events key.Sequence) error {
	name := NormalizeRegister(register)
	if name == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, register)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(events) == 0 {
		delete(r.registers, name)
		return nil
	}
	r.registers[name] = append(key.Sequence(nil), events...)
	return nil
}

// SetLastPlayed sets the register "@@" plays.
func (r *Recorder) SetLastPlayed(register rune) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastPlayed = register
}

// LastPlayed returns the register "@@" plays, or 0 if no macro has been
// played.
func (r *Recorder) LastPlayed() rune {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPlayed
}
