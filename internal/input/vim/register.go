package vim

import (
	"fmt"
	"sync"
	"unicode"

	"github.com/atotto/clipboard"
)

// Register is the content of one register.
type Register struct {
	Text     string
	Linewise bool
}

// ClipboardProvider abstracts system clipboard access.
type ClipboardProvider interface {
	// Get returns the current clipboard content.
	Get() (string, error)

	// Set sets the clipboard content.
	Set(content string) error
}

// SystemClipboard is the host operating system clipboard.
type SystemClipboard struct{}

// Get implements ClipboardProvider.
func (SystemClipboard) Get() (string, error) {
	return clipboard.ReadAll()
}

// Set implements ClipboardProvider.
func (SystemClipboard) Set(content string) error {
	return clipboard.WriteAll(content)
}

// ClipboardAvailable reports whether the system clipboard can be used.
func ClipboardAvailable() bool {
	return !clipboard.Unsupported
}

// RegisterStore holds the registers.
//
//   - '"' unnamed: the last delete, change or yank
//   - '0' the last yank
//   - '1'-'9' linewise and multi-line deletes, most recent first
//   - '-' small deletes within one line
//   - 'a'-'z' named; 'A'-'Z' append to them
//   - '+', '*' the system clipboard, when one is configured
//   - '_' black hole
//   - '.', ':', '/' last inserted text, command line and search (read-only)
type RegisterStore struct {
	mu        sync.RWMutex
	registers map[rune]Register
	clipboard ClipboardProvider
}

// NewRegisterStore creates an empty register store.
func NewRegisterStore() *RegisterStore {
	return &RegisterStore{registers: make(map[rune]Register)}
}

// SetClipboard sets the clipboard provider behind '+' and '*'.
// A nil provider makes them ordinary registers.
func (rs *RegisterStore) SetClipboard(cb ClipboardProvider) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.clipboard = cb
}

// IsValidRegister returns true if name can be selected with '"'.
func IsValidRegister(name rune) bool {
	switch {
	case name == '"', name == '-', name == '_', name == '.', name == ':', name == '/':
		return true
	case name == '+', name == '*':
		return true
	case name >= '0' && name <= '9':
		return true
	case name >= 'a' && name <= 'z', name >= 'A' && name <= 'Z':
		return true
	default:
		return false
	}
}

func isReadOnly(name rune) bool {
	return name == '.' || name == ':' || name == '/'
}

// Get returns the content of a register.
func (rs *RegisterStore) Get(name rune) (Register, error) {
	if name == 0 {
		name = '"'
	}
	if !IsValidRegister(name) {
		return Register{}, fmt.Errorf("%w: %q", ErrInvalidRegister, name)
	}
	name = unicode.ToLower(name)

	rs.mu.RLock()
	cb := rs.clipboard
	reg := rs.registers[name]
	rs.mu.RUnlock()

	if (name == '+' || name == '*') && cb != nil {
		text, err := cb.Get()
		if err != nil {
			return Register{}, fmt.Errorf("read clipboard: %w", err)
		}
		// Lines copied from elsewhere paste linewise when they end in a newline.
		if n := len(text); n > 0 && text[n-1] == '\n' {
			return Register{Text: text[:n-1], Linewise: true}, nil
		}
		return Register{Text: text}, nil
	}
	return reg, nil
}

// Yank stores yanked text in name (or '0' when name is 0) and the unnamed register.
func (rs *RegisterStore) Yank(name rune, reg Register) error {
	if name == 0 {
		rs.mu.Lock()
		rs.registers['0'] = reg
		rs.registers['"'] = reg
		rs.mu.Unlock()
		return nil
	}
	return rs.store(name, reg)
}

// Delete stores deleted text. Without an explicit register, text that spans
// lines goes to '1' (shifting '1'-'8' down) and smaller deletes to '-'.
func (rs *RegisterStore) Delete(name rune, reg Register, multiline bool) error {
	if name != 0 {
		return rs.store(name, reg)
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if multiline || reg.Linewise {
		for r := '9'; r > '1'; r-- {
			rs.registers[r] = rs.registers[r-1]
		}
		rs.registers['1'] = reg
	} else {
		rs.registers['-'] = reg
	}
	rs.registers['"'] = reg
	return nil
}

// SetReadOnly updates one of the read-only registers ('.', ':' or '/').
func (rs *RegisterStore) SetReadOnly(name rune, text string) {
	if !isReadOnly(name) {
		return
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.registers[name] = Register{Text: text}
}

func (rs *RegisterStore) store(name rune, reg Register) error {
	if !IsValidRegister(name) || isReadOnly(name) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, name)
	}
	if name == '_' {
		return nil
	}

	rs.mu.Lock()
	cb := rs.clipboard
	if (name == '+' || name == '*') && cb != nil {
		rs.mu.Unlock()
		text := reg.Text
		if reg.Linewise {
			text += "\n"
		}
		if err := cb.Set(text); err != nil {
			return fmt.Errorf("write clipboard: %w", err)
		}
		rs.mu.Lock()
		rs.registers['"'] = reg
		rs.mu.Unlock()
		return nil
	}
	defer rs.mu.Unlock()

	if unicode.IsUpper(name) {
		name = unicode.ToLower(name)
		prev := rs.registers[name]
		switch {
		case prev.Text == "":
		case prev.Linewise || reg.Linewise:
			reg = Register{Text: prev.Text + "\n" + reg.Text, Linewise: true}
		default:
			reg = Register{Text: prev.Text + reg.Text}
		}
	}
	rs.registers[name] = reg
	rs.registers['"'] = reg
	return nil
}
