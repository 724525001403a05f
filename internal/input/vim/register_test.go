package vim

import (
	"errors"
	"testing"
)

type fakeClipboard struct {
	content string
	err     error
}

func (f *fakeClipboard) Get() (string, error) { return f.content, f.err }

func (f *fakeClipboard) Set(content string) error {
	if f.err != nil {
		return f.err
	}
	f.content = content
	return nil
}

func TestRegisterStoreYank(t *testing.T) {
	rs := NewRegisterStore()
	if err := rs.Yank(0, Register{Text: "foo"}); err != nil {
		t.Fatal(err)
	}
	for _, name := range []rune{0, '"', '0'} {
		reg, err := rs.Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if reg.Text != "foo" {
			t.Errorf("Get(%q) = %q, want %q", name, reg.Text, "foo")
		}
	}
}

func TestRegisterStoreDelete(t *testing.T) {
	rs := NewRegisterStore()
	_ = rs.Delete(0, Register{Text: "one", Linewise: true}, false)
	_ = rs.Delete(0, Register{Text: "two", Linewise: true}, false)
	_ = rs.Delete(0, Register{Text: "x"}, false)

	tests := []struct {
		name rune
		want string
	}{
		{'1', "two"},
		{'2', "one"},
		{'-', "x"},
		{'"', "x"},
	}
	for _, tt := range tests {
		reg, _ := rs.Get(tt.name)
		if reg.Text != tt.want {
			t.Errorf("register %q = %q, want %q", tt.name, reg.Text, tt.want)
		}
	}
}

func TestRegisterStoreAppend(t *testing.T) {
	rs := NewRegisterStore()
	_ = rs.Yank('a', Register{Text: "foo"})
	_ = rs.Yank('A', Register{Text: "bar"})
	reg, _ := rs.Get('a')
	if reg.Text != "foobar" {
		t.Errorf("append = %q, want %q", reg.Text, "foobar")
	}

	_ = rs.Yank('b', Register{Text: "one", Linewise: true})
	_ = rs.Yank('B', Register{Text: "two"})
	reg, _ = rs.Get('b')
	if reg != (Register{Text: "one\ntwo", Linewise: true}) {
		t.Errorf("linewise append = %+v", reg)
	}
}

func TestRegisterStoreInvalid(t *testing.T) {
	rs := NewRegisterStore()
	if _, err := rs.Get('!'); !errors.Is(err, ErrInvalidRegister) {
		t.Errorf("Get('!') err = %v", err)
	}
	if err := rs.Yank('.', Register{Text: "x"}); !errors.Is(err, ErrInvalidRegister) {
		t.Errorf("Yank('.') err = %v", err)
	}
	rs.SetReadOnly('.', "typed")
	if reg, _ := rs.Get('.'); reg.Text != "typed" {
		t.Errorf("'.' = %q", reg.Text)
	}
}

func TestRegisterStoreClipboard(t *testing.T) {
	rs := NewRegisterStore()
	cb := &fakeClipboard{}
	rs.SetClipboard(cb)

	if err := rs.Yank('+', Register{Text: "line", Linewise: true}); err != nil {
		t.Fatal(err)
	}
	if cb.content != "line\n" {
		t.Errorf("clipboard = %q, want %q", cb.content, "line\n")
	}
	reg, err := rs.Get('*')
	if err != nil {
		t.Fatal(err)
	}
	if reg != (Register{Text: "line", Linewise: true}) {
		t.Errorf("Get('*') = %+v", reg)
	}

	cb.err = errors.New("no display")
	if _, err := rs.Get('+'); err == nil {
		t.Error("expected clipboard error")
	}
}

func TestIsValidRegister(t *testing.T) {
	for _, r := range []rune{'"', 'a', 'Z', '0', '9', '-', '_', '+', '*', '.', ':', '/'} {
		if !IsValidRegister(r) {
			t.Errorf("IsValidRegister(%q) = false", r)
		}
	}
	for _, r := range []rune{'!', '#', ' ', 'é'} {
		if IsValidRegister(r) {
			t.Errorf("IsValidRegister(%q) = true", r)
		}
	}
}
