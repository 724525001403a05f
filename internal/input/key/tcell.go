package key

import "github.com/gdamore/tcell/v2"

// FromTcell converts a terminal key event into an Event.
// Control characters reported as dedicated tcell keys (KeyCtrlA..KeyCtrlZ)
// become Ctrl-modified runes. Keys with no equivalent yield the zero Event.
func FromTcell(ev *tcell.EventKey) Event {
	mods := fromTcellMod(ev.Modifiers())

	switch k := ev.Key(); k {
	case tcell.KeyRune:
		return NewEvent(KeyRune, ev.Rune(), mods)
	case tcell.KeyEscape:
		return Special(KeyEscape, mods)
	case tcell.KeyEnter:
		return Special(KeyEnter, mods)
	case tcell.KeyTab:
		return Special(KeyTab, mods)
	case tcell.KeyBacktab:
		return Special(KeyTab, mods.With(ModShift))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Special(KeyBackspace, mods.Without(ModCtrl))
	case tcell.KeyDelete:
		return Special(KeyDelete, mods)
	case tcell.KeyInsert:
		return Special(KeyInsert, mods)
	case tcell.KeyHome:
		return Special(KeyHome, mods)
	case tcell.KeyEnd:
		return Special(KeyEnd, mods)
	case tcell.KeyPgUp:
		return Special(KeyPageUp, mods)
	case tcell.KeyPgDn:
		return Special(KeyPageDown, mods)
	case tcell.KeyUp:
		return Special(KeyUp, mods)
	case tcell.KeyDown:
		return Special(KeyDown, mods)
	case tcell.KeyLeft:
		return Special(KeyLeft, mods)
	case tcell.KeyRight:
		return Special(KeyRight, mods)
	default:
		if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
			return Special(KeyF1+Key(k-tcell.KeyF1), mods)
		}
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			return NewEvent(KeyRune, 'a'+rune(k-tcell.KeyCtrlA), mods.With(ModCtrl))
		}
		if k == tcell.KeyCtrlRightSq {
			return Ctrl(']')
		}
		return Event{}
	}
}

func fromTcellMod(m tcell.ModMask) Modifier {
	var mods Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(ModMeta)
	}
	return mods
}
