package ui

// FocusTrap keeps keyboard focus cycling inside an open dialog and
// remembers where focus came from.
type FocusTrap struct {
	ids      []string
	previous string
}

// NewFocusTrap traps focus within ids, in tab order.
func NewFocusTrap(previous string, ids ...string) *FocusTrap {
	return &FocusTrap{ids: append([]string(nil), ids...), previous: previous}
}

// IDs returns the trapped element ids in tab order
func (t *FocusTrap) IDs() []string {
	return append([]string(nil), t.ids...)
}

// Previous is the element to restore focus to on close
func (t *FocusTrap) Previous() string {
	return t.previous
}

// Next returns the element that Tab (or Shift+Tab when backwards) moves to
// from current. Focus outside the dialog is pulled back to its first or
// last element.
func (t *FocusTrap) Next(current string, backwards bool) string {
	if len(t.ids) == 0 {
		return ""
	}
	pos := -1
	for i, id := range t.ids {
		if id == current {
			pos = i
			break
		}
	}
	if pos < 0 {
		if backwards {
			return t.ids[len(t.ids)-1]
		}
		return t.ids[0]
	}
	if backwards {
		return t.ids[(pos-1+len(t.ids))%len(t.ids)]
	}
	return t.ids[(pos+1)%len(t.ids)]
}
