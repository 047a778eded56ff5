package ui

// Base carries the focus flag and dimensions every panel needs. Embed it in
// a panel model; the app drives SetFocused and SetSize on layout changes.
type Base struct {
	width, height int
	focused       bool
}

// SetFocused marks the panel as the keyboard target.
func (b *Base) SetFocused(focused bool) {
	b.focused = focused
}

// IsFocused reports whether the panel owns the keyboard.
func (b Base) IsFocused() bool {
	return b.focused
}

// SetSize records the panel dimensions.
func (b *Base) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// Width returns the panel width.
func (b Base) Width() int {
	return b.width
}

// Height returns the panel height.
func (b Base) Height() int {
	return b.height
}
