// Package cursor tracks the selected row and scroll offset of the lecture
// and question lists.
package cursor

// Cursor holds a selection position and the scroll offset keeping it
// visible. List length and viewport height are method arguments because the
// panels resize and refill their lists at runtime.
type Cursor struct {
	pos    int // selected index
	offset int // first visible index
	margin int // rows kept visible above and below the selection
}

// New returns a cursor that scrolls margin rows ahead of the selection.
func New(margin int) Cursor {
	return Cursor{margin: margin}
}

// Pos returns the selected index.
func (c Cursor) Pos() int {
	return c.pos
}

// Offset returns the first visible index.
func (c Cursor) Offset() int {
	return c.offset
}

// Move shifts the selection by delta rows, clamped to the list, and scrolls
// to keep it visible. No-op on an empty list.
func (c *Cursor) Move(delta, listLen, height int) {
	if listLen == 0 {
		return
	}
	c.pos = clampIndex(c.pos+delta, listLen-1)
	c.scrollIntoView(listLen, height)
}

// Jump selects an absolute index, clamped to the list, and scrolls to keep
// it visible. No-op on an empty list.
func (c *Cursor) Jump(pos, listLen, height int) {
	if listLen == 0 {
		return
	}
	c.pos = clampIndex(pos, listLen-1)
	c.scrollIntoView(listLen, height)
}

// ClampToBounds pulls the selection back inside a list that shrank.
// Reports whether anything moved.
func (c *Cursor) ClampToBounds(listLen int) bool {
	if listLen == 0 {
		moved := c.pos != 0 || c.offset != 0
		c.pos = 0
		c.offset = 0
		return moved
	}
	old := c.pos
	c.pos = clampIndex(c.pos, listLen-1)
	return c.pos != old
}

// HandleKey runs the shared list navigation bindings and reports whether
// the key was one of them: j/down, k/up, g/home, G/end, ctrl+d and ctrl+u
// for half pages.
func (c *Cursor) HandleKey(key string, listLen, height int) bool {
	switch key {
	case "j", "down":
		c.Move(1, listLen, height)
	case "k", "up":
		c.Move(-1, listLen, height)
	case "g", "home":
		c.pos = 0
		c.offset = 0
	case "G", "end":
		c.Jump(listLen-1, listLen, height)
	case "ctrl+d":
		c.Move(height/2, listLen, height)
	case "ctrl+u":
		c.Move(-height/2, listLen, height)
	default:
		return false
	}
	return true
}

// scrollIntoView adjusts the offset so the selection sits at least margin
// rows from either viewport edge, where the list allows it.
func (c *Cursor) scrollIntoView(listLen, height int) {
	if height <= 0 || listLen == 0 {
		return
	}
	if c.pos < c.offset+c.margin {
		c.offset = max(c.pos-c.margin, 0)
	}
	if c.pos >= c.offset+height-c.margin {
		c.offset = c.pos - height + c.margin + 1
	}
	c.offset = clampIndex(c.offset, max(listLen-height, 0))
}

func clampIndex(v, maxVal int) int {
	if v < 0 {
		return 0
	}
	return min(v, maxVal)
}
