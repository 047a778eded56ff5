package cursor

import "testing"

// A 30-lecture course in a 10-row viewport with a 2-row scroll margin is
// the shape the panels drive this with.
const (
	listLen = 30
	height  = 10
	margin  = 2
)

func TestMove_ClampsToList(t *testing.T) {
	c := New(margin)

	c.Move(-5, listLen, height)
	if c.Pos() != 0 {
		t.Errorf("pos after moving above start = %d, want 0", c.Pos())
	}

	c.Move(100, listLen, height)
	if c.Pos() != listLen-1 {
		t.Errorf("pos after moving past end = %d, want %d", c.Pos(), listLen-1)
	}
}

func TestMove_ScrollsWithMargin(t *testing.T) {
	c := New(margin)

	// Walk down to the row where the margin forces the first scroll.
	for range height - margin {
		c.Move(1, listLen, height)
	}
	if c.Offset() != 1 {
		t.Errorf("offset after crossing the bottom margin = %d, want 1", c.Offset())
	}

	// Walking back up scrolls again once the selection nears the top edge.
	for range height {
		c.Move(-1, listLen, height)
	}
	if c.Offset() != 0 {
		t.Errorf("offset after returning to the top = %d, want 0", c.Offset())
	}
}

func TestMove_EmptyListIsNoop(t *testing.T) {
	c := New(margin)
	c.Move(1, 0, height)
	if c.Pos() != 0 || c.Offset() != 0 {
		t.Errorf("cursor moved on empty list: pos=%d offset=%d", c.Pos(), c.Offset())
	}
}

func TestJump_KeepsSelectionVisible(t *testing.T) {
	c := New(margin)

	// Resuming a course mid-way jumps straight to the current lecture.
	c.Jump(20, listLen, height)
	if c.Pos() != 20 {
		t.Errorf("pos = %d, want 20", c.Pos())
	}
	if c.Pos() < c.Offset() || c.Pos() >= c.Offset()+height {
		t.Errorf("selection %d not visible in [%d,%d)", c.Pos(), c.Offset(), c.Offset()+height)
	}

	c.Jump(500, listLen, height)
	if c.Pos() != listLen-1 {
		t.Errorf("pos after over-jump = %d, want %d", c.Pos(), listLen-1)
	}
}

func TestClampToBounds_ShrunkList(t *testing.T) {
	c := New(margin)
	c.Jump(25, listLen, height)

	if !c.ClampToBounds(10) {
		t.Error("ClampToBounds should report the adjustment")
	}
	if c.Pos() != 9 {
		t.Errorf("pos = %d, want 9", c.Pos())
	}

	if c.ClampToBounds(10) {
		t.Error("second ClampToBounds should be a no-op")
	}

	if !c.ClampToBounds(0) {
		t.Error("emptying the list should reset the cursor")
	}
	if c.Pos() != 0 || c.Offset() != 0 {
		t.Errorf("cursor not reset: pos=%d offset=%d", c.Pos(), c.Offset())
	}
}

func TestHandleKey_Navigation(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		wantPos int
	}{
		{"down", []string{"j", "j", "down"}, 3},
		{"up clamps", []string{"k", "up"}, 0},
		{"end", []string{"G"}, listLen - 1},
		{"end then home", []string{"G", "g"}, 0},
		{"half page down", []string{"ctrl+d"}, height / 2},
		{"half page round trip", []string{"ctrl+d", "ctrl+u"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(margin)
			for _, key := range tt.keys {
				if !c.HandleKey(key, listLen, height) {
					t.Fatalf("HandleKey(%q) not handled", key)
				}
			}
			if c.Pos() != tt.wantPos {
				t.Errorf("pos = %d, want %d", c.Pos(), tt.wantPos)
			}
		})
	}
}

func TestHandleKey_IgnoresUnboundKeys(t *testing.T) {
	c := New(margin)
	for _, key := range []string{"x", "enter", "space", "left"} {
		if c.HandleKey(key, listLen, height) {
			t.Errorf("HandleKey(%q) claimed an unbound key", key)
		}
	}
}

func TestHandleKey_HomeResetsScroll(t *testing.T) {
	c := New(margin)
	c.Jump(listLen-1, listLen, height)
	if c.Offset() == 0 {
		t.Fatal("expected a scrolled viewport before the reset")
	}

	c.HandleKey("g", listLen, height)
	if c.Pos() != 0 || c.Offset() != 0 {
		t.Errorf("after g: pos=%d offset=%d, want 0/0", c.Pos(), c.Offset())
	}
}
