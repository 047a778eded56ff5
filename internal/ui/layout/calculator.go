// Package layout provides pure functions for UI dimension calculations.
package layout

// MaxPanelWidth caps the side panel so the stage keeps most of the screen
// on wide terminals.
const MaxPanelWidth = 44

// PanelWidth returns the width of an open side panel: capped, and never
// more than half the terminal.
func PanelWidth(windowWidth int) int {
	w := windowWidth / 2
	if w > MaxPanelWidth {
		w = MaxPanelWidth
	}
	if w < 0 {
		w = 0
	}
	return w
}

// StageWidth returns the width left for the player stage.
func StageWidth(windowWidth int, panelOpen bool) int {
	w := windowWidth
	if panelOpen {
		w -= PanelWidth(windowWidth)
	}
	if w < 0 {
		w = 0
	}
	return w
}

// StageHeight returns the height left above the control bar.
func StageHeight(windowHeight, barHeight int) int {
	h := windowHeight - barHeight
	if h < 0 {
		h = 0
	}
	return h
}
