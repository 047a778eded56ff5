package session

// StateChange is emitted when the playback state machine transitions.
type StateChange struct {
	Previous Status
	Current  Status
}

// PositionChange is emitted when the adopted position advances, either from
// an accepted backend update or from an optimistic seek.
type PositionChange struct {
	Position float64
	Duration float64
	Buffered float64
}

// SettingsChange is emitted when volume, mute or rate changes.
type SettingsChange struct {
	Volume float64
	Muted  bool
	Rate   float64
}

// FullscreenChange is emitted when fullscreen state changes, whether from a
// local intent or a backend-reported transition.
type FullscreenChange struct {
	Fullscreen bool
}

// ControlsChange is emitted when the control surface visibility flips.
type ControlsChange struct {
	Visible bool
}

// EndedEvent is emitted once when the media plays to completion.
type EndedEvent struct {
	Duration float64
}

// ErrorEvent is emitted when a backend operation fails.
type ErrorEvent struct {
	Operation string // e.g. "play", "seek"
	Err       error
}
