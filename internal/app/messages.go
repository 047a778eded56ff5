package app

import (
	"github.com/lectern-tui/lectern/internal/backend"
	"github.com/lectern-tui/lectern/internal/doubt"
)

// lectureLoadedMsg lands when a backend has been built for a lecture. Seq
// ties it to the load that requested it; stale results are destroyed.
type lectureLoadedMsg struct {
	Seq     int
	Backend backend.Backend
	Resume  float64 // checkpoint position to seek to once the duration is known
	Resumed bool    // true when the backend already started at Resume
	Err     error
}

// sessionStateMsg mirrors session.StateChange onto the tea loop.
type sessionStateMsg struct {
	Previous, Current int
}

// sessionPositionMsg mirrors session.PositionChange.
type sessionPositionMsg struct {
	Position float64
	Duration float64
	Buffered float64
}

// sessionSettingsMsg mirrors session.SettingsChange.
type sessionSettingsMsg struct {
	Volume float64
	Muted  bool
	Rate   float64
}

// sessionFullscreenMsg mirrors session.FullscreenChange.
type sessionFullscreenMsg struct {
	Fullscreen bool
}

// sessionControlsMsg mirrors session.ControlsChange.
type sessionControlsMsg struct {
	Visible bool
}

// sessionEndedMsg mirrors session.EndedEvent.
type sessionEndedMsg struct{}

// sessionErrorMsg mirrors session.ErrorEvent.
type sessionErrorMsg struct {
	Operation string
	Err       error
}

// sessionClosedMsg is sent when the subscription closes after a lecture
// switch or shutdown.
type sessionClosedMsg struct{}

// stderrLineMsg carries one captured stderr line from the audio layer.
type stderrLineMsg struct {
	Line string
}

// doubtSubmittedMsg lands when the host has accepted or rejected a question.
type doubtSubmittedMsg struct {
	Doubt doubt.Doubt
	Err   error
}
