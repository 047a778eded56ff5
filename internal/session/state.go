// Package session owns the canonical UI-facing playback state and the
// intent surface over whichever backend adapter is active.
package session

// Status represents the playback state machine.
//
// Valid transitions:
//   - Idle    → Ready   (first known duration)
//   - Ready   → Playing (play intent or backend-reported play)
//   - Playing → Paused  (pause intent or backend-reported pause)
//   - Paused  → Playing (play intent)
//   - any     → Seeking → (Playing|Paused, same as before the seek)
//
// Volume, mute, rate and fullscreen changes never transition the machine.
type Status int

const (
	StatusIdle Status = iota
	StatusReady
	StatusPlaying
	StatusPaused
	StatusSeeking
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusReady:
		return "Ready"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusSeeking:
		return "Seeking"
	default:
		return "Unknown"
	}
}

// IsActive returns true once a duration is known.
func (s Status) IsActive() bool {
	return s != StatusIdle
}

// Rate bounds and step for playback speed.
const (
	MinRate  = 0.25
	MaxRate  = 2.0
	RateStep = 0.25
)

// VolumeStep is the keyboard volume increment.
const VolumeStep = 0.1

// PlaybackState is the canonical UI-facing snapshot. The controller is the
// single writer; observers receive copies and emit intents, never mutate.
type PlaybackState struct {
	Status          Status
	Playing         bool
	Position        float64 // seconds, always within [0, Duration]
	Duration        float64 // seconds, 0 until the backend reports it
	BufferedSeconds float64
	Volume          float64 // [0,1]
	Muted           bool
	Rate            float64 // [MinRate, MaxRate]
	Fullscreen      bool
	ControlsVisible bool
	Ended           bool
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
