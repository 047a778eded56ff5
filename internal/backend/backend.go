// Package backend defines the playback capability contract and its two
// concrete adapters: a native in-process audio pipeline and an embedded
// external player driven over JSON-IPC. The session controller only ever
// sees this interface; which adapter is active is decided once, at
// construction time, by the orchestrator.
package backend

import (
	"errors"
	"time"
)

var (
	// ErrDestroyed is returned by control methods called after Destroy.
	ErrDestroyed = errors.New("backend: destroyed")
	// ErrRuntimeFailed indicates the embedded player runtime could not be
	// loaded. Terminal for the session; no automatic retry.
	ErrRuntimeFailed = errors.New("backend: embedded runtime unavailable")
	// ErrNotReady is returned for operations that need a loaded stream.
	ErrNotReady = errors.New("backend: stream not ready")
)

// Update is one playback snapshot delivered through the update shim.
// The native adapter emits these from its own pipeline transitions; the
// embedded adapter emits them from a fixed-interval poll. Consumers cannot
// tell the two styles apart.
type Update struct {
	Position         float64 // seconds
	Duration         float64 // seconds, 0 until known
	BufferedFraction float64 // [0,1]
	Playing          bool
	Fullscreen       bool
	Ended            bool
}

// Backend is the capability contract shared by both adapters.
//
// Queries return zero values when the backend has no stream or has been
// destroyed. Control methods against a destroyed backend return
// ErrDestroyed; destroying twice is a no-op.
type Backend interface {
	Play() error
	Pause() error
	SeekTo(seconds float64) error

	Position() float64
	Duration() float64
	BufferedFraction() float64

	SetVolume(v float64) error // v in [0,1], clamped
	Mute() error
	Unmute() error
	SetRate(r float64) error
	SetFullscreen(on bool) error

	// StartUpdates begins delivering snapshots to fn (~4 Hz plus one per
	// state transition). At most one consumer; a second call replaces the
	// first. StopUpdates is idempotent.
	StartUpdates(fn func(Update))
	StopUpdates()

	// Destroy releases all resources. Exactly-once semantics: the first
	// call tears down, later calls are guarded no-ops.
	Destroy() error
}

// updateInterval is the snapshot cadence for both adapters.
const updateInterval = 250 * time.Millisecond
