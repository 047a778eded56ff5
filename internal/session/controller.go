package session

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/lectern-tui/lectern/internal/backend"
	"github.com/lectern-tui/lectern/internal/log"
)

const (
	// seekGuard is how long backend-reported positions are ignored after an
	// optimistic seek, so a stale poll cannot snap the progress bar back.
	seekGuard = 500 * time.Millisecond

	// controlsAutoHide is the inactivity delay before the control surface
	// hides. Hiding only happens while playing.
	controlsAutoHide = 3 * time.Second
)

// Controller drives one backend through the playback state machine and is
// the single writer of PlaybackState. Observers subscribe for events and
// express intents through the exported methods.
type Controller struct {
	mu sync.Mutex

	backend  backend.Backend
	state    PlaybackState
	seekStep float64

	explicitMute    bool
	seekGuardUntil  time.Time
	resumeAfterSeek Status

	hideTimer *time.Timer
	autoHide  time.Duration
	now       func() time.Time

	subs   []*Subscription
	subsMu sync.RWMutex

	closed bool
}

// Options configures a new controller.
type Options struct {
	// SeekStep is the skip distance in seconds for SkipForward/SkipBackward.
	SeekStep float64
	// Volume is the initial volume in [0, 1].
	Volume float64
}

// NewController creates a controller with no backend attached.
func NewController(opts Options) *Controller {
	if opts.SeekStep <= 0 {
		opts.SeekStep = 10
	}
	c := &Controller{
		seekStep: opts.SeekStep,
		autoHide: controlsAutoHide,
		now:      time.Now,
		state: PlaybackState{
			Status:          StatusIdle,
			Volume:          clamp(opts.Volume, 0, 1),
			Rate:            1.0,
			ControlsVisible: true,
		},
	}
	return c
}

// Attach binds a backend and starts consuming its update stream. The
// controller stays in Idle until the first update carrying a duration.
func (c *Controller) Attach(b backend.Backend) {
	c.mu.Lock()
	c.backend = b
	c.mu.Unlock()
	b.StartUpdates(c.handleUpdate)
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// State returns a snapshot of the current playback state.
func (c *Controller) State() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Position returns the current position in seconds.
func (c *Controller) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Position
}

// Duration returns the media duration in seconds, 0 if not yet known.
func (c *Controller) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Duration
}

// IsFullscreen reports whether the backend is in fullscreen.
func (c *Controller) IsFullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Fullscreen
}

// handleUpdate folds a backend update into the canonical state. Positions
// are discarded while the seek guard is open; everything else is adopted.
func (c *Controller) handleUpdate(u backend.Update) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	prev := c.state.Status

	if u.Duration > 0 {
		c.state.Duration = u.Duration
		if c.state.Status == StatusIdle {
			c.state.Status = StatusReady
		}
	}

	if !c.now().Before(c.seekGuardUntil) {
		c.state.Position = clamp(u.Position, 0, c.state.Duration)
	}
	c.state.BufferedSeconds = clamp(u.BufferedFraction, 0, 1) * c.state.Duration

	// Backend-initiated play/pause (external pause, buffering stall).
	switch {
	case u.Playing && (c.state.Status == StatusReady || c.state.Status == StatusPaused):
		c.state.Status = StatusPlaying
		c.state.Playing = true
	case !u.Playing && c.state.Status == StatusPlaying:
		c.state.Status = StatusPaused
		c.state.Playing = false
	}

	fullscreenChanged := u.Fullscreen != c.state.Fullscreen
	c.state.Fullscreen = u.Fullscreen

	endedNow := u.Ended && !c.state.Ended
	if u.Ended {
		c.state.Ended = true
		c.state.Playing = false
		if c.state.Duration > 0 {
			c.state.Position = c.state.Duration
		}
		if c.state.Status.IsActive() {
			c.state.Status = StatusPaused
		}
	}

	cur := c.state.Status
	pos := PositionChange{
		Position: c.state.Position,
		Duration: c.state.Duration,
		Buffered: c.state.BufferedSeconds,
	}
	dur := c.state.Duration
	fs := c.state.Fullscreen
	c.mu.Unlock()

	if cur != prev {
		c.emitState(StateChange{Previous: prev, Current: cur})
	}
	c.emitPosition(pos)
	if fullscreenChanged {
		c.emitFullscreen(FullscreenChange{Fullscreen: fs})
	}
	if endedNow {
		c.emitEnded(EndedEvent{Duration: dur})
	}
}

// Play starts or resumes playback. A no-op until the duration is known.
// Playing after the media ended restarts from the beginning.
func (c *Controller) Play() error {
	c.mu.Lock()
	if c.closed || !c.state.Status.IsActive() {
		c.mu.Unlock()
		return nil
	}
	b := c.backend
	prev := c.state.Status

	if c.state.Ended {
		c.state.Ended = false
		c.state.Position = 0
		c.seekGuardUntil = c.now().Add(seekGuard)
		if err := b.SeekTo(0); err != nil {
			c.mu.Unlock()
			c.fail("play", err)
			return fmt.Errorf("start playback: %w", err)
		}
	}

	if err := b.Play(); err != nil {
		c.mu.Unlock()
		c.fail("play", err)
		return fmt.Errorf("start playback: %w", err)
	}
	c.state.Status = StatusPlaying
	c.state.Playing = true
	c.showControlsLocked()
	c.mu.Unlock()

	c.emitState(StateChange{Previous: prev, Current: StatusPlaying})
	return nil
}

// Pause suspends playback. A no-op until the duration is known.
func (c *Controller) Pause() error {
	c.mu.Lock()
	if c.closed || !c.state.Status.IsActive() {
		c.mu.Unlock()
		return nil
	}
	b := c.backend
	prev := c.state.Status

	if err := b.Pause(); err != nil {
		c.mu.Unlock()
		c.fail("pause", err)
		return fmt.Errorf("pause playback: %w", err)
	}
	c.state.Status = StatusPaused
	c.state.Playing = false
	c.showControlsLocked()
	c.mu.Unlock()

	c.emitState(StateChange{Previous: prev, Current: StatusPaused})
	return nil
}

// TogglePlay flips between playing and paused.
func (c *Controller) TogglePlay() error {
	c.mu.Lock()
	playing := c.state.Playing
	c.mu.Unlock()
	if playing {
		return c.Pause()
	}
	return c.Play()
}

// SeekTo jumps to an absolute position in seconds. The position is adopted
// optimistically and backend-reported positions are suppressed for the guard
// window, so the progress bar never snaps back to a stale poll.
func (c *Controller) SeekTo(seconds float64) error {
	c.mu.Lock()
	if c.closed || !c.state.Status.IsActive() {
		c.mu.Unlock()
		return nil
	}
	b := c.backend
	target := clamp(seconds, 0, c.state.Duration)

	resume := c.state.Status
	if resume == StatusSeeking {
		resume = c.resumeAfterSeek
	}
	c.resumeAfterSeek = resume

	c.state.Status = StatusSeeking
	c.state.Position = target
	if c.state.Ended && target < c.state.Duration {
		c.state.Ended = false
	}
	c.seekGuardUntil = c.now().Add(seekGuard)
	c.showControlsLocked()

	err := b.SeekTo(target)
	c.state.Status = resume
	pos := PositionChange{
		Position: target,
		Duration: c.state.Duration,
		Buffered: c.state.BufferedSeconds,
	}
	c.mu.Unlock()

	c.emitState(StateChange{Previous: resume, Current: StatusSeeking})
	c.emitState(StateChange{Previous: StatusSeeking, Current: resume})
	c.emitPosition(pos)

	if err != nil {
		c.fail("seek", err)
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// SkipForward seeks ahead by the configured step.
func (c *Controller) SkipForward() error {
	return c.SeekTo(c.Position() + c.seekStep)
}

// SkipBackward seeks back by the configured step.
func (c *Controller) SkipBackward() error {
	return c.SeekTo(c.Position() - c.seekStep)
}

// SetVolume sets the volume, clamped to [0, 1]. Changing the volume clears
// an explicit mute; a volume of zero still reports as muted.
func (c *Controller) SetVolume(v float64) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	b := c.backend
	v = math.Round(clamp(v, 0, 1)*100) / 100
	wasMuted := c.state.Muted
	c.state.Volume = v
	c.explicitMute = false
	c.state.Muted = v == 0
	c.showControlsLocked()
	settings := SettingsChange{Volume: v, Muted: c.state.Muted, Rate: c.state.Rate}
	c.mu.Unlock()

	if b != nil {
		if err := b.SetVolume(v); err != nil {
			c.fail("volume", err)
			return fmt.Errorf("set volume: %w", err)
		}
		if wasMuted && v > 0 {
			if err := b.Unmute(); err != nil {
				c.fail("volume", err)
				return fmt.Errorf("set volume: %w", err)
			}
		}
	}
	c.emitSettings(settings)
	return nil
}

// VolumeUp raises the volume by one step.
func (c *Controller) VolumeUp() error {
	c.mu.Lock()
	v := c.state.Volume
	c.mu.Unlock()
	return c.SetVolume(v + VolumeStep)
}

// VolumeDown lowers the volume by one step.
func (c *Controller) VolumeDown() error {
	c.mu.Lock()
	v := c.state.Volume
	c.mu.Unlock()
	return c.SetVolume(v - VolumeStep)
}

// ToggleMute flips the explicit mute flag without touching the volume level.
func (c *Controller) ToggleMute() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	b := c.backend
	c.explicitMute = !c.explicitMute
	c.state.Muted = c.explicitMute || c.state.Volume == 0
	c.showControlsLocked()
	muting := c.explicitMute
	settings := SettingsChange{Volume: c.state.Volume, Muted: c.state.Muted, Rate: c.state.Rate}
	c.mu.Unlock()

	if b != nil {
		var err error
		if muting {
			err = b.Mute()
		} else {
			err = b.Unmute()
		}
		if err != nil {
			c.fail("mute", err)
			return fmt.Errorf("set volume: %w", err)
		}
	}
	c.emitSettings(settings)
	return nil
}

// SetRate sets the playback speed, clamped to [MinRate, MaxRate] and rounded
// to the nearest step. A no-op until the duration is known.
func (c *Controller) SetRate(rate float64) error {
	c.mu.Lock()
	if c.closed || !c.state.Status.IsActive() {
		c.mu.Unlock()
		return nil
	}
	b := c.backend
	rate = clamp(math.Round(rate/RateStep)*RateStep, MinRate, MaxRate)
	c.state.Rate = rate
	c.showControlsLocked()
	settings := SettingsChange{Volume: c.state.Volume, Muted: c.state.Muted, Rate: rate}
	c.mu.Unlock()

	if err := b.SetRate(rate); err != nil {
		c.fail("rate", err)
		return fmt.Errorf("set rate: %w", err)
	}
	c.emitSettings(settings)
	return nil
}

// RateUp raises the playback speed by one step.
func (c *Controller) RateUp() error {
	c.mu.Lock()
	r := c.state.Rate
	c.mu.Unlock()
	return c.SetRate(r + RateStep)
}

// RateDown lowers the playback speed by one step.
func (c *Controller) RateDown() error {
	c.mu.Lock()
	r := c.state.Rate
	c.mu.Unlock()
	return c.SetRate(r - RateStep)
}

// ToggleFullscreen flips fullscreen on the backend.
func (c *Controller) ToggleFullscreen() error {
	c.mu.Lock()
	if c.closed || !c.state.Status.IsActive() {
		c.mu.Unlock()
		return nil
	}
	b := c.backend
	target := !c.state.Fullscreen
	c.state.Fullscreen = target
	c.showControlsLocked()
	c.mu.Unlock()

	if err := b.SetFullscreen(target); err != nil {
		c.fail("fullscreen", err)
		return fmt.Errorf("toggle fullscreen: %w", err)
	}
	c.emitFullscreen(FullscreenChange{Fullscreen: target})
	return nil
}

// ShowControls reveals the control surface and restarts the auto-hide
// countdown. Any user interaction routes through here.
func (c *Controller) ShowControls() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	changed := !c.state.ControlsVisible
	c.showControlsLocked()
	c.mu.Unlock()
	if changed {
		c.emitControls(ControlsChange{Visible: true})
	}
}

// showControlsLocked makes controls visible and re-arms the hide timer.
// Caller must hold c.mu.
func (c *Controller) showControlsLocked() {
	c.state.ControlsVisible = true
	if c.hideTimer != nil {
		c.hideTimer.Stop()
	}
	c.hideTimer = time.AfterFunc(c.autoHide, c.hideControls)
}

// hideControls fires on the auto-hide timer. Controls only hide while
// playing; a paused or seeking session keeps them on screen.
func (c *Controller) hideControls() {
	c.mu.Lock()
	if c.closed || c.state.Status != StatusPlaying || !c.state.ControlsVisible {
		c.mu.Unlock()
		return
	}
	c.state.ControlsVisible = false
	c.mu.Unlock()
	c.emitControls(ControlsChange{Visible: false})
}

// Close stops the update stream, destroys the backend and closes all
// subscriptions. Safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.hideTimer != nil {
		c.hideTimer.Stop()
	}
	b := c.backend
	c.backend = nil
	c.mu.Unlock()

	var err error
	if b != nil {
		b.StopUpdates()
		if derr := b.Destroy(); derr != nil {
			log.Errorf("session: destroying backend: %v", derr)
			err = fmt.Errorf("destroy backend: %w", derr)
		}
	}

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()

	return err
}

func (c *Controller) fail(op string, err error) {
	log.Errorf("session: %s: %v", op, err)
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendError(ErrorEvent{Operation: op, Err: err})
	}
}

func (c *Controller) emitState(e StateChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendState(e)
	}
}

func (c *Controller) emitPosition(e PositionChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendPosition(e)
	}
}

func (c *Controller) emitSettings(e SettingsChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendSettings(e)
	}
}

func (c *Controller) emitFullscreen(e FullscreenChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendFullscreen(e)
	}
}

func (c *Controller) emitControls(e ControlsChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendControls(e)
	}
}

func (c *Controller) emitEnded(e EndedEvent) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendEnded(e)
	}
}
