package session

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StateChanged      <-chan StateChange
	PositionChanged   <-chan PositionChange
	SettingsChanged   <-chan SettingsChange
	FullscreenChanged <-chan FullscreenChange
	ControlsChanged   <-chan ControlsChange
	Ended             <-chan EndedEvent
	Error             <-chan ErrorEvent
	Done              <-chan struct{}

	// Internal write channels
	stateCh      chan StateChange
	positionCh   chan PositionChange
	settingsCh   chan SettingsChange
	fullscreenCh chan FullscreenChange
	controlsCh   chan ControlsChange
	endedCh      chan EndedEvent
	errorCh      chan ErrorEvent
	doneCh       chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:      make(chan StateChange, eventBufferSize),
		positionCh:   make(chan PositionChange, eventBufferSize),
		settingsCh:   make(chan SettingsChange, eventBufferSize),
		fullscreenCh: make(chan FullscreenChange, eventBufferSize),
		controlsCh:   make(chan ControlsChange, eventBufferSize),
		endedCh:      make(chan EndedEvent, 1),
		errorCh:      make(chan ErrorEvent, eventBufferSize),
		doneCh:       make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.PositionChanged = s.positionCh
	s.SettingsChanged = s.settingsCh
	s.FullscreenChanged = s.fullscreenCh
	s.ControlsChanged = s.controlsCh
	s.Ended = s.endedCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendState sends a state change event (non-blocking).
func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendPosition sends a position change event (non-blocking).
func (s *Subscription) sendPosition(e PositionChange) {
	select {
	case s.positionCh <- e:
	default:
	}
}

// sendSettings sends a settings change event (non-blocking).
func (s *Subscription) sendSettings(e SettingsChange) {
	select {
	case s.settingsCh <- e:
	default:
	}
}

// sendFullscreen sends a fullscreen change event (non-blocking).
func (s *Subscription) sendFullscreen(e FullscreenChange) {
	select {
	case s.fullscreenCh <- e:
	default:
	}
}

// sendControls sends a controls visibility event (non-blocking).
func (s *Subscription) sendControls(e ControlsChange) {
	select {
	case s.controlsCh <- e:
	default:
	}
}

// sendEnded sends the end-of-media event (non-blocking).
func (s *Subscription) sendEnded(e EndedEvent) {
	select {
	case s.endedCh <- e:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
