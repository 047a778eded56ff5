package backend

import "sync"

// Mock is a test double for Backend.
type Mock struct {
	mu         sync.Mutex
	playing    bool
	position   float64
	duration   float64
	buffered   float64
	volume     float64
	muted      bool
	rate       float64
	fullscreen bool
	destroyed  bool

	playCalls    int
	pauseCalls   int
	seekCalls    []float64
	destroyCalls int

	updateFn func(Update)
}

// Verify Mock implements Backend at compile time.
var _ Backend = (*Mock)(nil)

// NewMock creates a new mock backend for testing.
func NewMock() *Mock {
	return &Mock{volume: 1, rate: 1, buffered: 1}
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return ErrDestroyed
	}
	m.playing = true
	m.playCalls++
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return ErrDestroyed
	}
	m.playing = false
	m.pauseCalls++
	return nil
}

func (m *Mock) SeekTo(seconds float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return ErrDestroyed
	}
	m.position = seconds
	m.seekCalls = append(m.seekCalls, seconds)
	return nil
}

func (m *Mock) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) BufferedFraction() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffered
}

func (m *Mock) SetVolume(v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return ErrDestroyed
	}
	m.volume = clampUnit(v)
	return nil
}

func (m *Mock) Mute() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return ErrDestroyed
	}
	m.muted = true
	return nil
}

func (m *Mock) Unmute() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return ErrDestroyed
	}
	m.muted = false
	return nil
}

func (m *Mock) SetRate(r float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return ErrDestroyed
	}
	m.rate = r
	return nil
}

func (m *Mock) SetFullscreen(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return ErrDestroyed
	}
	m.fullscreen = on
	return nil
}

func (m *Mock) StartUpdates(fn func(Update)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateFn = fn
}

func (m *Mock) StopUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateFn = nil
}

func (m *Mock) Destroy() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return nil
	}
	m.destroyed = true
	m.updateFn = nil
	m.destroyCalls++
	return nil
}

// Test helpers

func (m *Mock) SetDuration(d float64) { m.mu.Lock(); m.duration = d; m.mu.Unlock() }

func (m *Mock) SetPosition(p float64) { m.mu.Lock(); m.position = p; m.mu.Unlock() }

func (m *Mock) SetBuffered(b float64) { m.mu.Lock(); m.buffered = b; m.mu.Unlock() }

func (m *Mock) Volume() float64 { m.mu.Lock(); defer m.mu.Unlock(); return m.volume }

func (m *Mock) Muted() bool { m.mu.Lock(); defer m.mu.Unlock(); return m.muted }

func (m *Mock) Rate() float64 { m.mu.Lock(); defer m.mu.Unlock(); return m.rate }

func (m *Mock) Fullscreen() bool { m.mu.Lock(); defer m.mu.Unlock(); return m.fullscreen }

func (m *Mock) Playing() bool { m.mu.Lock(); defer m.mu.Unlock(); return m.playing }

func (m *Mock) Destroyed() bool { m.mu.Lock(); defer m.mu.Unlock(); return m.destroyed }

func (m *Mock) PlayCalls() int { m.mu.Lock(); defer m.mu.Unlock(); return m.playCalls }

func (m *Mock) PauseCalls() int { m.mu.Lock(); defer m.mu.Unlock(); return m.pauseCalls }

func (m *Mock) SeekCalls() []float64 { m.mu.Lock(); defer m.mu.Unlock(); return m.seekCalls }

func (m *Mock) DestroyCalls() int { m.mu.Lock(); defer m.mu.Unlock(); return m.destroyCalls }

// EmitUpdate pushes an update through the shim, simulating a poll tick or
// a pipeline event.
func (m *Mock) EmitUpdate(u Update) {
	m.mu.Lock()
	fn := m.updateFn
	m.mu.Unlock()
	if fn != nil {
		fn(u)
	}
}
