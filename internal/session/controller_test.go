package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-tui/lectern/internal/backend"
)

func newTestController(t *testing.T) (*Controller, *backend.Mock) {
	t.Helper()
	c := NewController(Options{SeekStep: 10, Volume: 1.0})
	m := backend.NewMock()
	c.Attach(m)
	t.Cleanup(func() { _ = c.Close() })
	return c, m
}

// ready pushes a first update carrying a duration so the controller leaves
// Idle.
func ready(m *backend.Mock, duration float64) {
	m.SetDuration(duration)
	m.EmitUpdate(backend.Update{Duration: duration, BufferedFraction: 1})
}

func TestController_IdleUntilDurationKnown(t *testing.T) {
	c, m := newTestController(t)

	assert.Equal(t, StatusIdle, c.State().Status)

	// Transport intents are no-ops before the duration is known.
	require.NoError(t, c.Play())
	require.NoError(t, c.SeekTo(42))
	require.NoError(t, c.SetRate(1.5))
	assert.Equal(t, 0, m.PlayCalls())
	assert.Empty(t, m.SeekCalls())
	assert.Equal(t, StatusIdle, c.State().Status)

	ready(m, 300)
	assert.Equal(t, StatusReady, c.State().Status)
	assert.Equal(t, 300.0, c.Duration())
}

func TestController_PlayPauseToggle(t *testing.T) {
	c, m := newTestController(t)
	ready(m, 300)

	require.NoError(t, c.Play())
	assert.Equal(t, StatusPlaying, c.State().Status)
	assert.True(t, c.State().Playing)
	assert.Equal(t, 1, m.PlayCalls())

	require.NoError(t, c.Pause())
	assert.Equal(t, StatusPaused, c.State().Status)
	assert.Equal(t, 1, m.PauseCalls())

	require.NoError(t, c.TogglePlay())
	assert.Equal(t, StatusPlaying, c.State().Status)
	require.NoError(t, c.TogglePlay())
	assert.Equal(t, StatusPaused, c.State().Status)
}

func TestController_SeekGuardSuppressesStalePolls(t *testing.T) {
	c, m := newTestController(t)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	ready(m, 300)
	m.EmitUpdate(backend.Update{Duration: 300, Position: 12.0, Playing: true})
	require.Equal(t, 12.0, c.Position())

	require.NoError(t, c.SeekTo(40))
	assert.Equal(t, 40.0, c.Position())

	// A poll taken before the seek landed arrives within the guard window:
	// it must not snap the position back.
	m.EmitUpdate(backend.Update{Duration: 300, Position: 12.3, Playing: true})
	assert.Equal(t, 40.0, c.Position())

	// After the guard expires, backend positions are adopted again.
	now = now.Add(600 * time.Millisecond)
	m.EmitUpdate(backend.Update{Duration: 300, Position: 40.5, Playing: true})
	assert.Equal(t, 40.5, c.Position())
}

func TestController_SeekPreservesPlayState(t *testing.T) {
	c, m := newTestController(t)
	ready(m, 300)

	require.NoError(t, c.Play())
	require.NoError(t, c.SeekTo(100))
	assert.Equal(t, StatusPlaying, c.State().Status)

	require.NoError(t, c.Pause())
	require.NoError(t, c.SeekTo(200))
	assert.Equal(t, StatusPaused, c.State().Status)
}

func TestController_SeekClampsToMediaBounds(t *testing.T) {
	c, m := newTestController(t)
	ready(m, 300)

	require.NoError(t, c.SeekTo(-5))
	assert.Equal(t, 0.0, c.Position())

	require.NoError(t, c.SeekTo(1e9))
	assert.Equal(t, 300.0, c.Position())

	calls := m.SeekCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, []float64{0, 300}, calls)
}

func TestController_SkipUsesConfiguredStep(t *testing.T) {
	c, m := newTestController(t)
	ready(m, 300)
	m.EmitUpdate(backend.Update{Duration: 300, Position: 50})

	require.NoError(t, c.SkipForward())
	assert.Equal(t, 60.0, c.Position())
	require.NoError(t, c.SkipBackward())
	require.NoError(t, c.SkipBackward())
	assert.Equal(t, 40.0, c.Position())
}

func TestController_VolumeStepsReachExactBounds(t *testing.T) {
	c, m := newTestController(t)
	require.NoError(t, c.SetVolume(0.5))

	for range 5 {
		require.NoError(t, c.VolumeUp())
	}
	assert.Equal(t, 1.0, c.State().Volume)
	assert.Equal(t, 1.0, m.Volume())

	// Further steps stay clamped.
	require.NoError(t, c.VolumeUp())
	assert.Equal(t, 1.0, c.State().Volume)

	for range 12 {
		require.NoError(t, c.VolumeDown())
	}
	assert.Equal(t, 0.0, c.State().Volume)
	assert.True(t, c.State().Muted, "zero volume reports as muted")
}

func TestController_MuteSemantics(t *testing.T) {
	c, m := newTestController(t)
	require.NoError(t, c.SetVolume(0.7))
	assert.False(t, c.State().Muted)

	require.NoError(t, c.ToggleMute())
	assert.True(t, c.State().Muted)
	assert.True(t, m.Muted())
	assert.Equal(t, 0.7, c.State().Volume, "mute keeps the volume level")

	require.NoError(t, c.ToggleMute())
	assert.False(t, c.State().Muted)
	assert.False(t, m.Muted())

	// Changing the volume clears an explicit mute.
	require.NoError(t, c.ToggleMute())
	require.NoError(t, c.VolumeUp())
	assert.False(t, c.State().Muted)
}

func TestController_RateClampedToSteps(t *testing.T) {
	c, m := newTestController(t)
	ready(m, 300)

	assert.Equal(t, 1.0, c.State().Rate)
	for range 8 {
		require.NoError(t, c.RateUp())
	}
	assert.Equal(t, 2.0, c.State().Rate)
	assert.Equal(t, 2.0, m.Rate())

	for range 20 {
		require.NoError(t, c.RateDown())
	}
	assert.Equal(t, 0.25, c.State().Rate)

	require.NoError(t, c.SetRate(1.13))
	assert.Equal(t, 1.25, c.State().Rate, "rates snap to the step grid")
}

func TestController_BackendReportedPauseSyncs(t *testing.T) {
	c, m := newTestController(t)
	ready(m, 300)
	require.NoError(t, c.Play())

	m.EmitUpdate(backend.Update{Duration: 300, Position: 10, Playing: false})
	assert.Equal(t, StatusPaused, c.State().Status)

	m.EmitUpdate(backend.Update{Duration: 300, Position: 10, Playing: true})
	assert.Equal(t, StatusPlaying, c.State().Status)
}

func TestController_FullscreenSyncsFromBackend(t *testing.T) {
	c, m := newTestController(t)
	ready(m, 300)

	require.NoError(t, c.ToggleFullscreen())
	assert.True(t, c.IsFullscreen())
	assert.True(t, m.Fullscreen())

	// Backend-side exit (e.g. user pressed escape in the player window).
	m.EmitUpdate(backend.Update{Duration: 300, Fullscreen: false})
	assert.False(t, c.IsFullscreen())
}

func TestController_EndedParksAtDuration(t *testing.T) {
	c, m := newTestController(t)
	ready(m, 300)
	require.NoError(t, c.Play())

	m.EmitUpdate(backend.Update{Duration: 300, Position: 299.8, Ended: true})
	st := c.State()
	assert.True(t, st.Ended)
	assert.Equal(t, StatusPaused, st.Status)
	assert.Equal(t, 300.0, st.Position)
}

func TestController_PlayAfterEndedRestarts(t *testing.T) {
	c, m := newTestController(t)
	ready(m, 300)
	m.EmitUpdate(backend.Update{Duration: 300, Ended: true})

	require.NoError(t, c.Play())
	st := c.State()
	assert.False(t, st.Ended)
	assert.Equal(t, 0.0, st.Position)
	assert.Equal(t, StatusPlaying, st.Status)
	require.NotEmpty(t, m.SeekCalls())
	assert.Equal(t, 0.0, m.SeekCalls()[0])
}

func TestController_ControlsAutoHideOnlyWhilePlaying(t *testing.T) {
	c, m := newTestController(t)
	c.autoHide = 20 * time.Millisecond
	ready(m, 300)

	require.NoError(t, c.Pause())
	time.Sleep(60 * time.Millisecond)
	assert.True(t, c.State().ControlsVisible, "controls stay up while paused")

	require.NoError(t, c.Play())
	time.Sleep(60 * time.Millisecond)
	assert.False(t, c.State().ControlsVisible)

	c.ShowControls()
	assert.True(t, c.State().ControlsVisible)
	time.Sleep(60 * time.Millisecond)
	assert.False(t, c.State().ControlsVisible, "countdown restarts after interaction")
}

func TestController_SubscriptionReceivesStateChanges(t *testing.T) {
	c, m := newTestController(t)
	sub := c.Subscribe()
	ready(m, 300)

	select {
	case e := <-sub.StateChanged:
		assert.Equal(t, StatusIdle, e.Previous)
		assert.Equal(t, StatusReady, e.Current)
	case <-time.After(time.Second):
		t.Fatal("no state change event")
	}

	require.NoError(t, c.Play())
	select {
	case e := <-sub.StateChanged:
		assert.Equal(t, StatusPlaying, e.Current)
	case <-time.After(time.Second):
		t.Fatal("no state change event")
	}
}

func TestController_CloseDestroysBackendOnce(t *testing.T) {
	c := NewController(Options{})
	m := backend.NewMock()
	c.Attach(m)
	sub := c.Subscribe()

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, 1, m.DestroyCalls())

	select {
	case <-sub.Done:
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}

	// Intents after close are silent no-ops.
	require.NoError(t, c.Play())
	assert.Equal(t, 0, m.PlayCalls())
}
