package backend

import (
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// stubStream is a seekable streamer with no audio behind it, enough to
// exercise the pipeline bookkeeping without an output device.
type stubStream struct {
	pos, length int
}

func (s *stubStream) Stream(samples [][2]float64) (int, bool) { return 0, false }
func (s *stubStream) Err() error                              { return nil }
func (s *stubStream) Len() int                                { return s.length }
func (s *stubStream) Position() int                           { return s.pos }
func (s *stubStream) Seek(p int) error                        { s.pos = p; return nil }
func (s *stubStream) Close() error                            { return nil }

func newStubNative(lengthSeconds int) *Native {
	sr := beep.SampleRate(44100)
	st := &stubStream{length: sr.N(time.Duration(lengthSeconds) * time.Second)}
	n := &Native{
		streamer: st,
		format:   beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2},
		finished: make(chan struct{}),
		level:    1,
	}
	n.ctrl = &beep.Ctrl{Streamer: st, Paused: true}
	n.resampler = beep.ResampleRatio(resampleQuality, 1.0, n.ctrl)
	n.volume = &effects.Volume{Streamer: n.resampler, Base: 2}
	return n
}

func waitForUpdate(t *testing.T, updates <-chan Update, match func(Update) bool) Update {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case u := <-updates:
			if match(u) {
				return u
			}
		case <-deadline:
			t.Fatal("timed out waiting for update")
			return Update{}
		}
	}
}

func TestNative_PlayAfterEndRequeues(t *testing.T) {
	n := newStubNative(10)
	defer n.Destroy()

	updates := make(chan Update, 64)
	n.StartUpdates(func(u Update) { updates <- u })

	if err := n.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	// End of media: the completion callback closes the finish channel and
	// the mixer drops the exhausted sequence.
	fin := n.finishedChan()
	close(fin)

	waitForUpdate(t, updates, func(u Update) bool { return u.Ended })

	// Replay must queue a fresh sequence; otherwise the seek would land on
	// a streamer nothing is pulling from.
	if err := n.SeekTo(0); err != nil {
		t.Fatalf("SeekTo: %v", err)
	}
	if err := n.Play(); err != nil {
		t.Fatalf("Play after end: %v", err)
	}
	if n.finishedChan() == fin {
		t.Fatal("Play after end did not requeue the pipeline")
	}

	// The update shim survives the finish event: it keeps ticking and
	// reports the restarted playback.
	waitForUpdate(t, updates, func(u Update) bool { return u.Playing && !u.Ended })

	// And it adopts the new finish channel, so a second end of media still
	// produces a terminal update.
	close(n.finishedChan())
	waitForUpdate(t, updates, func(u Update) bool { return u.Ended })
}

func TestNative_SnapshotReflectsTransportState(t *testing.T) {
	n := newStubNative(10)
	defer n.Destroy()

	u := n.snapshot()
	if u.Playing {
		t.Error("paused pipeline reported playing")
	}
	if u.Duration != 10 {
		t.Errorf("duration = %v, want 10", u.Duration)
	}

	if err := n.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !n.snapshot().Playing {
		t.Error("running pipeline reported paused")
	}

	close(n.finishedChan())
	u = n.snapshot()
	if !u.Ended {
		t.Error("finished pipeline not reported ended")
	}
	if u.Playing {
		t.Error("finished pipeline reported playing")
	}
}

func TestNative_SeekClampsToStreamBounds(t *testing.T) {
	n := newStubNative(10)
	defer n.Destroy()

	if err := n.SeekTo(25); err != nil {
		t.Fatalf("SeekTo past end: %v", err)
	}
	if got := n.Position(); got != 10 {
		t.Errorf("position after over-seek = %v, want 10", got)
	}

	if err := n.SeekTo(-5); err != nil {
		t.Fatalf("SeekTo before start: %v", err)
	}
	if got := n.Position(); got != 0 {
		t.Errorf("position after under-seek = %v, want 0", got)
	}
}
