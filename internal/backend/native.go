package backend

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

const resampleQuality = 4

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
)

// ensureSpeaker initializes the output device once per process. Lecture
// loads run on their own goroutines, so the guard has to be locked.
func ensureSpeaker(sr beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return err
	}
	speakerInitialized = true
	return nil
}

// nativeExtensions are the containers the in-process pipeline decodes on its
// own. Anything else file-like is handed to the external player instead.
var nativeExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
}

// NativeSupports reports whether the in-process pipeline can decode path.
func NativeSupports(path string) bool {
	return nativeExtensions[strings.ToLower(filepath.Ext(path))]
}

// Native drives an in-process decode pipeline. Properties are read
// synchronously from the pipeline; the finish event is pushed by the
// pipeline itself, so no external polling is needed.
type Native struct {
	mu         sync.Mutex
	streamer   beep.StreamSeekCloser
	format     beep.Format
	ctrl       *beep.Ctrl
	resampler  *beep.Resampler
	volume     *effects.Volume
	file       *os.File
	finished   chan struct{}
	updateStop chan struct{}
	destroyed  bool
	fullscreen bool
	level      float64
	muted      bool
}

// Verify Native implements Backend at compile time.
var _ Backend = (*Native)(nil)

// NewNative opens and decodes a local media file. The stream starts paused;
// duration is known as soon as construction returns.
func NewNative(path string, initialVolume float64) (*Native, error) {
	ext := strings.ToLower(filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := ensureSpeaker(format.SampleRate); err != nil {
		streamer.Close()
		f.Close()
		return nil, err
	}

	n := &Native{
		streamer: streamer,
		format:   format,
		file:     f,
		finished: make(chan struct{}),
		level:    clampUnit(initialVolume),
	}

	n.ctrl = &beep.Ctrl{Streamer: streamer, Paused: true}
	n.resampler = beep.ResampleRatio(resampleQuality, 1.0, n.ctrl)
	n.volume = &effects.Volume{
		Streamer: n.resampler,
		Base:     2,
		Volume:   levelToVolume(n.level),
	}

	n.queue()

	return n, nil
}

// queue hands the effect chain to the speaker with a completion callback
// bound to the current finished channel. Called again on replay, because the
// mixer drops an exhausted sequence. Callers either own n exclusively or
// hold n.mu.
func (n *Native) queue() {
	fin := n.finished
	speaker.Play(beep.Seq(n.volume, beep.Callback(func() {
		close(fin)
	})))
}

// endedLocked reports whether the current sequence has run to completion.
// Callers hold n.mu.
func (n *Native) endedLocked() bool {
	select {
	case <-n.finished:
		return true
	default:
		return false
	}
}

func (n *Native) finishedChan() chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.finished
}

// Play resumes the pipeline. After end of media the mixer has dropped the
// exhausted sequence, so replay requeues the chain under a fresh finish
// channel first; the update shim picks the new channel up on its next tick.
func (n *Native) Play() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.destroyed {
		return ErrDestroyed
	}
	if n.endedLocked() {
		n.finished = make(chan struct{})
		n.queue()
	}
	speaker.Lock()
	n.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause suspends the pipeline.
func (n *Native) Pause() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.destroyed {
		return ErrDestroyed
	}
	speaker.Lock()
	n.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

// SeekTo moves playback to an absolute position in seconds, clamped to the
// stream bounds. Output is silenced across the jump to avoid artifacts.
func (n *Native) SeekTo(seconds float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.destroyed {
		return ErrDestroyed
	}
	if n.streamer == nil {
		return ErrNotReady
	}

	target := n.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	target = max(target, 0)
	if maxPos := n.streamer.Len(); target > maxPos {
		target = maxPos
	}

	speaker.Lock()
	wasSilent := n.volume.Silent
	n.volume.Silent = true
	err := n.streamer.Seek(target)
	n.volume.Silent = wasSilent || n.muted
	speaker.Unlock()
	return err
}

// Position returns the current position in seconds.
func (n *Native) Position() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.destroyed || n.streamer == nil {
		return 0
	}
	return n.format.SampleRate.D(n.streamer.Position()).Seconds()
}

// Duration returns the stream duration in seconds.
func (n *Native) Duration() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.destroyed || n.streamer == nil {
		return 0
	}
	return n.format.SampleRate.D(n.streamer.Len()).Seconds()
}

// BufferedFraction is always 1 for a local stream.
func (n *Native) BufferedFraction() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.destroyed || n.streamer == nil {
		return 0
	}
	return 1
}

// SetVolume sets the output level; v is clamped to [0,1].
func (n *Native) SetVolume(v float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.destroyed {
		return ErrDestroyed
	}
	n.level = clampUnit(v)
	speaker.Lock()
	n.volume.Volume = levelToVolume(n.level)
	speaker.Unlock()
	return nil
}

// Mute silences output, keeping the stored level.
func (n *Native) Mute() error {
	return n.setMuted(true)
}

// Unmute restores output at the stored level.
func (n *Native) Unmute() error {
	return n.setMuted(false)
}

func (n *Native) setMuted(muted bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.destroyed {
		return ErrDestroyed
	}
	n.muted = muted
	speaker.Lock()
	n.volume.Silent = muted
	speaker.Unlock()
	return nil
}

// SetRate adjusts the resample ratio; 1.0 is normal speed.
func (n *Native) SetRate(r float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.destroyed {
		return ErrDestroyed
	}
	if r <= 0 {
		return fmt.Errorf("invalid rate: %v", r)
	}
	speaker.Lock()
	n.resampler.SetRatio(r)
	speaker.Unlock()
	return nil
}

// SetFullscreen records the presentation flag; the native pipeline has no
// window of its own, presentation belongs to the session root.
func (n *Native) SetFullscreen(on bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.destroyed {
		return ErrDestroyed
	}
	n.fullscreen = on
	return nil
}

// StartUpdates begins the event shim: snapshots are generated from the
// pipeline's own state, and the pipeline's finish callback pushes the
// terminal update.
func (n *Native) StartUpdates(fn func(Update)) {
	n.mu.Lock()
	if n.destroyed {
		n.mu.Unlock()
		return
	}
	if n.updateStop != nil {
		close(n.updateStop)
	}
	stop := make(chan struct{})
	n.updateStop = stop
	fin := n.finished
	n.mu.Unlock()

	go func() {
		ticker := time.NewTicker(updateInterval)
		defer ticker.Stop()

		// fired remembers a finish channel that already delivered, so the
		// terminal update goes out once per queued sequence; replay swaps in
		// a fresh channel and the shim adopts it on a later tick.
		var fired chan struct{}
		for {
			select {
			case <-stop:
				return
			case <-fin:
				d := n.Duration()
				fn(Update{Position: d, Duration: d, BufferedFraction: 1, Ended: true})
				fired, fin = fin, nil
			case <-ticker.C:
				if fin == nil {
					if cur := n.finishedChan(); cur != fired {
						fin = cur
					}
				}
				fn(n.snapshot())
			}
		}
	}()
}

// StopUpdates stops the event shim if it is running.
func (n *Native) StopUpdates() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.updateStop != nil {
		close(n.updateStop)
		n.updateStop = nil
	}
}

func (n *Native) snapshot() Update {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.destroyed || n.streamer == nil {
		return Update{}
	}
	speaker.Lock()
	paused := n.ctrl.Paused
	speaker.Unlock()
	ended := n.endedLocked()
	return Update{
		Position:         n.format.SampleRate.D(n.streamer.Position()).Seconds(),
		Duration:         n.format.SampleRate.D(n.streamer.Len()).Seconds(),
		BufferedFraction: 1,
		Playing:          !paused && !ended,
		Fullscreen:       n.fullscreen,
		Ended:            ended,
	}
}

// Destroy tears down the pipeline. Exactly-once: later calls are no-ops.
func (n *Native) Destroy() error {
	n.mu.Lock()
	if n.destroyed {
		n.mu.Unlock()
		return nil
	}
	n.destroyed = true
	if n.updateStop != nil {
		close(n.updateStop)
		n.updateStop = nil
	}
	streamer := n.streamer
	file := n.file
	n.streamer = nil
	n.file = nil
	n.mu.Unlock()

	speaker.Clear()
	if streamer != nil {
		streamer.Close()
	}
	if file != nil {
		file.Close()
	}
	return nil
}

// levelToVolume converts a 0.0-1.0 level to the volume effect's value.
// The effect uses a logarithmic scale with base 2: 0 means no change,
// -1 half volume, -2 quarter. 0 maps to -10 (essentially silent).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
