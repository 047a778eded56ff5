package backend

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lectern-tui/lectern/internal/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitGracePeriod   = 3 * time.Second
)

// EmbedOptions configures one embedded player instance.
type EmbedOptions struct {
	Binary      string  // player binary; the shared runtime must already be loaded
	MediaURL    string  // stream or page URL handed to the player
	Title       string  // window/media title
	StartOffset float64 // seconds; resume position applied at init, no post-init seek
	Volume      float64 // initial volume in [0,1]
}

// Embedded drives an external player process over JSON-IPC. The player
// object is created asynchronously after the one-time runtime load; each
// session owns its own process, but all sessions share the runtime state.
type Embedded struct {
	mu         sync.Mutex
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the player process exits
	updateStop chan struct{} // signals the update shim to stop
	destroyed  bool
	volume     float64
	muted      bool
}

// Verify Embedded implements Backend at compile time.
var _ Backend = (*Embedded)(nil)

// NewEmbedded spawns the external player for the given media and waits for
// its IPC socket. The shared runtime must be Ready; construction against an
// unloaded or failed runtime returns ErrRuntimeFailed.
func NewEmbedded(opts EmbedOptions) (*Embedded, error) {
	if CurrentRuntimeStatus() != RuntimeReady {
		return nil, ErrRuntimeFailed
	}

	safeURL, err := sanitizeMediaTarget(opts.MediaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("generate socket name: %w", err)
	}

	e := &Embedded{
		socketPath: filepath.Join(os.TempDir(), fmt.Sprintf("lectern-%x.sock", randomBytes)),
		exited:     make(chan struct{}),
		volume:     clampUnit(opts.Volume),
	}

	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", e.socketPath),
		fmt.Sprintf("--force-media-title=%s", sanitizeTitle(opts.Title)),
		"--force-window=yes",
		"--idle=yes",
		"--pause=yes",
		fmt.Sprintf("--volume=%d", int(e.volume*100)),
	}
	if opts.StartOffset > 0 {
		args = append(args, fmt.Sprintf("--start=%.3f", opts.StartOffset))
	}
	args = append(args, safeURL)

	e.cmd = exec.Command(opts.Binary, args...)
	e.cmd.SysProcAttr = sysProcAttr()
	e.cmd.Stdout = nil
	e.cmd.Stderr = nil
	e.cmd.Stdin = nil

	if err := e.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start player: %w", err)
	}

	// Reap the process so it never zombifies.
	go func() {
		_ = e.cmd.Wait()
		close(e.exited)
	}()

	if err := e.waitForSocket(); err != nil {
		select {
		case <-e.exited:
		default:
			log.Warnf("killing embedded player: socket never became ready")
			_ = killProcess(e.cmd)
		}
		return nil, fmt.Errorf("player socket not ready: %w", err)
	}

	return e, nil
}

// waitForSocket polls until the IPC socket is accepting connections.
func (e *Embedded) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-e.exited:
			return fmt.Errorf("player exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", e.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", e.socketPath, socketWaitRetries)
}

// Play resumes playback.
func (e *Embedded) Play() error {
	return e.setProperty("pause", false)
}

// Pause suspends playback.
func (e *Embedded) Pause() error {
	return e.setProperty("pause", true)
}

// SeekTo moves playback to an absolute position in seconds.
func (e *Embedded) SeekTo(seconds float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}
	_, err := e.sendCommand([]interface{}{"seek", seconds, "absolute"})
	return err
}

// Position returns the current playback position in seconds, 0 on error.
func (e *Embedded) Position() float64 {
	v, _ := e.getFloatProperty("time-pos")
	return v
}

// Duration returns the media duration in seconds, 0 while unknown.
func (e *Embedded) Duration() float64 {
	v, _ := e.getFloatProperty("duration")
	return v
}

// BufferedFraction reports how much of the media is available, in [0,1].
// The demuxer cache is measured ahead of the play position.
func (e *Embedded) BufferedFraction() float64 {
	dur, err := e.getFloatProperty("duration")
	if err != nil || dur <= 0 {
		return 0
	}
	pos, _ := e.getFloatProperty("time-pos")
	cache, _ := e.getFloatProperty("demuxer-cache-time")
	return clampUnit((pos + cache) / dur)
}

// SetVolume sets playback volume; v is clamped to [0,1].
func (e *Embedded) SetVolume(v float64) error {
	v = clampUnit(v)

	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return ErrDestroyed
	}
	e.volume = v
	_, err := e.sendCommand([]interface{}{"set_property", "volume", v * 100})
	e.mu.Unlock()
	return err
}

// Mute silences output without touching the stored volume level.
func (e *Embedded) Mute() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}
	e.muted = true
	_, err := e.sendCommand([]interface{}{"set_property", "mute", true})
	return err
}

// Unmute restores output at the stored volume level.
func (e *Embedded) Unmute() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}
	e.muted = false
	_, err := e.sendCommand([]interface{}{"set_property", "mute", false})
	return err
}

// SetRate sets the playback speed multiplier.
func (e *Embedded) SetRate(r float64) error {
	return e.setProperty("speed", r)
}

// SetFullscreen toggles the player window's fullscreen state.
func (e *Embedded) SetFullscreen(on bool) error {
	return e.setProperty("fullscreen", on)
}

// StartUpdates begins the poll-driven update shim. The external player does
// not push time updates, so properties are polled on a fixed short interval
// and delivered through the same callback shape the native adapter uses.
func (e *Embedded) StartUpdates(fn func(Update)) {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	if e.updateStop != nil {
		close(e.updateStop)
	}
	stop := make(chan struct{})
	e.updateStop = stop
	e.mu.Unlock()

	go func() {
		ticker := time.NewTicker(updateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-e.exited:
				fn(Update{Ended: true})
				return
			case <-ticker.C:
				fn(e.snapshot())
			}
		}
	}()
}

// StopUpdates stops the poll shim if it is running.
func (e *Embedded) StopUpdates() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.updateStop != nil {
		close(e.updateStop)
		e.updateStop = nil
	}
}

// snapshot reads one update's worth of properties.
func (e *Embedded) snapshot() Update {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return Update{}
	}

	u := Update{}
	if v, err := e.floatPropertyLocked("time-pos"); err == nil {
		u.Position = v
	}
	if v, err := e.floatPropertyLocked("duration"); err == nil {
		u.Duration = v
	}
	if v, err := e.floatPropertyLocked("demuxer-cache-time"); err == nil && u.Duration > 0 {
		u.BufferedFraction = clampUnit((u.Position + v) / u.Duration)
	}
	if data, err := e.sendCommand([]interface{}{"get_property", "pause"}); err == nil {
		if paused, ok := data.(bool); ok {
			u.Playing = !paused
		}
	}
	if data, err := e.sendCommand([]interface{}{"get_property", "fullscreen"}); err == nil {
		if fs, ok := data.(bool); ok {
			u.Fullscreen = fs
		}
	}
	if data, err := e.sendCommand([]interface{}{"get_property", "eof-reached"}); err == nil {
		if eof, ok := data.(bool); ok {
			u.Ended = eof
		}
	}
	return u
}

// Destroy shuts down the player process and releases resources.
// Exactly-once: later calls are guarded no-ops.
func (e *Embedded) Destroy() error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return nil
	}
	e.destroyed = true
	if e.updateStop != nil {
		close(e.updateStop)
		e.updateStop = nil
	}

	// Graceful quit over IPC, then force kill after the grace period.
	_, _ = e.sendCommand([]interface{}{"quit"})
	e.mu.Unlock()

	select {
	case <-e.exited:
	case <-time.After(quitGracePeriod):
		_ = killProcess(e.cmd)
	}

	_ = os.Remove(e.socketPath)
	return nil
}

// setProperty is a guarded set_property helper.
func (e *Embedded) setProperty(property string, value interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}
	_, err := e.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// getFloatProperty retrieves a float property, guarded against destruction.
func (e *Embedded) getFloatProperty(name string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return 0, ErrDestroyed
	}
	return e.floatPropertyLocked(name)
}

// floatPropertyLocked retrieves a float property. Callers must hold e.mu.
func (e *Embedded) floatPropertyLocked(name string) (float64, error) {
	data, err := e.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}
	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}
	return val, nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// sanitizeMediaTarget validates that a locator is safe to pass to the
// player process (no flag injection, no control characters).
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}

// sanitizeTitle strips characters that break the IPC command line.
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
