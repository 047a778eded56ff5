//go:build linux

// Package mpris exposes the playback session on the desktop media-keys bus.
package mpris

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/lectern-tui/lectern/internal/lecture"
	"github.com/lectern-tui/lectern/internal/session"
)

// Adapter connects the active playback session to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
	player *playerAdapter
}

// New creates and starts a new MPRIS adapter. There may be no session yet;
// controls are no-ops until SetSession is called.
func New() (*Adapter, error) {
	pa := &playerAdapter{}
	a := &Adapter{
		server: server.NewServer("lectern", &rootAdapter{}, pa),
		player: pa,
	}

	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// SetSession points the adapter at the controller for the current lecture.
// Call on every lecture switch; a nil controller detaches.
func (a *Adapter) SetSession(ctrl *session.Controller, lec *lecture.Lecture) {
	a.player.set(ctrl, lec)
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Lectern", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"video/mp4", "video/webm", "audio/mpeg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter against the
// current session. The session is swapped on lecture switches.
type playerAdapter struct {
	mu      sync.RWMutex
	ctrl    *session.Controller
	lecture *lecture.Lecture
}

func (p *playerAdapter) set(ctrl *session.Controller, lec *lecture.Lecture) {
	p.mu.Lock()
	p.ctrl = ctrl
	p.lecture = lec
	p.mu.Unlock()
}

func (p *playerAdapter) session() *session.Controller {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ctrl
}

func (p *playerAdapter) Next() error {
	return nil // Lecture switching stays in the app
}

func (p *playerAdapter) Previous() error {
	return nil
}

func (p *playerAdapter) Pause() error {
	if c := p.session(); c != nil {
		return c.Pause()
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	if c := p.session(); c != nil {
		return c.TogglePlay()
	}
	return nil
}

func (p *playerAdapter) Stop() error {
	if c := p.session(); c != nil {
		return c.Pause()
	}
	return nil
}

func (p *playerAdapter) Play() error {
	if c := p.session(); c != nil {
		return c.Play()
	}
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	c := p.session()
	if c == nil {
		return nil
	}
	delta := time.Duration(offset) * time.Microsecond
	return c.SeekTo(c.Position() + delta.Seconds())
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	if c := p.session(); c != nil {
		return c.SeekTo((time.Duration(position) * time.Microsecond).Seconds())
	}
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	c := p.session()
	if c == nil {
		return types.PlaybackStatusStopped, nil
	}
	switch c.State().Status {
	case session.StatusPlaying, session.StatusSeeking:
		return types.PlaybackStatusPlaying, nil
	case session.StatusPaused, session.StatusReady:
		return types.PlaybackStatusPaused, nil
	default:
		return types.PlaybackStatusStopped, nil
	}
}

func (p *playerAdapter) Rate() (float64, error) {
	if c := p.session(); c != nil {
		return c.State().Rate, nil
	}
	return 1.0, nil
}

func (p *playerAdapter) SetRate(rate float64) error {
	if c := p.session(); c != nil {
		return c.SetRate(rate)
	}
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	p.mu.RLock()
	lec := p.lecture
	ctrl := p.ctrl
	p.mu.RUnlock()

	if lec == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatLectureID(lec.ID)),
		Title:   lec.Title,
		Artist:  []string{lec.Subject},
	}
	if ctrl != nil {
		meta.Length = types.Microseconds(int64(ctrl.Duration() * 1e6))
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	if c := p.session(); c != nil {
		return c.State().Volume, nil
	}
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	if c := p.session(); c != nil {
		return c.SetVolume(v)
	}
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	if c := p.session(); c != nil {
		return int64(c.Position() * 1e6), nil
	}
	return 0, nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return session.MinRate, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return session.MaxRate, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.session() != nil, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.session() != nil, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.session() != nil, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatLectureID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
