//go:build !linux

package mpris

import (
	"github.com/lectern-tui/lectern/internal/lecture"
	"github.com/lectern-tui/lectern/internal/session"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New() (*Adapter, error) {
	return &Adapter{}, nil
}

// SetSession is a no-op on non-Linux platforms.
func (a *Adapter) SetSession(_ *session.Controller, _ *lecture.Lecture) {}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
