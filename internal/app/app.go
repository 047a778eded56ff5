// Package app wires the playback session, checkpoint persistence and the
// side panels into the root bubbletea model.
package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lectern-tui/lectern/internal/backend"
	"github.com/lectern-tui/lectern/internal/config"
	"github.com/lectern-tui/lectern/internal/doubt"
	"github.com/lectern-tui/lectern/internal/lecture"
	"github.com/lectern-tui/lectern/internal/progress"
	"github.com/lectern-tui/lectern/internal/session"
	"github.com/lectern-tui/lectern/internal/source"
	"github.com/lectern-tui/lectern/internal/ui/doubtpanel"
	"github.com/lectern-tui/lectern/internal/ui/lecturepanel"
)

// PanelMode selects which satellite panel is open. At most one panel is
// visible at a time.
type PanelMode int

const (
	PanelNone PanelMode = iota
	PanelLectures
	PanelDoubts
)

// SessionObserver is notified whenever the active playback session changes,
// e.g. the desktop media-keys bridge. A nil controller means no session.
type SessionObserver interface {
	SetSession(ctrl *session.Controller, lec *lecture.Lecture)
}

// ProgressStore is the slice of the checkpoint store the app depends on.
type ProgressStore interface {
	Fetch(userID, lectureID string) (progress.Checkpoint, error)
	Save(cp progress.Checkpoint) error
	MarkCompleted(userID, lectureID string) error
	All(userID string) (map[string]progress.Checkpoint, error)
	LastWatched(userID string) (string, time.Time, error)
}

// Host supplies course content and receives lifecycle notifications. The
// embedding program decides what happens on lecture changes and submitted
// questions.
type Host struct {
	Lectures  []lecture.Lecture
	CurrentID string
	Doubts    []doubt.Doubt
	UserName  string

	OnLectureChange func(id string)
	OnDoubtSubmit   func(text string) (doubt.Doubt, error)
	OnClose         func()
}

// Model is the root application model.
type Model struct {
	cfg  *config.Config
	host Host

	lectures  *lecture.Collection
	currentID string

	controller *session.Controller
	sub        *session.Subscription
	store      ProgressStore
	autosaver  *progress.Autosaver

	// newBackend builds the playback backend for a lecture; swapped in tests.
	newBackend BackendFactory

	// loadSeq invalidates in-flight loads when the lecture changes again
	// before they land.
	loadSeq int
	// checkpointLoaded guards the one startup seek per lecture: native
	// backends fetch-then-seek once the duration arrives, and nothing after.
	checkpointLoaded bool
	pendingResume    float64

	observer SessionObserver

	playback    session.PlaybackState
	loading     bool
	loadErr     string
	statusMsg   string
	hoverColumn int

	panel        PanelMode
	LecturePanel lecturepanel.Model
	DoubtPanel   doubtpanel.Model

	width  int
	height int

	quitting bool
}

// BackendFactory creates the backend for a classified lecture. startOffset
// only applies to backends that can begin mid-media.
type BackendFactory func(lec lecture.Lecture, c source.Classification, startOffset float64, cfg config.PlayerConfig, volume float64) (backend.Backend, error)

// New creates the root model. The first lecture is not loaded until Init.
func New(cfg *config.Config, host Host, store ProgressStore) (Model, error) {
	if len(host.Lectures) == 0 {
		return Model{}, fmt.Errorf("course has no lectures")
	}

	coll := lecture.NewCollection(host.Lectures)

	currentID := host.CurrentID
	if currentID == "" || coll.ByID(currentID) == nil {
		currentID = host.Lectures[0].ID
	}

	m := Model{
		cfg:         cfg,
		host:        host,
		lectures:    coll,
		currentID:   currentID,
		store:       store,
		newBackend:  defaultBackendFactory,
		hoverColumn: -1,
	}

	m.LecturePanel = lecturepanel.New(coll)
	m.LecturePanel.SetCurrent(currentID)
	m.seedHistory()

	m.DoubtPanel = doubtpanel.New()
	m.DoubtPanel.SetDoubts(host.Doubts)

	return m, nil
}

// seedHistory loads completion flags and last-watched times from the store.
func (m *Model) seedHistory() {
	cps, err := m.store.All(m.host.UserName)
	if err != nil {
		return
	}
	completed := make(map[string]bool)
	lastWatched := make(map[string]time.Time)
	for id, cp := range cps {
		if cp.Completed {
			completed[id] = true
		}
		lastWatched[id] = cp.UpdatedAt
	}
	m.LecturePanel.SetHistory(completed, lastWatched)
}

// Init implements tea.Model: load the current lecture.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadLectureCmd(m.currentID, m.loadSeq),
		watchStderrCmd(),
	)
}

// CurrentLecture returns the lecture loaded in the player.
func (m Model) CurrentLecture() *lecture.Lecture {
	return m.lectures.ByID(m.currentID)
}

// Controller exposes the active session, nil while loading.
func (m Model) Controller() *session.Controller {
	return m.controller
}

// SetSessionObserver registers an observer for session changes.
func (m *Model) SetSessionObserver(o SessionObserver) {
	m.observer = o
}

// usesNativePipeline reports whether a lecture plays through the in-process
// pipeline. File-like sources the pipeline cannot decode (video containers)
// go through the external player like everything else.
func usesNativePipeline(c source.Classification, videoURL string) bool {
	return c.Kind == source.KindFileLike && backend.NativeSupports(videoURL)
}

// defaultBackendFactory builds the real backend for a lecture.
func defaultBackendFactory(lec lecture.Lecture, c source.Classification, startOffset float64, cfg config.PlayerConfig, volume float64) (backend.Backend, error) {
	if usesNativePipeline(c, lec.VideoURL) {
		return backend.NewNative(lec.VideoURL, volume)
	}

	// Embedded, opaque and video-file sources all go through the external
	// player; it resolves anything it can.
	if err := backend.EnsureRuntime(cfg.Binary); err != nil {
		return nil, err
	}
	return backend.NewEmbedded(backend.EmbedOptions{
		Binary:      cfg.Binary,
		MediaURL:    lec.VideoURL,
		Title:       lec.Title,
		StartOffset: startOffset,
		Volume:      volume,
	})
}
