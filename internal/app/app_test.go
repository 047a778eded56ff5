package app

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-tui/lectern/internal/backend"
	"github.com/lectern-tui/lectern/internal/config"
	"github.com/lectern-tui/lectern/internal/lecture"
	"github.com/lectern-tui/lectern/internal/progress"
	"github.com/lectern-tui/lectern/internal/session"
	"github.com/lectern-tui/lectern/internal/source"
	"github.com/lectern-tui/lectern/internal/ui/lecturepanel"
	"github.com/lectern-tui/lectern/internal/ui/testutil"
)

// fakeStore records every call in order so tests can assert the flush /
// fetch handoff around lecture switches.
type fakeStore struct {
	mu          sync.Mutex
	calls       []string
	checkpoints map[string]progress.Checkpoint
}

func newFakeStore() *fakeStore {
	return &fakeStore{checkpoints: make(map[string]progress.Checkpoint)}
}

func (s *fakeStore) key(userID, lectureID string) string {
	return userID + "/" + lectureID
}

func (s *fakeStore) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *fakeStore) Fetch(userID, lectureID string) (progress.Checkpoint, error) {
	s.record("fetch:" + lectureID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkpoints[s.key(userID, lectureID)], nil
}

func (s *fakeStore) Save(cp progress.Checkpoint) error {
	s.record("save:" + cp.LectureID)
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.checkpoints[s.key(cp.UserID, cp.LectureID)]
	cp.Completed = cp.Completed || prev.Completed
	s.checkpoints[s.key(cp.UserID, cp.LectureID)] = cp
	return nil
}

func (s *fakeStore) MarkCompleted(userID, lectureID string) error {
	s.record("complete:" + lectureID)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.checkpoints[s.key(userID, lectureID)]
	cp.UserID = userID
	cp.LectureID = lectureID
	cp.Completed = true
	s.checkpoints[s.key(userID, lectureID)] = cp
	return nil
}

func (s *fakeStore) All(userID string) (map[string]progress.Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]progress.Checkpoint)
	for _, cp := range s.checkpoints {
		if cp.UserID == userID {
			out[cp.LectureID] = cp
		}
	}
	return out, nil
}

func (s *fakeStore) LastWatched(userID string) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (s *fakeStore) callLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// fakeFactory hands out mocks and remembers them in creation order.
type fakeFactory struct {
	mu    sync.Mutex
	mocks []*backend.Mock
	err   error
}

func (f *fakeFactory) build(lecture.Lecture, source.Classification, float64, config.PlayerConfig, float64) (backend.Backend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	m := backend.NewMock()
	f.mocks = append(f.mocks, m)
	return m, nil
}

func (f *fakeFactory) last() *backend.Mock {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.mocks) == 0 {
		return nil
	}
	return f.mocks[len(f.mocks)-1]
}

func testLectures(n int) []lecture.Lecture {
	out := make([]lecture.Lecture, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, lecture.Lecture{
			ID:       fmt.Sprintf("l%d", i),
			Title:    fmt.Sprintf("Lecture %d", i),
			VideoURL: fmt.Sprintf("https://cdn.example.com/l%d.mp3", i),
			Duration: 300 * time.Second,
		})
	}
	return out
}

func newTestModel(t *testing.T, store *fakeStore, factory *fakeFactory) Model {
	t.Helper()

	m, err := New(&config.Config{UserName: "alice"}, Host{
		Lectures: testLectures(3),
	}, store)
	require.NoError(t, err)

	m.newBackend = factory.build
	m.width = 120
	m.height = 40
	return m
}

// loadCurrent runs the load command synchronously and applies its result.
func loadCurrent(t *testing.T, m Model) Model {
	t.Helper()

	cmd := m.loadLectureCmd(m.currentID, m.loadSeq)
	require.NotNil(t, cmd)
	model, _ := m.Update(cmd())
	return model.(Model)
}

func cleanup(m Model) {
	m.flushSession()
}

func TestModel_InitLoadsFirstLecture(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{}
	m := newTestModel(t, store, factory)

	m = loadCurrent(t, m)
	defer cleanup(m)

	require.NotNil(t, m.Controller())
	assert.False(t, m.loading)
	assert.Empty(t, m.loadErr)
	assert.Equal(t, []string{"fetch:l1"}, store.callLog())
}

func TestModel_LoadErrorIsReported(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{err: errors.New("runtime missing")}
	m := newTestModel(t, store, factory)

	m = loadCurrent(t, m)
	defer cleanup(m)

	assert.Nil(t, m.Controller())
	assert.Contains(t, m.loadErr, "runtime missing")
}

func TestModel_SwitchFlushesCheckpointBeforeFetch(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{}
	m := newTestModel(t, store, factory)

	m = loadCurrent(t, m)
	factory.last().EmitUpdate(backend.Update{Duration: 300, Position: 42})

	model, cmd := m.Update(lecturepanel.SelectLectureMsg{ID: "l2"})
	m = model.(Model)
	require.NotNil(t, cmd)
	model, _ = m.Update(cmd())
	m = model.(Model)
	defer cleanup(m)

	log := store.callLog()
	require.Equal(t, []string{"fetch:l1", "save:l1", "fetch:l2"}, log)

	cp := store.checkpoints["alice/l1"]
	assert.InDelta(t, 42, cp.Position, 0.001)
	assert.InDelta(t, 300, cp.Duration, 0.001)
}

func TestModel_SwitchToSameLectureIsNoop(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{}
	m := newTestModel(t, store, factory)

	m = loadCurrent(t, m)
	defer cleanup(m)

	model, cmd := m.Update(lecturepanel.SelectLectureMsg{ID: "l1"})
	m = model.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"fetch:l1"}, store.callLog())
}

func TestModel_StaleLoadResultIsDestroyed(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{}
	m := newTestModel(t, store, factory)

	stale := backend.NewMock()
	m.loadSeq = 2 // two switches happened since the load was requested

	model, _ := m.Update(lectureLoadedMsg{Seq: 0, Backend: stale})
	m = model.(Model)
	defer cleanup(m)

	assert.True(t, stale.Destroyed())
	assert.Nil(t, m.Controller())
}

func TestModel_ResumeSeeksOnceOnFirstReady(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{}
	m := newTestModel(t, store, factory)
	store.checkpoints["alice/l1"] = progress.Checkpoint{
		UserID: "alice", LectureID: "l1", Position: 97, Duration: 300,
	}

	m = loadCurrent(t, m)
	defer cleanup(m)

	mock := factory.last()
	require.NotNil(t, mock)
	mock.EmitUpdate(backend.Update{Duration: 300})

	ready := sessionStateMsg{
		Previous: int(session.StatusIdle),
		Current:  int(session.StatusReady),
	}
	model, _ := m.Update(ready)
	m = model.(Model)
	require.Equal(t, []float64{97}, mock.SeekCalls())

	// A later Ready transition must not rewind.
	model, _ = m.Update(ready)
	_ = model
	assert.Equal(t, []float64{97}, mock.SeekCalls())
}

func TestModel_EmbeddedResumeSkipsSeek(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{}
	m := newTestModel(t, store, factory)

	// The backend was built with the start offset already applied.
	model, _ := m.Update(lectureLoadedMsg{
		Seq: 0, Backend: backend.NewMock(), Resume: 97, Resumed: true,
	})
	m = model.(Model)
	defer cleanup(m)

	mock := m.controller
	require.NotNil(t, mock)

	ready := sessionStateMsg{
		Previous: int(session.StatusIdle),
		Current:  int(session.StatusReady),
	}
	model, _ = m.Update(ready)
	m = model.(Model)

	assert.True(t, m.checkpointLoaded)
	assert.Empty(t, factory.mocks)
}

func TestModel_VideoContainerResumesViaStartOffset(t *testing.T) {
	store := newFakeStore()
	store.checkpoints["alice/v1"] = progress.Checkpoint{
		UserID: "alice", LectureID: "v1", Position: 130, Duration: 300,
	}
	factory := &fakeFactory{}

	m, err := New(&config.Config{UserName: "alice"}, Host{
		Lectures: []lecture.Lecture{{
			ID:       "v1",
			Title:    "Recorded session",
			VideoURL: "https://cdn.example.com/v1.mp4",
			Duration: 300 * time.Second,
		}},
	}, store)
	require.NoError(t, err)
	m.newBackend = factory.build

	cmd := m.loadLectureCmd("v1", m.loadSeq)
	require.NotNil(t, cmd)
	msg, ok := cmd().(lectureLoadedMsg)
	require.True(t, ok)
	defer msg.Backend.Destroy()

	// The in-process pipeline cannot decode video containers, so the load
	// hands the offset to the player instead of seeking after Ready.
	assert.True(t, msg.Resumed)
	assert.InDelta(t, 130, msg.Resume, 0.001)
}

func TestModel_EndedMarksLectureCompleted(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{}
	m := newTestModel(t, store, factory)

	m = loadCurrent(t, m)
	defer cleanup(m)

	model, _ := m.Update(sessionEndedMsg{})
	m = model.(Model)

	assert.True(t, m.playback.Ended)
	assert.True(t, store.checkpoints["alice/l1"].Completed)
}

func TestModel_CloseRefusedWhileFullscreen(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{}
	m := newTestModel(t, store, factory)

	m = loadCurrent(t, m)
	defer cleanup(m)

	model, _ := m.Update(sessionFullscreenMsg{Fullscreen: true})
	m = model.(Model)

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = model.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.quitting)
	assert.Contains(t, m.statusMsg, "fullscreen")

	model, _ = m.Update(sessionFullscreenMsg{Fullscreen: false})
	m = model.(Model)
	model, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = model.(Model)

	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestModel_PanelsAreMutuallyExclusive(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{}
	m := newTestModel(t, store, factory)
	defer cleanup(m)

	press := func(r rune) {
		model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = model.(Model)
	}

	press('L')
	assert.Equal(t, PanelLectures, m.panel)

	press('d')
	assert.Equal(t, PanelDoubts, m.panel)

	press('d')
	assert.Equal(t, PanelNone, m.panel)
}

func TestModel_ComposerSuppressesPlaybackShortcuts(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{}
	m := newTestModel(t, store, factory)

	m = loadCurrent(t, m)
	defer cleanup(m)

	mock := factory.last()
	mock.EmitUpdate(backend.Update{Duration: 300})

	press := func(msg tea.KeyMsg) {
		model, _ := m.Update(msg)
		m = model.(Model)
	}

	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	require.True(t, m.DoubtPanel.IsComposing())

	// "f" types into the composer instead of toggling fullscreen.
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	assert.False(t, mock.Fullscreen())
}

func TestModel_MouseClickSeeksOnTrack(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{}
	m := newTestModel(t, store, factory)

	m = loadCurrent(t, m)
	defer cleanup(m)

	mock := factory.last()
	mock.EmitUpdate(backend.Update{Duration: 300})
	m.playback = m.controller.State()

	barTop := m.height - playbackBarHeight()
	_, cmd := m.Update(tea.MouseMsg{
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
		X:      m.width / 2,
		Y:      barTop + 1,
	})
	require.NotNil(t, cmd)
	cmd()

	calls := mock.SeekCalls()
	require.Len(t, calls, 1)
	assert.Greater(t, calls[0], 0.0)
	assert.Less(t, calls[0], 300.0)
}

func TestModel_SeedsCompletionHistory(t *testing.T) {
	store := newFakeStore()
	store.checkpoints["alice/l2"] = progress.Checkpoint{
		UserID: "alice", LectureID: "l2", Completed: true,
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	factory := &fakeFactory{}
	m := newTestModel(t, store, factory)
	defer cleanup(m)

	m.LecturePanel.SetSize(44, 20)
	m.LecturePanel.SetFocused(true)
	view := testutil.StripANSI(m.LecturePanel.View())
	assert.Contains(t, view, "1/3")
}
