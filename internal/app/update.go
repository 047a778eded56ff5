package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lectern-tui/lectern/internal/errmsg"
	"github.com/lectern-tui/lectern/internal/log"
	"github.com/lectern-tui/lectern/internal/progress"
	"github.com/lectern-tui/lectern/internal/session"
	"github.com/lectern-tui/lectern/internal/ui/doubtpanel"
	"github.com/lectern-tui/lectern/internal/ui/layout"
	"github.com/lectern-tui/lectern/internal/ui/lecturepanel"
)

// Update handles messages and returns the updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case lectureLoadedMsg:
		return m.handleLectureLoaded(msg)

	case sessionStateMsg:
		return m.handleSessionState(msg)

	case sessionPositionMsg:
		m.playback.Position = msg.Position
		m.playback.Duration = msg.Duration
		m.playback.BufferedSeconds = msg.Buffered
		return m, m.watchSessionCmd()

	case sessionSettingsMsg:
		m.playback.Volume = msg.Volume
		m.playback.Muted = msg.Muted
		m.playback.Rate = msg.Rate
		return m, m.watchSessionCmd()

	case sessionFullscreenMsg:
		m.playback.Fullscreen = msg.Fullscreen
		return m, m.watchSessionCmd()

	case sessionControlsMsg:
		m.playback.ControlsVisible = msg.Visible
		if !msg.Visible {
			m.hoverColumn = -1
		}
		return m, m.watchSessionCmd()

	case sessionEndedMsg:
		return m.handleEnded()

	case sessionErrorMsg:
		m.statusMsg = errmsg.Format(opForSession(msg.Operation), msg.Err)
		return m, m.watchSessionCmd()

	case stderrLineMsg:
		// Audio-layer noise never reaches the terminal; it goes to the log.
		log.Debugf("audio: %s", msg.Line)
		return m, watchStderrCmd()

	case sessionClosedMsg:
		// Old subscription drained after a switch or shutdown; the new
		// session already has its own pump.
		return m, nil

	case lecturepanel.SelectLectureMsg:
		return m.switchLecture(msg.ID)

	case doubtpanel.SubmitDoubtMsg:
		return m, m.submitDoubtCmd(msg.Text)

	case doubtSubmittedMsg:
		if msg.Err != nil {
			m.statusMsg = errmsg.Format(errmsg.OpDoubtSubmit, msg.Err)
			return m, nil
		}
		m.DoubtPanel.Add(msg.Doubt)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.resizePanels()
	return m, nil
}

func (m *Model) resizePanels() {
	panelWidth := layout.PanelWidth(m.width)
	panelHeight := layout.StageHeight(m.height, playbackBarHeight())
	m.LecturePanel.SetSize(panelWidth, panelHeight)
	m.DoubtPanel.SetSize(panelWidth, panelHeight)
}

// handleLectureLoaded attaches the freshly built backend or reports why it
// could not be built. Results for a superseded load are destroyed unused.
func (m Model) handleLectureLoaded(msg lectureLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.loadSeq {
		if msg.Backend != nil {
			_ = msg.Backend.Destroy()
		}
		return m, nil
	}

	m.loading = false
	if msg.Err != nil {
		m.loadErr = errmsg.Format(errmsg.OpLectureLoad, msg.Err)
		log.Errorf("app: loading lecture %s: %v", m.currentID, msg.Err)
		return m, nil
	}
	m.loadErr = ""

	ctrl := session.NewController(session.Options{
		SeekStep: m.cfg.GetPlayerConfig().SeekStepSeconds,
		Volume:   m.cfg.GetPlayerConfig().Volume,
	})
	m.controller = ctrl
	m.sub = ctrl.Subscribe()
	m.playback = ctrl.State()
	m.checkpointLoaded = msg.Resumed
	m.pendingResume = msg.Resume

	ctrl.Attach(msg.Backend)

	if m.observer != nil {
		m.observer.SetSession(ctrl, m.lectures.ByID(m.currentID))
	}

	m.autosaver = progress.NewAutosaver(
		m.cfg.AutosaveInterval(),
		m.checkpointSnapshot(ctrl, m.currentID),
		m.store.Save,
	)
	m.autosaver.Start()

	return m, m.watchSessionCmd()
}

// checkpointSnapshot binds an autosave snapshot to one controller and
// lecture, so a pending tick can never write under a newer lecture's key.
func (m Model) checkpointSnapshot(ctrl *session.Controller, lectureID string) func() (progress.Checkpoint, bool) {
	user := m.host.UserName
	return func() (progress.Checkpoint, bool) {
		st := ctrl.State()
		if st.Duration <= 0 {
			return progress.Checkpoint{}, false
		}
		return progress.Checkpoint{
			UserID:    user,
			LectureID: lectureID,
			Position:  st.Position,
			Duration:  st.Duration,
			Completed: st.Ended,
		}, true
	}
}

func (m Model) handleSessionState(msg sessionStateMsg) (tea.Model, tea.Cmd) {
	m.playback.Status = session.Status(msg.Current)
	m.playback.Playing = m.playback.Status == session.StatusPlaying

	// File-like backends resume here: the duration just became known and
	// the checkpoint seek happens exactly once.
	if m.playback.Status == session.StatusReady && !m.checkpointLoaded {
		m.checkpointLoaded = true
		if m.pendingResume > 0 && m.controller != nil {
			if err := m.controller.SeekTo(m.pendingResume); err != nil {
				log.Warnf("app: resume seek: %v", err)
			}
		}
	}

	return m, m.watchSessionCmd()
}

func (m Model) handleEnded() (tea.Model, tea.Cmd) {
	m.playback.Ended = true
	if err := m.store.MarkCompleted(m.host.UserName, m.currentID); err != nil {
		log.Warnf("app: marking %s completed: %v", m.currentID, err)
	}
	m.LecturePanel.SetCompleted(m.currentID)
	return m, m.watchSessionCmd()
}

// switchLecture tears down the current session and starts loading another
// lecture. The outgoing checkpoint is flushed before anything about the new
// lecture is read, so the store sees exactly one ordered handoff.
func (m Model) switchLecture(id string) (tea.Model, tea.Cmd) {
	if id == m.currentID || m.lectures.ByID(id) == nil {
		return m, nil
	}

	m.flushSession()

	m.loadSeq++
	m.currentID = id
	m.checkpointLoaded = false
	m.pendingResume = 0
	m.loading = true
	m.loadErr = ""
	m.statusMsg = ""
	m.playback = session.PlaybackState{}
	m.LecturePanel.SetCurrent(id)

	if m.host.OnLectureChange != nil {
		m.host.OnLectureChange(id)
	}

	return m, m.loadLectureCmd(id, m.loadSeq)
}

// flushSession stops autosaving, writes the final checkpoint and destroys
// the session. Safe with no session loaded.
func (m *Model) flushSession() {
	if m.autosaver != nil {
		m.autosaver.Stop()
		m.autosaver.Flush()
		m.autosaver = nil
	}
	if m.controller != nil {
		if err := m.controller.Close(); err != nil {
			log.Errorf("app: closing session: %v", err)
		}
		m.controller = nil
	}
	m.sub = nil
	if m.observer != nil {
		m.observer.SetSession(nil, nil)
	}
}

// requestClose shuts the application down unless fullscreen is active;
// quitting mid-fullscreen would leave the external window orphaned.
func (m Model) requestClose() (tea.Model, tea.Cmd) {
	if m.playback.Fullscreen {
		m.statusMsg = "Exit fullscreen before closing"
		return m, nil
	}

	m.flushSession()
	if m.host.OnClose != nil {
		m.host.OnClose()
	}
	m.quitting = true
	return m, tea.Quit
}

func opForSession(operation string) errmsg.Op {
	switch operation {
	case "play", "pause":
		return errmsg.OpPlaybackStart
	case "seek":
		return errmsg.OpPlaybackSeek
	case "volume", "mute":
		return errmsg.OpVolumeSet
	case "rate":
		return errmsg.OpRateSet
	case "fullscreen":
		return errmsg.OpFullscreen
	default:
		return errmsg.OpPlaybackStart
	}
}
