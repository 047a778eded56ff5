package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lectern-tui/lectern/internal/log"
	"github.com/lectern-tui/lectern/internal/source"
	"github.com/lectern-tui/lectern/internal/stderr"
)

// loadLectureCmd builds the backend for a lecture off the tea loop. For
// sources the embedded player handles, the checkpoint is fetched before the
// backend exists so playback can begin at the saved offset. File-like
// sources attach immediately and seek once the duration arrives.
func (m Model) loadLectureCmd(lectureID string, seq int) tea.Cmd {
	lec := m.lectures.ByID(lectureID)
	if lec == nil {
		return nil
	}
	l := *lec
	store := m.store
	user := m.host.UserName
	cfg := m.cfg.GetPlayerConfig()
	factory := m.newBackend
	volume := m.playback.Volume
	if volume == 0 && !m.playback.Muted {
		volume = m.cfg.GetPlayerConfig().Volume
	}

	return func() tea.Msg {
		c := source.Classify(l.VideoURL)
		log.Infof("app: loading lecture %s as %s", l.ID, c.Kind)

		cp, err := store.Fetch(user, l.ID)
		if err != nil {
			// A lost checkpoint only costs the resume offset.
			log.Warnf("app: checkpoint fetch for %s: %v", l.ID, err)
		}

		startOffset := 0.0
		resumed := false
		if !usesNativePipeline(c, l.VideoURL) {
			startOffset = cp.Position
			resumed = true
		}

		b, err := factory(l, c, startOffset, cfg, volume)
		if err != nil {
			return lectureLoadedMsg{Seq: seq, Err: err}
		}

		return lectureLoadedMsg{
			Seq:     seq,
			Backend: b,
			Resume:  cp.Position,
			Resumed: resumed,
		}
	}
}

// watchSessionCmd forwards one session event onto the tea loop. Update
// re-issues it after every received event, like a subscription pump.
func (m Model) watchSessionCmd() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return sessionStateMsg{Previous: int(e.Previous), Current: int(e.Current)}
		case e := <-sub.PositionChanged:
			return sessionPositionMsg{Position: e.Position, Duration: e.Duration, Buffered: e.Buffered}
		case e := <-sub.SettingsChanged:
			return sessionSettingsMsg{Volume: e.Volume, Muted: e.Muted, Rate: e.Rate}
		case e := <-sub.FullscreenChanged:
			return sessionFullscreenMsg{Fullscreen: e.Fullscreen}
		case e := <-sub.ControlsChanged:
			return sessionControlsMsg{Visible: e.Visible}
		case <-sub.Ended:
			return sessionEndedMsg{}
		case e := <-sub.Error:
			return sessionErrorMsg{Operation: e.Operation, Err: e.Err}
		case <-sub.Done:
			return sessionClosedMsg{}
		}
	}
}

// watchStderrCmd waits for captured stderr output from the audio layer.
func watchStderrCmd() tea.Cmd {
	return func() tea.Msg {
		line, ok := <-stderr.Messages
		if !ok {
			return nil
		}
		return stderrLineMsg{Line: line}
	}
}

// submitDoubtCmd hands a question to the host.
func (m Model) submitDoubtCmd(text string) tea.Cmd {
	submit := m.host.OnDoubtSubmit
	if submit == nil {
		return nil
	}
	return func() tea.Msg {
		d, err := submit(text)
		return doubtSubmittedMsg{Doubt: d, Err: err}
	}
}
