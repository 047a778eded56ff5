package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lectern-tui/lectern/internal/app"
	"github.com/lectern-tui/lectern/internal/config"
	"github.com/lectern-tui/lectern/internal/course"
	"github.com/lectern-tui/lectern/internal/doubt"
	"github.com/lectern-tui/lectern/internal/errmsg"
	"github.com/lectern-tui/lectern/internal/icons"
	"github.com/lectern-tui/lectern/internal/log"
	"github.com/lectern-tui/lectern/internal/mpris"
	"github.com/lectern-tui/lectern/internal/progress"
	"github.com/lectern-tui/lectern/internal/stderr"
)

func initialModel() (app.Model, *progress.Store, *mpris.Adapter, error) {
	cfg, err := config.Load()
	if err != nil {
		return app.Model{}, nil, nil, fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}

	if err := log.Setup(cfg.GetLogLevel()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	icons.Init(cfg.Icons)

	// Course file: CLI argument wins over config.
	coursePath := cfg.CourseFile
	if len(os.Args) > 1 {
		coursePath = os.Args[1]
	}
	if coursePath == "" {
		return app.Model{}, nil, nil, fmt.Errorf("no course file: pass one as an argument or set course_file in config.toml")
	}

	crs, err := course.Load(coursePath)
	if err != nil {
		return app.Model{}, nil, nil, fmt.Errorf("%s", errmsg.Format(errmsg.OpCourseLoad, err))
	}

	store, err := progress.Open()
	if err != nil {
		return app.Model{}, nil, nil, fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}

	user := cfg.GetUserName()

	// Reopen where the user left off.
	lastID, _, err := store.LastWatched(user)
	if err != nil {
		log.Warnf("main: last watched lookup: %v", err)
	}

	host := app.Host{
		Lectures:  crs.Lectures,
		CurrentID: lastID,
		Doubts:    crs.Doubts,
		UserName:  user,
		OnDoubtSubmit: func(text string) (doubt.Doubt, error) {
			// Forwarding to the course platform is out of scope for the
			// CLI host; the question is kept locally for this session.
			d := doubt.Doubt{
				ID:      fmt.Sprintf("local-%d", time.Now().UnixNano()),
				Text:    text,
				Asker:   user,
				AskedAt: time.Now(),
			}
			log.Infof("main: question submitted: %s", text)
			return d, nil
		},
	}

	m, err := app.New(cfg, host, store)
	if err != nil {
		store.Close()
		return app.Model{}, nil, nil, fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}

	bridge, err := mpris.New()
	if err != nil {
		log.Warnf("main: media-keys bridge unavailable: %v", err)
		bridge = nil
	} else {
		m.SetSessionObserver(bridge)
	}

	return m, store, bridge, nil
}

func main() {
	m, store, bridge, err := initialModel()
	if err != nil {
		fmt.Printf("Error initializing: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	if bridge != nil {
		defer bridge.Close()
	}

	// The audio output layer writes straight to fd 2; capture it so it
	// cannot corrupt the alternate screen.
	if err := stderr.Start(); err != nil {
		log.Warnf("main: stderr capture unavailable: %v", err)
	}
	defer stderr.Stop()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		stderr.Stop()
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
