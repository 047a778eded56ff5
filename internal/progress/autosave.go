package progress

import (
	"sync"
	"time"

	"github.com/lectern-tui/lectern/internal/log"
)

// Autosaver periodically snapshots the playback position and writes it as a
// checkpoint. Save failures are logged and dropped; the next tick retries
// with a fresh snapshot.
type Autosaver struct {
	interval time.Duration
	snapshot func() (Checkpoint, bool)
	save     func(Checkpoint) error

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewAutosaver creates an autosaver. snapshot returns the checkpoint to
// write and false when there is nothing worth saving yet (no duration
// known). save performs the actual write.
func NewAutosaver(interval time.Duration, snapshot func() (Checkpoint, bool), save func(Checkpoint) error) *Autosaver {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Autosaver{
		interval: interval,
		snapshot: snapshot,
		save:     save,
	}
}

// Start launches the ticker loop. Calling Start on a running autosaver is a
// no-op.
func (a *Autosaver) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stop != nil {
		return
	}
	a.stop = make(chan struct{})
	a.done = make(chan struct{})

	go a.loop(a.stop, a.done)
}

func (a *Autosaver) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.Flush()
		}
	}
}

// Flush writes one checkpoint immediately if the snapshot has something to
// save. Used on every tick, and by callers right before a lecture switch or
// shutdown.
func (a *Autosaver) Flush() {
	cp, ok := a.snapshot()
	if !ok {
		return
	}
	if err := a.save(cp); err != nil {
		log.Warnf("progress: autosave for lecture %s: %v", cp.LectureID, err)
	}
}

// Stop halts the ticker loop and waits for it to exit. It does not flush;
// callers flush explicitly so the final write is ordered with what follows.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	stop, done := a.stop, a.done
	a.stop, a.done = nil, nil
	a.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
