package backend

import (
	"fmt"
	"os/exec"
	"sync"
	"time"
)

// The embedded player runtime is process-wide singleton state, loaded at
// most once per process lifetime. Every session observes the same status
// and shares the same load result; only the first session triggers the
// probe. A failed load is terminal for the process — reloading is a
// user-initiated action (restart), never automatic.

// RuntimeStatus describes the shared runtime lifecycle.
type RuntimeStatus int

const (
	RuntimeNotRequested RuntimeStatus = iota
	RuntimeLoading
	RuntimeReady
	RuntimeFailed
)

// String returns the status name.
func (s RuntimeStatus) String() string {
	switch s {
	case RuntimeNotRequested:
		return "NotRequested"
	case RuntimeLoading:
		return "Loading"
	case RuntimeReady:
		return "Ready"
	case RuntimeFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

const probeTimeout = 5 * time.Second

var (
	runtimeMu     sync.Mutex
	runtimeStatus RuntimeStatus
	runtimeErr    error
	runtimeDone   chan struct{}
	runtimeBinary string

	// probeRuntime is swapped in tests.
	probeRuntime = defaultProbe
)

// EnsureRuntime blocks until the embedded player runtime for binary is
// loaded, sharing the in-flight load with concurrent callers. Returns
// ErrRuntimeFailed (wrapped with the probe error) once the runtime has
// failed to load.
func EnsureRuntime(binary string) error {
	runtimeMu.Lock()
	switch runtimeStatus {
	case RuntimeReady:
		runtimeMu.Unlock()
		return nil
	case RuntimeFailed:
		err := runtimeErr
		runtimeMu.Unlock()
		return err
	case RuntimeLoading:
		done := runtimeDone
		runtimeMu.Unlock()
		<-done
		runtimeMu.Lock()
		err := runtimeErr
		runtimeMu.Unlock()
		return err
	}

	// First caller: transition to Loading and run the probe.
	runtimeStatus = RuntimeLoading
	runtimeBinary = binary
	runtimeDone = make(chan struct{})
	done := runtimeDone
	runtimeMu.Unlock()

	probeErr := probeRuntime(binary)

	runtimeMu.Lock()
	if probeErr != nil {
		runtimeStatus = RuntimeFailed
		runtimeErr = fmt.Errorf("%w: %v", ErrRuntimeFailed, probeErr)
	} else {
		runtimeStatus = RuntimeReady
		runtimeErr = nil
	}
	err := runtimeErr
	runtimeMu.Unlock()

	close(done)
	return err
}

// CurrentRuntimeStatus returns the shared runtime status.
func CurrentRuntimeStatus() RuntimeStatus {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	return runtimeStatus
}

// RuntimeBinary returns the binary the runtime was loaded with.
func RuntimeBinary() string {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	return runtimeBinary
}

// defaultProbe verifies the player binary exists and answers a version
// query within the probe timeout.
func defaultProbe(binary string) error {
	path, err := exec.LookPath(binary)
	if err != nil {
		return fmt.Errorf("locate %s: %w", binary, err)
	}

	cmd := exec.Command(path, "--version")
	cmd.SysProcAttr = sysProcAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	select {
	case err := <-waitErr:
		if err != nil {
			return fmt.Errorf("probe %s: %w", binary, err)
		}
		return nil
	case <-time.After(probeTimeout):
		_ = killProcess(cmd)
		return fmt.Errorf("probe %s: timed out after %s", binary, probeTimeout)
	}
}

// resetRuntimeForTest restores the not-requested state.
func resetRuntimeForTest() {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	runtimeStatus = RuntimeNotRequested
	runtimeErr = nil
	runtimeDone = nil
	runtimeBinary = ""
}
