// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"
	OpVolumeSet     Op = "set volume"
	OpRateSet       Op = "set playback speed"
	OpFullscreen    Op = "toggle fullscreen"

	// Backend operations
	OpBackendCreate  Op = "create playback backend"
	OpBackendDestroy Op = "shut down playback backend"
	OpRuntimeLoad    Op = "load the embedded player runtime"

	// Lecture operations
	OpLectureLoad   Op = "load lecture"
	OpLectureSwitch Op = "switch lecture"
	OpCourseLoad    Op = "load course manifest"

	// Progress operations
	OpCheckpointRead  Op = "read playback checkpoint"
	OpCheckpointWrite Op = "save playback checkpoint"

	// Doubt operations
	OpDoubtSubmit Op = "submit question"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
