//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlaybackStart,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
		{
			name:     "runtime load operation",
			op:       OpRuntimeLoad,
			err:      errors.New("binary not found"),
			expected: "Failed to load the embedded player runtime: binary not found",
		},
		{
			name:     "checkpoint write operation",
			op:       OpCheckpointWrite,
			err:      errors.New("database is locked"),
			expected: "Failed to save playback checkpoint: database is locked",
		},
		{
			name:     "lecture switch operation",
			op:       OpLectureSwitch,
			err:      errors.New("unknown lecture id"),
			expected: "Failed to switch lecture: unknown lecture id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpLectureLoad,
			context:  "Kinematics I",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpLectureLoad,
			context:  "Kinematics I",
			err:      errors.New("bad video url"),
			expected: "Failed to load lecture 'Kinematics I': bad video url",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpLectureLoad,
			context:  "",
			err:      errors.New("bad video url"),
			expected: "Failed to load lecture: bad video url",
		},
		{
			name:     "course manifest with path context",
			op:       OpCourseLoad,
			context:  "/home/user/course.toml",
			err:      errors.New("no such file"),
			expected: "Failed to load course manifest '/home/user/course.toml': no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	// Verify that Op constants are non-empty and produce valid messages
	ops := []Op{
		OpPlaybackStart, OpPlaybackSeek, OpVolumeSet, OpRateSet, OpFullscreen,
		OpBackendCreate, OpBackendDestroy, OpRuntimeLoad,
		OpLectureLoad, OpLectureSwitch, OpCourseLoad,
		OpCheckpointRead, OpCheckpointWrite,
		OpDoubtSubmit,
		OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			result := Format(op, testErr)
			if result == "" {
				t.Error("Format should return non-empty string for non-nil error")
			}

			// Verify the format includes the operation
			expected := "Failed to " + string(op) + ": test error"
			if result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
