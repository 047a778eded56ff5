package course

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "course.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
title = "Intro to Signals"

[[lectures]]
id = "l1"
title = "Sampling"
subject = "Week 1"
video_url = "https://www.youtube.com/watch?v=abcdef12345"
duration_seconds = 600

[[lectures]]
id = "l2"
video_url = "https://cdn.example.com/l2.mp4"

[[doubts]]
id = "d1"
text = "Why 44.1 kHz?"
asker = "bob"
asked_at = "2026-01-10T09:30:00Z"
answer = "History: video tape compatibility."
answerer = "prof"
replied_at = "2026-01-10T11:00:00Z"
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Intro to Signals", c.Title)
	require.Len(t, c.Lectures, 2)
	assert.Equal(t, "Sampling", c.Lectures[0].Title)
	assert.Equal(t, "Week 1", c.Lectures[0].Subject)
	assert.Equal(t, 600.0, c.Lectures[0].Duration.Seconds())
	// Title falls back to the id.
	assert.Equal(t, "l2", c.Lectures[1].Title)

	require.Len(t, c.Doubts, 1)
	assert.True(t, c.Doubts[0].Answered())
	assert.Equal(t, "bob", c.Doubts[0].Asker)
	assert.False(t, c.Doubts[0].AskedAt.IsZero())
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name     string
		manifest string
		wantErr  string
	}{
		{
			name:     "no lectures",
			manifest: `title = "empty"`,
			wantErr:  "no lectures",
		},
		{
			name: "missing id",
			manifest: `
[[lectures]]
video_url = "https://cdn.example.com/a.mp4"
`,
			wantErr: "missing id",
		},
		{
			name: "duplicate id",
			manifest: `
[[lectures]]
id = "l1"
video_url = "https://cdn.example.com/a.mp4"

[[lectures]]
id = "l1"
video_url = "https://cdn.example.com/b.mp4"
`,
			wantErr: "duplicate id",
		},
		{
			name: "missing video url",
			manifest: `
[[lectures]]
id = "l1"
`,
			wantErr: "missing video_url",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, tc.manifest))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoad_BadTimestampIsIgnored(t *testing.T) {
	path := writeManifest(t, `
[[lectures]]
id = "l1"
video_url = "https://cdn.example.com/a.mp4"

[[doubts]]
text = "q"
asked_at = "not a date"
`)

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Doubts, 1)
	assert.True(t, c.Doubts[0].AskedAt.IsZero())
}
