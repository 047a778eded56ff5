// Package course loads a course manifest: the ordered lecture list plus the
// question feed, from a TOML file. The manifest is read once at startup; the
// engine never writes it back.
package course

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lectern-tui/lectern/internal/doubt"
	"github.com/lectern-tui/lectern/internal/lecture"
)

// Course is a parsed manifest.
type Course struct {
	Title    string
	Lectures []lecture.Lecture
	Doubts   []doubt.Doubt
}

type manifest struct {
	Title    string            `koanf:"title"`
	Lectures []lectureManifest `koanf:"lectures"`
	Doubts   []doubtManifest   `koanf:"doubts"`
}

type lectureManifest struct {
	ID              string `koanf:"id"`
	Title           string `koanf:"title"`
	Subject         string `koanf:"subject"`
	VideoURL        string `koanf:"video_url"`
	DurationSeconds int    `koanf:"duration_seconds"`
	Thumbnail       string `koanf:"thumbnail"`
}

type doubtManifest struct {
	ID        string `koanf:"id"`
	Text      string `koanf:"text"`
	Asker     string `koanf:"asker"`
	AskedAt   string `koanf:"asked_at"` // RFC 3339
	Answer    string `koanf:"answer"`
	Answerer  string `koanf:"answerer"`
	RepliedAt string `koanf:"replied_at"` // RFC 3339
}

// Load reads and validates a course manifest.
func Load(path string) (*Course, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("read course manifest: %w", err)
	}

	var m manifest
	if err := k.Unmarshal("", &m); err != nil {
		return nil, fmt.Errorf("parse course manifest: %w", err)
	}

	return m.toCourse()
}

func (m manifest) toCourse() (*Course, error) {
	if len(m.Lectures) == 0 {
		return nil, fmt.Errorf("course manifest has no lectures")
	}

	c := &Course{Title: m.Title}

	seen := make(map[string]bool, len(m.Lectures))
	for i, lm := range m.Lectures {
		if lm.ID == "" {
			return nil, fmt.Errorf("lecture %d: missing id", i+1)
		}
		if seen[lm.ID] {
			return nil, fmt.Errorf("lecture %d: duplicate id %q", i+1, lm.ID)
		}
		seen[lm.ID] = true
		if lm.VideoURL == "" {
			return nil, fmt.Errorf("lecture %q: missing video_url", lm.ID)
		}

		title := lm.Title
		if title == "" {
			title = lm.ID
		}

		c.Lectures = append(c.Lectures, lecture.Lecture{
			ID:        lm.ID,
			Title:     title,
			Subject:   lm.Subject,
			Duration:  time.Duration(lm.DurationSeconds) * time.Second,
			Thumbnail: lm.Thumbnail,
			VideoURL:  lm.VideoURL,
		})
	}

	for _, dm := range m.Doubts {
		c.Doubts = append(c.Doubts, doubt.Doubt{
			ID:        dm.ID,
			Text:      dm.Text,
			Asker:     dm.Asker,
			AskedAt:   parseTime(dm.AskedAt),
			Answer:    dm.Answer,
			Answerer:  dm.Answerer,
			RepliedAt: parseTime(dm.RepliedAt),
		})
	}

	return c, nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
