// Package icons provides terminal glyphs with nerd-font, unicode and plain
// fallbacks.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Play       string
	Pause      string
	Volume     string
	VolumeMute string
	Completed  string
	Lecture    string
	Question   string
	Answer     string
	Clock      string
	Fullscreen string
}

var (
	nerdIcons = Icons{
		Play:       "", // nf-fa-play
		Pause:      "", // nf-fa-pause
		Volume:     "", // nf-fa-volume_up
		VolumeMute: "", // nf-fa-volume_mute
		Completed:  "", // nf-fa-check
		Lecture:    "", // nf-fa-video_camera
		Question:   "", // nf-fa-question_circle
		Answer:     "", // nf-fa-comment
		Clock:      "", // nf-fa-clock_o
		Fullscreen: "", // nf-fa-expand
	}

	unicodeIcons = Icons{
		Play:       "▶",
		Pause:      "⏸",
		Volume:     "🔊",
		VolumeMute: "🔇",
		Completed:  "✓",
		Lecture:    "🎬",
		Question:   "❓",
		Answer:     "💬",
		Clock:      "🕒",
		Fullscreen: "⛶",
	}

	noneIcons = Icons{
		Play:       ">",
		Pause:      "|",
		Volume:     "V",
		VolumeMute: "M",
		Completed:  "*",
		Lecture:    "-",
		Question:   "?",
		Answer:     "A",
		Clock:      "@",
		Fullscreen: "F",
	}

	// current holds the active icon set
	current = unicodeIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	case StyleNone:
		current = noneIcons
	default:
		current = unicodeIcons
	}
}

// Play returns the playing indicator.
func Play() string { return current.Play }

// Pause returns the paused indicator.
func Pause() string { return current.Pause }

// Volume returns the volume indicator.
func Volume() string { return current.Volume }

// VolumeMute returns the muted volume indicator.
func VolumeMute() string { return current.VolumeMute }

// Completed returns the finished-lecture marker.
func Completed() string { return current.Completed }

// Lecture returns the lecture list marker.
func Lecture() string { return current.Lecture }

// Question returns the unanswered question marker.
func Question() string { return current.Question }

// Answer returns the answered question marker.
func Answer() string { return current.Answer }

// Clock returns the last-watched indicator.
func Clock() string { return current.Clock }

// Fullscreen returns the fullscreen indicator.
func Fullscreen() string { return current.Fullscreen }
