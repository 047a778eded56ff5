// Package source classifies a lecture's video locator into a backend kind.
// Classification is purely syntactic: no network access, never an error.
package source

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Kind is the closed set of source classifications.
type Kind int

const (
	// KindEmbedded is a hosted-platform URL driven by the embedded backend.
	KindEmbedded Kind = iota
	// KindFileLike is a direct media file addressed by container extension.
	KindFileLike
	// KindOpaque is anything unrecognized, handed to the embedded backend
	// as a best effort.
	KindOpaque
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEmbedded:
		return "Embedded"
	case KindFileLike:
		return "FileLike"
	case KindOpaque:
		return "Opaque"
	default:
		return "Unknown"
	}
}

// Classification is the result of inspecting a video locator.
type Classification struct {
	Kind      Kind
	BackendID string // canonical content id for embedded sources
}

// Embedded platform URL shapes. Several equivalent shapes map to the same
// content id; tried in order before the extension fallback.
var embedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:youtube\.com|youtube-nocookie\.com)/watch\?(?:.*&)?v=([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`(?i)youtu\.be/([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`(?i)(?:youtube\.com|youtube-nocookie\.com)/embed/([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`(?i)youtube\.com/shorts/([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`(?i)youtube\.com/live/([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`(?i)youtube\.com/v/([A-Za-z0-9_-]{6,})`),
}

// Container extensions recognized as direct media files. Which pipeline
// plays them is the adapter factory's call; classification stays syntactic.
var fileExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mkv":  true,
	".mov":  true,
	".avi":  true,
	".m4v":  true,
	".mp3":  true,
	".flac": true,
	".wav":  true,
}

// Classify inspects a video locator and returns its classification.
// Unmatched input always resolves to KindOpaque.
func Classify(rawURL string) Classification {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return Classification{Kind: KindOpaque}
	}

	for _, re := range embedPatterns {
		if m := re.FindStringSubmatch(trimmed); m != nil {
			return Classification{Kind: KindEmbedded, BackendID: m[1]}
		}
	}

	if ext := extensionOf(trimmed); fileExtensions[ext] {
		return Classification{Kind: KindFileLike}
	}

	return Classification{Kind: KindOpaque}
}

// extensionOf extracts the lowercase file extension, ignoring query strings
// and fragments on URLs.
func extensionOf(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}
