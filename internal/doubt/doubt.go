// Package doubt defines the question/answer types the engine renders.
// Lifecycle (creation, moderation, deletion) belongs to the host; the engine
// only displays the feed and forwards submission intents.
package doubt

import "time"

// Doubt is one question asked against a lecture, with an optional answer.
type Doubt struct {
	ID        string
	Text      string
	Asker     string
	AskedAt   time.Time
	Answer    string // empty when unanswered
	Answerer  string
	RepliedAt time.Time
}

// Answered reports whether the doubt carries an answer.
func (d Doubt) Answered() bool {
	return d.Answer != ""
}
