// Package lecture defines the lecture model consumed by the playback engine.
// Lectures are immutable once constructed; navigation swaps the active
// lecture wholesale, it never mutates one in place.
package lecture

import "time"

// Lecture is one playable item in a course.
type Lecture struct {
	ID        string
	Title     string
	Subject   string        // optional
	Duration  time.Duration // optional, 0 when unknown
	Thumbnail string        // optional
	VideoURL  string
	Completed bool
}

// Collection is an ordered, read-only set of lectures.
type Collection struct {
	lectures []Lecture
}

// NewCollection builds a collection preserving the given order.
func NewCollection(lectures []Lecture) *Collection {
	c := &Collection{lectures: make([]Lecture, len(lectures))}
	copy(c.lectures, lectures)
	return c
}

// Len returns the number of lectures.
func (c *Collection) Len() int {
	return len(c.lectures)
}

// All returns a copy of the ordered lectures.
func (c *Collection) All() []Lecture {
	out := make([]Lecture, len(c.lectures))
	copy(out, c.lectures)
	return out
}

// At returns the lecture at index, or nil if out of range.
func (c *Collection) At(index int) *Lecture {
	if index < 0 || index >= len(c.lectures) {
		return nil
	}
	l := c.lectures[index]
	return &l
}

// ByID returns the lecture with the given id, or nil if absent.
func (c *Collection) ByID(id string) *Lecture {
	for i := range c.lectures {
		if c.lectures[i].ID == id {
			l := c.lectures[i]
			return &l
		}
	}
	return nil
}

// IndexOf returns the position of the lecture with the given id, or -1.
func (c *Collection) IndexOf(id string) int {
	for i := range c.lectures {
		if c.lectures[i].ID == id {
			return i
		}
	}
	return -1
}
