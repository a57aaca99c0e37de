// Package session keeps the live statistics of a gesture control session.
package session

import (
	"sync"
	"time"

	"github.com/ayusman/gesturectl/internal/gesture"
)

// HistorySize is the number of recent entries kept in the history.
const HistorySize = 15

// Entry is one line of the activity history. Kind is KindNone for side
// activities such as screenshots.
type Entry struct {
	Kind  gesture.Kind `json:"kind"`
	Label string       `json:"label"`
	At    time.Time    `json:"at"`
}

// IsGesture reports whether the entry came from a fired gesture.
func (e Entry) IsGesture() bool {
	return e.Kind.Valid()
}

// Stats is a point-in-time copy of the session statistics.
type Stats struct {
	Counts       [gesture.NumKinds]int `json:"counts"`
	Total        int                   `json:"total"`
	Start        time.Time             `json:"start"`
	LastActivity time.Time             `json:"last_activity"`
	History      []Entry               `json:"history"`
}

// Count returns how many times kind k fired.
func (s Stats) Count(k gesture.Kind) int {
	if !k.Valid() {
		return 0
	}
	return s.Counts[k.Index()]
}

// MostUsed returns the kind with the highest count. Ties go to the kind
// earliest in enumeration order. It returns false when nothing fired.
func (s Stats) MostUsed() (gesture.Kind, bool) {
	if s.Total == 0 {
		return gesture.KindNone, false
	}
	best := gesture.Kinds[0]
	for _, k := range gesture.Kinds[1:] {
		if s.Counts[k.Index()] > s.Counts[best.Index()] {
			best = k
		}
	}
	return best, true
}

// Duration returns the session length as of now.
func (s Stats) Duration(now time.Time) time.Duration {
	if s.Start.IsZero() {
		return 0
	}
	return now.Sub(s.Start)
}

// Clone returns a copy that shares no memory with s.
func (s Stats) Clone() Stats {
	c := s
	if s.History != nil {
		c.History = make([]Entry, len(s.History))
		copy(c.History, s.History)
	}
	return c
}

// Recorder is the single owner of session statistics. It is safe for
// concurrent use.
type Recorder struct {
	mu    sync.Mutex
	stats Stats
}

// NewRecorder creates a Recorder for a session that started at start.
func NewRecorder(start time.Time) *Recorder {
	r := &Recorder{}
	r.Reset(start)
	return r
}

// Record counts a fired gesture and appends it to the history.
// Events with an invalid kind are ignored.
func (r *Recorder) Record(ev gesture.Event) {
	if !ev.Kind.Valid() {
		return
	}

	label := ev.Label
	if label == "" {
		label = ev.Kind.Label()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.Counts[ev.Kind.Index()]++
	r.stats.Total++
	r.stats.LastActivity = ev.FiredAt
	r.appendLocked(Entry{Kind: ev.Kind, Label: label, At: ev.FiredAt})
}

// RecordActivity appends a non-gesture entry to the history. Counters are
// not affected.
func (r *Recorder) RecordActivity(label string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.LastActivity = at
	r.appendLocked(Entry{Kind: gesture.KindNone, Label: label, At: at})
}

// appendLocked adds e to the history, dropping the oldest entry when full.
// Caller must hold r.mu.
func (r *Recorder) appendLocked(e Entry) {
	if len(r.stats.History) >= HistorySize {
		copy(r.stats.History, r.stats.History[1:])
		r.stats.History = r.stats.History[:HistorySize-1]
	}
	r.stats.History = append(r.stats.History, e)
}

// Stats returns a deep copy of the current statistics.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.Clone()
}

// MostUsed returns the most fired kind, or false if none fired yet.
func (r *Recorder) MostUsed() (gesture.Kind, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.MostUsed()
}

// Reset clears all counters and history and starts a new session at start.
func (r *Recorder) Reset(start time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = Stats{
		Start:        start,
		LastActivity: start,
		History:      make([]Entry, 0, HistorySize),
	}
}
