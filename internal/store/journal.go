package store

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/gesturectl/internal/session"
)

// DefaultJournalBuffer is the number of entries a Journal queues before it
// starts dropping.
const DefaultJournalBuffer = 256

// Journal writes session entries in the background. Append never blocks;
// when the queue is full the entry is dropped.
type Journal struct {
	store     *Store
	sessionID string
	entries   chan session.Entry
	done      chan struct{}

	mu      sync.Mutex
	closed  bool
	total   int
	dropped int
}

// OpenJournal creates a session row and starts the writer.
func (s *Store) OpenJournal(start time.Time, buffer int) (*Journal, error) {
	if buffer <= 0 {
		buffer = DefaultJournalBuffer
	}

	sess := &Session{StartedAt: start}
	if err := s.Sessions().Create(sess); err != nil {
		return nil, err
	}

	j := newJournal(s, sess.ID, buffer)
	go j.run()
	return j, nil
}

func newJournal(s *Store, sessionID string, buffer int) *Journal {
	return &Journal{
		store:     s,
		sessionID: sessionID,
		entries:   make(chan session.Entry, buffer),
		done:      make(chan struct{}),
	}
}

// SessionID returns the ID of the journal's session.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Append queues e. It reports false when the entry was dropped.
func (j *Journal) Append(e session.Entry) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return false
	}

	// The total counts every gesture; a drop only loses the event row.
	if e.IsGesture() {
		j.total++
	}

	select {
	case j.entries <- e:
		return true
	default:
		j.dropped++
		log.Printf("journal full, dropped %q", e.Label)
		return false
	}
}

// Dropped returns how many entries were dropped.
func (j *Journal) Dropped() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dropped
}

// Close writes what is queued and marks the session ended.
func (j *Journal) Close(end time.Time) error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	total := j.total
	close(j.entries)
	j.mu.Unlock()

	<-j.done
	return j.store.Sessions().End(j.sessionID, end, total)
}

func (j *Journal) run() {
	defer close(j.done)

	events := j.store.Events()
	for e := range j.entries {
		kind := "activity"
		if e.IsGesture() {
			kind = e.Kind.String()
		}
		ev := &Event{SessionID: j.sessionID, Kind: kind, Label: e.Label, FiredAt: e.At}
		if err := events.Append(ev); err != nil {
			log.Printf("journal write failed: %v", err)
		}
	}
}
