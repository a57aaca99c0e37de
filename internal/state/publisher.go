// Package state shares a consistent view of the session between the
// sampling loop and its readers.
package state

import (
	"sync"
	"time"

	"github.com/ayusman/gesturectl/internal/session"
)

// Snapshot is an immutable copy of everything a renderer needs.
type Snapshot struct {
	Seq          uint64        `json:"seq"`
	Category     string        `json:"category"`
	HandDetected bool          `json:"hand_detected"`
	Enabled      bool          `json:"enabled"`
	Playing      bool          `json:"playing"`
	Volume       int           `json:"volume"`
	FPS          int           `json:"fps"`
	Stats        session.Stats `json:"stats"`
	PublishedAt  time.Time     `json:"published_at"`
}

// Publisher holds the latest Snapshot. One goroutine publishes; any
// number may read.
type Publisher struct {
	mu   sync.RWMutex
	snap Snapshot
	seq  uint64
}

// NewPublisher creates an empty Publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish replaces the current snapshot. The caller's history slice is
// copied before the lock is taken, so the lock is held only for the swap.
// The assigned sequence number is returned.
func (p *Publisher) Publish(s Snapshot) uint64 {
	s.Stats = s.Stats.Clone()

	p.mu.Lock()
	p.seq++
	s.Seq = p.seq
	p.snap = s
	p.mu.Unlock()

	return s.Seq
}

// Read returns the latest snapshot. The returned value is a private copy.
func (p *Publisher) Read() Snapshot {
	p.mu.RLock()
	s := p.snap
	p.mu.RUnlock()

	// Published histories are never mutated, so cloning outside the lock is safe.
	s.Stats = s.Stats.Clone()
	return s
}

// Seq returns the sequence number of the latest publish.
func (p *Publisher) Seq() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.seq
}
