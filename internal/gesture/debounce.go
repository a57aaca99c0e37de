package gesture

import (
	"time"

	"github.com/ayusman/gesturectl/internal/pose"
)

// Default cooldowns.
const (
	// DefaultEdgeCooldown gates edge-triggered kinds.
	DefaultEdgeCooldown = 700 * time.Millisecond
	// DefaultLevelCooldown gates level-triggered kinds.
	DefaultLevelCooldown = 150 * time.Millisecond
)

// Cooldowns holds the minimum spacing for each regime.
type Cooldowns struct {
	Edge  time.Duration
	Level time.Duration
}

// DefaultCooldowns returns the stock cooldowns.
func DefaultCooldowns() Cooldowns {
	return Cooldowns{Edge: DefaultEdgeCooldown, Level: DefaultLevelCooldown}
}

// State is the debounce memory carried between frames.
type State struct {
	// LastFiredPattern is the category that last fired an edge-triggered
	// kind. Only meaningful when HasPattern is set.
	LastFiredPattern pose.Category
	HasPattern       bool
	// LastFireTime is when any kind last fired. Zero means never.
	LastFireTime time.Time
}

// Debouncer decides whether a classified pose may fire now.
// It is not safe for concurrent use; the sampling loop owns it.
type Debouncer struct {
	cooldowns Cooldowns
	state     State
}

// NewDebouncer creates a Debouncer. Non-positive cooldowns fall back to the defaults.
func NewDebouncer(c Cooldowns) *Debouncer {
	d := &Debouncer{}
	d.SetCooldowns(c)
	return d
}

// SetCooldowns replaces the cooldowns without touching the debounce state.
func (d *Debouncer) SetCooldowns(c Cooldowns) {
	if c.Edge <= 0 {
		c.Edge = DefaultEdgeCooldown
	}
	if c.Level <= 0 {
		c.Level = DefaultLevelCooldown
	}
	d.cooldowns = c
}

// Cooldowns returns the active cooldowns.
func (d *Debouncer) Cooldowns() Cooldowns {
	return d.cooldowns
}

// State returns a copy of the debounce state.
func (d *Debouncer) State() State {
	return d.state
}

// Arm blocks every kind until its cooldown has passed since at. A fresh
// Debouncer armed at session start cannot fire on the first frames.
func (d *Debouncer) Arm(at time.Time) {
	d.state.LastFireTime = at
}

// Reset forgets the last fired pattern and time.
func (d *Debouncer) Reset() {
	d.state = State{}
}

// Evaluate reports whether category c, observed at now, fires a gesture.
//
// Edge-triggered kinds fire once when the pose is entered and stay
// silent while it is held, regardless of dwell time. Level-triggered
// kinds repeat every level cooldown while held. Standby never fires
// and leaves the state untouched, so tracking jitter between two frames
// of the same pose does not re-arm it.
func (d *Debouncer) Evaluate(c pose.Category, now time.Time) (Kind, bool) {
	kind, ok := KindFor(c)
	if !ok {
		return KindNone, false
	}

	switch kind.Regime() {
	case LevelTriggered:
		// Level poses leave the pattern alone, so they never re-arm an
		// edge pose.
		if !d.cooledDown(now, d.cooldowns.Level) {
			return KindNone, false
		}
		d.state.LastFireTime = now
		return kind, true

	default:
		if d.state.HasPattern {
			if d.state.LastFiredPattern == c {
				return KindNone, false
			}
			// A different edge pose re-arms even when it is still inside
			// its own cooldown.
			d.state.HasPattern = false
		}
		if !d.cooledDown(now, d.cooldowns.Edge) {
			return KindNone, false
		}
		d.state.LastFiredPattern = c
		d.state.HasPattern = true
		d.state.LastFireTime = now
		return kind, true
	}
}

func (d *Debouncer) cooledDown(now time.Time, cooldown time.Duration) bool {
	if d.state.LastFireTime.IsZero() {
		return true
	}
	return now.Sub(d.state.LastFireTime) > cooldown
}
