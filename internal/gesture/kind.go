// Package gesture turns classified poses into debounced media-control gestures.
package gesture

import (
	"time"

	"github.com/ayusman/gesturectl/internal/pose"
)

// Kind is a media command a gesture can fire.
type Kind int

// Kinds in enumeration order. The order breaks ties when ranking usage.
const (
	KindNone Kind = iota
	Next
	Previous
	PlayPause
	VolumeUp
	VolumeDown
)

// NumKinds is the number of actionable kinds.
const NumKinds = 5

// Kinds lists every actionable kind in enumeration order.
var Kinds = [NumKinds]Kind{Next, Previous, PlayPause, VolumeUp, VolumeDown}

// Regime selects how a kind is debounced.
type Regime int

const (
	// EdgeTriggered fires once per transition into the pose.
	EdgeTriggered Regime = iota
	// LevelTriggered fires repeatedly while the pose is held.
	LevelTriggered
)

var kindNames = [...]string{
	KindNone:   "none",
	Next:       "next",
	Previous:   "prev",
	PlayPause:  "play_pause",
	VolumeUp:   "vol_up",
	VolumeDown: "vol_down",
}

var kindLabels = [...]string{
	KindNone:   "None",
	Next:       "Next Song",
	Previous:   "Previous Song",
	PlayPause:  "Play Pause",
	VolumeUp:   "Volume Up",
	VolumeDown: "Volume Down",
}

// String returns the short machine name of the kind.
func (k Kind) String() string {
	if k < KindNone || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Label returns the human label recorded in the history.
func (k Kind) Label() string {
	if k < KindNone || int(k) >= len(kindLabels) {
		return "Unknown"
	}
	return kindLabels[k]
}

// Valid reports whether k is one of the five actionable kinds.
func (k Kind) Valid() bool {
	return k >= Next && k <= VolumeDown
}

// Index returns the zero-based position of k in Kinds.
// It is only meaningful when k.Valid().
func (k Kind) Index() int {
	return int(k) - 1
}

// Regime returns the debounce regime for the kind.
func (k Kind) Regime() Regime {
	switch k {
	case VolumeUp, VolumeDown:
		return LevelTriggered
	default:
		return EdgeTriggered
	}
}

// ParseKind returns the kind with the given machine name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name && Kind(i) != KindNone {
			return Kind(i), true
		}
	}
	return KindNone, false
}

// KindFor maps a pose category to the kind it triggers.
// Standby maps to no kind.
func KindFor(c pose.Category) (Kind, bool) {
	switch c {
	case pose.OpenPalm:
		return Next, true
	case pose.Fist:
		return Previous, true
	case pose.ThumbOnly:
		return PlayPause, true
	case pose.FourNoThumb:
		return VolumeUp, true
	case pose.ThreeMiddleOnly:
		return VolumeDown, true
	default:
		return KindNone, false
	}
}

// Event is a fired gesture.
type Event struct {
	Kind    Kind      `json:"kind"`
	FiredAt time.Time `json:"fired_at"`
	Label   string    `json:"label"`
}

// NewEvent creates an Event labelled for its kind.
func NewEvent(k Kind, at time.Time) Event {
	return Event{Kind: k, FiredAt: at, Label: k.Label()}
}
