// Package pose classifies per-frame finger states into a fixed set of hand poses.
package pose

import "time"

// Finger indexes into Sample.Extended.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// Sample is one frame's finger extension flags and the time it was captured.
type Sample struct {
	Extended [NumFingers]bool
	At       time.Time
}

// NewSample builds a Sample from thumb-to-pinky flags.
func NewSample(at time.Time, thumb, index, middle, ring, pinky bool) Sample {
	return Sample{
		Extended: [NumFingers]bool{thumb, index, middle, ring, pinky},
		At:       at,
	}
}

// Count returns the number of extended fingers.
func (s Sample) Count() int {
	n := 0
	for _, up := range s.Extended {
		if up {
			n++
		}
	}
	return n
}

// Category is the discrete classification of a Sample.
type Category int

const (
	// Standby matches no actionable pose.
	Standby Category = iota
	// Fist has every finger flexed.
	Fist
	// OpenPalm has every finger extended.
	OpenPalm
	// ThumbOnly has only the thumb extended.
	ThumbOnly
	// FourNoThumb has index through pinky extended with the thumb flexed.
	FourNoThumb
	// ThreeMiddleOnly has index, middle and ring extended.
	ThreeMiddleOnly
)

var categoryNames = map[Category]string{
	Standby:         "standby",
	Fist:            "fist",
	OpenPalm:        "open_palm",
	ThumbOnly:       "thumb_only",
	FourNoThumb:     "four_no_thumb",
	ThreeMiddleOnly: "three_middle_only",
}

var categoryLabels = map[Category]string{
	Standby:         "Standby",
	Fist:            "Previous (Fist)",
	OpenPalm:        "Next (Open Palm)",
	ThumbOnly:       "Play Pause",
	FourNoThumb:     "Volume Up",
	ThreeMiddleOnly: "Volume Down",
}

// String returns the machine name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Label returns the status-line text shown while the pose is held.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return "Standby"
}

// Classify maps a sample to its pose category. Rules are checked in a
// fixed priority order and the first match wins.
func Classify(s Sample) Category {
	e := s.Extended
	n := s.Count()

	switch {
	case n == 0:
		return Fist
	case n == int(NumFingers):
		return OpenPalm
	case n == 4 && !e[Thumb]:
		return FourNoThumb
	case n == 3 && e[Index] && e[Middle] && e[Ring] && !e[Thumb] && !e[Pinky]:
		return ThreeMiddleOnly
	case n == 1 && e[Thumb]:
		return ThumbOnly
	default:
		return Standby
	}
}
