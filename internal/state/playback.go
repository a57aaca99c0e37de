package state

import "github.com/ayusman/gesturectl/internal/gesture"

// Volume bounds and defaults.
const (
	MinVolume         = 0
	MaxVolume         = 100
	DefaultVolume     = 50
	DefaultVolumeStep = 8
)

// Playback tracks the assumed player state. There is no feedback from the
// OS, so it only reflects the commands that were sent.
type Playback struct {
	Playing bool
	Volume  int
	step    int
}

// NewPlayback creates a paused Playback at the given volume.
func NewPlayback(volume, step int) *Playback {
	if step <= 0 {
		step = DefaultVolumeStep
	}
	return &Playback{Volume: clamp(volume), step: step}
}

// Step returns the volume change per command.
func (p *Playback) Step() int {
	return p.step
}

// Apply updates the state for a fired gesture.
func (p *Playback) Apply(k gesture.Kind) {
	switch k {
	case gesture.PlayPause:
		p.Playing = !p.Playing
	case gesture.VolumeUp:
		p.Volume = clamp(p.Volume + p.step)
	case gesture.VolumeDown:
		p.Volume = clamp(p.Volume - p.step)
	}
}

func clamp(v int) int {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}
