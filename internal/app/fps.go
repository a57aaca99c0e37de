package app

import "time"

// fpsCounter counts sampling iterations and reports the count of the last
// full second.
type fpsCounter struct {
	windowStart time.Time
	frames      int
	fps         int
}

// Tick counts one iteration at now.
func (c *fpsCounter) Tick(now time.Time) {
	if c.windowStart.IsZero() {
		c.windowStart = now
	}
	c.frames++
	if now.Sub(c.windowStart) >= time.Second {
		c.fps = c.frames
		c.frames = 0
		c.windowStart = now
	}
}

// FPS returns the rate measured over the last full second.
func (c *fpsCounter) FPS() int {
	return c.fps
}
