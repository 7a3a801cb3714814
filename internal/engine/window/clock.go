package window

// fpsWindow is how many milliseconds of frames are averaged per FPS sample.
const fpsWindow = 1000

// FrameClock measures frame deltas and a once-a-second FPS average from a
// millisecond tick source.
type FrameClock struct {
	ticks func() uint32

	start  uint32
	last   uint32
	sample uint32
	frames int
	fps    float32
}

// NewFrameClock starts a clock at the current tick.
func NewFrameClock(ticks func() uint32) *FrameClock {
	now := ticks()
	return &FrameClock{ticks: ticks, start: now, last: now, sample: now}
}

// Tick marks the end of a frame. It returns the seconds since the previous
// Tick and whether a new FPS value became available.
func (c *FrameClock) Tick() (dt float32, fpsUpdated bool) {
	now := c.ticks()
	dt = float32(now-c.last) / 1000
	c.last = now

	c.frames++
	if elapsed := now - c.sample; elapsed >= fpsWindow {
		c.fps = float32(c.frames) * 1000 / float32(elapsed)
		c.frames = 0
		c.sample = now
		fpsUpdated = true
	}
	return dt, fpsUpdated
}

// FPS returns the last completed FPS sample.
func (c *FrameClock) FPS() float32 { return c.fps }

// Seconds returns the time since the clock started, as fed to the
// shaders' frame-time uniform.
func (c *FrameClock) Seconds() float32 {
	return float32(c.last-c.start) / 1000
}
