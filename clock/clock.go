// Package clock tracks simulation time for one episode. One tick is one
// simulated second; the episode runs over [0, EndTick).
package clock

import "fmt"

type Clock struct {
	EndTick int // exclusive

	T int // current tick (seconds since episode start)
}

func New(duration int) *Clock {
	c := &Clock{EndTick: duration}
	c.Reset()
	return c
}

// Reset rewinds the clock to the start of an episode.
func (c *Clock) Reset() {
	c.T = 0
}

// Tick advances the clock by one second.
func (c *Clock) Tick() {
	c.T++
}

// Done reports whether the episode duration has elapsed.
func (c *Clock) Done() bool {
	return c.T >= c.EndTick
}

// String formats the current tick as HH:MM:SS.
func (c *Clock) String() string {
	t := c.T
	h := t / 3600
	t -= h * 3600
	m := t / 60
	s := t - m*60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
