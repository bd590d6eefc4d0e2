package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transit-control-lab/buscorridor-sim/clock"
)

func TestClock(t *testing.T) {
	c := clock.New(3)
	assert.Equal(t, 0, c.T)
	assert.False(t, c.Done())

	c.Tick()
	c.Tick()
	assert.False(t, c.Done())
	c.Tick()
	assert.True(t, c.Done())

	c.Reset()
	assert.Equal(t, 0, c.T)
	assert.False(t, c.Done())
}

func TestString(t *testing.T) {
	c := clock.New(100000)
	assert.Equal(t, "00:00:00", c.String())
	for i := 0; i < 3725; i++ {
		c.Tick()
	}
	assert.Equal(t, "01:02:05", c.String())
}
