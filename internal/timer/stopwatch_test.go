package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// manualTicks returns a TickSource fed by the test.
func manualTicks() (TickSource, chan time.Time) {
	c := make(chan time.Time)
	return func() (<-chan time.Time, func()) { return c, func() {} }, c
}

func TestMinutes(t *testing.T) {
	cases := map[int]int{
		0:    0,
		-3:   0,
		1:    1,
		59:   1,
		60:   1,
		61:   2,
		119:  2,
		3600: 60,
	}
	for secs, want := range cases {
		assert.Equal(t, want, Minutes(secs), "%d seconds", secs)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "00:00", Format(0))
	assert.Equal(t, "01:05", Format(65))
	assert.Equal(t, "1:00:01", Format(3601))
}

func TestStopwatch_TicksOnlyWhileRunning(t *testing.T) {
	sw := New(func() (<-chan time.Time, func()) { return nil, func() {} })

	sw.Tick()
	assert.Zero(t, sw.Elapsed(), "stopped stopwatch ignores ticks")

	sw.Start()
	assert.True(t, sw.Running())
	sw.Tick()
	sw.Tick()
	sw.Stop()
	assert.False(t, sw.Running())
	assert.Equal(t, 2, sw.Elapsed())

	sw.Tick()
	assert.Equal(t, 2, sw.Elapsed())

	sw.Toggle()
	assert.True(t, sw.Running())
	sw.Tick()
	sw.Toggle()
	assert.Equal(t, 3, sw.Elapsed(), "elapsed time is additive across runs")

	sw.Reset()
	assert.Zero(t, sw.Elapsed())
	assert.Zero(t, sw.DurationMinutes())
}

func TestStopwatch_DrivenByTickSource(t *testing.T) {
	source, c := manualTicks()
	sw := New(source)
	sw.Start()

	for i := 0; i < 61; i++ {
		c <- time.Now()
	}
	assert.Eventually(t, func() bool { return sw.Elapsed() == 61 }, time.Second, time.Millisecond)

	sw.Stop()
	assert.Equal(t, 2, sw.DurationMinutes())
}

func TestStopwatch_StartStopIdempotent(t *testing.T) {
	sw := New(nil)
	sw.Stop()
	sw.Start()
	sw.Start()
	sw.Stop()
	sw.Stop()
	assert.False(t, sw.Running())
}

func TestStopwatch_Resolve(t *testing.T) {
	sw := New(func() (<-chan time.Time, func()) { return nil, func() {} })
	assert.Equal(t, 25, sw.Resolve(25))
	assert.Equal(t, 0, sw.Resolve(-10), "negative manual input is clamped")

	sw.Start()
	sw.Tick()
	sw.Stop()
	assert.Equal(t, 1, sw.Resolve(25), "a used stopwatch wins over manual input")
}
