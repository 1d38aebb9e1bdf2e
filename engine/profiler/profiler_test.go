package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilerTick(t *testing.T) {
	base := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	current := base
	p := NewProfiler(
		WithUpdateInterval(time.Second),
		WithClock(func() time.Time { return current }),
	)

	// Frames inside the interval produce no sample.
	for i := 0; i < 59; i++ {
		current = current.Add(10 * time.Millisecond)
		assert.Nil(t, p.Tick())
	}

	// The 60th frame crosses the one second mark.
	current = base.Add(time.Second)
	stats := p.Tick()
	require.NotNil(t, stats)
	assert.InDelta(t, 60, stats.FPS, 0.01)
	assert.Greater(t, stats.HeapMB, 0.0)

	// The counter resets after a sample.
	current = current.Add(10 * time.Millisecond)
	assert.Nil(t, p.Tick())
}

func TestProfilerOptionDefaults(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(-time.Second))
	assert.Equal(t, time.Second, p.updateInterval)
}
