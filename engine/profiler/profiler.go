package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one logged profiler sample.
type Stats struct {
	FPS           float64
	HeapMB        float64
	AllocRateMBs  float64
	GCCount       uint32
	LastGCPauseUs uint64
	MaxGCPauseUs  uint64
	SysMB         float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler with the specified options.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithUpdateInterval sets how often Tick logs a sample.
//
// Parameters:
//   - interval: the logging interval, must be positive
//
// Returns:
//   - ProfilerOption: option function to apply
func WithUpdateInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithClock overrides the profiler's time source. Mainly for tests.
//
// Parameters:
//   - now: the replacement time source
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - *Stats: the logged sample, or nil if the interval has not elapsed yet
func (p *Profiler) Tick() *Stats {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return nil
	}

	runtime.ReadMemStats(&p.memStats)

	stats := &Stats{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
	}

	// TotalAlloc only ever grows; the delta since the last sample is churn.
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	stats.AllocRateMBs = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if stats.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		stats.LastGCPauseUs = p.memStats.PauseNs[(stats.GCCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if stats.GCCount-startIdx > 256 {
			startIdx = stats.GCCount - 256
		}
		for i := startIdx; i < stats.GCCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > stats.MaxGCPauseUs {
				stats.MaxGCPauseUs = pause
			}
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		stats.FPS, stats.HeapMB, stats.AllocRateMBs, stats.GCCount, stats.LastGCPauseUs, stats.MaxGCPauseUs, stats.SysMB)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = stats.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return stats
}
