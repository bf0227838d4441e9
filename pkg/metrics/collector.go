package metrics

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

const nanosecondsPerMillisecond = 1e6

var collectorRunning atomic.Bool //nolint:gochecknoglobals // guards the single runtime collector

// StartRuntimeCollector samples memory, goroutine and GC figures every refresh
// interval until ctx is cancelled. Only one collector may run at a time.
func StartRuntimeCollector(ctx context.Context) error {
	if !collectorRunning.CompareAndSwap(false, true) {
		return ErrCollectorRunning
	}

	go func() {
		defer collectorRunning.Store(false)

		ticker := time.NewTicker(globalManager.refreshInterval)
		defer ticker.Stop()

		CollectRuntime()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CollectRuntime()
			}
		}
	}()
	return nil
}

// CollectRuntime takes one sample of the runtime gauges.
func CollectRuntime() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	UpdateSystemMemoryUsage(m.Alloc)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		RecordSystemGCPauseTime(avgPauseMs)
	}
}
