package cache

import (
	"sync"
	"time"
)

// Cleaner is a cache that can drop its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically sweeps registered caches.
type Janitor struct {
	mu       sync.Mutex
	caches   []Cleaner
	onSweep  func(removed int)
	stop     chan struct{}
	done     chan struct{}
	interval time.Duration
}

// NewJanitor creates a janitor sweeping every interval. onSweep, when not
// nil, receives the number of entries removed by each sweep.
func NewJanitor(interval time.Duration, onSweep func(removed int)) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{interval: interval, onSweep: onSweep}
}

// Register adds a cache to the sweep.
func (j *Janitor) Register(c Cleaner) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.caches = append(j.caches, c)
}

// Start begins sweeping. Calling Start on a running janitor does nothing.
func (j *Janitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stop != nil {
		return
	}
	j.stop = make(chan struct{})
	j.done = make(chan struct{})
	go j.run(j.stop, j.done)
}

func (j *Janitor) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.Sweep()
		case <-stop:
			return
		}
	}
}

// Sweep cleans every registered cache once and returns the removed count.
func (j *Janitor) Sweep() int {
	j.mu.Lock()
	caches := append([]Cleaner(nil), j.caches...)
	j.mu.Unlock()

	removed := 0
	for _, c := range caches {
		removed += c.CleanExpired()
	}
	if j.onSweep != nil {
		j.onSweep(removed)
	}
	return removed
}

// Stop ends sweeping and waits for the loop to exit.
func (j *Janitor) Stop() {
	j.mu.Lock()
	stop, done := j.stop, j.done
	j.stop, j.done = nil, nil
	j.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
