// Package service owns the loaded dataset and answers every dashboard query,
// memoizing aggregation results per filter selection.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/olympics/internal/adapters/cache"
	repository "github.com/okian/olympics/internal/adapters/repository"
	"github.com/okian/olympics/internal/domain/analysis"
	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/pkg/logger"
	"github.com/okian/olympics/pkg/metrics"
)

// Service implements the API and site dependencies.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	dataset *model.Dataset
	results *cache.LRU[any]
	janitor *cache.Janitor

	// Configuration
	cacheSize          int
	cacheTTL           time.Duration
	warmup             bool
	warmupParallelism  int
	topAthletes        int
	topCountryAthletes int

	// State
	started      bool
	loadedAt     time.Time
	loadDuration time.Duration
	warmupDone   chan struct{}
	cancelWarmup context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets where the raw tables are loaded from.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithDataset serves an already preprocessed dataset instead of loading one.
func WithDataset(ds *model.Dataset) Option {
	return func(s *Service) {
		s.dataset = ds
	}
}

// WithCacheSize bounds the number of memoized results.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithCacheTTL expires memoized results; zero disables expiry.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithWarmup precomputes the global and per-country views after Start.
func WithWarmup(enabled bool) Option {
	return func(s *Service) {
		s.warmup = enabled
	}
}

// WithWarmupParallelism bounds concurrent warm-up computations.
func WithWarmupParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.warmupParallelism = n
		}
	}
}

// WithTopAthletes sets the size of the most successful athletes table.
func WithTopAthletes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topAthletes = n
		}
	}
}

// WithTopCountryAthletes sets the size of a country's top athletes table.
func WithTopCountryAthletes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topCountryAthletes = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cacheSize:          512,
		cacheTTL:           30 * time.Minute,
		warmupParallelism:  4,
		topAthletes:        analysis.DefaultTopAthletes,
		topCountryAthletes: analysis.DefaultTopCountryAthletes,
		logger:             nil, // replaced in Start
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads and preprocesses the dataset, then starts the cache sweeper
// and, when enabled, the background warm-up.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.dataset == nil {
		if s.store == nil {
			return ErrNoStore
		}
		ds, err := s.load(ctx)
		if err != nil {
			return err
		}
		s.dataset = ds
	}

	years, regions, sports := s.dataset.Years(), s.dataset.Regions(), s.dataset.Sports()
	metrics.UpdateDatasetShape(s.dataset.Len(), len(regions), len(sports), len(years))

	s.results = cache.NewLRU[any](s.cacheSize, s.cacheTTL)
	if s.cacheTTL > 0 {
		results := s.results
		s.janitor = cache.NewJanitor(s.cacheTTL/2, func(int) {
			metrics.RecordCacheEvictions(results.TakeEvictions())
		})
		s.janitor.Register(s.results)
		s.janitor.Start()
	}

	s.started = true
	s.logger.Info(ctx, "olympics service started",
		logger.Int("rows", s.dataset.Len()),
		logger.Int("regions", len(regions)),
		logger.Int("sports", len(sports)),
		logger.Int("editions", len(years)),
		logger.Int("cacheSize", s.cacheSize),
		logger.Duration("cacheTTL", s.cacheTTL),
	)

	if s.warmup {
		wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		s.cancelWarmup = cancel
		s.warmupDone = make(chan struct{})
		go func() {
			defer close(s.warmupDone)
			if err := s.Warm(wctx); err != nil {
				s.logger.Warn(wctx, "cache warm-up stopped", logger.Error(err))
			}
		}()
	}
	return nil
}

func (s *Service) load(ctx context.Context) (*model.Dataset, error) {
	start := time.Now()
	raw, err := s.store.Load(ctx)
	if err != nil {
		metrics.RecordDatasetLoad(s.store.Backend(), false, 0)
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	ds := model.Preprocess(raw)
	s.loadDuration = time.Since(start)
	s.loadedAt = time.Now()
	metrics.RecordDatasetLoad(s.store.Backend(), true, float64(s.loadDuration.Milliseconds()))

	s.logger.Info(ctx, "dataset loaded",
		logger.String("backend", s.store.Backend()),
		logger.Int("rawRows", len(raw.Rows)),
		logger.Int("rows", ds.Len()),
		logger.Duration("took", s.loadDuration),
	)
	return ds, nil
}

// Stop cancels the warm-up, stops the sweeper and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel, done := s.cancelWarmup, s.warmupDone
	s.cancelWarmup, s.warmupDone = nil, nil
	janitor := s.janitor
	s.janitor = nil
	s.mu.Unlock()

	s.logger.Info(context.Background(), "stopping olympics service...")

	if cancel != nil {
		cancel()
		<-done
	}
	if janitor != nil {
		janitor.Stop()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing store", logger.Error(err))
		}
	}
	s.logger.Info(context.Background(), "olympics service stopped")
}

// Ready reports whether queries can be answered.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started && s.dataset != nil
}

// Warm computes the global views and every country's views with bounded
// parallelism. It returns the first error, or ctx's error when cancelled.
func (s *Service) Warm(ctx context.Context) error {
	ds, err := s.current()
	if err != nil {
		return err
	}
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.warmupParallelism)

	global := []func(context.Context) error{
		func(c context.Context) error { _, err := s.Filters(c); return err },
		func(c context.Context) error { _, err := s.MedalTally(c, model.Overall, model.Overall); return err },
		func(c context.Context) error { _, err := s.Overview(c); return err },
		func(c context.Context) error { _, err := s.EventHeatmap(c); return err },
		func(c context.Context) error { _, err := s.MostSuccessful(c, model.Overall); return err },
		func(c context.Context) error { _, err := s.AgeDistribution(c); return err },
		func(c context.Context) error { _, err := s.HeightWeight(c, model.Overall); return err },
		func(c context.Context) error { _, err := s.MenVsWomen(c); return err },
	}
	for _, fn := range global {
		g.Go(func() error { return fn(gctx) })
	}

	regions := ds.Regions()
	for _, region := range regions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := s.CountryMedals(gctx, region); err != nil {
				return err
			}
			if _, err := s.CountryHeatmap(gctx, region); err != nil {
				return err
			}
			_, err := s.CountryTopAthletes(gctx, region)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info(ctx, "cache warmed",
		logger.Int("countries", len(regions)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// WaitWarm blocks until a running warm-up finishes or ctx ends.
func (s *Service) WaitWarm(ctx context.Context) error {
	s.mu.RLock()
	done := s.warmupDone
	s.mu.RUnlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) current() (*model.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.dataset == nil {
		return nil, ErrNotStarted
	}
	return s.dataset, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":            s.started,
		"cacheCapacity":      s.cacheSize,
		"cacheTTLSeconds":    s.cacheTTL.Seconds(),
		"warmup":             s.warmup,
		"topAthletes":        s.topAthletes,
		"topCountryAthletes": s.topCountryAthletes,
	}
	if s.store != nil {
		stats["backend"] = s.store.Backend()
	}
	if !s.loadedAt.IsZero() {
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
		stats["loadDurationMs"] = s.loadDuration.Milliseconds()
	}

	if s.started && s.dataset != nil {
		stats["rows"] = s.dataset.Len()
		stats["regions"] = len(s.dataset.Regions())
		stats["sports"] = len(s.dataset.Sports())
		stats["editions"] = len(s.dataset.Years())

		entries := s.results.Size()
		stats["cacheEntries"] = entries
		metrics.UpdateCacheEntries(entries)
		metrics.RecordCacheEvictions(s.results.TakeEvictions())
	}
	return stats
}
