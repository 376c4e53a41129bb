// Package service wires the catalog store, the reload queue and workers,
// and the reload schedule into the dependencies the HTTP API needs.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/concal/internal/adapters/ingest"
	"github.com/okian/concal/internal/adapters/mq/queue"
	"github.com/okian/concal/internal/adapters/mq/worker"
	"github.com/okian/concal/internal/adapters/repository"
	"github.com/okian/concal/pkg/logger"
	"github.com/okian/concal/pkg/metrics"
)

const runtimeSampleInterval = 15 * time.Second

// Service implements the API dependencies for the catalog system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   *repository.CatalogStore
	tracker *worker.Tracker
	loader  *FileLoader
	queue   *queue.InMemoryQueue
	pool    *worker.Pool
	sched   *cron.Cron

	// Configuration
	workerCount int
	queueSize   int
	schedule    string

	// State
	started   bool
	startedAt time.Time
	stopCh    chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataFile sets the export file and its format.
func WithDataFile(path string, format ingest.Format) Option {
	return func(s *Service) {
		s.loader.Path = path
		s.loader.Format = format
	}
}

// WithLocation sets the timezone export timestamps are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loader.Location = loc
		}
	}
}

// WithSkipMalformed drops malformed rows instead of failing the build.
func WithSkipMalformed(skip bool) Option {
	return func(s *Service) {
		s.loader.SkipMalformed = skip
	}
}

// WithReloadSchedule sets a cron spec for periodic rebuilds.
func WithReloadSchedule(spec string) Option {
	return func(s *Service) {
		s.schedule = spec
	}
}

// WithWorkerCount sets the number of reload workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending reload jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithJobHistory sets how many job statuses are remembered.
func WithJobHistory(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.tracker = worker.NewTracker(n)
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:       repository.NewCatalogStore(),
		tracker:     worker.NewTracker(64),
		loader:      &FileLoader{Format: ingest.FormatAuto, SkipMalformed: true},
		workerCount: 1,
		queueSize:   8,
		stopCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the reload workers and the schedule.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.loader, s.store, worker.WithTracker(s.tracker))
	s.pool.Start(ctx)

	if s.schedule != "" {
		s.sched = cron.New()
		if _, err := s.sched.AddFunc(s.schedule, s.scheduledReload); err != nil {
			_ = s.pool.Shutdown(ctx)
			return err
		}
		s.sched.Start()
	}

	s.stopCh = make(chan struct{})
	go s.sampleRuntime(s.stopCh)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "catalog service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("dataFile", s.loader.Path),
		logger.String("schedule", s.schedule))
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	// The schedule is stopped unlocked: a running reload takes the read lock.
	s.mu.Lock()
	sched := s.sched
	s.sched = nil
	s.mu.Unlock()
	if sched != nil {
		<-sched.Stop().Done()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping catalog service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "reload workers did not stop cleanly", logger.Error(err))
	}
	close(s.stopCh)

	s.started = false
	s.logger.Info(ctx, "catalog service stopped")
}

// ReloadNow builds and publishes a catalog synchronously, bypassing the queue.
func (s *Service) ReloadNow(ctx context.Context, reason string) (*repository.Snapshot, error) {
	w := worker.NewReloadWorker(nil, s.loader, s.store,
		worker.WithTracker(s.tracker), worker.WithName("reload-now"))
	return w.Process(ctx, queue.NewJob(reason, "", ""))
}

// RequestReload enqueues a rebuild of the configured data file.
func (s *Service) RequestReload(ctx context.Context, reason string) (queue.Job, error) {
	s.mu.RLock()
	q, started := s.queue, s.started
	s.mu.RUnlock()
	if !started {
		return queue.Job{}, ErrNotStarted
	}

	job := queue.NewJob(reason, "", "")
	s.tracker.Set(worker.Status{Job: job, State: worker.StateQueued})
	if err := q.Enqueue(ctx, job); err != nil {
		s.tracker.Set(worker.Status{Job: job, State: worker.StateFailed, Error: err.Error(), FinishedAt: time.Now()})
		return queue.Job{}, err
	}
	return job, nil
}

// JobStatus returns the last known state of a reload job.
func (s *Service) JobStatus(_ context.Context, id string) (worker.Status, bool) {
	return s.tracker.Get(id)
}

// Current returns the published catalog snapshot.
func (s *Service) Current(ctx context.Context) (*repository.Snapshot, error) {
	return s.store.Current(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dataFile":    s.loader.Path,
		"schedule":    s.schedule,
		"history":     s.store.History(ctx),
		"recentJobs":  s.tracker.Recent(),
	}
	if snap, err := s.store.Current(ctx); err == nil {
		stats["catalog"] = snap.Info()
	}
	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["uptime"] = time.Since(s.startedAt).Round(time.Second).String()
		metrics.UpdateQueueSize(queueLen)
	}
	return stats
}

func (s *Service) scheduledReload() {
	ctx := context.Background()
	if _, err := s.RequestReload(ctx, "schedule"); err != nil {
		s.logger.Warn(ctx, "scheduled reload not queued", logger.Error(err))
	}
}

func (s *Service) sampleRuntime(stop <-chan struct{}) {
	ticker := time.NewTicker(runtimeSampleInterval)
	defer ticker.Stop()
	for {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		metrics.UpdateSystemMemoryUsage(m.Alloc)
		metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}
