// Package worker rebuilds and publishes catalogs from queued reload jobs.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/concal/internal/adapters/mq/queue"
	"github.com/okian/concal/internal/adapters/repository"
	"github.com/okian/concal/internal/domain/catalog"
	"github.com/okian/concal/pkg/logger"
	"github.com/okian/concal/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
	maxLoggedRejections = 20
)

// Loader builds a catalog for a job. source names what was loaded.
type Loader interface {
	Load(ctx context.Context, job queue.Job) (cat *catalog.Catalog, source string, err error)
}

// Publisher makes a built catalog current.
type Publisher interface {
	Publish(ctx context.Context, cat *catalog.Catalog, source string) (*repository.Snapshot, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes reload jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// ReloadWorker turns jobs into published catalogs.
type ReloadWorker struct {
	queue     Queue
	loader    Loader
	publisher Publisher
	tracker   *Tracker
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

var _ Worker = (*ReloadWorker)(nil)

// NewReloadWorker creates a new worker with configuration options.
func NewReloadWorker(q Queue, loader Loader, publisher Publisher, opts ...Option) *ReloadWorker {
	w := &ReloadWorker{
		queue:     q,
		loader:    loader,
		publisher: publisher,
		name:      "reload",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *ReloadWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if _, err := w.Process(ctx, job); err != nil {
				w.logger.Error(ctx, "reload failed",
					logger.String("job", job.ID),
					logger.String("reason", job.Reason),
					logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *ReloadWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Process runs one job synchronously: load, build, publish.
func (w *ReloadWorker) Process(ctx context.Context, job queue.Job) (*repository.Snapshot, error) {
	start := time.Now()
	status := Status{Job: job, State: StateRunning, StartedAt: start}
	w.track(status)

	snap, err := w.process(ctx, job)

	elapsed := time.Since(start)
	metrics.RecordWorkerProcessingLatency(float64(elapsed.Milliseconds()))
	metrics.RecordCatalogBuild(err == nil, float64(elapsed.Milliseconds()))
	status.FinishedAt = time.Now()

	if err != nil {
		metrics.RecordWorkerError()
		status.State, status.Error = StateFailed, err.Error()
		w.track(status)
		return nil, err
	}

	info := snap.Info()
	status.State = StateDone
	status.Generation, status.Records, status.Rejected = info.Generation, info.Records, info.Rejected
	w.track(status)

	w.logger.Info(ctx, "catalog published",
		logger.String("job", job.ID),
		logger.String("reason", job.Reason),
		logger.String("source", info.Source),
		logger.Int("generation", int(info.Generation)),
		logger.Int("records", info.Records),
		logger.Int("rejected", info.Rejected),
		logger.Int("duplicateGameIDs", info.Duplicates),
		logger.Duration("took", elapsed))
	return snap, nil
}

func (w *ReloadWorker) process(ctx context.Context, job queue.Job) (*repository.Snapshot, error) {
	cat, source, err := w.loader.Load(ctx, job)
	if err != nil {
		metrics.RecordErrorByComponent("worker", "load_error")
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	for i, rej := range cat.Rejected() {
		if i == maxLoggedRejections {
			w.logger.Warn(ctx, "more rows rejected",
				logger.Int("remaining", len(cat.Rejected())-maxLoggedRejections))
			break
		}
		w.logger.Warn(ctx, "row rejected",
			logger.Int("row", rej.Row),
			logger.String("field", rej.Field),
			logger.Error(rej.Err))
	}
	if dups := cat.Duplicates(); len(dups) > 0 {
		w.logger.Debug(ctx, "duplicate game ids", logger.Any("gameIDs", dups))
	}

	snap, err := w.publisher.Publish(ctx, cat, source)
	if err != nil {
		metrics.RecordErrorByComponent("worker", "publish_error")
		return nil, fmt.Errorf("publishing catalog: %w", err)
	}
	return snap, nil
}

func (w *ReloadWorker) track(s Status) {
	if w.tracker != nil {
		w.tracker.Set(s)
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*ReloadWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a pool of workerCount reload workers sharing opts.
// Catalog builds are cheap, so one worker is the usual size.
func NewPool(workerCount int, q Queue, loader Loader, publisher Publisher, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	pool := &Pool{
		workers: make([]*ReloadWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("reload-pool"),
	}
	for i := range pool.workers {
		wopts := append(append([]Option(nil), opts...), WithName("reload-"+strconv.Itoa(i)))
		pool.workers[i] = NewReloadWorker(q, loader, publisher, wopts...)
	}
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
	metrics.UpdateWorkerActiveCount(len(p.workers))
}

// Shutdown closes the queue and waits for the workers to stop.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var firstErr error
	for i, worker := range p.workers {
		if err := worker.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	return firstErr
}
