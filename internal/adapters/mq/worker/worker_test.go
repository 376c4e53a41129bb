package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/concal/internal/adapters/mq/queue"
	worker "github.com/okian/concal/internal/adapters/mq/worker"
	"github.com/okian/concal/internal/adapters/repository"
	"github.com/okian/concal/internal/domain/catalog"
	"github.com/okian/concal/internal/sampledata"
	logging "github.com/okian/concal/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockLoader struct {
	mu    sync.Mutex
	calls []queue.Job
	err   error
	cfg   sampledata.Config
}

func (m *mockLoader) Load(ctx context.Context, job queue.Job) (*catalog.Catalog, string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, job)
	m.mu.Unlock()
	if m.err != nil {
		return nil, "", m.err
	}
	c, err := catalog.Build(sampledata.Generate(m.cfg), catalog.WithSkipMalformed(true))
	return c, "generated:" + job.Reason, err
}

func (m *mockLoader) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func newLoader() *mockLoader {
	cfg := sampledata.DefaultConfig()
	cfg.Events = 40
	cfg.MalformedEvery = 8
	return &mockLoader{cfg: cfg}
}

func TestReloadWorker(t *testing.T) {
	convey.Convey("Given a reload worker", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)
		ctx := context.Background()
		loader := newLoader()
		store := repository.NewCatalogStore()
		tracker := worker.NewTracker(4)
		w := worker.NewReloadWorker(queue.NewInMemoryQueue(), loader, store, worker.WithTracker(tracker))

		convey.Convey("When a job is processed", func() {
			job := queue.NewJob("startup", "", "")
			snap, err := w.Process(ctx, job)

			convey.Convey("Then the catalog is published", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(snap.Generation, convey.ShouldEqual, 1)
				convey.So(snap.Source, convey.ShouldEqual, "generated:startup")
				cur, err := store.Current(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cur.Catalog.Len(), convey.ShouldEqual, 35)
			})

			convey.Convey("Then the tracker reports success", func() {
				st, ok := tracker.Get(job.ID)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(st.State, convey.ShouldEqual, worker.StateDone)
				convey.So(st.Records, convey.ShouldEqual, 35)
				convey.So(st.Rejected, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading fails", func() {
			loader.err = errors.New("disk on fire")
			job := queue.NewJob("api", "missing.csv", "")
			_, err := w.Process(ctx, job)

			convey.Convey("Then nothing is published and the failure is tracked", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "disk on fire")
				_, cerr := store.Current(ctx)
				convey.So(errors.Is(cerr, repository.ErrNoCatalog), convey.ShouldBeTrue)
				st, _ := tracker.Get(job.ID)
				convey.So(st.State, convey.ShouldEqual, worker.StateFailed)
				convey.So(st.Error, convey.ShouldContainSubstring, "disk on fire")
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a running pool", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		loader := newLoader()
		store := repository.NewCatalogStore()
		pool := worker.NewPool(1, q, loader, store)
		pool.Start(ctx)

		convey.Convey("When jobs are enqueued", func() {
			convey.So(q.Enqueue(ctx, queue.NewJob("a", "", "")), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, queue.NewJob("b", "", "")), convey.ShouldBeNil)

			convey.Convey("Then each one publishes a new generation", func() {
				deadline := time.Now().Add(5 * time.Second)
				for loader.callCount() < 2 && time.Now().Before(deadline) {
					time.Sleep(10 * time.Millisecond)
				}
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
				cur, err := store.Current(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cur.Generation, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the pool shuts down", func() {
			convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)

			convey.Convey("Then the queue refuses new jobs", func() {
				err := q.Enqueue(ctx, queue.NewJob("late", "", ""))
				convey.So(errors.Is(err, queue.ErrQueueClosed), convey.ShouldBeTrue)
			})
		})
	})
}

func TestTracker(t *testing.T) {
	convey.Convey("Given a tracker with room for two jobs", t, func() {
		tr := worker.NewTracker(2)
		a, b, c := queue.NewJob("a", "", ""), queue.NewJob("b", "", ""), queue.NewJob("c", "", "")
		tr.Set(worker.Status{Job: a, State: worker.StateQueued})
		tr.Set(worker.Status{Job: b, State: worker.StateQueued})
		tr.Set(worker.Status{Job: a, State: worker.StateDone})
		tr.Set(worker.Status{Job: c, State: worker.StateRunning})

		convey.Convey("Then the oldest job is forgotten", func() {
			_, ok := tr.Get(a.ID)
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Then recent jobs come newest first", func() {
			recent := tr.Recent()
			convey.So(recent, convey.ShouldHaveLength, 2)
			convey.So(recent[0].Job.ID, convey.ShouldEqual, c.ID)
			convey.So(recent[1].Job.ID, convey.ShouldEqual, b.ID)
		})
	})
}
