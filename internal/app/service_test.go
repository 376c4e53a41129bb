package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/concal/internal/adapters/ingest"
	"github.com/okian/concal/internal/adapters/mq/worker"
	"github.com/okian/concal/internal/adapters/repository"
	service "github.com/okian/concal/internal/app"
	"github.com/okian/concal/internal/sampledata"
	"github.com/okian/concal/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// writeExport writes a generated CSV export with every 10th row malformed.
func writeExport(t *testing.T, events int) string {
	t.Helper()
	cfg := sampledata.DefaultConfig()
	cfg.Events = events
	cfg.MalformedEvery = 10

	path := filepath.Join(t.TempDir(), "events.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create export: %v", err)
	}
	defer func() { _ = f.Close() }()
	if err := sampledata.WriteCSV(f, sampledata.Generate(cfg)); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

func waitForJob(svc *service.Service, id string) worker.Status {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if st, ok := svc.JobStatus(context.Background(), id); ok &&
			(st.State == worker.StateDone || st.State == worker.StateFailed) {
			return st
		}
		time.Sleep(10 * time.Millisecond)
	}
	st, _ := svc.JobStatus(context.Background(), id)
	return st
}

func TestService_ReloadNow(t *testing.T) {
	Convey("Given a service pointed at a generated export", t, func() {
		path := writeExport(t, 50)
		svc := service.New(service.WithDataFile(path, ingest.FormatAuto))

		Convey("When a catalog is loaded synchronously", func() {
			snap, err := svc.ReloadNow(context.Background(), "startup")

			Convey("Then the malformed rows are skipped and the rest published", func() {
				So(err, ShouldBeNil)
				So(snap.Generation, ShouldEqual, 1)
				So(snap.Source, ShouldEqual, path)
				So(snap.Catalog.Len(), ShouldEqual, 45)
				So(snap.Catalog.Rejected(), ShouldHaveLength, 5)

				cur, err := svc.Current(context.Background())
				So(err, ShouldBeNil)
				So(cur, ShouldEqual, snap)
			})
		})

		Convey("When strict parsing is required", func() {
			strict := service.New(service.WithDataFile(path, ingest.FormatCSV), service.WithSkipMalformed(false))
			_, err := strict.ReloadNow(context.Background(), "startup")

			Convey("Then the build fails and nothing is published", func() {
				So(err, ShouldNotBeNil)
				_, err := strict.Current(context.Background())
				So(err, ShouldWrap, repository.ErrNoCatalog)
			})
		})
	})

	Convey("Given a service without a data file", t, func() {
		svc := service.New()

		Convey("Then reloading reports the missing file", func() {
			_, err := svc.ReloadNow(context.Background(), "startup")
			So(err, ShouldWrap, service.ErrNoDataFile)
		})
	})
}

func TestService_RequestReload(t *testing.T) {
	Convey("Given a service that has not been started", t, func() {
		svc := service.New()

		Convey("Then reload requests are refused", func() {
			_, err := svc.RequestReload(context.Background(), "api")
			So(err, ShouldEqual, service.ErrNotStarted)
		})
	})

	Convey("Given a started service", t, func() {
		path := writeExport(t, 30)
		svc := service.New(
			service.WithDataFile(path, ingest.FormatAuto),
			service.WithWorkerCount(2),
			service.WithQueueSize(4),
			service.WithJobHistory(8),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a reload is queued", func() {
			job, err := svc.RequestReload(ctx, "api")
			So(err, ShouldBeNil)
			st := waitForJob(svc, job.ID)

			Convey("Then a worker publishes the catalog", func() {
				So(st.State, ShouldEqual, worker.StateDone)
				So(st.Records, ShouldEqual, 27)
				So(st.Rejected, ShouldEqual, 3)

				cur, err := svc.Current(ctx)
				So(err, ShouldBeNil)
				So(cur.Catalog.Len(), ShouldEqual, 27)
			})

			Convey("Then stats describe the catalog and the job", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["dataFile"], ShouldEqual, path)
				info, ok := stats["catalog"].(repository.Info)
				So(ok, ShouldBeTrue)
				So(info.Records, ShouldEqual, 27)
				So(stats["recentJobs"], ShouldHaveLength, 1)
			})
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When it is started twice and stopped twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			svc.Stop()
			svc.Stop()

			Convey("Then it ends up stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When the reload schedule is invalid", func() {
			bad := service.New(service.WithReloadSchedule("not a schedule"))
			err := bad.Start(ctx)

			Convey("Then start fails", func() {
				So(err, ShouldNotBeNil)
				So(bad.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When a valid schedule is set", func() {
			scheduled := service.New(service.WithReloadSchedule("@every 1h"))
			So(scheduled.Start(ctx), ShouldBeNil)
			So(scheduled.GetStats()["schedule"], ShouldEqual, "@every 1h")
			scheduled.Stop()
		})
	})
}
