package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/concal/internal/adapters/calendar"
	"github.com/okian/concal/internal/adapters/http/api"
	"github.com/okian/concal/internal/adapters/http/site"
	"github.com/okian/concal/internal/adapters/http/swagger"
	"github.com/okian/concal/internal/adapters/ingest"
	app "github.com/okian/concal/internal/app"
	"github.com/okian/concal/internal/config"
	"github.com/okian/concal/pkg/logger"
	"github.com/okian/concal/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if cfg.LogFormat != logger.FormatText {
		if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
			os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
			os.Exit(1)
		}
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "service failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	// A failed initial load leaves the API answering 503 until a reload succeeds.
	if cfg.DataFile != "" {
		if _, err := svc.ReloadNow(ctx, "startup"); err != nil {
			log.Error(ctx, "initial catalog load failed", logger.String("data_file", cfg.DataFile), logger.Error(err))
		}
	} else {
		log.Warn(ctx, "no data_file configured; waiting for a reload")
	}
	metrics.UpdateQueueCapacity(cfg.ReloadQueueSize)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

func newService(cfg *config.Config) (*app.Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithLogger(logger.Named("service")),
		app.WithDataFile(cfg.DataFile, ingest.Format(cfg.DataFormat)),
		app.WithLocation(loc),
		app.WithSkipMalformed(cfg.SkipMalformed),
		app.WithReloadSchedule(cfg.ReloadSchedule),
		app.WithWorkerCount(cfg.ReloadWorkers),
		app.WithQueueSize(cfg.ReloadQueueSize),
		app.WithJobHistory(cfg.JobHistory),
	), nil
}

func newMux(ctx context.Context, cfg *config.Config, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	loc, _ := cfg.Location()
	apiServer := api.NewServer(svc, svc,
		api.WithMaxPageSize(cfg.MaxPageSize),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithExporter(calendar.New(calendar.WithLocation(loc))),
	)
	apiServer.Register(ctx, mux)

	site.Register(ctx, mux)
	return mux
}
