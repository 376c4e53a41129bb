// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/okian/concal/internal/adapters/calendar"
	"github.com/okian/concal/internal/adapters/mq/queue"
	"github.com/okian/concal/internal/adapters/mq/worker"
	"github.com/okian/concal/internal/adapters/repository"
)

// Page size defaults for list endpoints.
const (
	DefaultPageSize = 100
	DefaultMaxPage  = 500
)

// CatalogReader exposes the currently published catalog.
type CatalogReader interface {
	Current(ctx context.Context) (*repository.Snapshot, error)
}

// Reloader schedules catalog rebuilds and reports on them.
type Reloader interface {
	// RequestReload enqueues a rebuild. Returns queue.ErrQueueFull on backpressure.
	RequestReload(ctx context.Context, reason string) (queue.Job, error)
	JobStatus(ctx context.Context, id string) (worker.Status, bool)
}

// Dependencies required by HTTP handlers.
type Dependencies interface {
	CatalogReader
	Reloader
}

// Server wires HTTP routes for the catalog API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	eventsHandler    *EventsHandler
	eventHandler     *EventHandler
	facetsHandler    *FacetsHandler
	conflictsHandler *ConflictsHandler
	exportHandler    *ExportHandler
	reloadHandler    *ReloadHandler

	limiter *rate.Limiter
}

// Option configures a Server.
type Option func(*serverConfig)

type serverConfig struct {
	maxPage  int
	exporter *calendar.Exporter
	limiter  *rate.Limiter
}

// WithMaxPageSize caps the limit parameter of list endpoints.
func WithMaxPageSize(n int) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxPage = n
		}
	}
}

// WithExporter sets the iCalendar exporter used by /export.ics.
func WithExporter(x *calendar.Exporter) Option {
	return func(c *serverConfig) {
		if x != nil {
			c.exporter = x
		}
	}
}

// WithRateLimit allows rps requests per second with the given burst across
// the business endpoints. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *serverConfig) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{maxPage: DefaultMaxPage}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.exporter == nil {
		cfg.exporter = calendar.New()
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		eventsHandler:    NewEventsHandler(deps, cfg.maxPage),
		eventHandler:     NewEventHandler(deps),
		facetsHandler:    NewFacetsHandler(deps),
		conflictsHandler: NewConflictsHandler(deps),
		exportHandler:    NewExportHandler(deps, cfg.exporter),
		reloadHandler:    NewReloadHandler(deps),
		limiter:          cfg.limiter,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, MetricsMiddleware(RateLimitMiddleware(h, endpoint, s.limiter), endpoint))
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	route("/events", "events", s.eventsHandler.HandleListEvents)
	route("/events/", "event", s.eventHandler.HandleGetEvent)
	route("/facets", "facets", s.facetsHandler.HandleListFacets)
	route("/days", "days", s.facetsHandler.HandleListDays)
	route("/conflicts", "conflicts", s.conflictsHandler.HandlePostConflicts)
	route("/export.ics", "export", s.exportHandler.HandleExport)
	route("/catalog/reload", "reload", s.reloadHandler.HandleReload)
	route("/catalog/jobs/", "jobs", s.reloadHandler.HandleGetJob)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// currentSnapshot fetches the published catalog, answering 503 when none has
// been built yet.
func currentSnapshot(w http.ResponseWriter, r *http.Request, deps CatalogReader, op string) (*repository.Snapshot, bool) {
	snap, err := deps.Current(r.Context())
	switch {
	case errors.Is(err, repository.ErrNoCatalog):
		writeError(w, http.StatusServiceUnavailable, "no_catalog", WrapKind(op, ErrNoCatalog, err))
		return nil, false
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return nil, false
	}
	return snap, true
}
