package api

import (
	"net/http"
	"time"

	"github.com/okian/concal/internal/domain/filter"
	"github.com/okian/concal/internal/domain/model"
	"github.com/okian/concal/internal/domain/types"
	"github.com/okian/concal/pkg/metrics"
)

// EventsHandler lists catalog events narrowed by facet filters.
type EventsHandler struct {
	deps     CatalogReader
	maxLimit int
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps CatalogReader, maxLimit int) *EventsHandler {
	return &EventsHandler{deps: deps, maxLimit: max(maxLimit, 1)}
}

// HandleListEvents handles GET /events requests.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_events"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	params := r.URL.Query()
	q, err := parseFilter(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	page, limit, err := parsePaging(params, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	snap, ok := currentSnapshot(w, r, h.deps, op)
	if !ok {
		return
	}

	start := time.Now()
	cat := snap.Catalog
	ids := filter.Apply(cat.Indices(), cat.Len(), q).IDs()
	idPage := types.Paginate(ids, page, limit)
	metrics.RecordQuery("events", float64(time.Since(start).Microseconds())/1000, len(ids))

	writeJSON(w, http.StatusOK, types.Page[model.Event]{
		Items:      cat.Events(idPage.Items),
		Page:       idPage.Page,
		Limit:      idPage.Limit,
		Total:      idPage.Total,
		TotalPages: idPage.TotalPages,
	})
}
