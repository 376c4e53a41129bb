package api

import (
	"bytes"
	"net/http"
	"slices"

	"github.com/okian/concal/internal/adapters/calendar"
	"github.com/okian/concal/internal/domain/filter"
)

// ExportHandler renders events as an iCalendar feed.
type ExportHandler struct {
	deps     CatalogReader
	exporter *calendar.Exporter
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps CatalogReader, exporter *calendar.Exporter) *ExportHandler {
	return &ExportHandler{deps: deps, exporter: exporter}
}

// HandleExport handles GET /export.ics requests. ?ids=1,2,3 exports those
// events; otherwise the facet filters of /events select them.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	params := r.URL.Query()
	ids, err := parseIDs(params.Get("ids"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	q, err := parseFilter(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	snap, ok := currentSnapshot(w, r, h.deps, op)
	if !ok {
		return
	}
	cat := snap.Catalog
	if ids == nil {
		ids = filter.Apply(cat.Indices(), cat.Len(), q).IDs()
	} else {
		slices.Sort(ids)
		ids = slices.Compact(ids)
	}

	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, cat.Events(ids)); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="events.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
