package api

import (
	"net/http"

	"github.com/okian/concal/internal/domain/facet"
	"github.com/okian/concal/internal/domain/types"
)

// FacetsHandler lists facet labels and convention days.
type FacetsHandler struct {
	deps CatalogReader
}

// NewFacetsHandler creates a new facets handler.
func NewFacetsHandler(deps CatalogReader) *FacetsHandler {
	return &FacetsHandler{deps: deps}
}

// HandleListFacets handles GET /facets requests. ?name=<facet> restricts the
// listing to one facet.
func (h *FacetsHandler) HandleListFacets(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_facets"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	names := facet.All()
	if s := r.URL.Query().Get("name"); s != "" {
		n, ok := facet.Parse(s)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
			return
		}
		names = []facet.Name{n}
	}
	snap, ok := currentSnapshot(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, facet.Summarize(snap.Catalog.Indices(), names...))
}

// HandleListDays handles GET /days requests.
func (h *FacetsHandler) HandleListDays(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_days"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap, ok := currentSnapshot(w, r, h.deps, op)
	if !ok {
		return
	}
	days := snap.Catalog.Days()
	out := make([]types.DayInfo, len(days))
	for i, d := range days {
		out[i] = types.DayInfo{
			Date:         d.Date,
			Events:       d.Events,
			EarliestTime: d.EarliestTime,
			LatestTime:   d.LatestTime,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
