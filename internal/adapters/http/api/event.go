package api

import (
	"net/http"
	"strconv"
	"strings"
)

// EventHandler serves single catalog records.
type EventHandler struct {
	deps CatalogReader
}

// NewEventHandler creates a new event handler.
func NewEventHandler(deps CatalogReader) *EventHandler {
	return &EventHandler{deps: deps}
}

// HandleGetEvent handles GET /events/{id} requests.
func (h *EventHandler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_event"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/events/")
	id, err := strconv.Atoi(path)
	if path == "" || err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	snap, ok := currentSnapshot(w, r, h.deps, op)
	if !ok {
		return
	}
	ev, found := snap.Catalog.Event(id)
	if !found {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
