package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/concal/internal/adapters/mq/queue"
)

type reloadResponse struct {
	Status string `json:"status"`
	JobID  string `json:"jobId"`
}

// ReloadHandler triggers catalog rebuilds and reports their progress.
type ReloadHandler struct {
	deps Reloader
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Reloader) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

// HandleReload handles POST /catalog/reload requests.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	job, err := h.deps.RequestReload(r.Context(), "api")
	switch {
	case errors.Is(err, queue.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, reloadResponse{Status: "accepted", JobID: job.ID})
}

// HandleGetJob handles GET /catalog/jobs/{id} requests.
func (h *ReloadHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/catalog/jobs/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	status, ok := h.deps.JobStatus(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, status)
}
