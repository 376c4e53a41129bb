package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okian/concal/internal/domain/conflict"
	"github.com/okian/concal/internal/domain/model"
	"github.com/okian/concal/pkg/metrics"
)

// maxConflictCandidates bounds the pairwise work of one request.
const maxConflictCandidates = 2000

// conflictsRequest mirrors the OpenAPI schema for POST /conflicts.
// Without references the candidates are checked against each other.
type conflictsRequest struct {
	Candidates []int `json:"candidates"`
	References []int `json:"references,omitempty"`
	Annotate   bool  `json:"annotate,omitempty"`
}

type conflictsResponse struct {
	Conflicts map[int][]int `json:"conflicts"`
	Events    []model.Event `json:"events,omitempty"`
}

// ConflictsHandler answers overlap queries.
type ConflictsHandler struct {
	deps CatalogReader
}

// NewConflictsHandler creates a new conflicts handler.
func NewConflictsHandler(deps CatalogReader) *ConflictsHandler {
	return &ConflictsHandler{deps: deps}
}

// HandlePostConflicts handles POST /conflicts requests.
func (h *ConflictsHandler) HandlePostConflicts(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_conflicts"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req conflictsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Candidates) > maxConflictCandidates || len(req.References) > maxConflictCandidates {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	refs := req.References
	if len(refs) == 0 {
		refs = req.Candidates
	}
	snap, ok := currentSnapshot(w, r, h.deps, op)
	if !ok {
		return
	}

	start := time.Now()
	records := snap.Catalog.Records()
	found, err := conflict.Detect(records, req.Candidates, refs)
	if errors.Is(err, conflict.ErrUnknownID) {
		writeError(w, http.StatusBadRequest, "unknown_id", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	metrics.RecordConflictCandidates(len(req.Candidates))
	metrics.RecordQuery("conflicts", float64(time.Since(start).Microseconds())/1000, len(found))

	resp := conflictsResponse{Conflicts: found}
	if req.Annotate {
		resp.Events = conflict.Annotate(records, found, req.Candidates)
	}
	writeJSON(w, http.StatusOK, resp)
}
