package worker

import (
	"sync"
	"time"

	"github.com/okian/concal/internal/adapters/mq/queue"
)

// Job states.
const (
	StateQueued  = "queued"
	StateRunning = "running"
	StateDone    = "done"
	StateFailed  = "failed"
)

// Status is the outcome of one reload job.
type Status struct {
	Job        queue.Job `json:"job"`
	State      string    `json:"state"`
	Error      string    `json:"error,omitempty"`
	Generation uint64    `json:"generation,omitempty"`
	Records    int       `json:"records,omitempty"`
	Rejected   int       `json:"rejected,omitempty"`
	StartedAt  time.Time `json:"startedAt,omitzero"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
}

// Tracker keeps the status of the most recent jobs.
type Tracker struct {
	mu    sync.RWMutex
	limit int
	order []string
	byID  map[string]Status
}

// NewTracker remembers up to limit jobs; older ones are forgotten first.
func NewTracker(limit int) *Tracker {
	if limit < 1 {
		limit = 64
	}
	return &Tracker{limit: limit, byID: make(map[string]Status, limit)}
}

// Set records s under its job id.
func (t *Tracker) Set(s Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.byID[s.Job.ID]; !ok {
		t.order = append(t.order, s.Job.ID)
		if len(t.order) > t.limit {
			delete(t.byID, t.order[0])
			t.order = t.order[1:]
		}
	}
	t.byID[s.Job.ID] = s
}

// Get returns the status of job id.
func (t *Tracker) Get(id string) (Status, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.byID[id]
	return s, ok
}

// Recent returns statuses newest first.
func (t *Tracker) Recent() []Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Status, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		out = append(out, t.byID[t.order[i]])
	}
	return out
}
