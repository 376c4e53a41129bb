// Package repository holds the currently published catalog.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/concal/internal/domain/catalog"
	"github.com/okian/concal/internal/domain/model"
	"github.com/okian/concal/pkg/metrics"
)

// Snapshot is one published catalog. It is immutable once published.
type Snapshot struct {
	Catalog    *catalog.Catalog
	Generation uint64
	Source     string
	BuiltAt    time.Time
}

// Info describes a published snapshot without holding on to its catalog.
type Info struct {
	Generation uint64    `json:"generation"`
	Source     string    `json:"source"`
	BuiltAt    time.Time `json:"builtAt"`
	Records    int       `json:"records"`
	Rejected   int       `json:"rejected"`
	Duplicates int       `json:"duplicates"`
}

// Info summarizes the snapshot.
func (s *Snapshot) Info() Info {
	return Info{
		Generation: s.Generation,
		Source:     s.Source,
		BuiltAt:    s.BuiltAt,
		Records:    s.Catalog.Len(),
		Rejected:   len(s.Catalog.Rejected()),
		Duplicates: len(s.Catalog.Duplicates()),
	}
}

// Store provides access to the published catalog.
type Store interface {
	// Publish makes cat the current catalog and returns its snapshot.
	Publish(ctx context.Context, cat *catalog.Catalog, source string) (*Snapshot, error)

	// Current returns the current snapshot, or ErrNoCatalog before the
	// first Publish.
	Current(ctx context.Context) (*Snapshot, error)

	// Event returns one record of the current catalog.
	// Returns ErrNotFound if the id is unknown.
	Event(ctx context.Context, id int) (model.Event, error)

	// History returns metadata of recent snapshots, newest first.
	History(ctx context.Context) []Info
}

// CatalogStore swaps whole catalogs behind an atomic pointer. Readers never
// block; a reader holding a Snapshot keeps a consistent catalog even after a
// newer one is published.
type CatalogStore struct {
	historySize int
	now         func() time.Time

	snapshot   atomic.Pointer[Snapshot]
	generation atomic.Uint64

	mu      sync.Mutex
	history []Info
}

var _ Store = (*CatalogStore)(nil)

// NewCatalogStore constructs an empty store.
func NewCatalogStore(opts ...Option) *CatalogStore {
	s := &CatalogStore{
		historySize: 10,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish implements Store.
func (s *CatalogStore) Publish(ctx context.Context, cat *catalog.Catalog, source string) (*Snapshot, error) {
	if cat == nil {
		metrics.RecordErrorByComponent("repository", "nil_catalog")
		return nil, ErrNilCatalog
	}
	snap := &Snapshot{
		Catalog:    cat,
		Generation: s.generation.Add(1),
		Source:     source,
		BuiltAt:    s.now(),
	}
	info := snap.Info()

	s.mu.Lock()
	// generations are handed out before the lock; never replace a newer one
	if cur := s.snapshot.Load(); cur == nil || cur.Generation < snap.Generation {
		s.snapshot.Store(snap)
	}
	s.history = append([]Info{info}, s.history...)
	if len(s.history) > s.historySize {
		s.history = s.history[:s.historySize]
	}
	s.mu.Unlock()

	metrics.UpdateCatalog(info.Generation, info.Records, info.Rejected, info.Duplicates,
		float64(info.BuiltAt.Unix()))
	return snap, nil
}

// Current implements Store.
func (s *CatalogStore) Current(ctx context.Context) (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNoCatalog
	}
	return snap, nil
}

// Event implements Store.
func (s *CatalogStore) Event(ctx context.Context, id int) (model.Event, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return model.Event{}, err
	}
	ev, ok := snap.Catalog.Event(id)
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Event{}, ErrNotFound
	}
	return ev, nil
}

// History implements Store.
func (s *CatalogStore) History(ctx context.Context) []Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Info, len(s.history))
	copy(out, s.history)
	return out
}
