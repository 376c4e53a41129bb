package repository

import "time"

// Option applies a configuration option to the CatalogStore.
type Option func(*CatalogStore)

// WithHistorySize sets how many published snapshots are remembered for
// reporting. Only metadata is kept, never the catalogs themselves.
func WithHistorySize(n int) Option {
	return func(s *CatalogStore) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *CatalogStore) {
		if now != nil {
			s.now = now
		}
	}
}
