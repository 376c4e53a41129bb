package catalog

import (
	"time"

	"github.com/okian/concal/internal/domain/normalize"
)

// Option applies a configuration option to a catalog build.
type Option func(*builder)

// WithColumns sets the label->column mapping rows are read with.
// Build defaults to rows keyed by label; BuildSheet resolves it from the header.
func WithColumns(cols normalize.Columns) Option {
	return func(b *builder) {
		if cols != nil {
			b.cols = cols
		}
	}
}

// WithLocation sets the timezone timestamps are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(b *builder) {
		if loc != nil {
			b.loc = loc
		}
	}
}

// WithSkipMalformed makes the build drop malformed rows (recording them in
// Rejected) instead of failing on the first one.
func WithSkipMalformed(skip bool) Option {
	return func(b *builder) {
		b.skipMalformed = skip
	}
}
