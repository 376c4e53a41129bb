package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/concal/internal/adapters/ingest"
	"github.com/okian/concal/internal/adapters/mq/queue"
	"github.com/okian/concal/internal/domain/catalog"
)

// FileLoader builds catalogs from export files on disk.
type FileLoader struct {
	Path          string
	Format        ingest.Format
	Location      *time.Location
	SkipMalformed bool
}

// Load reads the job's file, or the configured one when the job names none.
func (l *FileLoader) Load(ctx context.Context, job queue.Job) (*catalog.Catalog, string, error) {
	path, format := l.Path, l.Format
	if job.Path != "" {
		path = job.Path
	}
	if job.Format != "" {
		format = ingest.Format(job.Format)
	}
	if path == "" {
		return nil, "", ErrNoDataFile
	}

	ds, err := ingest.Load(path, format)
	if err != nil {
		return nil, "", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	cat, err := ds.Build(catalog.WithLocation(l.Location), catalog.WithSkipMalformed(l.SkipMalformed))
	if err != nil {
		return nil, "", fmt.Errorf("building %s: %w", path, err)
	}
	return cat, path, nil
}
