package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/okian/concal/internal/adapters/ingest"
	"github.com/okian/concal/internal/adapters/mq/queue"
	service "github.com/okian/concal/internal/app"
	"github.com/okian/concal/internal/domain/catalog"
	"github.com/okian/concal/internal/domain/normalize"
)

const defaultTimezone = normalize.DefaultTimezone

var errNoFile = errors.New("--file is required")

type globalOptions struct {
	file     string
	format   string
	timezone string
	strict   bool
	output   string
}

func (o *globalOptions) location() (*time.Location, error) {
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", o.timezone, err)
	}
	return loc, nil
}

func (o *globalOptions) validateOutput() error {
	if !slices.Contains(outputFormats, o.output) {
		return fmt.Errorf("invalid output %q, valid outputs: %v", o.output, outputFormats)
	}
	return nil
}

// loadCatalog builds the catalog of the --file export.
func loadCatalog(ctx context.Context, o *globalOptions) (*catalog.Catalog, error) {
	if o.file == "" {
		return nil, errNoFile
	}
	if err := o.validateOutput(); err != nil {
		return nil, err
	}
	loc, err := o.location()
	if err != nil {
		return nil, err
	}
	l := &service.FileLoader{
		Path:          o.file,
		Format:        ingest.Format(o.format),
		Location:      loc,
		SkipMalformed: !o.strict,
	}
	cat, _, err := l.Load(ctx, queue.Job{})
	return cat, err
}
