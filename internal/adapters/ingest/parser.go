// Package ingest reads event exports from disk into raw rows.
//
// CSV files and column-keyed sheet dumps come out in sheet layout (first row
// is the header); JSON arrays of label-keyed objects come out in label
// layout. Files ending in .gz or .zst are decompressed transparently.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/concal/internal/domain/catalog"
	"github.com/okian/concal/internal/domain/model"
)

// Format names an export format.
type Format string

// Supported formats.
const (
	FormatAuto  Format = "auto"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatSheet Format = "sheet"
)

// Layout tells how rows are keyed.
type Layout int

// Row layouts.
const (
	// LayoutLabels rows are keyed by header label.
	LayoutLabels Layout = iota
	// LayoutSheet rows are keyed by column; the first row is the header.
	LayoutSheet
)

// Errors returned while reading exports.
var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoHeader      = errors.New("export has no header")
)

// Dataset is one parsed export.
type Dataset struct {
	Source string
	Layout Layout
	Rows   []model.RawRow
}

// Build turns the dataset into a catalog, resolving the header row first
// for sheet layouts.
func (d Dataset) Build(opts ...catalog.Option) (*catalog.Catalog, error) {
	if d.Layout == LayoutSheet {
		return catalog.BuildSheet(d.Rows, opts...)
	}
	return catalog.Build(d.Rows, opts...)
}

// Len returns the number of data rows, excluding a sheet header.
func (d Dataset) Len() int {
	if d.Layout == LayoutSheet && len(d.Rows) > 0 {
		return len(d.Rows) - 1
	}
	return len(d.Rows)
}

// Parser reads one export format.
type Parser interface {
	Parse(r io.Reader) (Dataset, error)
}

// ForFormat returns the parser for format, or nil if unknown.
// FormatAuto has no parser of its own; use ForFile.
func ForFormat(format Format) Parser {
	switch Format(strings.ToLower(string(format))) {
	case FormatCSV:
		return &CSVParser{}
	case FormatJSON:
		return &JSONParser{}
	case FormatSheet:
		return &SheetParser{}
	default:
		return nil
	}
}

// ForFile picks a parser from the file name, ignoring a compression
// suffix. A ".sheet.json" name selects the sheet parser.
func ForFile(filename string) Parser {
	name := strings.ToLower(stripCompression(filename))
	switch {
	case strings.HasSuffix(name, ".sheet.json"):
		return &SheetParser{}
	case filepath.Ext(name) == ".json":
		return &JSONParser{}
	case filepath.Ext(name) == ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// Load reads and parses path. FormatAuto (or "") chooses the parser from
// the file name.
func Load(path string, format Format) (Dataset, error) {
	var p Parser
	if format == "" || format == FormatAuto {
		p = ForFile(path)
	} else {
		p = ForFormat(format)
	}
	if p == nil {
		return Dataset{}, fmt.Errorf("%w: %s (%s)", ErrUnknownFormat, format, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("opening export: %w", err)
	}
	defer func() { _ = f.Close() }()

	r, err := Decompress(f, path)
	if err != nil {
		return Dataset{}, err
	}
	defer func() { _ = r.Close() }()

	ds, err := p.Parse(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	ds.Source = path
	return ds, nil
}
