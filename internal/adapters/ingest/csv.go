package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/concal/internal/domain/model"
	"github.com/okian/concal/internal/domain/normalize"
)

// CSVParser reads a CSV export whose first line holds the column labels.
type CSVParser struct{}

// Parse returns the file in sheet layout: the header becomes row 0 keyed by
// column letter, and every record is keyed the same way.
func (p *CSVParser) Parse(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := p.readHeader(reader)
	if err != nil {
		return Dataset{}, err
	}
	rows, err := p.readRecords(reader, len(header))
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{Layout: LayoutSheet, Rows: append([]model.RawRow{header}, rows...)}, nil
}

func (p *CSVParser) readHeader(reader *csv.Reader) (model.RawRow, error) {
	record, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	header := make(model.RawRow, len(record))
	for i, label := range record {
		// Excel exports prefix the first cell with a BOM.
		label = strings.TrimPrefix(label, "\ufeff")
		if label = strings.TrimSpace(label); label != "" {
			header[normalize.ColumnKey(i)] = label
		}
	}
	if len(header) == 0 {
		return nil, ErrNoHeader
	}
	return header, nil
}

func (p *CSVParser) readRecords(reader *csv.Reader, width int) ([]model.RawRow, error) {
	var rows []model.RawRow
	lineNum := 1

	for {
		lineNum++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if blank(record) {
			continue
		}
		row := make(model.RawRow, min(len(record), width))
		for i, v := range record {
			if i >= width {
				break
			}
			if v != "" {
				row[normalize.ColumnKey(i)] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
