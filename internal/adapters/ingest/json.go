package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/concal/internal/domain/model"
)

// JSONParser reads a JSON array of objects keyed by column label.
type JSONParser struct{}

// Parse returns label-layout rows.
func (p *JSONParser) Parse(r io.Reader) (Dataset, error) {
	rows, err := decodeRows(r)
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{Layout: LayoutLabels, Rows: rows}, nil
}

// SheetParser reads a JSON dump of a spreadsheet: an array of objects keyed
// by column letter whose first element is the header row.
type SheetParser struct{}

// Parse returns sheet-layout rows.
func (p *SheetParser) Parse(r io.Reader) (Dataset, error) {
	rows, err := decodeRows(r)
	if err != nil {
		return Dataset{}, err
	}
	if len(rows) == 0 {
		return Dataset{}, ErrNoHeader
	}
	return Dataset{Layout: LayoutSheet, Rows: rows}, nil
}

// decodeRows decodes an array of flat objects. Numbers and booleans are
// rendered back to strings; nulls are dropped.
func decodeRows(r io.Reader) ([]model.RawRow, error) {
	var raw []map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding JSON rows: %w", err)
	}
	rows := make([]model.RawRow, 0, len(raw))
	for i, obj := range raw {
		row := make(model.RawRow, len(obj))
		for k, v := range obj {
			s, err := cell(v)
			if err != nil {
				return nil, fmt.Errorf("row %d, key %q: %w", i, k, err)
			}
			if s != "" {
				row[k] = s
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		if t {
			return "Yes", nil
		}
		return "No", nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}
