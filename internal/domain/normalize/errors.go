package normalize

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMalformedRow  = errors.New("malformed row")
	ErrMissingField  = errors.New("missing required field")
	ErrBadTimestamp  = errors.New("unparseable timestamp")
	ErrMissingColumn = errors.New("missing required column")
)

// RowError reports why a single raw row was rejected.
type RowError struct {
	Row   int    // position of the row in the input, zero-based
	Field string // column label that failed
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %v", e.Row, e.Field, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Is makes every RowError match ErrMalformedRow.
func (e *RowError) Is(target error) bool {
	return target == ErrMalformedRow
}
