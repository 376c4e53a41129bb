package repository

import "errors"

// Sentinel kinds for catalog store errors.
var (
	ErrNoCatalog  = errors.New("no catalog published")
	ErrNotFound   = errors.New("event not found")
	ErrNilCatalog = errors.New("nil catalog")
)
