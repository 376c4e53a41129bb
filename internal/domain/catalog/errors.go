package catalog

import "errors"

// Sentinel error kinds for catalog builds.
var (
	ErrEmptyHeader = errors.New("dataset has no header row")
	ErrBuild       = errors.New("catalog build failed")
)
