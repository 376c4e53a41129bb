package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoDataFile = errors.New("no data file configured")
)
