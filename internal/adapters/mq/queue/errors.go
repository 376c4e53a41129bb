package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrQueueClosed = errors.New("reload queue closed")
	ErrQueueFull   = errors.New("reload queue full")
)
