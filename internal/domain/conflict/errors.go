package conflict

import "errors"

// ErrUnknownID is returned when an id is not in the record list.
var ErrUnknownID = errors.New("unknown event id")
