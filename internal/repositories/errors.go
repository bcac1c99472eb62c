package repositories

import "errors"

// ErrNotFound is returned when a looked-up record does not exist. Services
// treat it as a signal for best-effort no-ops, so repositories must return it
// (possibly wrapped) for every missing-record case.
var ErrNotFound = errors.New("record not found")
