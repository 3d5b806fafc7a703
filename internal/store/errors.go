package store

import "errors"

// ErrNoStore is returned when an operation needs a store handle that
// was never configured. List callers degrade to an empty result
// instead of surfacing it; write callers propagate it.
var ErrNoStore = errors.New("no bill store configured")

// ErrNotFound is returned when a key does not resolve to a bill.
var ErrNotFound = errors.New("bill not found")

// NetworkError carries a store rejection upward. Message holds the
// upstream error text verbatim (e.g. "Erreur 404"); the view layer
// renders it unmodified.
type NetworkError struct {
	Op      string
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
