package db

import (
	"errors"
	"fmt"
)

// ErrUnavailable indicates the post store could not be read or written.
// It is fatal for the current request and never retried locally; use
// errors.Is() to classify it at the engine boundary.
var ErrUnavailable = errors.New("post store unavailable")

// storeErr wraps a SurrealDB failure with the unavailability sentinel and
// the operation that failed.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
