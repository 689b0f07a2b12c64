package storage

import "errors"

// Storage errors shared by all implementations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable marks a transient failure: the ledger is locked or
	// unreachable and the operation is worth retrying with backoff.
	// Implementations wrap transient driver errors with this sentinel so
	// the retry layer can classify without knowing the driver.
	ErrUnavailable = errors.New("storage unavailable")
)

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
