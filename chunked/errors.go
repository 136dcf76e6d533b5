package chunked

import "github.com/pkg/errors"

var (
	// ErrInvalidThreads is returned when an operation is asked to use zero
	// or fewer threads.
	ErrInvalidThreads = errors.New("thread count must be positive")

	// ErrEmptyInput is returned by Maximum and Minimum on an empty slice.
	ErrEmptyInput = errors.New("no values to compare")
)
