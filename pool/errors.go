package pool

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidWorkerCount is returned by New when asked for fewer than one worker.
	ErrInvalidWorkerCount = errors.New("worker count must be at least 1")

	// ErrPoolClosed is returned by Map once Close has been called.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrInterrupted matches errors returned by Map when its batch was
	// abandoned before completion, either because the caller's context was
	// cancelled or because the pool was closed.
	ErrInterrupted = errors.New("operation interrupted")
)

// interruptedError reports an abandoned batch. It matches ErrInterrupted
// and unwraps to whatever caused the interruption.
type interruptedError struct {
	cause error
}

func newInterruptedError(cause error) error {
	if cause == nil {
		cause = ErrInterrupted
	}
	return &interruptedError{cause: cause}
}

func (e *interruptedError) Error() string {
	if e.cause == ErrInterrupted {
		return ErrInterrupted.Error()
	}
	return ErrInterrupted.Error() + ": " + e.cause.Error()
}

func (e *interruptedError) Is(target error) bool { return target == ErrInterrupted }

func (e *interruptedError) Unwrap() error { return e.cause }

// IsInterrupted reports whether err is the result of an abandoned batch.
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}
