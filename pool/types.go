package pool

import (
	"context"
	"time"
)

// ProcessFunc is a function type that defines how individual elements of a
// batch are processed. The context is cancelled when the caller of Map gives
// up on the batch or when the pool is closed.
// If processing fails, it should return an error which fails the whole batch.
//
// Type parameters:
//   - T: The type of input element to be processed
//   - R: The type of result produced after processing
type ProcessFunc[T any, R any] func(ctx context.Context, element T) (R, error)

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	Workers           int           // workers currently running
	QueuedBatches     int           // batches waiting in the queue or being worked on
	SubmittedBatches  int64         // batches accepted by Map since creation
	CompletedBatches  int64         // batches whose every element was computed
	FailedBatches     int64         // batches that ended with an error or were abandoned
	CompletedElements int64         // element computations that succeeded
	AvgElementLatency time.Duration // exponentially weighted moving average
}
