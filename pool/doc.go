// Package pool provides a fixed-size worker pool that maps functions over
// ordered batches of elements.
//
// A Pool owns a set of long-lived workers and a FIFO queue of batches. Each
// call to Map submits one batch and blocks until every element of that batch
// has been computed exactly once. Results are always returned in input order,
// no matter which worker computed which element.
//
// # Basic Usage
//
//	p, err := pool.New(4)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	squares, err := pool.Map(ctx, p, func(ctx context.Context, n int) (int, error) {
//	    return n * n, nil
//	}, []int{1, 2, 3, 4})
//
// # Scheduling
//
// Batches are serviced in strict submission order. Workers always claim the
// next unclaimed element of the oldest batch that still has unclaimed
// elements, so a newer batch only receives attention once every element of
// the older batches has been handed out. Many goroutines may call Map on the
// same pool at once; each gets its own batch and its own wait.
//
// # Errors
//
// If an element function returns an error or panics, the whole Map call fails
// with that error and the remaining unclaimed elements of the batch are
// skipped. Cancelling the context passed to Map abandons the batch and
// returns an error matching ErrInterrupted. Closing the pool while batches
// are pending abandons them the same way. Calling Map on a closed pool fails
// with ErrPoolClosed.
//
// # Configuration Options
//
//   - WithRateLimit(perSecond, burst): token-bucket limit on element computations
//   - WithCPUAffinity(): pin each worker to its own OS thread and core
//   - WithMetrics(m): export Prometheus counters, gauges and latency histograms
//   - WithTracer(t): OpenTelemetry tracer used for a span per Map call
package pool
