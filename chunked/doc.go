// Package chunked provides list algorithms that run on a worker pool.
//
// Every operation has the same shape: the input slice is split into
// contiguous chunks, one chunk function per chunk is submitted to a
// pool.Pool as a single batch, and the ordered partial results are reduced
// into the final value.
//
// # Splitting
//
// A request for k threads over n values produces min(k, n) chunks. Chunk
// sizes are n/k, and the first n%k chunks get one extra value, so sizes
// never differ by more than one and the split is fully deterministic.
// Asking for zero or fewer threads fails with ErrInvalidThreads.
//
// # Pools
//
// By default each call creates a pool sized to its effective thread count
// and closes it before returning, on success and on failure alike. Pass
// WithPool to run on a long-lived pool instead; the caller keeps ownership
// of it and is responsible for closing it.
//
//	p, _ := pool.New(runtime.NumCPU())
//	defer p.Close()
//
//	words, err := chunked.Filter(ctx, 8, lines, isWord, chunked.WithPool(p))
//	longest, err := chunked.Maximum(ctx, 8, words, byLength, chunked.WithPool(p))
package chunked
