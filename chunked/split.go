package chunked

import "github.com/pkg/errors"

// split divides values into min(threads, len(values)) contiguous chunks.
// The first len(values)%k chunks hold one more value than the rest.
// The chunks share storage with values.
func split[T any](values []T, threads int) ([][]T, error) {
	if threads <= 0 {
		return nil, errors.Wrapf(ErrInvalidThreads, "got %d", threads)
	}

	n := len(values)
	k := min(threads, n)
	if k == 0 {
		return nil, nil
	}

	size, extra := n/k, n%k
	chunks := make([][]T, k)
	start := 0
	for i := range k {
		end := start + size
		if i < extra {
			end++
		}
		chunks[i] = values[start:end:end]
		start = end
	}
	return chunks, nil
}
