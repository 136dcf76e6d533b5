package chunked

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		n, threads int
		sizes      []int
	}{
		{n: 0, threads: 1, sizes: nil},
		{n: 0, threads: 5, sizes: nil},
		{n: 1, threads: 1, sizes: []int{1}},
		{n: 5, threads: 3, sizes: []int{2, 2, 1}},
		{n: 10, threads: 4, sizes: []int{3, 3, 2, 2}},
		{n: 8, threads: 4, sizes: []int{2, 2, 2, 2}},
		{n: 7, threads: 1, sizes: []int{7}},
		{n: 3, threads: 10, sizes: []int{1, 1, 1}},
		{n: 11, threads: 3, sizes: []int{4, 4, 3}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n%d_threads%d", tt.n, tt.threads), func(t *testing.T) {
			values := make([]int, tt.n)
			for i := range values {
				values[i] = i
			}

			chunks, err := split(values, tt.threads)
			require.NoError(t, err)
			require.Len(t, chunks, len(tt.sizes))

			next := 0
			for i, c := range chunks {
				assert.Len(t, c, tt.sizes[i], "chunk %d", i)
				for _, v := range c {
					assert.Equal(t, next, v, "chunks must be contiguous and ordered")
					next++
				}
			}
			assert.Equal(t, tt.n, next, "every value lands in exactly one chunk")
		})
	}
}

func TestSplit_InvalidThreads(t *testing.T) {
	for _, threads := range []int{0, -1, -100} {
		_, err := split([]int{1, 2, 3}, threads)
		assert.ErrorIs(t, err, ErrInvalidThreads, "threads=%d", threads)

		_, err = split([]int{}, threads)
		assert.ErrorIs(t, err, ErrInvalidThreads, "threads=%d on empty input", threads)
	}
}

func TestSplit_ChunksDoNotOverlap(t *testing.T) {
	values := []int{1, 2, 3, 4, 5}
	chunks, err := split(values, 2)
	require.NoError(t, err)

	// appending to a chunk must not clobber the next one
	_ = append(chunks[0], 99)
	assert.Equal(t, []int{4, 5}, chunks[1])
	assert.Equal(t, []int{1, 2, 3, 4, 5}, values)
}
