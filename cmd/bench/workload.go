package main

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/utkarsh5026/batchpool/chunked"
)

// joinLimit caps the input of the join operation, whose output grows with
// every value.
const joinLimit = 100_000

// generate returns n pseudo-random values in [-500, 500) from an xorshift
// sequence, so every run sees the same workload.
func generate(n int, seed uint64) []int {
	if seed == 0 {
		seed = 1 // xorshift must not be zero
	}

	values := make([]int, n)
	state := seed
	for i := range values {
		x := state
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		state = x

		values[i] = int(x%1000) - 500
	}
	return values
}

// operation is one chunked algorithm together with its sequential reference.
type operation struct {
	name      string
	run       func(ctx context.Context, threads int, values []int, opts ...chunked.Option) (any, error)
	reference func(values []int) any
}

func isEven(v int) bool { return v%2 == 0 }

func square(v int) int { return v * v }

func joinInput(values []int) []int {
	return values[:min(len(values), joinLimit)]
}

var operations = []operation{
	{
		name: "join",
		run: func(ctx context.Context, threads int, values []int, opts ...chunked.Option) (any, error) {
			return chunked.Join(ctx, threads, joinInput(values), opts...)
		},
		reference: func(values []int) any {
			var sb strings.Builder
			for _, v := range joinInput(values) {
				_, _ = fmt.Fprint(&sb, v)
			}
			return sb.String()
		},
	},
	{
		name: "filter",
		run: func(ctx context.Context, threads int, values []int, opts ...chunked.Option) (any, error) {
			return chunked.Filter(ctx, threads, values, isEven, opts...)
		},
		reference: func(values []int) any {
			out := make([]int, 0, len(values))
			for _, v := range values {
				if isEven(v) {
					out = append(out, v)
				}
			}
			return out
		},
	},
	{
		name: "map",
		run: func(ctx context.Context, threads int, values []int, opts ...chunked.Option) (any, error) {
			return chunked.Map(ctx, threads, values, square, opts...)
		},
		reference: func(values []int) any {
			out := make([]int, len(values))
			for i, v := range values {
				out[i] = square(v)
			}
			return out
		},
	},
	{
		name: "maximum",
		run: func(ctx context.Context, threads int, values []int, opts ...chunked.Option) (any, error) {
			return chunked.Maximum(ctx, threads, values, cmp.Compare[int], opts...)
		},
		reference: func(values []int) any { return slices.Max(values) },
	},
	{
		name: "minimum",
		run: func(ctx context.Context, threads int, values []int, opts ...chunked.Option) (any, error) {
			return chunked.Minimum(ctx, threads, values, cmp.Compare[int], opts...)
		},
		reference: func(values []int) any { return slices.Min(values) },
	},
	{
		// never short-circuits: every value is in range
		name: "all",
		run: func(ctx context.Context, threads int, values []int, opts ...chunked.Option) (any, error) {
			return chunked.All(ctx, threads, values, inRange, opts...)
		},
		reference: func(values []int) any { return !slices.ContainsFunc(values, func(v int) bool { return !inRange(v) }) },
	},
	{
		name: "any",
		run: func(ctx context.Context, threads int, values []int, opts ...chunked.Option) (any, error) {
			return chunked.Any(ctx, threads, values, outOfRange, opts...)
		},
		reference: func(values []int) any { return slices.ContainsFunc(values, outOfRange) },
	},
}

func inRange(v int) bool { return v >= -500 && v < 500 }

func outOfRange(v int) bool { return !inRange(v) }

// selectOperations returns the operations named in names, in the order
// they are declared. An empty list selects all of them.
func selectOperations(names []string) ([]operation, error) {
	if len(names) == 0 {
		return operations, nil
	}

	selected := make([]operation, 0, len(names))
	for _, op := range operations {
		if slices.Contains(names, op.name) {
			selected = append(selected, op)
		}
	}
	for _, name := range names {
		if !slices.ContainsFunc(operations, func(op operation) bool { return op.name == name }) {
			return nil, errors.Errorf("unknown operation %q", name)
		}
	}
	return selected, nil
}
