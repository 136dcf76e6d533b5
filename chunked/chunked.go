package chunked

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/utkarsh5026/batchpool/pool"
)

// run splits values, applies local to every chunk on a pool and returns the
// per-chunk results in chunk order. An empty input yields no results and no
// pool is created.
func run[T, R any](
	ctx context.Context,
	threads int,
	values []T,
	local func(chunk []T) R,
	opts ...Option,
) (results []R, err error) {
	chunks, err := split(values, threads)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	p, release, err := newConfig(opts...).acquire(len(chunks))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := release(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing temporary pool")
		}
	}()

	return pool.Map(ctx, p, func(ctx context.Context, chunk []T) (R, error) {
		if err := ctx.Err(); err != nil {
			var zero R
			return zero, err
		}
		return local(chunk), nil
	}, chunks)
}

// Join concatenates the string form of every value, as produced by
// fmt.Sprint, in input order.
func Join[T any](ctx context.Context, threads int, values []T, opts ...Option) (string, error) {
	parts, err := run(ctx, threads, values, func(chunk []T) string {
		var sb strings.Builder
		for _, v := range chunk {
			_, _ = fmt.Fprint(&sb, v)
		}
		return sb.String()
	}, opts...)
	if err != nil {
		return "", err
	}
	return strings.Join(parts, ""), nil
}

// Filter returns the values that satisfy pred, in input order.
func Filter[T any](ctx context.Context, threads int, values []T, pred func(T) bool, opts ...Option) ([]T, error) {
	parts, err := run(ctx, threads, values, func(chunk []T) []T {
		kept := make([]T, 0, len(chunk))
		for _, v := range chunk {
			if pred(v) {
				kept = append(kept, v)
			}
		}
		return kept
	}, opts...)
	if err != nil {
		return nil, err
	}
	return concat(parts), nil
}

// Map applies fn to every value and returns the results in input order.
func Map[T, U any](ctx context.Context, threads int, values []T, fn func(T) U, opts ...Option) ([]U, error) {
	parts, err := run(ctx, threads, values, func(chunk []T) []U {
		mapped := make([]U, len(chunk))
		for i, v := range chunk {
			mapped[i] = fn(v)
		}
		return mapped
	}, opts...)
	if err != nil {
		return nil, err
	}
	return concat(parts), nil
}

// Minimum returns the smallest value under cmp, which reports a negative
// number when a sorts before b. Among equal values the earliest one wins.
// An empty slice fails with ErrEmptyInput.
func Minimum[T any](ctx context.Context, threads int, values []T, cmp func(a, b T) int, opts ...Option) (T, error) {
	var zero T
	if len(values) == 0 {
		if threads <= 0 {
			return zero, errors.Wrapf(ErrInvalidThreads, "got %d", threads)
		}
		return zero, errors.WithStack(ErrEmptyInput)
	}

	mins, err := run(ctx, threads, values, func(chunk []T) T {
		return least(chunk, cmp)
	}, opts...)
	if err != nil {
		return zero, err
	}
	return least(mins, cmp), nil
}

// Maximum returns the largest value under cmp. Among equal values the
// earliest one wins. An empty slice fails with ErrEmptyInput.
func Maximum[T any](ctx context.Context, threads int, values []T, cmp func(a, b T) int, opts ...Option) (T, error) {
	return Minimum(ctx, threads, values, func(a, b T) int { return cmp(b, a) }, opts...)
}

// Any reports whether at least one value satisfies pred.
// It returns false for an empty slice.
func Any[T any](ctx context.Context, threads int, values []T, pred func(T) bool, opts ...Option) (bool, error) {
	found, err := run(ctx, threads, values, func(chunk []T) bool {
		return slices.ContainsFunc(chunk, pred)
	}, opts...)
	if err != nil {
		return false, err
	}
	return slices.Contains(found, true), nil
}

// All reports whether every value satisfies pred.
// It returns true for an empty slice.
func All[T any](ctx context.Context, threads int, values []T, pred func(T) bool, opts ...Option) (bool, error) {
	miss, err := Any(ctx, threads, values, func(v T) bool { return !pred(v) }, opts...)
	if err != nil {
		return false, err
	}
	return !miss, nil
}

// least returns the first element of a non-empty slice that no later
// element is strictly smaller than.
func least[T any](values []T, cmp func(a, b T) int) T {
	best := values[0]
	for _, v := range values[1:] {
		if cmp(v, best) < 0 {
			best = v
		}
	}
	return best
}

func concat[T any](parts [][]T) []T {
	total := 0
	for _, p := range parts {
		total += len(p)
	}

	out := make([]T, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
