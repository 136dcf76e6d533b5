package main

import (
	"context"
	"reflect"
	"runtime"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/batchpool/chunked"
	"github.com/utkarsh5026/batchpool/pool"
)

const (
	modeShared  = "shared"
	modePerCall = "per-call"
)

// settings is the parsed command line.
type settings struct {
	rows       int
	seed       uint64
	threads    []int
	iterations int
	modes      []string
	ops        []operation
	pin        bool
}

// measurement is every timed iteration of one operation, mode and thread count.
type measurement struct {
	op      string
	mode    string
	threads int
	times   []time.Duration
}

// references computes the sequential result of every operation concurrently.
func references(ctx context.Context, ops []operation, values []int) (map[string]any, error) {
	refs := make([]any, len(ops))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, op := range ops {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			refs[i] = op.reference(values)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "computing reference results")
	}

	out := make(map[string]any, len(ops))
	for i, op := range ops {
		out[op.name] = refs[i]
	}
	return out, nil
}

// run measures every combination in s and checks each result against refs.
func run(ctx context.Context, s settings, values []int, refs map[string]any, bar *progressbar.ProgressBar) ([]measurement, error) {
	var results []measurement

	for _, threads := range s.threads {
		for _, mode := range s.modes {
			ms, err := runMode(ctx, s, mode, threads, values, refs, bar)
			if err != nil {
				return nil, err
			}
			results = append(results, ms...)
		}
	}
	return results, nil
}

func runMode(
	ctx context.Context,
	s settings,
	mode string,
	threads int,
	values []int,
	refs map[string]any,
	bar *progressbar.ProgressBar,
) (_ []measurement, err error) {
	var poolOpts []pool.Option
	if s.pin {
		poolOpts = append(poolOpts, pool.WithCPUAffinity())
	}

	var opts []chunked.Option
	switch mode {
	case modeShared:
		p, perr := pool.New(threads, poolOpts...)
		if perr != nil {
			return nil, perr
		}
		defer func() {
			if cerr := p.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		opts = append(opts, chunked.WithPool(p))
	case modePerCall:
		opts = append(opts, chunked.WithPoolOptions(poolOpts...))
	default:
		return nil, errors.Errorf("unknown mode %q", mode)
	}

	results := make([]measurement, 0, len(s.ops))
	for _, op := range s.ops {
		m := measurement{op: op.name, mode: mode, threads: threads}

		for range s.iterations {
			bar.Describe(op.name + "/" + mode)

			start := time.Now()
			got, err := op.run(ctx, threads, values, opts...)
			elapsed := time.Since(start)
			if err != nil {
				return nil, errors.Wrapf(err, "%s with %d threads (%s)", op.name, threads, mode)
			}
			if !reflect.DeepEqual(got, refs[op.name]) {
				return nil, errors.Errorf("%s with %d threads (%s) does not match the sequential result", op.name, threads, mode)
			}

			m.times = append(m.times, elapsed)
			_ = bar.Add(1)
		}

		grip.Debug(message.Fields{
			"message": "operation measured",
			"op":      op.name,
			"mode":    mode,
			"threads": threads,
			"runs":    len(m.times),
		})
		results = append(results, m)
	}
	return results, nil
}
