package pool

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// runSizeTest runs testFunc once per worker count as a named subtest.
func runSizeTest(t *testing.T, testFunc func(t *testing.T, workers int), sizes ...int) {
	if len(sizes) == 0 {
		sizes = []int{1, 2, 4, 8}
	}

	for _, n := range sizes {
		t.Run(fmt.Sprintf("Workers%d", n), func(t *testing.T) {
			testFunc(t, n)
		})
	}
}

// newTestPool creates a pool that is closed when the test ends.
func newTestPool(t *testing.T, workers int, opts ...Option) *Pool {
	t.Helper()

	p, err := New(workers, opts...)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// waitFor polls cond until it holds or the test times out.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func identity(_ context.Context, n int) (int, error) {
	return n, nil
}

func sequence(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// gate blocks a single-element batch on p until release is closed, so that
// later batches queue up behind it.
type gate struct {
	started chan struct{}
	release chan struct{}
	errc    chan error
}

func openGate(t *testing.T, p *Pool) *gate {
	t.Helper()

	g := &gate{
		started: make(chan struct{}),
		release: make(chan struct{}),
		errc:    make(chan error, 1),
	}
	go func() {
		_, err := Map(context.Background(), p, func(ctx context.Context, _ int) (int, error) {
			close(g.started)
			select {
			case <-g.release:
				return 0, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}, []int{0})
		g.errc <- err
	}()

	select {
	case <-g.started:
	case <-time.After(5 * time.Second):
		t.Fatal("gate element never started")
	}
	return g
}

func (g *gate) open() error {
	close(g.release)
	return <-g.errc
}
