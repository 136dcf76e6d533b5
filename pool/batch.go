package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mongodb/grip/recovery"
	"github.com/pkg/errors"
)

// job is the type-erased view of a batch that the queue and workers use.
type job interface {
	// seq returns the submission id assigned by the pool.
	seq() int64
	setID(id int64)

	// claim hands out the next unclaimed index, if any is left.
	claim() (int, bool)

	// exec computes the element at a claimed index. It returns true when
	// this call moved the batch into its terminal state.
	exec(idx int) bool

	// finish moves the batch into its terminal state with err. Only the
	// first call has any effect, and only that call returns true.
	finish(err error) bool

	// outcome returns the terminal error once the batch has finished.
	outcome() error

	size() int
}

// batch is one Map call: an immutable input slice, the function applied to
// it, and the result slot for every index.
type batch[T, R any] struct {
	id       int64
	ctx      context.Context
	pool     *Pool
	elements []T
	fn       ProcessFunc[T, R]
	results  []R

	next      atomic.Int64
	completed atomic.Int64

	once sync.Once
	done chan struct{}
	err  error
}

func newBatch[T, R any](ctx context.Context, p *Pool, fn ProcessFunc[T, R], elements []T) *batch[T, R] {
	return &batch[T, R]{
		ctx:      ctx,
		pool:     p,
		elements: elements,
		fn:       fn,
		results:  make([]R, len(elements)),
		done:     make(chan struct{}),
	}
}

func (b *batch[T, R]) seq() int64 { return b.id }

func (b *batch[T, R]) setID(id int64) { b.id = id }

func (b *batch[T, R]) size() int { return len(b.elements) }

func (b *batch[T, R]) finished() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

func (b *batch[T, R]) claim() (int, bool) {
	n := int64(len(b.elements))
	for {
		if b.finished() {
			return 0, false
		}

		i := b.next.Load()
		if i >= n {
			return 0, false
		}
		if b.next.CompareAndSwap(i, i+1) {
			return int(i), true
		}
	}
}

func (b *batch[T, R]) exec(idx int) bool {
	// a failed or abandoned batch still hands back claims that were made
	// before it finished; there is no point computing them.
	if b.finished() {
		return false
	}

	if limiter := b.pool.conf.rateLimiter; limiter != nil {
		if err := limiter.Wait(b.ctx); err != nil {
			return b.fail(idx, err)
		}
	}

	start := time.Now()
	res, err := b.call(idx)
	if err != nil {
		return b.fail(idx, err)
	}
	b.pool.elementCompleted(time.Since(start))

	b.results[idx] = res
	if b.completed.Add(1) == int64(len(b.elements)) {
		return b.finish(nil)
	}
	return false
}

// call runs the element function, turning a panic into an error.
func (b *batch[T, R]) call(idx int) (res R, err error) {
	defer func() {
		if perr := recovery.HandlePanicWithError(recover(), nil, "element function panicked"); perr != nil {
			err = perr
		}
	}()

	return b.fn(b.ctx, b.elements[idx])
}

// fail ends the batch because of the element at idx. When the batch context
// is already cancelled the element error is almost always a consequence of
// that, so the interruption is reported instead.
func (b *batch[T, R]) fail(idx int, err error) bool {
	if cause := context.Cause(b.ctx); cause != nil {
		return b.finish(newInterruptedError(cause))
	}
	return b.finish(errors.Wrapf(err, "processing element %d of batch %d", idx, b.id))
}

func (b *batch[T, R]) finish(err error) bool {
	first := false
	b.once.Do(func() {
		b.err = err
		close(b.done)
		first = true
	})
	return first
}

func (b *batch[T, R]) outcome() error {
	<-b.done
	return b.err
}
