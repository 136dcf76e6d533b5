package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/batchpool/internal/cpu"
)

// Pool is a fixed set of workers servicing a FIFO queue of batches.
// The zero value is not usable; create pools with New.
type Pool struct {
	id   string
	size int
	conf *poolConfig

	mu     sync.Mutex
	cond   *sync.Cond
	queue  batchQueue
	nextID int64
	closed bool

	ctx     context.Context
	cancel  context.CancelFunc
	workers errgroup.Group
	live    atomic.Int32
	done    chan struct{}

	stats *statsTracker
}

// New creates a pool and immediately starts exactly workers goroutines,
// which live until Close is called.
//
// Returns ErrInvalidWorkerCount if workers is less than one.
//
// Example:
//
//	p, err := pool.New(8, pool.WithRateLimit(100, 10))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
func New(workers int, opts ...Option) (*Pool, error) {
	if workers < 1 {
		return nil, errors.Wrapf(ErrInvalidWorkerCount, "got %d", workers)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		id:     uuid.New().String(),
		size:   workers,
		conf:   newPoolConfig(opts...),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		stats:  newStatsTracker(),
	}
	p.cond = sync.NewCond(&p.mu)

	// holding the lock keeps Close from observing a half-started worker set
	p.mu.Lock()
	for i := range workers {
		p.live.Add(1)
		p.workers.Go(func() error {
			return p.work(i)
		})
	}
	p.mu.Unlock()

	grip.Info(message.Fields{
		"message":  "pool started",
		"pool":     p.id,
		"workers":  workers,
		"pinned":   p.conf.pinWorkers,
		"limiting": p.conf.rateLimiter != nil,
	})

	return p, nil
}

// ID returns the unique identifier of the pool, as used in its log entries.
func (p *Pool) ID() string { return p.id }

// Size returns the number of workers the pool was created with.
func (p *Pool) Size() int { return p.size }

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	st := Stats{Workers: int(p.live.Load())}

	p.mu.Lock()
	st.QueuedBatches = p.queue.len()
	p.mu.Unlock()

	p.stats.fill(&st)
	return st
}

// Map applies fn to every element and returns the results in input order.
// It blocks until the whole batch has been computed, the batch fails, ctx is
// cancelled, or the pool is closed.
//
// Parameters:
//   - ctx: Context for cancelling the wait; also passed to fn
//   - p: The pool that computes the batch
//   - fn: Function applied to each element
//   - elements: Input slice; it must not be modified until Map returns
//
// Returns:
//   - results: One result per element, index-aligned with elements
//   - error: ErrPoolClosed, an error matching ErrInterrupted, or the first
//     element error
//
// An empty elements slice returns an empty result without enqueuing anything.
func Map[T, R any](ctx context.Context, p *Pool, fn ProcessFunc[T, R], elements []T) ([]R, error) {
	if len(elements) == 0 {
		if p.Closed() {
			return nil, errors.WithStack(ErrPoolClosed)
		}
		return []R{}, nil
	}

	ctx, span := p.conf.tracer.Start(ctx, "pool.Map", trace.WithAttributes(
		attribute.String("pool.id", p.id),
		attribute.Int("batch.size", len(elements)),
	))
	defer span.End()

	bctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	stop := context.AfterFunc(p.ctx, func() { cancel(ErrPoolClosed) })
	defer stop()

	b := newBatch(bctx, p, fn, elements)
	if err := p.submit(b); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("batch.id", b.id))

	var err error
	select {
	case <-b.done:
		err = b.err
	case <-ctx.Done():
		// the batch may have finished at the same moment; whoever
		// finishes it first decides the outcome.
		p.abandon(b, newInterruptedError(context.Cause(ctx)))
		err = b.outcome()
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return b.results, nil
}

// Close stops every worker, waits for all of them to exit, then abandons
// any batch still in the queue. Callers waiting on abandoned batches get an
// error matching ErrInterrupted. Close is safe to call more than once;
// every call returns only after the workers have stopped.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return nil
	}
	p.closed = true
	p.cancel()
	p.cond.Broadcast()
	p.mu.Unlock()

	err := p.workers.Wait()

	p.mu.Lock()
	pending := p.queue.drain()
	p.mu.Unlock()

	for _, j := range pending {
		abandonErr := newInterruptedError(ErrPoolClosed)
		if j.finish(abandonErr) {
			p.retired(j, abandonErr, 0)
		}
	}
	close(p.done)

	grip.Info(message.Fields{
		"message":   "pool closed",
		"pool":      p.id,
		"workers":   p.size,
		"abandoned": len(pending),
	})

	return err
}

func (p *Pool) submit(j job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errors.WithStack(ErrPoolClosed)
	}

	p.nextID++
	j.setID(p.nextID)
	p.queue.push(j)
	queued := p.queue.len()
	p.cond.Broadcast()

	p.stats.batchSubmitted()
	p.conf.metrics.batchSubmitted(queued)
	grip.Debug(message.Fields{
		"message": "batch submitted",
		"pool":    p.id,
		"batch":   j.seq(),
		"size":    j.size(),
		"queued":  queued,
	})
	return nil
}

// abandon ends b on behalf of its caller and takes it out of the queue.
func (p *Pool) abandon(j job, err error) {
	if !j.finish(err) {
		return
	}

	p.mu.Lock()
	p.queue.remove(j)
	queued := p.queue.len()
	p.mu.Unlock()

	p.retired(j, err, queued)
}

// work is the loop every worker runs until the pool closes.
func (p *Pool) work(workerID int) error {
	defer p.live.Add(-1)

	if p.conf.pinWorkers {
		release := cpu.Pin(p.id, workerID)
		defer release()
	}

	name := fmt.Sprintf("worker-%d", workerID)
	for {
		j, idx, ok := p.next()
		if !ok {
			grip.Debug(message.Fields{
				"message": "worker exiting",
				"pool":    p.id,
				"worker":  name,
			})
			return nil
		}

		if j.exec(idx) {
			p.retire(j)
		}
	}
}

// next blocks until the worker can claim an element or the pool closes.
// A worker that finds every queued batch fully claimed waits for the next
// submission rather than polling for completions it cannot help with.
func (p *Pool) next() (job, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		if p.closed {
			return nil, 0, false
		}
		if j, idx, ok := p.queue.claim(); ok {
			return j, idx, true
		}
		p.cond.Wait()
	}
}

// retire removes a batch that a worker just moved into its terminal state.
func (p *Pool) retire(j job) {
	p.mu.Lock()
	p.queue.remove(j)
	queued := p.queue.len()
	p.mu.Unlock()

	p.retired(j, j.outcome(), queued)
}

func (p *Pool) retired(j job, err error, queued int) {
	p.stats.batchRetired(err)
	p.conf.metrics.batchRetired(queued, err)

	msg := message.Fields{
		"message": "batch finished",
		"pool":    p.id,
		"batch":   j.seq(),
		"size":    j.size(),
		"queued":  queued,
	}
	switch {
	case err == nil:
		grip.Debug(msg)
	case IsInterrupted(err):
		msg["message"] = "batch abandoned"
		msg["error"] = err.Error()
		grip.Debug(msg)
	default:
		// the caller gets the error back from Map
		msg["message"] = "batch failed"
		msg["error"] = err.Error()
		grip.Debug(msg)
	}
}

func (p *Pool) elementCompleted(d time.Duration) {
	p.stats.elementCompleted(d)
	p.conf.metrics.elementCompleted(d)
}
