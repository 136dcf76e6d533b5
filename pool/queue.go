package pool

// batchQueue is the FIFO of batches that have not reached a terminal state.
// It is not safe for concurrent use; the pool guards it with its mutex.
type batchQueue struct {
	items []job
}

func (q *batchQueue) len() int { return len(q.items) }

func (q *batchQueue) push(j job) {
	q.items = append(q.items, j)
}

// claim returns the next unclaimed index of the oldest batch that still has
// one. Newer batches are only looked at once every older batch is fully
// claimed.
func (q *batchQueue) claim() (job, int, bool) {
	for _, j := range q.items {
		if idx, ok := j.claim(); ok {
			return j, idx, true
		}
	}
	return nil, 0, false
}

// remove drops j from the queue, reporting whether it was present.
func (q *batchQueue) remove(j job) bool {
	for i, item := range q.items {
		if item == j {
			copy(q.items[i:], q.items[i+1:])
			q.items[len(q.items)-1] = nil
			q.items = q.items[:len(q.items)-1]
			return true
		}
	}
	return false
}

// drain empties the queue and returns what it held, oldest first.
func (q *batchQueue) drain() []job {
	items := q.items
	q.items = nil
	return items
}
