package pool

import "testing"

// fakeJob hands out a fixed number of claims.
type fakeJob struct {
	id      int64
	n       int
	claimed int
}

func (f *fakeJob) seq() int64        { return f.id }
func (f *fakeJob) setID(id int64)    { f.id = id }
func (f *fakeJob) exec(int) bool     { return false }
func (f *fakeJob) finish(error) bool { return true }
func (f *fakeJob) outcome() error    { return nil }
func (f *fakeJob) size() int         { return f.n }

func (f *fakeJob) claim() (int, bool) {
	if f.claimed >= f.n {
		return 0, false
	}
	f.claimed++
	return f.claimed - 1, true
}

func TestBatchQueue(t *testing.T) {
	t.Run("claims drain the oldest batch first", func(t *testing.T) {
		var q batchQueue
		a := &fakeJob{id: 1, n: 2}
		b := &fakeJob{id: 2, n: 1}
		q.push(a)
		q.push(b)

		want := []struct {
			id  int64
			idx int
		}{{1, 0}, {1, 1}, {2, 0}}
		for i, w := range want {
			j, idx, ok := q.claim()
			if !ok {
				t.Fatalf("claim %d: expected work", i)
			}
			if j.seq() != w.id || idx != w.idx {
				t.Errorf("claim %d: expected batch %d index %d, got batch %d index %d", i, w.id, w.idx, j.seq(), idx)
			}
		}

		if _, _, ok := q.claim(); ok {
			t.Error("expected no work once every batch is fully claimed")
		}
		if q.len() != 2 {
			t.Errorf("fully claimed batches stay queued until removed, got len %d", q.len())
		}
	})

	t.Run("remove keeps order", func(t *testing.T) {
		var q batchQueue
		jobs := []*fakeJob{{id: 1, n: 1}, {id: 2, n: 1}, {id: 3, n: 1}}
		for _, j := range jobs {
			q.push(j)
		}

		if !q.remove(jobs[1]) {
			t.Fatal("expected job 2 to be removed")
		}
		if q.remove(jobs[1]) {
			t.Error("removing twice should report false")
		}

		drained := q.drain()
		if len(drained) != 2 || drained[0].seq() != 1 || drained[1].seq() != 3 {
			t.Errorf("unexpected queue contents after remove: %v", drained)
		}
		if q.len() != 0 {
			t.Errorf("drain should empty the queue, got len %d", q.len())
		}
	})

	t.Run("empty queue has no work", func(t *testing.T) {
		var q batchQueue
		if _, _, ok := q.claim(); ok {
			t.Error("empty queue should have no work")
		}
		if q.remove(&fakeJob{}) {
			t.Error("remove on empty queue should report false")
		}
		if len(q.drain()) != 0 {
			t.Error("drain on empty queue should return nothing")
		}
	})
}
