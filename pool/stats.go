package pool

import (
	"sync"
	"time"

	"github.com/VividCortex/ewma"
)

// statsTracker accumulates the counters behind Pool.Stats.
type statsTracker struct {
	mu        sync.Mutex
	submitted int64
	completed int64
	failed    int64
	elements  int64
	latency   ewma.MovingAverage
}

func newStatsTracker() *statsTracker {
	return &statsTracker{latency: ewma.NewMovingAverage()}
}

func (s *statsTracker) batchSubmitted() {
	s.mu.Lock()
	s.submitted++
	s.mu.Unlock()
}

func (s *statsTracker) batchRetired(err error) {
	s.mu.Lock()
	if err != nil {
		s.failed++
	} else {
		s.completed++
	}
	s.mu.Unlock()
}

func (s *statsTracker) elementCompleted(d time.Duration) {
	s.mu.Lock()
	s.elements++
	s.latency.Add(float64(d))
	s.mu.Unlock()
}

func (s *statsTracker) fill(st *Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st.SubmittedBatches = s.submitted
	st.CompletedBatches = s.completed
	st.FailedBatches = s.failed
	st.CompletedElements = s.elements
	st.AvgElementLatency = time.Duration(s.latency.Value())
}
