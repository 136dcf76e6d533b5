package pool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors a Pool reports to.
type Metrics struct {
	BatchesSubmitted  prometheus.Counter
	BatchesCompleted  prometheus.Counter
	BatchesFailed     prometheus.Counter
	ElementsCompleted prometheus.Counter
	QueuedBatches     prometheus.Gauge
	ElementLatency    prometheus.Histogram
}

// NewMetrics creates the pool collectors and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	const subsystem = "pool"

	m := &Metrics{
		BatchesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batches_submitted_total",
			Help:      "Total number of batches submitted with Map",
		}),
		BatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batches_completed_total",
			Help:      "Total number of batches whose every element was computed",
		}),
		BatchesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batches_failed_total",
			Help:      "Total number of batches that failed or were abandoned",
		}),
		ElementsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "elements_completed_total",
			Help:      "Total number of elements computed successfully",
		}),
		QueuedBatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queued_batches",
			Help:      "Number of batches currently in the queue",
		}),
		ElementLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "element_latency_seconds",
			Help:      "Histogram of element computation latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.BatchesSubmitted,
		m.BatchesCompleted,
		m.BatchesFailed,
		m.ElementsCompleted,
		m.QueuedBatches,
		m.ElementLatency,
	)
	return m
}

func (m *Metrics) batchSubmitted(queued int) {
	if m == nil {
		return
	}
	m.BatchesSubmitted.Inc()
	m.QueuedBatches.Set(float64(queued))
}

func (m *Metrics) batchRetired(queued int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.BatchesFailed.Inc()
	} else {
		m.BatchesCompleted.Inc()
	}
	m.QueuedBatches.Set(float64(queued))
}

func (m *Metrics) elementCompleted(d time.Duration) {
	if m == nil {
		return
	}
	m.ElementsCompleted.Inc()
	m.ElementLatency.Observe(d.Seconds())
}
