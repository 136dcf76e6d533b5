package pool

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/utkarsh5026/batchpool/pool"

// Option is a functional option for configuring a Pool.
type Option func(*poolConfig)

type poolConfig struct {
	rateLimiter *rate.Limiter
	pinWorkers  bool
	metrics     *Metrics
	tracer      trace.Tracer
}

func newPoolConfig(opts ...Option) *poolConfig {
	cfg := &poolConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer(tracerName)
	}
	return cfg
}

// WithRateLimit sets a rate limiter for controlling element throughput.
// perSecond specifies the maximum number of element computations per second
// across all workers, burst the number that may run back to back.
// If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 elements/sec with burst of 5
func WithRateLimit(perSecond float64, burst int) Option {
	return func(cfg *poolConfig) {
		if perSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithCPUAffinity locks every worker goroutine to its own OS thread and, where
// the platform supports it, pins that thread to core (workerID % NumCPU).
func WithCPUAffinity() Option {
	return func(cfg *poolConfig) {
		cfg.pinWorkers = true
	}
}

// WithMetrics makes the pool report to the given Prometheus collectors.
// A nil value disables metrics.
func WithMetrics(m *Metrics) Option {
	return func(cfg *poolConfig) {
		cfg.metrics = m
	}
}

// WithTracer sets the tracer used to open a span around every Map call.
// Defaults to the globally registered OpenTelemetry tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(cfg *poolConfig) {
		if t != nil {
			cfg.tracer = t
		}
	}
}
