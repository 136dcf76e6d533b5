package chunked

import (
	"github.com/utkarsh5026/batchpool/pool"
)

// Option configures a single chunked operation.
type Option func(*config)

type config struct {
	pool     *pool.Pool
	poolOpts []pool.Option
}

func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithPool runs the operation on p instead of a temporary pool.
// The operation never closes p.
func WithPool(p *pool.Pool) Option {
	return func(cfg *config) {
		cfg.pool = p
	}
}

// WithPoolOptions sets the options used to build the temporary pool.
// They are ignored when WithPool is also given.
func WithPoolOptions(opts ...pool.Option) Option {
	return func(cfg *config) {
		cfg.poolOpts = append(cfg.poolOpts, opts...)
	}
}

// acquire returns the pool to run on and a release function that closes it
// only if this call created it.
func (cfg *config) acquire(threads int) (*pool.Pool, func() error, error) {
	if cfg.pool != nil {
		return cfg.pool, func() error { return nil }, nil
	}

	p, err := pool.New(threads, cfg.poolOpts...)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}
