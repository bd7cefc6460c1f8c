package slamutil

import (
	"math/rand"
	"sync"
)

// RNGPool is the process-wide deterministic PRNG described in spec.md §5 and
// §9: a single shared source for serial callers, with Split deriving
// independent sub-streams for a parallel particle loop so results stay
// reproducible regardless of worker scheduling.
type RNGPool struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRNGPool builds a pool seeded deterministically from seed.
func NewRNGPool(seed int64) *RNGPool {
	return &RNGPool{src: rand.New(rand.NewSource(seed))}
}

// Rand returns the pool's shared source, safe for serial (non-concurrent)
// use only. Concurrent callers must use Split instead.
func (p *RNGPool) Rand() *rand.Rand {
	return p.src
}

// Float64 draws one uniform sample from the shared stream under lock.
func (p *RNGPool) Float64() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.src.Float64()
}

// NormFloat64 draws one N(0,1) sample from the shared stream under lock.
func (p *RNGPool) NormFloat64() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.src.NormFloat64()
}

// Split derives n independent *rand.Rand sub-streams, each seeded from the
// shared pool under lock. Workers in the parallel particle loop each take
// one sub-stream so the whole step stays deterministic under a fixed seed
// regardless of goroutine scheduling order.
func (p *RNGPool) Split(n int) []*rand.Rand {
	p.mu.Lock()
	defer p.mu.Unlock()

	streams := make([]*rand.Rand, n)
	for i := 0; i < n; i++ {
		streams[i] = rand.New(rand.NewSource(p.src.Int63()))
	}
	return streams
}
