package rng

import (
	"math/rand"
	"sync"
)

// seededSource implements Source using a seeded math/rand generator.
// A mutex guards the underlying *rand.Rand, which is not concurrency-safe.
//
// Invariant: two seededSources created with the same seed produce identical
// value sequences, making whole simulations replayable.
type seededSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeededSource returns a deterministic Source seeded with seed.
//
// Postcondition: the returned Source yields the same sequence for the same seed.
func NewSeededSource(seed int64) Source {
	return &seededSource{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a random int in [0, n).
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" otherwise.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// Float64 returns a random float64 in [0, 1).
func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}
