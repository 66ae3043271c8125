// Package rng provides the randomness abstraction driving all probabilistic
// resolution in the engine: attack rolls, damage rolls, loot generation,
// and harvest checks.
package rng

import (
	"crypto/rand"
	"math/big"
)

// Source is the randomness provider for all engine rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float64 in [0, 1).
	Float64() float64
}

// cryptoSource implements Source using crypto/rand.
//
// Invariant: values produced are uniformly distributed in [0, n) for any n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" if n <= 0.
// Panics with "rng: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("rng: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// float64Denominator bounds Float64 precision to 53 bits, matching math/rand.
const float64Denominator = 1 << 53

// Float64 returns a cryptographically secure random float64 in [0, 1).
func (c *cryptoSource) Float64() float64 {
	val, err := rand.Int(rand.Reader, big.NewInt(float64Denominator))
	if err != nil {
		panic("rng: crypto/rand failure: " + err.Error())
	}
	return float64(val.Int64()) / float64Denominator
}

// Between returns a uniform random int in [min, max] inclusive.
//
// Precondition: src must be non-nil.
// Postcondition: min <= result <= max. When min >= max, returns min without
// consuming randomness.
func Between(src Source, min, max int) int {
	if min >= max {
		return min
	}
	return min + src.Intn(max-min+1)
}

// Chance reports whether a Bernoulli trial with probability p succeeds.
//
// Precondition: src must be non-nil.
// Postcondition: always false for p <= 0; always true for p >= 1.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}
