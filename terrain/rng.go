package terrain

import (
	"math"
	"math/rand"
)

// RNG is the seeded random source threaded through a generation run.
// It is not safe for concurrent use; give each run its own RNG.
type RNG struct {
	seed  int64
	rng   *rand.Rand
	draws uint64
}

// NewRNG creates a random source seeded with seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the source was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Draws returns how many values have been drawn so far.
func (r *RNG) Draws() uint64 {
	return r.draws
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 {
	r.draws++
	return r.rng.Float64()
}

// Uniform returns a uniform value in [min, max).
func (r *RNG) Uniform(min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// Angle returns a uniform angle in [0, 2π).
func (r *RNG) Angle() float64 {
	return r.Uniform(0, 2*math.Pi)
}
