// Package terrain implements the heightmap generation strategies.
//
// Every strategy draws randomness only from the RNG passed to Generate, so a
// run is reproducible from its seed. Parameters are validated before any
// allocation and no partial result is ever returned.
package terrain

import (
	"github.com/pthm-cable/heightfield/heightmap"
)

// Strategy generates a raw heightmap from a seeded random source.
type Strategy interface {
	// Name returns the registry name of the strategy.
	Name() string
	// Dims returns the width and height of the heightmap Generate produces.
	Dims() (width, height int)
	// Validate reports parameter errors without generating anything.
	Validate() error
	// Generate produces a new heightmap. Output is raw unless the algorithm
	// defines its own rescale.
	Generate(rng *RNG) (*heightmap.Heightmap, error)
}

// Smoothstep is the cubic ease curve t²(3-2t).
func Smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return (1-t)*a + t*b
}
