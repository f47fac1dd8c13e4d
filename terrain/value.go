package terrain

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/heightfield/heightmap"
)

// ValueNoise sums independent uniform grids with geometrically decaying
// weights. Octaves change amplitude only: no lattice interpolation is done,
// so every sample is independent at every octave.
type ValueNoise struct {
	Width       int
	Height      int
	Octaves     int
	Persistence float64
}

// Name implements Strategy.
func (v ValueNoise) Name() string { return NameValueNoise }

// Dims implements Strategy.
func (v ValueNoise) Dims() (int, int) { return v.Width, v.Height }

// Validate implements Strategy.
func (v ValueNoise) Validate() error {
	if err := checkDims(NameValueNoise, v.Width, v.Height); err != nil {
		return err
	}
	return checkOctaves(NameValueNoise, v.Octaves, v.Persistence)
}

// Generate implements Strategy. The result spans exactly [-1, 1].
func (v ValueNoise) Generate(rng *RNG) (*heightmap.Heightmap, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}

	acc := heightmap.New(v.Width, v.Height)
	octave := make([]float64, len(acc.Data))
	weight := 1.0

	for o := 0; o < v.Octaves; o++ {
		for i := range octave {
			// Remap [0,1) to [-1,1)
			octave[i] = rng.Float64()*2 - 1
		}
		floats.AddScaled(acc.Data, weight, octave)
		weight *= v.Persistence
	}

	return heightmap.Normalize(acc, -1, 1)
}
