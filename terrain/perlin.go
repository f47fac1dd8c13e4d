package terrain

import (
	"github.com/aquilax/go-perlin"

	"github.com/pthm-cable/heightfield/heightmap"
)

// PerlinNoise samples classic permutation-table Perlin noise. It serves as a
// reference against GradientNoise and is rescaled to [0, 1].
type PerlinNoise struct {
	Width  int
	Height int
	Scale  float64
	Alpha  float64 // Weight divisor between octaves; higher is smoother
	Beta   float64 // Frequency multiplier between octaves
	N      int32   // Octave count
}

// Name implements Strategy.
func (p PerlinNoise) Name() string { return NamePerlin }

// Dims implements Strategy.
func (p PerlinNoise) Dims() (int, int) { return p.Width, p.Height }

// Validate implements Strategy.
func (p PerlinNoise) Validate() error {
	if err := checkDims(NamePerlin, p.Width, p.Height); err != nil {
		return err
	}
	if err := checkPositive(NamePerlin, "scale", p.Scale); err != nil {
		return err
	}
	if p.N < 1 {
		return invalidParam(NamePerlin, "n", p.N, "must be >= 1")
	}
	if err := checkPositive(NamePerlin, "alpha", p.Alpha); err != nil {
		return err
	}
	return checkPositive(NamePerlin, "beta", p.Beta)
}

// Generate implements Strategy.
func (p PerlinNoise) Generate(rng *RNG) (*heightmap.Heightmap, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	noise := perlin.NewPerlin(p.Alpha, p.Beta, p.N, rng.Seed())
	hm := heightmap.New(p.Width, p.Height)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			hm.Set(x, y, noise.Noise2D(float64(x)/p.Scale, float64(y)/p.Scale))
		}
	}

	return heightmap.Normalize(hm, 0, 1)
}
