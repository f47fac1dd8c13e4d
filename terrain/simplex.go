package terrain

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/heightfield/heightmap"
)

// SimplexNoise composites OpenSimplex samples over octaves. The primitive is
// seeded once per run from the RNG seed and draws nothing else from it.
type SimplexNoise struct {
	Width       int
	Height      int
	Scale       float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

// Name implements Strategy.
func (s SimplexNoise) Name() string { return NameSimplex }

// Dims implements Strategy.
func (s SimplexNoise) Dims() (int, int) { return s.Width, s.Height }

// Validate implements Strategy.
func (s SimplexNoise) Validate() error {
	if err := checkDims(NameSimplex, s.Width, s.Height); err != nil {
		return err
	}
	if err := checkPositive(NameSimplex, "scale", s.Scale); err != nil {
		return err
	}
	if err := checkOctaves(NameSimplex, s.Octaves, s.Persistence); err != nil {
		return err
	}
	return checkPositive(NameSimplex, "lacunarity", s.Lacunarity)
}

// Generate implements Strategy. The result is rescaled to [0, 1].
func (s SimplexNoise) Generate(rng *RNG) (*heightmap.Heightmap, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	noise := opensimplex.New(rng.Seed())
	hm := heightmap.New(s.Width, s.Height)

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			amplitude, frequency := 1.0, 1.0
			var value float64
			for o := 0; o < s.Octaves; o++ {
				sx := float64(x) / s.Scale * frequency
				sy := float64(y) / s.Scale * frequency
				value += noise.Eval2(sx, sy) * amplitude
				amplitude *= s.Persistence
				frequency *= s.Lacunarity
			}
			hm.Set(x, y, value)
		}
	}

	return heightmap.Normalize(hm, 0, 1)
}
