package terrain

import (
	"github.com/pthm-cable/heightfield/heightmap"
)

// DiamondSquare generates a square fractal heightmap by alternating diamond
// and square midpoint passes with displacement halved every level.
type DiamondSquare struct {
	Size         int     // Grid side, must be 2^k+1
	InitialScale float64 // Displacement magnitude before the first halving
}

// Name implements Strategy.
func (d DiamondSquare) Name() string { return NameDiamondSquare }

// Dims implements Strategy.
func (d DiamondSquare) Dims() (int, int) { return d.Size, d.Size }

// Validate implements Strategy.
func (d DiamondSquare) Validate() error {
	n := d.Size - 1
	if n < 2 || n&(n-1) != 0 {
		return invalidGridSize(d.Size)
	}
	return checkNonNegative(NameDiamondSquare, "initial_scale", d.InitialScale)
}

// Generate implements Strategy. Corners are never written and stay zero.
func (d DiamondSquare) Generate(rng *RNG) (*heightmap.Heightmap, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	size := d.Size
	hm := heightmap.New(size, size)
	step := size - 1
	scale := d.InitialScale

	for step > 1 {
		half := step / 2
		scale *= 0.5

		diamondStep(hm, size, half, step, scale, rng)
		squareStep(hm, size, half, step, scale, rng)
		step /= 2
	}
	return hm, nil
}

// diamondStep sets each square centre to the mean of its diagonal corners.
func diamondStep(hm *heightmap.Heightmap, size, half, step int, scale float64, rng *RNG) {
	for y := half; y < size; y += step {
		for x := half; x < size; x += step {
			avg := (hm.At(x-half, y-half) +
				hm.At(x-half, y+half) +
				hm.At(x+half, y-half) +
				hm.At(x+half, y+half)) * 0.25
			hm.Set(x, y, avg+rng.Uniform(-scale, scale))
		}
	}
}

// squareStep sets each edge midpoint to the mean of its axis neighbours.
// Indices wrap modulo size-1, so the grid is treated as a torus whose first
// and last rows/columns coincide.
func squareStep(hm *heightmap.Heightmap, size, half, step int, scale float64, rng *RNG) {
	wrap := size - 1
	for y := 0; y < size; y += half {
		for x := (y + half) % step; x < size; x += step {
			avg := (hm.At(x, (y-half+wrap)%wrap) +
				hm.At(x, (y+half)%wrap) +
				hm.At((x+half)%wrap, y) +
				hm.At((x-half+wrap)%wrap, y)) * 0.25
			hm.Set(x, y, avg+rng.Uniform(-scale, scale))
		}
	}
}
