package terrain

import (
	"fmt"

	"github.com/pthm-cable/heightfield/config"
)

// Registered strategy names.
const (
	NameDiamondSquare = "diamond-square"
	NameMidpoint      = "midpoint"
	NameValueNoise    = "value"
	NameGradient      = "gradient"
	NameSimplex       = "simplex"
	NamePerlin        = "perlin"
)

// Names lists every registered strategy in display order.
var Names = []string{
	NameDiamondSquare,
	NameMidpoint,
	NameValueNoise,
	NameGradient,
	NameSimplex,
	NamePerlin,
}

// New builds the named strategy from its configuration section.
func New(name string, cfg *config.Config) (Strategy, error) {
	switch name {
	case NameDiamondSquare:
		c := cfg.DiamondSquare
		return DiamondSquare{Size: c.Size, InitialScale: c.InitialScale}, nil

	case NameMidpoint:
		c := cfg.Midpoint
		points := make([]Point2D, len(c.StartPoints))
		for i, p := range c.StartPoints {
			points[i] = Point2D{X: p.X, Y: p.Y}
		}
		return MidpointDisplacement{
			StartPoints: points,
			Iterations:  c.Iterations,
			RandValue:   c.RandValue,
			Roughness:   c.Roughness,
		}, nil

	case NameValueNoise:
		c := cfg.ValueNoise
		return ValueNoise{
			Width:       c.Width,
			Height:      c.Height,
			Octaves:     c.Octaves,
			Persistence: c.Persistence,
		}, nil

	case NameGradient:
		c := cfg.Gradient
		return GradientNoise{
			Width:       c.Width,
			Height:      c.Height,
			Scale:       c.Scale,
			Octaves:     c.Octaves,
			Persistence: c.Persistence,
			Lacunarity:  c.Lacunarity,
			RangeMax:    c.RangeMax,
			BlurSigma:   c.BlurSigma,
			Lattice:     Lattice(c.Lattice),
		}, nil

	case NameSimplex:
		c := cfg.Simplex
		return SimplexNoise{
			Width:       c.Width,
			Height:      c.Height,
			Scale:       c.Scale,
			Octaves:     c.Octaves,
			Persistence: c.Persistence,
			Lacunarity:  c.Lacunarity,
		}, nil

	case NamePerlin:
		c := cfg.Perlin
		return PerlinNoise{
			Width:  c.Width,
			Height: c.Height,
			Scale:  c.Scale,
			Alpha:  c.Alpha,
			Beta:   c.Beta,
			N:      c.N,
		}, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownStrategy)
}

