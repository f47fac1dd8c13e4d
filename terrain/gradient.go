package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/heightfield/heightmap"
)

// Lattice selects how gradient vectors are assigned to lattice points.
type Lattice string

const (
	// LatticeCached draws one gradient per lattice point per octave, so
	// neighbouring cells share corner gradients and the field is continuous.
	LatticeCached Lattice = "cached"
	// LatticeFresh draws a new gradient on every corner lookup. Adjacent cells
	// disagree at shared corners, producing visible cell seams.
	LatticeFresh Lattice = "fresh"
)

// GradientNoise is Perlin-style lattice noise composited over octaves, then
// rescaled and blurred.
type GradientNoise struct {
	Width       int
	Height      int
	Scale       float64 // Lattice cell size in samples for the first octave
	Octaves     int
	Persistence float64
	Lacunarity  float64 // Octave i uses cell size Scale*Lacunarity^i
	RangeMax    float64 // Composite is rescaled to [0, RangeMax] and truncated
	BlurSigma   float64 // Gaussian post-blur; 0 disables it
	Lattice     Lattice
}

// Name implements Strategy.
func (g GradientNoise) Name() string { return NameGradient }

// Dims implements Strategy.
func (g GradientNoise) Dims() (int, int) { return g.Width, g.Height }

// Validate implements Strategy.
func (g GradientNoise) Validate() error {
	if err := checkDims(NameGradient, g.Width, g.Height); err != nil {
		return err
	}
	if err := checkPositive(NameGradient, "scale", g.Scale); err != nil {
		return err
	}
	if err := checkOctaves(NameGradient, g.Octaves, g.Persistence); err != nil {
		return err
	}
	if err := checkPositive(NameGradient, "lacunarity", g.Lacunarity); err != nil {
		return err
	}
	if err := checkPositive(NameGradient, "range_max", g.RangeMax); err != nil {
		return err
	}
	if err := checkNonNegative(NameGradient, "blur_sigma", g.BlurSigma); err != nil {
		return err
	}
	switch g.Lattice {
	case LatticeCached, LatticeFresh, "":
	default:
		return invalidParam(NameGradient, "lattice", g.Lattice, "must be cached or fresh")
	}
	return nil
}

// Generate implements Strategy.
func (g GradientNoise) Generate(rng *RNG) (*heightmap.Heightmap, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	acc := heightmap.New(g.Width, g.Height)
	amplitude := 1.0
	total := 0.0

	for i := 0; i < g.Octaves; i++ {
		octave := g.octave(rng, g.Scale*math.Pow(g.Lacunarity, float64(i)))
		for k, v := range octave.Data {
			acc.Data[k] += v * amplitude
		}
		total += amplitude
		amplitude *= g.Persistence
	}
	for k := range acc.Data {
		acc.Data[k] /= total
	}

	out, err := heightmap.Normalize(acc, 0, g.RangeMax)
	if err != nil {
		return nil, err
	}
	out.Truncate()
	return heightmap.GaussianBlur(out, g.BlurSigma), nil
}

// octave evaluates a single noise layer with the given cell size.
func (g GradientNoise) octave(rng *RNG, scale float64) *heightmap.Heightmap {
	hm := heightmap.New(g.Width, g.Height)
	grads := newGradientSource(rng, g.Lattice)

	for i := 0; i < g.Width; i++ {
		for j := 0; j < g.Height; j++ {
			x := float64(i) / scale
			y := float64(j) / scale

			x0 := int(math.Floor(x))
			y0 := int(math.Floor(y))
			x1, y1 := x0+1, y0+1
			tx := x - float64(x0)
			ty := y - float64(y0)

			g00 := grads.at(x0, y0)
			g01 := grads.at(x0, y1)
			g10 := grads.at(x1, y0)
			g11 := grads.at(x1, y1)

			sx := Smoothstep(tx)
			v1 := lerp(g00.Dot(mgl64.Vec2{tx, ty}), g10.Dot(mgl64.Vec2{tx - 1, ty}), sx)
			v2 := lerp(g01.Dot(mgl64.Vec2{tx, ty - 1}), g11.Dot(mgl64.Vec2{tx - 1, ty - 1}), sx)
			hm.Set(i, j, lerp(v1, v2, Smoothstep(ty)))
		}
	}
	return hm
}

// gradientSource hands out unit gradient vectors for lattice points.
type gradientSource struct {
	rng   *RNG
	cache map[[2]int]mgl64.Vec2 // nil in fresh mode
}

func newGradientSource(rng *RNG, lattice Lattice) *gradientSource {
	gs := &gradientSource{rng: rng}
	if lattice != LatticeFresh {
		gs.cache = make(map[[2]int]mgl64.Vec2)
	}
	return gs
}

func (gs *gradientSource) at(x, y int) mgl64.Vec2 {
	if gs.cache == nil {
		return gs.draw()
	}
	key := [2]int{x, y}
	if v, ok := gs.cache[key]; ok {
		return v
	}
	v := gs.draw()
	gs.cache[key] = v
	return v
}

func (gs *gradientSource) draw() mgl64.Vec2 {
	angle := gs.rng.Angle()
	return mgl64.Vec2{math.Cos(angle), math.Sin(angle)}
}
