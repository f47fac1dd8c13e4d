package terrain

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/heightfield/heightmap"
)

func TestSmoothstep(t *testing.T) {
	if Smoothstep(0) != 0 {
		t.Errorf("Smoothstep(0) = %v, want 0", Smoothstep(0))
	}
	if Smoothstep(1) != 1 {
		t.Errorf("Smoothstep(1) = %v, want 1", Smoothstep(1))
	}
	if Smoothstep(0.5) != 0.5 {
		t.Errorf("Smoothstep(0.5) = %v, want 0.5", Smoothstep(0.5))
	}
	prev := Smoothstep(0)
	for i := 1; i <= 1000; i++ {
		v := Smoothstep(float64(i) / 1000)
		if v < prev {
			t.Fatalf("not monotonic at t=%v: %v < %v", float64(i)/1000, v, prev)
		}
		prev = v
	}
}

func TestValueNoiseSingleOctaveIsRemappedGrid(t *testing.T) {
	v := ValueNoise{Width: 6, Height: 3, Octaves: 1, Persistence: 0.5}
	got, err := v.Generate(NewRNG(4))
	if err != nil {
		t.Fatal(err)
	}

	rng := NewRNG(4)
	grid := heightmap.New(6, 3)
	for i := range grid.Data {
		grid.Data[i] = rng.Float64()*2 - 1
	}
	want, err := heightmap.Normalize(grid, -1, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want.Data {
		if got.Data[i] != want.Data[i] {
			t.Errorf("sample %d = %v, want %v", i, got.Data[i], want.Data[i])
		}
	}
}

func TestValueNoiseEndToEnd(t *testing.T) {
	hm, err := ValueNoise{Width: 4, Height: 4, Octaves: 1, Persistence: 0.5}.Generate(NewRNG(1))
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := hm.Bounds()
	if lo != -1 || hi != 1 {
		t.Errorf("bounds = [%v, %v], want [-1, 1]", lo, hi)
	}
}

func TestValueNoiseOctavesDrawIndependentGrids(t *testing.T) {
	rng := NewRNG(1)
	if _, err := (ValueNoise{Width: 5, Height: 4, Octaves: 6, Persistence: 0.5}).Generate(rng); err != nil {
		t.Fatal(err)
	}
	if rng.Draws() != 5*4*6 {
		t.Errorf("draws = %d, want %d", rng.Draws(), 5*4*6)
	}
}

func TestValueNoiseDegenerate(t *testing.T) {
	_, err := ValueNoise{Width: 1, Height: 1, Octaves: 3, Persistence: 0.5}.Generate(NewRNG(1))
	if !errors.Is(err, heightmap.ErrDegenerateRange) {
		t.Errorf("expected ErrDegenerateRange for a single sample, got %v", err)
	}
}

func defaultGradient() GradientNoise {
	return GradientNoise{
		Width:       40,
		Height:      30,
		Scale:       8,
		Octaves:     3,
		Persistence: 0.5,
		Lacunarity:  2,
		RangeMax:    1000,
		BlurSigma:   2.5,
		Lattice:     LatticeCached,
	}
}

func TestGradientNoiseRangeAndDeterminism(t *testing.T) {
	for _, lattice := range []Lattice{LatticeCached, LatticeFresh} {
		t.Run(string(lattice), func(t *testing.T) {
			g := defaultGradient()
			g.Lattice = lattice

			a, err := g.Generate(NewRNG(10))
			if err != nil {
				t.Fatal(err)
			}
			b, err := g.Generate(NewRNG(10))
			if err != nil {
				t.Fatal(err)
			}
			if a.Width != 40 || a.Height != 30 {
				t.Fatalf("got %dx%d, want 40x30", a.Width, a.Height)
			}
			for i := range a.Data {
				if a.Data[i] != b.Data[i] {
					t.Fatalf("sample %d differs between runs", i)
				}
				if a.Data[i] < 0 || a.Data[i] > 1000 {
					t.Fatalf("sample %d = %v outside [0, 1000]", i, a.Data[i])
				}
			}
		})
	}
}

func TestGradientNoiseUnblurredIsIntegral(t *testing.T) {
	g := defaultGradient()
	g.BlurSigma = 0
	hm, err := g.Generate(NewRNG(3))
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := hm.Bounds()
	if lo != 0 || hi != 1000 {
		t.Errorf("bounds = [%v, %v], want [0, 1000]", lo, hi)
	}
	for i, v := range hm.Data {
		if v != math.Trunc(v) {
			t.Fatalf("sample %d = %v is not truncated", i, v)
		}
	}
}

func TestGradientLatticeDrawCounts(t *testing.T) {
	g := defaultGradient()
	g.Octaves = 1
	g.Width, g.Height, g.Scale = 16, 8, 4

	cached := NewRNG(1)
	if _, err := g.Generate(cached); err != nil {
		t.Fatal(err)
	}
	// x spans lattice 0..4, y spans 0..2: one draw per lattice point
	if cached.Draws() != 5*3 {
		t.Errorf("cached draws = %d, want 15", cached.Draws())
	}

	g.Lattice = LatticeFresh
	fresh := NewRNG(1)
	if _, err := g.Generate(fresh); err != nil {
		t.Fatal(err)
	}
	if fresh.Draws() != 16*8*4 {
		t.Errorf("fresh draws = %d, want %d", fresh.Draws(), 16*8*4)
	}
}

func TestGradientCachedSmootherThanFresh(t *testing.T) {
	g := defaultGradient()
	g.Width, g.Height = 64, 64

	roughness := func(lattice Lattice) float64 {
		g.Lattice = lattice
		octave := g.octave(NewRNG(8), 8)
		var sum float64
		for j := 0; j < g.Height; j++ {
			for i := 1; i < g.Width; i++ {
				sum += math.Abs(octave.At(i, j) - octave.At(i-1, j))
			}
		}
		return sum
	}

	cached, fresh := roughness(LatticeCached), roughness(LatticeFresh)
	if cached >= fresh {
		t.Errorf("cached lattice roughness %v not below fresh %v", cached, fresh)
	}
}

func TestSimplexNoiseNormalized(t *testing.T) {
	s := SimplexNoise{Width: 50, Height: 40, Scale: 25, Octaves: 4, Persistence: 0.5, Lacunarity: 2}
	rng := NewRNG(10)
	a, err := s.Generate(rng)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := a.Bounds()
	if lo != 0 || hi != 1 {
		t.Errorf("bounds = [%v, %v], want [0, 1]", lo, hi)
	}
	if rng.Draws() != 0 {
		t.Errorf("simplex drew %d values from the RNG", rng.Draws())
	}

	b, _ := s.Generate(NewRNG(10))
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("sample %d differs between runs", i)
		}
	}
}

func TestPerlinNoiseNormalized(t *testing.T) {
	p := PerlinNoise{Width: 32, Height: 32, Scale: 10, Alpha: 2, Beta: 2, N: 3}
	hm, err := p.Generate(NewRNG(10))
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := hm.Bounds()
	if lo != 0 || hi != 1 {
		t.Errorf("bounds = [%v, %v], want [0, 1]", lo, hi)
	}
}

func TestInvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
	}{
		{"value zero octaves", ValueNoise{Width: 4, Height: 4, Octaves: 0, Persistence: 0.5}},
		{"value zero persistence", ValueNoise{Width: 4, Height: 4, Octaves: 1, Persistence: 0}},
		{"value zero width", ValueNoise{Width: 0, Height: 4, Octaves: 1, Persistence: 0.5}},
		{"gradient zero scale", func() Strategy { g := defaultGradient(); g.Scale = 0; return g }()},
		{"gradient negative persistence", func() Strategy { g := defaultGradient(); g.Persistence = -1; return g }()},
		{"gradient zero lacunarity", func() Strategy { g := defaultGradient(); g.Lacunarity = 0; return g }()},
		{"gradient negative sigma", func() Strategy { g := defaultGradient(); g.BlurSigma = -1; return g }()},
		{"gradient bad lattice", func() Strategy { g := defaultGradient(); g.Lattice = "hashed"; return g }()},
		{"simplex zero scale", SimplexNoise{Width: 4, Height: 4, Scale: 0, Octaves: 1, Persistence: 0.5, Lacunarity: 2}},
		{"simplex zero octaves", SimplexNoise{Width: 4, Height: 4, Scale: 1, Octaves: 0, Persistence: 0.5, Lacunarity: 2}},
		{"perlin zero n", PerlinNoise{Width: 4, Height: 4, Scale: 1, Alpha: 2, Beta: 2, N: 0}},
		{"midpoint one point", MidpointDisplacement{StartPoints: []Point2D{{0, 0}}, Iterations: 1}},
		{"value nan persistence", ValueNoise{Width: 4, Height: 4, Octaves: 1, Persistence: math.NaN()}},
		{"value inf persistence", ValueNoise{Width: 4, Height: 4, Octaves: 1, Persistence: math.Inf(1)}},
		{"gradient nan scale", func() Strategy { g := defaultGradient(); g.Scale = math.NaN(); return g }()},
		{"gradient inf scale", func() Strategy { g := defaultGradient(); g.Scale = math.Inf(1); return g }()},
		{"gradient nan lacunarity", func() Strategy { g := defaultGradient(); g.Lacunarity = math.NaN(); return g }()},
		{"gradient inf range", func() Strategy { g := defaultGradient(); g.RangeMax = math.Inf(1); return g }()},
		{"gradient nan sigma", func() Strategy { g := defaultGradient(); g.BlurSigma = math.NaN(); return g }()},
		{"simplex nan persistence", SimplexNoise{Width: 4, Height: 4, Scale: 1, Octaves: 1, Persistence: math.NaN(), Lacunarity: 2}},
		{"simplex inf lacunarity", SimplexNoise{Width: 4, Height: 4, Scale: 1, Octaves: 1, Persistence: 0.5, Lacunarity: math.Inf(1)}},
		{"perlin nan alpha", PerlinNoise{Width: 4, Height: 4, Scale: 1, Alpha: math.NaN(), Beta: 2, N: 1}},
		{"perlin inf beta", PerlinNoise{Width: 4, Height: 4, Scale: 1, Alpha: 2, Beta: math.Inf(1), N: 1}},
		{"perlin nan scale", PerlinNoise{Width: 4, Height: 4, Scale: math.NaN(), Alpha: 2, Beta: 2, N: 1}},
		{"diamond nan scale", DiamondSquare{Size: 9, InitialScale: math.NaN()}},
		{"diamond inf scale", DiamondSquare{Size: 9, InitialScale: math.Inf(1)}},
		{"midpoint nan roughness", MidpointDisplacement{StartPoints: flatLine, Iterations: 2, RandValue: 0.25, Roughness: math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm, err := tt.strategy.Generate(NewRNG(1))
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
			if hm != nil {
				t.Error("expected no partial result")
			}
		})
	}
}
