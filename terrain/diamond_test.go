package terrain

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/heightfield/heightmap"
)

func TestDiamondSquareGridSizeValidation(t *testing.T) {
	tests := []struct {
		size  int
		valid bool
	}{
		{0, false},
		{1, false},
		{2, false},
		{3, true},
		{4, false},
		{5, true},
		{9, true},
		{10, false},
		{129, true},
		{256, false},
		{257, true},
	}

	for _, tt := range tests {
		d := DiamondSquare{Size: tt.size, InitialScale: 10}
		hm, err := d.Generate(NewRNG(1))
		if tt.valid {
			if err != nil {
				t.Errorf("size %d: unexpected error %v", tt.size, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidGridSize) {
			t.Errorf("size %d: expected ErrInvalidGridSize, got %v", tt.size, err)
		}
		if hm != nil {
			t.Errorf("size %d: expected no partial result", tt.size)
		}
	}
}

func TestDiamondSquareNegativeScale(t *testing.T) {
	_, err := DiamondSquare{Size: 5, InitialScale: -1}.Generate(NewRNG(1))
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestDiamondSquareBounded(t *testing.T) {
	for _, size := range []int{3, 5, 17, 65, 257} {
		const initial = 1000.0
		hm, err := DiamondSquare{Size: size, InitialScale: initial}.Generate(NewRNG(10))
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if hm.Width != size || hm.Height != size {
			t.Fatalf("size %d: got %dx%d", size, hm.Width, hm.Height)
		}
		if hm.HasNonFinite() {
			t.Errorf("size %d: found NaN or Inf", size)
		}
		for i, v := range hm.Data {
			if math.Abs(v) > 2*initial {
				t.Errorf("size %d: sample %d = %v outside ±%v", size, i, v, 2*initial)
				break
			}
		}
	}
}

func TestDiamondSquareDeterministic(t *testing.T) {
	d := DiamondSquare{Size: 33, InitialScale: 50}
	a, err := d.Generate(NewRNG(99))
	if err != nil {
		t.Fatal(err)
	}
	b, err := d.Generate(NewRNG(99))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a.Data[i], b.Data[i])
		}
	}

	c, err := d.Generate(NewRNG(100))
	if err != nil {
		t.Fatal(err)
	}
	same := true
	for i := range a.Data {
		if a.Data[i] != c.Data[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical output")
	}
}

func TestDiamondSquareEndToEnd(t *testing.T) {
	hm, err := DiamondSquare{Size: 5, InitialScale: 10}.Generate(NewRNG(1))
	if err != nil {
		t.Fatal(err)
	}
	if hm.Width != 5 || hm.Height != 5 {
		t.Fatalf("got %dx%d, want 5x5", hm.Width, hm.Height)
	}

	for _, c := range [][2]int{{0, 0}, {4, 0}, {0, 4}, {4, 4}} {
		if v := hm.At(c[0], c[1]); v != 0 {
			t.Errorf("corner %v = %v, want 0", c, v)
		}
	}

	out, err := heightmap.Normalize(hm, 0, 255)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	lo, hi := out.Bounds()
	if lo != 0 || hi != 255 {
		t.Errorf("normalized bounds = [%v, %v], want [0, 255]", lo, hi)
	}
}

func TestDiamondSquareDrawCount(t *testing.T) {
	rng := NewRNG(1)
	if _, err := (DiamondSquare{Size: 5, InitialScale: 1}).Generate(rng); err != nil {
		t.Fatal(err)
	}
	// Level 1 (step 4): 1 diamond + 4 square. Level 2 (step 2): 4 diamond + 12 square.
	if rng.Draws() != 21 {
		t.Errorf("draws = %d, want 21", rng.Draws())
	}
}
