package heightmap

import (
	"errors"
	"math"
	"testing"
)

func ramp(w, h int) *Heightmap {
	hm := New(w, h)
	for i := range hm.Data {
		hm.Data[i] = float64(i)*0.37 - 3
	}
	return hm
}

func TestNormalizeRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
	}{
		{"byte", 0, 255},
		{"signed unit", -1, 1},
		{"unit", 0, 1},
		{"inverted", 10, -10},
	}

	hm := ramp(7, 5)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Normalize(hm, tt.min, tt.max)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if out.Data[0] != tt.min {
				t.Errorf("first sample = %v, want %v", out.Data[0], tt.min)
			}
			if last := out.Data[len(out.Data)-1]; last != tt.max {
				t.Errorf("last sample = %v, want %v", last, tt.max)
			}
		})
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	hm := ramp(3, 3)
	before := hm.Clone()
	if _, err := Normalize(hm, 0, 255); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	for i := range hm.Data {
		if hm.Data[i] != before.Data[i] {
			t.Fatalf("input mutated at %d: %v != %v", i, hm.Data[i], before.Data[i])
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	hm := ramp(9, 4)
	hm.Data[5] = 40

	once, err := Normalize(hm, 0, 255)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	twice, err := Normalize(once, 0, 255)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	for i := range once.Data {
		if math.Abs(once.Data[i]-twice.Data[i]) > 1e-9 {
			t.Errorf("sample %d: %v != %v", i, once.Data[i], twice.Data[i])
		}
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	hm := New(4, 4)
	for i := range hm.Data {
		hm.Data[i] = 3.5
	}
	if _, err := Normalize(hm, 0, 255); !errors.Is(err, ErrDegenerateRange) {
		t.Errorf("expected ErrDegenerateRange, got %v", err)
	}
	if _, err := Normalize(New(0, 0), 0, 1); !errors.Is(err, ErrDegenerateRange) {
		t.Errorf("expected ErrDegenerateRange for empty heightmap, got %v", err)
	}
}

func TestNormalizeNonFinite(t *testing.T) {
	withSample := func(v float64) *Heightmap {
		hm := ramp(4, 4)
		hm.Data[6] = v
		return hm
	}

	tests := []struct {
		name     string
		hm       *Heightmap
		min, max float64
	}{
		{"nan sample", withSample(math.NaN()), 0, 1},
		{"inf sample", withSample(math.Inf(1)), 0, 1},
		{"negative inf sample", withSample(math.Inf(-1)), 0, 1},
		{"span overflows", &Heightmap{Width: 2, Height: 1, Data: []float64{-math.MaxFloat64, math.MaxFloat64}}, 0, 1},
		{"nan target", ramp(4, 4), 0, math.NaN()},
		{"inf target", ramp(4, 4), math.Inf(-1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Normalize(tt.hm, tt.min, tt.max)
			if !errors.Is(err, ErrNonFinite) {
				t.Errorf("expected ErrNonFinite, got %v", err)
			}
			if out != nil {
				t.Error("expected no partial result")
			}
		})
	}
}

func TestUint8Clamps(t *testing.T) {
	hm := &Heightmap{Width: 5, Height: 1, Data: []float64{-4, 0.9, 127.99, 255, 300}}
	got := hm.Uint8()
	want := []uint8{0, 0, 127, 255, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Uint8()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	k := GaussianKernel(2.5)
	if len(k) != 21 {
		t.Errorf("kernel length = %d, want 21", len(k))
	}
	var sum float64
	for i, w := range k {
		sum += w
		if math.Abs(w-k[len(k)-1-i]) > 1e-15 {
			t.Errorf("kernel not symmetric at %d", i)
		}
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("kernel sum = %v, want 1", sum)
	}
}

func TestGaussianBlurConstantField(t *testing.T) {
	hm := New(6, 4)
	for i := range hm.Data {
		hm.Data[i] = 42
	}
	out := GaussianBlur(hm, 2.5)
	for i, v := range out.Data {
		if math.Abs(v-42) > 1e-9 {
			t.Fatalf("sample %d = %v, want 42", i, v)
		}
	}
}

func TestGaussianBlurSmooths(t *testing.T) {
	hm := New(21, 21)
	hm.Set(10, 10, 1000)
	out := GaussianBlur(hm, 2.5)

	if out.At(10, 10) >= 1000 {
		t.Errorf("peak not reduced: %v", out.At(10, 10))
	}
	if out.At(10, 10) <= out.At(12, 10) {
		t.Errorf("expected peak to remain the maximum")
	}
	if math.Abs(out.At(8, 10)-out.At(12, 10)) > 1e-9 {
		t.Errorf("blur not symmetric: %v vs %v", out.At(8, 10), out.At(12, 10))
	}
}

func TestGaussianBlurZeroSigma(t *testing.T) {
	hm := ramp(3, 2)
	out := GaussianBlur(hm, 0)
	for i := range hm.Data {
		if out.Data[i] != hm.Data[i] {
			t.Fatalf("sample %d changed with sigma 0", i)
		}
	}
}

func TestReflect(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{-1, 4, 0},
		{-2, 4, 1},
		{-4, 4, 3},
		{-5, 4, 3},
		{4, 4, 3},
		{5, 4, 2},
		{2, 4, 2},
		{7, 1, 0},
	}
	for _, tt := range tests {
		if got := reflect(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
