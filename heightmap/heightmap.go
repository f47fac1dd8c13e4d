// Package heightmap holds the elevation grid shared by every generator and
// the operations applied to it after generation.
package heightmap

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrDegenerateRange is returned when a constant heightmap is rescaled.
	ErrDegenerateRange = errors.New("degenerate range")
	// ErrNonFinite is returned when a rescale would read or produce NaN or Inf.
	ErrNonFinite = errors.New("non-finite values")
)

// Heightmap is a row-major grid of elevation samples.
type Heightmap struct {
	Width  int
	Height int
	Data   []float64 // Data[y*Width+x]
}

// New allocates a zeroed heightmap.
func New(width, height int) *Heightmap {
	return &Heightmap{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}
}

// At returns the sample at column x, row y.
func (h *Heightmap) At(x, y int) float64 {
	return h.Data[y*h.Width+x]
}

// Set writes the sample at column x, row y.
func (h *Heightmap) Set(x, y int, v float64) {
	h.Data[y*h.Width+x] = v
}

// Row returns row y as a slice aliasing the underlying data.
func (h *Heightmap) Row(y int) []float64 {
	return h.Data[y*h.Width : (y+1)*h.Width]
}

// Clone returns a deep copy.
func (h *Heightmap) Clone() *Heightmap {
	c := New(h.Width, h.Height)
	copy(c.Data, h.Data)
	return c
}

// Bounds returns the global minimum and maximum sample.
func (h *Heightmap) Bounds() (lo, hi float64) {
	if len(h.Data) == 0 {
		return 0, 0
	}
	return floats.Min(h.Data), floats.Max(h.Data)
}

// HasNonFinite reports whether any sample is NaN or infinite.
func (h *Heightmap) HasNonFinite() bool {
	for _, v := range h.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// Uint8 truncates every sample into a byte, clamping to [0, 255].
// Intended for heightmaps already normalized to [0, 255].
func (h *Heightmap) Uint8() []uint8 {
	out := make([]uint8, len(h.Data))
	for i, v := range h.Data {
		switch {
		case v <= 0 || math.IsNaN(v):
			out[i] = 0
		case v >= 255:
			out[i] = 255
		default:
			out[i] = uint8(v)
		}
	}
	return out
}

// Truncate drops the fractional part of every sample in place.
func (h *Heightmap) Truncate() {
	for i, v := range h.Data {
		h.Data[i] = math.Trunc(v)
	}
}

// Normalize linearly rescales h into [targetMin, targetMax] using its global
// min and max. The input is left untouched.
func Normalize(h *Heightmap, targetMin, targetMax float64) (*Heightmap, error) {
	if len(h.Data) == 0 {
		return nil, fmt.Errorf("normalize %dx%d heightmap: %w", h.Width, h.Height, ErrDegenerateRange)
	}
	if math.IsNaN(targetMin) || math.IsInf(targetMin, 0) || math.IsNaN(targetMax) || math.IsInf(targetMax, 0) {
		return nil, fmt.Errorf("normalize into [%g, %g]: %w", targetMin, targetMax, ErrNonFinite)
	}
	if h.HasNonFinite() {
		return nil, fmt.Errorf("normalize %dx%d heightmap: %w", h.Width, h.Height, ErrNonFinite)
	}
	lo, hi := h.Bounds()
	if math.IsInf(hi-lo, 0) {
		return nil, fmt.Errorf("normalize span [%g, %g]: %w", lo, hi, ErrNonFinite)
	}
	if hi == lo {
		return nil, fmt.Errorf("normalize constant heightmap (value %g): %w", lo, ErrDegenerateRange)
	}

	out := New(h.Width, h.Height)
	span := hi - lo
	target := targetMax - targetMin
	for i, v := range h.Data {
		out.Data[i] = targetMin + (v-lo)/span*target
	}
	return out, nil
}
