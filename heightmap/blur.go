package heightmap

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// blurTruncate is the kernel half-width in standard deviations.
const blurTruncate = 4.0

// GaussianKernel returns a normalized 1-D Gaussian kernel of radius
// int(4*sigma + 0.5).
func GaussianKernel(sigma float64) []float64 {
	radius := int(blurTruncate*sigma + 0.5)
	kernel := make([]float64, 2*radius+1)
	for i := range kernel {
		x := float64(i - radius)
		kernel[i] = math.Exp(-0.5 * x * x / (sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel
}

// GaussianBlur returns a copy of h smoothed by a separable Gaussian filter.
// Edges use half-sample symmetric reflection (d c b a | a b c d | d c b a).
// A sigma of zero returns an unmodified copy.
func GaussianBlur(h *Heightmap, sigma float64) *Heightmap {
	if sigma <= 0 || len(h.Data) == 0 {
		return h.Clone()
	}
	kernel := GaussianKernel(sigma)
	radius := len(kernel) / 2

	// Horizontal pass
	tmp := New(h.Width, h.Height)
	for y := 0; y < h.Height; y++ {
		row := h.Row(y)
		for x := 0; x < h.Width; x++ {
			var sum float64
			for k, w := range kernel {
				sum += w * row[reflect(x+k-radius, h.Width)]
			}
			tmp.Set(x, y, sum)
		}
	}

	// Vertical pass
	out := New(h.Width, h.Height)
	for y := 0; y < h.Height; y++ {
		for x := 0; x < h.Width; x++ {
			var sum float64
			for k, w := range kernel {
				sum += w * tmp.At(x, reflect(y+k-radius, h.Height))
			}
			out.Set(x, y, sum)
		}
	}
	return out
}

// reflect maps an out-of-range index back into [0, n).
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i - 1
	}
	return i
}
