// Package export writes heightmaps and profiles to image and CSV files.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/pthm-cable/heightfield/heightmap"
)

// Gray converts a heightmap normalized to [0, 255] into a grayscale image.
// Samples are clamped and truncated.
func Gray(h *heightmap.Heightmap) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, h.Width, h.Height))
	copy(img.Pix, h.Uint8())
	return img
}

// Upscale enlarges img by an integer factor with nearest-neighbour sampling,
// keeping each sample a crisp block. Factors below 2 return img unchanged.
func Upscale(img *image.Gray, factor int) *image.Gray {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// toGray flattens any image to 8-bit luminance.
func toGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// WritePNG encodes img as PNG, creating parent directories as needed.
func WritePNG(path string, img image.Image) error {
	return writeFile(path, func(f *os.File) error { return png.Encode(f, img) })
}

func writeFile(path string, encode func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
