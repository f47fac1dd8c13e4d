package export

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png" // PNG decoder for ConvertDir
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// DefaultColors is the palette size used by the BMP converter.
const DefaultColors = 8

// Paletted reduces img to an adaptive grayscale palette of at most colors
// entries. Gray levels are split into buckets holding roughly equal pixel
// counts, and each bucket is represented by its mean level.
func Paletted(img image.Image, colors int) *image.Paletted {
	if colors < 1 {
		colors = DefaultColors
	}
	if colors > 256 {
		colors = 256
	}
	gray := toGray(img)

	var hist [256]int
	for _, v := range gray.Pix {
		hist[v]++
	}
	total := len(gray.Pix)

	// Assign each level to the bucket its cumulative midpoint falls in.
	var bucket [256]int
	var sum, weight [256]float64
	cum := 0
	for level, n := range hist {
		if n == 0 {
			continue
		}
		b := (2*cum + n) * colors / (2 * total)
		if b >= colors {
			b = colors - 1
		}
		bucket[level] = b
		sum[b] += float64(level * n)
		weight[b] += float64(n)
		cum += n
	}

	// Drop empty buckets so the palette only holds used entries.
	index := make([]uint8, colors)
	palette := make(color.Palette, 0, colors)
	for b := 0; b < colors; b++ {
		if weight[b] == 0 {
			continue
		}
		index[b] = uint8(len(palette))
		palette = append(palette, color.Gray{Y: uint8(sum[b]/weight[b] + 0.5)})
	}
	if len(palette) == 0 {
		palette = append(palette, color.Gray{})
	}

	out := image.NewPaletted(image.Rect(0, 0, gray.Rect.Dx(), gray.Rect.Dy()), palette)
	for y := 0; y < gray.Rect.Dy(); y++ {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+gray.Rect.Dx()]
		dst := out.Pix[y*out.Stride : y*out.Stride+out.Rect.Dx()]
		for x, v := range src {
			dst[x] = index[bucket[v]]
		}
	}
	return out
}

// WriteBMP encodes img as BMP, creating parent directories as needed.
func WriteBMP(path string, img image.Image) error {
	return writeFile(path, func(f *os.File) error { return bmp.Encode(f, img) })
}

// ConvertDir converts every PNG file in inDir into an indexed BMP of the same
// base name in outDir. Files that are not PNG images are skipped. It returns
// the paths written.
func ConvertDir(inDir, outDir string, colors int) ([]string, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", inDir, err)
	}

	var written []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		img, ok := decodePNG(filepath.Join(inDir, e.Name()))
		if !ok {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())) + ".bmp"
		out := filepath.Join(outDir, name)
		if err := WriteBMP(out, Paletted(img, colors)); err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}

// decodePNG sniffs the file content rather than trusting the extension.
func decodePNG(path string) (image.Image, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil || format != "png" {
		return nil, false
	}
	return img, true
}
