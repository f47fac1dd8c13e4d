package export

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/pthm-cable/heightfield/terrain"
)

// ErrInvalidProfile is returned when a polyline or its image size cannot be
// rasterized.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile rasterizes a midpoint displacement polyline into a width x height
// silhouette: ground is white, sky is black. The X range of the points spans
// the image width and Y is scaled so the highest vertex touches the top row.
// Points must be finite with non-decreasing X, and the last X must exceed the
// first. Vertices sharing an X form a vertical step.
func Profile(points []terrain.Point2D, width, height int) (*image.Gray, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("profile has %d points, needs 2: %w", len(points), ErrInvalidProfile)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("profile image %dx%d: %w", width, height, ErrInvalidProfile)
	}

	yMax := 0.0
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return nil, fmt.Errorf("profile point %d %v is not finite: %w", i, p, ErrInvalidProfile)
		}
		if i > 0 && p.X < points[i-1].X {
			return nil, fmt.Errorf("profile point %d x=%g decreases: %w", i, p.X, ErrInvalidProfile)
		}
		yMax = math.Max(yMax, p.Y)
	}
	x0, x1 := points[0].X, points[len(points)-1].X
	if x1 <= x0 {
		return nil, fmt.Errorf("profile x range [%g, %g] is empty: %w", x0, x1, ErrInvalidProfile)
	}
	if yMax == 0 {
		yMax = 1
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	seg := 0
	for col := 0; col < width; col++ {
		x := x0
		if width > 1 {
			x = x0 + (x1-x0)*float64(col)/float64(width-1)
		}
		for seg < len(points)-2 && points[seg+1].X < x {
			seg++
		}
		a, b := points[seg], points[seg+1]
		y := b.Y
		if b.X > a.X {
			t := (x - a.X) / (b.X - a.X)
			y = a.Y + (b.Y-a.Y)*math.Max(0, math.Min(1, t))
		}

		top := height - 1 - int(y/yMax*float64(height-1))
		top = max(0, min(top, height))
		for row := top; row < height; row++ {
			img.Pix[row*img.Stride+col] = 255
		}
	}
	return img, nil
}
