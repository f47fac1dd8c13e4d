package terrain

import (
	"fmt"
	"math"

	"github.com/pthm-cable/heightfield/heightmap"
)

// Point2D is a polyline vertex.
type Point2D struct {
	X float64 `csv:"x" yaml:"x"`
	Y float64 `csv:"y" yaml:"y"`
}

// MidpointDisplacement refines a 1-D terrain profile by repeatedly inserting
// randomly displaced midpoints between neighbouring vertices.
type MidpointDisplacement struct {
	StartPoints []Point2D
	Iterations  int
	RandValue   float64 // Initial displacement magnitude
	Roughness   float64 // 0 keeps the magnitude, 1 halves it every pass
}

// Name implements Strategy.
func (m MidpointDisplacement) Name() string { return NameMidpoint }

// Dims implements Strategy. The profile is a single row.
func (m MidpointDisplacement) Dims() (int, int) {
	if m.Validate() != nil {
		return len(m.StartPoints), 1
	}
	return (len(m.StartPoints)-1)<<m.Iterations + 1, 1
}

const (
	maxMidpointIterations = 26
	// maxMidpointSegments caps (points-1) * 2^iterations, the number of
	// segments in the refined profile.
	maxMidpointSegments = 1 << 26
)

// Validate implements Strategy.
func (m MidpointDisplacement) Validate() error {
	return validateMidpoint(m.StartPoints, m.Iterations, m.RandValue, m.Roughness)
}

// Generate implements Strategy. The heightmap holds the Y values of the
// refined profile, one column per vertex.
func (m MidpointDisplacement) Generate(rng *RNG) (*heightmap.Heightmap, error) {
	points, err := m.Profile(rng)
	if err != nil {
		return nil, err
	}
	return ProfileHeights(points), nil
}

// Profile runs the refinement and returns the polyline itself.
func (m MidpointDisplacement) Profile(rng *RNG) ([]Point2D, error) {
	return Displace(rng, m.StartPoints, m.Iterations, m.RandValue, m.Roughness)
}

// ProfileHeights packs the Y values of a polyline into a single-row heightmap.
func ProfileHeights(points []Point2D) *heightmap.Heightmap {
	hm := heightmap.New(len(points), 1)
	for i, p := range points {
		hm.Data[i] = p.Y
	}
	return hm
}

// Displace runs the refinement and returns the full polyline. With zero
// iterations a copy of points is returned. After n passes over m points the
// result holds (m-1)*2^n + 1 vertices, all with Y >= 0.
func Displace(rng *RNG, points []Point2D, iterations int, randValue, roughness float64) ([]Point2D, error) {
	if err := validateMidpoint(points, iterations, randValue, roughness); err != nil {
		return nil, err
	}

	cur := make([]Point2D, len(points), (len(points)-1)<<iterations+1)
	copy(cur, points)
	next := make([]Point2D, 0, cap(cur))
	decay := math.Pow(2, -roughness)

	for ; iterations > 0; iterations-- {
		next = append(next[:0], cur[0])
		for i := 0; i < len(cur)-1; i++ {
			a, b := cur[i], cur[i+1]
			midX := (a.X + b.X) / 2
			midY := (a.Y+b.Y)/2 + rng.Uniform(-randValue, randValue)
			if midY < 0 {
				midY = 0
			}
			next = append(next, Point2D{X: midX, Y: midY}, b)
		}
		cur, next = next, cur
		randValue *= decay
	}

	out := make([]Point2D, len(cur))
	copy(out, cur)
	return out, nil
}

func validateMidpoint(points []Point2D, iterations int, randValue, roughness float64) error {
	if len(points) < 2 {
		return invalidParam(NameMidpoint, "start_points", len(points), "needs at least 2 points")
	}
	if iterations < 0 || iterations > maxMidpointIterations {
		return invalidParam(NameMidpoint, "iterations", iterations, "must be in [0, 26]")
	}
	if len(points)-1 > maxMidpointSegments>>iterations {
		return invalidParam(NameMidpoint, "start_points", len(points),
			fmt.Sprintf("too many for %d iterations (at most %d segments)", iterations, maxMidpointSegments))
	}
	if err := checkNonNegative(NameMidpoint, "rand_value", randValue); err != nil {
		return err
	}
	if err := checkNonNegative(NameMidpoint, "roughness", roughness); err != nil {
		return err
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return invalidParam(NameMidpoint, "start_points", p, "is not finite")
		}
		if p.Y < 0 {
			return invalidParam(NameMidpoint, "start_points", p, "has negative height")
		}
		if i > 0 && p.X <= points[i-1].X {
			return invalidParam(NameMidpoint, "start_points", p, "x is not strictly increasing")
		}
	}
	return nil
}
