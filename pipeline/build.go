// Package pipeline runs generation strategies end to end: generate,
// normalize, export, and record telemetry.
package pipeline

import (
	"image"

	"github.com/pthm-cable/heightfield/config"
	"github.com/pthm-cable/heightfield/export"
	"github.com/pthm-cable/heightfield/heightmap"
	"github.com/pthm-cable/heightfield/telemetry"
	"github.com/pthm-cable/heightfield/terrain"
)

// Result holds everything produced for one strategy run.
type Result struct {
	Strategy   string
	Seed       int64
	Raw        *heightmap.Heightmap // Generator output
	Normalized *heightmap.Heightmap // Raw rescaled to the configured range
	Points     []terrain.Point2D    // Polyline, for profile strategies only
	Draws      uint64
}

// profiler is implemented by strategies whose natural output is a polyline.
type profiler interface {
	Profile(rng *terrain.RNG) ([]terrain.Point2D, error)
}

// Build generates and normalizes one heightmap. phase, if non-nil, is called
// as each stage begins.
func Build(cfg *config.Config, s terrain.Strategy, seed int64, phase func(string)) (*Result, error) {
	if phase == nil {
		phase = func(string) {}
	}
	rng := terrain.NewRNG(seed)
	res := &Result{Strategy: s.Name(), Seed: seed}

	phase(telemetry.PhaseGenerate)
	if p, ok := s.(profiler); ok {
		points, err := p.Profile(rng)
		if err != nil {
			return nil, err
		}
		res.Points = points
		res.Raw = terrain.ProfileHeights(points)
	} else {
		raw, err := s.Generate(rng)
		if err != nil {
			return nil, err
		}
		res.Raw = raw
	}
	res.Draws = rng.Draws()

	phase(telemetry.PhaseNormalize)
	norm, err := heightmap.Normalize(res.Raw, cfg.Normalize.Min, cfg.Normalize.Max)
	if err != nil {
		return nil, err
	}
	res.Normalized = norm
	return res, nil
}

// Image renders the result as an 8-bit image. Profiles are rasterized at the
// configured midpoint image size; grids are upscaled by export.upscale.
func (r *Result) Image(cfg *config.Config) (*image.Gray, error) {
	if r.Points != nil {
		return export.Profile(r.Points, cfg.Midpoint.ImageWidth, cfg.Midpoint.ImageHeight)
	}

	gray := r.Normalized
	if !cfg.Derived.ByteOutput {
		var err error
		if gray, err = heightmap.Normalize(r.Raw, 0, 255); err != nil {
			return nil, err
		}
	}
	return export.Upscale(export.Gray(gray), cfg.Export.Upscale), nil
}
