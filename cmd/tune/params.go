package main

import (
	"fmt"

	"github.com/pthm-cable/heightfield/config"
	"github.com/pthm-cable/heightfield/terrain"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound
	Get  func(*config.Config) float64
	Set  func(*config.Config, float64)
}

// ParamVector holds the set of tunable parameters for one strategy.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the continuous parameters of the named strategy.
func NewParamVector(strategy string) (*ParamVector, error) {
	switch strategy {
	case terrain.NameGradient:
		return &ParamVector{Specs: []ParamSpec{
			{Name: "scale", Path: "gradient.scale", Min: 4, Max: 64,
				Get: func(c *config.Config) float64 { return c.Gradient.Scale },
				Set: func(c *config.Config, v float64) { c.Gradient.Scale = v }},
			{Name: "persistence", Path: "gradient.persistence", Min: 0.2, Max: 0.9,
				Get: func(c *config.Config) float64 { return c.Gradient.Persistence },
				Set: func(c *config.Config, v float64) { c.Gradient.Persistence = v }},
			{Name: "lacunarity", Path: "gradient.lacunarity", Min: 1.5, Max: 3.0,
				Get: func(c *config.Config) float64 { return c.Gradient.Lacunarity },
				Set: func(c *config.Config, v float64) { c.Gradient.Lacunarity = v }},
			{Name: "blur_sigma", Path: "gradient.blur_sigma", Min: 0, Max: 5,
				Get: func(c *config.Config) float64 { return c.Gradient.BlurSigma },
				Set: func(c *config.Config, v float64) { c.Gradient.BlurSigma = v }},
		}}, nil

	case terrain.NameSimplex:
		return &ParamVector{Specs: []ParamSpec{
			{Name: "scale", Path: "simplex.scale", Min: 5, Max: 100,
				Get: func(c *config.Config) float64 { return c.Simplex.Scale },
				Set: func(c *config.Config, v float64) { c.Simplex.Scale = v }},
			{Name: "persistence", Path: "simplex.persistence", Min: 0.2, Max: 0.9,
				Get: func(c *config.Config) float64 { return c.Simplex.Persistence },
				Set: func(c *config.Config, v float64) { c.Simplex.Persistence = v }},
			{Name: "lacunarity", Path: "simplex.lacunarity", Min: 1.5, Max: 3.0,
				Get: func(c *config.Config) float64 { return c.Simplex.Lacunarity },
				Set: func(c *config.Config, v float64) { c.Simplex.Lacunarity = v }},
		}}, nil

	case terrain.NameValueNoise:
		return &ParamVector{Specs: []ParamSpec{
			{Name: "persistence", Path: "value_noise.persistence", Min: 0.1, Max: 0.9,
				Get: func(c *config.Config) float64 { return c.ValueNoise.Persistence },
				Set: func(c *config.Config, v float64) { c.ValueNoise.Persistence = v }},
		}}, nil

	case terrain.NameDiamondSquare:
		return &ParamVector{Specs: []ParamSpec{
			{Name: "initial_scale", Path: "diamond_square.initial_scale", Min: 1, Max: 2000,
				Get: func(c *config.Config) float64 { return c.DiamondSquare.InitialScale },
				Set: func(c *config.Config, v float64) { c.DiamondSquare.InitialScale = v }},
		}}, nil

	case terrain.NameMidpoint:
		return &ParamVector{Specs: []ParamSpec{
			{Name: "rand_value", Path: "midpoint.rand_value", Min: 0.01, Max: 1,
				Get: func(c *config.Config) float64 { return c.Midpoint.RandValue },
				Set: func(c *config.Config, v float64) { c.Midpoint.RandValue = v }},
			{Name: "roughness", Path: "midpoint.roughness", Min: 0, Max: 2,
				Get: func(c *config.Config) float64 { return c.Midpoint.Roughness },
				Set: func(c *config.Config, v float64) { c.Midpoint.Roughness = v }},
		}}, nil
	}
	return nil, fmt.Errorf("no tunable parameters for %q", strategy)
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].Set(cfg, v)
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Get(cfg)
	}
	return v
}
