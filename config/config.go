// Package config provides configuration loading and access for heightmap generation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all generation configuration parameters.
type Config struct {
	Seed          int64               `yaml:"seed"`
	Normalize     NormalizeConfig     `yaml:"normalize"`
	DiamondSquare DiamondSquareConfig `yaml:"diamond_square"`
	Midpoint      MidpointConfig      `yaml:"midpoint"`
	ValueNoise    ValueNoiseConfig    `yaml:"value_noise"`
	Gradient      GradientConfig      `yaml:"gradient"`
	Simplex       SimplexConfig       `yaml:"simplex"`
	Perlin        PerlinConfig        `yaml:"perlin"`
	Export        ExportConfig        `yaml:"export"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Server        ServerConfig        `yaml:"server"`
	Preview       PreviewConfig       `yaml:"preview"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// NormalizeConfig is the output range applied after generation.
type NormalizeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// DiamondSquareConfig holds diamond-square parameters.
type DiamondSquareConfig struct {
	Size         int     `yaml:"size"`          // Must be 2^k+1
	InitialScale float64 `yaml:"initial_scale"` // Displacement before the first halving
}

// PointConfig is a polyline vertex.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// MidpointConfig holds midpoint displacement parameters.
type MidpointConfig struct {
	StartPoints []PointConfig `yaml:"start_points"`
	Iterations  int           `yaml:"iterations"`
	RandValue   float64       `yaml:"rand_value"` // Initial displacement magnitude
	Roughness   float64       `yaml:"roughness"`  // Decay exponent: rand_value *= 2^-roughness
	ImageWidth  int           `yaml:"image_width"`
	ImageHeight int           `yaml:"image_height"`
}

// ValueNoiseConfig holds value noise parameters.
type ValueNoiseConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
}

// GradientConfig holds gradient (Perlin-style) noise parameters.
type GradientConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Scale       float64 `yaml:"scale"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
	RangeMax    float64 `yaml:"range_max"`  // Pre-blur rescale ceiling
	BlurSigma   float64 `yaml:"blur_sigma"` // 0 disables the blur
	Lattice     string  `yaml:"lattice"`    // "cached" or "fresh"
}

// SimplexConfig holds simplex noise parameters.
type SimplexConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Scale       float64 `yaml:"scale"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
}

// PerlinConfig holds reference Perlin parameters.
type PerlinConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
	Alpha  float64 `yaml:"alpha"`
	Beta   float64 `yaml:"beta"`
	N      int32   `yaml:"n"`
}

// ExportConfig holds image output settings.
type ExportConfig struct {
	Dir       string `yaml:"dir"`
	BMP       bool   `yaml:"bmp"`        // Also write an indexed-palette BMP
	BMPColors int    `yaml:"bmp_colors"` // Palette size for BMP output
	Upscale   int    `yaml:"upscale"`    // Integer upscale factor for images
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int  `yaml:"perf_window"`
	LogStats   bool `yaml:"log_stats"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	MaxCells int    `yaml:"max_cells"` // Largest width*height served per request
}

// PreviewConfig holds terminal preview dimensions.
type PreviewConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	NormalizeSpan float64 // Normalize.Max - Normalize.Min
	ByteOutput    bool    // Normalize range is [0, 255]
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.NormalizeSpan = c.Normalize.Max - c.Normalize.Min
	c.Derived.ByteOutput = c.Normalize.Min == 0 && c.Normalize.Max == 255

	if c.Export.BMPColors <= 0 {
		c.Export.BMPColors = 8
	}
	if c.Export.Upscale < 1 {
		c.Export.Upscale = 1
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 32
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
