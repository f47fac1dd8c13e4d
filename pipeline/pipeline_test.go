package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/heightfield/config"
	"github.com/pthm-cable/heightfield/heightmap"
	"github.com/pthm-cable/heightfield/telemetry"
	"github.com/pthm-cable/heightfield/terrain"
)

// smallConfig shrinks every strategy so a full run stays quick.
func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.DiamondSquare.Size = 33
	cfg.Midpoint.Iterations = 6
	cfg.Midpoint.ImageWidth, cfg.Midpoint.ImageHeight = 64, 16
	cfg.Gradient.Width, cfg.Gradient.Height = 32, 32
	cfg.Simplex.Width, cfg.Simplex.Height = 32, 32
	cfg.Perlin.Width, cfg.Perlin.Height = 32, 32
	return cfg
}

func TestBuildNormalizesToConfiguredRange(t *testing.T) {
	cfg := smallConfig(t)
	s, err := terrain.New(terrain.NameDiamondSquare, cfg)
	if err != nil {
		t.Fatal(err)
	}

	var phases []string
	res, err := Build(cfg, s, 10, func(p string) { phases = append(phases, p) })
	if err != nil {
		t.Fatal(err)
	}

	lo, hi := res.Normalized.Bounds()
	if lo != 0 || hi != 255 {
		t.Errorf("normalized bounds = [%v, %v], want [0, 255]", lo, hi)
	}
	if res.Draws == 0 {
		t.Error("expected RNG draws to be recorded")
	}
	want := []string{telemetry.PhaseGenerate, telemetry.PhaseNormalize}
	if strings.Join(phases, ",") != strings.Join(want, ",") {
		t.Errorf("phases = %v, want %v", phases, want)
	}
}

func TestBuildProfileKeepsPoints(t *testing.T) {
	cfg := smallConfig(t)
	s, _ := terrain.New(terrain.NameMidpoint, cfg)

	res, err := Build(cfg, s, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Points) != 65 {
		t.Fatalf("got %d points, want 65", len(res.Points))
	}
	if res.Raw.Width != 65 || res.Raw.Height != 1 {
		t.Errorf("raw %dx%d, want 65x1", res.Raw.Width, res.Raw.Height)
	}

	img, err := res.Image(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 16 {
		t.Errorf("profile image %v, want 64x16", img.Bounds())
	}
}

func TestBuildInvalidParams(t *testing.T) {
	cfg := smallConfig(t)
	_, err := Build(cfg, terrain.ValueNoise{Width: 4, Height: 4}, 1, nil)
	if !errors.Is(err, terrain.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestBuildRejectsNonFiniteConfig(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		strategy string
		want     error
	}{
		{"nan gradient scale", "gradient:\n  scale: .nan\n", terrain.NameGradient, terrain.ErrInvalidParams},
		{"inf midpoint rand value", "midpoint:\n  rand_value: .inf\n", terrain.NameMidpoint, terrain.ErrInvalidParams},
		{"nan midpoint roughness", "midpoint:\n  roughness: .nan\n", terrain.NameMidpoint, terrain.ErrInvalidParams},
		{"nan simplex persistence", "simplex:\n  persistence: .nan\n", terrain.NameSimplex, terrain.ErrInvalidParams},
		{"inf diamond scale", "diamond_square:\n  initial_scale: .inf\n", terrain.NameDiamondSquare, terrain.ErrInvalidParams},
		{"nan normalize max", "normalize:\n  max: .nan\n", terrain.NameValueNoise, heightmap.ErrNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := config.Load(path)
			if err != nil {
				t.Fatal(err)
			}
			s, err := terrain.New(tt.strategy, cfg)
			if err != nil {
				t.Fatal(err)
			}
			res, err := Build(cfg, s, 1, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if res != nil {
				t.Error("expected no partial result")
			}
		})
	}
}

func TestImageRescalesNonByteRange(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Normalize.Min, cfg.Normalize.Max = -1, 1
	cfg.Derived.ByteOutput = false
	cfg.Export.Upscale = 2
	s, _ := terrain.New(terrain.NameValueNoise, cfg)

	res, err := Build(cfg, s, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	img, err := res.Image(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 40 {
		t.Errorf("upscaled width = %d, want 40", img.Bounds().Dx())
	}
	var lo, hi uint8 = 255, 0
	for _, v := range img.Pix {
		lo, hi = min(lo, v), max(hi, v)
	}
	if lo != 0 || hi != 255 {
		t.Errorf("pixel range = [%d, %d], want [0, 255]", lo, hi)
	}
}

func TestRunAllWritesOutputs(t *testing.T) {
	cfg := smallConfig(t)
	exportDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "logs")

	p, err := New(cfg, Options{Seed: 10, ExportDir: exportDir, OutputDir: outputDir, BMP: true})
	if err != nil {
		t.Fatal(err)
	}

	var runs []telemetry.RunStats
	p.SetStatsCallback(func(s telemetry.RunStats) { runs = append(runs, s) })

	results, err := p.RunAll(terrain.Names)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(terrain.Names) || len(runs) != len(terrain.Names) {
		t.Fatalf("got %d results and %d runs, want %d", len(results), len(runs), len(terrain.Names))
	}
	if p.PerfStats().Runs != len(terrain.Names) {
		t.Errorf("perf runs = %d, want %d", p.PerfStats().Runs, len(terrain.Names))
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range terrain.Names {
		for _, ext := range []string{".png", ".bmp"} {
			if _, err := os.Stat(filepath.Join(exportDir, name+ext)); err != nil {
				t.Errorf("missing %s%s: %v", name, ext, err)
			}
		}
	}
	if _, err := os.Stat(filepath.Join(exportDir, terrain.NameMidpoint+".csv")); err != nil {
		t.Errorf("missing profile CSV: %v", err)
	}
	for _, f := range []string{"runs.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(outputDir, f)); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}
}

func TestRunAllContinuesPastFailures(t *testing.T) {
	cfg := smallConfig(t)
	cfg.DiamondSquare.Size = 30

	p, err := New(cfg, Options{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	results, err := p.RunAll([]string{terrain.NameDiamondSquare, "voronoi", terrain.NameValueNoise})
	if len(results) != 1 || results[0].Strategy != terrain.NameValueNoise {
		t.Fatalf("unexpected results %v", results)
	}
	if !errors.Is(err, terrain.ErrInvalidGridSize) {
		t.Errorf("expected ErrInvalidGridSize in %v", err)
	}
	if !errors.Is(err, terrain.ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy in %v", err)
	}
}

func TestRunDeterministic(t *testing.T) {
	cfg := smallConfig(t)
	p, err := New(cfg, Options{Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	a, err := p.Run(terrain.NameGradient)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Run(terrain.NameGradient)
	if err != nil {
		t.Fatal(err)
	}
	if !sameData(a.Normalized, b.Normalized) {
		t.Error("same seed produced different heightmaps")
	}
}

func sameData(a, b *heightmap.Heightmap) bool {
	if len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}
