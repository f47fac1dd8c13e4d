package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pthm-cable/heightfield/config"
	"github.com/pthm-cable/heightfield/export"
	"github.com/pthm-cable/heightfield/telemetry"
	"github.com/pthm-cable/heightfield/terrain"
)

// Options configures a pipeline.
type Options struct {
	Seed      int64
	LogStats  bool
	ExportDir string // Images and profile CSVs (empty = no export)
	OutputDir string // CSV logs and config snapshot (empty = disabled)
	BMP       bool   // Also write indexed BMPs
}

// Pipeline runs strategies and records their telemetry.
type Pipeline struct {
	cfg  *config.Config
	opts Options

	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.RunStats)
}

// New creates a pipeline. The output directory, if set, is created and
// receives a snapshot of cfg.
func New(cfg *config.Config, opts Options) (*Pipeline, error) {
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	return &Pipeline{
		cfg:           cfg,
		opts:          opts,
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		outputManager: om,
	}, nil
}

// SetStatsCallback registers fn to receive every run record.
func (p *Pipeline) SetStatsCallback(fn func(telemetry.RunStats)) {
	p.statsCallback = fn
}

// Run builds the named strategy and exports its outputs.
func (p *Pipeline) Run(name string) (*Result, error) {
	s, err := terrain.New(name, p.cfg)
	if err != nil {
		return nil, err
	}

	p.perfCollector.StartRun()
	start := time.Now()
	res, err := Build(p.cfg, s, p.opts.Seed, p.perfCollector.StartPhase)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	elapsed := time.Since(start)

	p.perfCollector.StartPhase(telemetry.PhaseExport)
	files, err := p.export(res)
	p.perfCollector.EndRun()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	stats := telemetry.NewRunStats(name, p.opts.Seed, res.Draws, res.Raw, elapsed)
	p.recordRun(stats, files)
	return res, nil
}

// RunAll runs each named strategy, continuing past failures. The returned
// error joins every failure.
func (p *Pipeline) RunAll(names []string) ([]*Result, error) {
	var results []*Result
	var errs []error
	for _, name := range names {
		res, err := p.Run(name)
		if err != nil {
			slog.Error("generation failed", "strategy", name, "error", err)
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// export writes the image files for a result and returns their paths.
func (p *Pipeline) export(res *Result) ([]string, error) {
	dir := p.opts.ExportDir
	if dir == "" {
		return nil, nil
	}

	img, err := res.Image(p.cfg)
	if err != nil {
		return nil, err
	}

	pngPath := filepath.Join(dir, res.Strategy+".png")
	if err := export.WritePNG(pngPath, img); err != nil {
		return nil, err
	}
	files := []string{pngPath}

	if res.Points != nil {
		csvPath := filepath.Join(dir, res.Strategy+".csv")
		if err := export.WritePointsCSV(csvPath, res.Points); err != nil {
			return files, err
		}
		files = append(files, csvPath)
	}

	if p.opts.BMP {
		bmpPath := filepath.Join(dir, res.Strategy+".bmp")
		if err := export.WriteBMP(bmpPath, export.Paletted(img, p.cfg.Export.BMPColors)); err != nil {
			return files, err
		}
		files = append(files, bmpPath)
	}
	return files, nil
}

// recordRun logs and persists a run record.
func (p *Pipeline) recordRun(stats telemetry.RunStats, files []string) {
	if p.statsCallback != nil {
		p.statsCallback(stats)
	}

	if p.opts.LogStats {
		slog.Info("generated heightmap", "run", stats, "files", files)
	}

	if err := p.outputManager.WriteRun(stats); err != nil {
		slog.Error("failed to write run", "error", err)
	}
}

// PerfStats returns timing statistics over recent runs.
func (p *Pipeline) PerfStats() telemetry.PerfStats {
	return p.perfCollector.Stats()
}

// Close writes the performance summary and closes output files.
func (p *Pipeline) Close() error {
	perfStats := p.perfCollector.Stats()
	if p.opts.LogStats && perfStats.Runs > 0 {
		slog.Info("performance", "perf", perfStats)
	}
	if err := p.outputManager.WritePerf(perfStats, "all"); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	return p.outputManager.Close()
}
