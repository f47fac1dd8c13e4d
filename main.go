package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pthm-cable/heightfield/config"
	"github.com/pthm-cable/heightfield/pipeline"
	"github.com/pthm-cable/heightfield/terrain"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	strategy := flag.String("strategy", "all", "Strategy to run, comma-separated list, or 'all' ("+strings.Join(terrain.Names, ", ")+")")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, -1 = time-based)")
	exportDir := flag.String("export-dir", "", "Directory for heightmap images (empty = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	bmp := flag.Bool("bmp", false, "Also write indexed BMP heightmaps")
	logStats := flag.Bool("log-stats", false, "Output run stats via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := cfg.Seed
	switch {
	case *seed == -1:
		rngSeed = time.Now().UnixNano()
	case *seed != 0:
		rngSeed = *seed
	}

	names := terrain.Names
	if *strategy != "all" {
		names = strings.Split(*strategy, ",")
	}

	dir := cfg.Export.Dir
	if *exportDir != "" {
		dir = *exportDir
	}

	p, err := pipeline.New(cfg, pipeline.Options{
		Seed:      rngSeed,
		LogStats:  *logStats || cfg.Telemetry.LogStats,
		ExportDir: dir,
		OutputDir: *outputDir,
		BMP:       *bmp || cfg.Export.BMP,
	})
	if err != nil {
		slog.Error("failed to create pipeline", "error", err)
		os.Exit(1)
	}

	slog.Info("starting generation",
		"seed", rngSeed,
		"strategies", names,
		"export_dir", dir,
	)

	_, runErr := p.RunAll(names)
	if err := p.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
