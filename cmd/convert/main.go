// Converts PNG heightmaps into indexed-palette BMPs.
//
// Usage: go run ./cmd/convert [-in dir] [-out dir] [-colors n]
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/heightfield/config"
	"github.com/pthm-cable/heightfield/export"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	inDir := flag.String("in", "", "Directory of PNG heightmaps (empty = export.dir from config)")
	outDir := flag.String("out", "Outputs/BMP_Heightmaps", "Directory for BMP output")
	colors := flag.Int("colors", 0, "Palette size (0 = export.bmp_colors from config)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *inDir == "" {
		*inDir = cfg.Export.Dir
	}
	if *colors == 0 {
		*colors = cfg.Export.BMPColors
	}

	written, err := export.ConvertDir(*inDir, *outDir, *colors)
	for _, path := range written {
		slog.Info("converted", "path", path)
	}
	if err != nil {
		slog.Error("conversion failed", "error", err)
		os.Exit(1)
	}
	slog.Info("done", "files", len(written), "colors", *colors)
}
