// Package main tunes strategy parameters with CMA-ES so generated heightmaps
// match a target height spread and roughness.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/heightfield/config"
	"github.com/pthm-cable/heightfield/terrain"
)

type options struct {
	configPath  string
	strategy    string
	targetStd   float64
	targetRough float64
	seeds       int
	maxEvals    int
	population  int
	outputDir   string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.StringVar(&opts.strategy, "strategy", terrain.NameGradient, "Strategy to tune")
	flag.Float64Var(&opts.targetStd, "target-std", 0, "Target std of the [0,1] heightmap (0 = measure base config)")
	flag.Float64Var(&opts.targetRough, "target-roughness", 0, "Target neighbour roughness (0 = measure base config)")
	flag.IntVar(&opts.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(opts); err != nil {
		slog.Error("tuning failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.outputDir == "" {
		return errors.New("-output is required")
	}
	if opts.seeds < 1 {
		return fmt.Errorf("-seeds must be >= 1, got %d", opts.seeds)
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	baseCfg := config.Cfg()

	params, err := NewParamVector(opts.strategy)
	if err != nil {
		return err
	}

	evalSeeds := make([]int64, opts.seeds)
	for i := range evalSeeds {
		evalSeeds[i] = baseCfg.Seed + int64(i*1000)
	}

	// Targets not given on the command line come from the base config
	target, err := DefaultTarget(baseCfg, opts.strategy, evalSeeds)
	if err != nil {
		return fmt.Errorf("measuring base config: %w", err)
	}
	if opts.targetStd > 0 {
		target.Std = opts.targetStd
	}
	if opts.targetRough > 0 {
		target.Roughness = opts.targetRough
	}

	logFile, err := os.Create(filepath.Join(opts.outputDir, "tune_log.csv"))
	if err != nil {
		return fmt.Errorf("creating tune log: %w", err)
	}
	defer logFile.Close()

	evals, err := newEvalLog(logFile, params)
	if err != nil {
		return fmt.Errorf("writing tune log header: %w", err)
	}

	evaluator := NewFitnessEvaluator(params, opts.strategy, evalSeeds, baseCfg, target)
	start := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			stats := evaluator.LastStats()

			improved, err := evals.record(fitness, stats, params.Clamp(raw))
			if err != nil {
				slog.Warn("tune log write failed", "error", err)
			}

			elapsed := time.Since(start)
			remaining := time.Duration(opts.maxEvals-evals.count) * (elapsed / time.Duration(evals.count))
			slog.Info("eval",
				"n", evals.count,
				"fitness", fitness,
				"best", evals.best,
				"improved", improved,
				"std", stats.Std,
				"roughness", stats.Roughness,
				"elapsed", formatDuration(elapsed),
				"eta", formatDuration(remaining),
			)
			return fitness
		},
	}

	dim := params.Dim()
	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + 3*dim/2
	}

	slog.Info("tuning",
		"strategy", opts.strategy,
		"params", dim,
		"population", popSize,
		"max_evals", opts.maxEvals,
		"target_std", target.Std,
		"target_roughness", target.Roughness,
		"seeds", opts.seeds,
	)

	// Evaluations run one at a time; each one fans out over seeds
	result, err := optimize.Minimize(problem,
		params.Normalize(params.ExtractFromConfig(baseCfg)),
		&optimize.Settings{FuncEvaluations: opts.maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		slog.Warn("optimization ended early", "error", err)
	}

	best := evals.bestParams
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return errors.New("no evaluations completed")
	}

	bestCfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	params.ApplyToConfig(bestCfg, best)

	attrs := []any{"evals", evals.count, "fitness", evals.best, "elapsed", formatDuration(time.Since(start))}
	for i, spec := range params.Specs {
		attrs = append(attrs, spec.Path, best[i])
	}
	slog.Info("tuning complete", attrs...)

	out := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	slog.Info("best config saved", "path", out)
	return nil
}

// formatDuration formats a duration as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
