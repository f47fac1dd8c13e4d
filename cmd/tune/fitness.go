package main

import (
	"sync"

	"github.com/pthm-cable/heightfield/config"
	"github.com/pthm-cable/heightfield/heightmap"
	"github.com/pthm-cable/heightfield/pipeline"
	"github.com/pthm-cable/heightfield/telemetry"
	"github.com/pthm-cable/heightfield/terrain"
)

// Target is the height distribution the tuner steers toward. Both values are
// measured on the heightmap rescaled to [0, 1].
type Target struct {
	Std       float64
	Roughness float64
}

// invalidPenalty is the fitness of a parameter set that fails to generate.
const invalidPenalty = 1e3

// FitnessEvaluator generates heightmaps and scores them against a target.
type FitnessEvaluator struct {
	params     *ParamVector
	strategy   string
	seeds      []int64
	baseConfig *config.Config
	target     Target

	mu        sync.Mutex
	lastStats telemetry.HeightStats // averaged over seeds in the latest Evaluate
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, strategy string, seeds []int64, baseCfg *config.Config, target Target) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		strategy:   strategy,
		seeds:      seeds,
		baseConfig: baseCfg,
		target:     target,
	}
}

// LastStats returns the averaged statistics from the most recent evaluation.
func (fe *FitnessEvaluator) LastStats() telemetry.HeightStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastStats
}

// Evaluate computes fitness for raw parameter values (lower = better): the
// squared relative error of std and roughness, averaged over seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	s, err := terrain.New(fe.strategy, cfg)
	if err != nil {
		return invalidPenalty
	}

	// Seeds are independent, so run them in parallel
	results := make([]telemetry.HeightStats, len(fe.seeds))
	failed := make([]bool, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, seed int64) {
			defer wg.Done()
			stats, err := measure(cfg, s, seed)
			results[idx], failed[idx] = stats, err != nil
		}(i, seed)
	}
	wg.Wait()

	var avg telemetry.HeightStats
	var fitness float64
	for i, r := range results {
		if failed[i] {
			return invalidPenalty
		}
		fitness += relErr(r.Std, fe.target.Std) + relErr(r.Roughness, fe.target.Roughness)
		avg.Std += r.Std
		avg.Roughness += r.Roughness
		avg.Mean += r.Mean
	}
	n := float64(len(fe.seeds))
	avg.Std /= n
	avg.Roughness /= n
	avg.Mean /= n

	fe.mu.Lock()
	fe.lastStats = avg
	fe.mu.Unlock()

	return fitness / n
}

// measure generates one heightmap and returns stats of its [0, 1] rescale.
func measure(cfg *config.Config, s terrain.Strategy, seed int64) (telemetry.HeightStats, error) {
	res, err := pipeline.Build(cfg, s, seed, nil)
	if err != nil {
		return telemetry.HeightStats{}, err
	}
	unit, err := heightmap.Normalize(res.Raw, 0, 1)
	if err != nil {
		return telemetry.HeightStats{}, err
	}
	return telemetry.ComputeHeightStats(unit), nil
}

func relErr(got, want float64) float64 {
	d := got - want
	if want != 0 {
		d /= want
	}
	return d * d
}

// copyConfig returns a copy of the base config that Evaluate may modify.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	c := *fe.baseConfig
	return &c
}

// DefaultTarget measures the base config so tuning starts from a known fit.
func DefaultTarget(cfg *config.Config, strategy string, seeds []int64) (Target, error) {
	s, err := terrain.New(strategy, cfg)
	if err != nil {
		return Target{}, err
	}
	var t Target
	for _, seed := range seeds {
		stats, err := measure(cfg, s, seed)
		if err != nil {
			return Target{}, err
		}
		t.Std += stats.Std
		t.Roughness += stats.Roughness
	}
	n := float64(len(seeds))
	return Target{Std: t.Std / n, Roughness: t.Roughness / n}, nil
}
