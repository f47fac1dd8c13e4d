package telemetry

import (
	"log/slog"
	"math"
	"runtime"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/heightfield/heightmap"
)

// HeightStats summarizes the distribution of a heightmap's samples.
type HeightStats struct {
	Min  float64 `csv:"min"`
	Max  float64 `csv:"max"`
	Mean float64 `csv:"mean"`
	Std  float64 `csv:"std"`
	P10  float64 `csv:"p10"`
	P50  float64 `csv:"p50"`
	P90  float64 `csv:"p90"`

	// Mean absolute step between horizontal neighbours, as a fraction of
	// Max-Min. Zero for constant or single-column maps.
	Roughness float64 `csv:"roughness"`
}

// ComputeHeightStats calculates min, max, mean, std and percentiles.
// Returns zeros for an empty heightmap.
func ComputeHeightStats(h *heightmap.Heightmap) HeightStats {
	if len(h.Data) == 0 {
		return HeightStats{}
	}

	sorted := make([]float64, len(h.Data))
	copy(sorted, h.Data)
	sort.Float64s(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	s := HeightStats{
		Min:  floats.Min(sorted),
		Max:  floats.Max(sorted),
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:  stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:  stat.Quantile(0.90, stat.LinInterp, sorted, nil),
	}
	s.Roughness = roughness(h, s.Max-s.Min)
	return s
}

func roughness(h *heightmap.Heightmap, span float64) float64 {
	if span == 0 || h.Width < 2 {
		return 0
	}
	var sum float64
	for y := 0; y < h.Height; y++ {
		row := h.Row(y)
		for x := 1; x < len(row); x++ {
			sum += math.Abs(row[x] - row[x-1])
		}
	}
	return sum / float64((h.Width-1)*h.Height) / span
}

// RunStats is the record kept for one generation run.
type RunStats struct {
	Strategy   string  `csv:"strategy"`
	Seed       int64   `csv:"seed"`
	Width      int     `csv:"width"`
	Height     int     `csv:"height"`
	Draws      uint64  `csv:"rng_draws"`
	DurationMS float64 `csv:"duration_ms"`
	HeapMB     float64 `csv:"heap_mb"`

	// Distribution of the raw generator output
	HeightStats
}

// NewRunStats builds a run record from a raw heightmap and its timing.
func NewRunStats(strategy string, seed int64, draws uint64, raw *heightmap.Heightmap, elapsed time.Duration) RunStats {
	return RunStats{
		Strategy:    strategy,
		Seed:        seed,
		Width:       raw.Width,
		Height:      raw.Height,
		Draws:       draws,
		DurationMS:  float64(elapsed) / float64(time.Millisecond),
		HeapMB:      HeapMB(),
		HeightStats: ComputeHeightStats(raw),
	}
}

// HeapMB returns the current heap allocation in megabytes.
func HeapMB() float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.HeapAlloc) / (1024 * 1024)
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("strategy", s.Strategy),
		slog.Int64("seed", s.Seed),
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
		slog.Uint64("rng_draws", s.Draws),
		slog.Float64("duration_ms", s.DurationMS),
		slog.Float64("heap_mb", s.HeapMB),
		slog.Float64("raw_min", s.Min),
		slog.Float64("raw_max", s.Max),
		slog.Float64("raw_mean", s.Mean),
		slog.Float64("raw_std", s.Std),
		slog.Float64("roughness", s.Roughness),
	)
}
