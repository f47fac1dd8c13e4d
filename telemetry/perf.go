package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for a generation run.
const (
	PhaseGenerate  = "generate"
	PhaseNormalize = "normalize"
	PhaseExport    = "export"
)

// phases lists the run phases in execution order.
var phases = []string{PhaseGenerate, PhaseNormalize, PhaseExport}

// PerfSample holds timing data for a single run.
type PerfSample struct {
	RunDuration time.Duration
	Phases      map[string]time.Duration
}

// PerfCollector records per-run timings, keeping the most recent window.
type PerfCollector struct {
	window  int
	samples []PerfSample

	current    PerfSample
	runStart   time.Time
	phaseStart time.Time
	phase      string
}

// NewPerfCollector creates a collector that aggregates over the last window
// runs. A window below 1 falls back to 32.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 32
	}
	return &PerfCollector{
		window:  window,
		current: PerfSample{Phases: make(map[string]time.Duration)},
	}
}

// StartRun begins timing a new generation run.
func (p *PerfCollector) StartRun() {
	p.runStart = time.Now()
	p.current = PerfSample{Phases: make(map[string]time.Duration)}
	p.phase = ""
}

// StartPhase closes the running phase, if any, and starts the named one.
func (p *PerfCollector) StartPhase(phase string) {
	p.closePhase(time.Now())
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
}

// EndRun finishes timing the current run, records the sample and returns it.
func (p *PerfCollector) EndRun() PerfSample {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""

	sample := p.current
	sample.RunDuration = now.Sub(p.runStart)
	p.samples = append(p.samples, sample)
	if len(p.samples) > p.window {
		p.samples = p.samples[len(p.samples)-p.window:]
	}
	return sample
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	Runs int

	AvgRunDuration time.Duration
	MinRunDuration time.Duration
	MaxRunDuration time.Duration

	// Average duration and share of run time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	RunsPerSecond float64
}

// Stats aggregates the recorded window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		Runs:     len(p.samples),
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if stats.Runs == 0 {
		return stats
	}

	runs := make([]float64, stats.Runs)
	byPhase := make(map[string][]float64)
	for i, s := range p.samples {
		runs[i] = float64(s.RunDuration)
		for phase, d := range s.Phases {
			byPhase[phase] = append(byPhase[phase], float64(d))
		}
	}

	avg := stat.Mean(runs, nil)
	stats.AvgRunDuration = time.Duration(avg)
	stats.MinRunDuration = time.Duration(floats.Min(runs))
	stats.MaxRunDuration = time.Duration(floats.Max(runs))
	if avg > 0 {
		stats.RunsPerSecond = float64(time.Second) / avg
	}

	// Runs missing a phase count as zero for it
	for phase, ds := range byPhase {
		mean := floats.Sum(ds) / float64(stats.Runs)
		stats.PhaseAvg[phase] = time.Duration(mean)
		if avg > 0 {
			stats.PhasePct[phase] = mean / avg * 100
		}
	}
	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("runs", s.Runs),
		slog.Int64("avg_run_us", s.AvgRunDuration.Microseconds()),
		slog.Int64("min_run_us", s.MinRunDuration.Microseconds()),
		slog.Int64("max_run_us", s.MaxRunDuration.Microseconds()),
		slog.Float64("runs_per_sec", s.RunsPerSecond),
	}

	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Strategy     string  `csv:"strategy"`
	Runs         int     `csv:"runs"`
	AvgRunUS     int64   `csv:"avg_run_us"`
	MinRunUS     int64   `csv:"min_run_us"`
	MaxRunUS     int64   `csv:"max_run_us"`
	RunsPerSec   float64 `csv:"runs_per_sec"`
	GeneratePct  float64 `csv:"generate_pct"`
	NormalizePct float64 `csv:"normalize_pct"`
	ExportPct    float64 `csv:"export_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(strategy string) PerfStatsCSV {
	return PerfStatsCSV{
		Strategy:     strategy,
		Runs:         s.Runs,
		AvgRunUS:     s.AvgRunDuration.Microseconds(),
		MinRunUS:     s.MinRunDuration.Microseconds(),
		MaxRunUS:     s.MaxRunDuration.Microseconds(),
		RunsPerSec:   s.RunsPerSecond,
		GeneratePct:  s.PhasePct[PhaseGenerate],
		NormalizePct: s.PhasePct[PhaseNormalize],
		ExportPct:    s.PhasePct[PhaseExport],
	}
}
