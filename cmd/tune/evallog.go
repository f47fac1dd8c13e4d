package main

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/pthm-cable/heightfield/telemetry"
)

// evalLog writes one CSV row per evaluation and remembers the best point.
// The column set depends on the strategy's parameters, so rows are built by
// hand rather than from a tagged struct.
type evalLog struct {
	w     *csv.Writer
	count int

	best       float64
	bestParams []float64
}

func newEvalLog(w io.Writer, params *ParamVector) (*evalLog, error) {
	header := []string{"eval", "fitness", "std", "roughness"}
	for _, spec := range params.Specs {
		header = append(header, spec.Path)
	}
	l := &evalLog{w: csv.NewWriter(w), best: math.Inf(1)}
	if err := l.w.Write(header); err != nil {
		return nil, err
	}
	l.w.Flush()
	return l, l.w.Error()
}

// record logs an evaluation of the clamped parameter values and reports
// whether it improved on the best so far.
func (l *evalLog) record(fitness float64, stats telemetry.HeightStats, clamped []float64) (bool, error) {
	l.count++
	improved := fitness < l.best
	if improved {
		l.best = fitness
		l.bestParams = append(l.bestParams[:0], clamped...)
	}

	row := []string{
		strconv.Itoa(l.count),
		formatFloat(fitness),
		formatFloat(stats.Std),
		formatFloat(stats.Roughness),
	}
	for _, v := range clamped {
		row = append(row, formatFloat(v))
	}
	if err := l.w.Write(row); err != nil {
		return improved, err
	}
	l.w.Flush()
	return improved, l.w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
