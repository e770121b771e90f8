package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RunStats holds aggregated statistics for one generation run.
type RunStats struct {
	Kind string `csv:"kind"` // flow, grid or tiles
	Seed int64  `csv:"seed"`

	// Line counts
	LinesRequested  int `csv:"lines_requested"`
	LinesProduced   int `csv:"lines_produced"`
	TruncatedLines  int `csv:"truncated_lines"`
	DegenerateSkips int `csv:"degenerate_skips"`

	// Point distribution across lines
	TotalPoints int     `csv:"total_points"`
	PointsMean  float64 `csv:"points_mean"`
	PointsStd   float64 `csv:"points_std"`
	PointsP10   float64 `csv:"points_p10"`
	PointsP50   float64 `csv:"points_p50"`
	PointsP90   float64 `csv:"points_p90"`

	// Plotter travel estimates in canvas units
	PenDownTravel float64 `csv:"pen_down_travel"`
	PenUpTravel   float64 `csv:"pen_up_travel"`
}

// Log emits the stats as one structured log record.
func (s RunStats) Log() {
	slog.Info("run stats",
		"kind", s.Kind,
		"seed", s.Seed,
		"lines_requested", s.LinesRequested,
		"lines_produced", s.LinesProduced,
		"truncated_lines", s.TruncatedLines,
		"degenerate_skips", s.DegenerateSkips,
		"total_points", s.TotalPoints,
		"points_mean", s.PointsMean,
		"pen_down_travel", s.PenDownTravel,
		"pen_up_travel", s.PenUpTravel,
	)
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	rank := p * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	frac := rank - float64(lower)
	if upper >= n {
		return sorted[lower]
	}
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// distribution summarizes a sample: mean, stddev and the 10/50/90
// percentiles. Stddev is 0 for samples smaller than 2.
func distribution(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return mean, std, Percentile(sorted, 0.1), Percentile(sorted, 0.5), Percentile(sorted, 0.9)
}
