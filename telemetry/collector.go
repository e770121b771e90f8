// Package telemetry collects per-run statistics about generated line work:
// line and point counts, truncation, degenerate skips, and plotter travel.
package telemetry

import (
	"github.com/pthm-cable/flowplot/path"
)

// Collector accumulates trace events and produces RunStats. It satisfies
// the tracer's Recorder interface; attach it with Tracer.SetRecorder.
// Not safe for concurrent use; each sequential run owns its collector.
type Collector struct {
	kind      string
	seed      int64
	requested int

	pointCounts []float64
	truncated   int
	skips       int
}

// NewCollector creates a collector for one run. kind labels the generator
// (flow, grid, tiles); requested is the number of lines asked for.
func NewCollector(kind string, seed int64, requested int) *Collector {
	return &Collector{
		kind:        kind,
		seed:        seed,
		requested:   requested,
		pointCounts: make([]float64, 0, requested),
	}
}

// LineTraced records one finished line.
func (c *Collector) LineTraced(points int, truncated bool) {
	c.pointCounts = append(c.pointCounts, float64(points))
	if truncated {
		c.truncated++
	}
}

// LineSkipped records a line whose start-point retries were exhausted.
func (c *Collector) LineSkipped(retries int) {
	c.skips++
}

// Stats finalizes the run against the produced lines. Travel metrics come
// from the lines themselves so grid and tile runs (which bypass the event
// callbacks) can reuse the same summary.
func (c *Collector) Stats(lines []path.Polyline) RunStats {
	counts := c.pointCounts
	if len(counts) == 0 && len(lines) > 0 {
		counts = make([]float64, len(lines))
		for i, line := range lines {
			counts[i] = float64(len(line))
		}
	}

	var totalPoints int
	for _, n := range counts {
		totalPoints += int(n)
	}

	mean, std, p10, p50, p90 := distribution(counts)
	return RunStats{
		Kind:            c.kind,
		Seed:            c.seed,
		LinesRequested:  c.requested,
		LinesProduced:   len(lines),
		TruncatedLines:  c.truncated,
		DegenerateSkips: c.skips,
		TotalPoints:     totalPoints,
		PointsMean:      mean,
		PointsStd:       std,
		PointsP10:       p10,
		PointsP50:       p50,
		PointsP90:       p90,
		PenDownTravel:   path.TotalLength(lines),
		PenUpTravel:     path.PenUpTravel(lines),
	}
}
