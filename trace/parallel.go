package trace

import (
	"log/slog"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/flowplot/path"
)

// lineSeedStride decorrelates per-line RNG streams derived from a base seed.
const lineSeedStride = 0x9E3779B9

// TraceLinesParallel traces cfg.NumLines trajectories concurrently. Each
// line owns a random source derived from baseSeed and its index, so output
// is deterministic for a given (field, cfg, baseSeed) and collection order
// matches line index order, independent of scheduling. Worker count is
// bounded by GOMAXPROCS.
func (t *Tracer) TraceLinesParallel(cfg Config, baseSeed int64) ([]path.Polyline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slots := make([]path.Polyline, cfg.NumLines)
	truncated := make([]bool, cfg.NumLines)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < cfg.NumLines; i++ {
		i := i
		g.Go(func() error {
			rng := rand.New(rand.NewSource(baseSeed + int64(i+1)*lineSeedStride))
			line, trunc, ok := t.traceOneQuiet(cfg, rng)
			if ok {
				slots[i] = line
				truncated[i] = trunc
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lines := make([]path.Polyline, 0, cfg.NumLines)
	for i, line := range slots {
		if line == nil {
			if t.rec != nil {
				t.rec.LineSkipped(maxStartRetries)
			}
			slog.Warn("skipping degenerate flow line",
				"line", i,
				"retries", maxStartRetries,
				"step_size", cfg.StepSize,
			)
			continue
		}
		if t.rec != nil {
			t.rec.LineTraced(len(line), truncated[i])
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// traceOneQuiet is traceOne without recorder callbacks; the parallel path
// delivers recorder events from the collection loop instead, so they arrive
// in line-index order regardless of scheduling.
func (t *Tracer) traceOneQuiet(cfg Config, rng *rand.Rand) (path.Polyline, bool, bool) {
	minPoints := 2
	if cfg.LineLength < 2 {
		minPoints = 1
	}
	for attempt := 0; attempt <= maxStartRetries; attempt++ {
		line, trunc := t.integrate(cfg, rng)
		if len(line) >= minPoints {
			return line, trunc, true
		}
	}
	return nil, false, false
}
