package trace

import (
	"math"

	"github.com/pthm-cable/flowplot/field"
	"github.com/pthm-cable/flowplot/path"
)

// GridLines emits one two-point direction segment per lattice point of the
// sampler's canvas. The lattice is inclusive from 0: points sit at
// (i*Resolution, j*Resolution) for i in [0, Width/Resolution] and j in
// [0, Height/Resolution], giving exactly Cols()*Rows() segments. Each
// segment starts at its lattice point and extends lineLength canvas units
// along the sampled flow angle. Deterministic: no random source is consumed.
func GridLines(s *field.Sampler, lineLength float64) []path.Polyline {
	cfg := s.Config()
	cols, rows := cfg.Cols(), cfg.Rows()

	lines := make([]path.Polyline, 0, cols*rows)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			x := float64(i * cfg.Resolution)
			y := float64(j * cfg.Resolution)
			angle := s.AngleAt(x, y)
			lines = append(lines, path.Polyline{
				{X: x, Y: y},
				{X: x + math.Cos(angle)*lineLength, Y: y + math.Sin(angle)*lineLength},
			})
		}
	}
	return lines
}
