package tiles

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/pthm-cable/flowplot/field"
	"github.com/pthm-cable/flowplot/path"
)

// HarmonicConfig holds the parameters of the harmonized scale-armor variant:
// smoother size variation, circularly averaged rotation, and depth-stacked
// square outlines.
type HarmonicConfig struct {
	Width, Height int
	Panels        int     // Panels per side (square panel grid)
	TilesPerPanel int     // Tiles per panel side
	PanelGap      float64 // Gap between panels in canvas units
	Margin        float64 // Outer margin in canvas units
	Seed          int64
}

// Validate checks all numeric ranges. Errors wrap field.ErrInvalidConfig.
func (c HarmonicConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: canvas %dx%d must be positive", field.ErrInvalidConfig, c.Width, c.Height)
	case c.Panels < 1:
		return fmt.Errorf("%w: panels %d must be >= 1", field.ErrInvalidConfig, c.Panels)
	case c.TilesPerPanel < 1:
		return fmt.Errorf("%w: tiles per panel %d must be >= 1", field.ErrInvalidConfig, c.TilesPerPanel)
	case c.PanelGap < 0 || c.Margin < 0:
		return fmt.Errorf("%w: gap %v and margin %v must be non-negative", field.ErrInvalidConfig, c.PanelGap, c.Margin)
	}
	return nil
}

// depthTile pairs a square outline with its stacking depth so tiles can be
// emitted back-to-front.
type depthTile struct {
	depth   float64
	outline path.Polyline
}

// GenerateHarmonic produces a tiled scale-armor pattern with balanced size
// and rotation. Deterministic for a given config: both the flow field and
// the depth jitter derive from cfg.Seed.
func GenerateHarmonic(cfg HarmonicConfig) ([]path.Polyline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	panelSize := (float64(cfg.Width) - 2*cfg.Margin - cfg.PanelGap*float64(cfg.Panels-1)) / float64(cfg.Panels)
	tileStep := panelSize / float64(cfg.TilesPerPanel)
	baseTileSize := tileStep * 0.95
	borderWidth := tileStep * 1.4
	stackOffset := tileStep * 0.25
	smoothOffset := tileStep * 0.6

	sampler, err := field.NewSampler(field.Config{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Resolution:  clampResolution(20, cfg.Width, cfg.Height),
		NoiseScale:  0.007,
		Octaves:     1,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Seed:        cfg.Seed,
	})
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	var stacked []depthTile
	panelCenter := panelSize / 2

	for panelY := 0; panelY < cfg.Panels; panelY++ {
		for panelX := 0; panelX < cfg.Panels; panelX++ {
			originX := cfg.Margin + float64(panelX)*(panelSize+cfg.PanelGap)
			originY := cfg.Margin + float64(panelY)*(panelSize+cfg.PanelGap)

			for row := 0; row < cfg.TilesPerPanel; row++ {
				for col := 0; col < cfg.TilesPerPanel; col++ {
					centerX := originX + (float64(col)+0.5)*tileStep
					centerY := originY + (float64(row)+0.5)*tileStep

					angle := smoothAngle(sampler, centerX, centerY, smoothOffset)
					sizeAngle := smoothAngle(sampler, centerX+tileStep*1.2, centerY-tileStep*1.1, smoothOffset)
					sizeNoise := (math.Sin(sizeAngle) + 1) / 2
					size := baseTileSize * (0.9 + 0.25*sizeNoise)

					// Tiles grow toward the panel rim and along its border.
					localX := (float64(col) + 0.5) * tileStep
					localY := (float64(row) + 0.5) * tileStep
					centerDist := math.Hypot(localX-panelCenter, localY-panelCenter)
					centerNorm := math.Min(1, centerDist/(panelSize*0.5))
					size *= 0.75 + 0.35*centerNorm

					edgeDist := math.Min(
						math.Min(localX, localY),
						math.Min(panelSize-localX, panelSize-localY),
					)
					borderFactor := math.Max(0, 1-edgeDist/borderWidth)
					size *= 1 + borderFactor*0.2
					angle += borderFactor * 0.35

					depthNoise := (math.Sin(angle*0.8) + math.Cos(sizeAngle*1.1)) * 0.5
					depth := (depthNoise + 1) / 2
					depth += rng.Float64()*0.06 - 0.03
					depth = math.Max(0, math.Min(1, depth))

					offset := depth * stackOffset
					stacked = append(stacked, depthTile{
						depth:   depth,
						outline: squareOutline(centerX+offset, centerY-offset, size, angle),
					})
				}
			}
		}
	}

	// Back-to-front so deeper tiles are drawn (and occluded) first.
	sort.SliceStable(stacked, func(i, j int) bool {
		return stacked[i].depth < stacked[j].depth
	})

	lines := make([]path.Polyline, len(stacked))
	for i, tile := range stacked {
		lines[i] = tile.outline
	}
	return lines, nil
}

// smoothAngle samples the field at a point and its four offset neighbours
// and returns the circular mean, damping high-frequency rotation jumps
// between adjacent tiles.
func smoothAngle(s *field.Sampler, x, y, offset float64) float64 {
	angles := [5]float64{
		s.AngleAt(x, y),
		s.AngleAt(x+offset, y),
		s.AngleAt(x-offset, y),
		s.AngleAt(x, y+offset),
		s.AngleAt(x, y-offset),
	}
	var sumSin, sumCos float64
	for _, a := range angles {
		sumSin += math.Sin(a)
		sumCos += math.Cos(a)
	}
	return math.Atan2(sumSin, sumCos)
}

// squareOutline returns the closed outline of a rotated square (five points,
// first repeated last).
func squareOutline(centerX, centerY, size, angle float64) path.Polyline {
	half := size / 2
	sin, cos := math.Sincos(angle)
	corners := [5][2]float64{
		{-half, -half},
		{half, -half},
		{half, half},
		{-half, half},
		{-half, -half},
	}
	outline := make(path.Polyline, len(corners))
	for i, c := range corners {
		outline[i] = path.Point{
			X: centerX + c[0]*cos - c[1]*sin,
			Y: centerY + c[0]*sin + c[1]*cos,
		}
	}
	return outline
}
