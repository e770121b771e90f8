// Package tiles generates noise-driven tile patterns: grids of rotated and
// scaled square tiles arranged in panels, where border tiles grow and
// interlock with their neighbours into localized scale-armor structures.
package tiles

import (
	"fmt"
	"math"

	"github.com/pthm-cable/flowplot/field"
	"github.com/pthm-cable/flowplot/path"
)

// scaleSeedOffset decorrelates the scale field from the rotation field when
// both derive from the same configured seed.
const scaleSeedOffset = 1000

// Config holds the parameters of a tiled panel layout.
type Config struct {
	Width, Height     int     // Canvas size in canvas units
	PanelCols         int     // Panel grid columns
	PanelRows         int     // Panel grid rows
	TilesPerPanel     int     // Tiles per panel side
	GapRatio          float64 // Gap between panels as a ratio of canvas size
	NoiseScale        float64 // Noise frequency for the driving fields
	RotationIntensity float64 // Rotation response in [0, 1]
	ScaleIntensity    float64 // Scale response in [0, 1]
	Seed              int64
}

// Validate checks all numeric ranges. Errors wrap field.ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: canvas %dx%d must be positive", field.ErrInvalidConfig, c.Width, c.Height)
	case c.PanelCols < 1 || c.PanelRows < 1:
		return fmt.Errorf("%w: panel grid %dx%d must be >= 1x1", field.ErrInvalidConfig, c.PanelCols, c.PanelRows)
	case c.TilesPerPanel < 1:
		return fmt.Errorf("%w: tiles per panel %d must be >= 1", field.ErrInvalidConfig, c.TilesPerPanel)
	case c.GapRatio < 0 || c.GapRatio >= 1:
		return fmt.Errorf("%w: gap ratio %v must be in [0, 1)", field.ErrInvalidConfig, c.GapRatio)
	case c.NoiseScale <= 0:
		return fmt.Errorf("%w: noise scale %v must be positive", field.ErrInvalidConfig, c.NoiseScale)
	}
	return nil
}

// Generator produces tile line work from two flow fields: one drives tile
// rotation, the other tile scale.
type Generator struct {
	cfg Config

	panelWidth, panelHeight float64
	gapWidth, gapHeight     float64
	tileWidth, tileHeight   float64

	rotation *field.Sampler
	scale    *field.Sampler
}

// NewGenerator validates cfg and precomputes the panel layout.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{cfg: cfg}
	totalGapW := float64(cfg.Width) * cfg.GapRatio * float64(cfg.PanelCols-1)
	totalGapH := float64(cfg.Height) * cfg.GapRatio * float64(cfg.PanelRows-1)
	g.panelWidth = (float64(cfg.Width) - totalGapW) / float64(cfg.PanelCols)
	g.panelHeight = (float64(cfg.Height) - totalGapH) / float64(cfg.PanelRows)
	g.gapWidth = float64(cfg.Width) * cfg.GapRatio
	g.gapHeight = float64(cfg.Height) * cfg.GapRatio
	g.tileWidth = g.panelWidth / float64(cfg.TilesPerPanel)
	g.tileHeight = g.panelHeight / float64(cfg.TilesPerPanel)

	resolution := clampResolution(int(g.tileWidth*2), cfg.Width, cfg.Height)

	var err error
	g.rotation, err = field.NewSampler(field.Config{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Resolution:  resolution,
		NoiseScale:  cfg.NoiseScale,
		Octaves:     3,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Seed:        cfg.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("rotation field: %w", err)
	}
	g.scale, err = field.NewSampler(field.Config{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Resolution:  resolution,
		NoiseScale:  cfg.NoiseScale * 0.8,
		Octaves:     2,
		Persistence: 0.6,
		Lacunarity:  2.0,
		Seed:        cfg.Seed + scaleSeedOffset,
	})
	if err != nil {
		return nil, fmt.Errorf("scale field: %w", err)
	}
	return g, nil
}

func clampResolution(res, width, height int) int {
	if res < 1 {
		res = 1
	}
	if res > width {
		res = width
	}
	if res > height {
		res = height
	}
	return res
}

// Generate produces every tile as a set of internal grid lines with a fixed
// five-division grid.
func (g *Generator) Generate() []path.Polyline {
	return g.generate(func(scaleFactor float64) int { return 5 })
}

// GenerateNested produces tiles whose grid density grows with tile scale, so
// enlarged border tiles carry more internal detail.
func (g *Generator) GenerateNested() []path.Polyline {
	return g.generate(func(scaleFactor float64) int {
		switch {
		case scaleFactor > 1.3:
			return 8
		case scaleFactor > 1.1:
			return 6
		default:
			return 5
		}
	})
}

func (g *Generator) generate(divisions func(scaleFactor float64) int) []path.Polyline {
	var lines []path.Polyline

	for panelRow := 0; panelRow < g.cfg.PanelRows; panelRow++ {
		for panelCol := 0; panelCol < g.cfg.PanelCols; panelCol++ {
			panelX := float64(panelCol) * (g.panelWidth + g.gapWidth)
			panelY := float64(panelRow) * (g.panelHeight + g.gapHeight)

			for tileRow := 0; tileRow < g.cfg.TilesPerPanel; tileRow++ {
				for tileCol := 0; tileCol < g.cfg.TilesPerPanel; tileCol++ {
					centerX := panelX + (float64(tileCol)+0.5)*g.tileWidth
					centerY := panelY + (float64(tileRow)+0.5)*g.tileHeight

					rotationNoise := g.rotation.AngleAt(centerX, centerY)
					scaleNoise := g.scale.AngleAt(centerX, centerY)

					rotation := (rotationNoise - math.Pi) * g.cfg.RotationIntensity

					baseScale := 0.3 + (scaleNoise/(2*math.Pi))*1.4
					scaleFactor := 0.5 + baseScale*g.cfg.ScaleIntensity
					if g.isBorderTile(tileRow, tileCol) {
						scaleFactor *= 1.4 + scaleNoise/(2*math.Pi)*0.6
					}

					size := math.Min(g.tileWidth, g.tileHeight) * scaleFactor
					lines = append(lines, gridTile(centerX, centerY, size, rotation, divisions(scaleFactor))...)
				}
			}
		}
	}
	return lines
}

// isBorderTile reports whether a tile sits on its panel's edge or along the
// panel's center dividing lines; these tiles get the enlarged armor scale.
func (g *Generator) isBorderTile(tileRow, tileCol int) bool {
	last := g.cfg.TilesPerPanel - 1
	if tileRow == 0 || tileRow == last || tileCol == 0 || tileCol == last {
		return true
	}
	mid := g.cfg.TilesPerPanel / 2
	return abs(tileRow-mid) <= 1 || abs(tileCol-mid) <= 1
}

// gridTile builds the internal grid of one tile: divisions+1 horizontal and
// divisions+1 vertical segments, rotated about the tile center.
func gridTile(centerX, centerY, size, rotation float64, divisions int) []path.Polyline {
	half := size / 2
	sin, cos := math.Sincos(rotation)
	lines := make([]path.Polyline, 0, 2*(divisions+1))

	place := func(x, y float64) path.Point {
		return path.Point{
			X: centerX + x*cos - y*sin,
			Y: centerY + x*sin + y*cos,
		}
	}

	for i := 0; i <= divisions; i++ {
		offset := -half + float64(i)/float64(divisions)*size
		lines = append(lines,
			path.Polyline{place(-half, offset), place(half, offset)},
			path.Polyline{place(offset, -half), place(offset, half)},
		)
	}
	return lines
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
