// Package field derives flow angles from layered coherent noise.
//
// A Sampler is a pure function of (coordinate, Config): identical seeds
// reproduce identical fields, and a constructed Sampler is safe for
// concurrent reads.
package field

import (
	"errors"
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
)

// ErrInvalidConfig is wrapped by all construction-time validation failures.
var ErrInvalidConfig = errors.New("invalid config")

// maxOctaves caps fBm layering; with persistence <= 1 the amplitude of
// octaves beyond this contributes nothing visible to the field.
const maxOctaves = 12

// Config holds the parameters of a noise flow field. Immutable after
// construction; validate with Validate before building a Sampler.
type Config struct {
	Width       int     // Canvas width in canvas units
	Height      int     // Canvas height in canvas units
	Resolution  int     // Lattice spacing for grid sampling, same units as Width/Height
	NoiseScale  float64 // Spatial frequency (smaller = smoother)
	Octaves     int     // Number of noise layers (>= 1)
	Persistence float64 // Amplitude decay per octave, in (0, 1]
	Lacunarity  float64 // Frequency growth per octave, > 1
	Seed        int64   // Deterministic noise seed
}

// Validate checks all numeric ranges. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: canvas %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.Resolution <= 0:
		return fmt.Errorf("%w: resolution %d must be positive", ErrInvalidConfig, c.Resolution)
	case c.Resolution > c.Width || c.Resolution > c.Height:
		return fmt.Errorf("%w: resolution %d exceeds canvas %dx%d", ErrInvalidConfig, c.Resolution, c.Width, c.Height)
	case c.NoiseScale <= 0:
		return fmt.Errorf("%w: noise scale %v must be positive", ErrInvalidConfig, c.NoiseScale)
	case c.Octaves < 1:
		return fmt.Errorf("%w: octaves %d must be >= 1", ErrInvalidConfig, c.Octaves)
	case c.Persistence <= 0 || c.Persistence > 1:
		return fmt.Errorf("%w: persistence %v must be in (0, 1]", ErrInvalidConfig, c.Persistence)
	case c.Lacunarity <= 1:
		return fmt.Errorf("%w: lacunarity %v must be > 1", ErrInvalidConfig, c.Lacunarity)
	}
	return nil
}

// Cols returns the number of lattice columns, inclusive from 0:
// lattice points sit at i*Resolution for i in [0, Width/Resolution].
func (c Config) Cols() int {
	return c.Width/c.Resolution + 1
}

// Rows returns the number of lattice rows (same convention as Cols).
func (c Config) Rows() int {
	return c.Height/c.Resolution + 1
}

// Sampler maps 2D positions to flow angles via normalized fractal noise.
type Sampler struct {
	cfg   Config
	noise opensimplex.Noise
}

// NewSampler validates cfg and builds a sampler seeded from cfg.Seed.
func NewSampler(cfg Config) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sampler{
		cfg:   cfg,
		noise: opensimplex.New(cfg.Seed),
	}, nil
}

// Config returns the sampler's configuration.
func (s *Sampler) Config() Config {
	return s.cfg
}

// AngleAt returns the flow angle at (x, y) in radians.
//
// The normalized multi-octave noise value n lies in [-1, 1] and maps to
// (n + 1) * pi, covering the full [0, 2*pi] range.
func (s *Sampler) AngleAt(x, y float64) float64 {
	return (s.normalizedNoise(x, y) + 1) * math.Pi
}

// normalizedNoise sums octaves of coherent noise and normalizes by the
// amplitude sum so the result stays in [-1, 1] regardless of octave count.
func (s *Sampler) normalizedNoise(x, y float64) float64 {
	octaves := s.cfg.Octaves
	if octaves > maxOctaves {
		octaves = maxOctaves
	}

	amplitude := 1.0
	frequency := 1.0
	var sum, totalAmplitude float64
	for k := 0; k < octaves; k++ {
		sum += amplitude * s.noise.Eval2(
			x*frequency*s.cfg.NoiseScale,
			y*frequency*s.cfg.NoiseScale,
		)
		totalAmplitude += amplitude
		amplitude *= s.cfg.Persistence
		frequency *= s.cfg.Lacunarity
	}

	return sum / totalAmplitude
}
