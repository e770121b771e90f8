// Package config provides configuration loading and access for the plot
// generation pipeline.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/flowplot/field"
	"github.com/pthm-cable/flowplot/tiles"
	"github.com/pthm-cable/flowplot/trace"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all plot generation parameters.
type Config struct {
	Canvas CanvasConfig `yaml:"canvas"`
	Field  FieldConfig  `yaml:"field"`
	Trace  TraceConfig  `yaml:"trace"`
	Grid   GridConfig   `yaml:"grid"`
	Tiles  TilesConfig  `yaml:"tiles"`
	Export ExportConfig `yaml:"export"`
	Output OutputConfig `yaml:"output"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// CanvasConfig holds the drawing surface dimensions in canvas units.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// FieldConfig holds noise flow field parameters.
type FieldConfig struct {
	Resolution  int     `yaml:"resolution"`  // Lattice spacing for grid sampling
	NoiseScale  float64 `yaml:"noise_scale"` // Spatial frequency (smaller = smoother)
	Octaves     int     `yaml:"octaves"`     // Noise layers
	Persistence float64 `yaml:"persistence"` // Amplitude decay per octave
	Lacunarity  float64 `yaml:"lacunarity"`  // Frequency growth per octave
	Seed        int64   `yaml:"seed"`
}

// TraceConfig holds flow-line tracing parameters.
type TraceConfig struct {
	NumLines   int     `yaml:"num_lines"`
	LineLength int     `yaml:"line_length"` // Maximum points per line
	StepSize   float64 `yaml:"step_size"`   // Integration step in canvas units
}

// GridConfig holds direction-field indicator parameters.
type GridConfig struct {
	LineLength float64 `yaml:"line_length"` // Indicator segment length in canvas units
}

// TilesConfig holds tiled scale-armor pattern parameters.
type TilesConfig struct {
	PanelCols         int     `yaml:"panel_cols"`
	PanelRows         int     `yaml:"panel_rows"`
	TilesPerPanel     int     `yaml:"tiles_per_panel"`
	GapRatio          float64 `yaml:"gap_ratio"`
	NoiseScale        float64 `yaml:"noise_scale"`
	RotationIntensity float64 `yaml:"rotation_intensity"`
	ScaleIntensity    float64 `yaml:"scale_intensity"`
}

// ExportConfig holds SVG output styling.
type ExportConfig struct {
	StrokeWidth float64 `yaml:"stroke_width"`
	StrokeColor string  `yaml:"stroke_color"`
	Background  string  `yaml:"background"` // Empty = transparent
	Border      bool    `yaml:"border"`
}

// OutputConfig holds run output settings.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Directory for CSV logs and config snapshot; empty = disabled
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Width64  float64 // Canvas.Width as float64
	Height64 float64 // Canvas.Height as float64
	Cols     int     // Lattice columns, inclusive from 0
	Rows     int     // Lattice rows, inclusive from 0
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Reject bad numeric ranges at load time, before any sampling happens
	if err := cfg.FieldConfig().Validate(); err != nil {
		return nil, fmt.Errorf("field section: %w", err)
	}
	if err := cfg.TraceConfig().Validate(); err != nil {
		return nil, fmt.Errorf("trace section: %w", err)
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Width64 = float64(c.Canvas.Width)
	c.Derived.Height64 = float64(c.Canvas.Height)
	c.Derived.Cols = c.Canvas.Width/c.Field.Resolution + 1
	c.Derived.Rows = c.Canvas.Height/c.Field.Resolution + 1
}

// FieldConfig assembles the field package's config value.
func (c *Config) FieldConfig() field.Config {
	return field.Config{
		Width:       c.Canvas.Width,
		Height:      c.Canvas.Height,
		Resolution:  c.Field.Resolution,
		NoiseScale:  c.Field.NoiseScale,
		Octaves:     c.Field.Octaves,
		Persistence: c.Field.Persistence,
		Lacunarity:  c.Field.Lacunarity,
		Seed:        c.Field.Seed,
	}
}

// TraceConfig assembles the trace package's config value.
func (c *Config) TraceConfig() trace.Config {
	return trace.Config{
		NumLines:   c.Trace.NumLines,
		LineLength: c.Trace.LineLength,
		StepSize:   c.Trace.StepSize,
	}
}

// TilesConfig assembles the tiles package's config value, reusing the field
// seed so one configured seed pins the whole composition.
func (c *Config) TilesConfig() tiles.Config {
	return tiles.Config{
		Width:             c.Canvas.Width,
		Height:            c.Canvas.Height,
		PanelCols:         c.Tiles.PanelCols,
		PanelRows:         c.Tiles.PanelRows,
		TilesPerPanel:     c.Tiles.TilesPerPanel,
		GapRatio:          c.Tiles.GapRatio,
		NoiseScale:        c.Tiles.NoiseScale,
		RotationIntensity: c.Tiles.RotationIntensity,
		ScaleIntensity:    c.Tiles.ScaleIntensity,
		Seed:              c.Field.Seed,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
