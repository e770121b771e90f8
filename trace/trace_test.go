package trace

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/pthm-cable/flowplot/field"
	"github.com/pthm-cable/flowplot/path"
)

func testSampler(t *testing.T, cfg field.Config) *field.Sampler {
	t.Helper()
	s, err := field.NewSampler(cfg)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	return s
}

func scenarioFieldConfig() field.Config {
	return field.Config{
		Width:       800,
		Height:      800,
		Resolution:  20,
		NoiseScale:  0.005,
		Octaves:     1,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Seed:        42,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{NumLines: 1, LineLength: 150, StepSize: 2.0}, false},
		{"zero lines", Config{NumLines: 0, LineLength: 150, StepSize: 2.0}, true},
		{"zero length", Config{NumLines: 1, LineLength: 0, StepSize: 2.0}, true},
		{"zero step", Config{NumLines: 1, LineLength: 150, StepSize: 0}, true},
		{"negative step", Config{NumLines: 1, LineLength: 150, StepSize: -1}, true},
		{"minimal", Config{NumLines: 1, LineLength: 1, StepSize: 0.1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && !errors.Is(err, field.ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestTraceLinesScenario(t *testing.T) {
	tracer := NewTracer(testSampler(t, scenarioFieldConfig()), rand.New(rand.NewSource(1)))

	cfg := Config{NumLines: 1, LineLength: 150, StepSize: 2.0}
	lines, err := tracer.TraceLines(cfg)
	if err != nil {
		t.Fatalf("TraceLines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("TraceLines produced %d lines, want 1", len(lines))
	}

	line := lines[0]
	if len(line) < 1 || len(line) > 150 {
		t.Errorf("line has %d points, want 1..150", len(line))
	}
	for i, pt := range line {
		if pt.X < -2 || pt.X > 802 || pt.Y < -2 || pt.Y > 802 {
			t.Errorf("point %d = %v, outside [-2,802]x[-2,802]", i, pt)
		}
	}
}

func TestTraceLinesReproducible(t *testing.T) {
	cfg := Config{NumLines: 25, LineLength: 100, StepSize: 2.0}

	run := func() []path.Polyline {
		tracer := NewTracer(testSampler(t, scenarioFieldConfig()), rand.New(rand.NewSource(7)))
		lines, err := tracer.TraceLines(cfg)
		if err != nil {
			t.Fatalf("TraceLines: %v", err)
		}
		return lines
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Error("identical seeds produced different polyline sequences")
	}
}

func TestTraceLinesCardinalityAndBounds(t *testing.T) {
	tracer := NewTracer(testSampler(t, scenarioFieldConfig()), rand.New(rand.NewSource(3)))

	cfg := Config{NumLines: 40, LineLength: 50, StepSize: 3.0}
	lines, err := tracer.TraceLines(cfg)
	if err != nil {
		t.Fatalf("TraceLines: %v", err)
	}
	if len(lines) < 1 || len(lines) > cfg.NumLines {
		t.Fatalf("produced %d lines, want 1..%d", len(lines), cfg.NumLines)
	}

	bounds := path.Bounds{Width: 800, Height: 800}
	for i, line := range lines {
		if len(line) < 2 {
			t.Errorf("line %d has %d points, want >= 2 after degenerate rejection", i, len(line))
		}
		for j, pt := range line {
			if !bounds.Contains(pt, cfg.StepSize) {
				t.Errorf("line %d point %d = %v, outside canvas plus one step margin", i, j, pt)
			}
		}
	}
}

func TestTraceLinesSinglePointLines(t *testing.T) {
	tracer := NewTracer(testSampler(t, scenarioFieldConfig()), rand.New(rand.NewSource(5)))

	cfg := Config{NumLines: 10, LineLength: 1, StepSize: 2.0}
	lines, err := tracer.TraceLines(cfg)
	if err != nil {
		t.Fatalf("TraceLines: %v", err)
	}
	// Single-point lines are valid when LineLength is 1, never degenerate.
	if len(lines) != cfg.NumLines {
		t.Fatalf("produced %d lines, want %d", len(lines), cfg.NumLines)
	}
	for i, line := range lines {
		if len(line) != 1 {
			t.Errorf("line %d has %d points, want 1", i, len(line))
		}
	}
}

func TestTraceLinesHugeStep(t *testing.T) {
	tracer := NewTracer(testSampler(t, scenarioFieldConfig()), rand.New(rand.NewSource(11)))

	cfg := Config{NumLines: 5, LineLength: 20, StepSize: 5000}
	lines, err := tracer.TraceLines(cfg)
	if err != nil {
		t.Fatalf("TraceLines: %v", err)
	}

	bounds := path.Bounds{Width: 800, Height: 800}
	for i, line := range lines {
		for j, pt := range line {
			if !bounds.Contains(pt, cfg.StepSize) {
				t.Errorf("line %d point %d = %v, outside one-step margin", i, j, pt)
			}
		}
	}
}

func TestTraceLinesInvalidConfig(t *testing.T) {
	tracer := NewTracer(testSampler(t, scenarioFieldConfig()), rand.New(rand.NewSource(1)))
	if _, err := tracer.TraceLines(Config{NumLines: 0, LineLength: 10, StepSize: 1}); !errors.Is(err, field.ErrInvalidConfig) {
		t.Errorf("TraceLines(invalid) error = %v, want ErrInvalidConfig", err)
	}
}

type countingRecorder struct {
	traced    int
	truncated int
	skipped   int
}

func (r *countingRecorder) LineTraced(points int, truncated bool) {
	r.traced++
	if truncated {
		r.truncated++
	}
}

func (r *countingRecorder) LineSkipped(retries int) { r.skipped++ }

func TestTracerRecorder(t *testing.T) {
	tracer := NewTracer(testSampler(t, scenarioFieldConfig()), rand.New(rand.NewSource(9)))
	rec := &countingRecorder{}
	tracer.SetRecorder(rec)

	cfg := Config{NumLines: 15, LineLength: 60, StepSize: 2.0}
	lines, err := tracer.TraceLines(cfg)
	if err != nil {
		t.Fatalf("TraceLines: %v", err)
	}

	if rec.traced != len(lines) {
		t.Errorf("recorder saw %d traced lines, want %d", rec.traced, len(lines))
	}
	if rec.traced+rec.skipped != cfg.NumLines {
		t.Errorf("traced %d + skipped %d != requested %d", rec.traced, rec.skipped, cfg.NumLines)
	}
}

func TestTraceLinesParallelRecorder(t *testing.T) {
	tracer := NewTracer(testSampler(t, scenarioFieldConfig()), nil)
	rec := &countingRecorder{}
	tracer.SetRecorder(rec)

	cfg := Config{NumLines: 12, LineLength: 60, StepSize: 2.0}
	lines, err := tracer.TraceLinesParallel(cfg, 17)
	if err != nil {
		t.Fatalf("TraceLinesParallel: %v", err)
	}

	if rec.traced != len(lines) {
		t.Errorf("recorder saw %d traced lines, want %d", rec.traced, len(lines))
	}
	if rec.traced+rec.skipped != cfg.NumLines {
		t.Errorf("traced %d + skipped %d != requested %d", rec.traced, rec.skipped, cfg.NumLines)
	}
}

func TestGridLinesScenario(t *testing.T) {
	cfg := scenarioFieldConfig()
	cfg.Resolution = 30
	cfg.NoiseScale = 0.008
	cfg.Seed = 123
	s := testSampler(t, cfg)

	lines := GridLines(s, 25)
	if len(lines) != 729 {
		t.Fatalf("GridLines produced %d segments, want 27*27 = 729", len(lines))
	}

	for i, line := range lines {
		if len(line) != 2 {
			t.Fatalf("segment %d has %d points, want 2", i, len(line))
		}
		if got := line.Length(); math.Abs(got-25) > 1e-9 {
			t.Errorf("segment %d length = %v, want 25", i, got)
		}
	}

	// Lattice anchors: first segment starts at the origin, rows advance by
	// Resolution.
	if lines[0].Start() != (path.Point{X: 0, Y: 0}) {
		t.Errorf("first segment starts at %v, want origin", lines[0].Start())
	}
	if lines[27].Start() != (path.Point{X: 0, Y: 30}) {
		t.Errorf("second row starts at %v, want (0,30)", lines[27].Start())
	}
}

func TestGridLinesDeterministic(t *testing.T) {
	s := testSampler(t, scenarioFieldConfig())
	first := GridLines(s, 10)
	second := GridLines(s, 10)
	if !reflect.DeepEqual(first, second) {
		t.Error("GridLines is not deterministic for a fixed sampler")
	}
}

func TestTraceLinesParallelDeterministic(t *testing.T) {
	cfg := Config{NumLines: 30, LineLength: 80, StepSize: 2.0}

	run := func() []path.Polyline {
		tracer := NewTracer(testSampler(t, scenarioFieldConfig()), nil)
		lines, err := tracer.TraceLinesParallel(cfg, 99)
		if err != nil {
			t.Fatalf("TraceLinesParallel: %v", err)
		}
		return lines
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Error("TraceLinesParallel is not deterministic for a fixed base seed")
	}
	if len(first) < 1 || len(first) > cfg.NumLines {
		t.Errorf("produced %d lines, want 1..%d", len(first), cfg.NumLines)
	}

	bounds := path.Bounds{Width: 800, Height: 800}
	for i, line := range first {
		for j, pt := range line {
			if !bounds.Contains(pt, cfg.StepSize) {
				t.Errorf("line %d point %d = %v, outside one-step margin", i, j, pt)
			}
		}
	}
}
