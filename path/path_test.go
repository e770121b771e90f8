package path

import (
	"math"
	"testing"
)

func TestPolylineLength(t *testing.T) {
	tests := []struct {
		name string
		line Polyline
		want float64
	}{
		{"single point", Polyline{{0, 0}}, 0},
		{"unit segment", Polyline{{0, 0}, {1, 0}}, 1},
		{"right angle", Polyline{{0, 0}, {3, 0}, {3, 4}}, 7},
		{"diagonal", Polyline{{0, 0}, {3, 4}}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.Length(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Length() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolylineReversed(t *testing.T) {
	line := Polyline{{0, 0}, {1, 1}, {2, 0}}
	rev := line.Reversed()

	if rev.Start() != line.End() || rev.End() != line.Start() {
		t.Errorf("Reversed() endpoints = %v..%v, want %v..%v", rev.Start(), rev.End(), line.End(), line.Start())
	}
	// Original untouched
	if line[0] != (Point{0, 0}) {
		t.Errorf("Reversed() mutated the receiver: %v", line)
	}
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{Width: 800, Height: 800}
	tests := []struct {
		name   string
		pt     Point
		margin float64
		want   bool
	}{
		{"center", Point{400, 400}, 0, true},
		{"corner", Point{0, 0}, 0, true},
		{"far edge", Point{800, 800}, 0, true},
		{"just outside no margin", Point{800.1, 400}, 0, false},
		{"within margin", Point{-2, 400}, 2, true},
		{"beyond margin", Point{-2.1, 400}, 2, false},
		{"y beyond margin", Point{400, 802.5}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.pt, tt.margin); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.pt, tt.margin, got, tt.want)
			}
		})
	}
}

func TestPenUpTravel(t *testing.T) {
	lines := []Polyline{
		{{0, 0}, {10, 0}},
		{{10, 0}, {20, 0}}, // continues exactly where the last ended
		{{20, 3}, {20, 10}},
	}
	want := 3.0
	if got := PenUpTravel(lines); math.Abs(got-want) > 1e-12 {
		t.Errorf("PenUpTravel() = %v, want %v", got, want)
	}

	if got := PenUpTravel(lines[:1]); got != 0 {
		t.Errorf("PenUpTravel(single line) = %v, want 0", got)
	}
}

func TestSortReducesPenUpTravel(t *testing.T) {
	// Deliberately bad ordering: alternating between two clusters.
	lines := []Polyline{
		{{0, 0}, {10, 0}},
		{{500, 500}, {510, 500}},
		{{10, 5}, {20, 5}},
		{{510, 505}, {520, 505}},
	}

	sorted := Sort(lines)
	if len(sorted) != len(lines) {
		t.Fatalf("Sort() returned %d lines, want %d", len(sorted), len(lines))
	}
	if got, orig := PenUpTravel(sorted), PenUpTravel(lines); got > orig {
		t.Errorf("Sort() pen-up travel %v exceeds original %v", got, orig)
	}

	// Pen-down travel is preserved: reordering and reversing never adds ink.
	if got, orig := TotalLength(sorted), TotalLength(lines); math.Abs(got-orig) > 1e-12 {
		t.Errorf("Sort() changed pen-down travel: %v vs %v", got, orig)
	}
}

func TestSortReversesWhenEndIsCloser(t *testing.T) {
	lines := []Polyline{
		{{100, 0}, {1, 0}}, // end is nearest to the origin start position
	}
	sorted := Sort(lines)
	if sorted[0].Start() != (Point{1, 0}) {
		t.Errorf("Sort() start = %v, want reversed line starting at (1,0)", sorted[0].Start())
	}
}

func TestSortEmptyAndSingle(t *testing.T) {
	if got := Sort(nil); len(got) != 0 {
		t.Errorf("Sort(nil) = %v, want empty", got)
	}
	single := []Polyline{{{1, 2}, {3, 4}}}
	got := Sort(single)
	if len(got) != 1 || got[0].Start() != (Point{1, 2}) {
		t.Errorf("Sort(single) = %v, want unchanged copy", got)
	}
}
