// Package path holds the polyline value types shared by the generators and
// the exporter, plus pen-travel metrics for plotter planning.
package path

import "math"

// Point is a 2D canvas coordinate.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance to q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Polyline is an ordered sequence of points forming one connected pen stroke.
// Immutable once produced; points are in traversal order.
type Polyline []Point

// Start returns the first point.
func (p Polyline) Start() Point {
	return p[0]
}

// End returns the last point.
func (p Polyline) End() Point {
	return p[len(p)-1]
}

// Length returns the pen-down travel distance along the polyline.
func (p Polyline) Length() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		total += p[i-1].Dist(p[i])
	}
	return total
}

// Reversed returns a copy with points in the opposite traversal order.
func (p Polyline) Reversed() Polyline {
	out := make(Polyline, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// Bounds is an axis-aligned canvas rectangle anchored at the origin.
type Bounds struct {
	Width, Height float64
}

// Contains reports whether pt lies within the bounds expanded by margin on
// every side.
func (b Bounds) Contains(pt Point, margin float64) bool {
	return pt.X >= -margin && pt.X <= b.Width+margin &&
		pt.Y >= -margin && pt.Y <= b.Height+margin
}

// TotalLength returns the summed pen-down travel of all lines.
func TotalLength(lines []Polyline) float64 {
	var total float64
	for _, line := range lines {
		total += line.Length()
	}
	return total
}

// PenUpTravel returns the travel between the end of each line and the start
// of the next, i.e. the distance the plotter moves with the pen raised when
// drawing lines in the given order.
func PenUpTravel(lines []Polyline) float64 {
	var total float64
	for i := 1; i < len(lines); i++ {
		total += lines[i-1].End().Dist(lines[i].Start())
	}
	return total
}
