package path

// Sort reorders lines to reduce pen-up travel: starting from the origin it
// greedily picks the unvisited line with the nearest endpoint, reversing the
// line when its end is closer than its start. The input is not modified;
// point order within each line is preserved up to whole-line reversal.
func Sort(lines []Polyline) []Polyline {
	out := make([]Polyline, 0, len(lines))
	visited := make([]bool, len(lines))
	current := Point{}

	for range lines {
		best := -1
		bestDist := 0.0
		bestReverse := false
		for i, line := range lines {
			if visited[i] || len(line) == 0 {
				continue
			}
			if d := current.Dist(line.Start()); best == -1 || d < bestDist {
				best, bestDist, bestReverse = i, d, false
			}
			if d := current.Dist(line.End()); d < bestDist {
				best, bestDist, bestReverse = i, d, true
			}
		}
		if best == -1 {
			break
		}
		visited[best] = true
		next := lines[best]
		if bestReverse {
			next = next.Reversed()
		}
		out = append(out, next)
		current = next.End()
	}

	return out
}
