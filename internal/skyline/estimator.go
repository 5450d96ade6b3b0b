package skyline

// Candidate is the boundary row found for one column. Valid is false when the
// column has no edge or the edge lies inside a margin.
type Candidate struct {
	Row   int
	Valid bool
}

// firstEdge returns the topmost Edge row of column x.
func firstEdge(m *EdgeMap, x int) (int, bool) {
	for y := 0; y < m.Height; y++ {
		if m.At(x, y) == Edge {
			return y, true
		}
	}
	return 0, false
}

// ScanColumns finds the raw boundary candidate of every column. A candidate
// at row r survives only when top < r < height-bottom; rows exactly on a
// margin are rejected.
func ScanColumns(m *EdgeMap, top, bottom int) []Candidate {
	candidates := make([]Candidate, m.Width)
	for x := 0; x < m.Width; x++ {
		row, ok := firstEdge(m, x)
		if ok && row > top && row < m.Height-bottom {
			candidates[x] = Candidate{Row: row, Valid: true}
		}
	}
	return candidates
}

// Refine turns candidates into one concrete row per column.
//
// Between the first and last valid column every gap takes the row of the
// column to its left. Columns before the first valid column take its row and
// columns after the last take that one's row. When no column is valid every
// row is 0.
func Refine(candidates []Candidate) []int {
	points := make([]int, len(candidates))

	first, last := -1, -1
	for i, c := range candidates {
		if c.Valid {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return points
	}

	for i := first; i <= last; i++ {
		if candidates[i].Valid {
			points[i] = candidates[i].Row
		} else {
			points[i] = points[i-1]
		}
	}
	for i := 0; i < first; i++ {
		points[i] = points[first]
	}
	for i := last + 1; i < len(points); i++ {
		points[i] = points[last]
	}
	return points
}

// Estimate runs ScanColumns and Refine.
func Estimate(m *EdgeMap, top, bottom int) []int {
	return Refine(ScanColumns(m, top, bottom))
}
