package skyline

import "gonum.org/v1/gonum/stat"

// NoSky reports whether a skyline sits implausibly close to the top of the
// image: its mean row is below ratio*height. An empty skyline has no sky.
func NoSky(points []int, height int, ratio float64) bool {
	if len(points) == 0 {
		return true
	}
	rows := make([]float64, len(points))
	for i, p := range points {
		rows[i] = float64(p)
	}
	return stat.Mean(rows, nil) < ratio*float64(height)
}
