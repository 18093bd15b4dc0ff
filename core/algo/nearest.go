package algo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// NearestIndex returns the index of the axis value closest to target and the
// absolute distance to it. Ties resolve to the lower index. An empty axis
// returns -1 and +Inf.
func NearestIndex(axis []float64, target float64) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, v := range axis {
		d := math.Abs(v - target)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// MeanSpacing returns the extent of an axis divided by its number of steps,
// or zero when the axis has fewer than two points. The axis need not be sorted.
func MeanSpacing(axis []float64) float64 {
	if len(axis) < 2 {
		return 0
	}
	return (floats.Max(axis) - floats.Min(axis)) / float64(len(axis)-1)
}
