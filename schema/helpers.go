package schema

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FormatWavelengthLabel formats a wavelength in nm to one decimal place.
func FormatWavelengthLabel(wavelength float64) string {
	return strconv.FormatFloat(wavelength, 'f', 1, 64)
}

// FormatWavelengths joins wavelengths as "777.194, 777.417, 777.539".
func FormatWavelengths(wavelengths []float64) string {
	parts := make([]string, len(wavelengths))
	for i, w := range wavelengths {
		parts[i] = strconv.FormatFloat(w, 'f', 3, 64)
	}
	return strings.Join(parts, ", ")
}

// FormatIndices formats frame indices as "0, 1, 2" or "none".
func FormatIndices(indices []int) string {
	if len(indices) == 0 {
		return "none"
	}
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ", ")
}

// FormatBrightness formats a brightness with its uncertainty, e.g. "12.3 ± 0.4 R".
func FormatBrightness(value, uncertainty float64, precision int) string {
	if math.IsNaN(value) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f ± %.*f %s", precision, value, precision, uncertainty, BrightnessUnit)
}

// SortLineGroups sorts groups by mean wavelength, then ID.
func SortLineGroups(groups []LineGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		wi, wj := groups[i].MeanWavelength(), groups[j].MeanWavelength()
		if wi != wj {
			return wi < wj
		}
		return groups[i].ID < groups[j].ID
	})
}

// SortedIndices returns the keys of an index set in ascending order.
func SortedIndices(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
