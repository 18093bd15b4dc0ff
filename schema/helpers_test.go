package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWavelengthLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{630.0304, "630.0"},
		{777.3833, "777.4"},
		{557.7339, "557.7"},
		{636.3776, "636.4"},
		{0, "0.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWavelengthLabel(tt.in))
	}
}

func TestFormatWavelengths(t *testing.T) {
	assert.Equal(t, "777.194, 777.417", FormatWavelengths([]float64{777.1944, 777.4166}))
	assert.Equal(t, "", FormatWavelengths(nil))
}

func TestFormatIndices(t *testing.T) {
	assert.Equal(t, "none", FormatIndices(nil))
	assert.Equal(t, "0, 2, 5", FormatIndices([]int{0, 2, 5}))
}

func TestFormatBrightness(t *testing.T) {
	assert.Equal(t, "12.35 ± 0.40 R", FormatBrightness(12.345, 0.4, 2))
	assert.Equal(t, "n/a", FormatBrightness(math.NaN(), 0, 2))
}

func TestSortedIndices(t *testing.T) {
	set := map[int]struct{}{4: {}, 1: {}, 3: {}}
	assert.Equal(t, []int{1, 3, 4}, SortedIndices(set))
	assert.Empty(t, SortedIndices(nil))
}

func TestSortLineGroups(t *testing.T) {
	groups := []LineGroup{
		{ID: "b", Lines: []EmissionLine{{700, 1}}},
		{ID: "a", Lines: []EmissionLine{{500, 1}}},
		{ID: "c", Lines: []EmissionLine{{500, 1}}},
	}
	SortLineGroups(groups)
	assert.Equal(t, LineID("a"), groups[0].ID)
	assert.Equal(t, LineID("c"), groups[1].ID)
	assert.Equal(t, LineID("b"), groups[2].ID)
}
