package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuroraLines(t *testing.T) {
	standard := AuroraLines(false)
	labels := make([]string, len(standard))
	for i, g := range standard {
		labels[i] = g.Label()
	}
	assert.Equal(t, []string{"557.7", "630.0", "636.4", "777.4", "844.6"}, labels)

	extended := AuroraLines(true)
	assert.Len(t, extended, len(standard)+6)

	seen := make(map[LineID]struct{})
	for i, g := range extended {
		_, dup := seen[g.ID]
		assert.False(t, dup, "duplicate id %s", g.ID)
		seen[g.ID] = struct{}{}
		assert.InDelta(t, 1.0, g.TotalStrength(), 1e-3, "strengths of %s", g.ID)
		if i > 0 {
			assert.Less(t, extended[i-1].MeanWavelength(), g.MeanWavelength())
		}
	}
}

func TestAuroraLinesReturnsCopy(t *testing.T) {
	a := AuroraLines(false)
	a[0].ID = "mutated"
	b := AuroraLines(false)
	assert.Equal(t, OI5577, b[0].ID)
}

func TestLineGroupAccessors(t *testing.T) {
	g := LineGroup{ID: OI7774, Species: "O I", Lines: []EmissionLine{
		{777.1944, 0.4667}, {777.4166, 0.3333}, {777.5388, 0.2},
	}}
	assert.Equal(t, []float64{777.1944, 777.4166, 777.5388}, g.Wavelengths())
	assert.Equal(t, []float64{0.4667, 0.3333, 0.2}, g.Strengths())
	assert.InDelta(t, 777.3833, g.MeanWavelength(), 1e-4)
	assert.Equal(t, "777.4", g.Label())
	assert.Equal(t, "O I 777.4 nm", g.String())

	var empty LineGroup
	assert.Zero(t, empty.MeanWavelength())
	assert.Zero(t, empty.TotalStrength())
}

func TestFindLineGroup(t *testing.T) {
	groups := AuroraLines(false)

	g, ok, err := FindLineGroup(groups, "630.0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, OI6300, g.ID)

	g, ok, err = FindLineGroup(groups, "777.4 nm")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, OI7774, g.ID)

	g, ok, err = FindLineGroup(groups, "oi-557.7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, OI5577, g.ID)

	_, ok, err = FindLineGroup(groups, "589.3")
	require.NoError(t, err)
	assert.False(t, ok, "extended line is not in the standard catalog")
}

func TestFindLineGroupAmbiguousLabel(t *testing.T) {
	groups := []LineGroup{
		{ID: "A-630.0", Lines: []EmissionLine{{630.01, 1}}},
		{ID: "B-630.0", Lines: []EmissionLine{{630.04, 1}}},
	}
	_, ok, err := FindLineGroup(groups, "630.0")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "A-630.0, B-630.0")

	g, ok, err := FindLineGroup(groups, "B-630.0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, LineID("B-630.0"), g.ID)
}
