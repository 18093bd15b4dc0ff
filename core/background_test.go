package core

import (
	"testing"

	"github.com/huangsam/aurora/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureOrder(t *testing.T, opts OrderOptions, background func(int) float64) *OrderData {
	t.Helper()
	seq := newFixtureSequence(630.0304, []float64{100, 100, 100}, background)
	od, err := NewOrderData(seq, singleLine(schema.OI6300, 630.0304, 1), opts)
	require.NoError(t, err)
	return od
}

func TestNewBackgroundAperture(t *testing.T) {
	od := newFixtureOrder(t, fixtureOptions(), flat(7))

	bg, err := NewBackground(od, 0, schema.MedianBackground)
	require.NoError(t, err)
	assert.Equal(t, schema.Aperture{Start: 8, End: 12, Center: 10, HalfWidth: 2}, bg.Aperture)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 13, 14, 15, 16, 17, 18, 19}, bg.SampleRows())
	assert.True(t, bg.InAperture(8))
	assert.True(t, bg.InAperture(12))
	assert.False(t, bg.InAperture(13))

	for f := range od.Frames() {
		assert.Equal(t, 7.0, bg.MeanLevel(f))
		assert.Zero(t, bg.Scatter(f))
		assert.Equal(t, 7.0, bg.Level(f, 10, 3))
	}
}

func TestNewBackgroundTargetRadiusWidensAperture(t *testing.T) {
	od := newFixtureOrder(t, fixtureOptions(), flat(0))
	od.TargetRadius = 0.6 // (0.6 + 1) / 0.5 rounds up to 4 rows

	bg, err := NewBackground(od, 0, schema.MedianBackground)
	require.NoError(t, err)
	assert.Equal(t, 4, bg.Aperture.HalfWidth)
	assert.Equal(t, 6, bg.Aperture.Start)
	assert.Equal(t, 14, bg.Aperture.End)
}

func TestNewBackgroundYOffsetShiftsAperture(t *testing.T) {
	od := newFixtureOrder(t, fixtureOptions(), flat(0))

	base, err := NewBackground(od, 0, schema.MedianBackground)
	require.NoError(t, err)

	for _, offset := range []int{-3, -1, 1, 3} {
		bg, err := NewBackground(od, offset, schema.MedianBackground)
		require.NoError(t, err)
		assert.Equal(t, base.Aperture.Center+offset, bg.Aperture.Center, "offset %d", offset)
		assert.Equal(t, base.Aperture.Start+offset, bg.Aperture.Start)
		assert.Equal(t, base.Aperture.End+offset, bg.Aperture.End)

		excluded := make(map[int]bool)
		for r := od.RowStart; r < od.RowEnd; r++ {
			excluded[r] = true
		}
		for _, r := range bg.SampleRows() {
			delete(excluded, r)
		}
		for r := base.Aperture.Start + offset; r <= base.Aperture.End+offset; r++ {
			assert.True(t, excluded[r], "row %d must not be sampled with offset %d", r, offset)
		}
		assert.Len(t, excluded, bg.Aperture.Rows())
	}
}

func TestNewBackgroundClampPolicy(t *testing.T) {
	opts := fixtureOptions()
	opts.TopTrim, opts.BottomTrim = 2, 2
	od := newFixtureOrder(t, opts, flat(0))

	// Center 18, rows 16..20 reach past the last trimmed row 17.
	bg, err := NewBackground(od, 8, schema.MedianBackground)
	require.NoError(t, err)
	assert.True(t, bg.Aperture.Clamped)
	assert.Equal(t, 16, bg.Aperture.Start)
	assert.Equal(t, 17, bg.Aperture.End)
	assert.Len(t, bg.SampleRows(), od.TrimmedRows()-2)

	bg, err = NewBackground(od, 0, schema.MedianBackground)
	require.NoError(t, err)
	assert.False(t, bg.Aperture.Clamped)

	// Entirely below the trimmed rows.
	_, err = NewBackground(od, 30, schema.MedianBackground)
	assert.ErrorIs(t, err, ErrApertureOutOfRange)

	// Entirely above the trimmed rows.
	_, err = NewBackground(od, -30, schema.MedianBackground)
	assert.ErrorIs(t, err, ErrApertureOutOfRange)
}

func TestNewBackgroundNoSampleRows(t *testing.T) {
	opts := fixtureOptions()
	opts.Seeing = 20
	od := newFixtureOrder(t, opts, flat(0))

	_, err := NewBackground(od, 0, schema.MedianBackground)
	assert.ErrorIs(t, err, ErrNoBackgroundRows)
}

func TestNewBackgroundPolyFollowsGradient(t *testing.T) {
	gradient := func(r int) float64 { return 5 + 0.5*float64(r) }
	od := newFixtureOrder(t, fixtureOptions(), gradient)

	poly, err := NewBackground(od, 0, schema.PolyBackground)
	require.NoError(t, err)
	assert.Equal(t, schema.PolyBackground, poly.Method)
	for r := od.RowStart; r < od.RowEnd; r++ {
		assert.InDelta(t, gradient(r), poly.Level(0, r, 0), 1e-9, "row %d", r)
	}
	assert.InDelta(t, 0, poly.Scatter(0), 1e-9)

	median, err := NewBackground(od, 0, schema.MedianBackground)
	require.NoError(t, err)
	assert.Equal(t, 8.5, median.Level(0, 10, 0), "median of rows 0..7 and 13..19 is row 7")
	assert.Greater(t, median.Scatter(0), 0.0)
}

func TestNewBackgroundDefaultsToMedian(t *testing.T) {
	od := newFixtureOrder(t, fixtureOptions(), flat(3))
	bg, err := NewBackground(od, 0, "")
	require.NoError(t, err)
	assert.Equal(t, schema.MedianBackground, bg.Method)
}

func TestBackgroundSubtracted(t *testing.T) {
	od := newFixtureOrder(t, fixtureOptions(), flat(7))
	bg, err := NewBackground(od, 0, schema.MedianBackground)
	require.NoError(t, err)

	sub := bg.Subtracted(0)
	require.Len(t, sub, od.Columns())
	wl := od.Wavelengths()
	for c, v := range sub {
		assert.InDelta(t, 100*gaussian(wl[c], 630.0304, fixtureSigma), v, 1e-9)
	}
}
