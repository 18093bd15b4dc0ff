package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupLine(t *testing.T) {
	g, ok := LookupLine(OI6300)
	assert.True(t, ok)
	assert.Equal(t, "630.0", g.Label())

	g, ok = LookupLine(NaI5893)
	assert.True(t, ok, "extended lines are indexed too")
	assert.Len(t, g.Lines, 2)

	_, ok = LookupLine("XX-000.0")
	assert.False(t, ok)
}
