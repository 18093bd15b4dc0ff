package schema

import (
	"fmt"
	"strings"
)

// EmissionLine is a single auroral transition.
type EmissionLine struct {
	RestWavelength float64 `json:"rest_wavelength"` // nm, air
	LineStrength   float64 `json:"line_strength"`   // fraction of the group's emission
}

// LineGroup is one or more closely spaced transitions retrieved together
// from a single spectral order.
type LineGroup struct {
	ID      LineID         `json:"id"`
	Species string         `json:"species"`
	Lines   []EmissionLine `json:"lines"`
}

// Wavelengths returns the rest wavelengths of the group in catalog order.
func (g LineGroup) Wavelengths() []float64 {
	out := make([]float64, len(g.Lines))
	for i, l := range g.Lines {
		out[i] = l.RestWavelength
	}
	return out
}

// Strengths returns the line strengths of the group in catalog order.
func (g LineGroup) Strengths() []float64 {
	out := make([]float64, len(g.Lines))
	for i, l := range g.Lines {
		out[i] = l.LineStrength
	}
	return out
}

// MeanWavelength returns the unweighted mean rest wavelength.
func (g LineGroup) MeanWavelength() float64 {
	if len(g.Lines) == 0 {
		return 0
	}
	var sum float64
	for _, l := range g.Lines {
		sum += l.RestWavelength
	}
	return sum / float64(len(g.Lines))
}

// TotalStrength returns the summed line strength of the group.
func (g LineGroup) TotalStrength() float64 {
	var sum float64
	for _, l := range g.Lines {
		sum += l.LineStrength
	}
	return sum
}

// Label returns the mean wavelength rounded to one decimal, e.g. "630.0".
func (g LineGroup) Label() string {
	return FormatWavelengthLabel(g.MeanWavelength())
}

// String implements fmt.Stringer.
func (g LineGroup) String() string {
	return fmt.Sprintf("%s %s nm", g.Species, g.Label())
}

// Line group identifiers.
const (
	OI5577   LineID = "OI-557.7"
	OI6300   LineID = "OI-630.0"
	OI6364   LineID = "OI-636.4"
	OI7774   LineID = "OI-777.4"
	OI8446   LineID = "OI-844.6"
	HI6563   LineID = "HI-656.3"
	NaI5893  LineID = "NaI-589.3"
	KI7682   LineID = "KI-768.2"
	OII7325  LineID = "OII-732.5"
	NI8216   LineID = "NI-821.6"
	SIII9069 LineID = "SIII-906.9"
)

var standardLines = []LineGroup{
	{ID: OI5577, Species: "O I", Lines: []EmissionLine{{557.7339, 1}}},
	{ID: OI6300, Species: "O I", Lines: []EmissionLine{{630.0304, 1}}},
	{ID: OI6364, Species: "O I", Lines: []EmissionLine{{636.3776, 1}}},
	{ID: OI7774, Species: "O I", Lines: []EmissionLine{
		{777.1944, 0.4667},
		{777.4166, 0.3333},
		{777.5388, 0.2000},
	}},
	{ID: OI8446, Species: "O I", Lines: []EmissionLine{
		{844.6247, 0.1111},
		{844.6359, 0.5556},
		{844.6758, 0.3333},
	}},
}

var extendedLines = []LineGroup{
	{ID: NaI5893, Species: "Na I", Lines: []EmissionLine{
		{588.9950, 0.6667},
		{589.5924, 0.3333},
	}},
	{ID: HI6563, Species: "H I", Lines: []EmissionLine{{656.2793, 1}}},
	{ID: OII7325, Species: "O II", Lines: []EmissionLine{
		{731.9990, 0.5500},
		{733.0730, 0.4500},
	}},
	{ID: KI7682, Species: "K I", Lines: []EmissionLine{
		{766.4899, 0.6667},
		{769.8965, 0.3333},
	}},
	{ID: NI8216, Species: "N I", Lines: []EmissionLine{{821.6336, 1}}},
	{ID: SIII9069, Species: "S III", Lines: []EmissionLine{{906.8600, 1}}},
}

// AuroraLines returns the catalog of line groups to retrieve, ordered by
// mean wavelength. The extended set adds fainter or less common features.
func AuroraLines(extended bool) []LineGroup {
	out := make([]LineGroup, 0, len(standardLines)+len(extendedLines))
	out = append(out, standardLines...)
	if extended {
		out = append(out, extendedLines...)
	}
	SortLineGroups(out)
	return out
}

// FindLineGroup resolves a key against the given groups. The key may be a
// line ID or a rounded wavelength label, optionally suffixed with "nm".
// Returns false when no group matches and an error when a label is ambiguous.
func FindLineGroup(groups []LineGroup, key string) (LineGroup, bool, error) {
	k := strings.TrimSpace(key)
	for _, g := range groups {
		if strings.EqualFold(string(g.ID), k) {
			return g, true, nil
		}
	}

	label := strings.TrimSpace(strings.TrimSuffix(k, "nm"))
	var matches []LineGroup
	for _, g := range groups {
		if g.Label() == label {
			matches = append(matches, g)
		}
	}
	switch len(matches) {
	case 0:
		return LineGroup{}, false, nil
	case 1:
		return matches[0], true, nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = string(m.ID)
		}
		return LineGroup{}, false, fmt.Errorf("label %q matches several lines (%s), use a line ID", label, strings.Join(ids, ", "))
	}
}
