package algo

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientSamples is returned when a fit has fewer points than coefficients.
var ErrInsufficientSamples = errors.New("insufficient samples")

// Median returns the median of values, averaging the middle pair for even
// lengths. It returns NaN for an empty slice and does not modify values.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// PolyFit fits a polynomial of the given degree to (x, y) by least squares
// and returns coefficients in ascending power order.
func PolyFit(x, y []float64, degree int) ([]float64, error) {
	n, k := len(x), degree+1
	if n != len(y) {
		return nil, errors.New("x and y lengths differ")
	}
	if n < k {
		return nil, ErrInsufficientSamples
	}
	a := mat.NewDense(n, k, nil)
	for i, xi := range x {
		p := 1.0
		for j := range k {
			a.Set(i, j, p)
			p *= xi
		}
	}
	var coef mat.VecDense
	if err := coef.SolveVec(a, mat.NewVecDense(n, slices.Clone(y))); err != nil {
		return nil, err
	}
	return coef.RawVector().Data, nil
}

// PolyEval evaluates a polynomial with ascending coefficients at x.
func PolyEval(coef []float64, x float64) float64 {
	var v float64
	for i := len(coef) - 1; i >= 0; i-- {
		v = v*x + coef[i]
	}
	return v
}

// Trapezoid integrates f over x with the trapezoid rule. The axis may be in
// any order; samples are integrated in ascending x. A single sample is
// treated as a bin of the given width.
func Trapezoid(x, f []float64, binWidth float64) float64 {
	switch len(x) {
	case 0:
		return 0
	case 1:
		return f[0] * binWidth
	}
	if !slices.IsSorted(x) {
		x, f = sortPairs(x, f)
	}
	return integrate.Trapezoidal(x, f)
}

// sortPairs returns copies of x and f reordered by ascending x.
func sortPairs(x, f []float64) ([]float64, []float64) {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(x[a], x[b]) })
	xs, fs := make([]float64, len(x)), make([]float64, len(f))
	for i, j := range idx {
		xs[i], fs[i] = x[j], f[j]
	}
	return xs, fs
}

// PopulationStdDev returns the population standard deviation of values, or
// zero when fewer than two values are given.
func PopulationStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	_, variance := stat.PopMeanVariance(values, nil)
	return math.Sqrt(variance)
}

// MeanStdErr returns the mean of values and the standard error of the mean
// using the unbiased sample standard deviation. A single value has zero
// standard error.
func MeanStdErr(values []float64) (float64, float64) {
	switch len(values) {
	case 0:
		return math.NaN(), math.NaN()
	case 1:
		return values[0], 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	return mean, std / math.Sqrt(float64(len(values)))
}

// QuadratureMean combines per-sample uncertainties into the uncertainty of
// their mean, sqrt(sum sigma^2) / n.
func QuadratureMean(sigmas []float64) float64 {
	if len(sigmas) == 0 {
		return 0
	}
	return floats.Norm(sigmas, 2) / float64(len(sigmas))
}

// Quadrature returns sqrt(a^2 + b^2).
func Quadrature(a, b float64) float64 {
	return math.Hypot(a, b)
}
