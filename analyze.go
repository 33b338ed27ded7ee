// Package curvelab is the curve-analysis engine behind a 2-D chart
// explorer. It evaluates user formulas over a closed function
// namespace, fits degree-1 least-squares lines, locates the dataset
// centroid ("G Point"), estimates the slope there by windowed local
// regression with graceful degradation on degenerate data, and picks
// random sample points for annotation.
//
// Design goals:
//   - Safe evaluation: a fixed whitelist of names, no host access
//   - Pure analysis: each call is a function of its inputs, except the
//     deliberately random highlight selection
//   - Advisory slope: local estimation failures become NaN, never errors
package curvelab

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ============================================================
// Curve Analyzer
// ============================================================

// Mode selects which of the two input shapes a request carries.
type Mode int

const (
	// PointMode analyzes explicit (x, y) samples and computes a global
	// best-fit line.
	PointMode Mode = iota
	// EquationMode analyzes samples generated from a formula; no global
	// fit is assumed.
	EquationMode
)

func (m Mode) String() string {
	switch m {
	case PointMode:
		return "points"
	case EquationMode:
		return "equation"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// slopeWindow is the neighbor count on each side of the centroid used
// by the local slope estimate.
const slopeWindow = 3

// maxHighlights is how many random samples get annotated on the chart.
const maxHighlights = 2

// FitLine is a degree-1 least-squares fit y = Intercept + Slope*x.
type FitLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at x.
func (f FitLine) At(x float64) float64 { return f.Intercept + f.Slope*x }

// AnalysisResult is created fresh per draw request and never mutated.
// X and Y are the filtered, ascending-x samples the renderer should
// scatter; Fit and FitY are present only when a global fit was
// computed; Slope is NaN when undefined; Highlights indexes into X/Y.
type AnalysisResult struct {
	X []float64
	Y []float64

	GX float64
	GY float64

	Slope float64
	Fit   *FitLine
	FitY  []float64

	Highlights []int
}

// Analyze runs the full pipeline on one (x, y) pair: finiteness
// filter, stable ascending-x sort, optional global fit, centroid,
// slope at the centroid, and random highlight selection. Mismatched
// lengths wrap ErrShape; input with no finite rows wraps ErrEmptyData.
// Highlights come from the process-global random source; use
// AnalyzeRand to pin them.
func Analyze(x, y []float64, mode Mode) (*AnalysisResult, error) {
	return AnalyzeRand(x, y, mode, nil)
}

// AnalyzeRand is Analyze with an explicit random source for the
// highlight selection. A nil rng uses the process-global source.
func AnalyzeRand(x, y []float64, mode Mode, rng *rand.Rand) (*AnalysisResult, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: x has %d values, y has %d", ErrShape, len(x), len(y))
	}
	xs, ys := filterFinite(x, y)
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: no finite data to analyze", ErrEmptyData)
	}
	sortByX(xs, ys)

	res := &AnalysisResult{
		X:     xs,
		Y:     ys,
		GX:    stat.Mean(xs, nil),
		GY:    stat.Mean(ys, nil),
		Slope: math.NaN(),
	}

	// A degenerate fit (zero x-variance) counts as no fit at all; the
	// local estimator then decides, usually ending in NaN.
	if mode == PointMode && len(xs) >= 2 {
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		if isFinite(alpha) && isFinite(beta) {
			fit := &FitLine{Slope: beta, Intercept: alpha}
			res.Fit = fit
			res.FitY = make([]float64, len(xs))
			for i, v := range xs {
				res.FitY[i] = fit.At(v)
			}
		}
	}

	if res.Fit != nil {
		res.Slope = res.Fit.Slope
	} else {
		res.Slope = localSlope(xs, ys, res.GX, slopeWindow)
	}

	res.Highlights = pickHighlights(len(xs), rng)
	return res, nil
}

// ============================================================
// Local slope estimation
// ============================================================

// localSlope estimates dy/dx at x0 from a symmetric window of sorted
// samples. The fallback ladder is explicit: window fit, widen to the
// whole array when the window has fewer than 2 distinct x values, NaN
// when even the whole array is degenerate or the fit itself fails.
func localSlope(xs, ys []float64, x0 float64, window int) float64 {
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}

	idx := nearestIndex(xs, x0)
	lo := idx - window
	if lo < 0 {
		lo = 0
	}
	hi := idx + window + 1
	if hi > n {
		hi = n
	}
	xw, yw := xs[lo:hi], ys[lo:hi]

	if distinctSorted(xw) < 2 {
		if distinctSorted(xs) < 2 {
			return math.NaN()
		}
		xw, yw = xs, ys
	}

	_, slope := stat.LinearRegression(xw, yw, nil, false)
	if !isFinite(slope) {
		return math.NaN()
	}
	return slope
}

// nearestIndex returns the first index whose value is closest to x0.
func nearestIndex(xs []float64, x0 float64) int {
	best := 0
	bestDist := math.Abs(xs[0] - x0)
	for i := 1; i < len(xs); i++ {
		if d := math.Abs(xs[i] - x0); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// distinctSorted counts distinct values in an ascending slice.
func distinctSorted(xs []float64) int {
	if len(xs) == 0 {
		return 0
	}
	count := 1
	for i := 1; i < len(xs); i++ {
		if xs[i] != xs[i-1] {
			count++
		}
	}
	return count
}

// ============================================================
// Filtering, ordering, highlight selection
// ============================================================

// filterFinite drops every pair with a non-finite side and returns
// fresh slices.
func filterFinite(x, y []float64) (xs, ys []float64) {
	xs = make([]float64, 0, len(x))
	ys = make([]float64, 0, len(y))
	for i := range x {
		if isFinite(x[i]) && isFinite(y[i]) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	return xs, ys
}

// sortByX reorders both slices by ascending x. The sort is stable:
// ties keep their original relative order.
func sortByX(xs, ys []float64) {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	sx := make([]float64, len(xs))
	sy := make([]float64, len(ys))
	for i, j := range idx {
		sx[i] = xs[j]
		sy[i] = ys[j]
	}
	copy(xs, sx)
	copy(ys, sy)
}

// pickHighlights chooses min(maxHighlights, n) distinct indices
// uniformly without replacement.
func pickHighlights(n int, rng *rand.Rand) []int {
	k := maxHighlights
	if n < k {
		k = n
	}
	if k == 0 {
		return nil
	}
	var perm []int
	if rng != nil {
		perm = rng.Perm(n)
	} else {
		perm = rand.Perm(n)
	}
	return perm[:k]
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
