// Package tabulated implements the N-variable tabulated energy function
// (spec.md §4.7, component C7): a Delaunay-style simplex triangulation
// over an arbitrary-dimension input point set with barycentric
// interpolation inside the convex hull.
package tabulated

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrOutsideConvexHull is spec.md's `OutsideConvexHull`.
var ErrOutsideConvexHull = errors.New("tabulated: query point lies outside the sampled convex hull")

// ErrNoOutputColumn is the configuration-time rejection when neither
// POWER nor FUEL is present (spec.md §4.7 "Required header: exactly one
// of {POWER, FUEL}").
var ErrNoOutputColumn = errors.New("tabulated: table must carry POWER and/or FUEL")

// ErrDimensionMismatch flags a sample whose coordinate count does not
// match the table's declared dimension.
var ErrDimensionMismatch = errors.New("tabulated: sample dimension does not match table dimension")

// Sample is one row of the table: an N-dimensional input coordinate with
// one or both output columns present.
type Sample struct {
	Point []float64
	Power *float64
	Fuel  *float64
}

// Table is the full input point set for one tabulated energy function.
type Table struct {
	Dim     int
	Samples []Sample
}

// Validate enforces the dimension and required-output-column invariants.
func (tb Table) Validate() error {
	hasPower, hasFuel := false, false
	for _, s := range tb.Samples {
		if len(s.Point) != tb.Dim {
			return ErrDimensionMismatch
		}
		if s.Power != nil {
			hasPower = true
		}
		if s.Fuel != nil {
			hasFuel = true
		}
	}
	if !hasPower && !hasFuel {
		return ErrNoOutputColumn
	}
	return nil
}

// Result is a query outcome: the interpolated output value(s) and validity.
type Result struct {
	Power    float64
	Fuel     float64
	HasPower bool
	HasFuel  bool
	Valid    bool
	Failure  error
}

const barycentricTol = 1e-7

// Query implements spec.md §4.7: find the simplex of Dim+1 samples whose
// convex hull contains point, via brute-force combinatorial search over
// the sample set (practical for the modest table sizes facility
// characterization CSVs produce; a full incremental Delaunay algorithm is
// unnecessary at this scale), then barycentric-interpolate each present
// output column. A point outside every simplex is OutsideConvexHull.
func (tb Table) Query(point []float64) Result {
	if len(point) != tb.Dim {
		return Result{Failure: ErrDimensionMismatch}
	}
	n := tb.Dim + 1
	if len(tb.Samples) < n {
		return Result{Failure: ErrOutsideConvexHull}
	}

	weights := make([]float64, n)
	combo := make([]int, n)
	found := false
	var best []int

	var recurse func(start, depth int) bool
	recurse = func(start, depth int) bool {
		if depth == n {
			w, ok := barycentricWeights(tb.Samples, combo, point)
			if ok {
				copy(weights, w)
				best = append([]int{}, combo...)
				return true
			}
			return false
		}
		for i := start; i < len(tb.Samples); i++ {
			combo[depth] = i
			if recurse(i+1, depth+1) {
				return true
			}
		}
		return false
	}
	found = recurse(0, 0)
	if !found {
		return Result{Failure: ErrOutsideConvexHull}
	}

	res := Result{Valid: true}
	var powerSum, fuelSum float64
	hasPower, hasFuel := true, true
	for i, idx := range best {
		s := tb.Samples[idx]
		if s.Power != nil {
			powerSum += weights[i] * (*s.Power)
		} else {
			hasPower = false
		}
		if s.Fuel != nil {
			fuelSum += weights[i] * (*s.Fuel)
		} else {
			hasFuel = false
		}
	}
	res.HasPower, res.Power = hasPower, powerSum
	res.HasFuel, res.Fuel = hasFuel, fuelSum
	return res
}

// barycentricWeights solves for the barycentric coordinates of point
// within the simplex formed by samples[combo], returning ok=false if the
// simplex is degenerate or point falls outside it (any weight outside
// [-tol, 1+tol]).
func barycentricWeights(samples []Sample, combo []int, point []float64) ([]float64, bool) {
	n := len(combo)
	dim := n - 1
	last := samples[combo[dim]].Point

	// A's rows are vertex-difference vectors (vertex_i - last); solving
	// A^T * w = (point - last) gives the first `dim` barycentric weights.
	a := mat.NewDense(dim, dim, nil)
	for row := 0; row < dim; row++ {
		vi := samples[combo[row]].Point
		for col := 0; col < dim; col++ {
			a.Set(row, col, vi[col]-last[col])
		}
	}
	at := mat.DenseCopyOf(a.T())

	rhs := mat.NewVecDense(dim, nil)
	for i := 0; i < dim; i++ {
		rhs.SetVec(i, point[i]-last[i])
	}

	var lu mat.LU
	lu.Factorize(at)
	if lu.Cond() > 1e12 {
		return nil, false
	}

	var w mat.VecDense
	if err := lu.SolveVecTo(&w, false, rhs); err != nil {
		return nil, false
	}

	weights := make([]float64, n)
	var sum float64
	for i := 0; i < dim; i++ {
		weights[i] = w.AtVec(i)
		sum += weights[i]
	}
	weights[dim] = 1 - sum

	for _, wt := range weights {
		if wt < -barycentricTol || wt > 1+barycentricTol {
			return nil, false
		}
	}
	return weights, true
}
