// Package turbine implements the turbine power-to-fuel map (spec.md
// §4.6, component C6) and its composite use downstream of a compressor
// train's shaft power.
package turbine

import (
	"errors"
	"sort"
)

const secondsPerDay = 86400.0

// ErrAboveTurbineCapacity is spec.md's `AboveTurbineCapacity`.
var ErrAboveTurbineCapacity = errors.New("turbine: requested load exceeds the tabulated turbine capacity")

// ErrInvalidTable is returned when the load/efficiency tables are
// malformed (mismatched lengths, not starting at 0, or not strictly
// increasing in load).
var ErrInvalidTable = errors.New("turbine: load/efficiency table is invalid")

// Table is a turbine's load-to-efficiency map (spec.md §4.6 "Inputs:
// turbine_loads[]..., turbine_efficiencies[]...").
type Table struct {
	Loads             []float64 // MW, starts with 0
	Efficiencies      []float64 // fraction in [0,1], starts with 0
	LowerHeatingValue float64   // MJ/Sm3
}

// Validate checks the table shape invariants spec.md implies by "starts
// with 0" and the need for a well-defined linear interpolation.
func (t Table) Validate() error {
	if len(t.Loads) < 2 || len(t.Loads) != len(t.Efficiencies) {
		return ErrInvalidTable
	}
	if t.Loads[0] != 0 || t.Efficiencies[0] != 0 {
		return ErrInvalidTable
	}
	for i := 1; i < len(t.Loads); i++ {
		if t.Loads[i] <= t.Loads[i-1] {
			return ErrInvalidTable
		}
	}
	if t.LowerHeatingValue <= 0 {
		return ErrInvalidTable
	}
	return nil
}

// Result is the per-period turbine evaluation outcome.
type Result struct {
	Load      float64 // MW
	Efficiency float64
	FuelRate  float64 // Sm3/day
	Valid     bool
	Failure   error
}

// Evaluate implements spec.md §4.6: zero load is valid with zero fuel
// and undefined efficiency; otherwise linear-interpolate efficiency and
// compute fuel = L*86400/(LHV*eta); above the tabulated range is
// AboveTurbineCapacity.
func Evaluate(t Table, load float64) Result {
	if load == 0 {
		return Result{Load: 0, FuelRate: 0, Valid: true}
	}
	maxLoad := t.Loads[len(t.Loads)-1]
	if load > maxLoad {
		return Result{Load: load, Failure: ErrAboveTurbineCapacity}
	}
	eta := linearInterp(t.Loads, t.Efficiencies, load)
	if eta <= 0 {
		return Result{Load: load, Failure: ErrAboveTurbineCapacity}
	}
	fuel := load * secondsPerDay / (t.LowerHeatingValue * eta)
	return Result{Load: load, Efficiency: eta, FuelRate: fuel, Valid: true}
}

// linearInterp interpolates y(x) over a strictly increasing xs, clamping
// at the endpoints (callers are expected to have already rejected
// out-of-range x via the capacity check).
func linearInterp(xs, ys []float64, x float64) float64 {
	i := sort.SearchFloat64s(xs, x)
	if i == 0 {
		return ys[0]
	}
	if i >= len(xs) {
		return ys[len(ys)-1]
	}
	if xs[i] == x {
		return ys[i]
	}
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	frac := (x - x0) / (x1 - x0)
	return y0 + frac*(y1-y0)
}

// CompressorWithTurbine implements spec.md §4.6's `COMPRESSOR_WITH_TURBINE`
// composite: the compressor train's shaft power becomes the turbine's
// requested load.
func CompressorWithTurbine(t Table, shaftPowerMW float64) Result {
	return Evaluate(t, shaftPowerMW)
}
