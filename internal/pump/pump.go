// Package pump implements the pump model (spec.md §4.3, component C3):
// rate/pressure/density in, chart lookup, ADJUSTMENT and POWERLOSSFACTOR
// corrections out.
package pump

import (
	"errors"

	"github.com/oilfield/energyflow/internal/chart"
)

const secondsPerDay = 86400.0
const hoursPerDay = 24.0

// ErrInvalidPressure is spec.md's `InvalidPressure`: P_in > P_out.
var ErrInvalidPressure = errors.New("pump: suction pressure exceeds discharge pressure")

// ErrChartInfeasible is spec.md's `ChartInfeasible`: out of envelope after
// corrections.
var ErrChartInfeasible = errors.New("pump: operating point is infeasible on the chart")

// Input is the per-period pump evaluation input (spec.md §4.3).
type Input struct {
	RateStreamDay float64 // Sm3/day
	SuctionP      float64 // bara
	DischargeP    float64 // bara
	Density       float64 // kg/m3
	StdDensity    float64 // kg/m3, rho_std for the conveyed fluid
	Condition     bool

	AdjustmentFactor   float64 // ADJUSTMENT alpha, 1 if unset
	AdjustmentConstant float64 // ADJUSTMENT c, MW
	PowerLossFactor    float64 // POWERLOSSFACTOR beta, in [0,1)
	Speed              float64 // rpm, ignored for single-speed charts
}

// Result is the pump evaluation outcome.
type Result struct {
	EnergyMW    float64
	PowerMW     float64
	ActualRate  float64 // AM3/h
	Head        float64 // m
	Efficiency  float64
	Valid       bool
	Failure     error
	Flags       chart.Flags
}

// Evaluate implements spec.md §4.3 steps 1-5.
func Evaluate(c *chart.PumpChart, in Input) Result {
	if !in.Condition {
		return Result{Valid: true}
	}
	if in.SuctionP > in.DischargeP {
		return Result{Failure: ErrInvalidPressure}
	}
	if in.RateStreamDay == 0 {
		return Result{Valid: true}
	}

	// Step 2: convert Sm3/day to actual m3/h via the density ratio.
	actualM3PerDay := in.RateStreamDay * in.StdDensity / in.Density
	q := actualM3PerDay / hoursPerDay

	// Step 3: head required from the pressure differential.
	headRequired := (in.DischargeP - in.SuctionP) * 1e5 / (in.Density * chart.Gravity)

	res := c.Query(q, in.Speed, headRequired)
	if !res.Valid {
		return Result{ActualRate: res.Rate, Flags: res.Flags, Failure: ErrChartInfeasible}
	}

	massRate := in.RateStreamDay * in.StdDensity / secondsPerDay // kg/s, mass is invariant to density conditions
	powerChart := chart.PumpPowerMW(res.Head, massRate, res.Efficiency)

	alpha := in.AdjustmentFactor
	if alpha == 0 {
		alpha = 1
	}
	powerOut := alpha*powerChart + in.AdjustmentConstant

	beta := in.PowerLossFactor
	powerFinal := powerOut
	if beta > 0 {
		powerFinal = powerOut / (1 - beta)
	}

	return Result{
		EnergyMW:   powerFinal,
		PowerMW:    powerFinal,
		ActualRate: res.Rate,
		Head:       res.Head,
		Efficiency: res.Efficiency,
		Valid:      true,
		Flags:      res.Flags,
	}
}
