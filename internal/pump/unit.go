package pump

import (
	"github.com/oilfield/energyflow/internal/chart"
	"github.com/oilfield/energyflow/internal/consumersystem"
)

// ConsumerUnit adapts a pump chart and its fixed per-period parameters to
// the consumersystem.Unit interface (spec.md §4.8's "Evaluate each unit
// via C3 or C5").
type ConsumerUnit struct {
	Chart      *chart.PumpChart
	Density    float64
	StdDensity float64
	Speed      float64

	AdjustmentFactor   float64
	AdjustmentConstant float64
	PowerLossFactor    float64
}

// Capacity returns the maximum stream-day rate this pump can absorb at
// the given suction/discharge pressures: the chart's maximum actual-rate
// flow at the unit's speed, converted back to a stream-day volumetric
// rate by inverting Evaluate's density conversion.
func (u ConsumerUnit) Capacity(suctionP, dischargeP float64) float64 {
	maxActualM3h := u.Chart.MaxFlowAt(u.Speed)
	if u.StdDensity == 0 {
		return 0
	}
	return maxActualM3h * hoursPerDay * u.Density / u.StdDensity
}

// Evaluate runs the pump at the given rate and pressures, condition
// always true (the consumer system's CONDITION gating happens above this
// layer, per spec.md §4.9 step 5).
func (u ConsumerUnit) Evaluate(rate, suctionP, dischargeP float64) consumersystem.UnitResult {
	res := Evaluate(u.Chart, Input{
		RateStreamDay:      rate,
		SuctionP:           suctionP,
		DischargeP:         dischargeP,
		Density:            u.Density,
		StdDensity:         u.StdDensity,
		Condition:          true,
		AdjustmentFactor:   u.AdjustmentFactor,
		AdjustmentConstant: u.AdjustmentConstant,
		PowerLossFactor:    u.PowerLossFactor,
		Speed:              u.Speed,
	})
	return consumersystem.UnitResult{
		Rate: rate, EnergyMW: res.EnergyMW, Valid: res.Valid, Failure: res.Failure,
	}
}
