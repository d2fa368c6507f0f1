package compressor

import (
	"github.com/oilfield/energyflow/internal/fluid"
)

// SingleSpeedTrain is spec.md §4.5.1's single-speed variant: the shaft
// speed is fixed by configuration, so the discharge pressure is whatever
// the train naturally produces unless a pressure-control strategy is
// engaged. MAXIMUM_DISCHARGE_PRESSURE is only meaningful paired with
// DOWNSTREAM_CHOKE (spec.md §4.5.1 "only valid in combination with
// DOWNSTREAM_CHOKE").
type SingleSpeedTrain struct {
	Stages          []Stage
	Speed           float64
	PressureControl PressureControl
	MaxDischargeP   *float64 // MAXIMUM_DISCHARGE_PRESSURE, requires DownstreamChoke
	MaxPowerMW      *float64
}

// Evaluate runs the train forward at the fixed speed. If a
// MAXIMUM_DISCHARGE_PRESSURE is configured and the natural discharge
// exceeds it, a DOWNSTREAM_CHOKE train reports its outlet choked to that
// maximum; with any other pressure control the result is
// ErrInvalidDischargePressure.
func (t SingleSpeedTrain) Evaluate(provider fluid.Provider, inlet fluid.Stream) TrainResult {
	stages, outlet, shaftPower, err := runForward(provider, t.Stages, inlet, t.Speed)
	if err != nil {
		return TrainResult{Stages: stages, Failure: err}
	}

	if t.MaxDischargeP != nil && outlet.P > *t.MaxDischargeP {
		if t.PressureControl != DownstreamChoke {
			return TrainResult{Stages: stages, Failure: ErrInvalidDischargePressure}
		}
		res := t.finishFixed(provider, inlet, t.PressureControl.String(), 0)
		if res.Valid {
			res.OutletP = *t.MaxDischargeP
		}
		return res
	}

	if t.MaxPowerMW != nil && shaftPower > *t.MaxPowerMW {
		return TrainResult{Stages: stages, Speed: t.Speed, ShaftPowerMW: shaftPower, Failure: ErrAboveMaxPower}
	}

	return TrainResult{
		Stages: stages, Speed: t.Speed, ShaftPowerMW: shaftPower,
		InletP: inlet.P, InletT: inlet.T,
		OutletP: outlet.P, OutletT: outlet.T, NaturalOutletP: outlet.P,
		Valid: true,
	}
}

func (t SingleSpeedTrain) finishFixed(provider fluid.Provider, inlet fluid.Stream, control string, recircFraction float64) TrainResult {
	feedInlet := inlet
	if recircFraction > 0 {
		feedInlet.MassRate = inlet.MassRate * (1 + recircFraction)
	}
	stages, outlet, shaftPower, err := runForward(provider, t.Stages, feedInlet, t.Speed)
	if err != nil {
		return TrainResult{Stages: stages, Failure: err}
	}
	if t.MaxPowerMW != nil && shaftPower > *t.MaxPowerMW {
		return TrainResult{Stages: stages, Speed: t.Speed, ShaftPowerMW: shaftPower, Failure: ErrAboveMaxPower}
	}
	return TrainResult{
		Stages: stages, Speed: t.Speed, ShaftPowerMW: shaftPower,
		InletP: inlet.P, InletT: inlet.T,
		OutletP: outlet.P, OutletT: outlet.T, NaturalOutletP: outlet.P,
		ChosenControl: control, Valid: true,
	}
}
