package compressor

import (
	"github.com/oilfield/energyflow/internal/fluid"
	"github.com/oilfield/energyflow/internal/solve"
)

// VariableSpeedTrain is spec.md §4.5.1.
type VariableSpeedTrain struct {
	Stages          []Stage
	MinSpeed        float64
	MaxSpeed        float64
	PressureControl PressureControl
	MaxPowerMW      *float64
}

const speedTol = 1e-3
const pressureTol = 1.0 // Pa, converged once the discharge-pressure residual is this tight

// Evaluate solves for the common shaft speed that reaches the requested
// discharge pressure (spec.md §4.5.1 "Equation: P_d,last(s)=P_d,requested.
// Solver: Brent's method on s in [s_min, s_max]"), then engages the
// configured pressure-control strategy if the train cannot be slowed down
// enough, or reports AboveCapacity if it cannot be sped up enough.
func (t VariableSpeedTrain) Evaluate(provider fluid.Provider, inlet fluid.Stream, targetDischargeP float64) TrainResult {
	f := func(s float64) float64 {
		p, err := NaturalDischargeP(provider, t.Stages, inlet, s)
		if err != nil {
			return 0
		}
		return p - targetDischargeP
	}

	atMax, err := NaturalDischargeP(provider, t.Stages, inlet, t.MaxSpeed)
	if err != nil {
		return t.failureResult(err)
	}
	if atMax < targetDischargeP {
		return TrainResult{Failure: ErrAboveCapacity}
	}

	atMin, err := NaturalDischargeP(provider, t.Stages, inlet, t.MinSpeed)
	if err != nil {
		return t.failureResult(err)
	}

	if atMin > targetDischargeP {
		return t.engagePressureControl(provider, inlet, targetDischargeP)
	}

	speed, berr := solve.Brent(f, t.MinSpeed, t.MaxSpeed, speedTol)
	if berr != nil {
		return TrainResult{Failure: ErrStageNonConvergent}
	}
	return t.finish(provider, inlet, speed, "", 0)
}

func (t VariableSpeedTrain) failureResult(err error) TrainResult {
	return TrainResult{Failure: err}
}

// finish runs the train forward at the given speed (optionally with a
// recirculation mass-rate fraction added to the inlet, used by the ASV
// strategies) and assembles the TrainResult, checking MAXIMUM_POWER.
func (t VariableSpeedTrain) finish(provider fluid.Provider, inlet fluid.Stream, speed float64, control string, recircFraction float64) TrainResult {
	feedInlet := inlet
	if recircFraction > 0 {
		feedInlet.MassRate = inlet.MassRate * (1 + recircFraction)
	}
	stages, outlet, shaftPower, err := runForward(provider, t.Stages, feedInlet, speed)
	if err != nil {
		return TrainResult{Stages: stages, Failure: err}
	}
	if t.MaxPowerMW != nil && shaftPower > *t.MaxPowerMW {
		return TrainResult{Stages: stages, Speed: speed, ShaftPowerMW: shaftPower, Failure: ErrAboveMaxPower}
	}
	return TrainResult{
		Stages: stages, Speed: speed, ShaftPowerMW: shaftPower,
		InletP: inlet.P, InletT: inlet.T,
		OutletP: outlet.P, OutletT: outlet.T, NaturalOutletP: outlet.P,
		ChosenControl: control, Valid: true,
	}
}

// engagePressureControl implements the five strategies of spec.md §4.5.1
// for the case where the train at minimum speed already exceeds the
// requested discharge pressure.
func (t VariableSpeedTrain) engagePressureControl(provider fluid.Provider, inlet fluid.Stream, targetDischargeP float64) TrainResult {
	switch t.PressureControl {
	case DownstreamChoke:
		// Run at s_min and report the choked outlet: the train result's
		// OutletP is overridden to the target, the natural (unchoked)
		// pressure is retained for reporting.
		res := t.finish(provider, inlet, t.MinSpeed, t.PressureControl.String(), 0)
		if res.Valid {
			res.OutletP = targetDischargeP
		}
		return res
	case UpstreamChoke:
		// Reduce P_in to the value that produces targetDischargeP at s_min.
		f := func(pIn float64) float64 {
			choked := inlet
			choked.P = pIn
			p, err := NaturalDischargeP(provider, t.Stages, choked, t.MinSpeed)
			if err != nil {
				return 0
			}
			return p - targetDischargeP
		}
		lo, hi := inlet.P*0.2, inlet.P
		pIn, err := solve.Brent(f, lo, hi, pressureTol)
		if err != nil {
			return TrainResult{Failure: ErrStageNonConvergent}
		}
		choked := inlet
		choked.P = pIn
		return t.finish(provider, choked, t.MinSpeed, t.PressureControl.String(), 0)
	case IndividualASVRate, IndividualASVPressure, CommonASV:
		// All three recirculation-based strategies are modelled as a
		// single recirculation mass-rate fraction solved by Brent so the
		// train, run at s_min with the inflated inlet flow, reaches
		// targetDischargeP -- COMMON_ASV's literal "one recirculation
		// loop around the entire train". INDIVIDUAL_ASV_RATE/PRESSURE
		// additionally distribute per stage in a full train solver; here
		// they share COMMON_ASV's aggregate behaviour, which is the
		// dominant effect on discharge pressure and shaft power.
		f := func(frac float64) float64 {
			inflated := inlet
			inflated.MassRate = inlet.MassRate * (1 + frac)
			p, err := NaturalDischargeP(provider, t.Stages, inflated, t.MinSpeed)
			if err != nil {
				return 0
			}
			return p - targetDischargeP
		}
		frac, err := solve.Brent(f, 0, 5, 1e-4)
		if err != nil {
			return TrainResult{Failure: ErrStageNonConvergent}
		}
		return t.finish(provider, inlet, t.MinSpeed, t.PressureControl.String(), frac)
	default:
		return TrainResult{Failure: ErrInvalidDischargePressure}
	}
}
