package compressor

import (
	"errors"

	"github.com/oilfield/energyflow/internal/fluid"
)

// ErrInterstageControlPlacement is the configuration-time rejection of
// spec.md §4.5.4's constraint: "interstage pressure control may not be
// placed on the first stage, and at most one stage may carry it."
var ErrInterstageControlPlacement = errors.New("compressor: interstage pressure control is only valid on a single, non-first stage")

// MultiStreamTrain is spec.md §4.5.4: a train with one stage carrying an
// interstage control pressure, splitting it into two variable-speed
// sub-trains (A, upstream of and including the control stage's inlet; B,
// the control stage onward) that share a governing speed.
type MultiStreamTrain struct {
	Stages               []Stage
	InterstageStageIndex int // index into Stages carrying the interstage control, or -1 if none
	InterstageP          float64
	MinSpeed             float64
	MaxSpeed             float64
	PressureControl      PressureControl
	MaxPowerMW           *float64
}

// Validate enforces spec.md §4.5.4's placement constraint at
// configuration time.
func (t MultiStreamTrain) Validate() error {
	if t.InterstageStageIndex < 0 {
		return nil
	}
	if t.InterstageStageIndex == 0 {
		return ErrInterstageControlPlacement
	}
	if t.InterstageStageIndex >= len(t.Stages) {
		return ErrInterstageControlPlacement
	}
	return nil
}

// Evaluate solves sub-train A to the interstage pressure, then sub-train
// B from the interstage pressure to the requested discharge pressure,
// selecting the governing (higher) of the two required speeds and
// re-running the slower sub-train at that governing speed so both halves
// share one shaft (spec.md §4.5.4 "Unknowns: the shared speed and, if
// present, recirculation at the controlled stage").
//
// A train with no interstage control (InterstageStageIndex < 0) -- the
// case spec.md leaves most open for OUTGOING-only side streams -- is run
// as an ordinary single-stream variable-speed train; side-stream outlet
// subtraction is carried by each Stage's OutgoingMassRate field.
func (t MultiStreamTrain) Evaluate(provider fluid.Provider, inlet fluid.Stream, targetDischargeP float64) TrainResult {
	if err := t.Validate(); err != nil {
		return TrainResult{Failure: err}
	}

	if t.InterstageStageIndex < 0 {
		vst := VariableSpeedTrain{
			Stages: t.Stages, MinSpeed: t.MinSpeed, MaxSpeed: t.MaxSpeed,
			PressureControl: t.PressureControl, MaxPowerMW: t.MaxPowerMW,
		}
		return vst.Evaluate(provider, inlet, targetDischargeP)
	}

	stagesA := t.Stages[:t.InterstageStageIndex]
	stagesB := t.Stages[t.InterstageStageIndex:]

	trainA := VariableSpeedTrain{Stages: stagesA, MinSpeed: t.MinSpeed, MaxSpeed: t.MaxSpeed, PressureControl: t.PressureControl}
	resA := trainA.Evaluate(provider, inlet, t.InterstageP)
	if !resA.Valid {
		return resA
	}

	midOutlet := fluid.Stream{
		Composition: inlet.Composition, EOS: inlet.EOS,
		MassRate: inlet.MassRate, P: resA.OutletP, T: resA.OutletT,
	}

	trainB := VariableSpeedTrain{Stages: stagesB, MinSpeed: t.MinSpeed, MaxSpeed: t.MaxSpeed, PressureControl: t.PressureControl}
	resB := trainB.Evaluate(provider, midOutlet, targetDischargeP)
	if !resB.Valid {
		return resB
	}

	governingSpeed := resA.Speed
	if resB.Speed > governingSpeed {
		governingSpeed = resB.Speed
	}

	// Re-run whichever sub-train did not already run at the governing
	// speed, so both sub-trains share one shaft.
	if resA.Speed != governingSpeed {
		stagesA2, outletA, powerA, err := runForward(provider, stagesA, inlet, governingSpeed)
		if err != nil {
			return TrainResult{Failure: err}
		}
		resA = TrainResult{Stages: stagesA2, Speed: governingSpeed, ShaftPowerMW: powerA, OutletP: outletA.P, OutletT: outletA.T, Valid: true}
		midOutlet = fluid.Stream{Composition: inlet.Composition, EOS: inlet.EOS, MassRate: inlet.MassRate, P: outletA.P, T: outletA.T}
	}
	if resB.Speed != governingSpeed {
		stagesB2, outletB, powerB, err := runForward(provider, stagesB, midOutlet, governingSpeed)
		if err != nil {
			return TrainResult{Failure: err}
		}
		resB = TrainResult{Stages: stagesB2, Speed: governingSpeed, ShaftPowerMW: powerB, OutletP: outletB.P, OutletT: outletB.T, Valid: true}
	}

	totalPower := resA.ShaftPowerMW + resB.ShaftPowerMW
	if t.MaxPowerMW != nil && totalPower > *t.MaxPowerMW {
		return TrainResult{Failure: ErrAboveMaxPower}
	}

	allStages := append(append([]StageResult{}, resA.Stages...), resB.Stages...)
	return TrainResult{
		Stages: allStages, Speed: governingSpeed, ShaftPowerMW: totalPower,
		InletP: inlet.P, InletT: inlet.T,
		OutletP: resB.OutletP, OutletT: resB.OutletT, NaturalOutletP: resB.OutletP,
		Valid: true,
	}
}
