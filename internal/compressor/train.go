package compressor

import (
	"github.com/oilfield/energyflow/internal/fluid"
)

// TrainResult is the per-period train evaluation outcome (spec.md §3
// "Result records", §4.5). Fluid states are split into train-boundary
// (InletP/T, OutletP/T, reflecting any choking) and stage-boundary
// (per-stage StageResult) per spec.md §4.5.4.
type TrainResult struct {
	Stages       []StageResult
	InletP, InletT   float64
	OutletP, OutletT float64
	NaturalOutletP   float64 // before any choking correction
	Speed            float64
	ShaftPowerMW     float64
	ChosenControl    string
	Valid            bool
	Failure          error
}

// runForward evaluates every stage of a train in order at a fixed shaft
// speed, mixing any ingoing side streams into the previous stage's outlet
// before that stage runs (spec.md §4.5.4 "at each stage with ingoing
// streams, mix... with the previous outlet before entering that stage's
// compressor").
func runForward(provider fluid.Provider, stages []Stage, inlet fluid.Stream, speed float64) ([]StageResult, fluid.Stream, float64, error) {
	results := make([]StageResult, len(stages))
	current := inlet
	var shaftPower float64
	for i, st := range stages {
		feed := current
		if len(st.Ingoing) > 0 {
			mixed, err := provider.Mix(append([]fluid.Stream{current}, st.Ingoing...))
			if err != nil {
				return results[:i], fluid.Stream{}, shaftPower, err
			}
			feed = mixed
		}
		res, outlet, err := Evaluate(provider, st, feed, speed)
		results[i] = res
		if err != nil {
			return results[:i+1], fluid.Stream{}, shaftPower, err
		}
		shaftPower += res.ShaftPowerMW
		current = outlet
	}
	return results, current, shaftPower, nil
}

// NaturalDischargeP returns the train's discharge pressure at a given
// speed, with no pressure-control correction applied -- the function the
// variable-speed solver brackets on.
func NaturalDischargeP(provider fluid.Provider, stages []Stage, inlet fluid.Stream, speed float64) (float64, error) {
	_, outlet, _, err := runForward(provider, stages, inlet, speed)
	if err != nil {
		return 0, err
	}
	return outlet.P, nil
}
