package compressor

import (
	"errors"
	"math"

	"github.com/oilfield/energyflow/internal/chart"
	"github.com/oilfield/energyflow/internal/fluid"
)

// MaxRatioPerStage bounds the per-stage pressure ratio used to size a
// simplified train when the stage count is not given explicitly (spec.md
// §4.5.2 "N = ceil(log(Pd/Pin) / log(MAX_RATIO_PER_STAGE))").
const MaxRatioPerStage = 3.0

// ErrNotGenericChart is returned when a simplified train is configured
// with a chart that is not GENERIC_FROM_DESIGN_POINT or
// GENERIC_FROM_INPUT (spec.md §4.5.2 "only valid with generic charts").
var ErrNotGenericChart = errors.New("compressor: simplified train requires a generic compressor chart")

// SimplifiedVariableSpeedTrain is spec.md §4.5.2: every stage shares an
// identical generic chart and an equal pressure ratio, and the train is
// sized (stage count) either explicitly or from MAX_RATIO_PER_STAGE.
type SimplifiedVariableSpeedTrain struct {
	Chart             *chart.CompressorChart
	StageCount        int // 0 means "derive from MaxRatioPerStage"
	InletTemperature  float64
	PressureDropAhead float64
	MinSpeed          float64
	MaxSpeed          float64
	PressureControl   PressureControl
	MaxPowerMW        *float64
}

// Expand builds the underlying VariableSpeedTrain: N identical stages,
// each using the shared generic chart, spaced to divide the total
// pressure ratio equally (spec.md §4.5.2 "equal pressure ratio per
// stage").
func (t SimplifiedVariableSpeedTrain) Expand(inletP, dischargeP float64) (VariableSpeedTrain, error) {
	if t.Chart.Kind != chart.GenericFromDesignPoint && t.Chart.Kind != chart.GenericFromInput {
		return VariableSpeedTrain{}, ErrNotGenericChart
	}

	n := t.StageCount
	if n <= 0 {
		ratio := dischargeP / inletP
		n = int(math.Ceil(math.Log(ratio) / math.Log(MaxRatioPerStage)))
		if n < 1 {
			n = 1
		}
	}

	stages := make([]Stage, n)
	for i := range stages {
		stages[i] = Stage{
			InletTemperature:  t.InletTemperature,
			Chart:             t.Chart,
			PressureDropAhead: t.PressureDropAhead,
		}
	}

	return VariableSpeedTrain{
		Stages:          stages,
		MinSpeed:        t.MinSpeed,
		MaxSpeed:        t.MaxSpeed,
		PressureControl: t.PressureControl,
		MaxPowerMW:      t.MaxPowerMW,
	}, nil
}

// Evaluate sizes the train for the requested duty and delegates to the
// equivalent VariableSpeedTrain.
func (t SimplifiedVariableSpeedTrain) Evaluate(provider fluid.Provider, inlet fluid.Stream, targetDischargeP float64) TrainResult {
	expanded, err := t.Expand(inlet.P, targetDischargeP)
	if err != nil {
		return TrainResult{Failure: err}
	}
	return expanded.Evaluate(provider, inlet, targetDischargeP)
}
