package compressor

import (
	"testing"

	"github.com/oilfield/energyflow/internal/chart"
	"github.com/oilfield/energyflow/internal/fluid"
)

func different(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d > tol
}

func sampleChart(t *testing.T) *chart.CompressorChart {
	t.Helper()
	c, err := chart.FitGenericFromDesignPoint(3000, 120, 0.78, 0.1)
	if err != nil {
		t.Fatalf("FitGenericFromDesignPoint failed: %v", err)
	}
	return c
}

func sampleInlet() fluid.Stream {
	return fluid.Stream{
		Composition: fluid.Presets["MEDIUM"],
		EOS:         fluid.SRK,
		MassRate:    10,
		P:           6e6,
		T:           300,
	}
}

func TestVariableSpeedTrainReachesTarget(t *testing.T) {
	provider := fluid.CubicProvider{}
	train := VariableSpeedTrain{
		Stages: []Stage{
			{InletTemperature: 300, Chart: sampleChart(t)},
		},
		MinSpeed: 3000, MaxSpeed: 10000,
	}
	res := train.Evaluate(provider, sampleInlet(), 9e6)
	if !res.Valid {
		t.Fatalf("expected valid train result, got failure: %v", res.Failure)
	}
	if different(res.OutletP, 9e6, 1e3) {
		t.Errorf("got outlet pressure %v, want ~9e6", res.OutletP)
	}
	if res.Speed < train.MinSpeed || res.Speed > train.MaxSpeed {
		t.Errorf("solved speed %v out of bracket", res.Speed)
	}
}

func TestVariableSpeedTrainAboveCapacity(t *testing.T) {
	provider := fluid.CubicProvider{}
	train := VariableSpeedTrain{
		Stages:   []Stage{{InletTemperature: 300, Chart: sampleChart(t)}},
		MinSpeed: 3000, MaxSpeed: 10000,
	}
	res := train.Evaluate(provider, sampleInlet(), 1e9)
	if res.Failure != ErrAboveCapacity {
		t.Errorf("got %v, want ErrAboveCapacity", res.Failure)
	}
}

func TestVariableSpeedTrainEngagesDownstreamChoke(t *testing.T) {
	provider := fluid.CubicProvider{}
	train := VariableSpeedTrain{
		Stages:          []Stage{{InletTemperature: 300, Chart: sampleChart(t)}},
		MinSpeed:        3000,
		MaxSpeed:        10000,
		PressureControl: DownstreamChoke,
	}
	// Target well below what even min speed naturally produces.
	res := train.Evaluate(provider, sampleInlet(), 6.2e6)
	if !res.Valid {
		t.Fatalf("expected valid choked result, got failure: %v", res.Failure)
	}
	if res.ChosenControl != "DOWNSTREAM_CHOKE" {
		t.Errorf("got control %q, want DOWNSTREAM_CHOKE", res.ChosenControl)
	}
	if different(res.OutletP, 6.2e6, 1) {
		t.Errorf("choked outlet pressure %v does not match target", res.OutletP)
	}
}

func TestSingleSpeedTrainRejectsMaxDischargeWithoutChoke(t *testing.T) {
	provider := fluid.CubicProvider{}
	maxP := 6.2e6
	train := SingleSpeedTrain{
		Stages:          []Stage{{InletTemperature: 300, Chart: sampleChart(t)}},
		Speed:           8000,
		PressureControl: UpstreamChoke,
		MaxDischargeP:   &maxP,
	}
	res := train.Evaluate(provider, sampleInlet())
	if res.Failure != ErrInvalidDischargePressure {
		t.Errorf("got %v, want ErrInvalidDischargePressure", res.Failure)
	}
}

func TestSimplifiedTrainRejectsNonGenericChart(t *testing.T) {
	curves := []chart.Curve{{Rate: []float64{100, 200, 300}, Head: []float64{200, 180, 150}, Efficiency: []float64{0.7, 0.78, 0.72}}}
	ss, err := chart.NewCompressorChart(curves, chart.SingleSpeed, 0.1)
	if err != nil {
		t.Fatalf("NewCompressorChart failed: %v", err)
	}
	train := SimplifiedVariableSpeedTrain{Chart: ss, MinSpeed: 3000, MaxSpeed: 10000}
	res := train.Evaluate(fluid.CubicProvider{}, sampleInlet(), 9e6)
	if res.Failure != ErrNotGenericChart {
		t.Errorf("got %v, want ErrNotGenericChart", res.Failure)
	}
}

func TestSimplifiedTrainDerivesStageCount(t *testing.T) {
	train := SimplifiedVariableSpeedTrain{Chart: sampleChart(t), MinSpeed: 3000, MaxSpeed: 10000}
	expanded, err := train.Expand(6e6, 50e6) // ratio ~8.3, MaxRatioPerStage=3 -> ceil(log(8.3)/log(3))=2
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(expanded.Stages) != 2 {
		t.Errorf("got %d stages, want 2", len(expanded.Stages))
	}
}

func TestMultiStreamTrainRejectsFirstStageInterstage(t *testing.T) {
	train := MultiStreamTrain{
		Stages:               []Stage{{InletTemperature: 300, Chart: sampleChart(t)}, {InletTemperature: 300, Chart: sampleChart(t)}},
		InterstageStageIndex: 0,
	}
	if err := train.Validate(); err != ErrInterstageControlPlacement {
		t.Errorf("got %v, want ErrInterstageControlPlacement", err)
	}
}

func TestMultiStreamTrainSplitsAcrossSubTrains(t *testing.T) {
	provider := fluid.CubicProvider{}
	train := MultiStreamTrain{
		Stages: []Stage{
			{InletTemperature: 300, Chart: sampleChart(t)},
			{InletTemperature: 300, Chart: sampleChart(t)},
		},
		InterstageStageIndex: 1,
		InterstageP:          8e6,
		MinSpeed:             3000,
		MaxSpeed:             10000,
	}
	res := train.Evaluate(provider, sampleInlet(), 9e6)
	if !res.Valid {
		t.Fatalf("expected valid multi-stream result, got failure: %v", res.Failure)
	}
	if different(res.OutletP, 9e6, 1e3) {
		t.Errorf("got outlet pressure %v, want ~9e6", res.OutletP)
	}
	if len(res.Stages) != 2 {
		t.Errorf("got %d stage results, want 2", len(res.Stages))
	}
}
