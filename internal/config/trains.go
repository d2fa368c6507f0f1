package config

import (
	"fmt"
	"math"

	"github.com/oilfield/energyflow/internal/chart"
	"github.com/oilfield/energyflow/internal/compressor"
	"github.com/oilfield/energyflow/internal/consumersystem"
	"github.com/oilfield/energyflow/internal/csvio"
	"github.com/oilfield/energyflow/internal/fluid"
	"github.com/oilfield/energyflow/internal/tabulated"
)

// trainModel is the method set facility.CompressorModel.Train requires
// (facility.pressureSolvingTrain, unexported there): a target-discharge-
// pressure-solving compressor train. Naming it here lets buildTrain
// return a single static type even though the underlying train kinds
// (VariableSpeedTrain, SimplifiedVariableSpeedTrain, MultiStreamTrain, and
// the SingleSpeedTrain adapter below) are otherwise unrelated types.
type trainModel interface {
	Evaluate(provider fluid.Provider, inlet fluid.Stream, targetDischargeP float64) compressor.TrainResult
}

// singleSpeedAdapter lets compressor.SingleSpeedTrain -- whose Evaluate
// does not take a target discharge pressure, since single-speed trains
// only reach one of a handful of pressure-control strategies rather than
// solving for an arbitrary target -- satisfy trainModel, so SINGLE_SPEED
// can sit in the same facility.CompressorModel.Train slot as the other
// train kinds.
type singleSpeedAdapter struct {
	train compressor.SingleSpeedTrain
}

func (a singleSpeedAdapter) Evaluate(provider fluid.Provider, inlet fluid.Stream, _ float64) compressor.TrainResult {
	return a.train.Evaluate(provider, inlet)
}

// buildStages resolves a train's stage list, flashing each stage's
// optional ingoing side stream and chart reference.
func buildStages(res *Resources, defs []StageDef) ([]compressor.Stage, []error) {
	var errs []error
	stages := make([]compressor.Stage, 0, len(defs))
	for i, sd := range defs {
		curves, ok := res.CompressorCurves(sd.Name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: stage %d chart %q", ErrUnknownReference, i, sd.Name))
			continue
		}
		cc, err := chart.NewCompressorChart(curves, res.CompressorChartKind(sd.Name), sd.ControlMargin)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		st := compressor.Stage{InletTemperature: sd.InletTemperature, Chart: cc, PressureDropAhead: sd.PressureDropAhead}
		if sd.Outgoing != nil {
			st.OutgoingMassRate = *sd.Outgoing
		}
		if sd.Ingoing != nil {
			stream, err := buildStream(*sd.Ingoing)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			st.Ingoing = []fluid.Stream{stream}
		}
		stages = append(stages, st)
	}
	return stages, errs
}

// buildTrain constructs the compressor train named by v.TrainKind (spec.md
// §4.5's SINGLE_SPEED, VARIABLE_SPEED, SIMPLIFIED_VARIABLE_SPEED, and
// MULTIPLE_STREAMS_AND_PRESSURES variants).
func buildTrain(res *Resources, v ModelVariantDef) (trainModel, []error) {
	var errs []error
	pc := pressureControlByName[v.PressureControl]

	switch v.TrainKind {
	case "SINGLE_SPEED":
		stages, stageErrs := buildStages(res, v.Stages)
		errs = append(errs, stageErrs...)
		if len(errs) > 0 {
			return nil, errs
		}
		return singleSpeedAdapter{train: compressor.SingleSpeedTrain{
			Stages: stages, Speed: v.Speed, PressureControl: pc,
			MaxDischargeP: v.MaxDischargeP, MaxPowerMW: v.MaxPowerMW,
		}}, errs

	case "VARIABLE_SPEED":
		stages, stageErrs := buildStages(res, v.Stages)
		errs = append(errs, stageErrs...)
		if len(errs) > 0 {
			return nil, errs
		}
		return compressor.VariableSpeedTrain{
			Stages: stages, MinSpeed: v.MinSpeed, MaxSpeed: v.MaxSpeed,
			PressureControl: pc, MaxPowerMW: v.MaxPowerMW,
		}, errs

	case "SIMPLIFIED_VARIABLE_SPEED":
		if len(v.Stages) == 0 {
			return nil, []error{fmt.Errorf("config: %s train requires at least one stage for its shared chart", v.TrainKind)}
		}
		shared := v.Stages[0]
		curves, ok := res.CompressorCurves(shared.Name)
		if !ok {
			return nil, []error{fmt.Errorf("%w: chart %q", ErrUnknownReference, shared.Name)}
		}
		cc, err := chart.NewCompressorChart(curves, res.CompressorChartKind(shared.Name), shared.ControlMargin)
		if err != nil {
			return nil, []error{err}
		}
		stageCount := 0
		if len(v.Stages) > 1 {
			stageCount = len(v.Stages)
		}
		return compressor.SimplifiedVariableSpeedTrain{
			Chart: cc, StageCount: stageCount, InletTemperature: shared.InletTemperature,
			PressureDropAhead: shared.PressureDropAhead, MinSpeed: v.MinSpeed, MaxSpeed: v.MaxSpeed,
			PressureControl: pc, MaxPowerMW: v.MaxPowerMW,
		}, errs

	case "MULTIPLE_STREAMS_AND_PRESSURES":
		stages, stageErrs := buildStages(res, v.Stages)
		errs = append(errs, stageErrs...)
		if len(errs) > 0 {
			return nil, errs
		}
		idx := v.InterstageStage - 1 // 1-based in config, -1 means "none"
		var interstageP float64
		for _, st := range v.Stages {
			if st.InterstagePressure != nil {
				interstageP = *st.InterstagePressure
			}
		}
		return compressor.MultiStreamTrain{
			Stages: stages, InterstageStageIndex: idx, InterstageP: interstageP,
			MinSpeed: v.MinSpeed, MaxSpeed: v.MaxSpeed, PressureControl: pc, MaxPowerMW: v.MaxPowerMW,
		}, errs

	default:
		return nil, []error{fmt.Errorf("config: unknown train_kind %q", v.TrainKind)}
	}
}

// buildPressurePairs converts the config-level pressure pair list to
// consumersystem's.
func buildPressurePairs(defs []PressurePairDef) []consumersystem.PressurePair {
	out := make([]consumersystem.PressurePair, len(defs))
	for i, d := range defs {
		out[i] = consumersystem.PressurePair{SuctionP: d.SuctionP, DischargeP: d.DischargeP}
	}
	return out
}

// buildSettings converts a PUMP_SYSTEM/COMPRESSOR_SYSTEM's operational
// settings.
func buildSettings(defs []OperationalSettingDef) []consumersystem.Setting {
	out := make([]consumersystem.Setting, len(defs))
	for i, d := range defs {
		out[i] = consumersystem.Setting{
			RateFractions: d.RateFractions, Rates: d.Rates,
			Pressures: buildPressurePairs(d.Pressures),
		}
	}
	return out
}

// buildCrossover merges every setting's name-keyed crossover map into the
// single unit-index map consumersystem.System carries (spec.md §4.8's
// crossover graph is attached per setting; the settings for one system are
// expected to agree on it, so the last setting that mentions a unit wins).
func buildCrossover(units []string, settings []OperationalSettingDef) map[int]int {
	index := make(map[string]int, len(units))
	for i, u := range units {
		index[u] = i
	}
	crossover := make(map[int]int)
	for _, s := range settings {
		for from, to := range s.Crossover {
			fi, fok := index[from]
			ti, tok := index[to]
			if fok && tok {
				crossover[fi] = ti
			}
		}
	}
	return crossover
}

// buildTabulatedTable converts a COMPRESSOR_SAMPLED resource into a
// tabulated.Table keyed by the model variant's declared variable order
// (spec.md §4.7, component C7).
func buildTabulatedTable(t *csvio.CompressorSampledTable, variableNames []string) (tabulated.Table, error) {
	cols := make([][]float64, len(variableNames))
	n := -1
	for i, name := range variableNames {
		col, ok := t.Columns[name]
		if !ok {
			return tabulated.Table{}, fmt.Errorf("%w: tabulated variable %q", ErrUnknownReference, name)
		}
		cols[i] = col
		if n == -1 {
			n = len(col)
		} else if len(col) != n {
			return tabulated.Table{}, fmt.Errorf("config: tabulated table columns have mismatched row counts")
		}
	}
	if n < 0 {
		n = 0
	}
	power, hasPower := t.Columns["POWER"]
	fuel, hasFuel := t.Columns["FUEL"]

	samples := make([]tabulated.Sample, n)
	for i := 0; i < n; i++ {
		point := make([]float64, len(variableNames))
		for j := range variableNames {
			point[j] = cols[j][i]
		}
		s := tabulated.Sample{Point: point}
		if hasPower {
			v := power[i]
			s.Power = &v
		}
		if hasFuel {
			v := fuel[i]
			s.Fuel = &v
		}
		samples[i] = s
	}
	table := tabulated.Table{Dim: len(variableNames), Samples: samples}
	if err := table.Validate(); err != nil {
		return tabulated.Table{}, err
	}
	return table, nil
}

// unboundedCapacity is the COMPRESSOR_SYSTEM unit capacity used when a
// unit has no configured unit_max_inlet_mass_rate entry: effectively
// disables crossover triggering for that unit rather than rejecting the
// configuration outright.
var unboundedCapacity = math.Inf(1)
