package facility

import (
	"errors"

	"github.com/oilfield/energyflow/internal/chart"
	"github.com/oilfield/energyflow/internal/compressor"
	"github.com/oilfield/energyflow/internal/consumersystem"
	"github.com/oilfield/energyflow/internal/expr"
	"github.com/oilfield/energyflow/internal/fluid"
	"github.com/oilfield/energyflow/internal/pump"
	"github.com/oilfield/energyflow/internal/tabulated"
	"github.com/oilfield/energyflow/internal/turbine"
	"github.com/oilfield/energyflow/internal/units"
)

// ErrVariableMissing is returned when an energy model references a
// VARIABLES/time-series name not present in the period's evaluation
// context.
var ErrVariableMissing = errors.New("facility: referenced variable is not present in this period's context")

// EvalContext carries the per-period external inputs an energy model
// reads by name (spec.md §3 "VARIABLES" section, consumed the same way
// CONDITION expressions read them): rates, pressures, densities,
// electrical-load contributions, and the fluid provider consumer models
// flash through.
type EvalContext struct {
	Provider  fluid.Provider
	Variables map[string]float64
}

func (c EvalContext) get(name string) (float64, error) {
	v, ok := c.Variables[name]
	if !ok {
		return 0, ErrVariableMissing
	}
	return v, nil
}

// EnergyResult is one energy model's per-period outcome, unit-tagged per
// spec.md §4.9's invariant ("At every node, energy_usage has well-defined
// unit").
type EnergyResult struct {
	Value         units.Quantity
	Valid         bool
	Failure       error
	ChosenSetting int
	Stages        []compressor.StageResult
}

// EnergyModel is any of spec.md §3's consumer energy_usage_model kinds:
// Direct, Pump, PumpSystem, Compressor (sampled or modelled),
// CompressorSystem, Tabulated, VariableSpeedMultipleStreams.
type EnergyModel interface {
	Kind() string
	Evaluate(ctx EvalContext) EnergyResult
}

// DirectModel reads a literal rate variable and reports it unchanged,
// unit-tagged (spec.md §3 "Direct").
type DirectModel struct {
	VariableName string
	Unit         string
}

func (m DirectModel) Kind() string { return "DIRECT" }

func (m DirectModel) Evaluate(ctx EvalContext) EnergyResult {
	v, err := ctx.get(m.VariableName)
	if err != nil {
		return EnergyResult{Failure: err}
	}
	return EnergyResult{Value: units.Quantity{Value: v, Unit: m.Unit}, Valid: true}
}

// PumpModel evaluates a single pump unit (C3), reading rate/suction/
// discharge/density by variable name.
type PumpModel struct {
	Chart              *chart.PumpChart
	RateVariable       string
	SuctionPVariable   string
	DischargePVariable string
	Density            float64
	StdDensity         float64
	Speed              float64
	AdjustmentFactor   float64
	AdjustmentConstant float64
	PowerLossFactor    float64
}

func (m PumpModel) Kind() string { return "PUMP" }

func (m PumpModel) Evaluate(ctx EvalContext) EnergyResult {
	rate, err := ctx.get(m.RateVariable)
	if err != nil {
		return EnergyResult{Failure: err}
	}
	suction, err := ctx.get(m.SuctionPVariable)
	if err != nil {
		return EnergyResult{Failure: err}
	}
	discharge, err := ctx.get(m.DischargePVariable)
	if err != nil {
		return EnergyResult{Failure: err}
	}
	res := pump.Evaluate(m.Chart, pump.Input{
		RateStreamDay: rate, SuctionP: suction, DischargeP: discharge,
		Density: m.Density, StdDensity: m.StdDensity, Condition: true,
		AdjustmentFactor: m.AdjustmentFactor, AdjustmentConstant: m.AdjustmentConstant,
		PowerLossFactor: m.PowerLossFactor, Speed: m.Speed,
	})
	return EnergyResult{
		Value: units.Quantity{Value: res.EnergyMW, Unit: "MW"}, Valid: res.Valid, Failure: res.Failure,
	}
}

// PumpSystemModel evaluates a consumer system of pump units (C8 over C3).
type PumpSystemModel struct {
	System       consumersystem.System
	TotalRateVar string
}

func (m PumpSystemModel) Kind() string { return "PUMP_SYSTEM" }

func (m PumpSystemModel) Evaluate(ctx EvalContext) EnergyResult {
	total, err := ctx.get(m.TotalRateVar)
	if err != nil {
		return EnergyResult{Failure: err}
	}
	res := m.System.Evaluate(total)
	return EnergyResult{
		Value: units.Quantity{Value: res.TotalEnergyMW, Unit: "MW"},
		Valid: res.AllValid, ChosenSetting: res.ChosenOperationalSetting,
	}
}

// CompressorModel evaluates a single compressor train (C5) over C1's
// fluid provider.
type CompressorModel struct {
	Train              pressureSolvingTrain
	Composition        fluid.Composition
	EOS                fluid.EOS
	InletT             float64
	MassRateVariable   string
	SuctionPVariable   string
	DischargePVariable string
}

// pressureSolvingTrain mirrors compressor.pressureSolvingTrain (spec.md
// §4.5's target-discharge-pressure trains): duplicated here since that
// interface is unexported in package compressor.
type pressureSolvingTrain interface {
	Evaluate(provider fluid.Provider, inlet fluid.Stream, targetDischargeP float64) compressor.TrainResult
}

func (m CompressorModel) Kind() string { return "COMPRESSOR" }

func (m CompressorModel) Evaluate(ctx EvalContext) EnergyResult {
	rate, err := ctx.get(m.MassRateVariable)
	if err != nil {
		return EnergyResult{Failure: err}
	}
	suction, err := ctx.get(m.SuctionPVariable)
	if err != nil {
		return EnergyResult{Failure: err}
	}
	discharge, err := ctx.get(m.DischargePVariable)
	if err != nil {
		return EnergyResult{Failure: err}
	}
	inlet := fluid.Stream{Composition: m.Composition, EOS: m.EOS, MassRate: rate, P: suction, T: m.InletT}
	res := m.Train.Evaluate(ctx.Provider, inlet, discharge)
	return EnergyResult{
		Value: units.Quantity{Value: res.ShaftPowerMW, Unit: "MW"}, Valid: res.Valid, Failure: res.Failure,
		Stages: res.Stages,
	}
}

// CompressorSystemModel is C8 over C5: a consumer system whose units are
// compressor trains (compressor.ConsumerUnit values).
type CompressorSystemModel struct {
	System       consumersystem.System
	TotalRateVar string
}

func (m CompressorSystemModel) Kind() string { return "COMPRESSOR_SYSTEM" }

func (m CompressorSystemModel) Evaluate(ctx EvalContext) EnergyResult {
	total, err := ctx.get(m.TotalRateVar)
	if err != nil {
		return EnergyResult{Failure: err}
	}
	res := m.System.Evaluate(total)
	return EnergyResult{
		Value: units.Quantity{Value: res.TotalEnergyMW, Unit: "MW"},
		Valid: res.AllValid, ChosenSetting: res.ChosenOperationalSetting,
	}
}

// TabulatedModel is C7: an N-variable sampled table queried by a fixed
// ordered list of variable names.
type TabulatedModel struct {
	Table         tabulated.Table
	VariableNames []string
	OutputUnit    string // "MW" for POWER, "Sm3/day" for FUEL
	UseFuel       bool
}

func (m TabulatedModel) Kind() string { return "TABULATED" }

func (m TabulatedModel) Evaluate(ctx EvalContext) EnergyResult {
	point := make([]float64, len(m.VariableNames))
	for i, name := range m.VariableNames {
		v, err := ctx.get(name)
		if err != nil {
			return EnergyResult{Failure: err}
		}
		point[i] = v
	}
	res := m.Table.Query(point)
	if !res.Valid {
		return EnergyResult{Failure: res.Failure}
	}
	value := res.Power
	if m.UseFuel {
		value = res.Fuel
	}
	return EnergyResult{Value: units.Quantity{Value: value, Unit: m.OutputUnit}, Valid: true}
}

// TurbineDrivenModel implements spec.md §4.6's `COMPRESSOR_WITH_TURBINE`
// composite: the wrapped compressor model's shaft power becomes the
// turbine's requested load, and the reported value is fuel (Sm3/day)
// rather than shaft power.
type TurbineDrivenModel struct {
	Compressor EnergyModel
	Turbine    turbine.Table
}

func (m TurbineDrivenModel) Kind() string { return "COMPRESSOR_WITH_TURBINE" }

func (m TurbineDrivenModel) Evaluate(ctx EvalContext) EnergyResult {
	compRes := m.Compressor.Evaluate(ctx)
	if !compRes.Valid {
		return compRes
	}
	turbineRes := turbine.CompressorWithTurbine(m.Turbine, compRes.Value.Value)
	return EnergyResult{
		Value: units.Quantity{Value: turbineRes.FuelRate, Unit: "Sm3/day"},
		Valid: turbineRes.Valid, Failure: turbineRes.Failure, Stages: compRes.Stages,
	}
}

// Condition wraps the CONDITION govaluate expression (spec.md §4.9 step
// 5): "a boolean expression in external variables."
type Condition struct {
	Expr *expr.Expression
}

func (c *Condition) Eval(vars map[string]float64) (bool, error) {
	if c == nil || c.Expr == nil {
		return true, nil
	}
	return c.Expr.EvalBool(vars)
}
