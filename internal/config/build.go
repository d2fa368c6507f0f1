package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/oilfield/energyflow/internal/chart"
	"github.com/oilfield/energyflow/internal/compressor"
	"github.com/oilfield/energyflow/internal/consumersystem"
	"github.com/oilfield/energyflow/internal/csvio"
	"github.com/oilfield/energyflow/internal/emissions"
	"github.com/oilfield/energyflow/internal/expr"
	"github.com/oilfield/energyflow/internal/facility"
	"github.com/oilfield/energyflow/internal/fluid"
	"github.com/oilfield/energyflow/internal/pump"
	"github.com/oilfield/energyflow/internal/turbine"
)

// ErrUnresolvedModelKind is recorded against a consumer whose model kind
// needs chart/table data that a facility-input CSV was supposed to supply
// but didn't (missing resource, malformed CSV, or unknown kind). The
// builder never halts on it (spec.md §7 "Policy: never halt the run"):
// the consumer is kept in the tree with an empty DirectModel stub, which
// names no variable and so reports an invalid result every period,
// and the caller is expected to have rejected the run earlier via
// Validate if that is unacceptable.
var ErrUnresolvedModelKind = errors.New("config: model kind requires facility-input data that could not be resolved")

// dateLayouts are the ISO-8601 layouts accepted for configuration
// instants: with or without time, falling back to date-only. The
// day-first and year-only layouts of the TIME_SERIES CSV reader are not
// accepted here.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseInstant(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		} else if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("config: %q is not a recognized instant: %w", s, firstErr)
}

// Horizon returns the configuration's global evaluation window (spec.md
// §3 "Time vector"). START defaults to the zero time when absent.
func (c *Config) Horizon() (start, end time.Time, err error) {
	if c.Start != "" {
		if start, err = parseInstant(c.Start); err != nil {
			return
		}
	}
	if end, err = parseInstant(c.End); err != nil {
		return
	}
	return
}

// Registry builds the emissions registry from FUEL_TYPES.
func (c *Config) Registry() *emissions.Registry {
	fuels := make([]emissions.FuelType, len(c.FuelTypes))
	for i, f := range c.FuelTypes {
		factors := make([]emissions.Factor, len(f.EmissionFactors))
		for j, ef := range f.EmissionFactors {
			factors[j] = emissions.Factor{Species: ef.Species, Scope: ef.Scope, Value: ef.Value}
		}
		fuels[i] = emissions.FuelType{Name: f.Name, StdDensity: f.StdDensity, EmissionFactors: factors}
	}
	return emissions.NewRegistry(fuels)
}

// buildConsumerSystem assembles a PUMP_SYSTEM/COMPRESSOR_SYSTEM's
// consumersystem.System (C8): one consumersystem.Unit per referenced
// chart, sharing every other scalar the model variant declares, since
// ModelVariantDef.Units only names the per-unit chart resource (spec.md
// §4.8's units are otherwise identical pump/compressor configurations).
func buildConsumerSystem(res *Resources, v ModelVariantDef) (consumersystem.System, []error) {
	var errs []error
	units := make([]consumersystem.Unit, 0, len(v.Units))

	switch v.Kind {
	case "PUMP_SYSTEM":
		for _, name := range v.Units {
			curves, ok := res.PumpCurves(name)
			if !ok {
				errs = append(errs, fmt.Errorf("%w: pump chart %q", ErrUnknownReference, name))
				continue
			}
			pc, err := chart.NewPumpChart(curves, v.HeadMargin)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			units = append(units, pump.ConsumerUnit{
				Chart: pc, Density: v.Density, StdDensity: v.StdDensity, Speed: v.Speed,
				AdjustmentFactor: v.PowerAdjustmentFactor, AdjustmentConstant: v.PowerAdjustmentConst,
				PowerLossFactor: v.PowerLossFactor,
			})
		}

	case "COMPRESSOR_SYSTEM":
		comp, err := buildComposition(v.Composition)
		if err != nil {
			errs = append(errs, err)
		}
		eos, err := buildEOS(v.EOS)
		if err != nil {
			errs = append(errs, err)
		}
		provider := fluid.CubicProvider{}
		for i, name := range v.Units {
			curves, ok := res.CompressorCurves(name)
			if !ok {
				errs = append(errs, fmt.Errorf("%w: compressor chart %q", ErrUnknownReference, name))
				continue
			}
			cc, err := chart.NewCompressorChart(curves, res.CompressorChartKind(name), v.ControlMargin)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			maxRate := unboundedCapacity
			if i < len(v.UnitMaxInletMassRate) {
				maxRate = v.UnitMaxInletMassRate[i]
			}
			// Each COMPRESSOR_SYSTEM unit is a one-stage variable-speed train
			// around its own chart (spec.md §4.8 "C8 over C5"): the system's
			// settings, not the train, carry the per-setting pressure targets.
			train := compressor.VariableSpeedTrain{
				Stages:          []compressor.Stage{{Chart: cc, InletTemperature: v.InletTemperature}},
				MinSpeed:        v.MinSpeed,
				MaxSpeed:        v.MaxSpeed,
				PressureControl: pressureControlByName[v.PressureControl],
				MaxPowerMW:      v.MaxPowerMW,
			}
			units = append(units, compressor.ConsumerUnit{
				Provider: provider, Train: train, Composition: comp, EOS: eos,
				InletT: v.InletTemperature, MaxInletMassRate: maxRate,
			})
		}
	}

	if len(errs) > 0 {
		return consumersystem.System{}, errs
	}
	return consumersystem.System{
		Units:     units,
		Crossover: buildCrossover(v.Units, v.Settings),
		Settings:  buildSettings(v.Settings),
	}, errs
}

// buildTemporalModel resolves every variant in a MODELS entry's temporal
// map into the facility.EnergyModel it names (spec.md §9 "Temporal models
// as piecewise-constant functions"), pulling chart/table data for
// non-DIRECT kinds from the already-loaded facility-input resources.
func buildTemporalModel(m ModelDef, cfg *Config, res *Resources) (facility.TemporalMap[facility.EnergyModel], []error) {
	var errs []error
	records := make(map[time.Time]facility.EnergyModel, len(m.Temporal))
	for key, v := range m.Temporal {
		instant, err := parseInstant(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		model, modelErrs := buildModelVariant(cfg, res, m.Name, key, v)
		errs = append(errs, modelErrs...)
		records[instant] = model
	}
	return facility.NewTemporalMap(records), errs
}

// buildModelVariant constructs the facility.EnergyModel one temporal entry
// names. name/key are only used to annotate errors.
func buildModelVariant(cfg *Config, res *Resources, name, key string, v ModelVariantDef) (facility.EnergyModel, []error) {
	var errs []error
	fail := func(err error) (facility.EnergyModel, []error) {
		return facility.DirectModel{}, append(errs, fmt.Errorf("%w: model %q at %q (kind %s): %v", ErrUnresolvedModelKind, name, key, v.Kind, err))
	}

	switch v.Kind {
	case "DIRECT":
		return facility.DirectModel{VariableName: v.Variable, Unit: v.Unit}, errs

	case "PUMP":
		curves, ok := res.PumpCurves(v.Chart)
		if !ok {
			return fail(fmt.Errorf("%w: pump chart %q", ErrUnknownReference, v.Chart))
		}
		pc, err := chart.NewPumpChart(curves, v.HeadMargin)
		if err != nil {
			return fail(err)
		}
		return facility.PumpModel{
			Chart: pc, RateVariable: v.RateVariable, SuctionPVariable: v.SuctionPVariable,
			DischargePVariable: v.DischargePVariable, Density: v.Density, StdDensity: v.StdDensity,
			Speed: v.Speed, AdjustmentFactor: v.PowerAdjustmentFactor, AdjustmentConstant: v.PowerAdjustmentConst,
			PowerLossFactor: v.PowerLossFactor,
		}, errs

	case "PUMP_SYSTEM", "COMPRESSOR_SYSTEM":
		system, sysErrs := buildConsumerSystem(res, v)
		if len(sysErrs) > 0 {
			return fail(fmt.Errorf("%v", sysErrs))
		}
		if v.Kind == "PUMP_SYSTEM" {
			return facility.PumpSystemModel{System: system, TotalRateVar: v.TotalRateVar}, errs
		}
		return facility.CompressorSystemModel{System: system, TotalRateVar: v.TotalRateVar}, errs

	case "COMPRESSOR", "VARIABLE_SPEED_MULTIPLE_STREAMS":
		train, trainErrs := buildTrain(res, v)
		if len(trainErrs) > 0 {
			return fail(fmt.Errorf("%v", trainErrs))
		}
		comp, err := buildComposition(v.Composition)
		if err != nil {
			return fail(err)
		}
		eos, err := buildEOS(v.EOS)
		if err != nil {
			return fail(err)
		}
		return facility.CompressorModel{
			Train: train, Composition: comp, EOS: eos, InletT: v.InletTemperature,
			MassRateVariable: v.RateVariable, SuctionPVariable: v.SuctionPVariable,
			DischargePVariable: v.DischargePVariable,
		}, errs

	case "TABULATED":
		table, ok := res.SampledTable(v.Table)
		if !ok {
			return fail(fmt.Errorf("%w: tabulated table %q", ErrUnknownReference, v.Table))
		}
		tt, err := buildTabulatedTable(table, v.VariableNames)
		if err != nil {
			return fail(err)
		}
		outputUnit := "MW"
		if v.UseFuel {
			outputUnit = "Sm3/day"
		}
		return facility.TabulatedModel{Table: tt, VariableNames: v.VariableNames, OutputUnit: outputUnit, UseFuel: v.UseFuel}, errs

	case "COMPRESSOR_WITH_TURBINE":
		compModel := findModel(cfg, v.CompressorModel)
		if compModel == nil {
			return fail(fmt.Errorf("%w: compressor model %q", ErrUnknownReference, v.CompressorModel))
		}
		temporal, compErrs := buildTemporalModel(*compModel, cfg, res)
		errs = append(errs, compErrs...)
		instant, err := parseInstant(key)
		if err != nil {
			return fail(err)
		}
		inner, ok := temporal.At(instant)
		if !ok {
			return fail(fmt.Errorf("%w: compressor model %q has no entry at %q", ErrUnknownReference, v.CompressorModel, key))
		}
		turbineTable := turbine.Table{Loads: v.TurbineLoads, Efficiencies: v.TurbineEffs, LowerHeatingValue: v.LowerHeatingValue}
		if err := turbineTable.Validate(); err != nil {
			return fail(err)
		}
		return facility.TurbineDrivenModel{Compressor: inner, Turbine: turbineTable}, errs

	default:
		return fail(fmt.Errorf("unknown model kind %q", v.Kind))
	}
}

func buildCondition(src string) (*facility.Condition, error) {
	if src == "" {
		return nil, nil
	}
	e, err := expr.Parse(src)
	if err != nil {
		return nil, err
	}
	return &facility.Condition{Expr: e}, nil
}

func buildConsumer(cfg *Config, res *Resources, d ConsumerDef) (*facility.Consumer, []error) {
	var errs []error
	model := findModel(cfg, d.Model)
	if model == nil {
		return nil, []error{fmt.Errorf("%w: consumer %q references model %q", ErrUnknownReference, d.Name, d.Model)}
	}
	temporal, modelErrs := buildTemporalModel(*model, cfg, res)
	errs = append(errs, modelErrs...)

	cond, err := buildCondition(d.Condition)
	if err != nil {
		errs = append(errs, err)
	}
	return &facility.Consumer{
		Name: d.Name, Category: d.Category, Condition: cond,
		PowerLossFactor: d.PowerLossFactor, Model: temporal,
	}, errs
}

func buildGeneratorSet(cfg *Config, res *Resources, d GeneratorSetDef) (*facility.GeneratorSet, []error) {
	var errs []error
	consumers := make([]*facility.Consumer, 0, len(d.Consumers))
	for _, cd := range d.Consumers {
		c, cErrs := buildConsumer(cfg, res, cd)
		errs = append(errs, cErrs...)
		if c != nil {
			consumers = append(consumers, c)
		}
	}
	table, ok := res.GeneratorSet(d.ElectricityToFuel)
	if !ok {
		errs = append(errs, fmt.Errorf("%w: generator set %q electricity_to_fuel %q", ErrUnknownReference, d.Name, d.ElectricityToFuel))
		table = &csvio.GeneratorSetTable{}
	}
	return &facility.GeneratorSet{
		Name: d.Name, Consumers: consumers, FuelType: d.FuelType,
		ElectricityToFuel: facility.ElectricityToFuel{Power: table.Power, Fuel: table.Fuel},
	}, errs
}

func buildFuelConsumer(cfg *Config, res *Resources, d ConsumerDef) (*facility.FuelConsumer, []error) {
	base, errs := buildConsumer(cfg, res, d)
	if base == nil {
		return nil, errs
	}
	return &facility.FuelConsumer{Consumer: *base, FuelType: d.FuelType}, errs
}

func buildInstallation(cfg *Config, res *Resources, d InstallationDef) (*facility.Installation, []error) {
	var errs []error
	gensets := make([]*facility.GeneratorSet, 0, len(d.GeneratorSets))
	for _, gd := range d.GeneratorSets {
		g, gErrs := buildGeneratorSet(cfg, res, gd)
		errs = append(errs, gErrs...)
		gensets = append(gensets, g)
	}
	fuelConsumers := make([]*facility.FuelConsumer, 0, len(d.FuelConsumers))
	for _, fd := range d.FuelConsumers {
		f, fErrs := buildFuelConsumer(cfg, res, fd)
		errs = append(errs, fErrs...)
		if f != nil {
			fuelConsumers = append(fuelConsumers, f)
		}
	}
	venters := make([]*facility.VentingEmitter, 0, len(d.VentingEmitters))
	for _, vd := range d.VentingEmitters {
		records := make(map[time.Time]map[string]float64, len(vd.EmissionRates))
		for key, rates := range vd.EmissionRates {
			instant, err := parseInstant(key)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			records[instant] = rates
		}
		venters = append(venters, &facility.VentingEmitter{Name: vd.Name, EmissionRates: facility.NewTemporalMap(records)})
	}

	regularity := make(map[time.Time]float64, len(d.Regularity))
	for key, r := range d.Regularity {
		instant, err := parseInstant(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		regularity[instant] = r
	}

	return &facility.Installation{
		Name: d.Name, GeneratorSets: gensets, FuelConsumers: fuelConsumers,
		VentingEmitters: venters, Regularity: facility.NewTemporalMap(regularity),
	}, errs
}

// Build assembles the asset hierarchy (spec.md §3's
// Asset->Installation->GeneratorSet/FuelConsumer->Consumer tree) from a
// validated configuration, grouping INSTALLATIONS by their declared
// asset name. Errors are collected, not fatal: the returned assets
// always reflect every installation that could be built, matching the
// "never halt the run" policy applied one layer up (spec.md §7).
func Build(cfg *Config) ([]*facility.Asset, []error) {
	res, resErrs := LoadResources(cfg)
	errs := append([]error{}, resErrs...)

	order := make([]string, 0)
	byAsset := make(map[string]*facility.Asset)
	for _, id := range cfg.Installations {
		inst, instErrs := buildInstallation(cfg, res, id)
		errs = append(errs, instErrs...)
		asset, ok := byAsset[id.Asset]
		if !ok {
			asset = &facility.Asset{Name: id.Asset}
			byAsset[id.Asset] = asset
			order = append(order, id.Asset)
		}
		asset.Installations = append(asset.Installations, inst)
	}
	assets := make([]*facility.Asset, len(order))
	for i, name := range order {
		assets[i] = byAsset[name]
	}
	return assets, errs
}
