package config

import (
	"errors"
	"fmt"

	"github.com/oilfield/energyflow/internal/compressor"
	"github.com/oilfield/energyflow/internal/fluid"
)

// Configuration-error sentinels (spec.md §7 stratum 1: "rejected before
// evaluation").
var (
	ErrDuplicateName          = errors.New("config: duplicate name within a kind")
	ErrMissingMethane         = errors.New("config: fluid composition is missing a positive methane fraction")
	ErrUnitMismatch           = errors.New("config: reported unit does not match the consumer's expected energy kind")
	ErrConflictingTemporal    = errors.New("config: a model's temporal entries do not all share the same kind")
	ErrAdjustmentConflict     = errors.New("config: mechanical_efficiency and power_adjustment_factor are mutually exclusive")
	ErrNonGenericSimplified   = errors.New("config: simplified variable-speed train requires a GENERIC chart")
	ErrUnknownReference       = errors.New("config: reference to an undeclared name")
)

// ValidationError pairs a sentinel with the offending name, for
// attribution in CLI output (spec.md §6 "Exit codes... 1 configuration
// rejected").
type ValidationError struct {
	Err  error
	Path string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *ValidationError) Unwrap() error { return e.Err }

// Validate runs every configuration-error check spec.md §7 enumerates:
// duplicate names; composition missing methane; unit mismatch;
// conflicting temporal types; MECHANICAL_EFFICIENCY with
// POWER_ADJUSTMENT_FACTOR; simplified train on a non-generic chart;
// crossover cycles; interstage pressure control placement. It collects
// every violation rather than stopping at the first, since the CLI
// reports all rejected configuration at once.
func Validate(cfg *Config) []error {
	var errs []error

	errs = append(errs, duplicateNames(cfg)...)
	errs = append(errs, compositionErrors(cfg)...)
	errs = append(errs, temporalConsistencyErrors(cfg)...)
	errs = append(errs, unitMismatchErrors(cfg)...)
	errs = append(errs, adjustmentConflictErrors(cfg)...)
	errs = append(errs, simplifiedChartErrors(cfg)...)
	errs = append(errs, crossoverCycleErrors(cfg)...)
	errs = append(errs, interstagePlacementErrors(cfg)...)

	return errs
}

func duplicateNames(cfg *Config) []error {
	var errs []error
	check := func(kind string, names []string) {
		seen := make(map[string]bool, len(names))
		for _, n := range names {
			if seen[n] {
				errs = append(errs, &ValidationError{Err: ErrDuplicateName, Path: kind + "/" + n})
			}
			seen[n] = true
		}
	}

	names := func(ts []TimeSeriesDef) []string {
		out := make([]string, len(ts))
		for i, t := range ts {
			out[i] = t.Name
		}
		return out
	}
	check("time_series", names(cfg.TimeSeries))

	fiNames := make([]string, len(cfg.FacilityInputs))
	for i, f := range cfg.FacilityInputs {
		fiNames[i] = f.Name
	}
	check("facility_inputs", fiNames)

	ftNames := make([]string, len(cfg.FuelTypes))
	for i, f := range cfg.FuelTypes {
		ftNames[i] = f.Name
	}
	check("fuel_types", ftNames)

	modelNames := make([]string, len(cfg.Models))
	for i, m := range cfg.Models {
		modelNames[i] = m.Name
	}
	check("models", modelNames)

	varNames := make([]string, len(cfg.Variables))
	for i, v := range cfg.Variables {
		varNames[i] = v.Name
	}
	check("variables", varNames)

	instNames := make([]string, len(cfg.Installations))
	for i, inst := range cfg.Installations {
		instNames[i] = inst.Name
	}
	check("installations", instNames)

	// Consumer names are unique within one installation's scope (spec.md
	// §3 "Consumer... name [unique within scope]").
	for _, inst := range cfg.Installations {
		var consumerNames []string
		for _, g := range inst.GeneratorSets {
			for _, c := range g.Consumers {
				consumerNames = append(consumerNames, c.Name)
			}
		}
		for _, c := range inst.FuelConsumers {
			consumerNames = append(consumerNames, c.Name)
		}
		check("installations/"+inst.Name+"/consumers", consumerNames)
	}

	return errs
}

// compositionErrors checks every explicit composition referenced from a
// COMPRESSOR/COMPRESSOR_SYSTEM/VARIABLE_SPEED_MULTIPLE_STREAMS model
// variant or a multi-stream train's ingoing side stream for the
// methane-presence invariant (spec.md §3 "methane (required, >0)").
func compositionErrors(cfg *Config) []error {
	var errs []error
	checkComposition := func(path string, c CompositionDef) {
		if c.Preset != "" {
			if _, ok := fluid.Presets[c.Preset]; !ok {
				errs = append(errs, &ValidationError{Err: ErrUnknownReference, Path: path + "/preset/" + c.Preset})
			}
			return
		}
		if len(c.Fractions) == 0 {
			return
		}
		if v, ok := c.Fractions["methane"]; !ok || v <= 0 {
			errs = append(errs, &ValidationError{Err: ErrMissingMethane, Path: path})
		}
	}

	for _, m := range cfg.Models {
		for key, v := range m.Temporal {
			path := "models/" + m.Name + "/" + key
			checkComposition(path, v.Composition)
			for si, st := range v.Stages {
				if st.Ingoing != nil {
					checkComposition(fmt.Sprintf("%s/stages/%d/ingoing", path, si), st.Ingoing.Composition)
				}
			}
		}
	}
	return errs
}

// temporalConsistencyErrors rejects a model whose temporal entries do
// not all carry the same Kind (spec.md §9 "Reject temporal changes in
// energy-model type at parse time").
func temporalConsistencyErrors(cfg *Config) []error {
	var errs []error
	for _, m := range cfg.Models {
		var first string
		for _, v := range m.Temporal {
			if first == "" {
				first = v.Kind
				continue
			}
			if v.Kind != first {
				errs = append(errs, &ValidationError{Err: ErrConflictingTemporal, Path: "models/" + m.Name})
				break
			}
		}
	}
	return errs
}

// unitMismatchErrors checks DIRECT and TABULATED variants report a unit
// consistent with their declared kind: fuel consumers report
// Sm3/day or l/day, electrical consumers report MW (spec.md §6 "Solver
// outputs... energy_usage: {value, unit}").
func unitMismatchErrors(cfg *Config) []error {
	var errs []error
	for _, inst := range cfg.Installations {
		for _, g := range inst.GeneratorSets {
			for _, c := range g.Consumers {
				checkConsumerUnit(cfg, c, false, &errs)
			}
		}
		for _, c := range inst.FuelConsumers {
			checkConsumerUnit(cfg, c, true, &errs)
		}
	}
	return errs
}

func checkConsumerUnit(cfg *Config, c ConsumerDef, wantFuel bool, errs *[]error) {
	model := findModel(cfg, c.Model)
	if model == nil {
		return
	}
	for key, v := range model.Temporal {
		path := "models/" + model.Name + "/" + key
		switch v.Kind {
		case "DIRECT":
			fuelUnit := v.Unit == "Sm3/day" || v.Unit == "l/day"
			if fuelUnit != wantFuel {
				*errs = append(*errs, &ValidationError{Err: ErrUnitMismatch, Path: path})
			}
		case "TABULATED":
			if v.UseFuel != wantFuel {
				*errs = append(*errs, &ValidationError{Err: ErrUnitMismatch, Path: path})
			}
		}
	}
}

func findModel(cfg *Config, name string) *ModelDef {
	for i := range cfg.Models {
		if cfg.Models[i].Name == name {
			return &cfg.Models[i]
		}
	}
	return nil
}

// adjustmentConflictErrors rejects any model variant carrying
// both a MECHANICAL_EFFICIENCY and a POWER_ADJUSTMENT_FACTOR (spec.md §7
// stratum 1).
func adjustmentConflictErrors(cfg *Config) []error {
	var errs []error
	for _, m := range cfg.Models {
		for key, v := range m.Temporal {
			if v.MechanicalEfficiency != 0 && v.PowerAdjustmentFactor != 0 {
				errs = append(errs, &ValidationError{Err: ErrAdjustmentConflict, Path: "models/" + m.Name + "/" + key})
			}
		}
	}
	return errs
}

// chartKind resolves a declared FACILITY_INPUTS entry's chart-kind
// string, used to reject SIMPLIFIED_VARIABLE_SPEED trains attached to a
// single-speed or variable-speed (non-generic) chart.
func chartKind(cfg *Config, name string) (string, bool) {
	for _, fi := range cfg.FacilityInputs {
		if fi.Name == name {
			return fi.Kind, true
		}
	}
	return "", false
}

// simplifiedChartErrors implements compressor.ErrNotGenericChart's
// configuration-time counterpart: a SIMPLIFIED_VARIABLE_SPEED train may
// only reference a COMPRESSOR_CHART_GENERIC facility input.
func simplifiedChartErrors(cfg *Config) []error {
	var errs []error
	for _, m := range cfg.Models {
		for key, v := range m.Temporal {
			if v.TrainKind != "SIMPLIFIED_VARIABLE_SPEED" {
				continue
			}
			for si, st := range v.Stages {
				kind, ok := chartKind(cfg, st.Name)
				if ok && kind != "COMPRESSOR_CHART_GENERIC" {
					errs = append(errs, &ValidationError{
						Err:  compressor.ErrNotGenericChart,
						Path: fmt.Sprintf("models/%s/%s/stages/%d", m.Name, key, si),
					})
				}
			}
		}
	}
	return errs
}

// crossoverCycleErrors rejects cyclic crossover chains in a PUMP_SYSTEM
// or COMPRESSOR_SYSTEM operational setting (spec.md §9 "Crossover
// graph... require acyclic crossover at configuration time"), the same
// algorithm consumersystem.System.ValidateCrossover applies once units
// are resolved to indices; here the crossover map is still name-keyed.
func crossoverCycleErrors(cfg *Config) []error {
	var errs []error
	for _, m := range cfg.Models {
		for key, v := range m.Temporal {
			if v.Kind != "PUMP_SYSTEM" && v.Kind != "COMPRESSOR_SYSTEM" {
				continue
			}
			for si, setting := range v.Settings {
				if hasCrossoverCycle(setting.Crossover) {
					errs = append(errs, &ValidationError{
						Err:  errors.New("config: crossover chain is cyclic"),
						Path: fmt.Sprintf("models/%s/%s/settings/%d", m.Name, key, si),
					})
				}
			}
		}
	}
	return errs
}

func hasCrossoverCycle(crossover map[string]string) bool {
	for start := range crossover {
		visited := map[string]bool{start: true}
		cur := start
		for {
			next, ok := crossover[cur]
			if !ok {
				break
			}
			if visited[next] {
				return true
			}
			visited[next] = true
			cur = next
		}
	}
	return false
}

// interstagePlacementErrors implements
// compressor.ErrInterstageControlPlacement's configuration-time
// counterpart: a MULTIPLE_STREAMS_AND_PRESSURES train may carry at most
// one interstage pressure, and never on its first stage.
func interstagePlacementErrors(cfg *Config) []error {
	var errs []error
	for _, m := range cfg.Models {
		for key, v := range m.Temporal {
			if v.TrainKind != "MULTIPLE_STREAMS_AND_PRESSURES" {
				continue
			}
			count := 0
			firstMarked := false
			for si, st := range v.Stages {
				if st.InterstagePressure == nil {
					continue
				}
				count++
				if si == 0 {
					firstMarked = true
				}
			}
			if count > 1 || firstMarked {
				errs = append(errs, &ValidationError{
					Err:  compressor.ErrInterstageControlPlacement,
					Path: "models/" + m.Name + "/" + key,
				})
			}
		}
	}
	return errs
}
