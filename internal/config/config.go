// Package config decodes and validates the declarative facility model
// (spec.md §6 "Configuration (declarative)"): TIME_SERIES,
// FACILITY_INPUTS, FUEL_TYPES, MODELS, VARIABLES, INSTALLATIONS. It
// follows the teacher's cobra/viper CLI conventions for surfacing
// rejected configuration as exit-code-1 errors (ceems' cmd/ceems_tool
// also decodes a yaml.v3 tagged config tree the same way) rather than
// attempting a general-purpose schema library.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TimeSeriesDef is one TIME_SERIES entry: a reference to a CSV resource
// (spec.md §6 "Time-series resource") and whether its instants
// participate in the global time vector (spec.md §3 "Time vector").
type TimeSeriesDef struct {
	Name                string `yaml:"name"`
	Path                string `yaml:"path"`
	InfluenceTimeVector bool   `yaml:"influence_time_vector"`
}

// FacilityInputDef is one FACILITY_INPUTS entry: a reference to a
// facility-characterization CSV (spec.md §6 "Facility characterization
// (CSV)") of a named kind.
type FacilityInputDef struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // PUMP_CHART | COMPRESSOR_CHART_SINGLE_SPEED | COMPRESSOR_CHART_VARIABLE_SPEED | COMPRESSOR_CHART_GENERIC | COMPRESSOR_SAMPLED | GENERATOR_SET_TABLE
	Path string `yaml:"path"`
}

// EmissionFactorDef is one (species, scope, value) row of a fuel type's
// emission factors (kg per Sm3 of fuel consumed).
type EmissionFactorDef struct {
	Species string  `yaml:"species"`
	Scope   string  `yaml:"scope"`
	Value   float64 `yaml:"value"`
}

// FuelTypeDef is one FUEL_TYPES entry.
type FuelTypeDef struct {
	Name            string              `yaml:"name"`
	StdDensity      float64             `yaml:"std_density"`
	EmissionFactors []EmissionFactorDef `yaml:"emission_factors"`
}

// CompositionDef is either a named preset or explicit mole fractions
// (spec.md §3 "Fluid composition").
type CompositionDef struct {
	Preset    string             `yaml:"preset,omitempty"`
	Fractions map[string]float64 `yaml:"fractions,omitempty"`
}

// ChartRefDef references a FACILITY_INPUTS chart by name, with the
// chart-level fields spec.md §3 "Compressor stage"/"Chart curve"
// attaches at the point of use rather than at the chart itself.
type ChartRefDef struct {
	Name               string  `yaml:"chart"`
	ControlMargin      float64 `yaml:"control_margin,omitempty"`
	ControlMarginUnit  string  `yaml:"control_margin_unit,omitempty"`
	HeadMargin         float64 `yaml:"head_margin,omitempty"`
	PressureDropAhead  float64 `yaml:"pressure_drop_ahead_of_stage,omitempty"`
	InletTemperature   float64 `yaml:"inlet_temperature,omitempty"`
}

// StageDef is one compressor-train stage (spec.md §3 "Compressor stage"):
// a chart reference plus optional side-stream and interstage-control
// attachments.
type StageDef struct {
	ChartRefDef       `yaml:",inline"`
	Ingoing           *StreamRefDef `yaml:"ingoing,omitempty"`
	Outgoing          *float64      `yaml:"outgoing,omitempty"` // mass rate, kg/s
	InterstagePressure *float64     `yaml:"interstage_pressure,omitempty"`
}

// StreamRefDef is a named fluid stream attached to a stage (spec.md §4.5.4
// "Side streams").
type StreamRefDef struct {
	Composition CompositionDef `yaml:"composition"`
	EOS         string         `yaml:"eos"`
	MassRate    float64        `yaml:"mass_rate"`
	Pressure    float64        `yaml:"pressure"` // Pa; required so the stream can be flashed/mixed on its own
	Temperature float64        `yaml:"temperature"`
}

// OperationalSettingDef is one C8 operational setting.
type OperationalSettingDef struct {
	RateFractions []float64          `yaml:"rate_fractions,omitempty"`
	Rates         []float64          `yaml:"rates,omitempty"`
	Pressures     []PressurePairDef  `yaml:"pressures,omitempty"`
	Crossover     map[string]string  `yaml:"crossover,omitempty"`
}

// PressurePairDef is a per-unit (suction, discharge) pressure pair, bara.
type PressurePairDef struct {
	SuctionP   float64 `yaml:"suction_p"`
	DischargeP float64 `yaml:"discharge_p"`
}

// ModelVariantDef is the tagged variant spec.md §9 "Dynamic dispatch over
// energy models" calls for: one YAML block whose Kind selects which of
// the following fields apply. Unused fields are left at their zero
// value; Validate rejects contradictory combinations (e.g. both
// MechanicalEfficiency and PowerAdjustmentFactor set).
type ModelVariantDef struct {
	Kind string `yaml:"kind"` // DIRECT | PUMP | PUMP_SYSTEM | COMPRESSOR | COMPRESSOR_SYSTEM | TABULATED | VARIABLE_SPEED_MULTIPLE_STREAMS | COMPRESSOR_WITH_TURBINE

	// DIRECT
	Variable string `yaml:"variable,omitempty"`
	Unit     string `yaml:"unit,omitempty"`

	// PUMP / PUMP_SYSTEM units and COMPRESSOR / COMPRESSOR_SYSTEM units
	Chart                  string  `yaml:"chart,omitempty"`
	HeadMargin             float64 `yaml:"head_margin,omitempty"`
	ControlMargin          float64 `yaml:"control_margin,omitempty"` // COMPRESSOR_SYSTEM units share one margin, same simplification as Units below
	RateVariable           string  `yaml:"rate_variable,omitempty"`
	SuctionPVariable       string  `yaml:"suction_p_variable,omitempty"`
	DischargePVariable     string  `yaml:"discharge_p_variable,omitempty"`
	Density                float64 `yaml:"density,omitempty"`
	StdDensity             float64 `yaml:"std_density,omitempty"`
	Speed                  float64 `yaml:"speed,omitempty"`
	MechanicalEfficiency   float64 `yaml:"mechanical_efficiency,omitempty"`
	PowerAdjustmentFactor  float64 `yaml:"power_adjustment_factor,omitempty"`
	PowerAdjustmentConst   float64 `yaml:"power_adjustment_constant,omitempty"`
	PowerLossFactor        float64 `yaml:"power_loss_factor,omitempty"`

	// COMPRESSOR / COMPRESSOR_SYSTEM / VARIABLE_SPEED_MULTIPLE_STREAMS
	Composition     CompositionDef `yaml:"composition,omitempty"`
	EOS             string         `yaml:"eos,omitempty"`
	InletTemperature float64       `yaml:"inlet_temperature,omitempty"`
	TrainKind       string         `yaml:"train_kind,omitempty"` // SINGLE_SPEED | VARIABLE_SPEED | SIMPLIFIED_VARIABLE_SPEED | MULTIPLE_STREAMS_AND_PRESSURES
	Stages          []StageDef     `yaml:"stages,omitempty"`
	MinSpeed        float64        `yaml:"min_speed,omitempty"`
	MaxSpeed        float64        `yaml:"max_speed,omitempty"`
	PressureControl string         `yaml:"pressure_control,omitempty"`
	MaxPowerMW      *float64       `yaml:"max_power_mw,omitempty"`
	MaxDischargeP   *float64       `yaml:"max_discharge_pressure,omitempty"`
	InterstageStage int            `yaml:"interstage_stage,omitempty"` // 1-based stage index carrying InterstagePressure

	// PUMP_SYSTEM / COMPRESSOR_SYSTEM
	Units                []string                `yaml:"units,omitempty"`
	UnitMaxInletMassRate []float64               `yaml:"unit_max_inlet_mass_rate,omitempty"` // COMPRESSOR_SYSTEM only, kg/s; missing/short entries default to unbounded
	Settings             []OperationalSettingDef `yaml:"settings,omitempty"`
	TotalRateVar         string                  `yaml:"total_rate_variable,omitempty"`

	// TABULATED
	Table         string   `yaml:"table,omitempty"`
	VariableNames []string `yaml:"variable_names,omitempty"`
	UseFuel       bool     `yaml:"use_fuel,omitempty"`

	// COMPRESSOR_WITH_TURBINE
	CompressorModel string    `yaml:"compressor_model,omitempty"`
	TurbineLoads    []float64 `yaml:"turbine_loads,omitempty"`
	TurbineEffs     []float64 `yaml:"turbine_efficiencies,omitempty"`
	LowerHeatingValue float64 `yaml:"lower_heating_value,omitempty"`
}

// ModelDef is one MODELS entry: a name and its temporal mapping of
// start-instant (RFC3339 or date-only string) to a model variant (spec.md
// §9 "Temporal models as piecewise-constant functions").
type ModelDef struct {
	Name     string                     `yaml:"name"`
	Temporal map[string]ModelVariantDef `yaml:"temporal"`
}

// VariableDef is one VARIABLES entry: a symbolic expression over
// time-series columns and other variables (spec.md §9 "Expressions").
type VariableDef struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
}

// ConsumerDef is one consumer attached to a generator set or
// fuel-consumer list.
type ConsumerDef struct {
	Name            string  `yaml:"name"`
	Category        string  `yaml:"category,omitempty"`
	Model           string  `yaml:"model"`
	Condition       string  `yaml:"condition,omitempty"`
	PowerLossFactor float64 `yaml:"power_loss_factor,omitempty"`
	FuelType        string  `yaml:"fuel_type,omitempty"` // fuel consumers only
}

// GeneratorSetDef is one INSTALLATIONS[].generator_sets entry. Its
// POWER->FUEL table is a FACILITY_INPUTS reference of kind
// GENERATOR_SET_TABLE (spec.md §6 "Generator set: columns POWER, FUEL"),
// read the same way a pump/compressor chart is.
type GeneratorSetDef struct {
	Name              string        `yaml:"name"`
	Consumers         []ConsumerDef `yaml:"consumers"`
	ElectricityToFuel string        `yaml:"electricity_to_fuel"` // FACILITY_INPUTS name, kind GENERATOR_SET_TABLE
	FuelType          string        `yaml:"fuel_type"`
}

// VentingEmitterDef is one venting-emitter entry (supplemented beyond the
// distilled spec's stated scope, per spec.md §4.9 step 4's note that
// venting is "excluded here except as interface").
type VentingEmitterDef struct {
	Name          string                       `yaml:"name"`
	EmissionRates map[string]map[string]float64 `yaml:"emission_rates"` // start-instant -> species -> kg/day
}

// InstallationDef is one INSTALLATIONS entry.
type InstallationDef struct {
	Name            string              `yaml:"name"`
	Asset           string              `yaml:"asset"`
	Regularity      map[string]float64  `yaml:"regularity,omitempty"`
	GeneratorSets   []GeneratorSetDef   `yaml:"generator_sets,omitempty"`
	FuelConsumers   []ConsumerDef       `yaml:"fuel_consumers,omitempty"`
	VentingEmitters []VentingEmitterDef `yaml:"venting_emitters,omitempty"`
}

// Config is the full decoded declarative facility model (spec.md §6).
type Config struct {
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end"`

	TimeSeries      []TimeSeriesDef     `yaml:"time_series,omitempty"`
	FacilityInputs  []FacilityInputDef  `yaml:"facility_inputs,omitempty"`
	FuelTypes       []FuelTypeDef       `yaml:"fuel_types,omitempty"`
	Models          []ModelDef          `yaml:"models,omitempty"`
	Variables       []VariableDef       `yaml:"variables,omitempty"`
	Installations   []InstallationDef   `yaml:"installations"`
}

// Parse decodes a configuration document (spec.md §6 "Configuration
// (declarative)").
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadFile reads and decodes a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}
