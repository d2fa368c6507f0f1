package config

import (
	"errors"
	"testing"
)

func TestParseDecodesSections(t *testing.T) {
	doc := []byte(`
end: "2025-02-01"
fuel_types:
  - name: gas
    std_density: 0.8
    emission_factors:
      - species: CO2
        value: 2.2
installations:
  - name: inst-1
    asset: asset-1
`)
	cfg, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cfg.FuelTypes) != 1 || cfg.FuelTypes[0].Name != "gas" {
		t.Fatalf("got fuel types %+v", cfg.FuelTypes)
	}
	if len(cfg.Installations) != 1 || cfg.Installations[0].Asset != "asset-1" {
		t.Fatalf("got installations %+v", cfg.Installations)
	}
}

func TestValidateRejectsDuplicateNames(t *testing.T) {
	cfg := &Config{
		FuelTypes: []FuelTypeDef{{Name: "gas"}, {Name: "gas"}},
	}
	errs := Validate(cfg)
	if !containsErr(errs, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", errs)
	}
}

func TestValidateRejectsMissingMethane(t *testing.T) {
	cfg := &Config{
		Models: []ModelDef{{
			Name: "train-1",
			Temporal: map[string]ModelVariantDef{
				"2025-01-01": {
					Kind:        "COMPRESSOR",
					Composition: CompositionDef{Fractions: map[string]float64{"nitrogen": 0.1, "co2": 0.9}},
				},
			},
		}},
	}
	errs := Validate(cfg)
	if !containsErr(errs, ErrMissingMethane) {
		t.Errorf("expected ErrMissingMethane, got %v", errs)
	}
}

func TestValidateRejectsAdjustmentConflict(t *testing.T) {
	cfg := &Config{
		Models: []ModelDef{{
			Name: "pump-1",
			Temporal: map[string]ModelVariantDef{
				"2025-01-01": {Kind: "PUMP", MechanicalEfficiency: 0.8, PowerAdjustmentFactor: 1.1},
			},
		}},
	}
	errs := Validate(cfg)
	if !containsErr(errs, ErrAdjustmentConflict) {
		t.Errorf("expected ErrAdjustmentConflict, got %v", errs)
	}
}

func TestValidateRejectsConflictingTemporalTypes(t *testing.T) {
	cfg := &Config{
		Models: []ModelDef{{
			Name: "consumer-1",
			Temporal: map[string]ModelVariantDef{
				"2025-01-01": {Kind: "DIRECT", Unit: "MW"},
				"2025-06-01": {Kind: "PUMP"},
			},
		}},
	}
	errs := Validate(cfg)
	if !containsErr(errs, ErrConflictingTemporal) {
		t.Errorf("expected ErrConflictingTemporal, got %v", errs)
	}
}

func TestValidateRejectsSimplifiedTrainOnNonGenericChart(t *testing.T) {
	cfg := &Config{
		FacilityInputs: []FacilityInputDef{{Name: "chart-1", Kind: "COMPRESSOR_CHART_SINGLE_SPEED"}},
		Models: []ModelDef{{
			Name: "train-1",
			Temporal: map[string]ModelVariantDef{
				"2025-01-01": {
					Kind: "COMPRESSOR", TrainKind: "SIMPLIFIED_VARIABLE_SPEED",
					Stages: []StageDef{{ChartRefDef: ChartRefDef{Name: "chart-1"}}},
				},
			},
		}},
	}
	errs := Validate(cfg)
	if len(errs) == 0 {
		t.Fatalf("expected simplified-train-chart-kind rejection, got none")
	}
}

func TestValidateRejectsInterstageOnFirstStage(t *testing.T) {
	p := 90.0
	cfg := &Config{
		Models: []ModelDef{{
			Name: "train-1",
			Temporal: map[string]ModelVariantDef{
				"2025-01-01": {
					Kind: "COMPRESSOR", TrainKind: "MULTIPLE_STREAMS_AND_PRESSURES",
					Stages: []StageDef{
						{InterstagePressure: &p},
						{},
					},
				},
			},
		}},
	}
	errs := Validate(cfg)
	if len(errs) == 0 {
		t.Fatalf("expected interstage-on-first-stage rejection, got none")
	}
}

func TestValidateRejectsCrossoverCycle(t *testing.T) {
	cfg := &Config{
		Models: []ModelDef{{
			Name: "pumps",
			Temporal: map[string]ModelVariantDef{
				"2025-01-01": {
					Kind: "PUMP_SYSTEM",
					Settings: []OperationalSettingDef{
						{Crossover: map[string]string{"a": "b", "b": "a"}},
					},
				},
			},
		}},
	}
	errs := Validate(cfg)
	if len(errs) == 0 {
		t.Fatalf("expected crossover-cycle rejection, got none")
	}
}

func TestValidateAcceptsCleanConfig(t *testing.T) {
	cfg := &Config{
		FuelTypes: []FuelTypeDef{{Name: "gas"}},
		Models: []ModelDef{{
			Name: "consumer-1",
			Temporal: map[string]ModelVariantDef{
				"2025-01-01": {Kind: "DIRECT", Unit: "MW"},
			},
		}},
		Installations: []InstallationDef{{
			Name: "inst-1", Asset: "asset-1",
			GeneratorSets: []GeneratorSetDef{{
				Name:      "genset-1",
				Consumers: []ConsumerDef{{Name: "load", Model: "consumer-1"}},
			}},
		}},
	}
	errs := Validate(cfg)
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func containsErr(errs []error, target error) bool {
	for _, e := range errs {
		if errors.Is(e, target) {
			return true
		}
	}
	return false
}
