package facility

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oilfield/energyflow/internal/chart"
	"github.com/oilfield/energyflow/internal/emissions"
	"github.com/oilfield/energyflow/internal/expr"
	"github.com/oilfield/energyflow/internal/fluid"
)

func samplePumpChart(t *testing.T) *chart.PumpChart {
	t.Helper()
	curve := chart.Curve{
		Rate:       []float64{100, 200, 300, 400, 500},
		Head:       []float64{220, 210, 190, 160, 120},
		Efficiency: []float64{0.55, 0.70, 0.78, 0.72, 0.60},
	}
	pc, err := chart.NewPumpChart([]chart.Curve{curve}, 10)
	if err != nil {
		t.Fatalf("NewPumpChart failed: %v", err)
	}
	return pc
}

func TestConsumerConditionGating(t *testing.T) {
	cond, err := expr.Parse("$var.WATER_PROD > 0")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	c := &Consumer{
		Name:      "water_injection_pump",
		Category:  "PUMP",
		Condition: &Condition{Expr: cond},
		Model: NewTemporalMap(map[time.Time]EnergyModel{
			time.Unix(0, 0): PumpModel{
				Chart: samplePumpChart(t), RateVariable: "RATE", SuctionPVariable: "PIN", DischargePVariable: "POUT",
				Density: 1026, StdDensity: 1026,
			},
		}),
	}
	p := Period{Start: time.Unix(0, 0), End: time.Unix(86400, 0)}

	ctxOn := EvalContext{Provider: fluid.CubicProvider{}, Variables: map[string]float64{
		"WATER_PROD": 1000, "RATE": 5000, "PIN": 3, "POUT": 20,
	}}
	recOn := c.Evaluate(p, ctxOn)
	if !recOn.Valid {
		t.Fatalf("expected valid result, got failure: %v", recOn.Failure)
	}

	ctxOff := EvalContext{Provider: fluid.CubicProvider{}, Variables: map[string]float64{
		"WATER_PROD": 0, "RATE": 5000, "PIN": 3, "POUT": 20,
	}}
	recOff := c.Evaluate(p, ctxOff)
	if !recOff.Valid || recOff.Value.Value != 0 {
		t.Errorf("got %+v, want valid zero-energy result when CONDITION is false", recOff)
	}
}

func TestGeneratorSetOverloadClamps(t *testing.T) {
	// spec.md §8 scenario 6: ELECTRICITY2FUEL (0,0),(10,10000),(40,40000);
	// total load 45 MW -> fuel=40000 clamped, invalid.
	genset := &GeneratorSet{
		Name: "genset-1",
		Consumers: []*Consumer{
			{Name: "load", Category: "ELECTRICAL", Model: NewTemporalMap(map[time.Time]EnergyModel{
				time.Unix(0, 0): DirectModel{VariableName: "LOAD", Unit: "MW"},
			})},
		},
		ElectricityToFuel: ElectricityToFuel{Power: []float64{0, 10, 40}, Fuel: []float64{0, 10000, 40000}},
	}
	p := Period{Start: time.Unix(0, 0), End: time.Unix(86400, 0)}
	ctx := EvalContext{Variables: map[string]float64{"LOAD": 45}}
	rec := genset.Evaluate(p, ctx)
	if rec.Valid {
		t.Errorf("expected invalid (overloaded) generator set result")
	}
	if rec.FuelRate != 40000 {
		t.Errorf("got fuel rate %v, want 40000 (clamped)", rec.FuelRate)
	}
}

func TestFuelConsumerEmissionsUseFuelType(t *testing.T) {
	reg := emissions.NewRegistry([]emissions.FuelType{
		{Name: "gas", EmissionFactors: []emissions.Factor{{Species: "CO2", Value: 2.2}}},
	})
	fc := &FuelConsumer{
		Consumer: Consumer{
			Name: "compressor-fuel", Model: NewTemporalMap(map[time.Time]EnergyModel{
				time.Unix(0, 0): DirectModel{VariableName: "FUEL", Unit: "Sm3/day"},
			}),
		},
		FuelType: "gas",
	}
	p := Period{Start: time.Unix(0, 0), End: time.Unix(86400, 0)}
	ctx := EvalContext{Variables: map[string]float64{"FUEL": 1000}}
	rec := fc.Evaluate(p, ctx, reg, 0.5)
	if rec.Emissions["CO2"] != 2200 {
		t.Errorf("got CO2 emission rate %v, want 2200", rec.Emissions["CO2"])
	}
	if rec.CalendarDayEmissions["CO2"] != 1100 {
		t.Errorf("got CO2 calendar-day mass %v, want 1100 (rate * regularity * 1 day)", rec.CalendarDayEmissions["CO2"])
	}
}

func TestAssetEvaluateAggregatesElectricLoad(t *testing.T) {
	genset := &GeneratorSet{
		Name: "genset-1",
		Consumers: []*Consumer{
			{Name: "load", Model: NewTemporalMap(map[time.Time]EnergyModel{
				time.Unix(0, 0): DirectModel{VariableName: "LOAD", Unit: "MW"},
			})},
		},
		ElectricityToFuel: ElectricityToFuel{Power: []float64{0, 100}, Fuel: []float64{0, 100000}},
	}
	inst := &Installation{
		Name: "inst-1", GeneratorSets: []*GeneratorSet{genset},
		Regularity: NewTemporalMap(map[time.Time]float64{time.Unix(0, 0): 0.8}),
	}
	asset := &Asset{Name: "asset-1", Installations: []*Installation{inst}}
	p := Period{Start: time.Unix(0, 0), End: time.Unix(86400, 0)}
	rec := asset.Evaluate(p, EvalContext{Variables: map[string]float64{"LOAD": 20}}, emissions.NewRegistry(nil), logrus.New())
	if rec.ElectricMW != 20 {
		t.Errorf("got asset electric load %v, want 20", rec.ElectricMW)
	}
	if rec.MeanRegularity != 0.8 {
		t.Errorf("got mean regularity %v, want 0.8", rec.MeanRegularity)
	}
}

func TestBuildTimeVectorUnion(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	seriesA := []time.Time{time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)}
	modelInstants := []time.Time{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), start.Add(-24 * time.Hour)}
	vec := BuildTimeVector(start, end, [][]time.Time{seriesA}, modelInstants)
	if len(vec) != 3 {
		t.Fatalf("got %d instants, want 3 (start, jan 10, jan 15), got %v", len(vec), vec)
	}
	periods := PeriodsFromVector(vec, end)
	if len(periods) != 3 {
		t.Fatalf("got %d periods, want 3", len(periods))
	}
	if periods[len(periods)-1].End != end {
		t.Errorf("last period should end at globalEnd")
	}
}
