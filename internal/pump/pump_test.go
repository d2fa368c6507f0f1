package pump

import (
	"testing"

	"github.com/oilfield/energyflow/internal/chart"
)

func sampleChart(t *testing.T) *chart.PumpChart {
	t.Helper()
	c, err := chart.NewPumpChart([]chart.Curve{{
		Rate:       []float64{50, 100, 150, 200, 250},
		Head:       []float64{230, 220, 200, 170, 130},
		Efficiency: []float64{0.5, 0.65, 0.74, 0.68, 0.55},
	}}, 10)
	if err != nil {
		t.Fatalf("NewPumpChart failed: %v", err)
	}
	return c
}

func TestConditionGating(t *testing.T) {
	c := sampleChart(t)
	res := Evaluate(c, Input{
		RateStreamDay: 5000, SuctionP: 3, DischargeP: 200, Density: 1026, StdDensity: 1026,
		Condition: false,
	})
	if !res.Valid || res.EnergyMW != 0 {
		t.Errorf("condition-gated pump should be valid with zero energy, got %+v", res)
	}
}

func TestInvalidPressure(t *testing.T) {
	c := sampleChart(t)
	res := Evaluate(c, Input{RateStreamDay: 1000, SuctionP: 200, DischargeP: 3, Density: 1000, StdDensity: 1000, Condition: true})
	if res.Failure != ErrInvalidPressure {
		t.Errorf("got %v, want ErrInvalidPressure", res.Failure)
	}
}

func TestZeroRateIsValidZeroEnergy(t *testing.T) {
	c := sampleChart(t)
	res := Evaluate(c, Input{RateStreamDay: 0, SuctionP: 3, DischargeP: 200, Density: 1000, StdDensity: 1000, Condition: true})
	if !res.Valid || res.EnergyMW != 0 {
		t.Errorf("zero rate should be valid with zero energy, got %+v", res)
	}
}

func TestPowerLossFactorIncreasesEnergy(t *testing.T) {
	c := sampleChart(t)
	base := Evaluate(c, Input{RateStreamDay: 5000, SuctionP: 3, DischargeP: 18, Density: 1000, StdDensity: 1000, Condition: true})
	lossy := Evaluate(c, Input{RateStreamDay: 5000, SuctionP: 3, DischargeP: 18, Density: 1000, StdDensity: 1000, Condition: true, PowerLossFactor: 0.1})
	if !base.Valid || !lossy.Valid {
		t.Fatalf("expected both evaluations valid: %+v / %+v", base, lossy)
	}
	if lossy.EnergyMW <= base.EnergyMW {
		t.Errorf("power loss factor should increase reported energy: %v vs %v", lossy.EnergyMW, base.EnergyMW)
	}
}
