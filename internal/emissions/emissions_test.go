package emissions

import (
	"math"
	"testing"
)

func TestEmissionRatesMultipliesFactor(t *testing.T) {
	reg := NewRegistry([]FuelType{
		{Name: "diesel", StdDensity: 840, EmissionFactors: []Factor{
			{Species: "CO2", Scope: "combustion", Value: 2.68},
			{Species: "NOx", Scope: "combustion", Value: 0.05},
		}},
	})
	rates, err := reg.EmissionRates("diesel", 1000)
	if err != nil {
		t.Fatalf("EmissionRates failed: %v", err)
	}
	if rates["CO2"] != 2680 {
		t.Errorf("got CO2 rate %v, want 2680", rates["CO2"])
	}
	if rates["NOx"] != 50 {
		t.Errorf("got NOx rate %v, want 50", rates["NOx"])
	}
}

func TestUnknownFuelType(t *testing.T) {
	reg := NewRegistry(nil)
	if _, err := reg.EmissionRates("nonexistent", 100); err != ErrUnknownFuelType {
		t.Errorf("got %v, want ErrUnknownFuelType", err)
	}
}

func TestNaNFuelRatePropagates(t *testing.T) {
	reg := NewRegistry([]FuelType{{Name: "gas", EmissionFactors: []Factor{{Species: "CO2", Value: 2.0}}}})
	nan := math.NaN()
	rates, _ := reg.EmissionRates("gas", nan)
	if !math.IsNaN(rates["CO2"]) {
		t.Errorf("expected NaN to propagate, got %v", rates["CO2"])
	}
}

func TestCalendarDayMass(t *testing.T) {
	got := CalendarDayMass(1000, 0.9, 30)
	if got != 27000 {
		t.Errorf("got %v, want 27000", got)
	}
}
