package consumersystem

import (
	"math"
	"testing"
)

// capacityUnit is a fake Unit for testing: valid iff rate <= MaxRate.
type capacityUnit struct {
	MaxRate float64
}

func (u capacityUnit) Capacity(pIn, pOut float64) float64 { return u.MaxRate }

func (u capacityUnit) Evaluate(rate, pIn, pOut float64) UnitResult {
	if rate > u.MaxRate {
		return UnitResult{Rate: rate, Valid: false}
	}
	return UnitResult{Rate: rate, EnergyMW: rate * 0.001, Valid: true}
}

func TestCrossoverFallsBackToSecondSetting(t *testing.T) {
	// spec.md §8 scenario 4's shape: setting 1 concentrates all rate on
	// unit 0 with a crossover to unit 1; the crossed-over excess still
	// exceeds unit 1's own capacity, so setting 1 fails and setting 2 (a
	// distinct, lower explicit allocation) is selected instead.
	sys := System{
		Units: []Unit{capacityUnit{MaxRate: 3000}, capacityUnit{MaxRate: 3000}},
		Crossover: map[int]int{
			0: 1,
		},
		Settings: []Setting{
			{RateFractions: []float64{1, 0}, Pressures: []PressurePair{{0, 0}}},
			{Rates: []float64{2500, 2500}, Pressures: []PressurePair{{0, 0}}},
		},
	}
	res := sys.Evaluate(7000)
	if res.ChosenOperationalSetting != 2 {
		t.Fatalf("got chosen setting %d, want 2 (crossover-overloaded setting 1 must fail)", res.ChosenOperationalSetting)
	}
	if !res.AllValid {
		t.Errorf("expected setting 2 to be fully valid")
	}
}

func TestExhaustedReportsNaNAggregate(t *testing.T) {
	sys := System{
		Units:    []Unit{capacityUnit{MaxRate: 100}},
		Settings: []Setting{{RateFractions: []float64{1}, Pressures: []PressurePair{{0, 0}}}},
	}
	res := sys.Evaluate(1000)
	if res.ChosenOperationalSetting != 0 {
		t.Errorf("got chosen setting %d, want 0 (exhausted)", res.ChosenOperationalSetting)
	}
	if !math.IsNaN(res.TotalEnergyMW) {
		t.Errorf("expected NaN aggregate energy when exhausted, got %v", res.TotalEnergyMW)
	}
}

func TestValidateCrossoverRejectsCycle(t *testing.T) {
	sys := System{Crossover: map[int]int{0: 1, 1: 0}}
	if err := sys.ValidateCrossover(); err != ErrCrossoverCycle {
		t.Errorf("got %v, want ErrCrossoverCycle", err)
	}
}

func TestFirstValidSettingWins(t *testing.T) {
	sys := System{
		Units:    []Unit{capacityUnit{MaxRate: 100}},
		Settings: []Setting{{RateFractions: []float64{1}, Pressures: []PressurePair{{0, 0}}}},
	}
	res := sys.Evaluate(50)
	if res.ChosenOperationalSetting != 1 {
		t.Errorf("got chosen setting %d, want 1", res.ChosenOperationalSetting)
	}
}
