package turbine

import "testing"

func different(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d > tol
}

func TestZeroLoadIsValidZeroFuel(t *testing.T) {
	tbl := Table{Loads: []float64{0, 10, 20}, Efficiencies: []float64{0, 0.2, 0.3}, LowerHeatingValue: 38}
	res := Evaluate(tbl, 0)
	if !res.Valid || res.FuelRate != 0 {
		t.Fatalf("got %+v, want valid zero-fuel result", res)
	}
}

func TestAboveCapacityIsInvalid(t *testing.T) {
	tbl := Table{Loads: []float64{0, 10, 20}, Efficiencies: []float64{0, 0.2, 0.3}, LowerHeatingValue: 38}
	res := Evaluate(tbl, 25)
	if res.Failure != ErrAboveTurbineCapacity {
		t.Errorf("got %v, want ErrAboveTurbineCapacity", res.Failure)
	}
}

func TestSampledCompressorTurbineScenario(t *testing.T) {
	// spec scenario 2: LHV=38, loads=[0,2.352,...,22.767], effs=[0,0.138,...,0.362],
	// query at load=15 MW should give eta ~ 0.328 and fuel ~ 103,979 Sm3/day.
	tbl := Table{
		Loads:        []float64{0, 2.352, 10.5, 15, 22.767},
		Efficiencies: []float64{0, 0.138, 0.28, 0.328, 0.362},
		LowerHeatingValue: 38,
	}
	res := Evaluate(tbl, 15)
	if !res.Valid {
		t.Fatalf("expected valid result, got failure %v", res.Failure)
	}
	if different(res.Efficiency, 0.328, 1e-9) {
		t.Errorf("got efficiency %v, want 0.328 (exact table vertex)", res.Efficiency)
	}
	wantFuel := 15.0 * 86400 / (38 * 0.328)
	if different(res.FuelRate, wantFuel, 1e-6) {
		t.Errorf("got fuel %v, want %v", res.FuelRate, wantFuel)
	}
}

func TestInvalidTableRejected(t *testing.T) {
	bad := Table{Loads: []float64{1, 2}, Efficiencies: []float64{0, 0.5}, LowerHeatingValue: 38}
	if err := bad.Validate(); err != ErrInvalidTable {
		t.Errorf("got %v, want ErrInvalidTable for non-zero-starting loads", err)
	}
}
