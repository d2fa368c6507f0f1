package fluid

import "testing"

func different(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d > tol
}

func TestFlashPTMethaneRequired(t *testing.T) {
	c := New(map[Component]float64{Nitrogen: 1})
	_, err := CubicProvider{}.FlashPT(c, SRK, 5e6, 300)
	if err == nil {
		t.Fatalf("expected an error for a composition missing methane")
	}
}

func TestFlashPTNonPhysical(t *testing.T) {
	c := Presets["DRY"]
	if _, err := (CubicProvider{}).FlashPT(c, SRK, -1, 300); err != ErrNonPhysicalState {
		t.Errorf("got %v, want ErrNonPhysicalState", err)
	}
	if _, err := (CubicProvider{}).FlashPT(c, SRK, 1e5, 0); err != ErrNonPhysicalState {
		t.Errorf("got %v, want ErrNonPhysicalState", err)
	}
}

func TestFlashPTDensityIncreasesWithPressure(t *testing.T) {
	c := Presets["DRY"]
	lowP, err := CubicProvider{}.FlashPT(c, SRK, 5e6, 320)
	if err != nil {
		t.Fatalf("flash failed: %v", err)
	}
	highP, err := CubicProvider{}.FlashPT(c, SRK, 10e6, 320)
	if err != nil {
		t.Fatalf("flash failed: %v", err)
	}
	if highP.Rho <= lowP.Rho {
		t.Errorf("expected density to increase with pressure: %v vs %v", lowP.Rho, highP.Rho)
	}
	if highP.Kappa <= 1 {
		t.Errorf("kappa should be > 1, got %v", highP.Kappa)
	}
}

func TestFlashPHRoundTrip(t *testing.T) {
	c := Presets["MEDIUM"]
	p := CubicProvider{}
	st, err := p.FlashPT(c, SRK, 6e6, 330)
	if err != nil {
		t.Fatalf("flash failed: %v", err)
	}
	back, err := p.FlashPH(c, SRK, 6e6, st.H)
	if err != nil {
		t.Fatalf("FlashPH failed: %v", err)
	}
	if different(back.T, st.T, 1e-2) {
		t.Errorf("round trip T: got %v, want %v", back.T, st.T)
	}
}

func TestMixTemperatureBetweenInputs(t *testing.T) {
	c := Presets["DRY"]
	p := CubicProvider{}
	a := Stream{Composition: c, EOS: SRK, MassRate: 10, P: 5e6, T: 280}
	b := Stream{Composition: c, EOS: SRK, MassRate: 10, P: 5e6, T: 340}
	mixed, err := p.Mix([]Stream{a, b})
	if err != nil {
		t.Fatalf("mix failed: %v", err)
	}
	if mixed.MassRate != 20 {
		t.Errorf("mixed mass rate: got %v, want 20", mixed.MassRate)
	}
	if mixed.T <= 280 || mixed.T >= 340 {
		t.Errorf("mixed temperature %v not between inputs", mixed.T)
	}
}

func TestStandardConditionsDensity(t *testing.T) {
	c := Presets["DRY"]
	rho, err := CubicProvider{}.StandardConditionsDensity(c, SRK)
	if err != nil {
		t.Fatalf("StandardConditionsDensity failed: %v", err)
	}
	if rho <= 0 || rho > 2 {
		t.Errorf("standard-conditions density out of plausible range: %v kg/m3", rho)
	}
}
