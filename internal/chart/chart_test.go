package chart

import "testing"

func different(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d > tol
}

func sampleCurve() Curve {
	return Curve{
		Rate:       []float64{100, 200, 300, 400, 500},
		Head:       []float64{220, 210, 190, 160, 120},
		Efficiency: []float64{0.55, 0.70, 0.78, 0.72, 0.60},
	}
}

func TestCurveValidate(t *testing.T) {
	if err := sampleCurve().Validate(); err != nil {
		t.Fatalf("valid curve rejected: %v", err)
	}
	bad := sampleCurve()
	bad.Rate[2] = bad.Rate[1] // not strictly increasing
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected ErrGeometryInvalid for non-increasing rate")
	}
}

func TestPumpChartRecirculation(t *testing.T) {
	pc, err := NewPumpChart([]Curve{sampleCurve()}, 10)
	if err != nil {
		t.Fatalf("NewPumpChart failed: %v", err)
	}
	res := pc.Query(50, 0, 220)
	if !res.Flags.RecirculationApplied {
		t.Errorf("expected recirculation to be applied for below-minimum-flow rate")
	}
	if res.Rate != 100 {
		t.Errorf("got recirculated rate %v, want 100", res.Rate)
	}
}

func TestPumpChartAboveMaxFlow(t *testing.T) {
	pc, _ := NewPumpChart([]Curve{sampleCurve()}, 10)
	res := pc.Query(600, 0, 100)
	if res.Failure != ErrAboveMaxFlow {
		t.Errorf("got %v, want ErrAboveMaxFlow", res.Failure)
	}
}

func TestPumpChartHeadMargin(t *testing.T) {
	pc, _ := NewPumpChart([]Curve{sampleCurve()}, 5)
	// Curve max head is 220 (at rate=100); request 223, within the 5m margin.
	res := pc.Query(100, 0, 223)
	if !res.Valid {
		t.Fatalf("expected head within margin to be valid, got failure %v", res.Failure)
	}
	res2 := pc.Query(100, 0, 230)
	if res2.Failure != ErrAboveMaxHead {
		t.Errorf("got %v, want ErrAboveMaxHead outside margin", res2.Failure)
	}
}

func TestEnvelopeBilinearInterpolation(t *testing.T) {
	low := Curve{Speed: 3000, Rate: []float64{100, 300, 500}, Head: []float64{150, 130, 90}, Efficiency: []float64{0.5, 0.7, 0.55}}
	high := Curve{Speed: 6000, Rate: []float64{100, 300, 500}, Head: []float64{300, 260, 180}, Efficiency: []float64{0.5, 0.75, 0.6}}
	env, err := NewEnvelope([]Curve{low, high})
	if err != nil {
		t.Fatalf("NewEnvelope failed: %v", err)
	}
	h, _ := env.HeadEffAt(300, 4500)
	want := (130.0 + 260.0) / 2
	if different(h, want, 1e-9) {
		t.Errorf("got head %v, want %v", h, want)
	}
}

func TestGenericFromInputCoversAllPoints(t *testing.T) {
	pts := []ObservedPoint{{Rate: 1000, Head: 50}, {Rate: 1800, Head: 80}, {Rate: 2600, Head: 60}}
	c, err := FitGenericFromInput(pts, 0.78, 0.1)
	if err != nil {
		t.Fatalf("FitGenericFromInput failed: %v", err)
	}
	for _, p := range pts {
		if p.Rate < c.Curves[0].MinFlow() || p.Rate > c.Curves[0].MaxFlow() {
			t.Errorf("point %+v not within fitted chart flow range", p)
		}
		if p.Head > c.Curves[0].HeadAt(p.Rate)+1e-6 {
			t.Errorf("point %+v not within fitted chart head envelope", p)
		}
	}
}

func TestGenericFromInputDesignPointMonotonic(t *testing.T) {
	base := []ObservedPoint{{Rate: 1000, Head: 50}, {Rate: 1800, Head: 80}}
	c1, err := FitGenericFromInput(base, 0.78, 0.1)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	extended := append(append([]ObservedPoint{}, base...), ObservedPoint{Rate: 3000, Head: 90})
	c2, err := FitGenericFromInput(extended, 0.78, 0.1)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	r1, h1 := c1.DesignPoint()
	r2, h2 := c2.DesignPoint()
	if r2 < r1 || h2 < h1 {
		t.Errorf("design point did not grow monotonically: (%v,%v) -> (%v,%v)", r1, h1, r2, h2)
	}
}
