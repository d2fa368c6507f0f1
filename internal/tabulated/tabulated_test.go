package tabulated

import "testing"

func different(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d > tol
}

func f64(v float64) *float64 { return &v }

func sampleTable() Table {
	// A 2-D (rate, power-axis) table shaped as a 10x10 square, POWER only.
	return Table{
		Dim: 2,
		Samples: []Sample{
			{Point: []float64{0, 0}, Power: f64(0)},
			{Point: []float64{10, 0}, Power: f64(10)},
			{Point: []float64{0, 10}, Power: f64(20)},
			{Point: []float64{10, 10}, Power: f64(30)},
		},
	}
}

func TestVertexRoundTrip(t *testing.T) {
	tb := sampleTable()
	for _, s := range tb.Samples {
		res := tb.Query(s.Point)
		if !res.Valid {
			t.Fatalf("vertex query %v returned invalid: %v", s.Point, res.Failure)
		}
		if different(res.Power, *s.Power, 1e-9) {
			t.Errorf("vertex %v: got power %v, want %v", s.Point, res.Power, *s.Power)
		}
	}
}

func TestInteriorPointInterpolates(t *testing.T) {
	tb := sampleTable()
	res := tb.Query([]float64{5, 5})
	if !res.Valid {
		t.Fatalf("expected valid interior query, got failure: %v", res.Failure)
	}
	if res.Power < 0 || res.Power > 30 {
		t.Errorf("got power %v, want within table range [0,30]", res.Power)
	}
}

func TestOutsideConvexHull(t *testing.T) {
	tb := sampleTable()
	res := tb.Query([]float64{100, 100})
	if res.Failure != ErrOutsideConvexHull {
		t.Errorf("got %v, want ErrOutsideConvexHull", res.Failure)
	}
}

func TestValidateRequiresOutputColumn(t *testing.T) {
	tb := Table{Dim: 1, Samples: []Sample{{Point: []float64{0}}, {Point: []float64{1}}}}
	if err := tb.Validate(); err != ErrNoOutputColumn {
		t.Errorf("got %v, want ErrNoOutputColumn", err)
	}
}
