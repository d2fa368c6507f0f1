package expr

import "testing"

func TestEvalBool(t *testing.T) {
	e, err := Parse("$var.WATER_PROD>0")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	cases := []struct {
		waterProd float64
		want      bool
	}{
		{1000, true},
		{0, false},
	}
	for _, c := range cases {
		got, err := e.EvalBool(map[string]float64{"WATER_PROD": c.waterProd})
		if err != nil {
			t.Fatalf("EvalBool failed: %v", err)
		}
		if got != c.want {
			t.Errorf("WATER_PROD=%v: got %v, want %v", c.waterProd, got, c.want)
		}
	}
}

func TestEvalFloat(t *testing.T) {
	e, err := Parse("$var.A + $var.B * 2")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	got, err := e.EvalFloat(map[string]float64{"A": 1, "B": 3})
	if err != nil {
		t.Fatalf("EvalFloat failed: %v", err)
	}
	if got != 7 {
		t.Errorf("got %v, want 7", got)
	}
}

func TestMinMaxFunctions(t *testing.T) {
	e, err := Parse("max($var.A, $var.B)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	got, err := e.EvalFloat(map[string]float64{"A": 1, "B": 3})
	if err != nil {
		t.Fatalf("EvalFloat failed: %v", err)
	}
	if got != 3 {
		t.Errorf("got %v, want 3", got)
	}
}
