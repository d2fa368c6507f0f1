package solve

import "testing"

func TestBrentPolynomialRoot(t *testing.T) {
	// f(x) = x^2 - 2, root at sqrt(2).
	f := func(x float64) float64 { return x*x - 2 }
	root, err := Brent(f, 0, 2, 1e-10)
	if err != nil {
		t.Fatalf("Brent failed: %v", err)
	}
	const want = 1.4142135623730951
	if diff := root - want; diff > 1e-8 || diff < -1e-8 {
		t.Errorf("got %v, want %v", root, want)
	}
}

func TestBrentNotBracketed(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	_, err := Brent(f, 0, 2, 1e-10)
	if err != ErrNotBracketed {
		t.Errorf("got %v, want ErrNotBracketed", err)
	}
}

func TestBracketExpands(t *testing.T) {
	f := func(x float64) float64 { return x - 10 }
	lo, hi, err := Bracket(f, 0, 1, 10, 2)
	if err != nil {
		t.Fatalf("Bracket failed: %v", err)
	}
	if lo > 10 || hi < 10 {
		t.Errorf("bracket [%v, %v] does not contain root 10", lo, hi)
	}
}
