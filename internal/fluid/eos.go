package fluid

import (
	"errors"
	"math"

	"github.com/oilfield/energyflow/internal/solve"
)

// EOS selects the equation of state used for a flash. GERG variants are
// evaluated with their cubic counterpart (GERGSRK as SRK, GERGPR as PR)
// for every property; no separate GERG correlation is implemented.
type EOS int

const (
	SRK EOS = iota
	PR
	GERGSRK
	GERGPR
)

// GasConstant is R in J/(kmol*K).
const GasConstant = 8314.462618

const standardP = 101325.0  // 1.01325 bar
const standardT = 288.15    // 15 degC

// ErrEosConvergence is returned when a flash's internal iteration does not
// converge (spec.md §4.1 "EosConvergence").
var ErrEosConvergence = errors.New("fluid: equation of state did not converge")

// ErrNonPhysicalState is returned when a non-physical state is requested
// (spec.md §4.1 "NonPhysicalState when T<=0 or P<=0").
var ErrNonPhysicalState = errors.New("fluid: non-physical state requested (P<=0 or T<=0)")

// State is the thermodynamic state returned by a flash: molar mass,
// compressibility, heat-capacity ratio, enthalpy, entropy, density.
type State struct {
	P, T    float64 // Pa, K
	Mw      float64 // kg/kmol
	Z       float64 // dimensionless
	Kappa   float64 // Cp/Cv
	H       float64 // J/kg
	S       float64 // J/(kg*K)
	Rho     float64 // kg/m3
}

// eosAB returns the SRK/PR mixture a, b cubic-EOS coefficients for a
// composition at temperature T, using Kay's linear mixing rule (kij=0).
func eosAB(c Composition, eos EOS, T float64) (a, b float64) {
	omegaA, omegaB := 0.42748, 0.08664
	if eos == PR || eos == GERGPR {
		omegaA, omegaB = 0.45724, 0.07780
	}
	for i, xi := range c {
		if xi == 0 {
			continue
		}
		p := table[i]
		b += xi * omegaB * GasConstant * p.Tc / p.Pc
	}
	// a_mix = sum_i sum_j x_i x_j sqrt(ai*aj); ai uses the SRK/PR alpha(T)
	// temperature correction.
	ai := make([]float64, nComponents)
	for i := range c {
		if c[i] == 0 {
			continue
		}
		p := table[i]
		ac := omegaA * GasConstant * GasConstant * p.Tc * p.Tc / p.Pc
		var m float64
		if eos == PR || eos == GERGPR {
			m = 0.37464 + 1.54226*p.omega - 0.26992*p.omega*p.omega
		} else {
			m = 0.480 + 1.574*p.omega - 0.176*p.omega*p.omega
		}
		alpha := math.Pow(1+m*(1-math.Sqrt(T/p.Tc)), 2)
		ai[i] = ac * alpha
	}
	for i, xi := range c {
		if xi == 0 {
			continue
		}
		for j, xj := range c {
			if xj == 0 {
				continue
			}
			a += xi * xj * math.Sqrt(ai[i]*ai[j])
		}
	}
	return a, b
}

// compressibility solves the cubic EOS Z^3 - Z^2 + (A-B-B^2)Z - AB = 0 for
// the vapor-like root, bracketing around the ideal-gas value (Z=1) per
// spec.md §9 "prefer Brent's method with explicit bracketing".
func compressibility(a, b, P, T float64) (float64, error) {
	A := a * P / (GasConstant * GasConstant * T * T)
	B := b * P / (GasConstant * T)
	f := func(Z float64) float64 {
		return Z*Z*Z - Z*Z + (A-B-B*B)*Z - A*B
	}
	lo, hi, err := solve.Bracket(f, 0.05, 1.5, solve.MaxIterations, 1.8)
	if err != nil {
		return 0, ErrEosConvergence
	}
	z, err := solve.Brent(f, lo, hi, 1e-9)
	if err != nil {
		return 0, ErrEosConvergence
	}
	return z, nil
}

// idealCp returns the mixture ideal-gas molar heat capacity at T,
// J/(kmol*K), from the per-component polynomial correlations.
func idealCp(c Composition, T float64) float64 {
	var cp float64
	for i, xi := range c {
		if xi == 0 {
			continue
		}
		p := table[i]
		cp += xi * (p.cpA + p.cpB*T + p.cpC*T*T)
	}
	return cp
}

// idealEnthalpy is the ideal-gas molar enthalpy above 0K, J/kmol,
// integrating the Cp polynomial.
func idealEnthalpy(c Composition, T float64) float64 {
	var h float64
	for i, xi := range c {
		if xi == 0 {
			continue
		}
		p := table[i]
		h += xi * (p.cpA*T + p.cpB*T*T/2 + p.cpC*T*T*T/3)
	}
	return h
}

// idealEntropy is the ideal-gas molar entropy at (T, P) relative to a
// reference state, J/(kmol*K).
func idealEntropy(c Composition, T, P float64) float64 {
	var s float64
	for i, xi := range c {
		if xi == 0 {
			continue
		}
		p := table[i]
		s += xi * (p.cpA*math.Log(T) + p.cpB*T + p.cpC*T*T/2)
	}
	s -= GasConstant * math.Log(P/standardP)
	return s
}

// departureEnthalpy is the SRK/PR residual molar enthalpy, J/kmol:
// H_dep = RT(Z-1) - (a - T*da/dT)/b * ln((Z+B)/Z).
func departureEnthalpy(c Composition, eosKind EOS, a, b, P, T, Z float64) float64 {
	const dT = 0.01
	a2, _ := eosAB(c, eosKind, T+dT)
	a1, _ := eosAB(c, eosKind, T-dT)
	dadT := (a2 - a1) / (2 * dT)
	B := b * P / (GasConstant * T)
	if Z <= B {
		return 0
	}
	return GasConstant*T*(Z-1) - (a-T*dadT)/b*math.Log((Z+B)/Z)
}

// departureEntropy is the SRK/PR residual molar entropy, J/(kmol*K):
// S_dep = R*ln(Z-B) - (da/dT)/b * ln((Z+B)/Z).
func departureEntropy(c Composition, eosKind EOS, a, b, P, T, Z float64) float64 {
	const dT = 0.01
	a2, _ := eosAB(c, eosKind, T+dT)
	a1, _ := eosAB(c, eosKind, T-dT)
	dadT := (a2 - a1) / (2 * dT)
	B := b * P / (GasConstant * T)
	if Z <= B {
		return 0
	}
	return GasConstant*math.Log(Z-B) - dadT/b*math.Log((Z+B)/Z)
}

// flashPT is the shared implementation behind Provider.FlashPT: given
// composition, EOS and (P, T), returns the full thermodynamic state.
func flashPT(c Composition, eosKind EOS, P, T float64) (State, error) {
	if P <= 0 || T <= 0 {
		return State{}, ErrNonPhysicalState
	}
	if err := c.Validate(); err != nil {
		return State{}, err
	}
	a, b := eosAB(c, eosKind, T)
	Z, err := compressibility(a, b, P, T)
	if err != nil {
		return State{}, err
	}
	mw := c.MolarMass()
	rho := P * mw / (Z * GasConstant * T)

	cpIdeal := idealCp(c, T)
	cvIdeal := cpIdeal - GasConstant
	// Approximate the real-gas Cv with the ideal-gas Cv; kappa is then
	// corrected by the compressibility departure from unity, which keeps
	// kappa well-behaved (>1) across the operating envelope without a full
	// second-derivative departure-function evaluation.
	kappa := cpIdeal / cvIdeal * (1 + (1 - Z) * 0.2)
	if kappa < 1.01 {
		kappa = 1.01
	}

	hMolar := idealEnthalpy(c, T) + departureEnthalpy(c, eosKind, a, b, P, T, Z)
	sMolar := idealEntropy(c, T, P) + departureEntropy(c, eosKind, a, b, P, T, Z)

	return State{
		P: P, T: T, Mw: mw, Z: Z, Kappa: kappa,
		H:   hMolar / mw, // J/kmol -> J/kg (mw is kg/kmol)
		S:   sMolar / mw,
		Rho: rho,
	}, nil
}

// flashPH iterates temperature with Brent's method until flashPT's
// enthalpy matches the target h (J/kg), for the stage-outlet iteration of
// spec.md §4.4 step 7.
func flashPH(c Composition, eosKind EOS, P, h float64) (State, error) {
	f := func(T float64) float64 {
		st, err := flashPT(c, eosKind, P, T)
		if err != nil {
			return math.NaN()
		}
		return st.H - h
	}
	lo, hi := 150.0, 1200.0
	lo, hi, err := solve.Bracket(f, lo, hi, solve.MaxIterations, 1.2)
	if err != nil {
		return State{}, ErrEosConvergence
	}
	T, err := solve.Brent(f, lo, hi, 1e-6)
	if err != nil {
		return State{}, ErrEosConvergence
	}
	return flashPT(c, eosKind, P, T)
}

// flashPS iterates temperature with Brent's method until flashPT's
// entropy matches the target s (J/(kg*K)), the isentropic flash used by
// polytropic-to-isentropic comparisons.
func flashPS(c Composition, eosKind EOS, P, s float64) (State, error) {
	f := func(T float64) float64 {
		st, err := flashPT(c, eosKind, P, T)
		if err != nil {
			return math.NaN()
		}
		return st.S - s
	}
	lo, hi := 150.0, 1200.0
	lo, hi, err := solve.Bracket(f, lo, hi, solve.MaxIterations, 1.2)
	if err != nil {
		return State{}, ErrEosConvergence
	}
	T, err := solve.Brent(f, lo, hi, 1e-6)
	if err != nil {
		return State{}, ErrEosConvergence
	}
	return flashPT(c, eosKind, P, T)
}

// standardConditionsDensity returns the mixture density at (1.01325 bar,
// 15 degC), spec.md §4.1.
func standardConditionsDensity(c Composition, eosKind EOS) (float64, error) {
	st, err := flashPT(c, eosKind, standardP, standardT)
	if err != nil {
		return 0, err
	}
	return st.Rho, nil
}
