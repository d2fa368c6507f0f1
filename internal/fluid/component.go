package fluid

import "fmt"

// Component is one of the fixed set of hydrocarbon/inert species a fluid
// composition may be expressed over (spec.md §3 "Fluid composition").
type Component int

const (
	Water Component = iota
	Nitrogen
	CO2
	Methane
	Ethane
	Propane
	IButane
	NButane
	IPentane
	NPentane
	NHexane
	nComponents
)

var componentNames = [nComponents]string{
	Water:    "water",
	Nitrogen: "nitrogen",
	CO2:      "CO2",
	Methane:  "methane",
	Ethane:   "ethane",
	Propane:  "propane",
	IButane:  "i_butane",
	NButane:  "n_butane",
	IPentane: "i_pentane",
	NPentane: "n_pentane",
	NHexane:  "n_hexane",
}

func (c Component) String() string { return componentNames[c] }

// properties holds the per-component constants used by the cubic
// equation of state and the ideal-gas enthalpy/entropy correlations:
// critical temperature (K), critical pressure (Pa), acentric factor,
// molar mass (kg/kmol), and ideal-gas Cp polynomial coefficients
// (J/(kmol*K), Cp = a + b*T + c*T^2).
type properties struct {
	Tc, Pc, omega, mw float64
	cpA, cpB, cpC     float64
}

var table = [nComponents]properties{
	Water:    {647.1, 22064000, 0.345, 18.015, 33363, 2679e-3, 0},
	Nitrogen: {126.2, 3396000, 0.037, 28.013, 29105, -1916e-5, 4003e-8},
	CO2:      {304.2, 7383000, 0.224, 44.010, 19795, 73436e-3, -5602e-5},
	Methane:  {190.6, 4599000, 0.011, 16.043, 19251, 52130e-3, 11974e-5},
	Ethane:   {305.4, 4872000, 0.099, 30.070, 5409, 178100e-3, -6938e-5},
	Propane:  {369.8, 4248000, 0.152, 44.097, -4224, 306300e-3, -15855e-5},
	IButane:  {408.1, 3648000, 0.186, 58.123, -1890, 364900e-3, -18460e-5},
	NButane:  {425.1, 3796000, 0.200, 58.123, 9487, 331200e-3, -11020e-5},
	IPentane: {460.4, 3381000, 0.227, 72.150, 19833, 38660e-2, -19920e-5},
	NPentane: {469.7, 3370000, 0.251, 72.150, 6680, 45350e-2, -22060e-5},
	NHexane:  {507.6, 3025000, 0.296, 86.177, 6938, 55220e-2, -27090e-5},
}

const requiredMethaneFraction = 1e-9

// Composition is a normalized set of mole fractions over the fixed
// component set. Methane must be present with a positive fraction
// (spec.md §3).
type Composition [nComponents]float64

// Presets is named, published compositions, mirroring spec.md's
// "DRY/MEDIUM/RICH/..." shorthand.
var Presets = map[string]Composition{
	"DRY":    New(map[Component]float64{Nitrogen: 0.01, CO2: 0.01, Methane: 0.95, Ethane: 0.03}),
	"MEDIUM": New(map[Component]float64{Nitrogen: 0.003, CO2: 0.02, Methane: 0.85, Ethane: 0.07, Propane: 0.03, NButane: 0.02, NPentane: 0.007}),
	"RICH":   New(map[Component]float64{CO2: 0.015, Methane: 0.70, Ethane: 0.12, Propane: 0.08, IButane: 0.02, NButane: 0.035, IPentane: 0.01, NPentane: 0.01, NHexane: 0.01}),
}

// New builds a normalized Composition from a sparse set of mole
// fractions. It does not check the methane invariant; Validate does.
func New(fractions map[Component]float64) Composition {
	var c Composition
	var total float64
	for comp, frac := range fractions {
		c[comp] = frac
		total += frac
	}
	if total <= 0 {
		return c
	}
	for i := range c {
		c[i] /= total
	}
	return c
}

// Validate checks the methane-presence invariant (spec.md §3, §7.1).
func (c Composition) Validate() error {
	if c[Methane] <= requiredMethaneFraction {
		return fmt.Errorf("fluid: composition is missing a positive methane fraction")
	}
	var sum float64
	for _, f := range c {
		sum += f
	}
	if sum < 1-1e-6 || sum > 1+1e-6 {
		return fmt.Errorf("fluid: composition mole fractions sum to %v, not 1", sum)
	}
	return nil
}

// MolarMass returns the mixture molar mass in kg/kmol using Kay's linear
// mixing rule.
func (c Composition) MolarMass() float64 {
	var mw float64
	for i, f := range c {
		mw += f * table[i].mw
	}
	return mw
}

// Mole2Mass converts a mole-fraction composition to mass fractions.
func (c Composition) Mole2Mass() [nComponents]float64 {
	mw := c.MolarMass()
	var out [nComponents]float64
	for i, f := range c {
		out[i] = f * table[i].mw / mw
	}
	return out
}
