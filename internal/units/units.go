// Package units wraps github.com/ctessum/unit to give the handful of
// physical quantities that flow through the solver layer (power, energy
// rate, mass rate, pressure, density) their own dimension-checked types,
// the way emissions/slca/greet wraps *unit.Unit for energy/mass/volume
// conversions.
package units

import "github.com/ctessum/unit"

var (
	// PowerDim is watts: kg*m^2/s^3.
	PowerDim = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -3}
	// MassRateDim is kg/s.
	MassRateDim = unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1}
	// PressureDim is Pa: kg/(m*s^2).
	PressureDim = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -1, unit.TimeDim: -2}
	// DensityDim is kg/m^3.
	DensityDim = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -3}
	// VolumeRateDim is m^3/s.
	VolumeRateDim = unit.Dimensions{unit.LengthDim: 3, unit.TimeDim: -1}
	// SpecificEnergyDim is J/kg = m^2/s^2, used for head in kJ/kg and enthalpy.
	SpecificEnergyDim = unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -2}
)

// Quantity is a result value paired with the report unit it was computed
// in. Unlike a raw *unit.Unit, Quantity keeps the human unit string
// (spec.md's {MW, Sm3/day, l/day}) that report consumers expect. Add
// sums Quantities by matching these unit strings; no unit.Unit is
// involved.
type Quantity struct {
	Value float64
	Unit  string // "MW", "Sm3/day", "l/day"
}

// Watts constructs an SI power value from a MW quantity.
func Watts(megawatts float64) *unit.Unit {
	return unit.New(megawatts*1e6, PowerDim)
}

// MW converts an SI power value back to the report unit.
func MW(p *unit.Unit) float64 {
	if err := p.Check(PowerDim); err != nil {
		panic(err)
	}
	return p.Value() / 1e6
}

// Add sums same-unit quantities, panicking (a programmer error, not a data
// condition) if the units differ -- mirrors unit.Add's dimension check but
// operates on the report-facing Quantity type used in Result records.
func Add(qs ...Quantity) Quantity {
	if len(qs) == 0 {
		return Quantity{}
	}
	out := Quantity{Unit: qs[0].Unit}
	for _, q := range qs {
		if q.Unit != out.Unit {
			panic("units: mismatched result units " + out.Unit + " vs " + q.Unit)
		}
		out.Value += q.Value
	}
	return out
}
