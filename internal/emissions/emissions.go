// Package emissions implements the fuel-type emission-factor registry and
// the fuel-rate-to-emission-mass mapping (spec.md §4.9 step 7).
package emissions

import "errors"

// ErrUnknownFuelType is returned when a fuel consumer references a fuel
// type name that is not registered.
var ErrUnknownFuelType = errors.New("emissions: unknown fuel type")

// Factor is one named emission factor for a fuel type (spec.md §4.9 step
// 7 "each emission's FACTOR"): a species (CO2, CH4, NOx, ...), a scope
// tag for downstream reporting grouping, and the mass-per-volume factor.
type Factor struct {
	Species string
	Scope   string
	Value   float64 // kg per Sm3 (gas) or kg per liter (liquid fuels)
}

// FuelType is a registered fuel with its density bookkeeping and ordered
// emission factors.
type FuelType struct {
	Name            string
	StdDensity      float64 // kg/m3, used by consumers reporting mass-rate-derived quantities
	EmissionFactors []Factor
}

// Registry is the set of fuel types known to a facility model, keyed by
// name (spec.md §6 "FUEL_TYPES" configuration section, "Names unique
// within their kind").
type Registry struct {
	fuels map[string]FuelType
}

// NewRegistry builds a Registry from a list of fuel types.
func NewRegistry(fuels []FuelType) *Registry {
	r := &Registry{fuels: make(map[string]FuelType, len(fuels))}
	for _, f := range fuels {
		r.fuels[f.Name] = f
	}
	return r
}

// EmissionRates computes, for fuelRate Sm3/day (or l/day for liquids),
// the mass rate (kg/day) of every registered emission factor for the
// named fuel type (spec.md §4.9 step 7 "multiply fuel_rate... by each
// emission's FACTOR"). A NaN fuelRate propagates to every species.
func (r *Registry) EmissionRates(fuelTypeName string, fuelRate float64) (map[string]float64, error) {
	ft, ok := r.fuels[fuelTypeName]
	if !ok {
		return nil, ErrUnknownFuelType
	}
	out := make(map[string]float64, len(ft.EmissionFactors))
	for _, f := range ft.EmissionFactors {
		out[f.Species] = fuelRate * f.Value
	}
	return out, nil
}

// CalendarDayMass scales a stream-day emission mass rate by regularity
// and period length to a calendar-day total (spec.md §4.9 step 7
// "Multiply by r and period length for calendar-day volumes").
func CalendarDayMass(streamDayRate, regularity, periodDays float64) float64 {
	return streamDayRate * regularity * periodDays
}
