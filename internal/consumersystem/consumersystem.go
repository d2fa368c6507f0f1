// Package consumersystem implements the consumer-system operational-
// setting selector (spec.md §4.8, component C8): ordered settings, rate
// distribution, crossover routing, and the TryNext/Accept/Exhausted
// state machine that drives the underlying pump/compressor units (C3/C5).
package consumersystem

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// ErrCrossoverCycle is the configuration-time rejection of spec.md §4.8
// "Crossovers do not chain cyclically (reject config at load time)".
var ErrCrossoverCycle = errors.New("consumersystem: crossover map contains a cycle")

// ErrRateFractionsInvalid flags a setting whose RATE_FRACTIONS do not sum
// to 1 or whose length does not match the unit count.
var ErrRateFractionsInvalid = errors.New("consumersystem: rate fractions must sum to 1 and cover every unit")

// UnitResult is one unit's outcome within a setting attempt.
type UnitResult struct {
	Rate     float64
	EnergyMW float64
	Valid    bool
	Failure  error
}

// Unit is the narrow interface an underlying pump (C3) or compressor
// train (C5) must satisfy to participate in a consumer system: capacity
// at a given pressure pair, and a full evaluation at a trial rate.
type Unit interface {
	Capacity(pIn, pOut float64) float64
	Evaluate(rate, pIn, pOut float64) UnitResult
}

// PressurePair is a unit's suction/discharge pressure for a setting; a
// setting may specify one pair shared by all units (scalar) or one per
// unit (vector), per spec.md §4.8 "per-unit suction/discharge pressures
// (scalar or vector)".
type PressurePair struct {
	SuctionP, DischargeP float64
}

// Setting is one operational setting (spec.md §4.8).
type Setting struct {
	RateFractions []float64 // summing to 1, over TotalSystemRate; nil if Rates is used
	Rates         []float64 // explicit per-unit rates; nil if RateFractions is used
	Pressures     []PressurePair
}

// rates resolves the per-unit rate for this setting given the system's
// total rate.
func (s Setting) rates(totalRate float64, nUnits int) ([]float64, error) {
	if s.Rates != nil {
		if len(s.Rates) != nUnits {
			return nil, ErrRateFractionsInvalid
		}
		return s.Rates, nil
	}
	if len(s.RateFractions) != nUnits {
		return nil, ErrRateFractionsInvalid
	}
	// sum-to-1 check on the teacher's own pattern (vargrid.go checks
	// floats.Sum(fractions) against a tolerance before accepting a
	// fractional split).
	if sum := floats.Sum(s.RateFractions); sum < 1-1e-6 || sum > 1+1e-6 {
		return nil, ErrRateFractionsInvalid
	}
	out := make([]float64, nUnits)
	for i, f := range s.RateFractions {
		out[i] = f * totalRate
	}
	return out, nil
}

func (s Setting) pressuresFor(i, nUnits int) PressurePair {
	if len(s.Pressures) == 1 {
		return s.Pressures[0]
	}
	return s.Pressures[i]
}

// System is a consumer system: an ordered unit list, its crossover map,
// and the ordered settings to try (spec.md §4.8).
type System struct {
	Units     []Unit
	Crossover map[int]int // unit index -> crossover target unit index
	Settings  []Setting
}

// ValidateCrossover rejects cyclic crossover chains at configuration time.
func (sys System) ValidateCrossover() error {
	for start := range sys.Crossover {
		visited := map[int]bool{start: true}
		cur := start
		for {
			next, ok := sys.Crossover[cur]
			if !ok {
				break
			}
			if visited[next] {
				return ErrCrossoverCycle
			}
			visited[next] = true
			cur = next
		}
	}
	return nil
}

// Result is the full consumer-system evaluation outcome for one period.
type Result struct {
	Units                   []UnitResult
	ChosenOperationalSetting int // 1-based; 0 = no setting fully valid
	TotalEnergyMW            float64
	AllValid                 bool
}

// Evaluate implements spec.md §4.8's algorithm: try each setting in
// order, resolving crossovers, until one is fully valid (Accept); if none
// is, report the last setting's (possibly invalid) results with a NaN
// aggregate (Exhausted).
func (sys System) Evaluate(totalRate float64) Result {
	n := len(sys.Units)
	var last Result
	for idx, setting := range sys.Settings {
		rates, err := setting.rates(totalRate, n)
		if err != nil {
			last = Result{ChosenOperationalSetting: 0}
			continue
		}
		rates = sys.applyCrossover(setting, rates)

		results := make([]UnitResult, n)
		allValid := true
		var total float64
		for i, u := range sys.Units {
			p := setting.pressuresFor(i, n)
			r := u.Evaluate(rates[i], p.SuctionP, p.DischargeP)
			results[i] = r
			if !r.Valid {
				allValid = false
			}
			total += r.EnergyMW
		}

		attempt := Result{Units: results, TotalEnergyMW: total, AllValid: allValid}
		if allValid {
			attempt.ChosenOperationalSetting = idx + 1
			return attempt
		}
		last = attempt
		last.ChosenOperationalSetting = 0
	}

	// Exhausted: report the last setting's per-unit results, aggregation
	// marked null (NaN) per spec.md §4.8 step 2.
	last.TotalEnergyMW = nan()
	return last
}

// applyCrossover implements spec.md §4.8 step 1b: when a unit cannot
// absorb its assigned rate at the setting's pressures, move the excess
// over its capacity onto its crossover target. Units are visited once,
// in order, and the setting's pressures are not changed.
func (sys System) applyCrossover(setting Setting, rates []float64) []float64 {
	out := append([]float64{}, rates...)
	for i, u := range sys.Units {
		target, ok := sys.Crossover[i]
		if !ok {
			continue
		}
		p := setting.pressuresFor(i, len(sys.Units))
		capacity := u.Capacity(p.SuctionP, p.DischargeP)
		if out[i] > capacity {
			excess := out[i] - capacity
			out[i] = capacity
			out[target] += excess
		}
	}
	return out
}

func nan() float64 {
	var zero float64
	return zero / zero
}
