package chart

import "sort"

// Envelope is a set of curves ordered by speed, with derived boundary
// queries (spec.md §3 "Compressor chart"/"Pump chart"): minimum- and
// maximum-speed curves, and the surge/stonewall loci implied by
// bilinearly interpolating between adjacent speed curves.
type Envelope struct {
	Curves []Curve
}

// NewEnvelope sorts curves by speed and validates each one. It rejects an
// empty curve set and two curves with the same speed; a single curve is
// accepted and makes a single-speed envelope.
func NewEnvelope(curves []Curve) (*Envelope, error) {
	if len(curves) == 0 {
		return nil, ErrGeometryInvalid
	}
	sorted := append([]Curve(nil), curves...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Speed < sorted[j].Speed })
	for i, c := range sorted {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if i > 0 && sorted[i].Speed == sorted[i-1].Speed {
			return nil, ErrGeometryInvalid
		}
	}
	return &Envelope{Curves: sorted}, nil
}

// IsVariableSpeed reports whether the envelope has more than one curve.
func (e *Envelope) IsVariableSpeed() bool { return len(e.Curves) > 1 }

// SpeedRange returns [minSpeed, maxSpeed] across the envelope's curves.
func (e *Envelope) SpeedRange() (lo, hi float64) {
	return e.Curves[0].Speed, e.Curves[len(e.Curves)-1].Speed
}

// bracket returns the pair of curves (and interpolation fraction) bounding
// the requested speed. For a single-speed envelope, it always returns
// (curve, curve, 0).
func (e *Envelope) bracket(speed float64) (lo, hi Curve, frac float64) {
	cs := e.Curves
	if len(cs) == 1 {
		return cs[0], cs[0], 0
	}
	if speed <= cs[0].Speed {
		return cs[0], cs[0], 0
	}
	if speed >= cs[len(cs)-1].Speed {
		return cs[len(cs)-1], cs[len(cs)-1], 0
	}
	for i := 1; i < len(cs); i++ {
		if speed <= cs[i].Speed {
			lo, hi = cs[i-1], cs[i]
			frac = (speed - lo.Speed) / (hi.Speed - lo.Speed)
			return lo, hi, frac
		}
	}
	return cs[len(cs)-1], cs[len(cs)-1], 0
}

// MinFlowAt and MaxFlowAt bilinearly interpolate the curve flow bounds
// across speed.
func (e *Envelope) MinFlowAt(speed float64) float64 {
	lo, hi, frac := e.bracket(speed)
	return lo.MinFlow() + frac*(hi.MinFlow()-lo.MinFlow())
}

func (e *Envelope) MaxFlowAt(speed float64) float64 {
	lo, hi, frac := e.bracket(speed)
	return lo.MaxFlow() + frac*(hi.MaxFlow()-lo.MaxFlow())
}

// MaxHeadAtMaxSpeed is head_max(s_max), the upper bound used by the pump
// HEAD_MARGIN check (spec.md §4.2 step 4).
func (e *Envelope) MaxHeadAtMaxSpeed() float64 {
	return e.Curves[len(e.Curves)-1].MaxHead()
}

// HeadEffAt bilinearly interpolates head(rate) and eff(rate) between the
// two speed curves bracketing speed (spec.md §4.2 step 3).
func (e *Envelope) HeadEffAt(rate, speed float64) (head, eff float64) {
	lo, hi, frac := e.bracket(speed)
	hLo, eLo := lo.HeadAt(rate), lo.EfficiencyAt(rate)
	if frac == 0 {
		return hLo, eLo
	}
	hHi, eHi := hi.HeadAt(rate), hi.EfficiencyAt(rate)
	return hLo + frac*(hHi-hLo), eLo + frac*(eHi-eLo)
}

// SurgeRateAt is the locus of leftmost (minimum-flow) points, i.e. the
// surge line's rate value at a given speed.
func (e *Envelope) SurgeRateAt(speed float64) float64 { return e.MinFlowAt(speed) }

// StonewallRateAt is the locus of rightmost (maximum-flow) points.
func (e *Envelope) StonewallRateAt(speed float64) float64 { return e.MaxFlowAt(speed) }

// EffectiveSurgeRateAt applies a control margin (spec.md §3 "control
// margin... shifts the effective surge line right by
// alpha*(rate_max(s)-rate_min(s))").
func (e *Envelope) EffectiveSurgeRateAt(speed, controlMargin float64) float64 {
	minFlow, maxFlow := e.MinFlowAt(speed), e.MaxFlowAt(speed)
	return minFlow + controlMargin*(maxFlow-minFlow)
}
