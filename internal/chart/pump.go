package chart

import "math"

// Gravity is g in m/s^2, used to convert pump head (metres) to specific
// energy and back, per spec.md §4.2 "Power = head * mass_rate /
// (efficiency * 3.6e6)".
const Gravity = 9.81

// PumpChart is a pump performance chart (spec.md §3 "Pump chart"): an
// Envelope in (AM3/h, m, fraction) units plus the HEAD_MARGIN that allows
// lifting an infeasible head up to max_head.
type PumpChart struct {
	*Envelope
	HeadMargin float64 // metres; spec.md §3 "HEAD_MARGIN lifts infeasible heads up to max_head when within the margin"
}

// NewPumpChart validates and wraps a set of curves as a pump chart.
func NewPumpChart(curves []Curve, headMargin float64) (*PumpChart, error) {
	env, err := NewEnvelope(curves)
	if err != nil {
		return nil, err
	}
	return &PumpChart{Envelope: env, HeadMargin: headMargin}, nil
}

// QueryResult is the outcome of a chart query (spec.md §4.2 step 5:
// "Return (head, efficiency, chart-area-flag)").
type QueryResult struct {
	Rate       float64
	Head       float64
	Efficiency float64
	Flags      Flags
	Valid      bool
	Failure    error
}

// Query implements spec.md §4.2 steps 1-5 for a pump chart: ASV
// recirculation below minimum flow, above-max-flow rejection, bilinear
// head/efficiency interpolation, and HEAD_MARGIN-bounded choking lift for
// a requested head.
func (p *PumpChart) Query(rate, speed, requiredHead float64) QueryResult {
	var flags Flags
	q := rate
	minFlow := p.MinFlowAt(speed)
	maxFlow := p.MaxFlowAt(speed)
	if q < minFlow {
		q = minFlow
		flags.RecirculationApplied = true
	}
	if q > maxFlow {
		return QueryResult{Rate: rate, Flags: flags, Failure: ErrAboveMaxFlow}
	}
	head, eff := p.HeadEffAt(q, speed)
	h := requiredHead
	if h < head {
		h = head
		flags.HeadLifted = true
	} else if h > head {
		// Requested head above the natural curve head at this rate: only
		// feasible within HEAD_MARGIN of the chart's overall max head.
		maxHead := p.MaxHeadAtMaxSpeed()
		if h > maxHead+p.HeadMargin {
			return QueryResult{Rate: q, Head: head, Efficiency: eff, Flags: flags, Failure: ErrAboveMaxHead}
		}
		if h > maxHead {
			h = maxHead
		}
	}
	return QueryResult{Rate: q, Head: h, Efficiency: eff, Flags: flags, Valid: true}
}

// PumpPowerMW computes pump shaft power in MW from head (m), mass rate
// (kg/s) and efficiency, per spec.md §4.2: "Power = head*mass_rate /
// (efficiency*3.6e6) [MW]".
func PumpPowerMW(head, massRate, efficiency float64) float64 {
	if efficiency <= 0 {
		return math.Inf(1)
	}
	return head * massRate / (efficiency * 3.6e6)
}
