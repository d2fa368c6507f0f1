package chart

import "errors"

// ErrGeometryInvalid is spec.md's `ChartGeometryInvalid`, returned when a
// curve fails the monotonicity/efficiency checks at load time.
var ErrGeometryInvalid = errors.New("chart: geometry invalid")

// ErrAboveMaxFlow is spec.md's `AboveMaxFlow`.
var ErrAboveMaxFlow = errors.New("chart: requested rate is above the maximum flow")

// ErrAboveMaxHead is spec.md's `AboveMaxHead`.
var ErrAboveMaxHead = errors.New("chart: requested head is above the maximum head")

// Flags records which automatic corrections (spec.md §4.2) were applied
// while answering a chart query.
type Flags struct {
	RecirculationApplied bool // ASV recirculation raised rate to min_flow(s)
	HeadLifted            bool // downstream choking raised the requested head to head(q)
}
