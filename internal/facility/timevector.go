// Package facility implements the facility graph evaluator (spec.md §4.9,
// component C9): Period/TimeVector/Regularity data model, the
// Asset->Installation->GeneratorSet/FuelConsumer->Consumer hierarchy, and
// per-period orchestration of C1-C8.
package facility

import (
	"sort"
	"time"
)

// Period is spec.md §3's "half-open interval [start, end) in UTC date or
// datetime".
type Period struct {
	Start, End time.Time
}

// Days returns the period length in calendar days (spec.md §4.9 step 7
// "period length").
func (p Period) Days() float64 {
	return p.End.Sub(p.Start).Hours() / 24
}

// BuildTimeVector implements spec.md §3's "Time vector": the union of
// every influence_time_vector=true time series instant and every
// temporal-model instant, clipped to [globalStart, globalEnd), returned
// as a strictly increasing sequence that globalStart is prepended to if
// absent.
func BuildTimeVector(globalStart, globalEnd time.Time, seriesInstants [][]time.Time, modelInstants []time.Time) []time.Time {
	set := map[int64]time.Time{globalStart.Unix(): globalStart}
	add := func(instants []time.Time) {
		for _, t := range instants {
			if t.Before(globalStart) || !t.Before(globalEnd) {
				continue
			}
			set[t.Unix()] = t
		}
	}
	for _, s := range seriesInstants {
		add(s)
	}
	add(modelInstants)

	out := make([]time.Time, 0, len(set))
	for _, t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// PeriodsFromVector converts a time vector into the N half-open periods
// it partitions [vector[0], globalEnd) into.
func PeriodsFromVector(vector []time.Time, globalEnd time.Time) []Period {
	periods := make([]Period, len(vector))
	for i, start := range vector {
		end := globalEnd
		if i+1 < len(vector) {
			end = vector[i+1]
		}
		periods[i] = Period{Start: start, End: end}
	}
	return periods
}
