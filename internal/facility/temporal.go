package facility

import (
	"sort"
	"time"
)

// TemporalMap is spec.md's design note "Temporal models as piecewise-
// constant functions": a mapping start_instant -> params, evaluated by
// finding the greatest key <= the query instant. START is optional (an
// empty map or a query before the first key yields the zero value).
type TemporalMap[T any] struct {
	keys   []time.Time
	values []T
}

// NewTemporalMap builds a TemporalMap from date-keyed records, sorting by
// key (spec.md §6 "date-keyed records with values constant after each
// key").
func NewTemporalMap[T any](records map[time.Time]T) TemporalMap[T] {
	m := TemporalMap[T]{keys: make([]time.Time, 0, len(records)), values: make([]T, 0, len(records))}
	for k := range records {
		m.keys = append(m.keys, k)
	}
	sort.Slice(m.keys, func(i, j int) bool { return m.keys[i].Before(m.keys[j]) })
	for _, k := range m.keys {
		m.values = append(m.values, records[k])
	}
	return m
}

// At returns the value in effect at instant t: the value at the greatest
// key <= t, and whether any such key exists.
func (m TemporalMap[T]) At(t time.Time) (T, bool) {
	var zero T
	i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i].After(t) })
	if i == 0 {
		return zero, false
	}
	return m.values[i-1], true
}

// Instants returns the map's keys, used to fold temporal-model instants
// into the global time vector.
func (m TemporalMap[T]) Instants() []time.Time {
	return append([]time.Time{}, m.keys...)
}
