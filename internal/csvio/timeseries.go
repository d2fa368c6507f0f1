// Package csvio reads the two CSV resource kinds spec.md §6 names:
// time-series resources (date-indexed named numeric columns) and
// facility-characterization resources (pump/compressor/genset tables).
// It follows spatialmodel-inmap's inmap.go/preproc.go style of a manual
// encoding/csv.Reader loop with strconv parsing rather than a
// struct-tag CSV-mapping library, since the teacher never reaches for
// one either.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"
)

// ErrEmptyColumn is returned when a time-series CSV declares a header
// with no corresponding data in any row (spec.md §6 "empty columns
// forbidden").
var ErrEmptyColumn = errors.New("csvio: column has no header or is entirely empty")

// ErrInconsistentDateFormat is returned when a time-series CSV's rows do
// not all share one accepted date format (spec.md §6 "All rows must
// share one format; presence of time in any row requires it in every
// row").
var ErrInconsistentDateFormat = errors.New("csvio: rows do not share one date format")

// dateLayouts are tried in order; the first row's match fixes the
// layout for every subsequent row.
var dateLayouts = []struct {
	layout   string
	hasTime  bool
}{
	{"2006-01-02T15:04:05Z07:00", true},
	{"2006-01-02 15:04:05", true},
	{"02-01-2006T15:04:05", true},
	{"02-01-2006 15:04:05", true},
	{"2006-01-02", false},
	{"02-01-2006", false},
	{"2006", false},
}

// TimeSeries is one decoded time-series resource (spec.md §3 "Time
// vector" inputs): instants and their named numeric columns.
type TimeSeries struct {
	Instants []time.Time
	Columns  map[string][]float64 // column name -> one value per instant
}

// ReadTimeSeries reads a time-series CSV from r (spec.md §6 "Time-series
// resource (CSV)").
func ReadTimeSeries(r io.Reader) (*TimeSeries, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csvio: reading header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("csvio: %w: need a date column plus at least one data column", ErrEmptyColumn)
	}
	columnNames := header[1:]
	for _, name := range columnNames {
		if name == "" {
			return nil, ErrEmptyColumn
		}
	}

	ts := &TimeSeries{Columns: make(map[string][]float64, len(columnNames))}
	var layoutIdx = -1

	rowNum := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvio: row %d: %w", rowNum, err)
		}
		rowNum++
		if len(record) != len(header) {
			return nil, fmt.Errorf("csvio: row %d has %d fields, want %d", rowNum, len(record), len(header))
		}

		instant, idx, err := parseInstant(record[0], layoutIdx)
		if err != nil {
			return nil, fmt.Errorf("csvio: row %d: %w", rowNum, err)
		}
		if layoutIdx == -1 {
			layoutIdx = idx
		} else if idx != layoutIdx {
			return nil, fmt.Errorf("csvio: row %d: %w", rowNum, ErrInconsistentDateFormat)
		}
		ts.Instants = append(ts.Instants, instant)

		for i, name := range columnNames {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("csvio: row %d column %q: %w", rowNum, name, err)
			}
			ts.Columns[name] = append(ts.Columns[name], v)
		}
	}
	if len(ts.Instants) == 0 {
		return nil, ErrEmptyColumn
	}
	return ts, nil
}

// ValueAt returns the named column's value in effect at t: the value at
// the latest instant not after t (spec.md §3's time series are
// piecewise-constant between instants). ok is false if column is unknown
// or t precedes every instant.
func (ts *TimeSeries) ValueAt(column string, t time.Time) (float64, bool) {
	col, ok := ts.Columns[column]
	if !ok {
		return 0, false
	}
	// sort.Search finds the first instant strictly after t; the value we
	// want sits one index before that.
	i := sort.Search(len(ts.Instants), func(i int) bool { return ts.Instants[i].After(t) })
	if i == 0 {
		return 0, false
	}
	return col[i-1], true
}

// ReadTimeSeriesFile opens path and reads it as a time-series resource.
func ReadTimeSeriesFile(path string) (*TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvio: %w", err)
	}
	defer f.Close()
	return ReadTimeSeries(f)
}

func parseInstant(s string, fixedLayout int) (time.Time, int, error) {
	if fixedLayout >= 0 {
		layout := dateLayouts[fixedLayout].layout
		t, err := time.Parse(layout, s)
		return t.UTC(), fixedLayout, err
	}
	var firstErr error
	for i, l := range dateLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return t.UTC(), i, nil
		} else if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, -1, fmt.Errorf("%q is not a recognized date: %w", s, firstErr)
}
