package config

import (
	"fmt"
	"sort"

	"github.com/oilfield/energyflow/internal/chart"
	"github.com/oilfield/energyflow/internal/csvio"
)

// chartKindByName resolves a FACILITY_INPUTS chart kind string to the
// chart.ChartKind the curve data is wrapped as. COMPRESSOR_CHART_GENERIC
// is read as GenericFromInput, since its samples come from an actual
// input curve CSV rather than a design-point triple (spec.md §9 Open
// Question (b)).
var chartKindByName = map[string]chart.ChartKind{
	"COMPRESSOR_CHART_SINGLE_SPEED":   chart.SingleSpeed,
	"COMPRESSOR_CHART_VARIABLE_SPEED": chart.VariableSpeed,
	"COMPRESSOR_CHART_GENERIC":        chart.GenericFromInput,
}

// Resources is every FACILITY_INPUTS CSV resolved up front, keyed by its
// declared name, so buildTemporalModel can construct the chart/table
// objects a non-DIRECT model variant needs (spec.md §6 "Facility
// characterization (CSV)"). Chart curves are cached raw: HEAD_MARGIN and
// CONTROL_MARGIN are point-of-use parameters on the model variant that
// references the chart, so the chart.PumpChart/CompressorChart itself is
// constructed fresh at each reference rather than cached here.
type Resources struct {
	pumpCurves       map[string][]chart.Curve
	compressorCurves map[string][]chart.Curve
	compressorKind   map[string]chart.ChartKind
	sampled          map[string]*csvio.CompressorSampledTable
	gensets          map[string]*csvio.GeneratorSetTable
}

// LoadResources reads every declared FACILITY_INPUTS entry via csvio.
// Errors are collected rather than fatal, matching the "never halt the
// run" policy applied throughout Build: a consumer whose resource failed
// to load is reported as unresolved when its model is built.
func LoadResources(cfg *Config) (*Resources, []error) {
	var errs []error
	res := &Resources{
		pumpCurves:       make(map[string][]chart.Curve),
		compressorCurves: make(map[string][]chart.Curve),
		compressorKind:   make(map[string]chart.ChartKind),
		sampled:          make(map[string]*csvio.CompressorSampledTable),
		gensets:          make(map[string]*csvio.GeneratorSetTable),
	}
	for _, fi := range cfg.FacilityInputs {
		switch fi.Kind {
		case "PUMP_CHART":
			table, err := csvio.ReadPumpChartTableFile(fi.Path)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: facility_inputs/%s: %w", fi.Name, err))
				continue
			}
			res.pumpCurves[fi.Name] = groupIntoCurves(table)
		case "COMPRESSOR_CHART_SINGLE_SPEED", "COMPRESSOR_CHART_VARIABLE_SPEED", "COMPRESSOR_CHART_GENERIC":
			table, err := csvio.ReadPumpChartTableFile(fi.Path)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: facility_inputs/%s: %w", fi.Name, err))
				continue
			}
			res.compressorCurves[fi.Name] = groupIntoCurves(table)
			res.compressorKind[fi.Name] = chartKindByName[fi.Kind]
		case "COMPRESSOR_SAMPLED":
			table, err := csvio.ReadCompressorSampledTableFile(fi.Path)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: facility_inputs/%s: %w", fi.Name, err))
				continue
			}
			res.sampled[fi.Name] = table
		case "GENERATOR_SET_TABLE":
			table, err := csvio.ReadGeneratorSetTableFile(fi.Path)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: facility_inputs/%s: %w", fi.Name, err))
				continue
			}
			res.gensets[fi.Name] = table
		default:
			errs = append(errs, fmt.Errorf("config: facility_inputs/%s: unknown kind %q", fi.Name, fi.Kind))
		}
	}
	return res, errs
}

// groupIntoCurves splits a PumpChartTable's rows into one chart.Curve per
// distinct SPEED value, or a single curve (speed 0) when the CSV carries
// no SPEED column (spec.md §6's "optional SPEED" for single-speed
// charts).
func groupIntoCurves(t *csvio.PumpChartTable) []chart.Curve {
	if t.Speed == nil {
		return []chart.Curve{{Rate: t.Rate, Head: t.Head, Efficiency: t.Efficiency}}
	}
	rowsBySpeed := make(map[float64][]int)
	var speeds []float64
	for i, s := range t.Speed {
		if _, ok := rowsBySpeed[s]; !ok {
			speeds = append(speeds, s)
		}
		rowsBySpeed[s] = append(rowsBySpeed[s], i)
	}
	sort.Float64s(speeds)

	curves := make([]chart.Curve, len(speeds))
	for ci, speed := range speeds {
		rows := rowsBySpeed[speed]
		c := chart.Curve{Speed: speed}
		for _, i := range rows {
			c.Rate = append(c.Rate, t.Rate[i])
			c.Head = append(c.Head, t.Head[i])
			c.Efficiency = append(c.Efficiency, t.Efficiency[i])
		}
		curves[ci] = c
	}
	return curves
}

// PumpCurves returns the named PUMP_CHART resource's curves.
func (r *Resources) PumpCurves(name string) ([]chart.Curve, bool) {
	c, ok := r.pumpCurves[name]
	return c, ok
}

// CompressorCurves returns the named COMPRESSOR_CHART_* resource's
// curves.
func (r *Resources) CompressorCurves(name string) ([]chart.Curve, bool) {
	c, ok := r.compressorCurves[name]
	return c, ok
}

// CompressorChartKind returns the chart.ChartKind the named compressor
// chart resource was declared with.
func (r *Resources) CompressorChartKind(name string) chart.ChartKind {
	return r.compressorKind[name]
}

// SampledTable returns the named COMPRESSOR_SAMPLED resource.
func (r *Resources) SampledTable(name string) (*csvio.CompressorSampledTable, bool) {
	t, ok := r.sampled[name]
	return t, ok
}

// GeneratorSet returns the named GENERATOR_SET_TABLE resource.
func (r *Resources) GeneratorSet(name string) (*csvio.GeneratorSetTable, bool) {
	t, ok := r.gensets[name]
	return t, ok
}
