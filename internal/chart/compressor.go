package chart

// ChartKind distinguishes single-speed, variable-speed, and generic
// compressor charts (spec.md §4.5.3 "only GENERIC_FROM_INPUT or
// GENERIC_FROM_DESIGN_POINT charts are accepted" for simplified trains).
type ChartKind int

const (
	SingleSpeed ChartKind = iota
	VariableSpeed
	GenericFromDesignPoint
	GenericFromInput
)

// CompressorChart is a compressor performance chart (spec.md §3
// "Compressor chart"): an Envelope in (Am3/h, kJ/kg, fraction) units, a
// control margin that shifts the effective surge line, and the chart kind
// (needed because simplified variable-speed trains reject non-generic
// charts, spec.md §4.5.3).
type CompressorChart struct {
	*Envelope
	Kind          ChartKind
	ControlMargin float64 // fraction, spec.md §3 "control margin"
}

// NewCompressorChart validates and wraps a set of curves as a compressor
// chart of the given kind.
func NewCompressorChart(curves []Curve, kind ChartKind, controlMargin float64) (*CompressorChart, error) {
	env, err := NewEnvelope(curves)
	if err != nil {
		return nil, err
	}
	if kind == SingleSpeed && env.IsVariableSpeed() {
		return nil, ErrGeometryInvalid
	}
	return &CompressorChart{Envelope: env, Kind: kind, ControlMargin: controlMargin}, nil
}

// Query implements spec.md §4.2's compressor-chart analogue of the pump
// query: ASV recirculation below the control-margin-shifted surge rate,
// above-stonewall rejection, and bilinear head(kJ/kg)/efficiency
// interpolation. Compressor charts do not choke-lift a requested head the
// way pump charts do; discharge-pressure control is handled by the train
// solver (spec.md §4.5), so Query only reports the chart-native head and
// efficiency at the operating point.
func (c *CompressorChart) Query(rate, speed float64) QueryResult {
	var flags Flags
	q := rate
	surge := c.EffectiveSurgeRateAt(speed, c.ControlMargin)
	maxFlow := c.MaxFlowAt(speed)
	if q < surge {
		q = surge
		flags.RecirculationApplied = true
	}
	if q > maxFlow {
		return QueryResult{Rate: rate, Flags: flags, Failure: ErrAboveMaxFlow}
	}
	head, eff := c.HeadEffAt(q, speed)
	return QueryResult{Rate: q, Head: head, Efficiency: eff, Flags: flags, Valid: true}
}
