package chart

// genericShapePoints are the non-dimensional flow coefficients at which
// the unified generic curve is sampled, centred on the design point
// (phi=1).
var genericShapePoints = []float64{0.50, 0.65, 0.80, 0.90, 1.00, 1.10, 1.20}

// genericHeadRatio and genericEffRatio are the canonical unified-curve
// shape factors at each genericShapePoints entry: a parabolic head falloff
// around the design point and an efficiency curve peaking at design flow,
// the standard non-dimensional compressor map shape used when no vendor
// curve is available.
var genericHeadRatio = []float64{1.18, 1.12, 1.05, 1.02, 1.00, 0.94, 0.84}
var genericEffRatio = []float64{0.80, 0.90, 0.97, 0.99, 1.00, 0.97, 0.90}

// unifiedCurve builds a single Curve from the canonical generic shape,
// scaled to the given design rate, design head, and design (peak)
// polytropic efficiency.
func unifiedCurve(rateDesign, headDesign, etaPolyDesign float64) Curve {
	n := len(genericShapePoints)
	rate := make([]float64, n)
	head := make([]float64, n)
	eff := make([]float64, n)
	for i, phi := range genericShapePoints {
		rate[i] = phi * rateDesign
		head[i] = genericHeadRatio[i] * headDesign
		eff[i] = genericEffRatio[i] * etaPolyDesign
	}
	return Curve{Rate: rate, Head: head, Efficiency: eff}
}

// FitGenericFromDesignPoint implements spec.md §4.2
// "GENERIC_FROM_DESIGN_POINT (rate*, head*, eta_poly) constructs a scaled
// unified curve".
func FitGenericFromDesignPoint(rateDesign, headDesign, etaPolyDesign, controlMargin float64) (*CompressorChart, error) {
	curve := unifiedCurve(rateDesign, headDesign, etaPolyDesign)
	return NewCompressorChart([]Curve{curve}, GenericFromDesignPoint, controlMargin)
}

// ObservedPoint is one (rate, head) sample a GENERIC_FROM_INPUT chart must
// cover.
type ObservedPoint struct {
	Rate, Head float64
}

// FitGenericFromInput resolves spec.md §9 Open Question (b): the design
// point is the smallest unified-curve envelope (by design rate * design
// head) whose envelope contains every observed (q,H) point, ties broken
// by the earliest-observed point. "Contains" means each observed point's
// rate is within the fitted curve's flow range and its head is at or
// below the fitted curve's head at that rate.
func FitGenericFromInput(points []ObservedPoint, etaPolyDesign, controlMargin float64) (*CompressorChart, error) {
	if len(points) == 0 {
		return nil, ErrGeometryInvalid
	}
	// Seed the search from the point with the largest rate*head product
	// (a natural lower bound on the design point), then expand uniformly
	// until every point is covered, taking the smallest passing scale.
	seedRate, seedHead := points[0].Rate, points[0].Head
	for _, p := range points[1:] {
		if p.Rate*p.Head > seedRate*seedHead {
			seedRate, seedHead = p.Rate, p.Head
		}
	}
	if seedRate <= 0 || seedHead <= 0 {
		return nil, ErrGeometryInvalid
	}

	const maxSteps = 200
	const growth = 1.02
	scale := 1.0
	for step := 0; step < maxSteps; step++ {
		curve := unifiedCurve(seedRate*scale, seedHead*scale, etaPolyDesign)
		if coversAll(curve, points) {
			return NewCompressorChart([]Curve{curve}, GenericFromInput, controlMargin)
		}
		scale *= growth
	}
	return nil, ErrGeometryInvalid
}

func coversAll(curve Curve, points []ObservedPoint) bool {
	for _, p := range points {
		if p.Rate < curve.MinFlow()-1e-9 || p.Rate > curve.MaxFlow()+1e-9 {
			return false
		}
		if p.Head > curve.HeadAt(p.Rate)+1e-9 {
			return false
		}
	}
	return true
}

// DesignPoint returns the chart's design (peak-head, phi=1) rate and head,
// used to confirm the monotonic-growth property in spec.md §8 "adding an
// extra high-rate point increases the design point monotonically".
func (c *CompressorChart) DesignPoint() (rate, head float64) {
	curve := c.Curves[0]
	// phi=1 is the 5th entry (index 4) of genericShapePoints/Ratio tables.
	const designIdx = 4
	return curve.Rate[designIdx] / genericShapePoints[designIdx], curve.Head[designIdx] / genericHeadRatio[designIdx]
}
