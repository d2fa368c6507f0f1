package compressor

import (
	"math"

	"github.com/oilfield/energyflow/internal/chart"
	"github.com/oilfield/energyflow/internal/fluid"
)

// convergenceTol and maxStageIterations implement spec.md §4.4
// "Iterate...until inlet average Z, kappa converge (tolerance 1e-4; max
// 50 iterations; failure StageNonConvergent)".
const convergenceTol = 1e-4
const maxStageIterations = 50

// Stage is one compressor stage (spec.md §3 "Compressor stage").
type Stage struct {
	InletTemperature  float64 // K, stage_inlet_temperature (post-cooling)
	Chart             *chart.CompressorChart
	PressureDropAhead float64 // Pa, PRESSURE_DROP_AHEAD_OF_STAGE
	Ingoing           []fluid.Stream
	OutgoingMassRate  float64 // kg/s subtracted before entering the stage
}

// StageResult is the per-stage outcome recorded in the evaluator's
// per-stage result (spec.md §3 "Result records... per-component
// sub-results (stage pressures, densities, recirculation rates").
type StageResult struct {
	InletP, OutletP     float64 // Pa
	InletT, OutletT     float64 // K
	InletRho, OutletRho float64 // kg/m3
	Rate                float64 // actual m3/h at inlet
	Recirculation       bool
	PolytropicHead      float64 // kJ/kg
	PolytropicEff       float64
	ShaftPowerMW        float64
	Valid               bool
	Failure             error
}

// Evaluate runs the stage forward (spec.md §4.4 steps 1-7) at a given
// shaft speed, given the already-mixed inlet stream (side-stream ingoing
// mixing is the train solver's responsibility, since it needs the
// fluid.Provider and the previous stage's outlet).
func Evaluate(provider fluid.Provider, st Stage, inlet fluid.Stream, speed float64) (StageResult, fluid.Stream, error) {
	// Step 1: cool to stage_inlet_temperature, subtract pressure drop ahead.
	coolInletP := inlet.P - st.PressureDropAhead
	if coolInletP <= 0 {
		return StageResult{Failure: ErrInvalidIntermediatePressure}, fluid.Stream{}, ErrInvalidIntermediatePressure
	}
	coolT := st.InletTemperature
	if coolT == 0 {
		coolT = inlet.T
	}
	inState, err := provider.FlashPT(inlet.Composition, inlet.EOS, coolInletP, coolT)
	if err != nil {
		return StageResult{Failure: err}, fluid.Stream{}, err
	}

	// Step 2: actual volume rate at inlet, m3/h.
	massRate := inlet.MassRate - st.OutgoingMassRate
	if massRate < 0 {
		massRate = 0
	}
	q := massRate / inState.Rho * 3600

	// Step 3: query chart at (q, speed) for polytropic head/efficiency.
	qres := st.Chart.Query(q, speed)
	if !qres.Valid {
		return StageResult{InletP: coolInletP, InletT: coolT, InletRho: inState.Rho, Rate: q, Failure: qres.Failure}, fluid.Stream{}, qres.Failure
	}
	hp := qres.Head * 1000 // kJ/kg -> J/kg
	etap := qres.Efficiency

	kappa := inState.Kappa
	mw := inState.Mw
	Tin := coolT

	var Pout, Tout, ZavgOld float64
	Zavg := inState.Z
	converged := false
	for i := 0; i < maxStageIterations; i++ {
		// Step 4: polytropic exponent from kappa, eta_p: n/(n-1) = kappa*etap/(kappa-1).
		x := kappa * etap / (kappa - 1)
		if x <= 1 {
			return StageResult{Failure: ErrStageNonConvergent}, fluid.Stream{}, ErrStageNonConvergent
		}
		nOverNMinus1 := x

		// Step 5: Hp = (Z*R*Tin/Mw)*(n/(n-1))*((Pout/Pin)^((n-1)/n) - 1),
		// solved for Pout: ratio = (Pout/Pin)^((n-1)/n) = Hp/term + 1, so
		// Pout = Pin * ratio^(n/(n-1)).
		specificR := fluid.GasConstant / mw // J/(kg*K): GasConstant is per kmol, mw is kg/kmol
		term := Zavg * specificR * Tin * nOverNMinus1
		ratio := hp/term + 1
		if ratio <= 0 {
			return StageResult{Failure: ErrStageNonConvergent}, fluid.Stream{}, ErrStageNonConvergent
		}
		Pout = coolInletP * math.Pow(ratio, nOverNMinus1)

		// Step 7 (partial): outlet temperature from the polytropic relation.
		Tout = Tin * math.Pow(Pout/coolInletP, 1/nOverNMinus1)

		outState, ferr := provider.FlashPT(inlet.Composition, inlet.EOS, Pout, Tout)
		if ferr != nil {
			return StageResult{Failure: ferr}, fluid.Stream{}, ferr
		}

		ZavgOld = Zavg
		Zavg = (inState.Z + outState.Z) / 2
		kappaNew := (inState.Kappa + outState.Kappa) / 2

		if math.Abs(Zavg-ZavgOld) < convergenceTol && math.Abs(kappaNew-kappa) < convergenceTol {
			kappa = kappaNew
			converged = true
			break
		}
		kappa = kappaNew
	}
	if !converged {
		return StageResult{Failure: ErrStageNonConvergent}, fluid.Stream{}, ErrStageNonConvergent
	}

	shaftPowerMW := hp * massRate / etap / 1e6

	outlet := fluid.Stream{
		Composition: inlet.Composition,
		EOS:         inlet.EOS,
		MassRate:    massRate,
		P:           Pout,
		T:           Tout,
	}
	outState, _ := provider.FlashPT(outlet.Composition, outlet.EOS, Pout, Tout)

	return StageResult{
		InletP: coolInletP, InletT: coolT, InletRho: inState.Rho,
		OutletP: Pout, OutletT: Tout, OutletRho: outState.Rho,
		Rate: q, Recirculation: qres.Flags.RecirculationApplied,
		PolytropicHead: qres.Head, PolytropicEff: etap,
		ShaftPowerMW: shaftPowerMW, Valid: true,
	}, outlet, nil
}
