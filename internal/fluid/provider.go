package fluid

import (
	"fmt"
	"math"

	"github.com/oilfield/energyflow/internal/solve"
)

// Stream is a fluid stream as described in spec.md §3: composition, mass
// rate, pressure, temperature.
type Stream struct {
	Composition Composition
	EOS         EOS
	MassRate    float64 // kg/s
	P           float64 // Pa
	T           float64 // K
}

// Validate checks the stream invariants in spec.md §3: P>0, T>0,
// mass_rate>=0.
func (s Stream) Validate() error {
	if s.P <= 0 || s.T <= 0 {
		return ErrNonPhysicalState
	}
	if s.MassRate < 0 {
		return fmt.Errorf("fluid: stream mass rate %v is negative", s.MassRate)
	}
	return s.Composition.Validate()
}

// Provider is the sole interface the rest of the solver layer uses to
// reach thermodynamics (spec.md §9 "Fluid/EOS as an interface"). Backing
// implementations may wrap an external native library through a
// serializing adapter (see RetryingProvider); callers never see that
// choice.
type Provider interface {
	FlashPT(c Composition, eos EOS, P, T float64) (State, error)
	FlashPS(c Composition, eos EOS, P, s float64) (State, error)
	FlashPH(c Composition, eos EOS, P, h float64) (State, error)
	StandardConditionsDensity(c Composition, eos EOS) (float64, error)
	Mix(streams []Stream) (Stream, error)
}

// CubicProvider is the default, in-process Provider backed by the SRK/PR
// cubic equation of state implemented in eos.go.
type CubicProvider struct{}

var _ Provider = CubicProvider{}

func (CubicProvider) FlashPT(c Composition, eos EOS, P, T float64) (State, error) {
	return flashPT(c, eos, P, T)
}

func (CubicProvider) FlashPS(c Composition, eos EOS, P, s float64) (State, error) {
	return flashPS(c, eos, P, s)
}

func (CubicProvider) FlashPH(c Composition, eos EOS, P, h float64) (State, error) {
	return flashPH(c, eos, P, h)
}

func (CubicProvider) StandardConditionsDensity(c Composition, eos EOS) (float64, error) {
	return standardConditionsDensity(c, eos)
}

// Mix combines streams at a common pressure using enthalpy-balance mixing
// (spec.md §3 "Mixing two streams"): mass rates sum, composition is
// mole-weighted, and temperature is found by matching the mixture
// enthalpy to the mass-weighted sum of inlet enthalpies. Pressure equality
// across streams is an external precondition (spec.md §3); Mix uses the
// first stream's pressure.
func (p CubicProvider) Mix(streams []Stream) (Stream, error) {
	return mix(p, streams)
}

func mix(p Provider, streams []Stream) (Stream, error) {
	live := make([]Stream, 0, len(streams))
	for _, s := range streams {
		if s.MassRate <= 0 {
			continue
		}
		if err := s.Validate(); err != nil {
			return Stream{}, err
		}
		live = append(live, s)
	}
	if len(live) == 0 {
		return Stream{}, fmt.Errorf("fluid: mix requires at least one stream with positive mass rate")
	}
	if len(live) == 1 {
		return live[0], nil
	}

	totalMass := 0.0
	for _, s := range live {
		totalMass += s.MassRate
	}

	// Mole-weighted composition average: convert each stream's mass rate
	// to moles via its own mixture molar mass, weight the composition by
	// mole rate, then renormalize.
	var moleWeighted Composition
	totalMoles := 0.0
	for _, s := range live {
		mw := s.Composition.MolarMass()
		moles := s.MassRate / mw * 1000 // kg/s / (kg/kmol) -> kmol/s... consistent scaling cancels on renormalize
		for i, x := range s.Composition {
			moleWeighted[i] += x * moles
		}
		totalMoles += moles
	}
	for i := range moleWeighted {
		moleWeighted[i] /= totalMoles
	}

	eos := live[0].EOS
	P := live[0].P

	// Target specific enthalpy for the mixture: mass-weighted average of
	// each inlet stream's specific enthalpy at its own (P,T).
	targetH := 0.0
	for _, s := range live {
		st, err := p.FlashPT(s.Composition, s.EOS, s.P, s.T)
		if err != nil {
			return Stream{}, err
		}
		targetH += st.H * s.MassRate
	}
	targetH /= totalMass

	f := func(T float64) float64 {
		st, err := p.FlashPT(moleWeighted, eos, P, T)
		if err != nil {
			return math.NaN()
		}
		return st.H - targetH
	}
	tGuess := live[0].T
	lo, hi := tGuess-100, tGuess+100
	lo, hi, err := solve.Bracket(f, lo, hi, solve.MaxIterations, 1.5)
	if err != nil {
		return Stream{}, ErrEosConvergence
	}
	T, err := solve.Brent(f, lo, hi, 1e-4)
	if err != nil {
		return Stream{}, ErrEosConvergence
	}

	return Stream{
		Composition: moleWeighted,
		EOS:         eos,
		MassRate:    totalMass,
		P:           P,
		T:           T,
	}, nil
}
