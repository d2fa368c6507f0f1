package config

import (
	"fmt"

	"github.com/oilfield/energyflow/internal/compressor"
	"github.com/oilfield/energyflow/internal/fluid"
)

// componentByName reverses fluid.Component's String() method: none of
// fluid/compressor export a name->enum lookup, since the teacher's own
// enums (e.g. chart.ChartKind) are consumed only from Go code, never
// parsed from a configuration string.
var componentByName = map[string]fluid.Component{
	"water":     fluid.Water,
	"nitrogen":  fluid.Nitrogen,
	"CO2":       fluid.CO2,
	"methane":   fluid.Methane,
	"ethane":    fluid.Ethane,
	"propane":   fluid.Propane,
	"i_butane":  fluid.IButane,
	"n_butane":  fluid.NButane,
	"i_pentane": fluid.IPentane,
	"n_pentane": fluid.NPentane,
	"n_hexane":  fluid.NHexane,
}

var eosByName = map[string]fluid.EOS{
	"SRK":     fluid.SRK,
	"PR":      fluid.PR,
	"GERGSRK": fluid.GERGSRK,
	"GERGPR":  fluid.GERGPR,
}

var pressureControlByName = map[string]compressor.PressureControl{
	"DOWNSTREAM_CHOKE":        compressor.DownstreamChoke,
	"UPSTREAM_CHOKE":          compressor.UpstreamChoke,
	"INDIVIDUAL_ASV_RATE":     compressor.IndividualASVRate,
	"INDIVIDUAL_ASV_PRESSURE": compressor.IndividualASVPressure,
	"COMMON_ASV":              compressor.CommonASV,
}

// buildComposition resolves a CompositionDef to a fluid.Composition,
// either from a named preset or explicit mole fractions keyed by
// component name.
func buildComposition(d CompositionDef) (fluid.Composition, error) {
	if d.Preset != "" {
		c, ok := fluid.Presets[d.Preset]
		if !ok {
			return fluid.Composition{}, fmt.Errorf("%w: composition preset %q", ErrUnknownReference, d.Preset)
		}
		return c, nil
	}
	fractions := make(map[fluid.Component]float64, len(d.Fractions))
	for name, frac := range d.Fractions {
		comp, ok := componentByName[name]
		if !ok {
			return fluid.Composition{}, fmt.Errorf("%w: fluid component %q", ErrUnknownReference, name)
		}
		fractions[comp] = frac
	}
	return fluid.New(fractions), nil
}

// buildEOS resolves an EOS name, defaulting to SRK when empty (the
// teacher's zero-value convention: EOS's iota zero value is SRK).
func buildEOS(name string) (fluid.EOS, error) {
	if name == "" {
		return fluid.SRK, nil
	}
	eos, ok := eosByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: eos %q", ErrUnknownReference, name)
	}
	return eos, nil
}

// buildStream resolves a StreamRefDef to a fluid.Stream.
func buildStream(d StreamRefDef) (fluid.Stream, error) {
	comp, err := buildComposition(d.Composition)
	if err != nil {
		return fluid.Stream{}, err
	}
	eos, err := buildEOS(d.EOS)
	if err != nil {
		return fluid.Stream{}, err
	}
	return fluid.Stream{Composition: comp, EOS: eos, MassRate: d.MassRate, P: d.Pressure, T: d.Temperature}, nil
}
