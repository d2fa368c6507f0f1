package compressor

import (
	"github.com/oilfield/energyflow/internal/consumersystem"
	"github.com/oilfield/energyflow/internal/fluid"
)

// pressureSolvingTrain is satisfied by VariableSpeedTrain,
// SimplifiedVariableSpeedTrain, and MultiStreamTrain: trains whose
// Evaluate takes a target discharge pressure and solves for it.
type pressureSolvingTrain interface {
	Evaluate(provider fluid.Provider, inlet fluid.Stream, targetDischargeP float64) TrainResult
}

// ConsumerUnit adapts a compressor train to the consumersystem.Unit
// interface (spec.md §4.8's "Evaluate each unit via C3 or C5"). Rate in
// the consumer-system sense is the inlet mass flow (kg/s); consumer
// systems built from compressor trains configure rates directly in mass
// terms rather than the stream-day volumetric convention pumps use.
type ConsumerUnit struct {
	Provider         fluid.Provider
	Train            pressureSolvingTrain
	Composition      fluid.Composition
	EOS              fluid.EOS
	InletT           float64
	MaxInletMassRate float64 // kg/s, derated capacity at the configured pressures
}

// Capacity returns the unit's configured maximum inlet mass rate. A
// compressor train's absorbable rate is governed by its charts'
// stonewall limits at the solved speed, which depend on the very
// pressures and rate being queried; MaxInletMassRate is the
// configuration-time derating used as the crossover threshold.
func (u ConsumerUnit) Capacity(suctionP, dischargeP float64) float64 {
	return u.MaxInletMassRate
}

// Evaluate flashes the inlet at suctionP and runs the train to
// dischargeP with the given inlet mass rate.
func (u ConsumerUnit) Evaluate(rate, suctionP, dischargeP float64) consumersystem.UnitResult {
	inlet := fluid.Stream{
		Composition: u.Composition, EOS: u.EOS,
		MassRate: rate, P: suctionP, T: u.InletT,
	}
	res := u.Train.Evaluate(u.Provider, inlet, dischargeP)
	return consumersystem.UnitResult{
		Rate: rate, EnergyMW: res.ShaftPowerMW, Valid: res.Valid, Failure: res.Failure,
	}
}
