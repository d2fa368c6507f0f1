package facility

import (
	"errors"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/oilfield/energyflow/internal/compressor"
	"github.com/oilfield/energyflow/internal/emissions"
	"github.com/oilfield/energyflow/internal/units"
)

// ErrGensetAboveCapacity is the genset-overload condition: spec.md §4.9
// step 2 "If requested load exceeds max tabulated power: mark genset
// invalid; fuel = max-tabulated-fuel (clamp)" -- a clamp-and-mark, not a
// fault (spec.md §7 "Genset overload is a clamp-and-mark, not a fault").
var ErrGensetAboveCapacity = errors.New("facility: generator set electrical load exceeds the tabulated capacity")

// Consumer is spec.md §3's "Consumer": name, category, and a temporal
// energy_usage_model mapping, gated by CONDITION and derated by
// POWERLOSSFACTOR (spec.md §4.9 steps 5-6).
type Consumer struct {
	Name            string
	Category        string
	Condition       *Condition
	PowerLossFactor float64
	Model           TemporalMap[EnergyModel]
}

// ConsumerRecord is the per-period result record for one consumer.
type ConsumerRecord struct {
	Name          string
	Value         units.Quantity
	Valid         bool
	Failure       error
	ChosenSetting int
	Stages        []compressor.StageResult
}

// Evaluate implements spec.md §4.9 steps 3/5/6 for one consumer.
func (c *Consumer) Evaluate(p Period, ctx EvalContext) ConsumerRecord {
	ok, err := c.Condition.Eval(ctx.Variables)
	if err != nil {
		return ConsumerRecord{Name: c.Name, Failure: err}
	}
	if !ok {
		return ConsumerRecord{Name: c.Name, Value: units.Quantity{Value: 0}, Valid: true}
	}

	model, present := c.Model.At(p.Start)
	if !present {
		return ConsumerRecord{Name: c.Name, Value: units.Quantity{Value: 0}, Valid: true}
	}

	res := model.Evaluate(ctx)
	rec := ConsumerRecord{
		Name: c.Name, Value: res.Value, Valid: res.Valid, Failure: res.Failure,
		ChosenSetting: res.ChosenSetting, Stages: res.Stages,
	}
	if res.Valid && c.PowerLossFactor > 0 {
		rec.Value.Value = res.Value.Value / (1 - c.PowerLossFactor)
	}
	return rec
}

// ElectricityToFuel is a generator set's POWER->FUEL table (spec.md §4.9
// step 2). A table with an empty Power slice gives fuel=0 at any load,
// which models POWER_FROM_SHORE-style categories.
type ElectricityToFuel struct {
	Power []float64 // MW, strictly increasing from 0
	Fuel  []float64 // Sm3/day
}

// Evaluate returns the interpolated fuel rate and whether load is within
// the tabulated capacity.
func (e ElectricityToFuel) Evaluate(load float64) (fuel float64, valid bool) {
	if len(e.Power) == 0 {
		return 0, true
	}
	maxLoad := e.Power[len(e.Power)-1]
	if load > maxLoad {
		return e.Fuel[len(e.Fuel)-1], false
	}
	i := sort.SearchFloat64s(e.Power, load)
	if i == 0 {
		return e.Fuel[0], true
	}
	if i >= len(e.Power) || e.Power[i] != load {
		x0, x1 := e.Power[i-1], e.Power[i]
		y0, y1 := e.Fuel[i-1], e.Fuel[i]
		frac := (load - x0) / (x1 - x0)
		return y0 + frac*(y1-y0), true
	}
	return e.Fuel[i], true
}

// GeneratorSet is spec.md §4.9 step 2: sums electric load over its
// consumers and converts to fuel via ElectricityToFuel.
type GeneratorSet struct {
	Name              string
	Consumers         []*Consumer
	ElectricityToFuel ElectricityToFuel
	FuelType          string
}

// GeneratorSetRecord is the per-period result for one generator set.
type GeneratorSetRecord struct {
	Name       string
	ElectricMW float64
	FuelRate   float64
	Valid      bool
	Failure    error
	Consumers  []ConsumerRecord
}

// Evaluate sums electric consumer loads, negative loads (e.g. offshore
// wind) included and clamped at 0 (spec.md §7 "Negative loads... subtract
// from genset demand; a resulting negative demand is clamped to 0").
func (g *GeneratorSet) Evaluate(p Period, ctx EvalContext) GeneratorSetRecord {
	var total float64
	records := make([]ConsumerRecord, len(g.Consumers))
	for i, c := range g.Consumers {
		rec := c.Evaluate(p, ctx)
		records[i] = rec
		if rec.Valid && !math.IsNaN(rec.Value.Value) {
			total += rec.Value.Value
		}
	}
	if total < 0 {
		total = 0
	}
	fuel, valid := g.ElectricityToFuel.Evaluate(total)
	var failure error
	if !valid {
		failure = ErrGensetAboveCapacity
	}
	return GeneratorSetRecord{Name: g.Name, ElectricMW: total, FuelRate: fuel, Valid: valid, Failure: failure, Consumers: records}
}

// FuelConsumer is spec.md §4.9 step 3: computes fuel directly or via
// C5/C6/C7, wrapped in the same Consumer/Condition/POWERLOSSFACTOR shell
// as electric consumers (the model's reported unit is Sm3/day or l/day
// instead of MW).
type FuelConsumer struct {
	Consumer
	FuelType string
}

// FuelConsumerRecord is the per-period result for one fuel consumer,
// including the emission mass rates derived from its fuel rate and the
// calendar-day mass each species accounts for over the period (spec.md
// §4.9 step 7, §6's CalendarDayMass = rate * regularity * period days).
type FuelConsumerRecord struct {
	Consumer             ConsumerRecord
	Emissions            map[string]float64
	CalendarDayEmissions map[string]float64
}

// Evaluate computes the fuel consumer's fuel rate and maps it to
// emission mass rates via the registry (spec.md §4.9 step 7). Emissions
// are computed even when the consumer is partially invalid, using the
// computed (possibly NaN) fuel rate (spec.md §7). regularity is the
// installation's regularity in effect for the period, used to convert
// each species' daily rate into the period's total calendar-day mass.
func (f *FuelConsumer) Evaluate(p Period, ctx EvalContext, reg *emissions.Registry, regularity float64) FuelConsumerRecord {
	rec := f.Consumer.Evaluate(p, ctx)
	emis, err := reg.EmissionRates(f.FuelType, rec.Value.Value)
	if err != nil {
		emis = nil
	}
	var calendar map[string]float64
	if emis != nil {
		calendar = make(map[string]float64, len(emis))
		days := p.Days()
		for species, rate := range emis {
			calendar[species] = emissions.CalendarDayMass(rate, regularity, days)
		}
	}
	return FuelConsumerRecord{Consumer: rec, Emissions: emis, CalendarDayEmissions: calendar}
}

// VentingEmitter is the supplemented minimal consumer category of
// spec.md §4.9 step 4 ("pass through... scope excluded here except as
// interface"): a direct emission-rate time series with no energy/fuel
// computation.
type VentingEmitter struct {
	Name          string
	EmissionRates TemporalMap[map[string]float64] // kg/day per species
}

// Evaluate returns the emission rates in effect for the period.
func (v *VentingEmitter) Evaluate(p Period) map[string]float64 {
	rates, ok := v.EmissionRates.At(p.Start)
	if !ok {
		return nil
	}
	return rates
}

// Installation is spec.md §3's installation node: generator sets, fuel
// consumers, venting emitters, and a regularity temporal map.
type Installation struct {
	Name            string
	GeneratorSets   []*GeneratorSet
	FuelConsumers   []*FuelConsumer
	VentingEmitters []*VentingEmitter
	Regularity      TemporalMap[float64]
}

// InstallationRecord aggregates one installation's per-period results.
type InstallationRecord struct {
	Name          string
	Regularity    float64
	GeneratorSets []GeneratorSetRecord
	FuelConsumers []FuelConsumerRecord
	Venting       map[string]map[string]float64 // emitter name -> species -> kg/day
	ElectricMW    float64
}

// Evaluate implements spec.md §4.9 steps 1-4/7 for one installation.
func (inst *Installation) Evaluate(p Period, ctx EvalContext, reg *emissions.Registry, log *logrus.Logger) InstallationRecord {
	regularity, ok := inst.Regularity.At(p.Start)
	if !ok {
		regularity = 1
	}

	gensets := make([]GeneratorSetRecord, len(inst.GeneratorSets))
	var electricTotal float64
	for i, g := range inst.GeneratorSets {
		rec := g.Evaluate(p, ctx)
		gensets[i] = rec
		electricTotal += rec.ElectricMW
		if !rec.Valid {
			log.WithFields(logrus.Fields{"installation": inst.Name, "genset": g.Name, "load_mw": rec.ElectricMW}).
				Warn("generator set load exceeds tabulated capacity, clamped")
		}
	}

	fuelConsumers := make([]FuelConsumerRecord, len(inst.FuelConsumers))
	for i, f := range inst.FuelConsumers {
		fuelConsumers[i] = f.Evaluate(p, ctx, reg, regularity)
	}

	venting := make(map[string]map[string]float64, len(inst.VentingEmitters))
	for _, v := range inst.VentingEmitters {
		venting[v.Name] = v.Evaluate(p)
	}

	return InstallationRecord{
		Name: inst.Name, Regularity: regularity, GeneratorSets: gensets,
		FuelConsumers: fuelConsumers, Venting: venting, ElectricMW: electricTotal,
	}
}

// Asset is spec.md §3's top-level node: a named collection of
// installations.
type Asset struct {
	Name          string
	Installations []*Installation
}

// AssetRecord aggregates one asset's per-period installation records.
type AssetRecord struct {
	Name             string
	Installations    []InstallationRecord
	ElectricMW       float64
	MeanRegularity   float64 // unweighted mean of installation regularities this period
}

// Evaluate walks the asset's installations for one period (spec.md §4.9
// "Walks the hierarchy... per period").
func (a *Asset) Evaluate(p Period, ctx EvalContext, reg *emissions.Registry, log *logrus.Logger) AssetRecord {
	installs := make([]InstallationRecord, len(a.Installations))
	regularities := make([]float64, len(a.Installations))
	var total float64
	for i, inst := range a.Installations {
		rec := inst.Evaluate(p, ctx, reg, log)
		installs[i] = rec
		total += rec.ElectricMW
		regularities[i] = rec.Regularity
	}
	var meanRegularity float64
	if len(regularities) > 0 {
		meanRegularity = stat.Mean(regularities, nil)
	}
	return AssetRecord{Name: a.Name, Installations: installs, ElectricMW: total, MeanRegularity: meanRegularity}
}
