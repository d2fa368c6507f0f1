package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/oilfield/energyflow/internal/compressor"
	"github.com/oilfield/energyflow/internal/config"
	"github.com/oilfield/energyflow/internal/csvio"
	"github.com/oilfield/energyflow/internal/expr"
	"github.com/oilfield/energyflow/internal/facility"
	"github.com/oilfield/energyflow/internal/fluid"
)

// exitError carries the process exit code spec.md §6 assigns to each
// failure stratum, the way spatialmodel-inmap's cmd.go propagates a
// plain error up to main() but distinguishes outcomes by message; we
// make the distinction explicit since report consumers key off it.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

// Code returns the process exit code to report for err, defaulting to
// ExitInternalFailure for anything not explicitly classified.
func Code(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	return ExitInternalFailure
}

// periodReport is one period's solver output (spec.md §6 "Solver
// outputs"), walking the asset hierarchy the way facility.AssetRecord
// does so every per-node field spec.md §6 lists reaches the report.
type periodReport struct {
	Start  string        `json:"start"`
	End    string        `json:"end"`
	Assets []assetReport `json:"assets"`
}

type assetReport struct {
	Name           string               `json:"name"`
	ElectricMW     float64              `json:"electric_mw"`
	MeanRegularity float64              `json:"mean_regularity"`
	Installations  []installationReport `json:"installations"`
}

type installationReport struct {
	Name          string                    `json:"name"`
	Regularity    float64                   `json:"regularity"`
	ElectricMW    float64                   `json:"electric_mw"`
	GeneratorSets []gensetReport            `json:"generator_sets"`
	FuelConsumers []fuelConsumerReport      `json:"fuel_consumers"`
	Venting       map[string]map[string]float64 `json:"venting,omitempty"`
}

type gensetReport struct {
	Name       string           `json:"name"`
	ElectricMW float64          `json:"electric_mw"`
	FuelRate   float64          `json:"fuel_rate_sm3_per_day"`
	IsValid    bool             `json:"is_valid"`
	Failure    string           `json:"failure_status,omitempty"`
	Consumers  []consumerReport `json:"consumers"`
}

type consumerReport struct {
	Name                     string        `json:"name"`
	EnergyUsage              float64       `json:"energy_usage"`
	Unit                     string        `json:"unit"`
	IsValid                  bool          `json:"is_valid"`
	Failure                  string        `json:"failure_status,omitempty"`
	ChosenOperationalSetting int           `json:"chosen_operational_setting,omitempty"`
	Stages                   []stageReport `json:"stages,omitempty"`
}

type fuelConsumerReport struct {
	Consumer             consumerReport     `json:"consumer"`
	Emissions            map[string]float64 `json:"emissions,omitempty"`
	CalendarDayEmissions map[string]float64 `json:"calendar_day_emissions,omitempty"`
}

type stageReport struct {
	InletP       float64 `json:"inlet_p"`
	DischargeP   float64 `json:"outlet_p"`
	ShaftPowerMW float64 `json:"shaft_power_mw"`
	IsValid      bool    `json:"is_valid"`
}

func toConsumerReport(rec facility.ConsumerRecord) consumerReport {
	r := consumerReport{
		Name: rec.Name, EnergyUsage: rec.Value.Value, Unit: rec.Value.Unit,
		IsValid: rec.Valid, ChosenOperationalSetting: rec.ChosenSetting,
		Stages: toStageReports(rec.Stages),
	}
	if rec.Failure != nil {
		r.Failure = rec.Failure.Error()
	}
	return r
}

func toStageReports(stages []compressor.StageResult) []stageReport {
	if len(stages) == 0 {
		return nil
	}
	out := make([]stageReport, len(stages))
	for i, s := range stages {
		out[i] = stageReport{InletP: s.InletP, DischargeP: s.OutletP, ShaftPowerMW: s.ShaftPowerMW, IsValid: s.Valid}
	}
	return out
}

func toFuelConsumerReport(rec facility.FuelConsumerRecord) fuelConsumerReport {
	return fuelConsumerReport{
		Consumer: toConsumerReport(rec.Consumer), Emissions: rec.Emissions,
		CalendarDayEmissions: rec.CalendarDayEmissions,
	}
}

func toGensetReport(rec facility.GeneratorSetRecord) gensetReport {
	consumers := make([]consumerReport, len(rec.Consumers))
	for i, c := range rec.Consumers {
		consumers[i] = toConsumerReport(c)
	}
	r := gensetReport{
		Name: rec.Name, ElectricMW: rec.ElectricMW, FuelRate: rec.FuelRate,
		IsValid: rec.Valid, Consumers: consumers,
	}
	if rec.Failure != nil {
		r.Failure = rec.Failure.Error()
	}
	return r
}

func toInstallationReport(rec facility.InstallationRecord) installationReport {
	gensets := make([]gensetReport, len(rec.GeneratorSets))
	for i, g := range rec.GeneratorSets {
		gensets[i] = toGensetReport(g)
	}
	fuelConsumers := make([]fuelConsumerReport, len(rec.FuelConsumers))
	for i, f := range rec.FuelConsumers {
		fuelConsumers[i] = toFuelConsumerReport(f)
	}
	return installationReport{
		Name: rec.Name, Regularity: rec.Regularity, ElectricMW: rec.ElectricMW,
		GeneratorSets: gensets, FuelConsumers: fuelConsumers, Venting: rec.Venting,
	}
}

func toAssetReport(rec facility.AssetRecord) assetReport {
	installs := make([]installationReport, len(rec.Installations))
	for i, inst := range rec.Installations {
		installs[i] = toInstallationReport(inst)
	}
	return assetReport{
		Name: rec.Name, ElectricMW: rec.ElectricMW, MeanRegularity: rec.MeanRegularity,
		Installations: installs,
	}
}

func parseOverrides(raw []string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for _, entry := range raw {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("energyflow: --set %q is not NAME=VALUE", entry)
		}
		v, err := cast.ToFloat64E(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("energyflow: --set %q: %w", entry, err)
		}
		out[strings.TrimSpace(parts[0])] = v
	}
	return out, nil
}

func runValidate(cfg *Cfg) error {
	path := cfg.GetString("config")
	if path == "" {
		return &exitError{ExitConfigurationRejected, fmt.Errorf("energyflow: --config is required")}
	}
	doc, err := config.LoadFile(path)
	if err != nil {
		return &exitError{ExitResourceMissing, err}
	}
	if errs := config.Validate(doc); len(errs) > 0 {
		for _, e := range errs {
			cfg.Log.WithError(e).Error("configuration rejected")
		}
		return &exitError{ExitConfigurationRejected, fmt.Errorf("energyflow: %d configuration error(s)", len(errs))}
	}
	fmt.Fprintln(os.Stdout, "configuration valid")
	return nil
}

// loadedSeries is one TIME_SERIES entry resolved to its CSV contents.
type loadedSeries struct {
	def  config.TimeSeriesDef
	data *csvio.TimeSeries
}

func loadTimeSeries(cfg *Cfg, doc *config.Config) []loadedSeries {
	out := make([]loadedSeries, 0, len(doc.TimeSeries))
	for _, tsd := range doc.TimeSeries {
		data, err := csvio.ReadTimeSeriesFile(tsd.Path)
		if err != nil {
			cfg.Log.WithError(err).WithField("time_series", tsd.Name).Warn("time series could not be loaded, its variables will be unresolved")
			continue
		}
		out = append(out, loadedSeries{def: tsd, data: data})
	}
	return out
}

// runRun implements `energyflow run`: load, validate, build, and
// evaluate the facility model over every period of its time vector,
// writing one JSON report line per period to stdout (spec.md §6
// "Solver outputs").
func runRun(cfg *Cfg) error {
	path := cfg.GetString("config")
	if path == "" {
		return &exitError{ExitConfigurationRejected, fmt.Errorf("energyflow: --config is required")}
	}
	doc, err := config.LoadFile(path)
	if err != nil {
		return &exitError{ExitResourceMissing, err}
	}
	if errs := config.Validate(doc); len(errs) > 0 {
		for _, e := range errs {
			cfg.Log.WithError(e).Error("configuration rejected")
		}
		return &exitError{ExitConfigurationRejected, fmt.Errorf("energyflow: %d configuration error(s)", len(errs))}
	}

	overrides, err := parseOverrides(cfg.GetStringSlice("set"))
	if err != nil {
		return &exitError{ExitConfigurationRejected, err}
	}

	assets, buildErrs := config.Build(doc)
	for _, e := range buildErrs {
		cfg.Log.WithError(e).Warn("consumer could not be fully built from this configuration")
	}

	start, end, err := doc.Horizon()
	if err != nil {
		return &exitError{ExitConfigurationRejected, err}
	}

	series := loadTimeSeries(cfg, doc)
	var seriesInstants [][]time.Time
	for _, s := range series {
		if s.def.InfluenceTimeVector {
			seriesInstants = append(seriesInstants, s.data.Instants)
		}
	}
	vector := facility.BuildTimeVector(start, end, seriesInstants, nil)
	periods := facility.PeriodsFromVector(vector, end)

	variables := make([]*expr.Expression, len(doc.Variables))
	for i, v := range doc.Variables {
		e, err := expr.Parse(v.Expression)
		if err != nil {
			cfg.Log.WithError(err).WithField("variable", v.Name).Warn("variable expression could not be parsed, it will be unresolved")
			continue
		}
		variables[i] = e
	}

	reg := doc.Registry()
	provider := fluid.CubicProvider{}
	enc := json.NewEncoder(os.Stdout)

	for _, p := range periods {
		vars := make(map[string]float64, len(overrides)+len(series)+len(variables))
		for name, v := range overrides {
			vars[name] = v
		}
		for _, s := range series {
			for col := range s.data.Columns {
				if v, ok := s.data.ValueAt(col, p.Start); ok {
					vars[col] = v
				}
			}
		}
		for i, e := range variables {
			if e == nil {
				continue
			}
			v, err := e.EvalFloat(vars)
			if err != nil {
				cfg.Log.WithError(err).WithField("variable", doc.Variables[i].Name).Warn("variable expression failed to evaluate this period")
				continue
			}
			vars[doc.Variables[i].Name] = v
		}

		ctx := facility.EvalContext{Provider: provider, Variables: vars}
		report := periodReport{Start: p.Start.Format("2006-01-02"), End: p.End.Format("2006-01-02")}
		for _, a := range assets {
			rec := a.Evaluate(p, ctx, reg, cfg.Log)
			report.Assets = append(report.Assets, toAssetReport(rec))
		}
		if err := enc.Encode(report); err != nil {
			return &exitError{ExitInternalFailure, err}
		}
	}
	return nil
}
