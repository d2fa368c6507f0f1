package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrMissingColumn is returned when a facility-characterization CSV
// lacks a column its kind requires (spec.md §6 "Facility
// characterization (CSV)").
var ErrMissingColumn = errors.New("csvio: required column missing")

// GeneratorSetTable is a genset POWER->FUEL characterization (spec.md §6
// "Generator set: columns POWER, FUEL").
type GeneratorSetTable struct {
	Power []float64
	Fuel  []float64
}

// ReadGeneratorSetTable reads POWER,FUEL columns.
func ReadGeneratorSetTable(r io.Reader) (*GeneratorSetTable, error) {
	rows, header, err := readAllRows(r)
	if err != nil {
		return nil, err
	}
	powerCol, err := columnIndex(header, "POWER")
	if err != nil {
		return nil, err
	}
	fuelCol, err := columnIndex(header, "FUEL")
	if err != nil {
		return nil, err
	}
	table := &GeneratorSetTable{}
	for _, row := range rows {
		p, err := parseCell(row, powerCol)
		if err != nil {
			return nil, err
		}
		f, err := parseCell(row, fuelCol)
		if err != nil {
			return nil, err
		}
		table.Power = append(table.Power, p)
		table.Fuel = append(table.Fuel, f)
	}
	return table, nil
}

// PumpChartTable is one pump-chart curve's samples (spec.md §6 "Pump
// chart: RATE, HEAD, EFFICIENCY, optional SPEED").
type PumpChartTable struct {
	Rate       []float64
	Head       []float64
	Efficiency []float64
	Speed      []float64 // nil when the CSV has no SPEED column (single-speed chart)
}

// ReadPumpChartTable reads RATE,HEAD,EFFICIENCY,[SPEED] columns.
func ReadPumpChartTable(r io.Reader) (*PumpChartTable, error) {
	rows, header, err := readAllRows(r)
	if err != nil {
		return nil, err
	}
	rateCol, err := columnIndex(header, "RATE")
	if err != nil {
		return nil, err
	}
	headCol, err := columnIndex(header, "HEAD")
	if err != nil {
		return nil, err
	}
	effCol, err := columnIndex(header, "EFFICIENCY")
	if err != nil {
		return nil, err
	}
	speedCol, hasSpeed := -1, false
	if i, err := columnIndex(header, "SPEED"); err == nil {
		speedCol, hasSpeed = i, true
	}

	table := &PumpChartTable{}
	for _, row := range rows {
		rate, err := parseCell(row, rateCol)
		if err != nil {
			return nil, err
		}
		head, err := parseCell(row, headCol)
		if err != nil {
			return nil, err
		}
		eff, err := parseCell(row, effCol)
		if err != nil {
			return nil, err
		}
		table.Rate = append(table.Rate, rate)
		table.Head = append(table.Head, head)
		table.Efficiency = append(table.Efficiency, eff)
		if hasSpeed {
			speed, err := parseCell(row, speedCol)
			if err != nil {
				return nil, err
			}
			table.Speed = append(table.Speed, speed)
		}
	}
	return table, nil
}

// CompressorSampledTable is a sampled-compressor characterization
// (spec.md §6 "Compressor sampled: one or more of RATE, SUCTION_PRESSURE,
// DISCHARGE_PRESSURE; POWER and/or FUEL"), read generically as named
// columns for internal/tabulated.Table to consume by name.
type CompressorSampledTable struct {
	Columns map[string][]float64
}

// ReadCompressorSampledTable reads an arbitrary-column sampled-compressor
// CSV, requiring at least one of POWER or FUEL to be present.
func ReadCompressorSampledTable(r io.Reader) (*CompressorSampledTable, error) {
	rows, header, err := readAllRows(r)
	if err != nil {
		return nil, err
	}
	hasPower := indexOf(header, "POWER") >= 0
	hasFuel := indexOf(header, "FUEL") >= 0
	if !hasPower && !hasFuel {
		return nil, fmt.Errorf("%w: need POWER and/or FUEL", ErrMissingColumn)
	}

	table := &CompressorSampledTable{Columns: make(map[string][]float64, len(header))}
	for colIdx, name := range header {
		for _, row := range rows {
			v, err := parseCell(row, colIdx)
			if err != nil {
				return nil, err
			}
			table.Columns[name] = append(table.Columns[name], v)
		}
	}
	return table, nil
}

func readAllRows(r io.Reader) (rows [][]string, header []string, err error) {
	cr := csv.NewReader(r)
	header, err = cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("csvio: reading header: %w", err)
	}
	for _, name := range header {
		if name == "" {
			return nil, nil, ErrEmptyColumn
		}
	}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csvio: %w", err)
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyColumn
	}
	return rows, header, nil
}

func columnIndex(header []string, name string) (int, error) {
	i := indexOf(header, name)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return i, nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func parseCell(row []string, idx int) (float64, error) {
	v, err := strconv.ParseFloat(row[idx], 64)
	if err != nil {
		return 0, fmt.Errorf("csvio: %w", err)
	}
	return v, nil
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvio: %w", err)
	}
	return f, nil
}

// ReadGeneratorSetTableFile opens path and reads it as a genset table.
func ReadGeneratorSetTableFile(path string) (*GeneratorSetTable, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGeneratorSetTable(f)
}

// ReadPumpChartTableFile opens path and reads it as a pump chart table.
func ReadPumpChartTableFile(path string) (*PumpChartTable, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPumpChartTable(f)
}

// ReadCompressorSampledTableFile opens path and reads it as a sampled
// compressor table.
func ReadCompressorSampledTableFile(path string) (*CompressorSampledTable, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCompressorSampledTable(f)
}
