package csvio

import (
	"strings"
	"testing"
)

func TestReadTimeSeriesParsesDateOnlyRows(t *testing.T) {
	doc := "DATE,WATER_PROD,GAS_PROD\n2025-01-01,1000,5000\n2025-01-02,0,5200\n"
	ts, err := ReadTimeSeries(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadTimeSeries failed: %v", err)
	}
	if len(ts.Instants) != 2 {
		t.Fatalf("got %d instants, want 2", len(ts.Instants))
	}
	if ts.Columns["WATER_PROD"][0] != 1000 || ts.Columns["GAS_PROD"][1] != 5200 {
		t.Errorf("got columns %+v", ts.Columns)
	}
}

func TestReadTimeSeriesRejectsEmptyHeader(t *testing.T) {
	doc := "DATE,,GAS_PROD\n2025-01-01,1,2\n"
	if _, err := ReadTimeSeries(strings.NewReader(doc)); err != ErrEmptyColumn {
		t.Errorf("got %v, want ErrEmptyColumn", err)
	}
}

func TestReadTimeSeriesRejectsMixedDateFormats(t *testing.T) {
	doc := "DATE,X\n2025-01-01,1\n01-02-2025,2\n"
	if _, err := ReadTimeSeries(strings.NewReader(doc)); err == nil {
		t.Errorf("expected an inconsistent-date-format error")
	}
}

func TestReadGeneratorSetTable(t *testing.T) {
	doc := "POWER,FUEL\n0,0\n10,10000\n40,40000\n"
	table, err := ReadGeneratorSetTable(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadGeneratorSetTable failed: %v", err)
	}
	if len(table.Power) != 3 || table.Fuel[2] != 40000 {
		t.Errorf("got %+v", table)
	}
}

func TestReadPumpChartTableOptionalSpeed(t *testing.T) {
	doc := "RATE,HEAD,EFFICIENCY\n100,220,0.55\n500,120,0.60\n"
	table, err := ReadPumpChartTable(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadPumpChartTable failed: %v", err)
	}
	if table.Speed != nil {
		t.Errorf("expected nil Speed column, got %v", table.Speed)
	}
	if len(table.Rate) != 2 {
		t.Errorf("got %d rate samples, want 2", len(table.Rate))
	}
}

func TestReadCompressorSampledTableRequiresPowerOrFuel(t *testing.T) {
	doc := "RATE,SUCTION_PRESSURE\n1000000,10\n"
	if _, err := ReadCompressorSampledTable(strings.NewReader(doc)); err == nil {
		t.Errorf("expected ErrMissingColumn for a table with neither POWER nor FUEL")
	}
}
