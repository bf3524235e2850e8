package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"cloudpico-analyzer/internal/modules/weather/analysis"
)

const (
	ProcessedSheet  = "Processed"
	StatisticsSheet = "Statistics"
)

var statisticsHeader = []any{"Metric", "Unit", "Minimum", "Maximum", "Average", "StdDev"}

// WriteXLSX writes the processed rows and the per-metric statistics to a
// workbook at path. Numbers are stored as numeric cells rounded to 2 dp.
func WriteXLSX(path string, res analysis.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), ProcessedSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(ProcessedSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	s := res.Store
	for i := 0; i < s.Len(); i++ {
		r := s.At(i)
		row := []any{
			r.Date,
			round2(r.Temperature),
			round2(r.Humidity),
			round2(r.Pressure),
			round2(r.WindSpeed),
			round2(r.Rainfall),
			round2(analysis.HeatIndex(r.Temperature, r.Humidity)),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ProcessedSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if _, err := f.NewSheet(StatisticsSheet); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	if err := f.SetSheetRow(StatisticsSheet, "A1", &statisticsHeader); err != nil {
		return fmt.Errorf("write statistics header: %w", err)
	}
	for i, ms := range res.Metrics {
		row := []any{
			ms.Metric.Label(),
			ms.Metric.Unit(),
			round2(ms.Stats.Min),
			round2(ms.Stats.Max),
			round2(ms.Stats.Mean),
			round2(ms.Stats.StdDev),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(StatisticsSheet, cell, &row); err != nil {
			return fmt.Errorf("write statistics row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileNotWritable, path, err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
