// Package export writes the run's output files: the text report, the
// augmented CSV and the optional XLSX workbook.
package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"cloudpico-analyzer/internal/modules/weather/analysis"
	"cloudpico-analyzer/internal/modules/weather/types"
	"cloudpico-analyzer/internal/modules/weather/views"
)

const (
	ReportFile = "weather_report.txt"
	CSVFile    = "processed_weather_data.csv"
)

// ErrFileNotWritable is returned when an output file cannot be created.
var ErrFileNotWritable = errors.New("file not writable")

// Header is the first row of the augmented export.
var Header = []string{"Date", "Temperature", "Humidity", "Pressure", "WindSpeed", "Rainfall", "HeatIndex"}

// WriteReport renders the text report into path.
func WriteReport(path string, res analysis.Result) error {
	return writeFile(path, func(w io.Writer) error {
		return views.RenderReport(w, views.NewReportData(res))
	})
}

// Row formats one record for the export, heat index included.
func Row(r types.Record) []string {
	return []string{
		r.Date,
		format2(r.Temperature),
		format2(r.Humidity),
		format2(r.Pressure),
		format2(r.WindSpeed),
		format2(r.Rainfall),
		format2(analysis.HeatIndex(r.Temperature, r.Humidity)),
	}
}

func format2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// writeFile creates path, truncating any previous content, and hands the
// file to write. Open failures wrap ErrFileNotWritable.
func writeFile(path string, write func(w io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: mkdir %s: %w", ErrFileNotWritable, dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileNotWritable, path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Debug("output written", "path", path)
	return nil
}
