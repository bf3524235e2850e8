package views

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"text/template"

	"cloudpico-analyzer/internal/modules/weather/analysis"
	"cloudpico-analyzer/internal/modules/weather/types"
)

// NotAvailable is printed in place of a value that cannot be computed.
const NotAvailable = "n/a"

var textTmpl *template.Template

var funcs = template.FuncMap{
	"f2":      func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"perDay":  perDay,
	"percent": percent,
}

// loadTemplatesFromFS parses every *.tmpl file under dir of fsys.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.New("views").Funcs(funcs).ParseFS(sub, "*.tmpl")
	if err != nil {
		return err
	}
	textTmpl = tmpl
	return nil
}

// LoadTemplates loads the embedded report and console templates. Call it
// once during startup before rendering.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// MetricView is one statistics block of the report.
type MetricView struct {
	Label string
	Unit  string
	Stats types.Statistics
}

// ReportData is the view model for the text report.
type ReportData struct {
	Period  string
	Count   int
	Metrics []MetricView
}

// NewReportData builds the report view model. An empty store has no
// analysis period.
func NewReportData(res analysis.Result) *ReportData {
	data := &ReportData{
		Period:  NotAvailable,
		Count:   res.Store.Len(),
		Metrics: make([]MetricView, 0, len(res.Metrics)),
	}
	if first, last, ok := res.Store.Span(); ok {
		data.Period = first + " to " + last
	}
	for _, ms := range res.Metrics {
		data.Metrics = append(data.Metrics, MetricView{
			Label: ms.Metric.Label(),
			Unit:  ms.Metric.Unit(),
			Stats: ms.Stats,
		})
	}
	return data
}

func RenderReport(w io.Writer, data *ReportData) error {
	return execute(w, "report.tmpl", data)
}

// RenderLoaded writes the load confirmation line.
func RenderLoaded(w io.Writer, count int) error {
	return execute(w, "loaded.tmpl", count)
}

// RenderTrends writes the console trend block.
func RenderTrends(w io.Writer, trend analysis.Trend) error {
	return execute(w, "trends.tmpl", trend)
}

func execute(w io.Writer, name string, data any) error {
	if textTmpl == nil {
		return errors.New("templates not loaded: call views.LoadTemplates during startup")
	}
	return textTmpl.ExecuteTemplate(w, name, data)
}

func perDay(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f°C per day", *v)
}

func percent(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f%%", *v)
}
