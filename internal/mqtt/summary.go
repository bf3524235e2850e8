package mqtt

import (
	"time"

	"cloudpico-analyzer/internal/modules/weather/analysis"
	"cloudpico-analyzer/internal/modules/weather/loader"
	"cloudpico-analyzer/internal/modules/weather/types"
)

// Summary is the retained payload describing one analysis run.
type Summary struct {
	Source      string                      `json:"source"`
	GeneratedAt time.Time                   `json:"generated_at"`
	Strategy    string                      `json:"variance_strategy"`
	Records     int                         `json:"records"`
	Skipped     int                         `json:"skipped_lines"`
	Truncated   int                         `json:"truncated_lines"`
	From        string                      `json:"from,omitempty"`
	To          string                      `json:"to,omitempty"`
	Trend       analysis.Trend              `json:"trend"`
	Metrics     map[string]types.Statistics `json:"metrics"`
}

func NewSummary(source string, load loader.Result, res analysis.Result) Summary {
	s := Summary{
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Strategy:    res.Strategy.String(),
		Records:     res.Store.Len(),
		Skipped:     load.Skipped,
		Truncated:   load.Truncated,
		Trend:       res.Trend,
		Metrics:     make(map[string]types.Statistics, len(res.Metrics)),
	}
	if first, last, ok := res.Store.Span(); ok {
		s.From, s.To = first, last
	}
	for _, ms := range res.Metrics {
		s.Metrics[ms.Metric.Key()] = ms.Stats
	}
	return s
}
