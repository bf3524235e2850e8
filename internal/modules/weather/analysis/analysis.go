// Package analysis turns a loaded store into the figures every writer
// consumes: per-metric statistics, the heat index and the trend summary.
package analysis

import (
	"cloudpico-analyzer/internal/modules/weather/store"
	"cloudpico-analyzer/internal/modules/weather/types"
	"cloudpico-analyzer/internal/stats"
)

type MetricSummary struct {
	Metric types.Metric
	Stats  types.Statistics
}

type Result struct {
	Store    *store.Store
	Strategy stats.Strategy
	Metrics  []MetricSummary
	Trend    Trend
}

// Analyze computes statistics for every metric column and the trend.
func Analyze(s *store.Store, strategy stats.Strategy) Result {
	res := Result{
		Store:    s,
		Strategy: strategy,
		Metrics:  make([]MetricSummary, 0, len(types.Metrics)),
	}
	for _, m := range types.Metrics {
		res.Metrics = append(res.Metrics, MetricSummary{
			Metric: m,
			Stats:  strategy.Compute(s.Column(m)),
		})
	}
	res.Trend = AnalyzeTrend(s)
	return res
}

// Stats returns the statistics computed for m.
func (r Result) Stats(m types.Metric) types.Statistics {
	for _, ms := range r.Metrics {
		if ms.Metric == m {
			return ms.Stats
		}
	}
	return types.Statistics{}
}
