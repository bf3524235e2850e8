package analysis

import (
	"cloudpico-analyzer/internal/modules/weather/store"
)

// Trend holds the day-over-day and rainfall figures of one run.
// TemperatureChange is nil when fewer than two records exist and
// RainyPercent is nil for an empty store; both render as "n/a".
type Trend struct {
	Records           int      `json:"records"`
	TemperatureChange *float64 `json:"temperature_change_per_day"`
	RainyDays         int      `json:"rainy_days"`
	RainyAverage      float64  `json:"rainfall_per_rainy_day"`
	RainyPercent      *float64 `json:"rainy_day_percent"`
}

// AnalyzeTrend walks the store once in order.
func AnalyzeTrend(s *store.Store) Trend {
	n := s.Len()
	t := Trend{Records: n}

	if n > 1 {
		var change float64
		for i := 1; i < n; i++ {
			change += s.At(i).Temperature - s.At(i-1).Temperature
		}
		avg := change / float64(n-1)
		t.TemperatureChange = &avg
	}

	var rain float64
	for i := 0; i < n; i++ {
		if r := s.At(i).Rainfall; r > 0 {
			rain += r
			t.RainyDays++
		}
	}
	if t.RainyDays > 0 {
		t.RainyAverage = rain / float64(t.RainyDays)
	}
	if n > 0 {
		pct := float64(t.RainyDays) / float64(n) * 100
		t.RainyPercent = &pct
	}
	return t
}
