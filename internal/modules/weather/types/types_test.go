package types

import "testing"

func TestMetricValue(t *testing.T) {
	r := Record{Date: "2024-01-01", Temperature: 1, Humidity: 2, Pressure: 3, WindSpeed: 4, Rainfall: 5}
	for i, m := range Metrics {
		want := float64(i + 1)
		if got := m.Value(r); got != want {
			t.Errorf("%s.Value() = %v; want %v", m.Key(), got, want)
		}
	}
}

func TestMetricLabels(t *testing.T) {
	tests := []struct {
		metric Metric
		key    string
		label  string
		unit   string
	}{
		{Temperature, "temperature", "Temperature", "°C"},
		{Humidity, "humidity", "Humidity", "%"},
		{Pressure, "pressure", "Pressure", "hPa"},
		{WindSpeed, "wind_speed", "Wind Speed", "km/h"},
		{Rainfall, "rainfall", "Rainfall", "mm"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := tt.metric.Key(); got != tt.key {
				t.Errorf("Key() = %q; want %q", got, tt.key)
			}
			if got := tt.metric.Label(); got != tt.label {
				t.Errorf("Label() = %q; want %q", got, tt.label)
			}
			if got := tt.metric.Unit(); got != tt.unit {
				t.Errorf("Unit() = %q; want %q", got, tt.unit)
			}
		})
	}
}

func TestMetricUnknown(t *testing.T) {
	m := Metric(42)
	if m.Key() != "unknown" || m.Label() != "Unknown" || m.Unit() != "" {
		t.Errorf("unexpected names for unknown metric: %q %q %q", m.Key(), m.Label(), m.Unit())
	}
	if got := m.Value(Record{Temperature: 9}); got != 0 {
		t.Errorf("Value() = %v; want 0", got)
	}
}
