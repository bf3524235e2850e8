package types

// Record is one daily observation. Date is kept as the raw token from the
// input and is never parsed into a calendar type.
type Record struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature_c"`
	Humidity    float64 `json:"humidity_pct"`
	Pressure    float64 `json:"pressure_hpa"`
	WindSpeed   float64 `json:"wind_speed_kmh"`
	Rainfall    float64 `json:"rainfall_mm"`
}

// Statistics summarises one metric column. StdDev is the population
// standard deviation (divisor N).
type Statistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

type Metric int

const (
	Temperature Metric = iota
	Humidity
	Pressure
	WindSpeed
	Rainfall
)

// Metrics lists every measured column in report order.
var Metrics = []Metric{Temperature, Humidity, Pressure, WindSpeed, Rainfall}

// Key is the stable identifier used in exports, the archive and payloads.
func (m Metric) Key() string {
	switch m {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	case Pressure:
		return "pressure"
	case WindSpeed:
		return "wind_speed"
	case Rainfall:
		return "rainfall"
	default:
		return "unknown"
	}
}

func (m Metric) Label() string {
	switch m {
	case Temperature:
		return "Temperature"
	case Humidity:
		return "Humidity"
	case Pressure:
		return "Pressure"
	case WindSpeed:
		return "Wind Speed"
	case Rainfall:
		return "Rainfall"
	default:
		return "Unknown"
	}
}

func (m Metric) Unit() string {
	switch m {
	case Temperature:
		return "°C"
	case Humidity:
		return "%"
	case Pressure:
		return "hPa"
	case WindSpeed:
		return "km/h"
	case Rainfall:
		return "mm"
	default:
		return ""
	}
}

// Value returns the field of r that m refers to.
func (m Metric) Value(r Record) float64 {
	switch m {
	case Temperature:
		return r.Temperature
	case Humidity:
		return r.Humidity
	case Pressure:
		return r.Pressure
	case WindSpeed:
		return r.WindSpeed
	case Rainfall:
		return r.Rainfall
	default:
		return 0
	}
}
