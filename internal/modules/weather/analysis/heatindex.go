package analysis

// HeatIndex is the simplified comfort index used by the export. It is not
// the NOAA heat index and applies no domain restriction to its inputs.
func HeatIndex(temperature, humidity float64) float64 {
	return 0.5 * (temperature + 61.0 + (temperature-68.0)*1.2 + humidity*0.094)
}
