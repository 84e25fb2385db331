package types

// Station is one row of the station table.
type Station struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
	Elevation float64
}

// PrecipitationReading is a (date, prcp) projection of a measurement.
// Precipitation is nil when the station recorded no reading.
type PrecipitationReading struct {
	Date          string
	Precipitation *float64
}

// TemperatureReading is a (date, tobs) projection of a measurement.
type TemperatureReading struct {
	Date        string
	Temperature float64
}

// TemperatureSummary is the MIN/AVG/MAX aggregate over matching
// measurements. All three are nil together when nothing matched.
type TemperatureSummary struct {
	Min *float64
	Avg *float64
	Max *float64
}

// Empty reports whether the aggregate matched no rows.
func (s TemperatureSummary) Empty() bool {
	return s.Min == nil && s.Avg == nil && s.Max == nil
}
