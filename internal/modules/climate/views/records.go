package views

import "surfsup-server/internal/modules/climate/types"

// Field names and their order below are the public JSON contract.

type StationRecord struct {
	Station   string  `json:"Station"`
	Name      string  `json:"Name"`
	Lat       float64 `json:"Lat"`
	Lon       float64 `json:"Lon"`
	Elevation float64 `json:"Elevation"`
}

type TobsRecord struct {
	Date string  `json:"Date"`
	Tobs float64 `json:"Tobs"`
}

// TemperatureSummaryRecord lists min, max, avg in that order even though the
// query computes min, avg, max. Clients may depend on the emitted order.
type TemperatureSummaryRecord struct {
	Minimum *float64 `json:"Minimum Temperature"`
	Maximum *float64 `json:"Maximum Temperature"`
	Average *float64 `json:"Average Temperature"`
}

// PrecipitationByDate folds the series into a date -> precipitation map.
// When a date repeats, the entry appearing last in readings wins.
func PrecipitationByDate(readings []types.PrecipitationReading) map[string]*float64 {
	out := make(map[string]*float64, len(readings))
	for _, r := range readings {
		out[r.Date] = r.Precipitation
	}
	return out
}

func StationRecords(stations []types.Station) []StationRecord {
	out := make([]StationRecord, 0, len(stations))
	for _, s := range stations {
		out = append(out, StationRecord{
			Station:   s.ID,
			Name:      s.Name,
			Lat:       s.Latitude,
			Lon:       s.Longitude,
			Elevation: s.Elevation,
		})
	}
	return out
}

func TobsRecords(readings []types.TemperatureReading) []TobsRecord {
	out := make([]TobsRecord, 0, len(readings))
	for _, r := range readings {
		out = append(out, TobsRecord{Date: r.Date, Tobs: r.Temperature})
	}
	return out
}

// TemperatureSummaryRecords wraps the aggregate in a one-element list. An
// empty match still yields one record whose values encode as null.
func TemperatureSummaryRecords(s types.TemperatureSummary) []TemperatureSummaryRecord {
	return []TemperatureSummaryRecord{{
		Minimum: s.Min,
		Maximum: s.Max,
		Average: s.Avg,
	}}
}
