package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"log/slog"

	"surfsup-server/internal/modules/climate/types"
)

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/get-precipitation-since.sql
var getPrecipitationSinceSQL string

//go:embed sql/get-station-temperatures-since.sql
var getStationTemperaturesSinceSQL string

//go:embed sql/get-temperature-summary-from.sql
var getTemperatureSummaryFromSQL string

//go:embed sql/get-temperature-summary-between.sql
var getTemperatureSummaryBetweenSQL string

// ClimateRepository is the read-only query surface over the measurement and
// station tables. Date arguments are YYYY-MM-DD strings compared as text;
// they are passed through unvalidated.
type ClimateRepository interface {
	GetStations(ctx context.Context) ([]types.Station, error)
	// GetPrecipitationSince returns (date, prcp) for every measurement on or
	// after since, newest first. Duplicate dates are kept.
	GetPrecipitationSince(ctx context.Context, since string) ([]types.PrecipitationReading, error)
	GetStationTemperaturesSince(ctx context.Context, stationID string, since string) ([]types.TemperatureReading, error)
	GetTemperatureSummaryFrom(ctx context.Context, start string) (types.TemperatureSummary, error)
	// GetTemperatureSummaryBetween aggregates over start <= date <= end.
	GetTemperatureSummaryBetween(ctx context.Context, start string, end string) (types.TemperatureSummary, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetStations(ctx context.Context) ([]types.Station, error) {
	rows, err := r.db.QueryContext(ctx, getStationsSQL)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, "stations")
	out := []types.Station{}
	for rows.Next() {
		var s types.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.Elevation); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetPrecipitationSince(ctx context.Context, since string) ([]types.PrecipitationReading, error) {
	rows, err := r.db.QueryContext(ctx, getPrecipitationSinceSQL, since)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, "precipitation")
	out := []types.PrecipitationReading{}
	for rows.Next() {
		var (
			rec  types.PrecipitationReading
			prcp sql.NullFloat64
		)
		if err := rows.Scan(&rec.Date, &prcp); err != nil {
			return nil, err
		}
		rec.Precipitation = nullFloat(prcp)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetStationTemperaturesSince(ctx context.Context, stationID string, since string) ([]types.TemperatureReading, error) {
	rows, err := r.db.QueryContext(ctx, getStationTemperaturesSinceSQL, stationID, since)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, "station temperatures")
	out := []types.TemperatureReading{}
	for rows.Next() {
		var rec types.TemperatureReading
		if err := rows.Scan(&rec.Date, &rec.Temperature); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetTemperatureSummaryFrom(ctx context.Context, start string) (types.TemperatureSummary, error) {
	return r.scanSummary(r.db.QueryRowContext(ctx, getTemperatureSummaryFromSQL, start))
}

func (r *repositoryImpl) GetTemperatureSummaryBetween(ctx context.Context, start string, end string) (types.TemperatureSummary, error) {
	return r.scanSummary(r.db.QueryRowContext(ctx, getTemperatureSummaryBetweenSQL, start, end))
}

// scanSummary reads the single aggregate row. SQL aggregates without GROUP BY
// always produce one row, NULL-valued when nothing matched.
func (r *repositoryImpl) scanSummary(row *sql.Row) (types.TemperatureSummary, error) {
	var lo, avg, hi sql.NullFloat64
	if err := row.Scan(&lo, &avg, &hi); err != nil {
		return types.TemperatureSummary{}, err
	}
	return types.TemperatureSummary{
		Min: nullFloat(lo),
		Avg: nullFloat(avg),
		Max: nullFloat(hi),
	}, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close "+what+" rows", "error", err)
	}
}
