package service

import (
	"context"
	"fmt"
	"time"

	"surfsup-server/internal/config"
	"surfsup-server/internal/modules/climate/repository"
	"surfsup-server/internal/modules/climate/types"
)

// Params are the dataset-specific constants that anchor the default windows.
type Params struct {
	ReferenceEndDate        time.Time
	PrecipitationWindowDays int
	ReferenceStationID      string
	TobsWindowStart         time.Time
}

// ParamsFromConfig copies the climate settings out of the process config.
func ParamsFromConfig(c config.Climate) Params {
	return Params{
		ReferenceEndDate:        c.ReferenceEndDate,
		PrecipitationWindowDays: c.PrecipitationWindowDays,
		ReferenceStationID:      c.ReferenceStationID,
		TobsWindowStart:         c.TobsWindowStart,
	}
}

// PrecipitationWindowStart is ReferenceEndDate minus PrecipitationWindowDays
// calendar days, formatted as YYYY-MM-DD.
func (p Params) PrecipitationWindowStart() string {
	return p.ReferenceEndDate.AddDate(0, 0, -p.PrecipitationWindowDays).Format(config.DateLayout)
}

// Service answers the climate queries. It holds no per-request state; the
// repository owns the connection pool.
type Service struct {
	repository repository.ClimateRepository
	params     Params
}

func NewService(repository repository.ClimateRepository, params Params) *Service {
	return &Service{repository: repository, params: params}
}

func (s *Service) Params() Params {
	return s.params
}

// RecentPrecipitation returns every (date, prcp) pair inside the trailing
// window, newest first. Rows sharing a date are all kept.
func (s *Service) RecentPrecipitation(ctx context.Context) ([]types.PrecipitationReading, error) {
	since := s.params.PrecipitationWindowStart()
	readings, err := s.repository.GetPrecipitationSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("precipitation since %s: %w", since, err)
	}
	return readings, nil
}

func (s *Service) Stations(ctx context.Context) ([]types.Station, error) {
	stations, err := s.repository.GetStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("stations: %w", err)
	}
	return stations, nil
}

// ReferenceStationTemperatures returns (date, tobs) for the reference station
// from TobsWindowStart onwards, in store order.
func (s *Service) ReferenceStationTemperatures(ctx context.Context) ([]types.TemperatureReading, error) {
	since := s.params.TobsWindowStart.Format(config.DateLayout)
	readings, err := s.repository.GetStationTemperaturesSince(ctx, s.params.ReferenceStationID, since)
	if err != nil {
		return nil, fmt.Errorf("temperatures for %s since %s: %w", s.params.ReferenceStationID, since, err)
	}
	return readings, nil
}

// TemperatureSummaryFrom aggregates every measurement dated on or after start.
// start is not validated: a malformed value simply matches nothing.
func (s *Service) TemperatureSummaryFrom(ctx context.Context, start string) (types.TemperatureSummary, error) {
	summary, err := s.repository.GetTemperatureSummaryFrom(ctx, start)
	if err != nil {
		return types.TemperatureSummary{}, fmt.Errorf("temperature summary from %q: %w", start, err)
	}
	return summary, nil
}

// TemperatureSummaryBetween aggregates over start <= date <= end. A reversed
// range is not rejected; it yields the empty summary.
func (s *Service) TemperatureSummaryBetween(ctx context.Context, start, end string) (types.TemperatureSummary, error) {
	summary, err := s.repository.GetTemperatureSummaryBetween(ctx, start, end)
	if err != nil {
		return types.TemperatureSummary{}, fmt.Errorf("temperature summary %q..%q: %w", start, end, err)
	}
	return summary, nil
}
