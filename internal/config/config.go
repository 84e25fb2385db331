package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DateLayout is the layout of every date in the dataset and in the
// CLIMATE_* settings.
const DateLayout = time.DateOnly

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	HTTPShutdownTimeout time.Duration
	CORSAllowedOrigins  []string

	SQLiteDriver          string
	SQLiteDSN             string
	SQLitePath            string
	SQLiteMaxOpenConns    int
	SQLiteMaxIdleConns    int
	SQLiteConnMaxLifetime time.Duration
	SQLiteLogStatements   bool

	Climate Climate
}

// Climate holds the dataset-specific constants that define the default
// query windows. They describe the loaded dataset, not the query logic.
type Climate struct {
	// ReferenceEndDate is the latest date present in the dataset.
	ReferenceEndDate        time.Time
	PrecipitationWindowDays int
	// ReferenceStationID is the most active station.
	ReferenceStationID string
	TobsWindowStart    time.Time
}

type rawConfig struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSAllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	Driver          string        `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN             string        `env:"DB_DSN"`
	Path            string        `env:"SQLITE_PATH" envDefault:"Resources/hawaii.sqlite"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"4"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"4"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"0s"`
	LogSQL          bool          `env:"DB_LOG_SQL" envDefault:"false"`

	ReferenceEndDate        string `env:"CLIMATE_REFERENCE_END_DATE" envDefault:"2017-08-23"`
	PrecipitationWindowDays int    `env:"CLIMATE_PRECIPITATION_WINDOW_DAYS" envDefault:"365"`
	ReferenceStationID      string `env:"CLIMATE_REFERENCE_STATION" envDefault:"USC00519281"`
	TobsWindowStart         string `env:"CLIMATE_TOBS_WINDOW_START" envDefault:"2016-08-23"`
}

func LoadFromEnv() (Config, error) {
	var raw rawConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	appEnv := strings.TrimSpace(raw.AppEnv)
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(raw.LogLevel)
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(raw.HTTPAddr)
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	if raw.HTTPShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid HTTP_SHUTDOWN_TIMEOUT %s (must be > 0)", raw.HTTPShutdownTimeout)
	}

	driver := strings.TrimSpace(raw.Driver)
	switch driver {
	case "sqlite3", "sqlite":
	default:
		return Config{}, fmt.Errorf("invalid DB_DRIVER %q (allowed: sqlite3, sqlite)", driver)
	}
	if raw.MaxOpenConns < 0 {
		return Config{}, fmt.Errorf("invalid DB_MAX_OPEN_CONNS %d (must be >= 0)", raw.MaxOpenConns)
	}

	climate, err := parseClimate(raw)
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:                appEnv,
		LogLevel:              level,
		HTTPAddr:              httpAddr,
		HTTPShutdownTimeout:   raw.HTTPShutdownTimeout,
		CORSAllowedOrigins:    trimAll(raw.CORSAllowedOrigins),
		SQLiteDriver:          driver,
		SQLiteDSN:             strings.TrimSpace(raw.DSN),
		SQLitePath:            strings.TrimSpace(raw.Path),
		SQLiteMaxOpenConns:    raw.MaxOpenConns,
		SQLiteMaxIdleConns:    raw.MaxIdleConns,
		SQLiteConnMaxLifetime: raw.ConnMaxLifetime,
		SQLiteLogStatements:   raw.LogSQL,
		Climate:               climate,
	}, nil
}

func parseClimate(raw rawConfig) (Climate, error) {
	endDate, err := parseDate("CLIMATE_REFERENCE_END_DATE", raw.ReferenceEndDate)
	if err != nil {
		return Climate{}, err
	}
	tobsStart, err := parseDate("CLIMATE_TOBS_WINDOW_START", raw.TobsWindowStart)
	if err != nil {
		return Climate{}, err
	}
	if raw.PrecipitationWindowDays <= 0 {
		return Climate{}, fmt.Errorf("invalid CLIMATE_PRECIPITATION_WINDOW_DAYS %d (must be > 0)", raw.PrecipitationWindowDays)
	}
	station := strings.TrimSpace(raw.ReferenceStationID)
	if station == "" {
		return Climate{}, fmt.Errorf("CLIMATE_REFERENCE_STATION must not be empty")
	}
	return Climate{
		ReferenceEndDate:        endDate,
		PrecipitationWindowDays: raw.PrecipitationWindowDays,
		ReferenceStationID:      station,
		TobsWindowStart:         tobsStart,
	}, nil
}

func parseDate(name, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q (expected YYYY-MM-DD): %w", name, s, err)
	}
	return t, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
