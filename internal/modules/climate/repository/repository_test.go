package repository

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Schema of hawaii.sqlite.
const testSchema = `
CREATE TABLE station (
  id        INTEGER NOT NULL PRIMARY KEY,
  station   TEXT,
  name      TEXT,
  latitude  FLOAT,
  longitude FLOAT,
  elevation FLOAT
);

CREATE TABLE measurement (
  id      INTEGER NOT NULL PRIMARY KEY,
  station TEXT,
  date    TEXT,
  prcp    FLOAT,
  tobs    FLOAT
);
`

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err, "open db")
	// Each in-memory connection is its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("close db: %v", closeErr)
		}
	})
	_, err = db.Exec(testSchema)
	require.NoError(t, err, "exec schema")
	return db
}

func seedStations(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO station (station, name, latitude, longitude, elevation) VALUES
		('USC00519397', 'WAIKIKI 717.2, HI US', 21.2716, -157.8168, 3.0),
		('USC00519281', 'WAIHEE 837.5, HI US', 21.45167, -157.84889, 32.9)
	`)
	require.NoError(t, err, "insert stations")
}

func seedMeasurements(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO measurement (station, date, prcp, tobs) VALUES
		('USC00519281', '2016-08-22', 0.40, 68),
		('USC00519281', '2016-08-23', 1.79, 77),
		('USC00519281', '2016-08-24', 2.15, 77),
		('USC00519397', '2016-08-23', 0.00, 81),
		('USC00519397', '2016-08-24', NULL, 79),
		('USC00519397', '2017-08-23', 0.00, 81)
	`)
	require.NoError(t, err, "insert measurements")
}

func TestNewRepository(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	require.NotNil(t, repo)
}

func TestGetStations_Empty(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	stations, err := repo.GetStations(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, stations, "empty roster should be a non-nil slice")
	assert.Empty(t, stations)
}

func TestGetStations_WithData(t *testing.T) {
	db := setupTestDB(t)
	seedStations(t, db)
	repo := NewRepository(db)

	stations, err := repo.GetStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 2)

	byID := map[string]int{}
	for i, s := range stations {
		byID[s.ID] = i
	}
	require.Contains(t, byID, "USC00519281")
	got := stations[byID["USC00519281"]]
	assert.Equal(t, "WAIHEE 837.5, HI US", got.Name)
	assert.InDelta(t, 21.45167, got.Latitude, 1e-9)
	assert.InDelta(t, -157.84889, got.Longitude, 1e-9)
	assert.InDelta(t, 32.9, got.Elevation, 1e-9)
}

func TestGetPrecipitationSince(t *testing.T) {
	db := setupTestDB(t)
	seedMeasurements(t, db)
	repo := NewRepository(db)

	readings, err := repo.GetPrecipitationSince(context.Background(), "2016-08-23")
	require.NoError(t, err)
	require.Len(t, readings, 5, "duplicate dates across stations are kept")

	for i, r := range readings {
		assert.GreaterOrEqual(t, r.Date, "2016-08-23")
		if i > 0 {
			assert.LessOrEqual(t, r.Date, readings[i-1].Date, "descending by date")
		}
	}
	assert.Equal(t, "2017-08-23", readings[0].Date)

	var nulls int
	for _, r := range readings {
		if r.Precipitation == nil {
			nulls++
			assert.Equal(t, "2016-08-24", r.Date)
		}
	}
	assert.Equal(t, 1, nulls, "NULL prcp must stay absent, not zero")
}

func TestGetPrecipitationSince_NoMatch(t *testing.T) {
	db := setupTestDB(t)
	seedMeasurements(t, db)
	repo := NewRepository(db)

	readings, err := repo.GetPrecipitationSince(context.Background(), "2020-01-01")
	require.NoError(t, err)
	assert.NotNil(t, readings)
	assert.Empty(t, readings)
}

func TestGetStationTemperaturesSince(t *testing.T) {
	db := setupTestDB(t)
	seedMeasurements(t, db)
	repo := NewRepository(db)

	readings, err := repo.GetStationTemperaturesSince(context.Background(), "USC00519281", "2016-08-23")
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.ElementsMatch(t, []string{"2016-08-23", "2016-08-24"}, []string{readings[0].Date, readings[1].Date})
	for _, r := range readings {
		assert.Equal(t, 77.0, r.Temperature)
	}
}

func TestGetStationTemperaturesSince_UnknownStation(t *testing.T) {
	db := setupTestDB(t)
	seedMeasurements(t, db)
	repo := NewRepository(db)

	readings, err := repo.GetStationTemperaturesSince(context.Background(), "USC00000000", "2000-01-01")
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestGetTemperatureSummaryFrom(t *testing.T) {
	db := setupTestDB(t)
	seedMeasurements(t, db)
	repo := NewRepository(db)

	got, err := repo.GetTemperatureSummaryFrom(context.Background(), "2016-08-24")
	require.NoError(t, err)
	require.False(t, got.Empty())
	assert.Equal(t, 77.0, *got.Min)
	assert.InDelta(t, (77.0+79.0+81.0)/3, *got.Avg, 1e-9)
	assert.Equal(t, 81.0, *got.Max)
}

func TestGetTemperatureSummaryBetween(t *testing.T) {
	db := setupTestDB(t)
	seedMeasurements(t, db)
	repo := NewRepository(db)

	t.Run("inclusive on both ends", func(t *testing.T) {
		got, err := repo.GetTemperatureSummaryBetween(context.Background(), "2016-08-22", "2016-08-23")
		require.NoError(t, err)
		require.False(t, got.Empty())
		assert.Equal(t, 68.0, *got.Min)
		assert.InDelta(t, (68.0+77.0+81.0)/3, *got.Avg, 1e-9)
		assert.Equal(t, 81.0, *got.Max)
	})

	t.Run("reversed range matches nothing", func(t *testing.T) {
		got, err := repo.GetTemperatureSummaryBetween(context.Background(), "2017-01-01", "2016-01-01")
		require.NoError(t, err)
		assert.True(t, got.Empty())
		assert.Nil(t, got.Min)
		assert.Nil(t, got.Avg)
		assert.Nil(t, got.Max)
	})

	t.Run("malformed dates fold into empty result", func(t *testing.T) {
		got, err := repo.GetTemperatureSummaryBetween(context.Background(), "zzz", "zzzz")
		require.NoError(t, err)
		assert.True(t, got.Empty())
	})
}

func TestCanceledContext(t *testing.T) {
	db := setupTestDB(t)
	seedMeasurements(t, db)
	repo := NewRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetPrecipitationSince(ctx, "2016-01-01")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.GetTemperatureSummaryFrom(ctx, "2016-01-01")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMissingTableIsAnError(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewRepository(db)

	_, err = repo.GetStations(context.Background())
	assert.Error(t, err)
	_, err = repo.GetTemperatureSummaryBetween(context.Background(), "2016-01-01", "2017-01-01")
	assert.Error(t, err)
}
