// Package climatetest builds in-memory climate databases for tests.
package climatetest

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// Schema mirrors hawaii.sqlite.
const Schema = `
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

// Measurement is one fixture row. A nil Prcp is stored as NULL.
type Measurement struct {
	Station string
	Date    string
	Prcp    *float64
	Tobs    float64
}

// Station is one fixture row of the station table.
type Station struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
	Elevation float64
}

// P returns a pointer to v for fixture literals.
func P(v float64) *float64 { return &v }

// OpenDB returns an in-memory database with the climate schema, closed when
// the test ends.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Each in-memory connection is its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("exec schema: %v", err)
	}
	return db
}

func InsertStations(t testing.TB, db *sql.DB, stations ...Station) {
	t.Helper()
	for _, s := range stations {
		_, err := db.Exec(
			`INSERT INTO station (station, name, latitude, longitude, elevation) VALUES (?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Latitude, s.Longitude, s.Elevation,
		)
		if err != nil {
			t.Fatalf("insert station %s: %v", s.ID, err)
		}
	}
}

func InsertMeasurements(t testing.TB, db *sql.DB, rows ...Measurement) {
	t.Helper()
	for _, m := range rows {
		var prcp any
		if m.Prcp != nil {
			prcp = *m.Prcp
		}
		_, err := db.Exec(
			`INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`,
			m.Station, m.Date, prcp, m.Tobs,
		)
		if err != nil {
			t.Fatalf("insert measurement %s/%s: %v", m.Station, m.Date, err)
		}
	}
}
