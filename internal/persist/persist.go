// Package persist stores the last-seen location and unit preference across
// restarts. Persistence is a best-effort convenience: every failure is
// logged and swallowed, never surfaced to callers.
package persist

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"github.com/weatherpro/weatherdash/internal/units"
	"github.com/weatherpro/weatherdash/internal/weather"
)

const schema = `
CREATE TABLE IF NOT EXISTS last_seen (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	latitude     REAL NOT NULL,
	longitude    REAL NOT NULL,
	display_name TEXT NOT NULL,
	use_celsius  INTEGER NOT NULL
);`

// Gateway persists the single last-seen record. A Gateway with a nil db
// (storage unavailable at startup) degrades to a no-op.
type Gateway struct {
	db *sql.DB
}

// Open creates the gateway backed by a sqlite file. Open never fails: when
// the database cannot be opened or migrated, the returned gateway is inert
// and the failure is logged once.
func Open(path string) *Gateway {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		log.Printf("persistence unavailable, continuing without it: %v", err)
		return &Gateway{}
	}
	if _, err := db.Exec(schema); err != nil {
		log.Printf("persistence schema setup failed, continuing without it: %v", err)
		db.Close()
		return &Gateway{}
	}
	return &Gateway{db: db}
}

// Close releases the underlying database.
func (g *Gateway) Close() {
	if g.db != nil {
		g.db.Close()
	}
}

// Save writes the last-seen location and unit preference.
func (g *Gateway) Save(loc weather.Location, prefs units.System) {
	if g.db == nil {
		return
	}
	useCelsius := 0
	if prefs.UseCelsius {
		useCelsius = 1
	}
	_, err := g.db.Exec(`
		INSERT INTO last_seen (id, latitude, longitude, display_name, use_celsius)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			display_name = excluded.display_name,
			use_celsius = excluded.use_celsius`,
		loc.Latitude, loc.Longitude, loc.DisplayName, useCelsius)
	if err != nil {
		log.Printf("failed to persist last-seen location: %v", err)
	}
}

// SavePreferences updates only the unit preference, keeping the stored
// location.
func (g *Gateway) SavePreferences(prefs units.System) {
	if g.db == nil {
		return
	}
	useCelsius := 0
	if prefs.UseCelsius {
		useCelsius = 1
	}
	res, err := g.db.Exec(`UPDATE last_seen SET use_celsius = ? WHERE id = 1`, useCelsius)
	if err != nil {
		log.Printf("failed to persist unit preference: %v", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// No location saved yet; store the preference with a zero location.
		g.Save(weather.Location{}, units.System{UseCelsius: useCelsius == 1})
	}
}

// Load reads the persisted record. ok is false when nothing was saved or
// storage is unavailable.
func (g *Gateway) Load() (loc weather.Location, prefs units.System, ok bool) {
	prefs = units.Metric()
	if g.db == nil {
		return weather.Location{}, prefs, false
	}

	var useCelsius int
	err := g.db.QueryRow(`
		SELECT latitude, longitude, display_name, use_celsius
		FROM last_seen WHERE id = 1`).
		Scan(&loc.Latitude, &loc.Longitude, &loc.DisplayName, &useCelsius)
	if err == sql.ErrNoRows {
		return weather.Location{}, prefs, false
	}
	if err != nil {
		log.Printf("failed to load last-seen location: %v", err)
		return weather.Location{}, prefs, false
	}

	prefs.UseCelsius = useCelsius == 1
	return loc, prefs, true
}
