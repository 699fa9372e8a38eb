package persist

import (
	"path/filepath"
	"testing"

	"github.com/weatherpro/weatherdash/internal/units"
	"github.com/weatherpro/weatherdash/internal/weather"
)

func TestSaveAndLoad(t *testing.T) {
	g := Open(filepath.Join(t.TempDir(), "weatherdash.db"))
	defer g.Close()

	if _, _, ok := g.Load(); ok {
		t.Fatal("empty gateway should report nothing saved")
	}

	loc := weather.Location{Latitude: 25.594, Longitude: 85.1376, DisplayName: "Patna, Bihar, India"}
	g.Save(loc, units.System{UseCelsius: false})

	gotLoc, gotPrefs, ok := g.Load()
	if !ok {
		t.Fatal("expected a saved record")
	}
	if gotLoc != loc {
		t.Errorf("loaded location = %+v, want %+v", gotLoc, loc)
	}
	if gotPrefs.UseCelsius {
		t.Error("loaded preference should be Fahrenheit")
	}
}

func TestSaveOverwrites(t *testing.T) {
	g := Open(filepath.Join(t.TempDir(), "weatherdash.db"))
	defer g.Close()

	g.Save(weather.Location{Latitude: 1, Longitude: 2, DisplayName: "first"}, units.Metric())
	g.Save(weather.Location{Latitude: 3, Longitude: 4, DisplayName: "second"}, units.Metric())

	loc, _, ok := g.Load()
	if !ok || loc.DisplayName != "second" {
		t.Errorf("loaded location = %+v, want the second save", loc)
	}
}

func TestSavePreferencesOnly(t *testing.T) {
	g := Open(filepath.Join(t.TempDir(), "weatherdash.db"))
	defer g.Close()

	loc := weather.Location{Latitude: 25.594, Longitude: 85.1376, DisplayName: "Patna"}
	g.Save(loc, units.Metric())
	g.SavePreferences(units.System{UseCelsius: false})

	gotLoc, gotPrefs, ok := g.Load()
	if !ok || gotLoc != loc {
		t.Fatalf("location lost on preference update: %+v", gotLoc)
	}
	if gotPrefs.UseCelsius {
		t.Error("preference update did not persist")
	}
}

func TestUnavailableStorageIsSilent(t *testing.T) {
	// A directory path cannot be opened as a database file; the gateway must
	// degrade to a no-op rather than failing.
	g := Open(t.TempDir())
	defer g.Close()

	g.Save(weather.Location{DisplayName: "x"}, units.Metric())
	if _, _, ok := g.Load(); ok {
		t.Error("inert gateway should never report saved data")
	}
}
