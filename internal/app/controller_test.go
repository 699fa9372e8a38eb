package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/weatherpro/weatherdash/internal/geo"
	"github.com/weatherpro/weatherdash/internal/persist"
	"github.com/weatherpro/weatherdash/internal/store"
	"github.com/weatherpro/weatherdash/internal/weather"
)

const geoBody = `{"results":[
	{"name":"Patna","admin1":"Bihar","country":"India","latitude":25.594,"longitude":85.1376}
]}`

const forecastBody = `{
	"current_weather": {"temperature": 29.4, "windspeed": 11.2, "weathercode": 2, "time": "2026-08-30T14:00"},
	"daily": {
		"time": ["2026-08-30", "2026-08-31"],
		"weathercode": [2, 61],
		"temperature_2m_max": [33.0, 28.5],
		"temperature_2m_min": [24.1, 23.0],
		"precipitation_sum": [0.0, 7.4],
		"precipitation_probability_mean": [10, 72],
		"uv_index_max": [8.5, 4.0],
		"sunrise": ["2026-08-30T05:58", "2026-08-31T05:58"],
		"sunset": ["2026-08-30T18:41", "2026-08-31T18:40"]
	},
	"hourly": {
		"time": ["2026-08-30T13:00", "2026-08-30T14:00"],
		"pressure_msl": [1004.1, 1003.6],
		"relative_humidity_2m": [61, 58],
		"temperature_2m": [28.9, 29.4],
		"windspeed_10m": [9.8, 11.2]
	}
}`

const airBody = `{
	"hourly": {
		"time": ["2026-08-30T13:00", "2026-08-30T14:00"],
		"pm2_5": [35.1, 36.8],
		"pm10": [80.2, 82.5],
		"us_aqi": [104, 108],
		"european_aqi": [44, 47]
	}
}`

type testEnv struct {
	controller  *Controller
	forecastSrv *httptest.Server
	failNext    *bool
}

func newTestController(t *testing.T) *testEnv {
	t.Helper()

	failNext := false

	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geoBody))
	}))
	t.Cleanup(geoSrv.Close)

	forecastSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failNext {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(forecastBody))
	}))
	t.Cleanup(forecastSrv.Close)

	airSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(airBody))
	}))
	t.Cleanup(airSrv.Close)

	client := &http.Client{}
	resolver := geo.NewResolver(client, geo.Options{
		SearchURL:     geoSrv.URL,
		ReverseURL:    geoSrv.URL,
		RegionCountry: "IN",
	})
	aggregator := weather.NewAggregator(
		weather.NewForecastClient(client, forecastSrv.URL, 15),
		weather.NewAirQualityClient(client, airSrv.URL),
	)
	gateway := persist.Open(filepath.Join(t.TempDir(), "weatherdash.db"))
	t.Cleanup(gateway.Close)

	c := New(resolver, aggregator, store.NewMemoryStore(10, 0), gateway, 20*time.Millisecond, 5*time.Second)
	t.Cleanup(c.Stop)

	return &testEnv{controller: c, forecastSrv: forecastSrv, failNext: &failNext}
}

func TestSearchAndLoad(t *testing.T) {
	env := newTestController(t)
	c := env.controller

	model, err := c.SearchAndLoad(context.Background(), "Patna")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.Location.DisplayName != "Patna, Bihar, India" {
		t.Errorf("resolved location = %q", model.Location.DisplayName)
	}

	current, ok := c.Current()
	if !ok || current != model {
		t.Error("session does not hold the loaded model")
	}
}

func TestFailedLoadKeepsPriorModel(t *testing.T) {
	env := newTestController(t)
	c := env.controller

	first, err := c.SearchAndLoad(context.Background(), "Patna")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	*env.failNext = true
	_, err = c.Load(context.Background(), first.Location)
	if !errors.Is(err, weather.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}

	current, ok := c.Current()
	if !ok || current != first {
		t.Error("prior model should survive a failed load")
	}
}

func TestSummary(t *testing.T) {
	env := newTestController(t)
	c := env.controller

	if _, ok := c.Summary(); ok {
		t.Fatal("summary should be unavailable before any load")
	}

	if _, err := c.SearchAndLoad(context.Background(), "Patna"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, ok := c.Summary()
	if !ok || text == "" {
		t.Fatal("summary should be available after a load")
	}
}

func TestDayDetail(t *testing.T) {
	env := newTestController(t)
	c := env.controller

	if _, ok := c.Day(0); ok {
		t.Fatal("day detail should be unavailable before any load")
	}

	if _, err := c.SearchAndLoad(context.Background(), "Patna"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day, ok := c.Day(0)
	if !ok {
		t.Fatal("expected day 0 detail")
	}
	if day.Description != "Partly cloudy" || day.TempMax != 33.0 {
		t.Errorf("day detail = %+v", day)
	}
	if len(day.HourlyTemps) != 2 {
		t.Errorf("hourly temps = %v", day.HourlyTemps)
	}
	if day.USAQI == nil || *day.USAQI != 104 {
		t.Errorf("day AQI = %v", day.USAQI)
	}

	if _, ok := c.Day(99); ok {
		t.Error("out-of-range day index should report unavailable")
	}
}

func TestOnSearchInputDebounces(t *testing.T) {
	env := newTestController(t)
	c := env.controller

	c.OnSearchInput("Pat")
	c.OnSearchInput("Patn")
	c.OnSearchInput("Patna")

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := c.Current(); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("debounced search never completed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	model, _ := c.Current()
	if model.Location.DisplayName != "Patna, Bihar, India" {
		t.Errorf("debounced load resolved %q", model.Location.DisplayName)
	}
}

func TestPreferencesPersistAcrossControllers(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "weatherdash.db")

	gateway := persist.Open(dbPath)
	c := New(nil, nil, store.NewMemoryStore(10, 0), gateway, time.Millisecond, time.Second)
	c.SetUseCelsius(false)
	gateway.Close()

	gateway2 := persist.Open(dbPath)
	defer gateway2.Close()
	_, prefs, ok := gateway2.Load()
	if !ok || prefs.UseCelsius {
		t.Errorf("persisted prefs = %+v, ok=%v", prefs, ok)
	}
}

func TestHistory(t *testing.T) {
	env := newTestController(t)
	c := env.controller

	if _, err := c.History(time.Now().Add(-time.Hour), time.Now()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before any load, got %v", err)
	}

	if _, err := c.SearchAndLoad(context.Background(), "Patna"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	models, err := c.History(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 1 {
		t.Errorf("history length = %d, want 1", len(models))
	}
}
