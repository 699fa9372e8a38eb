// Package report builds the multi-city global weather snapshot shown
// alongside the main forecast.
package report

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/weatherpro/weatherdash/internal/weather"
	"github.com/weatherpro/weatherdash/internal/wmo"
)

// CityConditions is one city's entry in the global report. Available is
// false when that city's fetch failed; the rest of the report is unaffected.
type CityConditions struct {
	Name        string  `json:"name"`
	Available   bool    `json:"available"`
	Temperature float64 `json:"temperature,omitempty"`
	Windspeed   float64 `json:"windspeed,omitempty"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
}

// Report is a point-in-time snapshot across the configured cities.
type Report struct {
	Cities    []CityConditions `json:"cities"`
	FetchedAt time.Time        `json:"fetchedAt"`
}

// Builder fetches current conditions for a fixed city list concurrently and
// caches the latest report.
type Builder struct {
	forecast *weather.ForecastClient
	cities   []weather.Location

	mu     sync.RWMutex
	latest *Report
}

// NewBuilder creates a Builder over the given cities.
func NewBuilder(forecast *weather.ForecastClient, cities []weather.Location) *Builder {
	return &Builder{forecast: forecast, cities: cities}
}

// Refresh fetches every city concurrently and replaces the cached report.
// Per-city failures degrade that entry only.
func (b *Builder) Refresh(ctx context.Context) *Report {
	entries := make([]CityConditions, len(b.cities))

	var wg sync.WaitGroup
	for i, city := range b.cities {
		i, city := i, city
		wg.Add(1)
		go func() {
			defer wg.Done()

			current, err := b.forecast.FetchCurrent(ctx, city)
			if err != nil {
				log.Printf("global report fetch failed for %s: %v", city.DisplayName, err)
				entries[i] = CityConditions{Name: city.DisplayName}
				return
			}
			info := wmo.Lookup(current.WeatherCode)
			entries[i] = CityConditions{
				Name:        city.DisplayName,
				Available:   true,
				Temperature: current.Temperature,
				Windspeed:   current.Windspeed,
				Description: info.Description,
				Icon:        info.Icon,
			}
		}()
	}
	wg.Wait()

	rep := &Report{Cities: entries, FetchedAt: time.Now().UTC()}

	b.mu.Lock()
	b.latest = rep
	b.mu.Unlock()

	return rep
}

// Latest returns the cached report, or false when none has been built yet.
func (b *Builder) Latest() (*Report, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.latest == nil {
		return nil, false
	}
	return b.latest, true
}

// DefaultCities is the fixed city list from the dashboard's global panel.
func DefaultCities() []weather.Location {
	return []weather.Location{
		{DisplayName: "Delhi", Latitude: 28.61, Longitude: 77.21},
		{DisplayName: "New York", Latitude: 40.71, Longitude: -74.01},
		{DisplayName: "London", Latitude: 51.51, Longitude: -0.13},
		{DisplayName: "Tokyo", Latitude: 35.68, Longitude: 139.69},
		{DisplayName: "Sydney", Latitude: -33.87, Longitude: 151.21},
	}
}
