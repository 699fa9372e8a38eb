package weather

import (
	"fmt"
	"time"
)

// Location is a resolved place. It is immutable once created and acts as the
// aggregation key for fetches.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f:%.4f", l.Latitude, l.Longitude)
}

// DailySeries holds index-aligned per-day sequences. Index i refers to the
// same calendar day across every slice.
type DailySeries struct {
	Time              []string  `json:"time"`
	WeatherCode       []int     `json:"weatherCode"`
	TempMax           []float64 `json:"tempMax"`
	TempMin           []float64 `json:"tempMin"`
	PrecipitationSum  []float64 `json:"precipitationSum"`
	PrecipProbability []float64 `json:"precipitationProbability"`
	UVIndexMax        []float64 `json:"uvIndexMax"`
	Sunrise           []string  `json:"sunrise"`
	Sunset            []string  `json:"sunset"`
}

// Len returns the number of forecast days.
func (d DailySeries) Len() int {
	return len(d.Time)
}

// Validate checks the index-alignment invariant.
func (d DailySeries) Validate() error {
	n := len(d.Time)
	for name, l := range map[string]int{
		"weatherCode":              len(d.WeatherCode),
		"tempMax":                  len(d.TempMax),
		"tempMin":                  len(d.TempMin),
		"precipitationSum":         len(d.PrecipitationSum),
		"precipitationProbability": len(d.PrecipProbability),
		"uvIndexMax":               len(d.UVIndexMax),
		"sunrise":                  len(d.Sunrise),
		"sunset":                   len(d.Sunset),
	} {
		if l != n {
			return fmt.Errorf("daily series misaligned: %s has %d entries, time has %d", name, l, n)
		}
	}
	return nil
}

// HourlySeries holds index-aligned hourly sequences.
type HourlySeries struct {
	Time        []string  `json:"time"`
	Pressure    []float64 `json:"pressure"`
	Humidity    []float64 `json:"humidity"`
	Temperature []float64 `json:"temperature"`
	Windspeed   []float64 `json:"windspeed"`
}

// Validate checks the index-alignment invariant.
func (h HourlySeries) Validate() error {
	n := len(h.Time)
	for name, l := range map[string]int{
		"pressure":    len(h.Pressure),
		"humidity":    len(h.Humidity),
		"temperature": len(h.Temperature),
		"windspeed":   len(h.Windspeed),
	} {
		if l != n {
			return fmt.Errorf("hourly series misaligned: %s has %d entries, time has %d", name, l, n)
		}
	}
	return nil
}

// AirQualitySeries holds index-aligned hourly pollutant readings. The whole
// series is optional; a nil pointer on the model means the air-quality
// source was unavailable, which is tolerated rather than an error.
type AirQualitySeries struct {
	Time  []string  `json:"time"`
	PM25  []float64 `json:"pm2_5"`
	PM10  []float64 `json:"pm10"`
	USAQI []float64 `json:"usAqi"`
	EUAQI []float64 `json:"euAqi"`
}

// Validate checks the index-alignment invariant.
func (a AirQualitySeries) Validate() error {
	n := len(a.Time)
	for name, l := range map[string]int{
		"pm2_5": len(a.PM25),
		"pm10":  len(a.PM10),
		"usAqi": len(a.USAQI),
		"euAqi": len(a.EUAQI),
	} {
		if l != n {
			return fmt.Errorf("air quality series misaligned: %s has %d entries, time has %d", name, l, n)
		}
	}
	return nil
}

// CurrentConditions is the point-in-time snapshot reported by the forecast
// source. Pressure and humidity are not part of the upstream snapshot; they
// are recovered by aligning the snapshot time against the hourly series and
// stay nil when no hour matches.
type CurrentConditions struct {
	Time        string   `json:"time"`
	Temperature float64  `json:"temperature"`
	Windspeed   float64  `json:"windspeed"`
	WeatherCode int      `json:"weatherCode"`
	Pressure    *float64 `json:"pressure,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
}

// Model is the normalized aggregate built from one fetch. It is replaced
// whole on each successful aggregation and never patched in place.
type Model struct {
	Location  Location          `json:"location"`
	Current   CurrentConditions `json:"current"`
	Daily     DailySeries       `json:"daily"`
	Hourly    HourlySeries      `json:"hourly"`
	Air       *AirQualitySeries `json:"air,omitempty"`
	FetchedAt time.Time         `json:"fetchedAt"`
}

// Validate checks alignment across all series.
func (m *Model) Validate() error {
	if err := m.Daily.Validate(); err != nil {
		return err
	}
	if err := m.Hourly.Validate(); err != nil {
		return err
	}
	if m.Air != nil {
		if err := m.Air.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CurrentUSAQI returns the most recent US AQI reading, or false when air
// data is unavailable.
func (m *Model) CurrentUSAQI() (float64, bool) {
	if m.Air == nil || len(m.Air.USAQI) == 0 {
		return 0, false
	}
	return m.Air.USAQI[0], true
}

// CurrentEUAQI returns the most recent EU AQI reading, or false when air
// data is unavailable.
func (m *Model) CurrentEUAQI() (float64, bool) {
	if m.Air == nil || len(m.Air.EUAQI) == 0 {
		return 0, false
	}
	return m.Air.EUAQI[0], true
}
