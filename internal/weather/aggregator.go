package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/weatherpro/weatherdash/internal/series"
)

// ErrFetchFailed indicates the forecast source was unreachable or returned a
// non-success response. The air-quality source failing is not an error.
var ErrFetchFailed = errors.New("weather fetch failed")

// Aggregator fetches forecast and air-quality data for a resolved location
// and merges them into a normalized Model.
type Aggregator struct {
	forecast *ForecastClient
	air      *AirQualityClient
}

// NewAggregator creates an Aggregator over the two remote sources.
func NewAggregator(forecast *ForecastClient, air *AirQualityClient) *Aggregator {
	return &Aggregator{forecast: forecast, air: air}
}

// Aggregate dispatches the forecast and air-quality requests in parallel and
// merges the results. Forecast failure is fatal; air-quality failure leaves
// the model's air section nil. The model is only constructed once both
// requests settle, so callers never see a partial model.
func (a *Aggregator) Aggregate(ctx context.Context, loc Location) (*Model, error) {
	var (
		wg sync.WaitGroup

		daily       DailySeries
		hourly      HourlySeries
		current     CurrentConditions
		forecastErr error

		airSeries *AirQualitySeries
		airErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		daily, hourly, current, forecastErr = a.forecast.Fetch(ctx, loc)
	}()
	go func() {
		defer wg.Done()
		airSeries, airErr = a.air.Fetch(ctx, loc)
	}()
	wg.Wait()

	if forecastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, forecastErr)
	}
	if airErr != nil {
		// Partial-failure tolerance: the model carries no air section.
		log.Printf("air quality fetch failed for %s: %v", loc.Key(), airErr)
		airSeries = nil
	}

	// The current snapshot does not carry pressure/humidity; recover them by
	// aligning its timestamp against the hourly grid.
	if idx := series.IndexAtTimestamp(hourly.Time, current.Time); idx >= 0 {
		if v, ok := series.ValueAt(hourly.Pressure, idx); ok {
			current.Pressure = &v
		}
		if v, ok := series.ValueAt(hourly.Humidity, idx); ok {
			current.Humidity = &v
		}
	}

	model := &Model{
		Location:  loc,
		Current:   current,
		Daily:     daily,
		Hourly:    hourly,
		Air:       airSeries,
		FetchedAt: time.Now().UTC(),
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return model, nil
}

// DayTemperatures returns the hourly temperature slice for the daily entry
// at dayIndex, falling back to a synthetic min/mid/max trend when the hourly
// series has no coverage for that date.
func DayTemperatures(m *Model, dayIndex int) []float64 {
	if dayIndex < 0 || dayIndex >= m.Daily.Len() {
		return nil
	}
	date := m.Daily.Time[dayIndex]
	if temps := series.SliceForDate(m.Hourly.Time, m.Hourly.Temperature, date); len(temps) > 0 {
		return temps
	}
	return series.SyntheticTrend(m.Daily.TempMin[dayIndex], m.Daily.TempMax[dayIndex])
}

// DayUSAQI returns the first US AQI reading aligned to the daily entry's
// date, or false when air data does not cover that date.
func DayUSAQI(m *Model, dayIndex int) (float64, bool) {
	if m.Air == nil || dayIndex < 0 || dayIndex >= m.Daily.Len() {
		return 0, false
	}
	vals := series.SliceForDate(m.Air.Time, m.Air.USAQI, m.Daily.Time[dayIndex])
	if len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}
