package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/weatherpro/weatherdash/internal/httpx"
)

// Daily fields requested over the forecast horizon.
var dailyFields = []string{
	"weathercode",
	"temperature_2m_max", "temperature_2m_min",
	"precipitation_sum", "precipitation_probability_mean",
	"uv_index_max", "sunrise", "sunset",
}

// Hourly fields needed to recover current pressure/humidity and day slices.
var hourlyFields = []string{
	"pressure_msl", "relative_humidity_2m", "temperature_2m", "windspeed_10m",
}

// ForecastClient fetches daily/hourly forecasts from the Open-Meteo forecast
// API.
type ForecastClient struct {
	baseURL      string
	forecastDays int
	httpCfg      httpx.ClientConfig
	circuit      *gobreaker.CircuitBreaker
}

// NewForecastClient creates a forecast client. forecastDays is the fixed
// horizon requested on every fetch.
func NewForecastClient(client *http.Client, baseURL string, forecastDays int) *ForecastClient {
	return &ForecastClient{
		baseURL:      baseURL,
		forecastDays: forecastDays,
		httpCfg: httpx.ClientConfig{
			Client:  client,
			Backoff: httpx.DefaultBackoff(),
		},
		circuit: httpx.NewBreaker("openmeteo-forecast"),
	}
}

type forecastPayload struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		Windspeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
		Time        string  `json:"time"`
	} `json:"current_weather"`
	Daily struct {
		Time              []string  `json:"time"`
		WeatherCode       []int     `json:"weathercode"`
		TempMax           []float64 `json:"temperature_2m_max"`
		TempMin           []float64 `json:"temperature_2m_min"`
		PrecipitationSum  []float64 `json:"precipitation_sum"`
		PrecipProbability []float64 `json:"precipitation_probability_mean"`
		UVIndexMax        []float64 `json:"uv_index_max"`
		Sunrise           []string  `json:"sunrise"`
		Sunset            []string  `json:"sunset"`
	} `json:"daily"`
	Hourly struct {
		Time        []string  `json:"time"`
		Pressure    []float64 `json:"pressure_msl"`
		Humidity    []float64 `json:"relative_humidity_2m"`
		Temperature []float64 `json:"temperature_2m"`
		Windspeed   []float64 `json:"windspeed_10m"`
	} `json:"hourly"`
}

// Fetch retrieves the daily series, hourly series, and current snapshot for
// a location, time-zone resolved upstream.
func (c *ForecastClient) Fetch(ctx context.Context, loc Location) (DailySeries, HourlySeries, CurrentConditions, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
		values.Set("daily", strings.Join(dailyFields, ","))
		values.Set("hourly", strings.Join(hourlyFields, ","))
		values.Set("current_weather", "true")
		values.Set("timezone", "auto")
		values.Set("forecast_days", fmt.Sprintf("%d", c.forecastDays))

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := httpx.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return DailySeries{}, HourlySeries{}, CurrentConditions{}, err
	}
	defer resp.Body.Close()

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return DailySeries{}, HourlySeries{}, CurrentConditions{}, err
	}

	daily := DailySeries{
		Time:              payload.Daily.Time,
		WeatherCode:       payload.Daily.WeatherCode,
		TempMax:           payload.Daily.TempMax,
		TempMin:           payload.Daily.TempMin,
		PrecipitationSum:  payload.Daily.PrecipitationSum,
		PrecipProbability: payload.Daily.PrecipProbability,
		UVIndexMax:        payload.Daily.UVIndexMax,
		Sunrise:           payload.Daily.Sunrise,
		Sunset:            payload.Daily.Sunset,
	}
	hourly := HourlySeries{
		Time:        payload.Hourly.Time,
		Pressure:    payload.Hourly.Pressure,
		Humidity:    payload.Hourly.Humidity,
		Temperature: payload.Hourly.Temperature,
		Windspeed:   payload.Hourly.Windspeed,
	}
	current := CurrentConditions{
		Time:        payload.CurrentWeather.Time,
		Temperature: payload.CurrentWeather.Temperature,
		Windspeed:   payload.CurrentWeather.Windspeed,
		WeatherCode: payload.CurrentWeather.WeatherCode,
	}

	if err := daily.Validate(); err != nil {
		return DailySeries{}, HourlySeries{}, CurrentConditions{}, err
	}
	if err := hourly.Validate(); err != nil {
		return DailySeries{}, HourlySeries{}, CurrentConditions{}, err
	}

	return daily, hourly, current, nil
}

// FetchCurrent retrieves only the current snapshot, used by the global
// report where the full series are not needed.
func (c *ForecastClient) FetchCurrent(ctx context.Context, loc Location) (CurrentConditions, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
		values.Set("current_weather", "true")
		values.Set("timezone", "auto")

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := httpx.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return CurrentConditions{}, err
	}
	defer resp.Body.Close()

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return CurrentConditions{}, err
	}

	return CurrentConditions{
		Time:        payload.CurrentWeather.Time,
		Temperature: payload.CurrentWeather.Temperature,
		Windspeed:   payload.CurrentWeather.Windspeed,
		WeatherCode: payload.CurrentWeather.WeatherCode,
	}, nil
}
