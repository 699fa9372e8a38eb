package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/weatherpro/weatherdash/internal/httpx"
)

const airQualityFields = "pm2_5,pm10,us_aqi,european_aqi"

// AirQualityClient fetches hourly pollutant and AQI series from the
// Open-Meteo air-quality API.
type AirQualityClient struct {
	baseURL string
	httpCfg httpx.ClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewAirQualityClient creates an air-quality client.
func NewAirQualityClient(client *http.Client, baseURL string) *AirQualityClient {
	return &AirQualityClient{
		baseURL: baseURL,
		httpCfg: httpx.ClientConfig{
			Client:  client,
			Backoff: httpx.DefaultBackoff(),
		},
		circuit: httpx.NewBreaker("openmeteo-airquality"),
	}
}

// Fetch retrieves the hourly air-quality series for a location. A nil
// series with a nil error means the source answered without usable data.
func (c *AirQualityClient) Fetch(ctx context.Context, loc Location) (*AirQualitySeries, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
		values.Set("hourly", airQualityFields)
		values.Set("timezone", "auto")

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := httpx.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Time  []string  `json:"time"`
			PM25  []float64 `json:"pm2_5"`
			PM10  []float64 `json:"pm10"`
			USAQI []float64 `json:"us_aqi"`
			EUAQI []float64 `json:"european_aqi"`
		} `json:"hourly"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	if len(payload.Hourly.Time) == 0 {
		return nil, nil
	}

	air := &AirQualitySeries{
		Time:  payload.Hourly.Time,
		PM25:  payload.Hourly.PM25,
		PM10:  payload.Hourly.PM10,
		USAQI: payload.Hourly.USAQI,
		EUAQI: payload.Hourly.EUAQI,
	}
	if err := air.Validate(); err != nil {
		return nil, err
	}
	return air, nil
}
