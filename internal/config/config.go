package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Endpoint defaults for the remote services.
const (
	DefaultGeocodingURL  = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL   = "https://api.open-meteo.com/v1/forecast"
	DefaultAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"
	DefaultReverseURL    = "https://nominatim.openstreetmap.org/reverse"
)

type AppConfig struct {
	Port string

	// Remote endpoints, overridable for testing.
	GeocodingURL  string
	ForecastURL   string
	AirQualityURL string
	ReverseURL    string

	// Geocoding behaviour.
	RegionCountry  string // country filter for the regional search tier
	GeocoderAPIKey string // optional Google key for the last-resort tier

	// Forecast horizon in days.
	ForecastDays int

	// DebounceDelay is the quiet period for interactive search input.
	DebounceDelay time.Duration

	// HTTPTimeout bounds each outbound request; FetchTimeout bounds a whole
	// aggregation.
	HTTPTimeout  time.Duration
	FetchTimeout time.Duration

	// RefreshInterval controls the background refresh job.
	RefreshInterval time.Duration

	// In-memory history retention.
	StoreMaxHistory int           // max number of snapshots per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	// DBPath is the sqlite file backing last-seen persistence.
	DBPath string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:           getenvDefault("PORT", "8080"),
		GeocodingURL:   getenvDefault("GEOCODING_URL", DefaultGeocodingURL),
		ForecastURL:    getenvDefault("FORECAST_URL", DefaultForecastURL),
		AirQualityURL:  getenvDefault("AIR_QUALITY_URL", DefaultAirQualityURL),
		ReverseURL:     getenvDefault("REVERSE_GEOCODING_URL", DefaultReverseURL),
		RegionCountry:  getenvDefault("REGION_COUNTRY", "IN"),
		GeocoderAPIKey: os.Getenv("GEOCODER_API_KEY"),
		DBPath:         getenvDefault("DB_PATH", "weatherdash.db"),
	}

	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 15)
	if cfg.ForecastDays <= 0 || cfg.ForecastDays > 16 {
		return nil, fmt.Errorf("invalid FORECAST_DAYS: %d", cfg.ForecastDays)
	}

	var err error
	if cfg.DebounceDelay, err = getenvDuration("DEBOUNCE_DELAY", "200ms"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96)
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
