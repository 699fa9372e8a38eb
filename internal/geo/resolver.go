// Package geo resolves free-text queries and coordinates to locations using
// the Open-Meteo geocoding API, with Nominatim for reverse lookups and an
// optional Google-backed tier when an API key is configured.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/weatherpro/weatherdash/internal/httpx"
	"github.com/weatherpro/weatherdash/internal/weather"
)

// ErrNotFound indicates no candidates were found after every search tier.
var ErrNotFound = errors.New("no matching locations")

// Candidate is one geocoding search result. Candidates are ephemeral; the
// selected one becomes a weather.Location.
type Candidate struct {
	Name      string  `json:"name"`
	Admin1    string  `json:"admin1,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DisplayName joins name, admin region, and country.
func (c Candidate) DisplayName() string {
	parts := []string{c.Name}
	if c.Admin1 != "" {
		parts = append(parts, c.Admin1)
	}
	if c.Country != "" {
		parts = append(parts, c.Country)
	}
	return strings.Join(parts, ", ")
}

// ToLocation converts the candidate into a resolved location.
func (c Candidate) ToLocation() weather.Location {
	return weather.Location{
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		DisplayName: c.DisplayName(),
	}
}

// Options configures a Resolver.
type Options struct {
	SearchURL  string // Open-Meteo geocoding search endpoint
	ReverseURL string // Nominatim reverse endpoint

	// RegionCountry biases the first search tier toward one market.
	RegionCountry string
	RegionalCap   int
	GlobalCap     int

	// GoogleAPIKey enables the kelvins/geocoder last-resort tier and the
	// reverse-lookup fallback. Empty disables both.
	GoogleAPIKey string
}

// Resolver performs tiered forward geocoding and reverse lookups. A
// session-scoped cache keyed by the raw query string avoids repeated network
// calls for keystroked queries; it is never invalidated.
type Resolver struct {
	opts    Options
	httpCfg httpx.ClientConfig

	searchCircuit  *gobreaker.CircuitBreaker
	reverseCircuit *gobreaker.CircuitBreaker

	mu    sync.Mutex
	cache map[string][]Candidate
}

// NewResolver creates a Resolver.
func NewResolver(client *http.Client, opts Options) *Resolver {
	if opts.RegionalCap <= 0 {
		opts.RegionalCap = 20
	}
	if opts.GlobalCap <= 0 {
		opts.GlobalCap = 10
	}
	if opts.GoogleAPIKey != "" {
		geocoder.ApiKey = opts.GoogleAPIKey
	}
	return &Resolver{
		opts: opts,
		httpCfg: httpx.ClientConfig{
			Client:  client,
			Backoff: httpx.DefaultBackoff(),
		},
		searchCircuit:  httpx.NewBreaker("geocoding-search"),
		reverseCircuit: httpx.NewBreaker("geocoding-reverse"),
		cache:          make(map[string][]Candidate),
	}
}

// Resolve returns an ordered candidate list for a free-text query. The
// regional tier runs first; the global tier only runs when the regional tier
// is empty. A transport failure at a tier counts as an empty tier rather
// than failing the caller.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}

	r.mu.Lock()
	cached, ok := r.cache[query]
	r.mu.Unlock()
	if ok {
		if len(cached) == 0 {
			return nil, ErrNotFound
		}
		return cached, nil
	}

	list := r.searchTier(ctx, query, r.opts.RegionCountry, r.opts.RegionalCap)
	if len(list) == 0 {
		list = r.searchTier(ctx, query, "", r.opts.GlobalCap)
	}
	if len(list) == 0 && r.opts.GoogleAPIKey != "" {
		list = r.googleTier(query)
	}

	r.mu.Lock()
	r.cache[query] = list
	r.mu.Unlock()

	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list, nil
}

// searchTier issues one search call. Errors degrade to an empty result.
func (r *Resolver) searchTier(ctx context.Context, query, country string, limit int) []Candidate {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", query)
		values.Set("count", fmt.Sprintf("%d", limit))
		values.Set("language", "en")
		values.Set("format", "json")
		if country != "" {
			values.Set("country", country)
		}
		u := fmt.Sprintf("%s?%s", r.opts.SearchURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := httpx.Do(ctx, r.httpCfg, r.searchCircuit, buildRequest)
	if err != nil {
		log.Printf("geocoding search failed for %q (country=%q): %v", query, country, err)
		return nil
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Admin1    string  `json:"admin1"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("geocoding decode failed for %q: %v", query, err)
		return nil
	}

	// Source ranking order is preserved; the first entry is the best match.
	out := make([]Candidate, 0, len(payload.Results))
	for _, item := range payload.Results {
		out = append(out, Candidate{
			Name:      item.Name,
			Admin1:    item.Admin1,
			Country:   item.Country,
			Latitude:  item.Latitude,
			Longitude: item.Longitude,
		})
	}
	return out
}

// googleTier resolves through the Google geocoding service as a last
// resort. Errors degrade to an empty result.
func (r *Resolver) googleTier(query string) []Candidate {
	loc, err := geocoder.Geocoding(geocoder.Address{City: query})
	if err != nil {
		log.Printf("google geocoding failed for %q: %v", query, err)
		return nil
	}
	return []Candidate{{
		Name:      query,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}}
}

// ReverseResolve names a coordinate pair. It tries Nominatim, then the
// Google reverse service when configured, and finally falls back to a
// coordinate-string name; it never fails.
func (r *Resolver) ReverseResolve(ctx context.Context, lat, lon float64) weather.Location {
	if name := r.nominatimReverse(ctx, lat, lon); name != "" {
		return weather.Location{Latitude: lat, Longitude: lon, DisplayName: name}
	}

	if r.opts.GoogleAPIKey != "" {
		addresses, err := geocoder.GeocodingReverse(geocoder.Location{Latitude: lat, Longitude: lon})
		if err == nil && len(addresses) > 0 {
			return weather.Location{Latitude: lat, Longitude: lon, DisplayName: addresses[0].FormatAddress()}
		}
		if err != nil {
			log.Printf("google reverse geocoding failed for %.4f,%.4f: %v", lat, lon, err)
		}
	}

	return weather.Location{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: fmt.Sprintf("Lat %.3f, Lon %.3f", lat, lon),
	}
}

func (r *Resolver) nominatimReverse(ctx context.Context, lat, lon float64) string {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%.6f", lat))
		values.Set("lon", fmt.Sprintf("%.6f", lon))
		values.Set("format", "json")
		u := fmt.Sprintf("%s?%s", r.opts.ReverseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "weatherdash/1.0")
		return req, nil
	}

	resp, err := httpx.Do(ctx, r.httpCfg, r.reverseCircuit, buildRequest)
	if err != nil {
		log.Printf("reverse geocoding failed for %.4f,%.4f: %v", lat, lon, err)
		return ""
	}
	defer resp.Body.Close()

	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.DisplayName
}
