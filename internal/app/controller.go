// Package app wires the resolution and aggregation pipeline behind a single
// controller that owns the session, history store, and persistence.
package app

import (
	"context"
	"log"
	"time"

	"github.com/weatherpro/weatherdash/internal/advisory"
	"github.com/weatherpro/weatherdash/internal/geo"
	"github.com/weatherpro/weatherdash/internal/persist"
	"github.com/weatherpro/weatherdash/internal/store"
	"github.com/weatherpro/weatherdash/internal/units"
	"github.com/weatherpro/weatherdash/internal/weather"
	"github.com/weatherpro/weatherdash/internal/wmo"
)

// DefaultLocation is loaded on first start when nothing was persisted.
var DefaultLocation = weather.Location{
	Latitude:    28.61,
	Longitude:   77.21,
	DisplayName: "Delhi, India",
}

// Controller orchestrates search, aggregation, and state. One controller
// exists per process.
type Controller struct {
	resolver   *geo.Resolver
	aggregator *weather.Aggregator
	session    *weather.Session
	history    *store.MemoryStore
	gateway    *persist.Gateway
	debouncer  *geo.Debouncer

	fetchTimeout time.Duration
}

// New creates a Controller. debounceDelay is the quiet period applied to
// interactive search input.
func New(
	resolver *geo.Resolver,
	aggregator *weather.Aggregator,
	history *store.MemoryStore,
	gateway *persist.Gateway,
	debounceDelay time.Duration,
	fetchTimeout time.Duration,
) *Controller {
	return &Controller{
		resolver:     resolver,
		aggregator:   aggregator,
		session:      weather.NewSession(),
		history:      history,
		gateway:      gateway,
		debouncer:    geo.NewDebouncer(debounceDelay),
		fetchTimeout: fetchTimeout,
	}
}

// Bootstrap restores the persisted location and preference, falling back to
// the default location, and performs the initial aggregation. A failed
// initial fetch is logged; the session just starts empty.
func (c *Controller) Bootstrap(ctx context.Context) {
	loc := DefaultLocation
	if saved, prefs, ok := c.gateway.Load(); ok {
		loc = saved
		c.session.SetUseCelsius(prefs.UseCelsius)
	}
	if _, err := c.Load(ctx, loc); err != nil {
		log.Printf("initial weather load failed for %s: %v", loc.DisplayName, err)
	}
}

// Search returns the full ordered candidate list for user disambiguation.
func (c *Controller) Search(ctx context.Context, query string) ([]geo.Candidate, error) {
	return c.resolver.Resolve(ctx, query)
}

// SearchAndLoad resolves the best match for a query and aggregates it.
func (c *Controller) SearchAndLoad(ctx context.Context, query string) (*weather.Model, error) {
	candidates, err := c.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.Load(ctx, candidates[0].ToLocation())
}

// OnSearchInput feeds one keystroke's worth of input. Resolution only runs
// after the quiet period with no further input; earlier pending input is
// dropped.
func (c *Controller) OnSearchInput(query string) {
	c.debouncer.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
		defer cancel()
		if _, err := c.SearchAndLoad(ctx, query); err != nil {
			log.Printf("debounced search failed for %q: %v", query, err)
		}
	})
}

// Reverse resolves coordinates to a named location, never failing.
func (c *Controller) Reverse(ctx context.Context, lat, lon float64) weather.Location {
	return c.resolver.ReverseResolve(ctx, lat, lon)
}

// Load aggregates a location and, when the result is still the latest
// issued, commits it to the session, history, and persistence. A failed
// aggregation leaves all state untouched.
func (c *Controller) Load(ctx context.Context, loc weather.Location) (*weather.Model, error) {
	seq := c.session.Begin()

	model, err := c.aggregator.Aggregate(ctx, loc)
	if err != nil {
		return nil, err
	}

	if !c.session.Commit(seq, model) {
		// A newer aggregation finished first; report this result without
		// touching shared state.
		log.Printf("discarding stale aggregation for %s", loc.DisplayName)
		return model, nil
	}

	c.history.Save(model)
	c.gateway.Save(loc, c.session.Preferences())
	return model, nil
}

// Refresh re-aggregates the current location, keeping the prior model on
// failure.
func (c *Controller) Refresh(ctx context.Context) {
	loc, ok := c.session.Location()
	if !ok {
		return
	}
	if _, err := c.Load(ctx, loc); err != nil {
		log.Printf("scheduled refresh failed for %s: %v", loc.DisplayName, err)
	}
}

// Current returns the session's current model.
func (c *Controller) Current() (*weather.Model, bool) {
	return c.session.Current()
}

// Summary renders the advisory text for the current model.
func (c *Controller) Summary() (string, bool) {
	model, ok := c.session.Current()
	if !ok {
		return "", false
	}
	return advisory.Summarize(model, c.session.Preferences()), true
}

// Preferences returns the active unit preference.
func (c *Controller) Preferences() units.System {
	return c.session.Preferences()
}

// SetUseCelsius toggles the unit preference and persists it.
func (c *Controller) SetUseCelsius(useCelsius bool) units.System {
	prefs := c.session.SetUseCelsius(useCelsius)
	c.gateway.SavePreferences(prefs)
	return prefs
}

// History returns retained snapshots for the current location.
func (c *Controller) History(from, to time.Time) ([]*weather.Model, error) {
	loc, ok := c.session.Location()
	if !ok {
		return nil, store.ErrNotFound
	}
	return c.history.GetRange(loc, from, to)
}

// DayDetail is the day-scoped view combining daily fields with aligned
// hourly data.
type DayDetail struct {
	Date              string        `json:"date"`
	Description       string        `json:"description"`
	Icon              string        `json:"icon"`
	TempMax           float64       `json:"tempMax"`
	TempMin           float64       `json:"tempMin"`
	PrecipitationSum  float64       `json:"precipitationSum"`
	PrecipProbability float64       `json:"precipitationProbability"`
	UVIndexMax        float64       `json:"uvIndexMax"`
	Sunrise           string        `json:"sunrise"`
	Sunset            string        `json:"sunset"`
	HourlyTemps       []float64     `json:"hourlyTemps"`
	USAQI             *float64      `json:"usAqi,omitempty"`
	Condition         wmo.Condition `json:"condition"`
}

// Day builds the detail view for one daily index of the current model.
func (c *Controller) Day(index int) (*DayDetail, bool) {
	model, ok := c.session.Current()
	if !ok || index < 0 || index >= model.Daily.Len() {
		return nil, false
	}

	info := wmo.Lookup(model.Daily.WeatherCode[index])
	detail := &DayDetail{
		Date:              model.Daily.Time[index],
		Description:       info.Description,
		Icon:              info.Icon,
		TempMax:           model.Daily.TempMax[index],
		TempMin:           model.Daily.TempMin[index],
		PrecipitationSum:  model.Daily.PrecipitationSum[index],
		PrecipProbability: model.Daily.PrecipProbability[index],
		UVIndexMax:        model.Daily.UVIndexMax[index],
		Sunrise:           model.Daily.Sunrise[index],
		Sunset:            model.Daily.Sunset[index],
		HourlyTemps:       weather.DayTemperatures(model, index),
		Condition:         wmo.Classify(model.Daily.WeatherCode[index]),
	}
	if aqi, ok := weather.DayUSAQI(model, index); ok {
		detail.USAQI = &aqi
	}
	return detail, true
}

// Stop cancels any pending debounced work.
func (c *Controller) Stop() {
	c.debouncer.Stop()
}
