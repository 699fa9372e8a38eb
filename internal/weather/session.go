package weather

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weatherpro/weatherdash/internal/units"
)

// Session owns the process-wide "current" location/model pair and the unit
// preference. Aggregation responses commit through a monotonically
// increasing sequence number: only the latest-issued sequence may replace
// the model, so a slow stale response can never overwrite a newer one.
type Session struct {
	ID string

	mu      sync.RWMutex
	seq     uint64
	model   *Model
	prefs   units.System
	updated time.Time
}

// NewSession creates a session with the metric preference.
func NewSession() *Session {
	return &Session{
		ID:    uuid.NewString(),
		prefs: units.Metric(),
	}
}

// Begin issues a new aggregation sequence number. Every aggregation attempt
// must call Begin before dispatching and commit with the returned value.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Commit installs a freshly aggregated model if seq is still the latest
// issued. It reports whether the model was accepted; a stale completion is
// discarded and the prior model stays in place.
func (s *Session) Commit(seq uint64, model *Model) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.model = model
	s.updated = time.Now().UTC()
	return true
}

// Current returns the latest committed model, which may be stale if a more
// recent aggregation failed. False means no aggregation has succeeded yet.
func (s *Session) Current() (*Model, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.model == nil {
		return nil, false
	}
	return s.model, true
}

// Location returns the current model's location.
func (s *Session) Location() (Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.model == nil {
		return Location{}, false
	}
	return s.model.Location, true
}

// Preferences returns the active unit preference.
func (s *Session) Preferences() units.System {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// SetUseCelsius updates the unit preference and returns the new settings.
func (s *Session) SetUseCelsius(useCelsius bool) units.System {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.UseCelsius = useCelsius
	return s.prefs
}

// UpdatedAt reports when the current model was committed.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}
