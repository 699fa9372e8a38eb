package store

import (
	"errors"
	"sync"
	"time"

	"github.com/weatherpro/weatherdash/internal/weather"
)

// ErrNotFound is returned when no data is available for a given location.
var ErrNotFound = errors.New("no weather data for location")

// modelHistory holds a time-ordered list of model snapshots for a location.
type modelHistory struct {
	models []*weather.Model
}

// MemoryStore is a concurrency-safe in-memory history of aggregated models.
// It backs the stale-but-valid policy and the history endpoint.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: history
	data map[string]*modelHistory

	maxHistory int           // max number of snapshots per location
	maxAge     time.Duration // optional max age for snapshots
}

// NewMemoryStore creates a MemoryStore with optional limits. maxHistory <= 0
// means unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*modelHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends a model snapshot for its location and enforces retention.
func (s *MemoryStore) Save(model *weather.Model) {
	key := model.Location.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &modelHistory{}
		s.data[key] = history
	}

	history.models = append(history.models, model)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.models) > s.maxHistory {
		over := len(history.models) - s.maxHistory
		history.models = history.models[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.models); i++ {
			if !history.models[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.models) {
			history.models = history.models[i:]
		}
	}
}

// GetLatest returns the most recent model for a location.
func (s *MemoryStore) GetLatest(loc weather.Location) (*weather.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[loc.Key()]
	if !ok || len(history.models) == 0 {
		return nil, ErrNotFound
	}
	return history.models[len(history.models)-1], nil
}

// GetRange returns all models for a location fetched between from and to
// (inclusive).
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]*weather.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[loc.Key()]
	if !ok || len(history.models) == 0 {
		return nil, ErrNotFound
	}

	var result []*weather.Model
	for _, m := range history.models {
		if !m.FetchedAt.Before(from) && !m.FetchedAt.After(to) {
			result = append(result, m)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
