package store

import (
	"errors"
	"testing"
	"time"

	"github.com/weatherpro/weatherdash/internal/weather"
)

var loc = weather.Location{Latitude: 25.594, Longitude: 85.1376, DisplayName: "Patna"}

func snapshotAt(ts time.Time) *weather.Model {
	return &weather.Model{Location: loc, FetchedAt: ts}
}

func TestGetLatest(t *testing.T) {
	s := NewMemoryStore(10, 0)

	if _, err := s.GetLatest(loc); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	first := snapshotAt(time.Now().Add(-time.Hour))
	second := snapshotAt(time.Now())
	s.Save(first)
	s.Save(second)

	got, err := s.GetLatest(loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != second {
		t.Error("GetLatest did not return the newest snapshot")
	}
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)

	for i := 0; i < 5; i++ {
		s.Save(snapshotAt(time.Now().Add(time.Duration(i) * time.Minute)))
	}

	models, err := s.GetRange(loc, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 2 {
		t.Errorf("retained %d snapshots, want 2", len(models))
	}
}

func TestGetRange(t *testing.T) {
	s := NewMemoryStore(0, 0)
	base := time.Now().Add(-3 * time.Hour)

	for i := 0; i < 4; i++ {
		s.Save(snapshotAt(base.Add(time.Duration(i) * time.Hour)))
	}

	models, err := s.GetRange(loc, base.Add(30*time.Minute), base.Add(2*time.Hour+30*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 2 {
		t.Errorf("range returned %d snapshots, want 2", len(models))
	}

	if _, err := s.GetRange(loc, base.Add(-2*time.Hour), base.Add(-time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for an uncovered range, got %v", err)
	}
}
