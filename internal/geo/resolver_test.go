package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const patnaResults = `{"results":[
	{"name":"Patna","admin1":"Bihar","country":"India","latitude":25.594,"longitude":85.1376},
	{"name":"Patna","admin1":"West Bengal","country":"India","latitude":22.5,"longitude":88.3}
]}`

func newTestResolver(t *testing.T, search http.HandlerFunc, reverse http.HandlerFunc) (*Resolver, func()) {
	t.Helper()
	searchSrv := httptest.NewServer(search)
	reverseSrv := httptest.NewServer(reverse)

	r := NewResolver(&http.Client{}, Options{
		SearchURL:     searchSrv.URL,
		ReverseURL:    reverseSrv.URL,
		RegionCountry: "IN",
	})
	return r, func() {
		searchSrv.Close()
		reverseSrv.Close()
	}
}

func TestResolveRegionalHitSkipsGlobalTier(t *testing.T) {
	var regional, global int32
	r, cleanup := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("country") == "IN" {
			atomic.AddInt32(&regional, 1)
			if req.URL.Query().Get("count") != "20" {
				t.Errorf("regional count = %s, want 20", req.URL.Query().Get("count"))
			}
			w.Write([]byte(patnaResults))
			return
		}
		atomic.AddInt32(&global, 1)
		w.Write([]byte(`{"results":[]}`))
	}, nil)
	defer cleanup()

	got, err := r.Resolve(context.Background(), "Patna")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Patna" || got[0].Admin1 != "Bihar" {
		t.Errorf("candidates = %+v", got)
	}
	if atomic.LoadInt32(&regional) != 1 || atomic.LoadInt32(&global) != 0 {
		t.Errorf("regional=%d global=%d calls; want 1 and 0", regional, global)
	}
}

func TestResolveFallsBackToGlobalTier(t *testing.T) {
	var regional, global int32
	r, cleanup := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("country") == "IN" {
			atomic.AddInt32(&regional, 1)
			w.Write([]byte(`{"results":[]}`))
			return
		}
		atomic.AddInt32(&global, 1)
		if req.URL.Query().Get("count") != "10" {
			t.Errorf("global count = %s, want 10", req.URL.Query().Get("count"))
		}
		w.Write([]byte(`{"results":[{"name":"Reykjavik","country":"Iceland","latitude":64.14,"longitude":-21.94}]}`))
	}, nil)
	defer cleanup()

	got, err := r.Resolve(context.Background(), "Reykjavik")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Reykjavik" {
		t.Errorf("candidates = %+v", got)
	}
	if atomic.LoadInt32(&regional) != 1 || atomic.LoadInt32(&global) != 1 {
		t.Errorf("regional=%d global=%d calls; want 1 and 1", regional, global)
	}
}

func TestResolveNotFoundAfterBothTiers(t *testing.T) {
	r, cleanup := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}, nil)
	defer cleanup()

	_, err := r.Resolve(context.Background(), "Nowhereville")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveTransportFailureDegradesToNotFound(t *testing.T) {
	r, cleanup := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, nil)
	defer cleanup()

	_, err := r.Resolve(context.Background(), "Patna")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on transport failure, got %v", err)
	}
}

func TestResolveCachesQueries(t *testing.T) {
	var calls int32
	r, cleanup := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(patnaResults))
	}, nil)
	defer cleanup()

	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(context.Background(), "Patna"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("search calls = %d, want 1 (cached)", got)
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	r, cleanup := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("no network call expected for an empty query")
	}, nil)
	defer cleanup()

	if _, err := r.Resolve(context.Background(), "   "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReverseResolve(t *testing.T) {
	r, cleanup := newTestResolver(t, nil, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"display_name":"Patna, Bihar, India"}`))
	})
	defer cleanup()

	loc := r.ReverseResolve(context.Background(), 25.594, 85.1376)
	if loc.DisplayName != "Patna, Bihar, India" {
		t.Errorf("display name = %q", loc.DisplayName)
	}
	if loc.Latitude != 25.594 || loc.Longitude != 85.1376 {
		t.Errorf("coordinates = %v,%v", loc.Latitude, loc.Longitude)
	}
}

func TestReverseResolveFallsBackToCoordinates(t *testing.T) {
	r, cleanup := newTestResolver(t, nil, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer cleanup()

	loc := r.ReverseResolve(context.Background(), 25.594, 85.138)
	if loc.DisplayName != "Lat 25.594, Lon 85.138" {
		t.Errorf("fallback display name = %q", loc.DisplayName)
	}
}

func TestCandidateDisplayName(t *testing.T) {
	c := Candidate{Name: "Patna", Admin1: "Bihar", Country: "India"}
	if got := c.DisplayName(); got != "Patna, Bihar, India" {
		t.Errorf("DisplayName = %q", got)
	}
	c = Candidate{Name: "Patna"}
	if got := c.DisplayName(); got != "Patna" {
		t.Errorf("DisplayName = %q", got)
	}
}
