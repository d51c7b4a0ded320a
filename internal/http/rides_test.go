package httpapi

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/b3nnytran/ride-sharing/internal/booking"
	"github.com/b3nnytran/ride-sharing/internal/matcher"
	"github.com/b3nnytran/ride-sharing/internal/models"
	"github.com/b3nnytran/ride-sharing/internal/storage"
)

type stubMatchClient struct {
	match models.Match
	err   error
}

func (s *stubMatchClient) Match(ctx context.Context, userID int64) (models.Match, error) {
	return s.match, s.err
}

func newBookingServer(mc booking.MatchClient) *BookingServer {
	store := storage.NewMemoryRideStore()
	svc := &booking.Service{Matching: mc, Rides: store, Log: testLogger()}
	return NewBookingServer(svc, store, nil, testLogger())
}

func TestRequestRideEndpoint(t *testing.T) {
	srv := newBookingServer(&stubMatchClient{match: models.Match{RiderID: 3, DistanceKm: 3.0}})

	w := doJSON(srv, "POST", "/api/v1/rides/request",
		`{"user_id":1,"pickup_location":"District 1","dropoff_location":"Airport"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{`"rider_id":3`, `"status":"Pending"`, `"fare_amount":40000`} {
		if !strings.Contains(body, want) {
			t.Errorf("body = %s, missing %s", body, want)
		}
	}
}

func TestRequestRideMissingFields(t *testing.T) {
	srv := newBookingServer(&stubMatchClient{})
	w := doJSON(srv, "POST", "/api/v1/rides/request", `{"user_id":1,"pickup_location":"a"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestRequestRideNoRiderAvailable(t *testing.T) {
	srv := newBookingServer(&stubMatchClient{err: matcher.ErrNoRiderAvailable})
	w := doJSON(srv, "POST", "/api/v1/rides/request",
		`{"user_id":1,"pickup_location":"a","dropoff_location":"b"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRequestRideMatchingDown(t *testing.T) {
	srv := newBookingServer(&stubMatchClient{err: booking.ErrMatchingUnavailable})
	w := doJSON(srv, "POST", "/api/v1/rides/request",
		`{"user_id":1,"pickup_location":"a","dropoff_location":"b"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestRideStatusEndpoint(t *testing.T) {
	srv := newBookingServer(&stubMatchClient{match: models.Match{RiderID: 3, DistanceKm: 2.0}})
	if w := doJSON(srv, "POST", "/api/v1/rides/request",
		`{"user_id":1,"pickup_location":"a","dropoff_location":"b"}`); w.Code != http.StatusCreated {
		t.Fatalf("request: %d", w.Code)
	}

	w := doJSON(srv, "PATCH", "/api/v1/rides/1/status", `{"status":"In Progress"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"In Progress"`) {
		t.Fatalf("status = %d; body=%s", w.Code, w.Body.String())
	}

	if w := doJSON(srv, "PATCH", "/api/v1/rides/1/status", `{"status":"Paused"}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid status: %d, want 422", w.Code)
	}
	if w := doJSON(srv, "PATCH", "/api/v1/rides/99/status", `{"status":"Completed"}`); w.Code != http.StatusNotFound {
		t.Fatalf("missing ride: %d, want 404", w.Code)
	}
}

func TestListRidesByParty(t *testing.T) {
	srv := newBookingServer(&stubMatchClient{match: models.Match{RiderID: 3, DistanceKm: 2.0}})
	doJSON(srv, "POST", "/api/v1/rides/request", `{"user_id":1,"pickup_location":"a","dropoff_location":"b"}`)
	doJSON(srv, "POST", "/api/v1/rides/request", `{"user_id":2,"pickup_location":"a","dropoff_location":"b"}`)

	w := doJSON(srv, "GET", "/api/v1/users/1/rides", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"user_id":1`) {
		t.Fatalf("user rides: %d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(srv, "GET", "/api/v1/riders/3/rides", "")
	if w.Code != http.StatusOK {
		t.Fatalf("rider rides: %d", w.Code)
	}

	// unknown party yields an empty list, not null
	w = doJSON(srv, "GET", "/api/v1/users/42/rides", "")
	if w.Code != http.StatusOK || w.Body.String() == "null\n" {
		t.Fatalf("empty list: %d body=%q", w.Code, w.Body.String())
	}
}

