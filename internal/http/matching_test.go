package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/b3nnytran/ride-sharing/internal/distance"
	"github.com/b3nnytran/ride-sharing/internal/matcher"
	"github.com/b3nnytran/ride-sharing/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAvailability struct {
	riders []models.Rider
	err    error
}

func (f *fakeAvailability) ListAvailable(ctx context.Context) ([]models.Rider, error) {
	return f.riders, f.err
}

func availableRiders(ids ...int64) []models.Rider {
	out := make([]models.Rider, len(ids))
	for i, id := range ids {
		out[i] = models.Rider{ID: id, Status: models.RiderAvailable}
	}
	return out
}

func newMatchingServer(riders matcher.AvailabilityFilter) *MatchingServer {
	m := matcher.New(riders, distance.NewMatrix(distance.DefaultEntries(), nil), nil)
	return NewMatchingServer(m, testLogger())
}

func TestMatchEndpoint(t *testing.T) {
	srv := newMatchingServer(&fakeAvailability{riders: availableRiders(1, 2, 3, 4, 5)})

	req := httptest.NewRequest("POST", "/api/v1/match", strings.NewReader(`{"user_id":1}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", w.Code, w.Body.String())
	}
	// the shipped table puts rider 4 at 2.0km from user 1, the strict minimum
	if !strings.Contains(w.Body.String(), `"rider_id":4`) {
		t.Fatalf("body = %s, want rider 4", w.Body.String())
	}
}

func TestMatchEndpointNoRiders(t *testing.T) {
	srv := newMatchingServer(&fakeAvailability{})

	req := httptest.NewRequest("POST", "/api/v1/match", strings.NewReader(`{"user_id":1}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestMatchEndpointRiderServiceDown(t *testing.T) {
	srv := newMatchingServer(&fakeAvailability{err: errors.New("connection refused")})

	req := httptest.NewRequest("POST", "/api/v1/match", strings.NewReader(`{"user_id":1}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestMatchEndpointMissingUser(t *testing.T) {
	srv := newMatchingServer(&fakeAvailability{})

	req := httptest.NewRequest("POST", "/api/v1/match", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}
