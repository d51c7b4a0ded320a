package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/b3nnytran/ride-sharing/internal/distance"
	"github.com/b3nnytran/ride-sharing/internal/matcher"
	"github.com/b3nnytran/ride-sharing/internal/storage"
)

func newRiderServer() (*RiderServer, *storage.MemoryRiderStore) {
	store := storage.NewMemoryRiderStore()
	m := matcher.New(store, &distance.StoreProvider{Store: store}, nil)
	return NewRiderServer(store, m, nil, testLogger()), store
}

func doJSON(srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestCreateRiderEndpoint(t *testing.T) {
	srv, _ := newRiderServer()
	w := doJSON(srv, "POST", "/api/v1/riders", `{"user_id":1,"vehicle_type":"car","license_plate":"ABC-1234"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"Available"`) {
		t.Fatalf("body = %s, want Available", w.Body.String())
	}
}

func TestCreateRiderBadPlate(t *testing.T) {
	srv, _ := newRiderServer()
	w := doJSON(srv, "POST", "/api/v1/riders", `{"user_id":1,"vehicle_type":"car","license_plate":"ab 12"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestClaimRiderEndpoint(t *testing.T) {
	srv, _ := newRiderServer()
	doJSON(srv, "POST", "/api/v1/riders", `{"user_id":1,"vehicle_type":"car","license_plate":"ABC-1234"}`)

	if w := doJSON(srv, "POST", "/api/v1/riders/1/claim", ""); w.Code != http.StatusOK {
		t.Fatalf("first claim: status = %d; body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(srv, "POST", "/api/v1/riders/1/claim", ""); w.Code != http.StatusConflict {
		t.Fatalf("second claim: status = %d, want 409", w.Code)
	}
}

func TestUpdateRiderStatusEndpoint(t *testing.T) {
	srv, _ := newRiderServer()
	doJSON(srv, "POST", "/api/v1/riders", `{"user_id":1,"vehicle_type":"car","license_plate":"ABC-1234"}`)

	if w := doJSON(srv, "PATCH", "/api/v1/riders/1", `{"status":"Busy"}`); w.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(srv, "PATCH", "/api/v1/riders/1", `{"status":"Offline"}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid status: status = %d, want 422", w.Code)
	}
}

func TestNearestRiderEndpoint(t *testing.T) {
	srv, _ := newRiderServer()
	for i := 1; i <= 2; i++ {
		doJSON(srv, "POST", "/api/v1/riders", fmt.Sprintf(
			`{"user_id":%d,"vehicle_type":"car","license_plate":"ABC-123%d"}`, i, i))
	}
	doJSON(srv, "POST", "/api/v1/distance-matrix", `{"user_id":9,"rider_id":1,"distance_km":6.5}`)
	doJSON(srv, "POST", "/api/v1/distance-matrix", `{"user_id":9,"rider_id":2,"distance_km":3.25}`)

	w := doJSON(srv, "GET", "/api/v1/nearest-rider?user_id=9", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"rider_id":2`) {
		t.Fatalf("body = %s, want rider 2", w.Body.String())
	}
}

func TestNearestRiderNoEntries(t *testing.T) {
	srv, _ := newRiderServer()
	doJSON(srv, "POST", "/api/v1/riders", `{"user_id":1,"vehicle_type":"car","license_plate":"ABC-1234"}`)

	// available rider without a distance row is not a candidate
	w := doJSON(srv, "GET", "/api/v1/nearest-rider?user_id=9", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestListDistances(t *testing.T) {
	srv, _ := newRiderServer()
	doJSON(srv, "POST", "/api/v1/distance-matrix", `{"user_id":1,"rider_id":2,"distance_km":6.5}`)
	doJSON(srv, "POST", "/api/v1/distance-matrix", `{"user_id":1,"rider_id":2,"distance_km":7.0}`)

	w := doJSON(srv, "GET", "/api/v1/distance-matrix", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", w.Code, w.Body.String())
	}
	// the second upsert replaced the first entry
	body := w.Body.String()
	if strings.Contains(body, "6.5") || !strings.Contains(body, `"distance_km":7`) {
		t.Fatalf("body = %s, want single entry at 7", body)
	}
}

func TestUpsertDistanceValidation(t *testing.T) {
	srv, _ := newRiderServer()
	if w := doJSON(srv, "POST", "/api/v1/distance-matrix", `{"user_id":1,"rider_id":2,"distance_km":-1}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative distance: status = %d, want 422", w.Code)
	}
	if w := doJSON(srv, "POST", "/api/v1/distance-matrix", `{"rider_id":2,"distance_km":1}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing user: status = %d, want 422", w.Code)
	}
}
