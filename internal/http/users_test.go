package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/b3nnytran/ride-sharing/internal/auth"
	"github.com/b3nnytran/ride-sharing/internal/storage"
)

func newUserServer() *UserServer {
	return NewUserServer(storage.NewMemoryUserStore(), auth.NewTokenIssuer("test-secret", time.Minute), testLogger())
}

func createUser(t *testing.T, srv *UserServer, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/users", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestCreateUser(t *testing.T) {
	srv := newUserServer()
	w := createUser(t, srv, `{"name":"Ben","phone_number":"+84901234567","password":"password123"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("response leaks password material: %s", w.Body.String())
	}
}

func TestCreateUserValidation(t *testing.T) {
	srv := newUserServer()
	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"phone_number":"+84901234567","password":"password123"}`},
		{"bad phone", `{"name":"Ben","phone_number":"12ab","password":"password123"}`},
		{"short password", `{"name":"Ben","phone_number":"+84901234567","password":"short"}`},
	}
	for _, c := range cases {
		if w := createUser(t, srv, c.body); w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", c.name, w.Code)
		}
	}
}

func TestCreateUserDuplicatePhone(t *testing.T) {
	srv := newUserServer()
	body := `{"name":"Ben","phone_number":"+84901234567","password":"password123"}`
	if w := createUser(t, srv, body); w.Code != http.StatusCreated {
		t.Fatalf("first create: %d", w.Code)
	}
	if w := createUser(t, srv, body); w.Code != http.StatusConflict {
		t.Fatalf("duplicate: status = %d, want 409", w.Code)
	}
}

func TestTokenAndMe(t *testing.T) {
	srv := newUserServer()
	if w := createUser(t, srv, `{"name":"Ben","phone_number":"+84901234567","password":"password123"}`); w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}

	req := httptest.NewRequest("POST", "/api/v1/token", strings.NewReader(`{"phone_number":"+84901234567","password":"password123"}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("token: status = %d; body=%s", w.Code, w.Body.String())
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tok); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if tok.TokenType != "bearer" || tok.AccessToken == "" {
		t.Fatalf("token response = %+v", tok)
	}

	req = httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("me: status = %d; body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"name":"Ben"`) {
		t.Fatalf("me body = %s", w.Body.String())
	}
}

func TestTokenWrongPassword(t *testing.T) {
	srv := newUserServer()
	createUser(t, srv, `{"name":"Ben","phone_number":"+84901234567","password":"password123"}`)

	req := httptest.NewRequest("POST", "/api/v1/token", strings.NewReader(`{"phone_number":"+84901234567","password":"nope-nope"}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestMeWithoutToken(t *testing.T) {
	srv := newUserServer()
	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestGetUserNotFound(t *testing.T) {
	srv := newUserServer()
	req := httptest.NewRequest("GET", "/api/v1/users/99", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
