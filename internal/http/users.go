package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/b3nnytran/ride-sharing/internal/auth"
	"github.com/b3nnytran/ride-sharing/internal/models"
	"github.com/b3nnytran/ride-sharing/internal/storage"
)

// UserServer is the user service's HTTP surface: registration, token
// issuance and user lookup.
type UserServer struct {
	store  storage.UserStore
	tokens *auth.TokenIssuer
	logger *slog.Logger
	mux    *mux.Router
}

func NewUserServer(store storage.UserStore, tokens *auth.TokenIssuer, logger *slog.Logger) *UserServer {
	s := &UserServer{store: store, tokens: tokens, logger: logger, mux: mux.NewRouter()}
	registerMiddleware(s.mux, logger)
	s.routes()
	return s
}

func (s *UserServer) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *UserServer) routes() {
	s.mux.HandleFunc("/api/v1/users", s.handleCreateUser).Methods("POST")
	s.mux.HandleFunc("/api/v1/users", s.handleListUsers).Methods("GET")
	// /users/me must register before /users/{id}
	s.mux.HandleFunc("/api/v1/users/me", s.handleMe).Methods("GET")
	s.mux.HandleFunc("/api/v1/users/{id:[0-9]+}", s.handleGetUser).Methods("GET")
	s.mux.HandleFunc("/api/v1/token", s.handleToken).Methods("POST")
	s.mux.HandleFunc("/healthz", handleHealthz).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
}

type createUserRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

func (s *UserServer) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	phone, err := models.ParsePhoneNumber(req.PhoneNumber)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusUnprocessableEntity, "password must be at least 8 characters")
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	u, err := s.store.CreateUser(r.Context(), models.User{Name: req.Name, PhoneNumber: phone, PasswordHash: hash})
	if err != nil {
		if err == storage.ErrConflict {
			respondError(w, http.StatusConflict, "user with this phone number already exists")
			return
		}
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, u)
}

type tokenRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *UserServer) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := s.store.GetUserByPhone(r.Context(), req.PhoneNumber)
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "incorrect phone number or password")
		return
	}
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *UserServer) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	u, err := s.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (s *UserServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	u, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (s *UserServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	users, err := s.store.ListUsers(r.Context(), offset, limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *UserServer) authenticate(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		respondError(w, http.StatusUnauthorized, "missing bearer token")
		return nil, false
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return nil, false
	}
	return claims, true
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func pagination(r *http.Request) (offset, limit int) {
	limit = 100
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return offset, limit
}
