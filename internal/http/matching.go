package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/b3nnytran/ride-sharing/internal/matcher"
)

// MatchingServer exposes the nearest-rider matching endpoint backed by
// the static distance matrix.
type MatchingServer struct {
	matcher *matcher.Service
	logger  *slog.Logger
	mux     *mux.Router
}

func NewMatchingServer(m *matcher.Service, logger *slog.Logger) *MatchingServer {
	s := &MatchingServer{matcher: m, logger: logger, mux: mux.NewRouter()}
	registerMiddleware(s.mux, logger)
	s.routes()
	return s
}

func (s *MatchingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *MatchingServer) routes() {
	s.mux.HandleFunc("/api/v1/match", s.handleMatch).Methods("POST")
	s.mux.HandleFunc("/healthz", handleHealthz).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
}

type matchRequest struct {
	UserID int64 `json:"user_id"`
}

func (s *MatchingServer) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "user_id is required")
		return
	}
	m, err := s.matcher.FindNearestRider(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, matcher.ErrNoRiderAvailable) {
			respondError(w, http.StatusNotFound, "no available riders found")
			return
		}
		// the rider listing is the only other failure source here
		s.logger.Error("match failed", "user_id", req.UserID, "error", err)
		respondError(w, http.StatusServiceUnavailable, "rider service unavailable")
		return
	}
	respondJSON(w, http.StatusOK, m)
}
