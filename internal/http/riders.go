package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/b3nnytran/ride-sharing/internal/matcher"
	"github.com/b3nnytran/ride-sharing/internal/models"
	"github.com/b3nnytran/ride-sharing/internal/storage"
)

// DistanceInvalidator drops stale cached distances after an upsert.
type DistanceInvalidator interface {
	Invalidate(ctx context.Context, userID, riderID int64) error
}

// RiderServer is the rider service's HTTP surface: rider CRUD, the
// distance relation and the relation-backed nearest-rider lookup.
type RiderServer struct {
	store   storage.RiderStore
	matcher *matcher.Service
	cache   DistanceInvalidator // nil when no Redis is configured
	logger  *slog.Logger
	mux     *mux.Router
}

func NewRiderServer(store storage.RiderStore, m *matcher.Service, cache DistanceInvalidator, logger *slog.Logger) *RiderServer {
	s := &RiderServer{store: store, matcher: m, cache: cache, logger: logger, mux: mux.NewRouter()}
	registerMiddleware(s.mux, logger)
	s.routes()
	return s
}

func (s *RiderServer) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *RiderServer) routes() {
	s.mux.HandleFunc("/api/v1/riders", s.handleCreateRider).Methods("POST")
	s.mux.HandleFunc("/api/v1/riders", s.handleListRiders).Methods("GET")
	s.mux.HandleFunc("/api/v1/riders/{id:[0-9]+}", s.handleGetRider).Methods("GET")
	s.mux.HandleFunc("/api/v1/riders/{id:[0-9]+}", s.handleUpdateRider).Methods("PATCH")
	s.mux.HandleFunc("/api/v1/riders/{id:[0-9]+}/claim", s.handleClaimRider).Methods("POST")
	s.mux.HandleFunc("/api/v1/distance-matrix", s.handleUpsertDistance).Methods("POST")
	s.mux.HandleFunc("/api/v1/distance-matrix", s.handleListDistances).Methods("GET")
	s.mux.HandleFunc("/api/v1/nearest-rider", s.handleNearestRider).Methods("GET")
	s.mux.HandleFunc("/healthz", handleHealthz).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
}

type createRiderRequest struct {
	UserID       int64  `json:"user_id"`
	VehicleType  string `json:"vehicle_type"`
	LicensePlate string `json:"license_plate"`
}

func (s *RiderServer) handleCreateRider(w http.ResponseWriter, r *http.Request) {
	var req createRiderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "user_id is required")
		return
	}
	if req.VehicleType == "" {
		respondError(w, http.StatusUnprocessableEntity, "vehicle_type is required")
		return
	}
	plate, err := models.ParseLicensePlate(req.LicensePlate)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	rider, err := s.store.CreateRider(r.Context(), models.Rider{
		UserID:       req.UserID,
		VehicleType:  req.VehicleType,
		LicensePlate: plate,
	})
	if err != nil {
		if err == storage.ErrConflict {
			respondError(w, http.StatusConflict, "rider with this user_id or license plate already exists")
			return
		}
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rider)
}

func (s *RiderServer) handleListRiders(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	riders, err := s.store.ListRiders(r.Context(), offset, limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if riders == nil {
		riders = []models.Rider{}
	}
	respondJSON(w, http.StatusOK, riders)
}

func (s *RiderServer) handleGetRider(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	rider, err := s.store.GetRider(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rider)
}

type updateRiderRequest struct {
	VehicleType  *string `json:"vehicle_type"`
	LicensePlate *string `json:"license_plate"`
	Status       *string `json:"status"`
}

func (s *RiderServer) handleUpdateRider(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var req updateRiderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	upd := storage.RiderUpdate{VehicleType: req.VehicleType}
	if req.LicensePlate != nil {
		plate, err := models.ParseLicensePlate(*req.LicensePlate)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		upd.LicensePlate = &plate
	}
	if req.Status != nil {
		status, err := models.ParseRiderStatus(*req.Status)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		upd.Status = &status
	}
	rider, err := s.store.UpdateRider(r.Context(), id, upd)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rider)
}

func (s *RiderServer) handleClaimRider(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	rider, err := s.store.ClaimRider(r.Context(), id)
	if err != nil {
		if err == storage.ErrConflict {
			respondError(w, http.StatusConflict, "rider is not available")
			return
		}
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rider)
}

type upsertDistanceRequest struct {
	UserID     int64   `json:"user_id"`
	RiderID    int64   `json:"rider_id"`
	DistanceKm float64 `json:"distance_km"`
}

func (s *RiderServer) handleUpsertDistance(w http.ResponseWriter, r *http.Request) {
	var req upsertDistanceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID <= 0 || req.RiderID <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "user_id and rider_id are required")
		return
	}
	if req.DistanceKm < 0 {
		respondError(w, http.StatusUnprocessableEntity, "distance_km must be non-negative")
		return
	}
	entry, err := s.store.UpsertDistance(r.Context(), models.DistanceEntry{
		UserID:     req.UserID,
		RiderID:    req.RiderID,
		DistanceKm: models.Round2(req.DistanceKm),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(r.Context(), entry.UserID, entry.RiderID); err != nil {
			s.logger.Warn("distance cache invalidation failed", "user_id", entry.UserID, "rider_id", entry.RiderID, "error", err)
		}
	}
	respondJSON(w, http.StatusOK, entry)
}

func (s *RiderServer) handleListDistances(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	entries, err := s.store.ListDistances(r.Context(), offset, limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []models.DistanceEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *RiderServer) handleNearestRider(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "user_id query parameter is required")
		return
	}
	m, err := s.matcher.FindNearestRider(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}
