package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/b3nnytran/ride-sharing/internal/booking"
	"github.com/b3nnytran/ride-sharing/internal/dispatch"
	"github.com/b3nnytran/ride-sharing/internal/models"
	"github.com/b3nnytran/ride-sharing/internal/storage"
)

// BookingServer is the booking service's HTTP surface: the ride
// request orchestration, ride lookup and status updates, plus the
// rider WebSocket endpoint offers are pushed through.
type BookingServer struct {
	svc    *booking.Service
	store  storage.RideStore
	wsreg  *dispatch.WSRegistry // nil disables /ws
	logger *slog.Logger
	mux    *mux.Router
}

func NewBookingServer(svc *booking.Service, store storage.RideStore, wsreg *dispatch.WSRegistry, logger *slog.Logger) *BookingServer {
	s := &BookingServer{svc: svc, store: store, wsreg: wsreg, logger: logger, mux: mux.NewRouter()}
	registerMiddleware(s.mux, logger)
	s.routes()
	return s
}

func (s *BookingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *BookingServer) routes() {
	s.mux.HandleFunc("/api/v1/rides/request", s.handleRequestRide).Methods("POST")
	s.mux.HandleFunc("/api/v1/rides", s.handleListRides).Methods("GET")
	s.mux.HandleFunc("/api/v1/rides/{id:[0-9]+}", s.handleGetRide).Methods("GET")
	s.mux.HandleFunc("/api/v1/rides/{id:[0-9]+}/status", s.handleUpdateStatus).Methods("PATCH")
	s.mux.HandleFunc("/api/v1/users/{user_id:[0-9]+}/rides", s.handleUserRides).Methods("GET")
	s.mux.HandleFunc("/api/v1/riders/{rider_id:[0-9]+}/rides", s.handleRiderRides).Methods("GET")
	if s.wsreg != nil {
		s.mux.HandleFunc("/ws/riders/{rider_id:[0-9]+}", s.handleRiderWS)
	}
	s.mux.HandleFunc("/healthz", handleHealthz).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
}

type rideRequest struct {
	UserID          int64  `json:"user_id"`
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
}

func (s *BookingServer) handleRequestRide(w http.ResponseWriter, r *http.Request) {
	var req rideRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "user_id is required")
		return
	}
	if req.PickupLocation == "" || req.DropoffLocation == "" {
		respondError(w, http.StatusUnprocessableEntity, "pickup_location and dropoff_location are required")
		return
	}
	ride, err := s.svc.RequestRide(r.Context(), req.UserID, req.PickupLocation, req.DropoffLocation)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, ride)
}

func (s *BookingServer) handleListRides(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	rides, err := s.store.ListRides(r.Context(), offset, limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondRides(w, rides)
}

func (s *BookingServer) handleGetRide(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	ride, err := s.store.GetRide(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ride)
}

type rideStatusRequest struct {
	Status string `json:"status"`
}

func (s *BookingServer) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var req rideStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	status, err := models.ParseRideStatus(req.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	ride, err := s.svc.UpdateStatus(r.Context(), id, status)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ride)
}

func (s *BookingServer) handleUserRides(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.ParseInt(mux.Vars(r)["user_id"], 10, 64)
	rides, err := s.store.ListRidesByUser(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondRides(w, rides)
}

func (s *BookingServer) handleRiderRides(w http.ResponseWriter, r *http.Request) {
	riderID, _ := strconv.ParseInt(mux.Vars(r)["rider_id"], 10, 64)
	rides, err := s.store.ListRidesByRider(r.Context(), riderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondRides(w, rides)
}

var upgrader = websocket.Upgrader{}

func (s *BookingServer) handleRiderWS(w http.ResponseWriter, r *http.Request) {
	riderID, _ := strconv.ParseInt(mux.Vars(r)["rider_id"], 10, 64)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		respondError(w, http.StatusBadRequest, "upgrade failed")
		return
	}
	s.wsreg.Add(riderID, conn)
}

func respondRides(w http.ResponseWriter, rides []models.Ride) {
	if rides == nil {
		rides = []models.Ride{}
	}
	respondJSON(w, http.StatusOK, rides)
}
