// Package dispatch pushes ride offers to connected rider apps over
// WebSocket. Delivery is best-effort; a rider with no open session
// simply misses the push and learns about the ride by polling.
package dispatch

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

var ErrNoSession = errors.New("no websocket session for rider")

// RideOffer is the payload pushed to a matched rider.
type RideOffer struct {
	RideID          int64   `json:"ride_id"`
	UserID          int64   `json:"user_id"`
	PickupLocation  string  `json:"pickup_location"`
	DropoffLocation string  `json:"dropoff_location"`
	DistanceKm      float64 `json:"distance_km"`
	FareAmount      float64 `json:"fare_amount"`
}

// WSSession wraps one rider connection; writes are serialized.
type WSSession struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *WSSession) Send(offer RideOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(offer)
}

// WSRegistry holds rider sessions keyed by rider id. A reconnect
// replaces the previous session.
type WSRegistry struct {
	mu       sync.RWMutex
	sessions map[int64]*WSSession
	log      *slog.Logger
}

func NewWSRegistry(log *slog.Logger) *WSRegistry {
	return &WSRegistry{sessions: make(map[int64]*WSSession), log: log}
}

func (r *WSRegistry) Add(riderID int64, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.sessions[riderID]; ok {
		_ = old.conn.Close()
	}
	r.sessions[riderID] = &WSSession{conn: conn}
}

func (r *WSRegistry) Remove(riderID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[riderID]; ok {
		_ = s.conn.Close()
		delete(r.sessions, riderID)
	}
}

func (r *WSRegistry) Offer(riderID int64, offer RideOffer) error {
	r.mu.RLock()
	s, ok := r.sessions[riderID]
	r.mu.RUnlock()
	if !ok {
		return ErrNoSession
	}
	if err := s.Send(offer); err != nil {
		r.log.Warn("ws send failed", "rider_id", riderID, "error", err)
		return err
	}
	return nil
}
