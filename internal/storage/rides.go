package storage

import (
	"context"
	"sync"
	"time"

	"github.com/b3nnytran/ride-sharing/internal/models"
)

// RideStore is the ledger for ride records. Rides are created only
// through the booking orchestration and never deleted; the only
// mutation is a status update.
type RideStore interface {
	// CreateRide persists a new ride. The stored status is always
	// Pending regardless of what the caller supplies.
	CreateRide(ctx context.Context, r models.Ride) (models.Ride, error)
	GetRide(ctx context.Context, id int64) (models.Ride, error)
	ListRides(ctx context.Context, offset, limit int) ([]models.Ride, error)
	ListRidesByUser(ctx context.Context, userID int64) ([]models.Ride, error)
	ListRidesByRider(ctx context.Context, riderID int64) ([]models.Ride, error)

	// UpdateRideStatus sets the ride's status and bumps updated_at.
	// Targets outside the allowed set fail with ErrInvalidStatus and
	// leave the record untouched. Any allowed state is reachable from
	// any other; no transition graph is enforced.
	UpdateRideStatus(ctx context.Context, id int64, status models.RideStatus) (models.Ride, error)
}

type MemoryRideStore struct {
	mu     sync.RWMutex
	rides  map[int64]models.Ride
	nextID int64
}

func NewMemoryRideStore() *MemoryRideStore {
	return &MemoryRideStore{rides: make(map[int64]models.Ride), nextID: 1}
}

func (m *MemoryRideStore) CreateRide(ctx context.Context, r models.Ride) (models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextID
	m.nextID++
	r.Status = models.StatusPending
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	m.rides[r.ID] = r
	return r, nil
}

func (m *MemoryRideStore) GetRide(ctx context.Context, id int64) (models.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rides[id]
	if !ok {
		return models.Ride{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryRideStore) ListRides(ctx context.Context, offset, limit int) ([]models.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Ride, 0, len(m.rides))
	for id := int64(1); id < m.nextID; id++ {
		if r, ok := m.rides[id]; ok {
			out = append(out, r)
		}
	}
	return window(out, offset, limit), nil
}

func (m *MemoryRideStore) ListRidesByUser(ctx context.Context, userID int64) ([]models.Ride, error) {
	return m.filter(func(r models.Ride) bool { return r.UserID == userID }), nil
}

func (m *MemoryRideStore) ListRidesByRider(ctx context.Context, riderID int64) ([]models.Ride, error) {
	return m.filter(func(r models.Ride) bool { return r.RiderID == riderID }), nil
}

func (m *MemoryRideStore) UpdateRideStatus(ctx context.Context, id int64, status models.RideStatus) (models.Ride, error) {
	if !status.Valid() {
		return models.Ride{}, ErrInvalidStatus
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return models.Ride{}, ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	m.rides[id] = r
	return r, nil
}

func (m *MemoryRideStore) filter(keep func(models.Ride) bool) []models.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Ride
	for id := int64(1); id < m.nextID; id++ {
		if r, ok := m.rides[id]; ok && keep(r) {
			out = append(out, r)
		}
	}
	return out
}
