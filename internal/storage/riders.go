package storage

import (
	"context"
	"sync"
	"time"

	"github.com/b3nnytran/ride-sharing/internal/models"
)

// RiderUpdate carries the mutable rider fields; nil means unchanged.
type RiderUpdate struct {
	VehicleType  *string
	LicensePlate *string
	Status       *models.RiderStatus
}

type RiderStore interface {
	CreateRider(ctx context.Context, r models.Rider) (models.Rider, error)
	GetRider(ctx context.Context, id int64) (models.Rider, error)
	ListRiders(ctx context.Context, offset, limit int) ([]models.Rider, error)
	UpdateRider(ctx context.Context, id int64, upd RiderUpdate) (models.Rider, error)
	ListAvailable(ctx context.Context) ([]models.Rider, error)

	// ClaimRider conditionally flips an Available rider to Busy.
	// ErrConflict when the rider is already Busy.
	ClaimRider(ctx context.Context, id int64) (models.Rider, error)

	UpsertDistance(ctx context.Context, e models.DistanceEntry) (models.DistanceEntry, error)
	ListDistances(ctx context.Context, offset, limit int) ([]models.DistanceEntry, error)
	DistanceBetween(ctx context.Context, userID, riderID int64) (float64, bool, error)
}

type MemoryRiderStore struct {
	mu         sync.RWMutex
	riders     map[int64]models.Rider
	distances  map[[2]int64]models.DistanceEntry
	nextID     int64
	nextDistID int64
}

func NewMemoryRiderStore() *MemoryRiderStore {
	return &MemoryRiderStore{
		riders:     make(map[int64]models.Rider),
		distances:  make(map[[2]int64]models.DistanceEntry),
		nextID:     1,
		nextDistID: 1,
	}
}

func (m *MemoryRiderStore) CreateRider(ctx context.Context, r models.Rider) (models.Rider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.riders {
		if existing.UserID == r.UserID || existing.LicensePlate == r.LicensePlate {
			return models.Rider{}, ErrConflict
		}
	}
	r.ID = m.nextID
	m.nextID++
	if r.Rating == 0 {
		r.Rating = 5.0
	}
	if r.Status == "" {
		r.Status = models.RiderAvailable
	}
	r.CreatedAt = time.Now().UTC()
	m.riders[r.ID] = r
	return r, nil
}

func (m *MemoryRiderStore) GetRider(ctx context.Context, id int64) (models.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.riders[id]
	if !ok {
		return models.Rider{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryRiderStore) ListRiders(ctx context.Context, offset, limit int) ([]models.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Rider, 0, len(m.riders))
	for id := int64(1); id < m.nextID; id++ {
		if r, ok := m.riders[id]; ok {
			out = append(out, r)
		}
	}
	return window(out, offset, limit), nil
}

func (m *MemoryRiderStore) UpdateRider(ctx context.Context, id int64, upd RiderUpdate) (models.Rider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.riders[id]
	if !ok {
		return models.Rider{}, ErrNotFound
	}
	if upd.LicensePlate != nil {
		for otherID, other := range m.riders {
			if otherID != id && other.LicensePlate == *upd.LicensePlate {
				return models.Rider{}, ErrConflict
			}
		}
		r.LicensePlate = *upd.LicensePlate
	}
	if upd.VehicleType != nil {
		r.VehicleType = *upd.VehicleType
	}
	if upd.Status != nil {
		r.Status = *upd.Status
	}
	m.riders[id] = r
	return r, nil
}

func (m *MemoryRiderStore) ListAvailable(ctx context.Context) ([]models.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Rider
	for id := int64(1); id < m.nextID; id++ {
		if r, ok := m.riders[id]; ok && r.Status == models.RiderAvailable {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryRiderStore) ClaimRider(ctx context.Context, id int64) (models.Rider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.riders[id]
	if !ok {
		return models.Rider{}, ErrNotFound
	}
	if r.Status != models.RiderAvailable {
		return models.Rider{}, ErrConflict
	}
	r.Status = models.RiderBusy
	m.riders[id] = r
	return r, nil
}

func (m *MemoryRiderStore) UpsertDistance(ctx context.Context, e models.DistanceEntry) (models.DistanceEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int64{e.UserID, e.RiderID}
	if existing, ok := m.distances[key]; ok {
		existing.DistanceKm = e.DistanceKm
		m.distances[key] = existing
		return existing, nil
	}
	e.ID = m.nextDistID
	m.nextDistID++
	m.distances[key] = e
	return e, nil
}

func (m *MemoryRiderStore) ListDistances(ctx context.Context, offset, limit int) ([]models.DistanceEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.DistanceEntry, 0, len(m.distances))
	for id := int64(1); id < m.nextDistID; id++ {
		for _, e := range m.distances {
			if e.ID == id {
				out = append(out, e)
				break
			}
		}
	}
	return window(out, offset, limit), nil
}

func (m *MemoryRiderStore) DistanceBetween(ctx context.Context, userID, riderID int64) (float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.distances[[2]int64{userID, riderID}]
	if !ok {
		return 0, false, nil
	}
	return e.DistanceKm, true, nil
}
