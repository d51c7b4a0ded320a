package distance

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Pair keys a matrix entry.
type Pair struct {
	UserID  int64
	RiderID int64
}

// Matrix is an immutable user/rider distance table built once at
// startup. Unknown pairs fall back to a fresh uniform draw from
// [1.0, 10.0) km on every call; fallback values are never remembered.
type Matrix struct {
	entries map[Pair]float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMatrix copies entries into an immutable lookup. rnd drives the
// fallback draw and the caller may seed it for deterministic tests; a
// nil rnd gets a time-seeded source.
func NewMatrix(entries map[Pair]float64, rnd *rand.Rand) *Matrix {
	m := &Matrix{entries: make(map[Pair]float64, len(entries)), rnd: rnd}
	for k, v := range entries {
		m.entries[k] = v
	}
	if m.rnd == nil {
		m.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return m
}

// DefaultEntries is the fixed 5x5 user/rider table the platform ships
// with for local topologies.
func DefaultEntries() map[Pair]float64 {
	return map[Pair]float64{
		{1, 1}: 8.0, {1, 2}: 5.0, {1, 3}: 6.0, {1, 4}: 2.0, {1, 5}: 7.0,
		{2, 1}: 3.0, {2, 2}: 9.0, {2, 3}: 4.0, {2, 4}: 6.0, {2, 5}: 1.0,
		{3, 1}: 5.0, {3, 2}: 2.0, {3, 3}: 8.0, {3, 4}: 7.0, {3, 5}: 4.0,
		{4, 1}: 6.0, {4, 2}: 10.0, {4, 3}: 3.0, {4, 4}: 1.0, {4, 5}: 9.0,
		{5, 1}: 7.0, {5, 2}: 4.0, {5, 3}: 2.0, {5, 4}: 9.0, {5, 5}: 5.0,
	}
}

func (m *Matrix) Distance(ctx context.Context, userID, riderID int64) (float64, error) {
	if d, ok := m.entries[Pair{userID, riderID}]; ok {
		return d, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return 1.0 + m.rnd.Float64()*9.0, nil
}
