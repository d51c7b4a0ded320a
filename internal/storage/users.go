package storage

import (
	"context"
	"sync"
	"time"

	"github.com/b3nnytran/ride-sharing/internal/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (models.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, error)
}

type MemoryUserStore struct {
	mu     sync.RWMutex
	users  map[int64]models.User
	nextID int64
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[int64]models.User), nextID: 1}
}

func (m *MemoryUserStore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.PhoneNumber == u.PhoneNumber {
			return models.User{}, ErrConflict
		}
	}
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = time.Now().UTC()
	m.users[u.ID] = u
	return u, nil
}

func (m *MemoryUserStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryUserStore) GetUserByPhone(ctx context.Context, phone string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *MemoryUserStore) ListUsers(ctx context.Context, offset, limit int) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0, len(m.users))
	for id := int64(1); id < m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return window(out, offset, limit), nil
}

// window applies offset/limit pagination to an already-ordered slice.
func window[T any](s []T, offset, limit int) []T {
	if offset >= len(s) {
		return []T{}
	}
	s = s[offset:]
	if limit > 0 && limit < len(s) {
		s = s[:limit]
	}
	return s
}
