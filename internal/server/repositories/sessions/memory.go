package sessions

import (
	"context"
	"sync"

	"github.com/airtimehq/airtime/internal/server/models"
)

type orderKey struct {
	owner   string
	orderID uint64
}

// MemoryRepository is an in-memory session store with the same semantics as
// the Postgres implementation. Intended for tests and local development.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	orders   map[orderKey]models.OrderSession
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]models.Session),
		orders:   make(map[orderKey]models.OrderSession),
	}
}

func (r *MemoryRepository) Get(ctx context.Context, owner string) (models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[owner], nil
}

func (r *MemoryRepository) Save(ctx context.Context, owner string, s models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[owner] = s
	return nil
}

func (r *MemoryRepository) GetOrder(ctx context.Context, owner string, orderID uint64) (models.OrderSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.orders[orderKey{owner, orderID}]; ok {
		return s, nil
	}
	return models.OrderSession{OrderID: orderID}, nil
}

func (r *MemoryRepository) SaveOrder(ctx context.Context, owner string, s models.OrderSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[orderKey{owner, s.OrderID}] = s
	return nil
}
