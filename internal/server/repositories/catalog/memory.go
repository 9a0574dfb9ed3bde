package catalog

import (
	"context"
	"sync"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/airtimehq/airtime/internal/server/models"
)

// MemoryRepository is an in-memory catalog with the same semantics as the
// Postgres implementation. Intended for tests and local development.
type MemoryRepository struct {
	mu       sync.RWMutex
	packages map[uint32]models.Package
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{packages: make(map[uint32]models.Package)}
}

func (r *MemoryRepository) Set(ctx context.Context, id uint32, pkg models.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[id] = pkg
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id uint32) (*models.Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pkg, ok := r.packages[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &pkg, nil
}

func (r *MemoryRepository) List(ctx context.Context, maxID uint32) ([]models.CatalogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]models.CatalogEntry, 0)
	for id := uint32(1); id <= maxID; id++ {
		if pkg, ok := r.packages[id]; ok {
			entries = append(entries, models.CatalogEntry{ID: id, Pkg: pkg})
		}
	}
	return entries, nil
}
