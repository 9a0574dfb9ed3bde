package orders

import (
	"context"
	"sync"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/airtimehq/airtime/internal/server/models"
)

type ownerOrders struct {
	lastID uint64
	recs   map[uint64]models.OrderRec
	list   []uint64
}

// MemoryRepository is an in-memory order ledger with the same semantics as
// the Postgres implementation. Intended for tests and local development.
type MemoryRepository struct {
	mu     sync.Mutex
	owners map[string]*ownerOrders
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{owners: make(map[string]*ownerOrders)}
}

func (r *MemoryRepository) owner(owner string) *ownerOrders {
	o, ok := r.owners[owner]
	if !ok {
		o = &ownerOrders{recs: make(map[uint64]models.OrderRec)}
		r.owners[owner] = o
	}
	return o
}

func (r *MemoryRepository) AllocateNextID(ctx context.Context, owner string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.owner(owner)
	o.lastID++
	return o.lastID, nil
}

func (r *MemoryRepository) Create(ctx context.Context, owner string, orderID uint64, rec models.OrderRec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owner(owner).recs[orderID] = rec
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, owner string, orderID uint64) (*models.OrderRec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.owner(owner).recs[orderID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &rec, nil
}

func (r *MemoryRepository) Save(ctx context.Context, owner string, orderID uint64, rec models.OrderRec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.owner(owner)
	if _, ok := o.recs[orderID]; !ok {
		return common.ErrNotFound
	}
	o.recs[orderID] = rec
	return nil
}

func (r *MemoryRepository) Append(ctx context.Context, owner string, orderID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.owner(owner)
	o.list = append(o.list, orderID)
	return nil
}

func (r *MemoryRepository) ListIDs(ctx context.Context, owner string) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.owner(owner)
	ids := make([]uint64, len(o.list))
	copy(ids, o.list)
	return ids, nil
}

// DeleteRec removes an order record while leaving the id in the list.
// Only used by tests to exercise the defensive skip in GetUserPackages.
func (r *MemoryRepository) DeleteRec(owner string, orderID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.owner(owner).recs, orderID)
}
