// Package orders stores order records, the per-owner order id counter, and
// the per-owner append-only list of order ids.
package orders

import (
	"context"

	"github.com/airtimehq/airtime/internal/server/models"
)

// Repository persists the order ledger for one state partition.
//
// AllocateNextID advances the owner's monotonic counter and returns the new
// id; the sequence starts at 1 and ids are never reused. Get returns
// common.ErrNotFound for absent orders. Append adds an id to the owner's
// ordered list; the list only ever grows.
type Repository interface {
	AllocateNextID(ctx context.Context, owner string) (uint64, error)
	Create(ctx context.Context, owner string, orderID uint64, rec models.OrderRec) error
	Get(ctx context.Context, owner string, orderID uint64) (*models.OrderRec, error)
	Save(ctx context.Context, owner string, orderID uint64, rec models.OrderRec) error
	Append(ctx context.Context, owner string, orderID uint64) error
	ListIDs(ctx context.Context, owner string) ([]uint64, error)
}
