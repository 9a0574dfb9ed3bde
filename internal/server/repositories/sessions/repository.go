// Package sessions stores the time balances: one aggregate session per owner
// and one session per credited order.
package sessions

import (
	"context"

	"github.com/airtimehq/airtime/internal/server/models"
)

// Repository persists session state. Reads degrade gracefully: an owner or
// order that has never been written reads back as a fresh zero-balance
// paused session rather than an error.
type Repository interface {
	Get(ctx context.Context, owner string) (models.Session, error)
	Save(ctx context.Context, owner string, s models.Session) error
	GetOrder(ctx context.Context, owner string, orderID uint64) (models.OrderSession, error)
	SaveOrder(ctx context.Context, owner string, s models.OrderSession) error
}
