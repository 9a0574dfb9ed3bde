// Package settings stores the small configuration tier of the engine: the
// admin identity, the payment asset identity, and anything else that is
// process-wide and set once at initialization.
package settings

import "context"

// Well-known configuration keys.
const (
	KeyAdmin        = "admin"
	KeyPaymentAsset = "payment_asset"
)

// Repository is a keyed configuration store. Get returns
// common.ErrNotFound for absent keys; Set overwrites.
type Repository interface {
	Has(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
