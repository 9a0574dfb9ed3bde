// Package payment provides the funds-transfer capability consumed by the
// purchase flow. The engine never judges balances itself; it invokes
// Transfer before writing any ledger state and propagates the processor's
// error untouched.
package payment

import "context"

// Processor moves amount (smallest currency unit) from one account to
// another. Implementations must fail loudly on insufficient funds
// (common.ErrInsufficientBalance) or missing authorization.
type Processor interface {
	Transfer(ctx context.Context, from, to string, amount int64) error
}
