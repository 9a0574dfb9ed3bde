package payment

import (
	"context"
	"sync"

	"github.com/airtimehq/airtime/internal/common"
)

// MemoryProcessor is an in-memory accounts ledger with the same semantics as
// the Postgres implementation. Intended for tests and local development.
type MemoryProcessor struct {
	mu       sync.Mutex
	balances map[string]int64

	// FailWith, when set, makes every Transfer fail with that error.
	// Lets tests simulate an unavailable or rejecting payment collaborator.
	FailWith error
}

func NewMemoryProcessor() *MemoryProcessor {
	return &MemoryProcessor{balances: make(map[string]int64)}
}

// Deposit tops up an account, creating it when absent.
func (p *MemoryProcessor) Deposit(ctx context.Context, id string, amount int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.balances[id] += amount
	return nil
}

// Balance reports an account's current balance.
func (p *MemoryProcessor) Balance(id string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balances[id]
}

func (p *MemoryProcessor) Transfer(ctx context.Context, from, to string, amount int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWith != nil {
		return p.FailWith
	}
	if amount < 0 {
		return common.ErrInsufficientBalance
	}
	if p.balances[from] < amount {
		return common.ErrInsufficientBalance
	}
	p.balances[from] -= amount
	p.balances[to] += amount
	return nil
}
