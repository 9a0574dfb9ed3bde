package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProcessor_Transfer(t *testing.T) {
	p := NewMemoryProcessor()
	ctx := context.Background()

	require.NoError(t, p.Deposit(ctx, "GALICE", 500))

	require.NoError(t, p.Transfer(ctx, "GALICE", "GADMIN", 100))
	assert.Equal(t, int64(400), p.Balance("GALICE"))
	assert.Equal(t, int64(100), p.Balance("GADMIN"))
}

func TestMemoryProcessor_InsufficientBalance(t *testing.T) {
	p := NewMemoryProcessor()
	ctx := context.Background()

	require.NoError(t, p.Deposit(ctx, "GALICE", 50))

	err := p.Transfer(ctx, "GALICE", "GADMIN", 100)
	require.ErrorIs(t, err, common.ErrInsufficientBalance)

	// balances untouched on failure
	assert.Equal(t, int64(50), p.Balance("GALICE"))
	assert.Equal(t, int64(0), p.Balance("GADMIN"))
}

func TestMemoryProcessor_FailWith(t *testing.T) {
	p := NewMemoryProcessor()
	ctx := context.Background()

	require.NoError(t, p.Deposit(ctx, "GALICE", 500))
	boom := errors.New("processor offline")
	p.FailWith = boom

	err := p.Transfer(ctx, "GALICE", "GADMIN", 100)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int64(500), p.Balance("GALICE"))
}
