package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/airtimehq/airtime/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

// checkViolationCode is the SQLSTATE raised when the accounts balance check
// rejects an overdraft.
const checkViolationCode = "23514"

// PostgresProcessor is an internal accounts ledger: each principal has one
// row in the accounts table and Transfer debits and credits inside a single
// transaction. A debit below zero trips the balance check and surfaces as
// common.ErrInsufficientBalance.
type PostgresProcessor struct {
	db *sql.DB
}

func NewPostgresProcessor(db *sql.DB) *PostgresProcessor {
	return &PostgresProcessor{db: db}
}

func (p *PostgresProcessor) Transfer(ctx context.Context, from, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("negative transfer amount %d", amount)
	}
	if amount == 0 {
		return nil
	}

	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		debit := `UPDATE accounts SET balance = balance - $2 WHERE id = $1`
		res, err := tx.ExecContext(ctx, debit, from, amount)
		if err != nil {
			// the CHECK (balance >= 0) constraint rejects overdrafts
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == checkViolationCode {
				return common.ErrInsufficientBalance
			}
			return fmt.Errorf("db error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected error: %w", err)
		}
		if n == 0 {
			return common.ErrInsufficientBalance
		}

		credit := `
			INSERT INTO accounts (id, balance) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance
		`
		if _, err := tx.ExecContext(ctx, credit, to, amount); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

// Deposit tops up an account, creating it when absent. Used by operational
// tooling and tests to fund buyer accounts.
func (p *PostgresProcessor) Deposit(ctx context.Context, id string, amount int64) error {
	if amount < 0 {
		return errors.New("negative deposit")
	}
	query := `
		INSERT INTO accounts (id, balance) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance
	`
	if _, err := p.db.ExecContext(ctx, query, id, amount); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
