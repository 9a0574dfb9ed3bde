package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/airtimehq/airtime/internal/dbx"
	"github.com/airtimehq/airtime/internal/server/models"
)

// PostgresRepository implements session storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the owner's aggregate session, or the zero (paused, empty)
// session when the owner has never been written.
func (r *PostgresRepository) Get(ctx context.Context, owner string) (models.Session, error) {
	query := `SELECT remaining_secs, started_at FROM sessions WHERE owner = $1`

	var remaining, started int64
	err := r.db.QueryRowContext(ctx, query, owner).Scan(&remaining, &started)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, nil
		}
		return models.Session{}, fmt.Errorf("db error: %w", err)
	}
	return models.Session{RemainingSecs: uint64(remaining), StartedAt: uint64(started)}, nil
}

func (r *PostgresRepository) Save(ctx context.Context, owner string, s models.Session) error {
	query := `
		INSERT INTO sessions (owner, remaining_secs, started_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner)
		DO UPDATE SET remaining_secs = EXCLUDED.remaining_secs, started_at = EXCLUDED.started_at
	`

	_, err := r.db.ExecContext(ctx, query, owner, int64(s.RemainingSecs), int64(s.StartedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetOrder returns the per-order session, or a zero session carrying the
// order id when none has been written yet.
func (r *PostgresRepository) GetOrder(ctx context.Context, owner string, orderID uint64) (models.OrderSession, error) {
	query := `
		SELECT remaining_secs, started_at FROM order_sessions
		WHERE owner = $1 AND order_id = $2
	`

	var remaining, started int64
	err := r.db.QueryRowContext(ctx, query, owner, int64(orderID)).Scan(&remaining, &started)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OrderSession{OrderID: orderID}, nil
		}
		return models.OrderSession{}, fmt.Errorf("db error: %w", err)
	}
	return models.OrderSession{
		OrderID:       orderID,
		RemainingSecs: uint64(remaining),
		StartedAt:     uint64(started),
	}, nil
}

func (r *PostgresRepository) SaveOrder(ctx context.Context, owner string, s models.OrderSession) error {
	query := `
		INSERT INTO order_sessions (owner, order_id, remaining_secs, started_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner, order_id)
		DO UPDATE SET remaining_secs = EXCLUDED.remaining_secs, started_at = EXCLUDED.started_at
	`

	_, err := r.db.ExecContext(ctx, query, owner, int64(s.OrderID), int64(s.RemainingSecs), int64(s.StartedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
