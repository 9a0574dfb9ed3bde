package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/airtimehq/airtime/internal/dbx"
	"github.com/airtimehq/airtime/internal/server/models"
)

// PostgresRepository implements the order ledger over a dbx.DBTX
// (*sql.DB or *sql.Tx). Callers are expected to run the whole
// allocate/create/append sequence of a purchase inside one transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// AllocateNextID bumps the owner's counter row and returns the new value.
// The row is created lazily on the first purchase, so the sequence starts at 1.
func (r *PostgresRepository) AllocateNextID(ctx context.Context, owner string) (uint64, error) {
	query := `
		INSERT INTO order_counters (owner, last_id) VALUES ($1, 1)
		ON CONFLICT (owner)
		DO UPDATE SET last_id = order_counters.last_id + 1
		RETURNING last_id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, owner).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return uint64(id), nil
}

func (r *PostgresRepository) Create(ctx context.Context, owner string, orderID uint64, rec models.OrderRec) error {
	query := `
		INSERT INTO orders (owner, order_id, package_id, credited)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, owner, int64(orderID), int64(rec.PackageID), rec.Credited)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, owner string, orderID uint64) (*models.OrderRec, error) {
	query := `
		SELECT package_id, credited FROM orders
		WHERE owner = $1 AND order_id = $2
	`

	rec := &models.OrderRec{}
	var packageID int64
	err := r.db.QueryRowContext(ctx, query, owner, int64(orderID)).Scan(&packageID, &rec.Credited)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	rec.PackageID = uint32(packageID)
	return rec, nil
}

func (r *PostgresRepository) Save(ctx context.Context, owner string, orderID uint64, rec models.OrderRec) error {
	query := `
		UPDATE orders SET package_id = $3, credited = $4
		WHERE owner = $1 AND order_id = $2
	`

	res, err := r.db.ExecContext(ctx, query, owner, int64(orderID), int64(rec.PackageID), rec.Credited)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Append(ctx context.Context, owner string, orderID uint64) error {
	query := `INSERT INTO user_orders (owner, order_id) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, owner, int64(orderID)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListIDs returns the owner's order ids in append (purchase) order.
func (r *PostgresRepository) ListIDs(ctx context.Context, owner string) ([]uint64, error) {
	query := `SELECT order_id FROM user_orders WHERE owner = $1 ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		ids = append(ids, uint64(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return ids, nil
}
