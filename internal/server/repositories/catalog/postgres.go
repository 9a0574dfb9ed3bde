package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/airtimehq/airtime/internal/dbx"
	"github.com/airtimehq/airtime/internal/server/models"
)

// PostgresRepository implements the catalog over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Set(ctx context.Context, id uint32, pkg models.Package) error {
	query := `
		INSERT INTO packages (id, price, duration_secs, name, speed_label, is_popular)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			price = EXCLUDED.price,
			duration_secs = EXCLUDED.duration_secs,
			name = EXCLUDED.name,
			speed_label = EXCLUDED.speed_label,
			is_popular = EXCLUDED.is_popular
	`

	_, err := r.db.ExecContext(ctx, query,
		int64(id), pkg.Price, int64(pkg.DurationSecs), pkg.Name, pkg.SpeedLabel, pkg.IsPopular)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uint32) (*models.Package, error) {
	query := `
		SELECT price, duration_secs, name, speed_label, is_popular
		FROM packages WHERE id = $1
	`

	pkg := &models.Package{}
	var duration int64
	err := r.db.QueryRowContext(ctx, query, int64(id)).
		Scan(&pkg.Price, &duration, &pkg.Name, &pkg.SpeedLabel, &pkg.IsPopular)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	pkg.DurationSecs = uint32(duration)
	return pkg, nil
}

func (r *PostgresRepository) List(ctx context.Context, maxID uint32) ([]models.CatalogEntry, error) {
	query := `
		SELECT id, price, duration_secs, name, speed_label, is_popular
		FROM packages WHERE id BETWEEN 1 AND $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, int64(maxID))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	entries := make([]models.CatalogEntry, 0)
	for rows.Next() {
		var e models.CatalogEntry
		var id, duration int64
		if err := rows.Scan(&id, &e.Pkg.Price, &duration, &e.Pkg.Name, &e.Pkg.SpeedLabel, &e.Pkg.IsPopular); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		e.ID = uint32(id)
		e.Pkg.DurationSecs = uint32(duration)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return entries, nil
}
