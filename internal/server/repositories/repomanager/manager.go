// Package repomanager bundles the engine's repositories behind a single
// factory so services can rebind them to a transactional handle.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/airtimehq/airtime/internal/dbx"
	"github.com/airtimehq/airtime/internal/server/repositories/catalog"
	"github.com/airtimehq/airtime/internal/server/repositories/orders"
	"github.com/airtimehq/airtime/internal/server/repositories/sessions"
	"github.com/airtimehq/airtime/internal/server/repositories/settings"
)

// RepositoryManager vends repositories bound to a DBTX (*sql.DB for plain
// reads, *sql.Tx inside dbx.WithTx for read-modify-write cycles).
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Settings(db dbx.DBTX) settings.Repository
	Catalog(db dbx.DBTX) catalog.Repository
	Orders(db dbx.DBTX) orders.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
