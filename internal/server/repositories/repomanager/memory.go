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

// MemoryRepositoryManager vends shared in-memory repositories. The DBTX
// argument is ignored; state lives in the manager for the process lifetime.
// Intended for tests and local development.
type MemoryRepositoryManager struct {
	settings *settings.MemoryRepository
	catalog  *catalog.MemoryRepository
	orders   *orders.MemoryRepository
	sessions *sessions.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		settings: settings.NewMemoryRepository(),
		catalog:  catalog.NewMemoryRepository(),
		orders:   orders.NewMemoryRepository(),
		sessions: sessions.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return m.settings
}

func (m *MemoryRepositoryManager) Catalog(db dbx.DBTX) catalog.Repository {
	return m.catalog
}

func (m *MemoryRepositoryManager) Orders(db dbx.DBTX) orders.Repository {
	return m.orders
}

func (m *MemoryRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return m.sessions
}

// OrderRepo exposes the concrete in-memory order repository for tests that
// need to manipulate records directly.
func (m *MemoryRepositoryManager) OrderRepo() *orders.MemoryRepository {
	return m.orders
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
