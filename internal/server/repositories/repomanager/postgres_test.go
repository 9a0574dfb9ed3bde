package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airtimehq/airtime/internal/server/repositories/catalog"
	"github.com/airtimehq/airtime/internal/server/repositories/orders"
	"github.com/airtimehq/airtime/internal/server/repositories/sessions"
	"github.com/airtimehq/airtime/internal/server/repositories/settings"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewPostgresRepositoryManager_ReturnsInterface(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m, err := NewPostgresRepositoryManager(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var _ RepositoryManager = m
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &PostgresRepositoryManager{}

	var _ settings.Repository = m.Settings(db)
	var _ catalog.Repository = m.Catalog(db)
	var _ orders.Repository = m.Orders(db)
	var _ sessions.Repository = m.Sessions(db)
}

func TestMemoryManager_SharesStateAcrossHandles(t *testing.T) {
	m := NewMemoryRepositoryManager()

	if err := m.Settings(nil).Set(context.Background(), settings.KeyAdmin, "GADMIN"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	v, err := m.Settings(nil).Get(context.Background(), settings.KeyAdmin)
	if err != nil || v != "GADMIN" {
		t.Fatalf("expected shared state, got %q, %v", v, err)
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}
