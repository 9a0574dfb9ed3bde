// Package services contains the airtime engine: the order/session ledger and
// time-accounting rules that keep purchase, crediting and elapsed-time
// bookkeeping consistent, idempotent and authorization-correct.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/airtimehq/airtime/internal/dbx"
	"github.com/airtimehq/airtime/internal/logging"
	"github.com/airtimehq/airtime/internal/server/auth"
	"github.com/airtimehq/airtime/internal/server/events"
	"github.com/airtimehq/airtime/internal/server/payment"
	"github.com/airtimehq/airtime/internal/server/repositories/repomanager"
	"github.com/airtimehq/airtime/internal/server/repositories/settings"
)

// Service exposes the public operation surface of the engine. Every mutating
// operation authenticates its principal explicitly, runs its read-modify-write
// cycle as one unit (a database transaction, serialized per owner), and either
// commits all of its writes or none of them.
type Service struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	auth   auth.Authenticator
	pay    payment.Processor
	events events.Publisher
	logger logging.Logger

	// now supplies the ledger timestamp (unix seconds) for mutating
	// operations; read-only projections take an explicit timestamp instead.
	now func() uint64

	locks ownerLocks
}

// NewService wires the engine with its collaborators. db may be nil when the
// repository manager is memory-backed.
func NewService(db *sql.DB, rm repomanager.RepositoryManager, a auth.Authenticator,
	p payment.Processor, pub events.Publisher, l logging.Logger) *Service {
	return &Service{
		db:     db,
		repos:  rm,
		auth:   a,
		pay:    p,
		events: pub,
		logger: l.With("module", "engine"),
		now:    func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// withTx runs fn inside one database transaction, or directly against the
// memory-backed repositories when no database is configured.
func (s *Service) withTx(ctx context.Context, fn func(ctx context.Context, db dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// dbHandle returns the plain, non-transactional handle used by read-only
// queries.
func (s *Service) dbHandle() dbx.DBTX {
	if s.db == nil {
		return nil
	}
	return s.db
}

// getAdmin reads the configured admin identity, mapping an unset key to
// ErrNotInitialized.
func (s *Service) getAdmin(ctx context.Context, db dbx.DBTX) (string, error) {
	admin, err := s.repos.Settings(db).Get(ctx, settings.KeyAdmin)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotInitialized
		}
		return "", fmt.Errorf("reading admin identity: %w", err)
	}
	return admin, nil
}

// Admin returns the configured admin identity. Transports use it to decide
// who may mint tokens.
func (s *Service) Admin(ctx context.Context) (string, error) {
	return s.getAdmin(ctx, s.dbHandle())
}

func (s *Service) getPaymentAsset(ctx context.Context, db dbx.DBTX) (string, error) {
	asset, err := s.repos.Settings(db).Get(ctx, settings.KeyPaymentAsset)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotInitialized
		}
		return "", fmt.Errorf("reading payment asset: %w", err)
	}
	return asset, nil
}

// Init configures the admin and payment asset identities. It may run exactly
// once per store; repeated calls fail with ErrAlreadyInitialized.
func (s *Service) Init(ctx context.Context, admin, paymentAsset string) error {
	return s.withTx(ctx, func(ctx context.Context, db dbx.DBTX) error {
		repo := s.repos.Settings(db)

		exists, err := repo.Has(ctx, settings.KeyAdmin)
		if err != nil {
			return fmt.Errorf("checking initialization: %w", err)
		}
		if exists {
			return common.ErrAlreadyInitialized
		}

		if err := repo.Set(ctx, settings.KeyAdmin, admin); err != nil {
			return fmt.Errorf("storing admin identity: %w", err)
		}
		if err := repo.Set(ctx, settings.KeyPaymentAsset, paymentAsset); err != nil {
			return fmt.Errorf("storing payment asset: %w", err)
		}

		s.events.Publish(ctx, events.TopicInit, map[string]any{
			"admin":         admin,
			"payment_asset": paymentAsset,
		})
		return nil
	})
}

// ownerLocks serializes mutating operations per owner so that a
// read-modify-write cycle never interleaves with another one for the same
// state partition.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *ownerLocks) lock(owner string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[owner]
	if !ok {
		m = &sync.Mutex{}
		l.locks[owner] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
