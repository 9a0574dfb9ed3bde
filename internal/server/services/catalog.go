package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/airtimehq/airtime/internal/dbx"
	"github.com/airtimehq/airtime/internal/server/events"
	"github.com/airtimehq/airtime/internal/server/models"
)

// allPackagesIDCeiling bounds the id range scanned by GetAllPackages.
// The catalog accepts arbitrary ids, but enumeration only ever covers
// 1..=10; higher ids stay reachable through GetPackage.
const allPackagesIDCeiling = 10

// SetPackage creates or overwrites the catalog entry at id. Admin only.
func (s *Service) SetPackage(ctx context.Context, id uint32, pkg models.Package) error {
	return s.withTx(ctx, func(ctx context.Context, db dbx.DBTX) error {
		admin, err := s.getAdmin(ctx, db)
		if err != nil {
			return err
		}
		if err := s.auth.RequireAuth(ctx, admin); err != nil {
			return err
		}

		if err := s.repos.Catalog(db).Set(ctx, id, pkg); err != nil {
			return fmt.Errorf("storing package %d: %w", id, err)
		}

		s.events.Publish(ctx, events.TopicPackageSet, map[string]any{
			"id":            id,
			"price":         pkg.Price,
			"duration_secs": pkg.DurationSecs,
		})
		return nil
	})
}

// GetPackage returns the catalog entry at id or ErrPackageNotFound.
func (s *Service) GetPackage(ctx context.Context, id uint32) (*models.Package, error) {
	pkg, err := s.repos.Catalog(s.dbHandle()).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrPackageNotFound
		}
		return nil, fmt.Errorf("reading package %d: %w", id, err)
	}
	return pkg, nil
}

// GetAllPackages enumerates the catalog entries with ids 1..=10 in ascending
// order, skipping absent ids.
func (s *Service) GetAllPackages(ctx context.Context) ([]models.CatalogEntry, error) {
	entries, err := s.repos.Catalog(s.dbHandle()).List(ctx, allPackagesIDCeiling)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	return entries, nil
}
