// Package catalog stores the admin-managed airtime package catalog.
// Entries can be overwritten but are never deleted.
package catalog

import (
	"context"

	"github.com/airtimehq/airtime/internal/server/models"
)

// Repository is the package catalog store. Get returns common.ErrNotFound
// for absent ids. List enumerates entries with id <= maxID in ascending id
// order, skipping absent ids; higher ids stay reachable through Get.
type Repository interface {
	Set(ctx context.Context, id uint32, pkg models.Package) error
	Get(ctx context.Context, id uint32) (*models.Package, error)
	List(ctx context.Context, maxID uint32) ([]models.CatalogEntry, error)
}
