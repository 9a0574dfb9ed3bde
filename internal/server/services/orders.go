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

// dbg emits a diagnostic breadcrumb around the purchase flow. Breadcrumbs are
// fire-and-forget and exist to localize failures of the external payment step.
func (s *Service) dbg(ctx context.Context, step string) {
	s.events.Publish(ctx, events.TopicPurchaseDebug, step)
}

// BuyOrder records a paid purchase of packageID for owner and returns the new
// order id. The payment transfer runs first; only after it succeeds are the
// counter, the order record and the order-list entry written, all inside one
// transaction. A failed transfer leaves no ledger state behind.
func (s *Service) BuyOrder(ctx context.Context, owner string, packageID uint32) (uint64, error) {
	if err := s.auth.RequireAuth(ctx, owner); err != nil {
		return 0, err
	}

	unlock := s.locks.lock(owner)
	defer unlock()

	s.dbg(ctx, "start")

	admin, err := s.getAdmin(ctx, s.dbHandle())
	if err != nil {
		s.dbg(ctx, "err_no_admin")
		return 0, err
	}
	asset, err := s.getPaymentAsset(ctx, s.dbHandle())
	if err != nil {
		s.dbg(ctx, "err_no_asset")
		return 0, err
	}

	pkg, err := s.repos.Catalog(s.dbHandle()).Get(ctx, packageID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.dbg(ctx, "err_pkg_nf")
			return 0, common.ErrPackageNotFound
		}
		return 0, fmt.Errorf("reading package %d: %w", packageID, err)
	}

	s.dbg(ctx, "before_transfer")
	if err := s.pay.Transfer(ctx, owner, admin, pkg.Price); err != nil {
		return 0, err
	}
	s.dbg(ctx, "after_transfer")

	var orderID uint64
	err = s.withTx(ctx, func(ctx context.Context, db dbx.DBTX) error {
		repo := s.repos.Orders(db)

		orderID, err = repo.AllocateNextID(ctx, owner)
		if err != nil {
			return fmt.Errorf("allocating order id: %w", err)
		}
		if err := repo.Create(ctx, owner, orderID, models.OrderRec{PackageID: packageID}); err != nil {
			return fmt.Errorf("storing order: %w", err)
		}
		if err := repo.Append(ctx, owner, orderID); err != nil {
			return fmt.Errorf("appending order id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.events.Publish(ctx, events.TopicPurchase, map[string]any{
		"owner":      owner,
		"package_id": packageID,
		"order_id":   orderID,
		"price":      pkg.Price,
		"asset":      asset,
	})
	s.dbg(ctx, "done")
	return orderID, nil
}

// GetUserOrdersList returns owner's order ids in purchase order.
func (s *Service) GetUserOrdersList(ctx context.Context, owner string) ([]uint64, error) {
	ids, err := s.repos.Orders(s.dbHandle()).ListIDs(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return ids, nil
}

// GetUserPackages joins the order list against stored order records. An id
// whose record is missing is skipped; that should not occur under normal
// operation but must not break the listing.
func (s *Service) GetUserPackages(ctx context.Context, owner string) ([]models.UserPackage, error) {
	repo := s.repos.Orders(s.dbHandle())

	ids, err := repo.ListIDs(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	out := make([]models.UserPackage, 0, len(ids))
	for _, id := range ids {
		rec, err := repo.Get(ctx, owner, id)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("reading order %d: %w", id, err)
		}
		out = append(out, models.UserPackage{OrderID: id, PackageID: rec.PackageID, Credited: rec.Credited})
	}
	return out, nil
}
