package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/airtimehq/airtime/internal/dbx"
	"github.com/airtimehq/airtime/internal/server/events"
)

// Grant moves the duration of owner's order into the usable time balances,
// exactly once per order. Either the buyer or the admin may call it, so an
// operator can recover a stuck credit without re-charging; the Credited flag
// is the sole guard against double-crediting, regardless of caller or call
// count. A repeat call fails with ErrAlreadyGranted and changes nothing.
func (s *Service) Grant(ctx context.Context, caller, owner string, orderID uint64) error {
	unlock := s.locks.lock(owner)
	defer unlock()

	admin, err := s.getAdmin(ctx, s.dbHandle())
	if err != nil {
		return err
	}
	if caller != admin && caller != owner {
		return common.ErrUnauthorized
	}
	if err := s.auth.RequireAuth(ctx, caller); err != nil {
		return err
	}

	var remaining uint64
	err = s.withTx(ctx, func(ctx context.Context, db dbx.DBTX) error {
		orderRepo := s.repos.Orders(db)

		rec, err := orderRepo.Get(ctx, owner, orderID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrOrderNotFound
			}
			return fmt.Errorf("reading order %d: %w", orderID, err)
		}
		if rec.Credited {
			return common.ErrAlreadyGranted
		}

		pkg, err := s.repos.Catalog(db).Get(ctx, rec.PackageID)
		if err != nil {
			// unreachable in practice: catalog entries are never deleted
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrPackageNotFound
			}
			return fmt.Errorf("reading package %d: %w", rec.PackageID, err)
		}
		secs := uint64(pkg.DurationSecs)

		sessRepo := s.repos.Sessions(db)

		sess, err := sessRepo.Get(ctx, owner)
		if err != nil {
			return fmt.Errorf("reading session: %w", err)
		}
		sess = sess.Credited(secs)
		if err := sessRepo.Save(ctx, owner, sess); err != nil {
			return fmt.Errorf("storing session: %w", err)
		}

		osess, err := sessRepo.GetOrder(ctx, owner, orderID)
		if err != nil {
			return fmt.Errorf("reading order session: %w", err)
		}
		osess = osess.WithSession(osess.Session().Credited(secs))
		if err := sessRepo.SaveOrder(ctx, owner, osess); err != nil {
			return fmt.Errorf("storing order session: %w", err)
		}

		rec.Credited = true
		if err := orderRepo.Save(ctx, owner, orderID, *rec); err != nil {
			return fmt.Errorf("storing order: %w", err)
		}

		remaining = sess.RemainingSecs
		return nil
	})
	if err != nil {
		return err
	}

	s.events.Publish(ctx, events.TopicGrant, map[string]any{
		"caller":         caller,
		"owner":          owner,
		"order_id":       orderID,
		"remaining_secs": remaining,
	})
	return nil
}
