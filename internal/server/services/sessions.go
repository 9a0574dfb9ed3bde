package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/airtimehq/airtime/internal/dbx"
	"github.com/airtimehq/airtime/internal/server/events"
)

// Start begins consuming owner's aggregate time balance. A no-op (no state
// change, no event) when the balance is exhausted or already running; a
// repeated start never resets the running clock.
func (s *Service) Start(ctx context.Context, owner string) error {
	if err := s.auth.RequireAuth(ctx, owner); err != nil {
		return err
	}

	unlock := s.locks.lock(owner)
	defer unlock()

	now := s.now()
	return s.withTx(ctx, func(ctx context.Context, db dbx.DBTX) error {
		repo := s.repos.Sessions(db)

		sess, err := repo.Get(ctx, owner)
		if err != nil {
			return fmt.Errorf("reading session: %w", err)
		}

		next, changed := sess.Started(now)
		if !changed {
			return nil
		}
		if err := repo.Save(ctx, owner, next); err != nil {
			return fmt.Errorf("storing session: %w", err)
		}

		s.events.Publish(ctx, events.TopicStart, map[string]any{
			"owner":      owner,
			"started_at": now,
		})
		return nil
	})
}

// Pause freezes owner's aggregate balance, checkpointing the elapsed running
// time. A no-op while already paused.
func (s *Service) Pause(ctx context.Context, owner string) error {
	if err := s.auth.RequireAuth(ctx, owner); err != nil {
		return err
	}

	unlock := s.locks.lock(owner)
	defer unlock()

	now := s.now()
	return s.withTx(ctx, func(ctx context.Context, db dbx.DBTX) error {
		repo := s.repos.Sessions(db)

		sess, err := repo.Get(ctx, owner)
		if err != nil {
			return fmt.Errorf("reading session: %w", err)
		}

		next, changed := sess.Paused(now)
		if !changed {
			return nil
		}
		if err := repo.Save(ctx, owner, next); err != nil {
			return fmt.Errorf("storing session: %w", err)
		}

		s.events.Publish(ctx, events.TopicPause, map[string]any{
			"owner":          owner,
			"remaining_secs": next.RemainingSecs,
		})
		return nil
	})
}

// requireCreditedOrder loads owner's order and verifies it has been granted.
func (s *Service) requireCreditedOrder(ctx context.Context, db dbx.DBTX, owner string, orderID uint64) error {
	rec, err := s.repos.Orders(db).Get(ctx, owner, orderID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrOrderNotFound
		}
		return fmt.Errorf("reading order %d: %w", orderID, err)
	}
	if !rec.Credited {
		return common.ErrNotCredited
	}
	return nil
}

// StartOrder begins consuming the balance of one credited order. Same no-op
// rules as Start.
func (s *Service) StartOrder(ctx context.Context, owner string, orderID uint64) error {
	if err := s.auth.RequireAuth(ctx, owner); err != nil {
		return err
	}

	unlock := s.locks.lock(owner)
	defer unlock()

	now := s.now()
	return s.withTx(ctx, func(ctx context.Context, db dbx.DBTX) error {
		if err := s.requireCreditedOrder(ctx, db, owner, orderID); err != nil {
			return err
		}

		repo := s.repos.Sessions(db)
		osess, err := repo.GetOrder(ctx, owner, orderID)
		if err != nil {
			return fmt.Errorf("reading order session: %w", err)
		}

		next, changed := osess.Session().Started(now)
		if !changed {
			return nil
		}
		if err := repo.SaveOrder(ctx, owner, osess.WithSession(next)); err != nil {
			return fmt.Errorf("storing order session: %w", err)
		}

		s.events.Publish(ctx, events.TopicOrderStart, map[string]any{
			"owner":      owner,
			"order_id":   orderID,
			"started_at": now,
		})
		return nil
	})
}

// PauseOrder freezes the balance of one credited order. Same no-op rules as
// Pause.
func (s *Service) PauseOrder(ctx context.Context, owner string, orderID uint64) error {
	if err := s.auth.RequireAuth(ctx, owner); err != nil {
		return err
	}

	unlock := s.locks.lock(owner)
	defer unlock()

	now := s.now()
	return s.withTx(ctx, func(ctx context.Context, db dbx.DBTX) error {
		if err := s.requireCreditedOrder(ctx, db, owner, orderID); err != nil {
			return err
		}

		repo := s.repos.Sessions(db)
		osess, err := repo.GetOrder(ctx, owner, orderID)
		if err != nil {
			return fmt.Errorf("reading order session: %w", err)
		}

		next, changed := osess.Session().Paused(now)
		if !changed {
			return nil
		}
		if err := repo.SaveOrder(ctx, owner, osess.WithSession(next)); err != nil {
			return fmt.Errorf("storing order session: %w", err)
		}

		s.events.Publish(ctx, events.TopicOrderPause, map[string]any{
			"owner":          owner,
			"order_id":       orderID,
			"remaining_secs": next.RemainingSecs,
		})
		return nil
	})
}
