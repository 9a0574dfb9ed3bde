package services

import (
	"context"
	"fmt"

	"github.com/airtimehq/airtime/internal/server/models"
)

// The projections below never mutate state and never fail for unseen owners:
// an owner that has not purchased anything reads back as a fresh, paused,
// zero-balance session. Only the mutating order operations report absence.

// GetSession returns owner's stored aggregate session.
func (s *Service) GetSession(ctx context.Context, owner string) (models.Session, error) {
	sess, err := s.repos.Sessions(s.dbHandle()).Get(ctx, owner)
	if err != nil {
		return models.Session{}, fmt.Errorf("reading session: %w", err)
	}
	return sess, nil
}

// GetOrderSession returns the stored per-order session.
func (s *Service) GetOrderSession(ctx context.Context, owner string, orderID uint64) (models.OrderSession, error) {
	osess, err := s.repos.Sessions(s.dbHandle()).GetOrder(ctx, owner, orderID)
	if err != nil {
		return models.OrderSession{}, fmt.Errorf("reading order session: %w", err)
	}
	return osess, nil
}

// Remaining returns owner's virtual remaining balance at now.
func (s *Service) Remaining(ctx context.Context, owner string, now uint64) (uint64, error) {
	sess, err := s.GetSession(ctx, owner)
	if err != nil {
		return 0, err
	}
	return sess.RemainingAt(now), nil
}

// RemainingByOrder returns the order's virtual remaining balance at now.
func (s *Service) RemainingByOrder(ctx context.Context, owner string, orderID uint64, now uint64) (uint64, error) {
	osess, err := s.GetOrderSession(ctx, owner, orderID)
	if err != nil {
		return 0, err
	}
	return osess.Session().RemainingAt(now), nil
}

// IsActive reports whether owner's aggregate session is running with a
// positive virtual balance at now.
func (s *Service) IsActive(ctx context.Context, owner string, now uint64) (bool, error) {
	sess, err := s.GetSession(ctx, owner)
	if err != nil {
		return false, err
	}
	return sess.ActiveAt(now), nil
}

// IsOrderActive reports whether the order's session is running with a
// positive virtual balance at now.
func (s *Service) IsOrderActive(ctx context.Context, owner string, orderID uint64, now uint64) (bool, error) {
	osess, err := s.GetOrderSession(ctx, owner, orderID)
	if err != nil {
		return false, err
	}
	return osess.Session().ActiveAt(now), nil
}

// GetAccess derives the access view: the predicted expiry moment while the
// aggregate session runs, 0 while paused.
func (s *Service) GetAccess(ctx context.Context, owner string) (models.Access, error) {
	sess, err := s.GetSession(ctx, owner)
	if err != nil {
		return models.Access{}, err
	}
	return sess.AccessAt(owner), nil
}

// GetActiveOrders scans owner's order list and returns, in list order, every
// order id whose session is running with a positive virtual balance at now.
func (s *Service) GetActiveOrders(ctx context.Context, owner string, now uint64) ([]uint64, error) {
	db := s.dbHandle()

	ids, err := s.repos.Orders(db).ListIDs(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	sessRepo := s.repos.Sessions(db)
	active := make([]uint64, 0, len(ids))
	for _, id := range ids {
		osess, err := sessRepo.GetOrder(ctx, owner, id)
		if err != nil {
			return nil, fmt.Errorf("reading order session %d: %w", id, err)
		}
		if osess.Session().ActiveAt(now) {
			active = append(active, id)
		}
	}
	return active, nil
}
