package services

import (
	"context"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
	"github.com/api-sage/brokerage-ledger/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.HistoryService = (*HistoryService)(nil)

// HistoryService serves read-only projections over movements. Reads never
// feed a mutation's pre-condition checks.
type HistoryService struct {
	store  repo_interfaces.Store
	ledger *LedgerService
}

func NewHistoryService(store repo_interfaces.Store, ledger *LedgerService) *HistoryService {
	return &HistoryService{store: store, ledger: ledger}
}

// HistoryFor lists every movement of the owner's ACTIVE account in insertion
// order.
func (s *HistoryService) HistoryFor(ctx context.Context, owner domain.Identity) ([]domain.Movement, error) {
	account, err := s.ledger.ActiveAccount(ctx, owner)
	if err != nil {
		return nil, err
	}

	movements, err := s.store.Repositories().Movements.ListByAccount(ctx, account.ID)
	if err != nil {
		logger.Error("history service history for failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return nil, err
	}
	return movements, nil
}

// RecentMovements lists movements of all accounts, newest first. limit is
// clamped to VisibleLimit.
func (s *HistoryService) RecentMovements(ctx context.Context, limit int) ([]domain.Movement, error) {
	if limit <= 0 || limit > VisibleLimit {
		limit = VisibleLimit
	}

	movements, err := s.store.Repositories().Movements.ListRecent(ctx, limit)
	if err != nil {
		logger.Error("history service recent movements failed", err, logger.Fields{
			"limit": limit,
		})
		return nil, err
	}
	return movements, nil
}

// History picks the projection by caller: a client gets its own history, an
// admin the global recent feed.
func (s *HistoryService) History(ctx context.Context, caller domain.Identity) ([]domain.Movement, error) {
	switch caller.(type) {
	case domain.Client:
		return s.HistoryFor(ctx, caller)
	case domain.Admin:
		return s.RecentMovements(ctx, VisibleLimit)
	default:
		return nil, commons.ErrUnsupportedRole
	}
}
