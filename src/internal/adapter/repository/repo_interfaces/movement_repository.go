package repo_interfaces

import (
	"context"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type MovementRepository interface {
	Create(ctx context.Context, movement domain.Movement) (domain.Movement, error)
	// ListByAccount returns movements in insertion order.
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Movement, error)
	// ListRecent returns at most limit movements, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.Movement, error)
}
