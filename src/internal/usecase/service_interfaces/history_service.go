package service_interfaces

import (
	"context"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type HistoryService interface {
	History(ctx context.Context, caller domain.Identity) ([]domain.Movement, error)
}
