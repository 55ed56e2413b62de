package service_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type LedgerService interface {
	Deposit(ctx context.Context, owner domain.Identity, amount decimal.Decimal) (domain.Movement, error)
	Withdraw(ctx context.Context, owner domain.Identity, amount decimal.Decimal) (domain.Movement, error)
	Close(ctx context.Context, owner domain.Identity) (domain.Account, error)
	UpdateStatus(ctx context.Context, caller domain.Identity, accountID int64, description string) (domain.Account, error)
	AccountOf(ctx context.Context, owner domain.Identity) (domain.Account, error)
}
