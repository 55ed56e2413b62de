package service_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type TradeService interface {
	Buy(ctx context.Context, owner domain.Identity, stockID int64, quantity int64, unitPrice decimal.Decimal) (domain.StockTransaction, error)
	Sell(ctx context.Context, owner domain.Identity, stockID int64, quantity int64, unitPrice decimal.Decimal) (domain.StockTransaction, error)
	ListVisible(ctx context.Context, caller domain.Identity) ([]domain.StockTransaction, error)
}
