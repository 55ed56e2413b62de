package service_interfaces

import (
	"context"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type StockService interface {
	List(ctx context.Context) ([]domain.StockQuote, error)
	Lookup(ctx context.Context, symbol string) (domain.StockQuote, error)
}
