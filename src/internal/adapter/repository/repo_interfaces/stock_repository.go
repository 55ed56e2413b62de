package repo_interfaces

import (
	"context"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type StockRepository interface {
	GetByID(ctx context.Context, stockID int64) (domain.Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (domain.Stock, error)
	GetAll(ctx context.Context) ([]domain.Stock, error)
	// Register returns the stock for symbol, creating it when absent.
	Register(ctx context.Context, symbol string) (domain.Stock, error)
}

type StockPositionRepository interface {
	// GetQuantity returns 0 when the account never traded the stock.
	GetQuantity(ctx context.Context, accountID int64, stockID int64) (int64, error)
	HasOpenPosition(ctx context.Context, accountID int64) (bool, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.StockPosition, error)
	// Apply adds delta to the position, creating it on first touch. A result
	// below zero is rejected with commons.ErrNegativeQuantity.
	Apply(ctx context.Context, accountID int64, stockID int64, delta int64) (domain.StockPosition, error)
}

type StockTransactionRepository interface {
	Create(ctx context.Context, transaction domain.StockTransaction) (domain.StockTransaction, error)
	// ListByAccount and ListRecent return newest first, capped at limit.
	ListByAccount(ctx context.Context, accountID int64, limit int) ([]domain.StockTransaction, error)
	ListRecent(ctx context.Context, limit int) ([]domain.StockTransaction, error)
}
