package service_interfaces

import (
	"context"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type WalletService interface {
	Wallet(ctx context.Context, owner domain.Identity) ([]domain.WalletPosition, error)
	StockQuantity(ctx context.Context, owner domain.Identity, stockID int64) (int64, error)
}
