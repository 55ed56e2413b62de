package models

import (
	"github.com/shopspring/decimal"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type WalletResponse struct {
	StockID       int64           `json:"stockId"`
	StockName     string          `json:"stockName"`
	Quantity      int64           `json:"quantity"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
	DisplayValue  string          `json:"displayValue"`
	FallbackQuote bool            `json:"fallbackQuote"`
}

func NewWalletResponses(positions []domain.WalletPosition, currency domain.Currency) []WalletResponse {
	out := make([]WalletResponse, 0, len(positions))
	for _, position := range positions {
		out = append(out, WalletResponse{
			StockID:       position.StockID,
			StockName:     position.Symbol,
			Quantity:      position.Quantity,
			CurrentPrice:  position.Price,
			CurrentValue:  position.MarketValue,
			DisplayValue:  currency.Format(position.MarketValue),
			FallbackQuote: position.FallbackQuote,
		})
	}
	return out
}

type StockQuantityResponse struct {
	StockID  int64 `json:"stockId"`
	Quantity int64 `json:"quantity"`
}
